// Package render rasterises annotations, selection overlays and the editor
// view onto RGBA buffers, and composes the exported image.
package render

import (
	"image"
	"log"

	"github.com/chewxy/math32"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/viewport"
)

// Annotations draws anns in order with t mapping image space onto dst.
func Annotations(dst *image.RGBA, anns []annotate.Annotation, t viewport.Transform) {
	for _, a := range anns {
		Annotation(dst, a, t)
	}
}

// Annotation draws a single annotation. Widths, radii and font sizes are
// stored in image space and scaled by the transform.
func Annotation(dst *image.RGBA, a annotate.Annotation, t viewport.Transform) {
	st := a.Stroke()
	thick := penWidth(t.LengthToRender(st.Width))
	c := st.Color
	switch a := a.(type) {
	case annotate.Brush:
		if len(a.Points) == 0 {
			return
		}
		prev := t.ToRender(a.Points[0]).Image()
		stamp(dst, prev.X, prev.Y, thick, c)
		for _, p := range a.Points[1:] {
			q := t.ToRender(p).Image()
			line(dst, prev.X, prev.Y, q.X, q.Y, thick, c)
			prev = q
		}
	case annotate.Rectangle:
		r := t.RectToRender(a.Rect.Canon())
		rect(dst, image.Rectangle{Min: r.Min.Image(), Max: r.Max.Image()}, thick, c)
	case annotate.Circle:
		ctr := t.ToRender(a.Center).Image()
		r := int(math32.Round(t.LengthToRender(a.Radius)))
		circle(dst, ctr.X, ctr.Y, r, thick, c)
	case annotate.Arrow:
		o := t.ToRender(a.Origin).Image()
		tip := t.ToRender(a.Tip()).Image()
		arrow(dst, o.X, o.Y, tip.X, tip.Y, thick, c)
	case annotate.Text:
		if a.Content == "" {
			return
		}
		p := t.ToRender(a.Position).Image()
		size := float64(t.LengthToRender(a.FontSize()))
		if err := DrawText(dst, p.X, p.Y, a.Content, c, size); err != nil {
			log.Printf("render text: %v", err)
		}
	}
}

func penWidth(w float32) int {
	if w < 1 {
		return 1
	}
	return int(math32.Round(w))
}

// TextBounds measures a text annotation in image space.
func TextBounds(a annotate.Text) geom.Rect {
	w, ascent, descent, err := MeasureText(a.Content, float64(a.FontSize()))
	if err != nil {
		return a.Bounds()
	}
	h := float32(ascent + descent)
	return geom.Rect{
		Min: geom.Pt(a.Position.X, a.Position.Y-h/2),
		Max: geom.Pt(a.Position.X+float32(w), a.Position.Y+h/2),
	}
}
