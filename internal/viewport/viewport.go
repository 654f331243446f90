// Package viewport maps between render space, the scaled and letterboxed
// window pixels the pointer reports, and image space, the pixels of the
// captured image at native resolution.
package viewport

import (
	"github.com/chewxy/math32"

	"github.com/example/grabmark/internal/geom"
)

// Transform is recomputed once per frame before any conversion.
//
// Ratio is image pixels per render pixel, Origin the render-space position of
// the displayed image's top left corner and AreaMin the image-space corner of
// the current crop area.
type Transform struct {
	Ratio   float32
	Origin  geom.Point
	AreaMin geom.Point
}

// Identity maps render space one to one onto the crop area.
func Identity(areaMin geom.Point) Transform {
	return Transform{Ratio: 1, AreaMin: areaMin}
}

// Fit scales an image of imageSize to fit avail preserving aspect ratio and
// centres it. Images smaller than avail are shown at native size. A
// degenerate avail or image yields ratio 1 anchored at avail.Min.
func Fit(avail geom.Rect, imageSize, areaMin geom.Point) Transform {
	aw, ah := avail.Dx(), avail.Dy()
	if aw <= 0 || ah <= 0 || imageSize.X <= 0 || imageSize.Y <= 0 {
		return Transform{Ratio: 1, Origin: avail.Min, AreaMin: areaMin}
	}
	ratio := math32.Max(imageSize.X/aw, imageSize.Y/ah)
	if ratio < 1 {
		ratio = 1
	}
	shown := imageSize.Div(ratio)
	origin := geom.Pt(
		avail.Min.X+(aw-shown.X)/2,
		avail.Min.Y+(ah-shown.Y)/2,
	)
	return Transform{Ratio: ratio, Origin: origin, AreaMin: areaMin}
}

// ToImage converts a render-space point to image space.
func (t Transform) ToImage(p geom.Point) geom.Point {
	return p.Sub(t.Origin).Mul(t.ratio()).Add(t.AreaMin)
}

// ToRender converts an image-space point to render space.
func (t Transform) ToRender(p geom.Point) geom.Point {
	return p.Sub(t.AreaMin).Div(t.ratio()).Add(t.Origin)
}

// LengthToRender scales an image-space length such as a stroke width or a
// radius for display.
func (t Transform) LengthToRender(l float32) float32 { return l / t.ratio() }

func (t Transform) LengthToImage(l float32) float32 { return l * t.ratio() }

func (t Transform) RectToRender(r geom.Rect) geom.Rect {
	return geom.Rect{Min: t.ToRender(r.Min), Max: t.ToRender(r.Max)}
}

func (t Transform) RectToImage(r geom.Rect) geom.Rect {
	return geom.Rect{Min: t.ToImage(r.Min), Max: t.ToImage(r.Max)}
}

// Display returns the render-space rectangle covered by an image of
// imageSize whose top left corner sits at AreaMin.
func (t Transform) Display(imageSize geom.Point) geom.Rect {
	return geom.Rect{Min: t.Origin, Max: t.Origin.Add(imageSize.Div(t.ratio()))}
}

func (t Transform) ratio() float32 {
	if t.Ratio <= 0 {
		return 1
	}
	return t.Ratio
}
