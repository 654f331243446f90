package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/render"
	"github.com/example/grabmark/internal/selection"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
	"github.com/example/grabmark/internal/viewport"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const editorTextSize = 14

var toastBackground = color.RGBA{255, 255, 255, 230}

// paintState is a copy of everything a frame needs, taken on the event
// goroutine and drawn on the paint goroutine.
type paintState struct {
	window      image.Point
	status      Status
	theme       *theme.Theme
	image       *image.RGBA
	area        image.Rectangle
	transform   viewport.Transform
	canvas      geom.Rect
	annotations []annotate.Annotation
	selection   selection.State
	text        *session.TextEdit
	stroke      annotate.StrokeStyle
	buttons     []placedFace
	statusLine  string
	message     string
	messageErr  bool
}

// snapshot captures the current frame. The layout is recomputed first.
func (e *Editor) snapshot() paintState {
	e.layout()
	anns := e.history.Visible()
	if n := len(anns); n > 0 && e.history.Draft() != nil {
		anns[n-1] = annotate.Clone(anns[n-1])
	}
	st := paintState{
		window:      e.window,
		status:      e.status,
		theme:       e.theme,
		image:       e.image,
		area:        e.Area(),
		transform:   e.transform,
		canvas:      e.canvas,
		annotations: anns,
		selection:   *e.selection,
		stroke:      e.session.Stroke(),
		statusLine:  e.statusLine(),
	}
	if e.status == StatusCrop {
		st.area = e.image.Bounds()
	}
	if te, ok := e.session.TextEdit(); ok && e.status == StatusMain {
		st.text = &te
	}
	for _, b := range e.activeButtons() {
		st.buttons = append(st.buttons, placedFace{face: b.face(b.state(e.hover, e.pressed)), at: b.rect.Min})
	}
	if e.messageActive() {
		st.message = e.message
		st.messageErr = e.messageErr
	}
	return st
}

// paint draws the frame into dst, giving up early when ctx is cancelled.
func (st paintState) paint(ctx context.Context, dst *image.RGBA, cache *buttonCache) {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	shown := render.View(dst, st.image, st.area, st.transform)
	if ctx.Err() != nil {
		return
	}
	if clip, ok := dst.SubImage(shown).(*image.RGBA); ok {
		render.Annotations(clip, st.annotations, st.transform)
	}
	if ctx.Err() != nil {
		return
	}

	switch st.status {
	case StatusCrop:
		sel := st.selection
		render.Selection(dst, &sel, geom.FromImage(st.window), true)
	default:
		bar := image.Rect(0, 0, st.window.X, toolbarHeight)
		draw.Draw(dst, bar, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
		bottom := image.Rect(0, st.window.Y-statusHeight, st.window.X, st.window.Y)
		draw.Draw(dst, bottom, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
		if err := render.DrawLabel(dst, buttonPad, bottom.Min.Y+4, st.statusLine, th.StatusText, labelSize); err != nil {
			log.Printf("status: %v", err)
		}
		if st.text != nil {
			st.drawTextEditor(dst)
		}
	}
	if ctx.Err() != nil {
		return
	}

	for _, b := range st.buttons {
		cache.draw(dst, th, b)
	}
	if st.message != "" {
		st.drawMessage(dst)
	}
}

// drawTextEditor shows the floating single line editor with a caret.
func (st paintState) drawTextEditor(dst *image.RGBA) {
	th := st.theme
	content := st.text.Content + "|"
	w, ascent, descent, err := render.MeasureText(content, editorTextSize)
	if err != nil {
		log.Printf("text editor: %v", err)
		return
	}
	if w < 120 {
		w = 120
	}
	at := st.text.Editor.Image()
	box := image.Rect(at.X, at.Y, at.X+w+12, at.Y+ascent+descent+10)
	render.Fill(dst, box, th.ButtonBackground)
	render.Outline(dst, box, th.ButtonBorder)
	c := st.stroke.Color
	if c.A == 0 {
		c = th.ButtonText
	}
	if err := render.DrawLabel(dst, box.Min.X+6, box.Min.Y+5, content, c, editorTextSize); err != nil {
		log.Printf("text editor: %v", err)
	}
}

// drawMessage shows the toast above the status bar.
func (st paintState) drawMessage(dst *image.RGBA) {
	th := st.theme
	w, ascent, descent, err := render.MeasureText(st.message, labelSize)
	if err != nil {
		log.Printf("message: %v", err)
		return
	}
	px := (st.window.X - w) / 2
	py := st.window.Y - statusHeight - ascent - descent - 24
	rect := image.Rect(px-8, py-8, px+w+8, py+ascent+descent+8)
	render.Fill(dst, rect, toastBackground)
	col := th.StatusText
	if st.messageErr {
		col = th.StatusError
	}
	render.Outline(dst, rect, col)
	if err := render.DrawLabel(dst, px, py, st.message, col, labelSize); err != nil {
		log.Printf("message: %v", err)
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, cache *buttonCache) {
	if st.window.X <= 0 || st.window.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(st.window)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	st.paint(ctx, b.RGBA(), cache)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
