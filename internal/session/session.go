// Package session drives the annotation history from per-frame pointer input.
//
// A Session is ticked once per frame with the input snapshot, the transform
// computed for that frame and the render-space canvas rectangle. Brush
// strokes, shape previews and text being typed live in the history's draft
// slot; they are committed on release, or when the text editor loses focus.
package session

import (
	"image/color"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/viewport"
)

// Text editor placement relative to the click, in render pixels.
const (
	EditorOffsetBelow float32 = 20
	EditorOffsetAbove float32 = 95
	EditorFlipMargin  float32 = 97
)

var defaultColor = color.RGBA{R: 255, A: 255}

// TextEdit is an open text editing session.
type TextEdit struct {
	// Anchor is the image-space left-centre point of the label.
	Anchor geom.Point
	// Editor is the render-space top left corner of the floating editor.
	Editor  geom.Point
	Content string
}

// Session is the drawing state for one editor window.
type Session struct {
	history *annotate.History
	mode    Mode
	stroke  annotate.StrokeStyle

	dragging   bool
	initialPos geom.Point
	lastPos    geom.Point

	text *TextEdit
}

// Option configures a Session.
type Option func(*Session)

// WithMode sets the initial drawing mode.
func WithMode(m Mode) Option { return func(s *Session) { s.mode = m } }

// WithStroke sets the initial pen.
func WithStroke(st annotate.StrokeStyle) Option {
	return func(s *Session) { s.stroke = st.Clamp() }
}

// New returns a session editing h.
func New(h *annotate.History, opts ...Option) *Session {
	s := &Session{
		history: h,
		mode:    ModeBrush,
		stroke:  annotate.NewStrokeStyle(2, defaultColor),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) History() *annotate.History { return s.history }

func (s *Session) Mode() Mode { return s.mode }

// SetMode switches tools. Committed annotations are never touched; any in
// progress stroke or preview is dropped and an open text editor is closed,
// committing what was typed.
func (s *Session) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.EndText()
	s.abandon()
	s.mode = m
}

func (s *Session) Stroke() annotate.StrokeStyle { return s.stroke }

// SetStroke changes the pen for the next annotation. Text being typed picks
// up the new pen immediately.
func (s *Session) SetStroke(st annotate.StrokeStyle) {
	s.stroke = st.Clamp()
	if s.text != nil {
		s.refreshTextDraft()
	}
}

// Dragging reports whether a pointer gesture is in progress.
func (s *Session) Dragging() bool { return s.dragging }

// Preview returns the in-progress annotation, if any.
func (s *Session) Preview() annotate.Annotation { return s.history.Draft() }

// TextEdit returns the open text editor.
func (s *Session) TextEdit() (TextEdit, bool) {
	if s.text == nil {
		return TextEdit{}, false
	}
	return *s.text, true
}

// Tick advances the state machine by one frame. canvas is the render-space
// rectangle where the image is displayed; pointer positions outside it are
// treated as having left the canvas.
func (s *Session) Tick(in input.Input, t viewport.Transform, canvas geom.Rect) {
	hover, inside := s.canvasPos(in, canvas)

	if in.Primary.Clicked && s.mode == ModeText {
		if inside {
			s.openText(hover, t, canvas)
		}
		return
	}

	if in.Primary.Clicked && !s.dragging {
		s.begin(in, t, canvas)
	}
	if !s.dragging {
		return
	}

	switch {
	case in.Primary.Down:
		if inside {
			s.drag(t.ToImage(hover))
		} else {
			s.left()
		}
	case in.Primary.Released:
		if inside {
			s.lastPos = t.ToImage(hover)
			if s.mode == ModeBrush {
				s.appendBrush(s.lastPos)
			}
		}
		s.finish()
	}
}

func (s *Session) canvasPos(in input.Input, canvas geom.Rect) (geom.Point, bool) {
	p, ok := in.HoverPos()
	if !ok || !p.In(canvas) {
		return p, false
	}
	return p, true
}

func (s *Session) begin(in input.Input, t viewport.Transform, canvas geom.Rect) {
	origin := in.PressOrigin
	if origin == nil {
		origin = in.Hover
	}
	if origin == nil || !origin.In(canvas) {
		return
	}
	p := t.ToImage(*origin)
	s.dragging = true
	s.initialPos = p
	s.lastPos = p
	if s.mode == ModeBrush {
		s.history.SetDraft(annotate.Brush{Points: []geom.Point{p}, Style: s.stroke})
	}
}

func (s *Session) drag(p geom.Point) {
	s.lastPos = p
	switch s.mode {
	case ModeBrush:
		s.appendBrush(p)
	case ModeRectangle, ModeCircle, ModeArrow:
		s.history.SetDraft(s.shape(s.initialPos, p))
	}
}

// left handles a held pointer outside the canvas. A brush stroke ends as if
// released; shape previews are hidden until the pointer returns.
func (s *Session) left() {
	switch s.mode {
	case ModeBrush:
		s.finish()
	case ModeRectangle, ModeCircle, ModeArrow:
		s.history.DiscardDraft()
	}
}

func (s *Session) finish() {
	switch s.mode {
	case ModeBrush:
		if b, ok := s.history.Draft().(annotate.Brush); ok {
			b.Finished = true
			s.history.SetDraft(b)
			s.history.CommitDraft()
		}
	case ModeRectangle, ModeCircle, ModeArrow:
		s.history.DiscardDraft()
		// A click without movement draws nothing but still ends the redo
		// chain, like any other release.
		if s.lastPos != s.initialPos {
			s.history.Commit(s.shape(s.initialPos, s.lastPos))
		} else {
			s.history.ClearRedo()
		}
	}
	s.dragging = false
	s.initialPos = geom.Point{}
	s.lastPos = geom.Point{}
}

func (s *Session) appendBrush(p geom.Point) {
	b, ok := s.history.Draft().(annotate.Brush)
	if !ok {
		return
	}
	b.Append(p)
	s.history.SetDraft(b)
}

// shape builds the annotation for a drag from a to b in image space.
func (s *Session) shape(a, b geom.Point) annotate.Annotation {
	switch s.mode {
	case ModeRectangle:
		return annotate.Rectangle{Rect: geom.RectFromPoints(a, b), Style: s.stroke}
	case ModeCircle:
		// Centred in the drag box with the box width as radius.
		box := geom.RectFromPoints(a, b)
		return annotate.Circle{Center: box.Center(), Radius: box.Dx(), Style: s.stroke}
	case ModeArrow:
		return annotate.Arrow{Origin: a, Vector: b.Sub(a), Style: s.stroke}
	}
	return nil
}

// abandon drops in-progress pointer state without committing it.
func (s *Session) abandon() {
	if s.dragging {
		s.history.DiscardDraft()
	}
	s.dragging = false
	s.initialPos = geom.Point{}
	s.lastPos = geom.Point{}
}

func (s *Session) openText(click geom.Point, t viewport.Transform, canvas geom.Rect) {
	s.EndText()
	editor := click.Add(geom.Pt(0, EditorOffsetBelow))
	if click.Y+EditorFlipMargin > canvas.Max.Y {
		editor = click.Sub(geom.Pt(0, EditorOffsetAbove))
	}
	s.text = &TextEdit{Anchor: t.ToImage(click), Editor: editor}
}

// SetText replaces the content of the open editor. The draft label is
// replaced, never appended, so one session yields at most one Text.
func (s *Session) SetText(content string) {
	if s.text == nil || s.text.Content == content {
		return
	}
	s.text.Content = content
	s.refreshTextDraft()
}

func (s *Session) refreshTextDraft() {
	if s.text.Content == "" {
		s.history.DiscardDraft()
		return
	}
	s.history.SetDraft(annotate.Text{
		Position: s.text.Anchor,
		Content:  s.text.Content,
		Style:    s.stroke,
	})
}

// EndText closes the editor, committing a non-empty label.
func (s *Session) EndText() {
	if s.text == nil {
		return
	}
	if _, ok := s.history.Draft().(annotate.Text); ok {
		s.history.CommitDraft()
	}
	s.text = nil
}

// CancelText closes the editor and drops what was typed.
func (s *Session) CancelText() {
	if s.text == nil {
		return
	}
	if _, ok := s.history.Draft().(annotate.Text); ok {
		s.history.DiscardDraft()
	}
	s.text = nil
}

// Undo removes the newest committed annotation. It reports false when there
// was nothing to undo.
func (s *Session) Undo() bool { return s.history.Undo() }

// Redo restores the most recently undone annotation.
func (s *Session) Redo() bool { return s.history.Redo() }
