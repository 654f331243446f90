// Package selection implements the crop rectangle editor: drag out a new
// rectangle, resize it from one of eight handles, or move it, all in window
// coordinates and clamped to the window.
package selection

import (
	"image/color"

	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/viewport"
)

// HandleSize is the side of a handle hit box in render pixels.
const HandleSize float32 = 10

// OverlayColor shades the window outside the selection.
var OverlayColor = color.RGBA{A: 100}

// Handle is one resize hit box.
type Handle struct {
	Status GrabStatus
	Rect   geom.Rect
}

// State is the selection for one crop session.
type State struct {
	rect     *geom.Rect
	previous *geom.Rect
	status   GrabStatus

	selectStart geom.Point
	moveOffset  geom.Point
}

// New returns a state with no selection.
func New() *State { return &State{} }

// Begin starts a crop session showing prev, which Cancel restores.
func (s *State) Begin(prev *geom.Rect) {
	s.rect = copyRect(prev)
	s.previous = copyRect(prev)
	s.status = None
}

func (s *State) Status() GrabStatus { return s.status }

// Rect returns the current selection in window coordinates.
func (s *State) Rect() (geom.Rect, bool) {
	if s.rect == nil {
		return geom.Rect{}, false
	}
	return *s.rect, true
}

// ShowButtons reports whether the confirm and cancel buttons should be
// offered, which is only while nothing is being dragged.
func (s *State) ShowButtons() bool { return s.status == None }

// Tick applies one frame of pointer input. window is the window size; every
// pointer position is clamped to it before use.
func (s *State) Tick(in input.Input, window geom.Point) {
	bounds := geom.Rect{Max: window}

	if s.status == None && in.Primary.Clicked {
		origin := in.PressOrigin
		if origin == nil {
			origin = in.Hover
		}
		if origin != nil {
			s.grab(origin.Clamp(bounds))
		}
	}

	if s.status != None && in.Primary.Down {
		if p, ok := in.HoverPos(); ok {
			s.drag(p.Clamp(bounds), bounds)
		}
	}

	if in.Primary.Released && s.status != None {
		s.status = None
		s.selectStart = geom.Point{}
		s.moveOffset = geom.Point{}
	}
}

func (s *State) grab(p geom.Point) {
	if g := s.HitTest(p); g != None {
		s.status = g
		if g == Move {
			s.moveOffset = p.Sub(s.rect.Center())
		}
		return
	}
	// The current rectangle stays until the drag covers some area, so a
	// stray click does not lose it.
	s.status = Select
	s.selectStart = p
}

func (s *State) drag(p geom.Point, bounds geom.Rect) {
	switch {
	case s.status == Select:
		if r := geom.RectFromPoints(s.selectStart, p).Clamp(bounds); !r.Empty() {
			s.rect = &r
		}
	case s.status == Move:
		s.move(p, bounds)
	case s.status.Resizing():
		s.resize(p)
	}
}

func (s *State) resize(p geom.Point) {
	r := *s.rect
	switch s.status {
	case TopLeft:
		r.Min = p
	case TopMid:
		r.Min.Y = p.Y
	case TopRight:
		r.Min.Y, r.Max.X = p.Y, p.X
	case MidLeft:
		r.Min.X = p.X
	case MidRight:
		r.Max.X = p.X
	case BotLeft:
		r.Min.X, r.Max.Y = p.X, p.Y
	case BotMid:
		r.Max.Y = p.Y
	case BotRight:
		r.Max = p
	}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
		s.status = s.status.mirrorX()
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
		s.status = s.status.mirrorY()
	}
	s.rect = &r
}

func (s *State) move(p geom.Point, bounds geom.Rect) {
	size := s.rect.Size()
	half := size.Mul(0.5)
	centre := p.Sub(s.moveOffset)
	limits := geom.Rect{Min: bounds.Min.Add(half), Max: bounds.Max.Sub(half)}
	if limits.Min.X > limits.Max.X {
		limits.Min.X, limits.Max.X = bounds.Center().X, bounds.Center().X
	}
	if limits.Min.Y > limits.Max.Y {
		limits.Min.Y, limits.Max.Y = bounds.Center().Y, bounds.Center().Y
	}
	r := geom.CenteredAt(centre.Clamp(limits), size)
	s.rect = &r
}

// Handles returns the eight hit boxes in hit-test priority order. Edge
// handles win over corners when a small rectangle makes them overlap.
func (s *State) Handles() []Handle {
	if s.rect == nil {
		return nil
	}
	r := *s.rect
	c := r.Center()
	size := geom.Pt(HandleSize, HandleSize)
	at := func(g GrabStatus, x, y float32) Handle {
		return Handle{Status: g, Rect: geom.CenteredAt(geom.Pt(x, y), size)}
	}
	return []Handle{
		at(TopMid, c.X, r.Min.Y),
		at(MidLeft, r.Min.X, c.Y),
		at(MidRight, r.Max.X, c.Y),
		at(BotMid, c.X, r.Max.Y),
		at(TopLeft, r.Min.X, r.Min.Y),
		at(TopRight, r.Max.X, r.Min.Y),
		at(BotLeft, r.Min.X, r.Max.Y),
		at(BotRight, r.Max.X, r.Max.Y),
	}
}

// HitTest reports which handle, or the interior, p is over.
func (s *State) HitTest(p geom.Point) GrabStatus {
	for _, h := range s.Handles() {
		if p.In(h.Rect) {
			return h.Status
		}
	}
	if s.rect != nil && p.In(*s.rect) {
		return Move
	}
	return None
}

// Cursor returns the pointer shape for the current frame. An active grab
// keeps its cursor regardless of where the pointer is.
func (s *State) Cursor(hover *geom.Point) Cursor {
	g := s.status
	switch {
	case g == Select:
		return CursorCrosshair
	case g == Move:
		return CursorGrabbing
	case g.Resizing():
		return handleCursors[g]
	}
	if hover == nil {
		return CursorDefault
	}
	switch g := s.HitTest(*hover); {
	case g == Move:
		return CursorGrab
	case g.Resizing():
		return handleCursors[g]
	}
	return CursorCrosshair
}

// Overlay returns the rectangles covering the window outside the selection,
// or the whole window when there is none.
func (s *State) Overlay(window geom.Point) []geom.Rect {
	if s.rect == nil {
		return []geom.Rect{{Max: window}}
	}
	r := *s.rect
	return []geom.Rect{
		{Min: geom.Pt(0, 0), Max: geom.Pt(window.X, r.Min.Y)},
		{Min: geom.Pt(0, r.Max.Y), Max: window},
		{Min: geom.Pt(0, r.Min.Y), Max: geom.Pt(r.Min.X, r.Max.Y)},
		{Min: geom.Pt(r.Max.X, r.Min.Y), Max: geom.Pt(window.X, r.Max.Y)},
	}
}

// Cancel restores the rectangle the session began with.
func (s *State) Cancel() {
	s.rect = copyRect(s.previous)
	s.status = None
}

// Confirm returns the selected area in image space, limited to imageBounds.
// Without a usable selection the whole image is returned.
func (s *State) Confirm(t viewport.Transform, imageBounds geom.Rect) geom.Rect {
	s.status = None
	if s.rect == nil {
		return imageBounds
	}
	r := t.RectToImage(*s.rect).Canon().Intersect(imageBounds)
	if r.Empty() {
		return imageBounds
	}
	return r
}

func copyRect(r *geom.Rect) *geom.Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
