// Package input turns the shiny mouse event stream into the per-frame pointer
// snapshot consumed by the drawing and selection state machines.
package input

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/example/grabmark/internal/geom"
)

// Button is the state of the primary button for one frame. Clicked and
// Released are edges and only last for the frame they happened in.
type Button struct {
	Clicked  bool
	Down     bool
	Released bool
}

// Input is the pointer snapshot for one frame, in render space.
type Input struct {
	// Hover is nil when the pointer is outside the window, unless the
	// primary button is held: a drag keeps reporting the raw position so
	// consumers can clamp it.
	Hover   *geom.Point
	Primary Button
	// PressOrigin is where the primary button went down. It stays set until
	// the frame after the release.
	PressOrigin *geom.Point
}

// HoverIn reports whether the pointer is inside r.
func (in Input) HoverIn(r geom.Rect) bool {
	return in.Hover != nil && in.Hover.In(r)
}

// HoverPos returns the pointer position, or the zero point with false when
// the pointer is away.
func (in Input) HoverPos() (geom.Point, bool) {
	if in.Hover == nil {
		return geom.Point{}, false
	}
	return *in.Hover, true
}

// Tracker accumulates mouse events between frames.
type Tracker struct {
	hover       *geom.Point
	down        bool
	clicked     bool
	released    bool
	pressOrigin *geom.Point
	clearOrigin bool
}

// Mouse folds one event into the tracker. Only the left button counts as the
// primary button.
func (t *Tracker) Mouse(e mouse.Event) {
	p := geom.Pt(e.X, e.Y)
	t.hover = &p
	if e.Button != mouse.ButtonLeft {
		return
	}
	switch e.Direction {
	case mouse.DirPress:
		t.down = true
		t.clicked = true
		o := p
		t.pressOrigin = &o
		t.clearOrigin = false
	case mouse.DirRelease:
		if t.down {
			t.released = true
			t.clearOrigin = true
		}
		t.down = false
	}
}

// Leave records that the pointer left the window.
func (t *Tracker) Leave() { t.hover = nil }

// Bounds drops the hover position when it falls outside the window and no
// drag is in progress.
func (t *Tracker) Bounds(window geom.Rect) {
	if t.down || t.released {
		return
	}
	if t.hover != nil && !t.hover.In(window) {
		t.hover = nil
	}
}

// Frame returns the snapshot for the current frame and resets the edge
// flags so the next frame starts clean.
func (t *Tracker) Frame() Input {
	in := Input{
		Primary: Button{Clicked: t.clicked, Down: t.down, Released: t.released},
	}
	if t.hover != nil {
		h := *t.hover
		in.Hover = &h
	}
	if t.pressOrigin != nil {
		o := *t.pressOrigin
		in.PressOrigin = &o
	}
	t.clicked = false
	t.released = false
	if t.clearOrigin {
		t.pressOrigin = nil
		t.clearOrigin = false
	}
	return in
}
