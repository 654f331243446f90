package input

import (
	"testing"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/grabmark/internal/geom"
)

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y}
}

func TestFrameEdges(t *testing.T) {
	var tr Tracker
	tr.Mouse(press(3, 4))
	in := tr.Frame()
	if !in.Primary.Clicked || !in.Primary.Down || in.Primary.Released {
		t.Fatalf("press frame got %+v", in.Primary)
	}
	if in.PressOrigin == nil || *in.PressOrigin != geom.Pt(3, 4) {
		t.Fatalf("press origin got %v", in.PressOrigin)
	}

	tr.Mouse(move(10, 12))
	in = tr.Frame()
	if in.Primary.Clicked || !in.Primary.Down {
		t.Fatalf("held frame got %+v", in.Primary)
	}
	if *in.Hover != geom.Pt(10, 12) {
		t.Fatalf("hover got %v", *in.Hover)
	}

	tr.Mouse(release(20, 22))
	in = tr.Frame()
	if !in.Primary.Released || in.Primary.Down {
		t.Fatalf("release frame got %+v", in.Primary)
	}
	if in.PressOrigin == nil {
		t.Fatal("press origin should survive the release frame")
	}

	in = tr.Frame()
	if in.Primary.Released || in.PressOrigin != nil {
		t.Fatalf("idle frame got %+v origin %v", in.Primary, in.PressOrigin)
	}
}

func TestLeaveClearsHover(t *testing.T) {
	var tr Tracker
	tr.Mouse(move(5, 5))
	tr.Leave()
	if in := tr.Frame(); in.Hover != nil {
		t.Fatalf("hover got %v want nil", *in.Hover)
	}
}

func TestBoundsDropsOutsideHover(t *testing.T) {
	var tr Tracker
	tr.Mouse(move(250, 5))
	tr.Bounds(geom.R(0, 0, 200, 200))
	in := tr.Frame()
	if in.HoverIn(geom.R(0, 0, 200, 200)) || in.Hover != nil {
		t.Fatal("expected hover outside the window to be dropped")
	}
}

func TestBoundsKeepsOutsideHoverWhileDragging(t *testing.T) {
	var tr Tracker
	window := geom.R(0, 0, 200, 200)
	tr.Mouse(mouse.Event{X: 10, Y: 10, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	tr.Bounds(window)
	tr.Frame()

	tr.Mouse(move(250, -5))
	tr.Bounds(window)
	in := tr.Frame()
	if in.Hover == nil || *in.Hover != geom.Pt(250, -5) {
		t.Fatalf("hover got %v want (250,-5)", in.Hover)
	}

	tr.Mouse(mouse.Event{X: 260, Y: 5, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	tr.Bounds(window)
	if in := tr.Frame(); !in.Primary.Released || in.Hover == nil {
		t.Fatalf("release frame got %+v hover %v", in.Primary, in.Hover)
	}

	tr.Mouse(move(270, 5))
	tr.Bounds(window)
	if in := tr.Frame(); in.Hover != nil {
		t.Fatalf("hover after release got %v want nil", *in.Hover)
	}
}

func TestOtherButtonsIgnored(t *testing.T) {
	var tr Tracker
	tr.Mouse(mouse.Event{X: 1, Y: 1, Button: mouse.ButtonRight, Direction: mouse.DirPress})
	if in := tr.Frame(); in.Primary.Down || in.Primary.Clicked {
		t.Fatalf("right button got %+v", in.Primary)
	}
}
