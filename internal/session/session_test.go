package session

import (
	"reflect"
	"testing"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/viewport"
)

var (
	canvas   = geom.R(0, 0, 400, 300)
	identity = viewport.Identity(geom.Point{})
)

func ptr(p geom.Point) *geom.Point { return &p }

// driver replays a gesture frame by frame.
type driver struct {
	t      *testing.T
	s      *Session
	tr     viewport.Transform
	origin *geom.Point
}

func newDriver(t *testing.T, m Mode) *driver {
	t.Helper()
	return &driver{t: t, s: New(annotate.NewHistory(), WithMode(m)), tr: identity}
}

func (d *driver) press(p geom.Point) {
	d.origin = ptr(p)
	d.s.Tick(input.Input{Hover: ptr(p), Primary: input.Button{Clicked: true, Down: true}, PressOrigin: d.origin}, d.tr, canvas)
}

func (d *driver) move(p geom.Point) {
	d.s.Tick(input.Input{Hover: ptr(p), Primary: input.Button{Down: true}, PressOrigin: d.origin}, d.tr, canvas)
}

func (d *driver) away() {
	d.s.Tick(input.Input{Primary: input.Button{Down: true}, PressOrigin: d.origin}, d.tr, canvas)
}

func (d *driver) release(p *geom.Point) {
	d.s.Tick(input.Input{Hover: p, Primary: input.Button{Released: true}, PressOrigin: d.origin}, d.tr, canvas)
	d.origin = nil
}

func TestRectangleNormalised(t *testing.T) {
	d := newDriver(t, ModeRectangle)
	d.press(geom.Pt(10, 10))
	d.move(geom.Pt(30, 8))
	if d.s.Preview() == nil {
		t.Fatal("expected a preview while dragging")
	}
	if d.s.History().Len() != 0 {
		t.Fatal("preview must not be committed")
	}
	d.move(geom.Pt(50, 5))
	d.release(ptr(geom.Pt(50, 5)))

	items := d.s.History().Items()
	if len(items) != 1 {
		t.Fatalf("items got %d want 1", len(items))
	}
	r := items[0].(annotate.Rectangle)
	if r.Rect.Min != geom.Pt(10, 5) || r.Rect.Max != geom.Pt(50, 10) {
		t.Fatalf("got %v want (10,5)-(50,10)", r.Rect)
	}
	if d.s.Preview() != nil || d.s.Dragging() {
		t.Fatal("drag state should be cleared after release")
	}
}

func TestRectangleAnyOrder(t *testing.T) {
	pairs := [][2]geom.Point{
		{geom.Pt(100, 100), geom.Pt(20, 30)},
		{geom.Pt(5, 200), geom.Pt(150, 10)},
		{geom.Pt(300, 2), geom.Pt(1, 250)},
	}
	for _, p := range pairs {
		d := newDriver(t, ModeRectangle)
		d.press(p[0])
		d.move(p[1])
		d.release(ptr(p[1]))
		r := d.s.History().Items()[0].(annotate.Rectangle).Rect
		if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
			t.Fatalf("%v -> %v gave non canonical %v", p[0], p[1], r)
		}
	}
}

func TestBrushContinuity(t *testing.T) {
	d := newDriver(t, ModeBrush)
	pts := []geom.Point{geom.Pt(5, 5), geom.Pt(6, 7), geom.Pt(9, 9), geom.Pt(20, 14)}
	d.press(pts[0])
	for _, p := range pts[1:] {
		d.move(p)
	}
	d.release(ptr(pts[len(pts)-1]))

	items := d.s.History().Items()
	if len(items) != 1 {
		t.Fatalf("items got %d want 1", len(items))
	}
	b := items[0].(annotate.Brush)
	if !b.Finished {
		t.Fatal("brush should be finished")
	}
	if !reflect.DeepEqual(b.Points, pts) {
		t.Fatalf("points got %v want %v", b.Points, pts)
	}
}

func TestBrushEndsWhenLeavingCanvas(t *testing.T) {
	d := newDriver(t, ModeBrush)
	d.press(geom.Pt(5, 5))
	d.move(geom.Pt(50, 50))
	d.away()
	if d.s.History().Len() != 1 {
		t.Fatalf("leaving should commit the stroke, len %d", d.s.History().Len())
	}
	d.move(geom.Pt(60, 60))
	d.release(ptr(geom.Pt(60, 60)))
	if d.s.History().Len() != 1 {
		t.Fatalf("returning must not continue or start a stroke, len %d", d.s.History().Len())
	}
	b := d.s.History().Items()[0].(annotate.Brush)
	if len(b.Points) != 2 {
		t.Fatalf("points got %v", b.Points)
	}
}

func TestShapeReleasedOutsideUsesLastPosition(t *testing.T) {
	d := newDriver(t, ModeArrow)
	d.press(geom.Pt(10, 10))
	d.move(geom.Pt(40, 30))
	d.away()
	if d.s.Preview() != nil {
		t.Fatal("preview should be hidden while outside")
	}
	d.release(nil)
	a := d.s.History().Items()[0].(annotate.Arrow)
	if a.Origin != geom.Pt(10, 10) || a.Vector != geom.Pt(30, 20) {
		t.Fatalf("got origin %v vector %v", a.Origin, a.Vector)
	}
}

func TestCircleFromDrag(t *testing.T) {
	d := newDriver(t, ModeCircle)
	d.press(geom.Pt(100, 100))
	d.move(geom.Pt(80, 40))
	d.release(ptr(geom.Pt(80, 40)))
	c := d.s.History().Items()[0].(annotate.Circle)
	if c.Center != geom.Pt(90, 70) || c.Radius != 20 {
		t.Fatalf("got centre %v radius %v", c.Center, c.Radius)
	}
}

func TestImageSpaceUsesTransform(t *testing.T) {
	d := newDriver(t, ModeRectangle)
	d.tr = viewport.Transform{Ratio: 2, Origin: geom.Pt(10, 10), AreaMin: geom.Pt(100, 0)}
	d.press(geom.Pt(20, 20))
	d.move(geom.Pt(30, 40))
	d.release(ptr(geom.Pt(30, 40)))
	r := d.s.History().Items()[0].(annotate.Rectangle).Rect
	if r != geom.R(120, 20, 140, 60) {
		t.Fatalf("got %v", r)
	}
}

func TestTextReplacesDraft(t *testing.T) {
	d := newDriver(t, ModeText)
	d.press(geom.Pt(50, 50))
	d.release(ptr(geom.Pt(50, 50)))
	te, ok := d.s.TextEdit()
	if !ok {
		t.Fatal("expected an open editor")
	}
	if te.Editor != geom.Pt(50, 70) {
		t.Fatalf("editor got %v want (50,70)", te.Editor)
	}
	for _, s := range []string{"h", "he", "hey"} {
		d.s.SetText(s)
	}
	if d.s.History().Len() != 0 {
		t.Fatal("typing must not commit")
	}
	d.s.EndText()
	items := d.s.History().Items()
	if len(items) != 1 {
		t.Fatalf("items got %d want 1", len(items))
	}
	txt := items[0].(annotate.Text)
	if txt.Content != "hey" || txt.Position != geom.Pt(50, 50) {
		t.Fatalf("got %+v", txt)
	}
}

func TestTextEditorFlipsNearBottom(t *testing.T) {
	d := newDriver(t, ModeText)
	d.press(geom.Pt(50, 250))
	te, _ := d.s.TextEdit()
	if te.Editor != geom.Pt(50, 155) {
		t.Fatalf("editor got %v want (50,155)", te.Editor)
	}
}

func TestEmptyTextIsDropped(t *testing.T) {
	d := newDriver(t, ModeText)
	d.press(geom.Pt(50, 50))
	d.s.SetText("x")
	d.s.SetText("")
	d.s.EndText()
	if d.s.History().Len() != 0 || d.s.Preview() != nil {
		t.Fatal("empty text should leave no annotation")
	}
}

func TestModeSwitchKeepsCommitted(t *testing.T) {
	d := newDriver(t, ModeRectangle)
	d.press(geom.Pt(1, 1))
	d.move(geom.Pt(9, 9))
	d.release(ptr(geom.Pt(9, 9)))
	d.press(geom.Pt(20, 20))
	d.move(geom.Pt(40, 40))
	d.s.SetMode(ModeBrush)
	if d.s.History().Len() != 1 {
		t.Fatalf("len got %d want 1", d.s.History().Len())
	}
	if d.s.Preview() != nil || d.s.Dragging() {
		t.Fatal("switching modes should drop the in-progress shape")
	}
}

func TestModeSwitchCommitsText(t *testing.T) {
	d := newDriver(t, ModeText)
	d.press(geom.Pt(50, 50))
	d.s.SetText("note")
	d.s.SetMode(ModeArrow)
	if _, ok := d.s.TextEdit(); ok {
		t.Fatal("editor should close on mode switch")
	}
	if d.s.History().Len() != 1 {
		t.Fatalf("len got %d want 1", d.s.History().Len())
	}
}

func TestUndoRedo(t *testing.T) {
	d := newDriver(t, ModeRectangle)
	if d.s.Undo() {
		t.Fatal("undo on empty history should report false")
	}
	d.press(geom.Pt(1, 1))
	d.move(geom.Pt(9, 9))
	d.release(ptr(geom.Pt(9, 9)))
	if !d.s.Undo() || d.s.History().Len() != 0 {
		t.Fatal("undo failed")
	}
	if !d.s.Redo() || d.s.History().Len() != 1 {
		t.Fatal("redo failed")
	}
}

func TestStillClickClearsRedo(t *testing.T) {
	for _, m := range []Mode{ModeRectangle, ModeCircle, ModeArrow} {
		d := newDriver(t, m)
		d.press(geom.Pt(1, 1))
		d.move(geom.Pt(9, 9))
		d.release(ptr(geom.Pt(9, 9)))
		d.s.Undo()
		if !d.s.History().CanRedo() {
			t.Fatalf("%v: expected redo after undo", m)
		}
		d.press(geom.Pt(50, 50))
		d.release(ptr(geom.Pt(50, 50)))
		if d.s.History().CanRedo() {
			t.Fatalf("%v: redo survived a click", m)
		}
		if d.s.History().Len() != 0 {
			t.Fatalf("%v: len got %d want 0", m, d.s.History().Len())
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"brush", ModeBrush, false},
		{"Rect", ModeRectangle, false},
		{" circle ", ModeCircle, false},
		{"arrow", ModeArrow, false},
		{"text", ModeText, false},
		{"spray", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("err got %v", err)
			}
			if !tt.err && got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
