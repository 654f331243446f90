// Package annotate holds the vector annotation model drawn on top of a
// capture, together with the bounded undo/redo history that owns it.
//
// All coordinates stored in annotations are in image space: pixels of the
// captured image at native resolution.
package annotate

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/example/grabmark/internal/geom"
)

// Stroke width limits.
const (
	MinWidth float32 = 1
	MaxWidth float32 = 10
)

// BaseTextSize is the font size in image pixels of a Text annotation whose
// stroke width is 1.
const BaseTextSize float32 = 30

// Kind identifies an annotation variant.
type Kind int

const (
	KindBrush Kind = iota
	KindRectangle
	KindCircle
	KindArrow
	KindText
)

var kindNames = [...]string{"brush", "rectangle", "circle", "arrow", "text"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// StrokeStyle is the pen shared by every annotation variant. For Text the
// width scales the font size.
type StrokeStyle struct {
	Width float32
	Color color.RGBA
}

// NewStrokeStyle returns a style with the width clamped to [MinWidth, MaxWidth].
func NewStrokeStyle(width float32, c color.RGBA) StrokeStyle {
	return StrokeStyle{Width: width, Color: c}.Clamp()
}

// Clamp returns s with its width limited to [MinWidth, MaxWidth].
func (s StrokeStyle) Clamp() StrokeStyle {
	s.Width = math32.Max(MinWidth, math32.Min(MaxWidth, s.Width))
	return s
}

// Annotation is one drawn object. The set of implementations is closed.
type Annotation interface {
	Kind() Kind
	Stroke() StrokeStyle
	// Bounds is the image-space box covered by the geometry, ignoring the
	// stroke width.
	Bounds() geom.Rect
	annotation()
}

// Brush is a freehand stroke. Finished is false while the pointer is held.
type Brush struct {
	Points   []geom.Point
	Style    StrokeStyle
	Finished bool
}

// Rectangle is an outlined box; Rect is always canonical once committed.
type Rectangle struct {
	Rect  geom.Rect
	Style StrokeStyle
}

// Circle is an outlined circle.
type Circle struct {
	Center geom.Point
	Radius float32
	Style  StrokeStyle
}

// Arrow starts at Origin and points along Vector.
type Arrow struct {
	Origin geom.Point
	Vector geom.Point
	Style  StrokeStyle
}

// Text is a single line label anchored at its left-centre point.
type Text struct {
	Position geom.Point
	Content  string
	Style    StrokeStyle
}

func (Brush) Kind() Kind     { return KindBrush }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Arrow) Kind() Kind     { return KindArrow }
func (Text) Kind() Kind      { return KindText }

func (b Brush) Stroke() StrokeStyle     { return b.Style }
func (r Rectangle) Stroke() StrokeStyle { return r.Style }
func (c Circle) Stroke() StrokeStyle    { return c.Style }
func (a Arrow) Stroke() StrokeStyle     { return a.Style }
func (t Text) Stroke() StrokeStyle      { return t.Style }

func (Brush) annotation()     {}
func (Rectangle) annotation() {}
func (Circle) annotation()    {}
func (Arrow) annotation()     {}
func (Text) annotation()      {}

func (b Brush) Bounds() geom.Rect {
	if len(b.Points) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: b.Points[0], Max: b.Points[0]}
	for _, p := range b.Points[1:] {
		r = r.Union(geom.Rect{Min: p, Max: p})
	}
	return r
}

func (r Rectangle) Bounds() geom.Rect { return r.Rect.Canon() }

func (c Circle) Bounds() geom.Rect {
	d := geom.Pt(c.Radius, c.Radius)
	return geom.Rect{Min: c.Center.Sub(d), Max: c.Center.Add(d)}
}

func (a Arrow) Bounds() geom.Rect {
	return geom.RectFromPoints(a.Origin, a.Tip())
}

// Bounds approximates the label box from the font size; the exact width
// depends on the face and is measured by the renderer.
func (t Text) Bounds() geom.Rect {
	size := t.FontSize()
	w := size * 0.6 * float32(len([]rune(t.Content)))
	return geom.Rect{
		Min: geom.Pt(t.Position.X, t.Position.Y-size/2),
		Max: geom.Pt(t.Position.X+w, t.Position.Y+size/2),
	}
}

// Tip is the point the arrow head is drawn at.
func (a Arrow) Tip() geom.Point { return a.Origin.Add(a.Vector) }

// FontSize is the image-space font size of the label.
func (t Text) FontSize() float32 { return BaseTextSize * t.Style.Width }

// Append adds p to the stroke unless it repeats the last point.
func (b *Brush) Append(p geom.Point) {
	if n := len(b.Points); n > 0 && b.Points[n-1] == p {
		return
	}
	b.Points = append(b.Points, p)
}

// Clone returns a copy of a that shares no mutable state with it.
func Clone(a Annotation) Annotation {
	if b, ok := a.(Brush); ok {
		b.Points = append([]geom.Point(nil), b.Points...)
		return b
	}
	return a
}
