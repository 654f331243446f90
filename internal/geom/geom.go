// Package geom provides the float32 points and rectangles shared by the
// annotation model, the viewport transform and the selection machine.
package geom

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Point is a position or a displacement in either render or image space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// FromImage converts an integer pixel position.
func FromImage(p image.Point) Point { return Point{X: float32(p.X), Y: float32(p.Y)} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) Mul(k float32) Point { return Point{p.X * k, p.Y * k} }

// Div divides both components by k. A zero k leaves p unchanged.
func (p Point) Div(k float32) Point {
	if k == 0 {
		return p
	}
	return Point{p.X / k, p.Y / k}
}

// Len returns the euclidean length of p seen as a vector.
func (p Point) Len() float32 { return math32.Hypot(p.X, p.Y) }

// Near reports whether p and q differ by at most eps on both axes.
func (p Point) Near(q Point, eps float32) bool {
	return math32.Abs(p.X-q.X) <= eps && math32.Abs(p.Y-q.Y) <= eps
}

// In reports whether p lies inside r, edges included.
func (p Point) In(r Rect) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clamp moves p to the nearest position inside r.
func (p Point) Clamp(r Rect) Point {
	return Point{clamp(p.X, r.Min.X, r.Max.X), clamp(p.Y, r.Min.Y, r.Max.Y)}
}

// Image rounds p to the nearest pixel.
func (p Point) Image() image.Point {
	return image.Pt(int(math32.Round(p.X)), int(math32.Round(p.Y)))
}

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis aligned rectangle. Most operations expect Min <= Max; use
// Canon when the corners come from an arbitrary drag.
type Rect struct {
	Min, Max Point
}

// R builds a canonical rectangle from two corner coordinates.
func R(x0, y0, x1, y1 float32) Rect {
	return RectFromPoints(Pt(x0, y0), Pt(x1, y1))
}

// RectFromPoints returns the canonical rectangle spanned by a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{Min: a, Max: b}.Canon()
}

// FromImageRect converts an integer rectangle.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{Min: FromImage(r.Min), Max: FromImage(r.Max)}
}

// CenteredAt returns a rectangle of the given size centred on c.
func CenteredAt(c, size Point) Rect {
	half := size.Mul(0.5)
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

// Canon swaps coordinates so that Min <= Max on both axes.
func (r Rect) Canon() Rect {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }

func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

func (r Rect) Size() Point { return Point{r.Dx(), r.Dy()} }

func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool { return p.In(r) }

func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Inset shrinks r by n on every side; a negative n grows it.
func (r Rect) Inset(n float32) Rect {
	return Rect{Min: r.Min.Add(Pt(n, n)), Max: r.Max.Sub(Pt(n, n))}
}

// Clamp limits both corners of r to bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	return Rect{Min: r.Min.Clamp(bounds), Max: r.Max.Clamp(bounds)}
}

// Intersect returns the overlap of r and s, or the zero Rect.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{math32.Max(r.Min.X, s.Min.X), math32.Max(r.Min.Y, s.Min.Y)},
		Max: Point{math32.Min(r.Max.X, s.Max.X), math32.Min(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Union returns the smallest rectangle covering r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{math32.Min(r.Min.X, s.Min.X), math32.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math32.Max(r.Max.X, s.Max.X), math32.Max(r.Max.Y, s.Max.Y)},
	}
}

// Image rounds r outward to whole pixels.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math32.Floor(r.Min.X)), int(math32.Floor(r.Min.Y)),
		int(math32.Ceil(r.Max.X)), int(math32.Ceil(r.Max.Y)),
	)
}

func (r Rect) String() string { return fmt.Sprintf("%v-%v", r.Min, r.Max) }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
