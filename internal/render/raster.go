package render

import (
	"image"
	"image/color"
	"math"
)

// blend paints c over the pixel at (x, y). Pixels outside img are ignored.
func blend(img *image.RGBA, x, y int, c color.RGBA) {
	if !image.Pt(x, y).In(img.Bounds()) || c.A == 0 {
		return
	}
	off := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}
	inv := uint32(255 - c.A)
	img.Pix[off+0] = uint8(uint32(c.R) + uint32(img.Pix[off+0])*inv/255)
	img.Pix[off+1] = uint8(uint32(c.G) + uint32(img.Pix[off+1])*inv/255)
	img.Pix[off+2] = uint8(uint32(c.B) + uint32(img.Pix[off+2])*inv/255)
	img.Pix[off+3] = uint8(uint32(c.A) + uint32(img.Pix[off+3])*inv/255)
}

// stamp paints a square pen of the given thickness centred on (x, y).
func stamp(img *image.RGBA, x, y, thick int, c color.RGBA) {
	r := thick / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			blend(img, x+dx, y+dy, c)
		}
	}
}

// line draws a Bresenham line stamping the pen at every step.
func line(img *image.RGBA, x0, y0, x1, y1, thick int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stamp(img, x0, y0, thick, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func circleThin(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, p := range [...][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			blend(img, cx+p[0], cy+p[1], c)
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// circle draws concentric midpoint circles so the ring is thick pixels wide.
func circle(img *image.RGBA, cx, cy, r, thick int, c color.RGBA) {
	if thick <= 1 {
		circleThin(img, cx, cy, r, c)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		if rr := r + start + i; rr >= 0 {
			circleThin(img, cx, cy, rr, c)
		}
	}
}

// arrowHead returns the two barb end points for an arrow ending at (x1, y1).
func arrowHead(x0, y0, x1, y1, thick int) (image.Point, image.Point) {
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + thick*2)
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	p := image.Pt(x1-int(math.Cos(a1)*size), y1-int(math.Sin(a1)*size))
	q := image.Pt(x1-int(math.Cos(a2)*size), y1-int(math.Sin(a2)*size))
	return p, q
}

func arrow(img *image.RGBA, x0, y0, x1, y1, thick int, c color.RGBA) {
	line(img, x0, y0, x1, y1, thick, c)
	if x0 == x1 && y0 == y1 {
		return
	}
	p, q := arrowHead(x0, y0, x1, y1, thick)
	line(img, x1, y1, p.X, p.Y, thick, c)
	line(img, x1, y1, q.X, q.Y, thick, c)
}

func rect(img *image.RGBA, r image.Rectangle, thick int, c color.RGBA) {
	line(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Min.Y, thick, c)
	line(img, r.Max.X-1, r.Min.Y, r.Max.X-1, r.Max.Y-1, thick, c)
	line(img, r.Max.X-1, r.Max.Y-1, r.Min.X, r.Max.Y-1, thick, c)
	line(img, r.Min.X, r.Max.Y-1, r.Min.X, r.Min.Y, thick, c)
}

// dashedLine draws an axis aligned line alternating c1 and c2 every dash
// pixels.
func dashedLine(img *image.RGBA, x0, y0, x1, y1, dash int, c1, c2 color.RGBA) {
	horiz := y0 == y1
	n := abs(x1 - x0)
	if !horiz {
		n = abs(y1 - y0)
	}
	sx, sy := sign(x1-x0), sign(y1-y0)
	for i := 0; i <= n; i++ {
		c := c1
		if (i/dash)%2 == 1 {
			c = c2
		}
		blend(img, x0+i*sx, y0+i*sy, c)
	}
}

func dashedRect(img *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	if dash < 1 {
		dash = 1
	}
	dashedLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, dash, c1, c2)
	dashedLine(img, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, dash, c1, c2)
	dashedLine(img, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, dash, c1, c2)
	dashedLine(img, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, dash, c1, c2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
