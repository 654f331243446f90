package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/viewport"
)

var (
	checkerLight = color.RGBA{220, 220, 220, 255}
	checkerDark  = color.RGBA{192, 192, 192, 255}
)

// Checkerboard fills r with size pixel squares, shown behind transparent
// image areas.
func Checkerboard(dst *image.RGBA, r image.Rectangle, size int) {
	if size < 1 {
		size = 1
	}
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := checkerDark
			if ((x/size)+(y/size))%2 == 0 {
				c = checkerLight
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// View scales the area of src selected by the crop into the render-space
// rectangle the transform assigns it. It returns that rectangle.
func View(dst *image.RGBA, src *image.RGBA, area image.Rectangle, t viewport.Transform) image.Rectangle {
	area = area.Intersect(src.Bounds())
	if area.Empty() {
		area = src.Bounds()
	}
	shown := t.Display(geom.FromImage(area.Size())).Image()
	Checkerboard(dst, shown, 8)
	if t.Ratio == 1 {
		draw.Draw(dst, shown, src, area.Min, draw.Over)
		return shown
	}
	xdraw.ApproxBiLinear.Scale(dst, shown, src, area, draw.Over, nil)
	return shown
}
