package render

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/viewport"
)

// Compose draws anns over a copy of base at native resolution and crops the
// result to area. An empty area, or one outside base, keeps the whole image.
// base is never modified and the result is zero based.
func Compose(base image.Image, anns []annotate.Annotation, area image.Rectangle) *image.RGBA {
	out := clone.AsRGBA(base)
	Annotations(out, anns, viewport.Identity(geom.Point{}))
	return Crop(out, area)
}

// Crop returns a zero based copy of area within img. An area that misses img
// entirely yields a copy of the whole image.
func Crop(img image.Image, area image.Rectangle) *image.RGBA {
	area = area.Intersect(img.Bounds())
	var out *image.RGBA
	if area.Empty() {
		out = clone.AsRGBA(img)
	} else {
		out = transform.Crop(img, area)
	}
	return rebase(out)
}

// rebase moves img's bounds to start at the origin without copying.
func rebase(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	img.Rect = img.Rect.Sub(img.Rect.Min)
	return img
}
