package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// ShadowOptions configures the drop shadow added behind an exported image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult is the image with its shadow and where the original content
// ended up inside it.
type ShadowResult struct {
	Image  *image.RGBA
	Offset image.Point
}

// DefaultShadowOptions returns the shadow used by grab -shadow.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow places img on a larger transparent canvas above a blurred,
// offset copy of its alpha channel. The result is zero based.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadowBounds := padded.Add(opts.Offset)
	canvas := src.Union(shadowBounds)

	// The silhouette is drawn black with the image's alpha scaled by the
	// opacity, then blurred as a whole.
	layer := image.NewRGBA(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			layer.SetRGBA(x-padded.Min.X, y-padded.Min.Y, color.RGBA{A: uint8(float64(a)*opacity + 0.5)})
		}
	}
	blurred := layer
	if radius > 0 {
		blurred = blur.Gaussian(layer, float64(radius))
	}

	dst := image.NewRGBA(canvas.Sub(canvas.Min))
	draw.Draw(dst, blurred.Bounds().Add(shadowBounds.Min.Sub(canvas.Min)), blurred, image.Point{}, draw.Over)
	draw.Draw(dst, src.Sub(canvas.Min), img, src.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: src.Min.Sub(canvas.Min)}
}
