package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := solid(10, 10, color.RGBA{R: 255, A: 255})
	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	out := ApplyShadow(img, opts)
	if out.Image == nil {
		t.Fatal("expected output image")
	}
	if want := image.Rect(0, 0, 22, 20); !out.Image.Bounds().Eq(want) {
		t.Fatalf("bounds got %v want %v", out.Image.Bounds(), want)
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("offset got %v want (0,0)", out.Offset)
	}
	// Inside the shadow, outside the original image.
	if a := out.Image.RGBAAt(15, 13).A; a == 0 {
		t.Fatal("expected shadow alpha below and right of the image")
	}
	if got := out.Image.RGBAAt(2, 2); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("original pixel got %+v", got)
	}
}

func TestApplyShadowNegativeOffsetShiftsContent(t *testing.T) {
	img := solid(6, 6, color.RGBA{G: 255, A: 255})
	out := ApplyShadow(img, ShadowOptions{Radius: 2, Offset: image.Pt(-5, -5), Opacity: 1})
	if out.Offset != image.Pt(7, 7) {
		t.Fatalf("offset got %v want (7,7)", out.Offset)
	}
	if got := out.Image.RGBAAt(out.Offset.X, out.Offset.Y); got != (color.RGBA{G: 255, A: 255}) {
		t.Fatalf("content pixel got %+v", got)
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	img := solid(4, 4, fill)
	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if out.Image != img {
		t.Fatal("expected the input image back unchanged")
	}
}
