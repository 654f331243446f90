package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MinTextSize is the smallest face that will be built. Labels shown at a
// heavy zoom out are drawn at this size rather than vanishing.
const MinTextSize = 4

var (
	fontOnce sync.Once
	regular  *opentype.Font
	fontErr  error

	faces sync.Map // map[float64]font.Face
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse font: %w", fontErr)
		}
	})
	return regular, fontErr
}

// Face returns a cached Go Regular face of the given pixel size. Sizes are
// rounded to a quarter pixel to keep the cache small.
func Face(size float64) (font.Face, error) {
	if size < MinTextSize {
		size = MinTextSize
	}
	size = math.Round(size*4) / 4
	if f, ok := faces.Load(size); ok {
		return f.(font.Face), nil
	}
	ft, err := loadFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width and the ascent and descent of text
// drawn at size.
func MeasureText(text string, size float64) (width, ascent, descent int, err error) {
	face, err := Face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil(), m.Descent.Ceil(), nil
}

// DrawText draws a single line with its left edge at x and its vertical
// centre at y.
func DrawText(img *image.RGBA, x, y int, text string, c color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+(ascent-descent)/2),
	}
	d.DrawString(text)
	return nil
}

// DrawLabel draws text with its top left corner at (x, y), used for toolbar
// and status text.
func DrawLabel(img *image.RGBA, x, y int, text string, c color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
