package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/selection"
)

var (
	handleFill   = color.RGBA{255, 255, 255, 255}
	handleBorder = color.RGBA{0, 0, 0, 255}
	frameLight   = color.RGBA{255, 255, 255, 255}
	frameDark    = color.RGBA{0, 0, 0, 255}
)

// Fill paints r with c blended over dst.
func Fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// Shade darkens each rectangle, used for the area outside a selection.
func Shade(dst *image.RGBA, rects []geom.Rect, c color.RGBA) {
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		Fill(dst, r.Image(), c)
	}
}

// Selection draws the shaded surround, the dashed frame and, when requested,
// the resize handles of s.
func Selection(dst *image.RGBA, s *selection.State, window geom.Point, handles bool) {
	Shade(dst, s.Overlay(window), selection.OverlayColor)
	r, ok := s.Rect()
	if !ok {
		return
	}
	dashedRect(dst, r.Image(), 4, frameLight, frameDark)
	if !handles {
		return
	}
	for _, h := range s.Handles() {
		hr := h.Rect.Image()
		Fill(dst, hr, handleFill)
		rect(dst, hr, 1, handleBorder)
	}
}

// Outline draws a one pixel rectangle, used for buttons and the text editor.
func Outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	rect(dst, r, 1, c)
}
