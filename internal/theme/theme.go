// Package theme holds the colours of the editor chrome.
package theme

import (
	"image/color"
	"strings"
)

// Theme defines the colour palette for the editor window.
type Theme struct {
	Name string

	Background color.RGBA // behind the canvas
	Foreground color.RGBA

	ToolbarBackground      color.RGBA
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA // selected tool
	ButtonText             color.RGBA
	ButtonBorder           color.RGBA

	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusError      color.RGBA

	HandleFill   color.RGBA
	HandleBorder color.RGBA

	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                   "light",
		Background:             color.RGBA{220, 220, 220, 255},
		Foreground:             color.RGBA{0, 0, 0, 255},
		ToolbarBackground:      color.RGBA{232, 232, 232, 255},
		ButtonBackground:       color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover:  color.RGBA{180, 180, 180, 255},
		ButtonBackgroundActive: color.RGBA{150, 170, 210, 255},
		ButtonText:             color.RGBA{0, 0, 0, 255},
		ButtonBorder:           color.RGBA{90, 90, 90, 255},
		StatusBackground:       color.RGBA{210, 210, 210, 255},
		StatusText:             color.RGBA{30, 30, 30, 255},
		StatusError:            color.RGBA{170, 20, 20, 255},
		HandleFill:             color.RGBA{255, 255, 255, 255},
		HandleBorder:           color.RGBA{0, 0, 0, 255},
		CheckerLight:           color.RGBA{220, 220, 220, 255},
		CheckerDark:            color.RGBA{192, 192, 192, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                   "dark",
		Background:             color.RGBA{30, 30, 32, 255},
		Foreground:             color.RGBA{230, 230, 230, 255},
		ToolbarBackground:      color.RGBA{44, 44, 48, 255},
		ButtonBackground:       color.RGBA{60, 60, 66, 255},
		ButtonBackgroundHover:  color.RGBA{78, 78, 86, 255},
		ButtonBackgroundActive: color.RGBA{52, 88, 150, 255},
		ButtonText:             color.RGBA{235, 235, 235, 255},
		ButtonBorder:           color.RGBA{20, 20, 20, 255},
		StatusBackground:       color.RGBA{38, 38, 42, 255},
		StatusText:             color.RGBA{200, 200, 200, 255},
		StatusError:            color.RGBA{240, 110, 110, 255},
		HandleFill:             color.RGBA{40, 40, 40, 255},
		HandleBorder:           color.RGBA{240, 240, 240, 255},
		CheckerLight:           color.RGBA{70, 70, 70, 255},
		CheckerDark:            color.RGBA{50, 50, 50, 255},
	}
}

// Builtin returns the built-in theme called name.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "light":
		return Default(), true
	case "dark":
		return Dark(), true
	}
	return nil, false
}
