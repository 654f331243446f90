package session

import (
	"fmt"
	"strings"
)

// Mode is the active drawing tool.
type Mode int

const (
	ModeBrush Mode = iota
	ModeRectangle
	ModeCircle
	ModeArrow
	ModeText
)

// Modes lists every drawing mode in toolbar order.
var Modes = []Mode{ModeBrush, ModeRectangle, ModeCircle, ModeArrow, ModeText}

var modeNames = map[Mode]string{
	ModeBrush:     "brush",
	ModeRectangle: "rectangle",
	ModeCircle:    "circle",
	ModeArrow:     "arrow",
	ModeText:      "text",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts a mode name, case insensitive. "rect" is accepted for
// rectangle.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "rect" {
		return ModeRectangle, nil
	}
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
