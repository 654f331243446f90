//go:build cgo

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
	"golang.org/x/mobile/event/key"
)

func modifiersFor(m key.Modifiers) ([]hotkey.Modifier, error) {
	var out []hotkey.Modifier
	if m&key.ModControl != 0 {
		out = append(out, hotkey.ModCtrl)
	}
	if m&key.ModShift != 0 {
		out = append(out, hotkey.ModShift)
	}
	if m&key.ModAlt != 0 {
		out = append(out, hotkey.ModOption)
	}
	if m&key.ModMeta != 0 {
		out = append(out, hotkey.ModCmd)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("a modifier is required")
	}
	return out, nil
}
