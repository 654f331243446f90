//go:build windows || ((linux || darwin) && cgo)

// Package hotkey registers a system wide key chord.
package hotkey

import (
	"context"
	"fmt"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
	"golang.org/x/mobile/event/key"

	"github.com/example/grabmark/internal/keymap"
)

// Run calls fn on a goroutine while the main thread services the hotkey
// event loop, which some platforms require. It returns when fn does.
func Run(fn func()) { mainthread.Init(fn) }

// Listener is a registered global hotkey.
type Listener struct {
	chord keymap.Chord
	hk    *hotkey.Hotkey
}

// Register grabs chord for this process.
func Register(chord keymap.Chord) (*Listener, error) {
	k, ok := keyFor(chord.Code)
	if !ok {
		return nil, fmt.Errorf("hotkey %s: key not supported", chord)
	}
	mods, err := modifiersFor(chord.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("hotkey %s: %w", chord, err)
	}
	hk := hotkey.New(mods, k)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("hotkey %s: %w", chord, err)
	}
	return &Listener{chord: chord, hk: hk}, nil
}

func (l *Listener) Chord() keymap.Chord { return l.chord }

// Listen calls fn for every press until ctx is done, then releases the
// hotkey.
func (l *Listener) Listen(ctx context.Context, fn func()) error {
	defer l.hk.Unregister()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-l.hk.Keydown():
			if !ok {
				return fmt.Errorf("hotkey %s: listener closed", l.chord)
			}
			fn()
		}
	}
}

var namedKeys = map[key.Code]hotkey.Key{
	key.CodeSpacebar:      hotkey.KeySpace,
	key.CodeReturnEnter:   hotkey.KeyReturn,
	key.CodeEscape:        hotkey.KeyEscape,
	key.CodeTab:           hotkey.KeyTab,
	key.CodeDeleteForward: hotkey.KeyDelete,
	key.CodeLeftArrow:     hotkey.KeyLeft,
	key.CodeRightArrow:    hotkey.KeyRight,
	key.CodeUpArrow:       hotkey.KeyUp,
	key.CodeDownArrow:     hotkey.KeyDown,
}

var letterKeys = [...]hotkey.Key{
	hotkey.KeyA, hotkey.KeyB, hotkey.KeyC, hotkey.KeyD, hotkey.KeyE, hotkey.KeyF, hotkey.KeyG,
	hotkey.KeyH, hotkey.KeyI, hotkey.KeyJ, hotkey.KeyK, hotkey.KeyL, hotkey.KeyM, hotkey.KeyN,
	hotkey.KeyO, hotkey.KeyP, hotkey.KeyQ, hotkey.KeyR, hotkey.KeyS, hotkey.KeyT, hotkey.KeyU,
	hotkey.KeyV, hotkey.KeyW, hotkey.KeyX, hotkey.KeyY, hotkey.KeyZ,
}

// digitKeys is ordered like the key codes, 1 through 9 then 0.
var digitKeys = [...]hotkey.Key{
	hotkey.Key1, hotkey.Key2, hotkey.Key3, hotkey.Key4, hotkey.Key5,
	hotkey.Key6, hotkey.Key7, hotkey.Key8, hotkey.Key9, hotkey.Key0,
}

var functionKeys = [...]hotkey.Key{
	hotkey.KeyF1, hotkey.KeyF2, hotkey.KeyF3, hotkey.KeyF4, hotkey.KeyF5, hotkey.KeyF6,
	hotkey.KeyF7, hotkey.KeyF8, hotkey.KeyF9, hotkey.KeyF10, hotkey.KeyF11, hotkey.KeyF12,
}

func keyFor(code key.Code) (hotkey.Key, bool) {
	switch {
	case code >= key.CodeA && code <= key.CodeZ:
		return letterKeys[code-key.CodeA], true
	case code >= key.Code1 && code <= key.Code0:
		return digitKeys[code-key.Code1], true
	case code >= key.CodeF1 && code <= key.CodeF12:
		return functionKeys[code-key.CodeF1], true
	}
	k, ok := namedKeys[code]
	return k, ok
}
