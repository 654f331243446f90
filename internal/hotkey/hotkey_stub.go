//go:build !windows && !((linux || darwin) && cgo)

package hotkey

import (
	"context"
	"errors"

	"github.com/example/grabmark/internal/keymap"
)

var errUnsupported = errors.New("global hotkeys are not supported on this platform")

func Run(fn func()) { fn() }

type Listener struct{}

func Register(keymap.Chord) (*Listener, error) { return nil, errUnsupported }

func (*Listener) Chord() keymap.Chord { return keymap.Chord{} }

func (*Listener) Listen(context.Context, func()) error { return errUnsupported }
