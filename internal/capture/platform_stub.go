//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

type unsupportedBackend struct{}

func newBackend() platformBackend {
	return unsupportedBackend{}
}

func runningOnWayland() bool { return false }

func (unsupportedBackend) Monitors() ([]Monitor, error) {
	return nil, fmt.Errorf("monitor listing is not supported on this platform")
}

func (unsupportedBackend) Grab(image.Rectangle) (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform")
}
