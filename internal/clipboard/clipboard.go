// Package clipboard publishes screenshots and text to the system clipboard.
//
// With cgo, or on Windows, golang.design/x/clipboard does the work. Pure Go
// builds on X11 own the CLIPBOARD selection themselves.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"
)

type format int

const (
	formatText format = iota
	formatImage
)

func (f format) String() string {
	if f == formatImage {
		return "image"
	}
	return "text"
}

type backend interface {
	write(f format, data []byte) error
	read(f format) ([]byte, error)
}

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

	newBackend = platformBackend

	initOnce sync.Once
	initErr  error
	active   backend
)

func hasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func ensureInit() (backend, error) {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		active, initErr = newBackend()
	})
	return active, initErr
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return b.write(formatImage, buf.Bytes())
}

// ReadImage decodes PNG data from the clipboard.
func ReadImage() (image.Image, error) {
	data, err := read(formatImage)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText publishes text to the clipboard.
func WriteText(text string) error {
	b, err := ensureInit()
	if err != nil {
		return err
	}
	return b.write(formatText, []byte(text))
}

// ReadText returns the UTF-8 text on the clipboard.
func ReadText() (string, error) {
	data, err := read(formatText)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(data, "\x00")), nil
}

func read(f format) ([]byte, error) {
	b, err := ensureInit()
	if err != nil {
		return nil, err
	}
	data, err := b.read(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain %s data", f)
	}
	return data, nil
}
