// Package export encodes composed images and builds the paths they are saved
// under.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnknownFormat is returned for an unsupported format name or extension.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
)

// Formats lists every supported format.
var Formats = []Format{PNG, JPEG, GIF}

// JPEGQuality is used for every JPEG export.
const JPEGQuality = 92

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	}
	return ".png"
}

// ParseFormat accepts a format name or extension, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case GIF:
		return gif.Encode(w, quantize(img), nil)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// quantize reduces img to the Plan 9 palette with Floyd-Steinberg dithering.
func quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(out, b, img, b.Min)
	return out
}

// Save encodes img to path, creating parent directories as needed.
func Save(path string, img image.Image, f Format) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := Encode(out, img, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// DefaultNameLayout is the time layout of generated file names.
const DefaultNameLayout = "grabmark-20060102-150405"

// SaveOptions locate an export on disk.
type SaveOptions struct {
	Format Format
	Dir    string
	// Name is the file name without extension. Empty means a timestamp.
	Name string
}

// DefaultName returns the generated name for a capture taken at t.
func DefaultName(t time.Time) string { return t.Format(DefaultNameLayout) }

// Path returns Dir/Name plus the format's extension. A name that already
// carries the right extension is kept as is.
func (o SaveOptions) Path() string {
	name := o.Name
	if name == "" {
		name = DefaultName(now())
	}
	if !strings.EqualFold(filepath.Ext(name), o.Format.Extension()) {
		name += o.Format.Extension()
	}
	return filepath.Join(o.Dir, name)
}

var now = time.Now
