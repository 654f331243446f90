package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{".PNG", PNG},
		{"jpg", JPEG},
		{"jpeg", JPEG},
		{".gif", GIF},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
	if _, err := ParseFormat("bmp"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("got %v want ErrUnknownFormat", err)
	}
}

func TestPath(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	tests := []struct {
		name string
		opts SaveOptions
		want string
	}{
		{"default name", SaveOptions{Format: PNG, Dir: "/tmp/shots"}, "/tmp/shots/grabmark-20240309-140507.png"},
		{"jpeg", SaveOptions{Format: JPEG, Dir: "out", Name: "shot"}, filepath.Join("out", "shot.jpg")},
		{"keeps extension", SaveOptions{Format: GIF, Name: "anim.gif"}, "anim.gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Path(); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 40), 90, 255})
		}
	}
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		JPEG: func(r *bytes.Reader) (image.Image, error) { return jpeg.Decode(r) },
		GIF:  func(r *bytes.Reader) (image.Image, error) { return gif.Decode(r) },
	}
	for _, f := range Formats {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, sample(), f); err != nil {
				t.Fatalf("encode: %v", err)
			}
			img, err := decoders[f](bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds() != sample().Bounds() {
				t.Fatalf("bounds got %v", img.Bounds())
			}
		})
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := SaveOptions{Format: PNG, Dir: filepath.Join(dir, "a", "b"), Name: "x"}.Path()
	if err := Save(path, sample(), PNG); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
