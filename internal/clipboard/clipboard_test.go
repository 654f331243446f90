package clipboard

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

type memBackend struct {
	data map[format][]byte
}

func (m *memBackend) write(f format, data []byte) error {
	m.data = map[format][]byte{f: data}
	return nil
}

func (m *memBackend) read(f format) ([]byte, error) { return m.data[f], nil }

func reset(t *testing.T, nb func() (backend, error)) {
	t.Helper()
	prev := newBackend
	newBackend = nb
	initOnce, initErr, active = sync.Once{}, nil, nil
	t.Cleanup(func() {
		newBackend = prev
		initOnce, initErr, active = sync.Once{}, nil, nil
	})
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	reset(t, func() (backend, error) {
		t.Fatal("backend should not be created without a display")
		return nil, nil
	})
	if hasDisplay() {
		t.Skip("platform always has a display")
	}
	if err := WriteText("hello world"); !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	mem := &memBackend{}
	reset(t, func() (backend, error) { return mem, nil })

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	if err := WriteImage(src); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if r, g, b, _ := got.At(1, 1).RGBA(); r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
		t.Fatalf("pixel got %v", got.At(1, 1))
	}
	if _, err := ReadText(); err == nil {
		t.Fatal("writing an image should replace text")
	}
}

func TestReadTextTrimsNul(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	mem := &memBackend{data: map[format][]byte{formatText: []byte("path\x00")}}
	reset(t, func() (backend, error) { return mem, nil })

	got, err := ReadText()
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "path" {
		t.Fatalf("got %q want %q", got, "path")
	}
}

func TestInitErrorIsSticky(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	boom := errors.New("boom")
	calls := 0
	reset(t, func() (backend, error) { calls++; return nil, boom })

	for i := 0; i < 2; i++ {
		if err := WriteText("x"); !errors.Is(err, boom) {
			t.Fatalf("got %v want %v", err, boom)
		}
	}
	if calls != 1 {
		t.Fatalf("backend created %d times", calls)
	}
}
