package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/grabmark/internal/appstate"
	"github.com/example/grabmark/internal/capture"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/export"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testRoot() *root {
	return &root{program: "grabmark", config: config.New()}
}

func stubCapture(t *testing.T, img *image.RGBA, err error) *capturedCall {
	t.Helper()
	call := &capturedCall{}
	original := captureRegionFn
	captureRegionFn = func(_ context.Context, monitor int, rect image.Rectangle, opts capture.CaptureOptions) (*image.RGBA, error) {
		call.monitor = monitor
		call.rect = rect
		call.opts = opts
		call.count++
		return img, err
	}
	t.Cleanup(func() { captureRegionFn = original })
	return call
}

type capturedCall struct {
	monitor int
	rect    image.Rectangle
	opts    capture.CaptureOptions
	count   int
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Rectangle
		wantErr bool
	}{
		{"0,0,10,20", image.Rect(0, 0, 10, 20), false},
		{" 30, 40 ,10,20", image.Rect(10, 20, 30, 40), false},
		{"1,2,3", image.Rectangle{}, true},
		{"a,b,c,d", image.Rectangle{}, true},
		{"5,5,5,9", image.Rectangle{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err got %v wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestParseGrabRejectsBadFormat(t *testing.T) {
	if _, err := parseGrabCmd([]string{"-format", "bmp"}, testRoot()); !errors.Is(err, export.ErrUnknownFormat) {
		t.Fatalf("got %v want ErrUnknownFormat", err)
	}
}

func TestGrabRunCaptureError(t *testing.T) {
	sentinel := errors.New("portal denied")
	stubCapture(t, nil, sentinel)

	g, err := parseGrabCmd([]string{"-monitor", "1"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = g.Run()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture monitor 1"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %v", want, err)
	}
}

func TestGrabSavesToOutput(t *testing.T) {
	call := stubCapture(t, solidImage(20, 10, color.RGBA{0, 0, 255, 255}), nil)
	out := filepath.Join(t.TempDir(), "shot.jpg")

	g, err := parseGrabCmd([]string{"-region", "0,0,20,10", "-delay", "2s", "-cursor", "-output", out}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if call.rect != image.Rect(0, 0, 20, 10) {
		t.Fatalf("rect got %v", call.rect)
	}
	if call.opts.Delay != 2*time.Second || !call.opts.IncludeCursor {
		t.Fatalf("options got %+v", call.opts)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("expected a JPEG file: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(20, 10) {
		t.Fatalf("size got %v want 20x10", got)
	}
}

func TestGrabUsesConfiguredSaveDirectory(t *testing.T) {
	stubCapture(t, solidImage(4, 4, color.RGBA{255, 255, 255, 255}), nil)
	origNow := nowFn
	nowFn = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) }
	t.Cleanup(func() { nowFn = origNow })

	r := testRoot()
	dir := t.TempDir()
	r.config.SaveDir = dir
	r.config.SaveFormat = "gif"
	g, err := parseGrabCmd(nil, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := filepath.Join(dir, "grabmark-20240309-140506.gif")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
}

func TestGrabShadowGrowsImage(t *testing.T) {
	stubCapture(t, solidImage(10, 10, color.RGBA{255, 255, 255, 255}), nil)
	var copied image.Image
	origClip := writeClipboardFn
	writeClipboardFn = func(img image.Image) error {
		copied = img
		return nil
	}
	t.Cleanup(func() { writeClipboardFn = origClip })

	g, err := parseGrabCmd([]string{"-copy", "-shadow"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if copied == nil {
		t.Fatal("nothing copied")
	}
	if got := copied.Bounds().Dx(); got <= 10 {
		t.Fatalf("shadowed width got %d want > 10", got)
	}
}

func TestGrabCopyFailure(t *testing.T) {
	stubCapture(t, solidImage(2, 2, color.RGBA{A: 255}), nil)
	origClip := writeClipboardFn
	writeClipboardFn = func(image.Image) error { return errors.New("no display") }
	t.Cleanup(func() { writeClipboardFn = origClip })

	g, err := parseGrabCmd([]string{"-copy"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Run(); err == nil || !strings.Contains(err.Error(), "copy to clipboard") {
		t.Fatalf("got %v", err)
	}
}

func TestGrabEditOpensEditor(t *testing.T) {
	img := solidImage(8, 8, color.RGBA{A: 255})
	stubCapture(t, img, nil)
	var got *appstate.AppState
	origRun := runEditorFn
	runEditorFn = func(a *appstate.AppState) { got = a }
	t.Cleanup(func() { runEditorFn = origRun })

	g, err := parseGrabCmd([]string{"-edit", "-monitor", "#2", "-output", "out.png"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got == nil {
		t.Fatal("editor not started")
	}
	if got.Image != img || got.Output != "out.png" || got.Monitor != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestGrabMonitorSelector(t *testing.T) {
	origResolve := resolveMonitorFn
	resolveMonitorFn = func(sel string) (capture.Monitor, error) {
		if sel == "primary" {
			return capture.Monitor{Index: 3, Name: "DP-1", Primary: true}, nil
		}
		return capture.Monitor{}, capture.ErrInvalidMonitor
	}
	t.Cleanup(func() { resolveMonitorFn = origResolve })

	tests := []struct {
		flag    string
		config  string
		want    int
		wantErr bool
	}{
		{"", "", 0, false},
		{"2", "", 2, false},
		{"#1", "", 1, false},
		{"primary", "", 3, false},
		{"", "primary", 3, false},
		{"HDMI", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"/"+tt.config, func(t *testing.T) {
			r := testRoot()
			r.config.Monitor = tt.config
			g := &grabCmd{root: r, monitor: tt.flag}
			got, err := g.monitorIndex()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err got %v wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, capture.ErrInvalidMonitor) {
				t.Fatalf("got %v want ErrInvalidMonitor", err)
			}
			if got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}
