// Package capture grabs the pixels of a monitor, or a rectangle of one, as an
// RGBA image.
//
// On X11 the root window is read directly. Under Wayland, or when the X
// server refuses, the desktop screenshot portal is used and the result is
// cropped to the requested monitor.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"
)

// ErrInvalidMonitor is returned when a monitor index or selector does not
// name a connected monitor.
var ErrInvalidMonitor = errors.New("invalid monitor")

// CaptureOptions tune a single capture.
type CaptureOptions struct {
	// Delay waits before grabbing, giving the user time to arrange windows.
	Delay time.Duration
	// IncludeCursor asks the portal to embed the pointer. X11 grabs never
	// include it.
	IncludeCursor bool
}

type platformBackend interface {
	Monitors() ([]Monitor, error)
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

var (
	backend            platformBackend = newBackend()
	portalScreenshotFn                 = portalScreenshot
	waylandFn                          = runningOnWayland
)

// Capture grabs the whole of the monitor at index.
func Capture(ctx context.Context, monitor int, opts CaptureOptions) (*image.RGBA, error) {
	return CaptureRegion(ctx, monitor, image.Rectangle{}, opts)
}

// CaptureRegion grabs rect, given relative to the monitor's top left corner.
// An empty rect captures the whole monitor. A failed capture returns no
// image.
func CaptureRegion(ctx context.Context, monitor int, rect image.Rectangle, opts CaptureOptions) (*image.RGBA, error) {
	if err := wait(ctx, opts.Delay); err != nil {
		return nil, err
	}

	monitors, err := Monitors()
	if err != nil {
		// Without a monitor layout only the whole desktop is known.
		if monitor != 0 {
			return nil, fmt.Errorf("%w: %d: %v", ErrInvalidMonitor, monitor, err)
		}
		shot, perr := portalScreenshotFn(ctx, opts)
		if perr != nil {
			return nil, fmt.Errorf("capture: %v; portal fallback: %w", err, perr)
		}
		if rect.Empty() {
			return shot, nil
		}
		return cropToRect(shot, rect.Add(shot.Bounds().Min))
	}
	if monitor < 0 || monitor >= len(monitors) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrInvalidMonitor, monitor, len(monitors))
	}

	target := monitors[monitor].Rect
	if !rect.Empty() {
		target = rect.Add(target.Min).Intersect(target)
		if target.Empty() {
			return nil, fmt.Errorf("region %v outside monitor %d", rect, monitor)
		}
	}
	return grab(ctx, target, opts)
}

// grab reads target from the X server, falling back to a cropped portal
// screenshot.
func grab(ctx context.Context, target image.Rectangle, opts CaptureOptions) (*image.RGBA, error) {
	var grabErr error
	if !waylandFn() && !opts.IncludeCursor {
		img, err := backend.Grab(target)
		if err == nil {
			return img, nil
		}
		grabErr = err
	}
	shot, err := portalScreenshotFn(ctx, opts)
	if err != nil {
		if grabErr != nil {
			return nil, fmt.Errorf("capture: %v; portal fallback: %w", grabErr, err)
		}
		return nil, err
	}
	return cropToRect(shot, target)
}

// ScreenCount returns the number of connected monitors, or zero when they
// cannot be listed.
func ScreenCount() int {
	monitors, err := Monitors()
	if err != nil {
		return 0
	}
	return len(monitors)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
