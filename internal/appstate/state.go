// Package appstate runs the editor window: the shiny event loop, the toolbar
// and the Main and Crop screens around the drawing and selection state
// machines.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/keymap"
	"github.com/example/grabmark/internal/notify"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
)

// Largest initial window; bigger captures are scaled down to fit.
const (
	maxWindowWidth  = 1280
	maxWindowHeight = 800
)

// AppState holds application configuration for the UI.
type AppState struct {
	Image    *image.RGBA
	Output   string
	Mode     session.Mode
	Stroke   annotate.StrokeStyle
	Monitor  int
	Config   *config.Config
	Theme    *theme.Theme
	Keymap   *keymap.Keymap
	Notifier *notify.Notifier

	// ConfigPath is watched for changes while the window is open.
	ConfigPath string

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the image displayed by the application.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the file written by save instead of a generated name in
// the save directory.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithMode sets the initial drawing tool.
func WithMode(m session.Mode) Option { return func(a *AppState) { a.Mode = m } }

// WithStroke sets the initial pen.
func WithStroke(st annotate.StrokeStyle) Option { return func(a *AppState) { a.Stroke = st } }

// WithMonitor sets the monitor captured by the capture action.
func WithMonitor(idx int) Option { return func(a *AppState) { a.Monitor = idx } }

// WithConfig applies the configuration and watches path for changes. An
// empty path disables reloading.
func WithConfig(cfg *config.Config, path string) Option {
	return func(a *AppState) {
		a.Config = cfg
		a.ConfigPath = path
	}
}

func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

func WithKeymap(km *keymap.Keymap) Option { return func(a *AppState) { a.Keymap = km } }

func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{Stroke: annotate.NewStrokeStyle(3, Palette[0])}
	for _, o := range opts {
		o(a)
	}
	return a
}

// captureEvent carries the result of an asynchronous capture back to the
// event loop.
type captureEvent struct {
	img *image.RGBA
	err error
}

// configEvent delivers a reloaded configuration.
type configEvent struct {
	cfg *config.Config
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// initialSize is the window size for img plus the chrome, scaled down to fit
// within the maximum window.
func initialSize(img *image.RGBA) image.Point {
	size := img.Bounds().Size().Add(image.Pt(0, toolbarHeight+statusHeight))
	if size.X < 640 {
		size.X = 640
	}
	if size.X > maxWindowWidth {
		size.X = maxWindowWidth
	}
	if size.Y > maxWindowHeight {
		size.Y = maxWindowHeight
	}
	return size
}

func (a *AppState) Main(s screen.Screen) {
	ed := newEditor(a)
	winSize := initialSize(ed.Image())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winSize.X, Height: winSize.Y, Title: "grabmark"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()
	ed.Resize(winSize.X, winSize.Y)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ed.requestCapture = func() {
		go func() {
			img, err := captureScreen(ctx, a.Monitor)
			w.Send(captureEvent{img: img, err: err})
		}()
	}

	if a.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, a.ConfigPath, func(cfg *config.Config) {
				w.Send(configEvent{cfg: cfg})
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("config watch: %v", err)
			}
		}()
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		cache := &buttonCache{}
		for st := range paintCh {
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, st, cache)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()
	defer close(paintCh)

	var tracker input.Tracker
	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			ed.Resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := ed.snapshot()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			ed.Mouse(&tracker, e)
			w.Send(paint.Event{})
		case key.Event:
			if ed.HandleKey(e) {
				return
			}
			w.Send(paint.Event{})
		case captureEvent:
			ed.ApplyCapture(e.img, e.err)
			w.Send(paint.Event{})
		case configEvent:
			ed.ApplyConfig(e.cfg)
			w.Send(paint.Event{})
		case error:
			log.Print(e)
		}
	}
}
