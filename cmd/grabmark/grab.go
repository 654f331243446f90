package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/grabmark/internal/appstate"
	"github.com/example/grabmark/internal/capture"
	"github.com/example/grabmark/internal/clipboard"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/export"
	"github.com/example/grabmark/internal/render"
)

// Platform collaborators, replaced in tests.
var (
	captureRegionFn  = capture.CaptureRegion
	resolveMonitorFn = capture.Resolve
	writeClipboardFn = clipboard.WriteImage
	runEditorFn      = func(a *appstate.AppState) { a.Run() }
	nowFn            = time.Now
)

type grabCmd struct {
	*root
	fs      *flag.FlagSet
	monitor string
	delay   time.Duration
	region  string
	rect    image.Rectangle
	output  string
	format  string
	shadow  bool
	copy    bool
	edit    bool
	cursor  bool
}

func (g *grabCmd) FlagSet() *flag.FlagSet { return g.fs }

func (g *grabCmd) Program() string { return g.root.subcommand("grab") }

func parseGrabCmd(args []string, r *root) (*grabCmd, error) {
	fs := flag.NewFlagSet("grab", flag.ContinueOnError)
	g := &grabCmd{root: r, fs: fs}
	fs.Usage = usageFunc(g)
	fs.StringVar(&g.monitor, "monitor", "", "monitor to capture: index, primary or a name fragment")
	fs.DurationVar(&g.delay, "delay", 0, "wait this long before capturing")
	fs.StringVar(&g.region, "region", "", "capture rectangle x0,y0,x1,y1 relative to the monitor")
	fs.StringVar(&g.output, "output", "", "write the capture to this file; the extension picks the format")
	fs.StringVar(&g.format, "format", "", "image format when -output has no known extension: png, jpg or gif")
	fs.BoolVar(&g.shadow, "shadow", false, "apply a drop shadow to the saved image")
	fs.BoolVar(&g.copy, "copy", false, "copy the capture to the clipboard")
	fs.BoolVar(&g.edit, "edit", false, "open the capture in the editor")
	fs.BoolVar(&g.cursor, "cursor", false, "include the mouse pointer when supported")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: g}
	}
	if g.region != "" {
		rect, err := parseRect(g.region)
		if err != nil {
			return nil, err
		}
		g.rect = rect
	}
	if g.format != "" {
		if _, err := export.ParseFormat(g.format); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// parseRect reads "x0,y0,x1,y1" into a canonical rectangle.
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid rect %q: want x0,y0,x1,y1", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		v[i] = n
	}
	r := image.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("invalid rect %q: empty", s)
	}
	return r, nil
}

// monitorIndex resolves the -monitor flag, falling back to the configured
// monitor and then to the first one.
func (g *grabCmd) monitorIndex() (int, error) {
	sel := strings.TrimSpace(g.monitor)
	if sel == "" && g.root != nil && g.config != nil {
		sel = strings.TrimSpace(g.config.Monitor)
	}
	if sel == "" {
		return 0, nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		return idx, nil
	}
	m, err := resolveMonitorFn(sel)
	if err != nil {
		return 0, err
	}
	return m.Index, nil
}

func (g *grabCmd) cfg() *config.Config {
	if g.root == nil || g.config == nil {
		return config.New()
	}
	return g.config
}

func (g *grabCmd) Run() error {
	idx, err := g.monitorIndex()
	if err != nil {
		return fmt.Errorf("failed to capture monitor %q: %w", g.monitor, err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := capture.CaptureOptions{Delay: g.delay, IncludeCursor: g.cursor}
	img, err := captureRegionFn(ctx, idx, g.rect, opts)
	if err != nil {
		return fmt.Errorf("failed to capture monitor %d: %w", idx, err)
	}
	detail := g.describe(idx)
	if g.root != nil {
		g.notifier.Capture(detail, img)
	}

	if g.edit {
		return g.runEditor(img, idx)
	}

	shadow := g.shadow || g.cfg().Shadow
	out := img
	if shadow {
		out = render.ApplyShadow(img, render.DefaultShadowOptions()).Image
	}

	if g.copy {
		if err := writeClipboardFn(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if g.root != nil {
			g.notifier.Copy(detail)
		}
		if g.output == "" {
			return nil
		}
	}

	path, f, err := g.savePath()
	if err != nil {
		return err
	}
	if err := export.Save(path, out, f); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if g.root != nil {
		g.notifier.Save(saved)
	}
	return nil
}

// savePath picks the output file and its format. -output wins; otherwise a
// generated name in the configured save directory is used.
func (g *grabCmd) savePath() (string, export.Format, error) {
	cfg := g.cfg()
	name := g.format
	if name == "" {
		name = cfg.SaveFormat
	}
	var f export.Format
	if name != "" {
		var err error
		if f, err = export.ParseFormat(name); err != nil {
			return "", 0, err
		}
	}
	if g.output != "" {
		if byExt, err := export.FormatFromPath(g.output); err == nil {
			f = byExt
		}
		return g.output, f, nil
	}
	opts := export.SaveOptions{Format: f, Dir: cfg.SaveDirectory(), Name: export.DefaultName(nowFn())}
	return opts.Path(), f, nil
}

func (g *grabCmd) describe(idx int) string {
	if g.rect.Empty() {
		return fmt.Sprintf("monitor %d", idx)
	}
	return fmt.Sprintf("region %v of monitor %d", g.rect, idx)
}

func (g *grabCmd) runEditor(img *image.RGBA, idx int) error {
	cfg := *g.cfg()
	cfg.Shadow = cfg.Shadow || g.shadow
	opts := []appstate.Option{
		appstate.WithImage(img),
		appstate.WithOutput(g.output),
		appstate.WithMonitor(idx),
	}
	if g.root != nil {
		opts = append(opts, g.root.editorOptions(&cfg)...)
	}
	runEditorFn(appstate.New(opts...))
	return nil
}
