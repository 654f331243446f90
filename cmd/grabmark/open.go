package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/h2non/filetype"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/appstate"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
)

// supportedImages are the sniffed extensions the editor can decode.
var supportedImages = map[string]bool{"png": true, "jpg": true, "gif": true}

type openCmd struct {
	*root
	fs     *flag.FlagSet
	file   string
	output string
	mode   string
	color  string
	width  float64
}

func (o *openCmd) FlagSet() *flag.FlagSet { return o.fs }

func (o *openCmd) Program() string { return o.root.subcommand("open") }

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	o := &openCmd{root: r, fs: fs}
	fs.Usage = usageFunc(o)
	fs.StringVar(&o.output, "output", "", "file written by save instead of a generated name")
	fs.StringVar(&o.mode, "mode", "brush", "initial tool: brush, rectangle, circle, arrow or text")
	fs.StringVar(&o.color, "color", "red", "initial pen colour as a name or #RRGGBB")
	fs.Float64Var(&o.width, "width", 3, "initial pen width")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: o}
	}
	o.file = fs.Arg(0)
	return o, nil
}

func (o *openCmd) Run() error {
	img, err := loadImage(o.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", o.file, err)
	}
	mode, err := session.ParseMode(o.mode)
	if err != nil {
		return err
	}
	c, err := theme.ParseColor(o.color)
	if err != nil {
		return err
	}
	opts := []appstate.Option{
		appstate.WithImage(img),
		appstate.WithOutput(o.output),
		appstate.WithMode(mode),
		appstate.WithStroke(annotate.NewStrokeStyle(float32(o.width), c)),
	}
	if o.root != nil {
		opts = append(opts, o.root.editorOptions(o.config)...)
	}
	runEditorFn(appstate.New(opts...))
	return nil
}

// loadImage reads an image file, checking its signature before decoding.
func loadImage(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if kind == filetype.Unknown || !supportedImages[kind.Extension] {
		return nil, fmt.Errorf("unsupported file type %q", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	return clone.AsRGBA(img), nil
}

// editorOptions passes the loaded configuration, theme, keymap and
// notifier on to the editor window.
func (r *root) editorOptions(cfg *config.Config) []appstate.Option {
	if cfg == nil {
		cfg = r.config
	}
	opts := []appstate.Option{appstate.WithNotifier(r.notifier)}
	if cfg != nil {
		opts = append(opts, appstate.WithConfig(cfg, r.configPath))
	}
	if r.activeTheme != nil {
		opts = append(opts, appstate.WithTheme(r.activeTheme))
	}
	if r.keys != nil {
		opts = append(opts, appstate.WithKeymap(r.keys))
	}
	return opts
}
