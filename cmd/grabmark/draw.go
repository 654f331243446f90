package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/clone"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/clipboard"
	"github.com/example/grabmark/internal/export"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/render"
	"github.com/example/grabmark/internal/theme"
)

var readClipboardFn = clipboard.ReadImage

// drawCmd applies one annotation to an image without opening a window.
type drawCmd struct {
	*root
	fs            *flag.FlagSet
	input         string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	width         float64
	annotation    annotate.Annotation
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func (d *drawCmd) Program() string { return d.root.subcommand("draw") }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.input, "input", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to the input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "red", "pen colour as a name or #RRGGBB")
	fs.Float64Var(&d.width, "width", 3, "pen width; for text it scales the font size")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: d}
	}
	c, err := theme.ParseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	style := annotate.NewStrokeStyle(float32(d.width), c)
	d.annotation, err = parseShape(fs.Arg(0), fs.Args()[1:], style)
	if err != nil {
		return nil, err
	}
	switch {
	case !d.fromClipboard && d.input == "":
		return nil, fmt.Errorf("input file is required")
	case d.output == "" && d.input != "":
		d.output = d.input
	case d.output == "" && !d.toClipboard:
		return nil, fmt.Errorf("output file is required when reading from the clipboard")
	}
	return d, nil
}

// parseShape builds the annotation named by shape from its operands.
func parseShape(shape string, args []string, style annotate.StrokeStyle) (annotate.Annotation, error) {
	shape = strings.ToLower(shape)
	switch shape {
	case "brush":
		if len(args) < 4 || len(args)%2 != 0 {
			return nil, fmt.Errorf("brush requires at least two x y pairs")
		}
		v, err := expectFloats(args, len(args), shape)
		if err != nil {
			return nil, err
		}
		b := annotate.Brush{Style: style, Finished: true}
		for i := 0; i < len(v); i += 2 {
			b.Append(geom.Pt(v[i], v[i+1]))
		}
		return b, nil
	case "rect", "rectangle":
		v, err := expectFloats(args, 4, shape)
		if err != nil {
			return nil, err
		}
		return annotate.Rectangle{Rect: geom.RectFromPoints(geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3])), Style: style}, nil
	case "circle":
		v, err := expectFloats(args, 3, shape)
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 {
			return nil, fmt.Errorf("circle radius must be positive")
		}
		return annotate.Circle{Center: geom.Pt(v[0], v[1]), Radius: v[2], Style: style}, nil
	case "arrow":
		v, err := expectFloats(args, 4, shape)
		if err != nil {
			return nil, err
		}
		from := geom.Pt(v[0], v[1])
		return annotate.Arrow{Origin: from, Vector: geom.Pt(v[2], v[3]).Sub(from), Style: style}, nil
	case "text":
		if len(args) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		v, err := expectFloats(args[:2], 2, shape)
		if err != nil {
			return nil, err
		}
		content := strings.Join(args[2:], " ")
		if strings.TrimSpace(content) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
		return annotate.Text{Position: geom.Pt(v[0], v[1]), Content: content, Style: style}, nil
	}
	return nil, fmt.Errorf("unsupported shape %q", shape)
}

func expectFloats(args []string, n int, shape string) ([]float32, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float32, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = float32(v)
	}
	return vals, nil
}

func (d *drawCmd) Run() error {
	src, err := d.loadSource()
	if err != nil {
		return err
	}
	out := render.Compose(src, []annotate.Annotation{d.annotation}, src.Bounds())
	if d.toClipboard {
		if err := writeClipboardFn(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied result to clipboard")
		if d.root != nil {
			d.notifier.Copy(d.annotation.Kind().String())
		}
		if d.output == "" {
			return nil
		}
	}
	f, err := export.FormatFromPath(d.output)
	if err != nil {
		f = export.PNG
	}
	if err := export.Save(d.output, out, f); err != nil {
		return fmt.Errorf("save %s: %w", d.output, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", d.output)
	if d.root != nil {
		d.notifier.Save(d.output)
	}
	return nil
}

func (d *drawCmd) loadSource() (*image.RGBA, error) {
	if d.fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return clone.AsRGBA(img), nil
	}
	img, err := loadImage(d.input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.input, err)
	}
	return img, nil
}
