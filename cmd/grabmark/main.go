package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/keymap"
	"github.com/example/grabmark/internal/notify"
	"github.com/example/grabmark/internal/theme"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	config        *config.Config
	configFlag    string
	configPath    string
	notifier      *notify.Notifier
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
	themeName     string
	activeTheme   *theme.Theme
	keys          *keymap.Keymap
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("grabmark", flag.ContinueOnError),
		program: "grabmark",
	}
	r.fs.StringVar(&r.configFlag, "config", "", "read configuration from this file")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme: light, dark, a theme file or a theme name")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", false, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// setup loads the configuration and applies flags over it.
// Precedence: CLI > Env > Config > Default.
func (r *root) setup() {
	loader := config.NewLoader(version, r.configFlag)
	r.configPath = loader.Path()
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg

	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	n := cfg.Notify
	if set["notify-capture"] {
		n.Capture = r.captureAlerts
	}
	if set["notify-save"] {
		n.Save = r.saveAlerts
	}
	if set["notify-copy"] {
		n.Copy = r.copyAlerts
	}
	r.notifier = notify.FromConfig(notify.LoadPreferences(), n)

	var t *theme.Theme
	if r.themeName != "" {
		t, err = loadTheme(cfg, r.themeName)
	} else {
		t, err = cfg.ActiveTheme(theme.NewLoader())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using default\n", err)
		t = theme.Default()
	}
	r.activeTheme = t

	r.keys = keymap.Default()
	if err := r.keys.Apply(cfg.Shortcuts); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// loadTheme resolves a theme named on the command line, preferring themes
// defined in the configuration.
func loadTheme(cfg *config.Config, name string) (*theme.Theme, error) {
	if t, ok := cfg.Themes[name]; ok {
		return t, nil
	}
	return theme.NewLoader().Load(name)
}

func (r *root) Run(args []string) error {
	if err := parseFlags(r.fs, args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.setup()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "grab":
		cmd, err = parseGrabCmd(subArgs, r)
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "monitors":
		cmd, err = parseMonitorsCmd(subArgs, r)
	case "listen":
		cmd, err = parseListenCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

// flagError is a parse failure the flag package has already reported
// together with the usage text.
type flagError struct{ err error }

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

// parseFlags parses args into fs. -h yields flag.ErrHelp after the help has
// been printed by the FlagSet's Usage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &flagError{err: err}
	}
	return nil
}

func main() {
	r := newRoot()
	err := r.Run(os.Args[1:])
	var (
		uerr *UsageError
		ferr *flagError
	)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.As(err, &uerr):
		fmt.Fprintln(os.Stderr, uerr.Error())
	case errors.As(err, &ferr):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
