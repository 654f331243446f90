package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"

	"github.com/example/grabmark/internal/hotkey"
	"github.com/example/grabmark/internal/keymap"
)

type hotkeyListener interface {
	Listen(ctx context.Context, fn func()) error
}

var (
	hotkeyRunFn      = hotkey.Run
	registerHotkeyFn = func(c keymap.Chord) (hotkeyListener, error) {
		l, err := hotkey.Register(c)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	startProcessFn = func(cmd *exec.Cmd) error {
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				log.Printf("grab: %v", err)
			}
		}()
		return nil
	}
)

// listenCmd waits for the global capture hotkey and runs grab on every
// press.
type listenCmd struct {
	*root
	fs       *flag.FlagSet
	chord    string
	grabArgs []string
}

func (l *listenCmd) FlagSet() *flag.FlagSet { return l.fs }

func (l *listenCmd) Program() string { return l.root.subcommand("listen") }

func parseListenCmd(args []string, r *root) (*listenCmd, error) {
	fs := flag.NewFlagSet("listen", flag.ContinueOnError)
	l := &listenCmd{root: r, fs: fs}
	fs.Usage = usageFunc(l)
	fs.StringVar(&l.chord, "hotkey", "", "key chord to listen for (defaults to capture_hotkey)")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	l.grabArgs = fs.Args()
	if l.chord == "" && r != nil && r.config != nil {
		l.chord = r.config.Hotkey()
	}
	if _, err := keymap.ParseChord(l.chord); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *listenCmd) Run() error {
	chord, err := keymap.ParseChord(l.chord)
	if err != nil {
		return err
	}
	var runErr error
	hotkeyRunFn(func() { runErr = l.listen(chord) })
	return runErr
}

func (l *listenCmd) listen(chord keymap.Chord) error {
	hk, err := registerHotkeyFn(chord)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "listening for %s, press Ctrl+C to stop\n", chord)
	err = hk.Listen(ctx, func() {
		if err := l.spawn(); err != nil {
			log.Printf("grab: %v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// grabCommand is the process started for one hotkey press. It inherits the
// configuration file in use.
func (l *listenCmd) grabCommand() (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	var args []string
	if l.root != nil && l.configPath != "" {
		args = append(args, "-config", l.configPath)
	}
	args = append(args, "grab")
	args = append(args, l.grabArgs...)
	cmd := exec.Command(exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

func (l *listenCmd) spawn() error {
	cmd, err := l.grabCommand()
	if err != nil {
		return err
	}
	return startProcessFn(cmd)
}
