package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/grabmark/internal/capture"
)

var listMonitorsFn = capture.Monitors

type monitorsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (m *monitorsCmd) FlagSet() *flag.FlagSet { return m.fs }

func (m *monitorsCmd) Program() string { return m.root.subcommand("monitors") }

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	m := &monitorsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(m)
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: m}
	}
	return m, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	for _, mon := range monitors {
		fmt.Fprintln(m.out, mon)
	}
	return nil
}
