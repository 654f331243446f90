package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/grabmark/internal/config"
)

type configCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Program() string { return c.root.subcommand("config") }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runPrint() error {
	_, err := io.WriteString(c.out, c.config.String())
	return err
}

// runSave writes the effective configuration back to the file it came
// from, or to the default location when there was none.
func (c *configCmd) runSave() error {
	path := c.configPath
	if path == "" {
		path = config.NewLoader(version, c.configFlag).DefaultPath()
	}
	if err := config.Save(path, c.config); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
