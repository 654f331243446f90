// Package config reads and writes the grabmark RC file.
package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/example/grabmark/internal/theme"
)

// DefaultCaptureHotkey is used by the listener when capture_hotkey is unset.
const DefaultCaptureHotkey = "ctrl+shift+g"

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	Theme         string
	SaveDir       string
	SaveFormat    string
	DarkMode      bool
	Shadow        bool
	CaptureHotkey string
	Monitor       string
	Notify        Notify
	// Shortcuts maps action names to chords, e.g. "undo" to "ctrl+z".
	Shortcuts map[string]string
	Themes    map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Shortcuts: make(map[string]string),
		Themes:    make(map[string]*theme.Theme),
	}
}

// SaveDirectory returns SaveDir with a leading ~ expanded, falling back to
// the working directory.
func (c *Config) SaveDirectory() string {
	if c.SaveDir == "" {
		return "."
	}
	dir, err := homedir.Expand(c.SaveDir)
	if err != nil {
		return c.SaveDir
	}
	return dir
}

// Hotkey returns the capture hotkey chord.
func (c *Config) Hotkey() string {
	if c.CaptureHotkey == "" {
		return DefaultCaptureHotkey
	}
	return c.CaptureHotkey
}

// ActiveTheme picks the UI theme. GRABMARK_THEME wins over the theme key,
// which wins over dark_mode. Themes defined inline take precedence over
// files found by l.
func (c *Config) ActiveTheme(l *theme.Loader) (*theme.Theme, error) {
	name := strings.TrimSpace(os.Getenv("GRABMARK_THEME"))
	if name == "" {
		name = c.Theme
	}
	if name == "" {
		if c.DarkMode {
			return theme.Dark(), nil
		}
		return theme.Default(), nil
	}
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	if l == nil {
		l = theme.NewLoader()
	}
	return l.Load(name)
}

// String returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, value string }{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"save_format", c.SaveFormat},
		{"capture_hotkey", c.CaptureHotkey},
		{"monitor", c.Monitor},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	fmt.Fprintf(&sb, "dark_mode = %v\n", c.DarkMode)
	fmt.Fprintf(&sb, "shadow = %v\n", c.Shadow)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	if len(c.Shortcuts) > 0 {
		sb.WriteString("\n[shortcuts]\n")
		for _, action := range sortedKeys(c.Shortcuts) {
			fmt.Fprintf(&sb, "%s = %s\n", action, c.Shortcuts[action])
		}
	}

	for _, name := range sortedKeys(c.Themes) {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		t.Fields(func(field string, col color.RGBA) {
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.FormatColor(col))
		})
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
