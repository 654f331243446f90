package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Loader finds themes by name or path.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader returns a loader searching the user and system theme directories.
func NewLoader() *Loader {
	l := &Loader{SystemDir: "/usr/share/grabmark/themes"}
	if dir, err := homedir.Expand("~/.config/grabmark/themes"); err == nil {
		l.ConfigDir = dir
	}
	return l
}

// Load resolves name against, in order, the built-in themes, an existing
// file path, ConfigDir and SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if t, ok := Builtin(name); ok {
		return t, nil
	}
	if path, err := homedir.Expand(name); err == nil {
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
