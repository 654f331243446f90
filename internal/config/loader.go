package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // build version; "dev" also searches the working directory
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found, or returns defaults when
// there is none.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile parses the configuration at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Path returns the configuration file in use, or "" when none exists.
func (l *Loader) Path() string {
	for _, p := range l.candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where "config save" writes when no file exists yet.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	dir, err := homedir.Expand("~/.config/grabmark")
	if err != nil {
		return ".grabmarkrc"
	}
	return filepath.Join(dir, "config.rc")
}

func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		if p, err := homedir.Expand(l.OverridePath); err == nil {
			paths = append(paths, p)
		}
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".grabmarkrc"))
		}
	}
	if dir, err := homedir.Expand("~/.config/grabmark"); err == nil {
		paths = append(paths,
			filepath.Join(dir, "config.rc"),
			filepath.Join(dir, "grabmark.rc"),
		)
	}
	return paths
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}
