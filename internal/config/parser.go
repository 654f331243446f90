package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/grabmark/internal/theme"
)

// Parse reads configuration in RC format: "key = value" lines, optionally
// grouped under [notify], [shortcuts] or [theme.NAME] sections. Unknown keys
// and sections are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := splitKV(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "shortcuts":
			cfg.Shortcuts[strings.ToLower(key)] = value
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "save_format":
		cfg.SaveFormat = strings.ToLower(value)
	case "dark_mode":
		cfg.DarkMode, err = parseBool(key, value)
	case "shadow":
		cfg.Shadow, err = parseBool(key, value)
	case "capture_hotkey":
		cfg.CaptureHotkey = value
	case "monitor":
		cfg.Monitor = value
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "capture":
		n.Capture = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
