package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

var errNoMonitors = errors.New("no monitors available")

// Monitor is one output in the desktop layout.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

func (m Monitor) String() string {
	s := fmt.Sprintf("%d: %s %dx%d+%d+%d", m.Index, m.Name, m.Rect.Dx(), m.Rect.Dy(), m.Rect.Min.X, m.Rect.Min.Y)
	if m.Primary {
		s += " (primary)"
	}
	return s
}

// Monitors lists the connected monitors in index order.
func Monitors() ([]Monitor, error) {
	return backend.Monitors()
}

// Resolve lists the monitors and picks the one named by selector.
func Resolve(selector string) (Monitor, error) {
	monitors, err := Monitors()
	if err != nil {
		return Monitor{}, err
	}
	return FindMonitor(monitors, selector)
}

// FindMonitor picks a monitor by index ("1" or "#1"), "primary", or a case
// insensitive substring of its name. An empty selector picks the first.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("%w: %w", ErrInvalidMonitor, errNoMonitors)
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return Monitor{}, fmt.Errorf("%w: index %d out of range", ErrInvalidMonitor, idx)
		}
		return monitors[idx], nil
	}
	for _, m := range monitors {
		if strings.Contains(strings.ToLower(m.Name), sel) {
			return m, nil
		}
	}
	return Monitor{}, fmt.Errorf("%w: %q not found", ErrInvalidMonitor, selector)
}
