//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import "testing"

func TestRunningOnWayland(t *testing.T) {
	tests := []struct {
		name        string
		sessionType string
		display     string
		want        bool
	}{
		{"session type", "Wayland", "", true},
		{"display socket", "x11", "wayland-0", true},
		{"plain x11", "x11", "", false},
		{"nothing set", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.display)
			if got := runningOnWayland(); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
