// Package notify tells the user about finished captures, saves and copies.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventCapture Event = "capture"
	EventSave    Event = "save"
	EventCopy    Event = "copy"
)

// Preferences holds the title and per-event message templates. Each
// template takes one %s for the detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the built-in wording.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "grabmark",
		Templates: map[Event]string{
			EventCapture: "Captured %s",
			EventSave:    "Saved %s",
			EventCopy:    "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies GRABMARK_NOTIFY_* overrides to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("GRABMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, env := range map[Event]string{
		EventCapture: "GRABMARK_NOTIFY_CAPTURE_TEXT",
		EventSave:    "GRABMARK_NOTIFY_SAVE_TEXT",
		EventCopy:    "GRABMARK_NOTIFY_COPY_TEXT",
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

var send = platform.Notify

// Notifier sends notifications for the events enabled on it. A nil
// Notifier is valid and silent.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))}
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// FromConfig enables events per the [notify] section.
func FromConfig(prefs Preferences, n config.Notify) *Notifier {
	out := New(prefs)
	out.Enable(EventCapture, n.Capture)
	out.Enable(EventSave, n.Save)
	out.Enable(EventCopy, n.Copy)
	return out
}

// Enable toggles one event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Capture announces a capture, attaching a preview of img when given.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.Enabled(EventCapture) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save announces a written file, using the file itself as the icon.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(detail); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard write.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	body := n.Message(event, detail)
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// Message renders the body for event. Templates without a verb get the
// detail appended.
func (n *Notifier) Message(event Event, detail string) string {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return ""
	}
	detail = strings.TrimSpace(detail)
	if !strings.Contains(tmpl, "%s") {
		return strings.TrimSpace(tmpl + " " + detail)
	}
	return strings.TrimSpace(fmt.Sprintf(tmpl, detail))
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "grabmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, err
	}
	return path, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}, nil
}
