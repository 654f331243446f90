// Package keymap binds editor actions to keyboard chords such as "ctrl+z".
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names an editor command.
type Action string

const (
	Undo      Action = "undo"
	Redo      Action = "redo"
	Save      Action = "save"
	Copy      Action = "copy"
	Paste     Action = "paste"
	Crop      Action = "crop"
	Confirm   Action = "confirm"
	Cancel    Action = "cancel"
	Capture   Action = "capture"
	Quit      Action = "quit"
	Brush     Action = "brush"
	Rectangle Action = "rectangle"
	Circle    Action = "circle"
	Arrow     Action = "arrow"
	Text      Action = "text"
	Wider     Action = "wider"
	Thinner   Action = "thinner"
)

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// Chord is one key with its modifiers.
type Chord struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

var modifierNames = map[string]key.Modifiers{
	"shift":   key.ModShift,
	"ctrl":    key.ModControl,
	"control": key.ModControl,
	"alt":     key.ModAlt,
	"option":  key.ModAlt,
	"meta":    key.ModMeta,
	"super":   key.ModMeta,
	"cmd":     key.ModMeta,
	"win":     key.ModMeta,
}

var namedCodes = map[string]key.Code{
	"enter":     key.CodeReturnEnter,
	"return":    key.CodeReturnEnter,
	"escape":    key.CodeEscape,
	"esc":       key.CodeEscape,
	"backspace": key.CodeDeleteBackspace,
	"tab":       key.CodeTab,
	"space":     key.CodeSpacebar,
	"delete":    key.CodeDeleteForward,
	"del":       key.CodeDeleteForward,
	"insert":    key.CodeInsert,
	"home":      key.CodeHome,
	"end":       key.CodeEnd,
	"pageup":    key.CodePageUp,
	"pagedown":  key.CodePageDown,
	"left":      key.CodeLeftArrow,
	"right":     key.CodeRightArrow,
	"up":        key.CodeUpArrow,
	"down":      key.CodeDownArrow,
	"minus":     key.CodeHyphenMinus,
	"-":         key.CodeHyphenMinus,
	"equal":     key.CodeEqualSign,
	"=":         key.CodeEqualSign,
	"plus":      key.CodeEqualSign,
}

// ParseChord parses "ctrl+shift+z", "escape" or "f5". Modifier and key
// names are case-insensitive.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	// "ctrl++" binds the plus key.
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "plus")
	}
	var c Chord
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i < len(parts)-1 {
			m, ok := modifierNames[p]
			if !ok {
				return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, p)
			}
			c.Modifiers |= m
			continue
		}
		code, r, ok := lookupKey(p)
		if !ok {
			return Chord{}, fmt.Errorf("chord %q: unknown key %q", s, p)
		}
		c.Code, c.Rune = code, r
	}
	return c, nil
}

func lookupKey(name string) (key.Code, rune, bool) {
	if code, ok := namedCodes[name]; ok {
		return code, 0, true
	}
	if len(name) == 1 {
		r := rune(name[0])
		switch {
		case r >= 'a' && r <= 'z':
			return key.CodeA + key.Code(r-'a'), r, true
		case r == '0':
			return key.Code0, r, true
		case r >= '1' && r <= '9':
			return key.Code1 + key.Code(r-'1'), r, true
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == name && n >= 1 && n <= 12 {
		return key.CodeF1 + key.Code(n-1), 0, true
	}
	return key.CodeUnknown, 0, false
}

// String formats the chord the way ParseChord reads it.
func (c Chord) String() string {
	var parts []string
	for _, m := range []struct {
		mod  key.Modifiers
		name string
	}{{key.ModControl, "ctrl"}, {key.ModAlt, "alt"}, {key.ModShift, "shift"}, {key.ModMeta, "meta"}} {
		if c.Modifiers&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, c.keyName()), "+")
}

func (c Chord) keyName() string {
	if c.Rune != 0 {
		return string(c.Rune)
	}
	if c.Code >= key.CodeF1 && c.Code <= key.CodeF12 {
		return fmt.Sprintf("f%d", c.Code-key.CodeF1+1)
	}
	best := ""
	for name, code := range namedCodes {
		// Prefer the longest alias for a stable result.
		if code == c.Code && (len(name) > len(best) || len(name) == len(best) && name < best) {
			best = name
		}
	}
	return best
}

// Matches reports whether a key press triggers the chord. The key code is
// compared first; drivers that leave it unknown are matched by rune.
func (c Chord) Matches(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if e.Modifiers&modMask != c.Modifiers {
		return false
	}
	if e.Code != key.CodeUnknown {
		return e.Code == c.Code
	}
	return c.Rune != 0 && unicode.ToLower(e.Rune) == c.Rune
}

// Keymap maps chords to actions.
type Keymap struct {
	bindings map[Action][]Chord
}

func mustChords(specs ...string) []Chord {
	out := make([]Chord, 0, len(specs))
	for _, s := range specs {
		c, err := ParseChord(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// Default returns the built-in bindings.
func Default() *Keymap {
	return &Keymap{bindings: map[Action][]Chord{
		Undo:      mustChords("ctrl+z"),
		Redo:      mustChords("ctrl+shift+z", "ctrl+y"),
		Save:      mustChords("ctrl+s"),
		Copy:      mustChords("ctrl+c"),
		Paste:     mustChords("ctrl+v"),
		Crop:      mustChords("c"),
		Confirm:   mustChords("enter"),
		Cancel:    mustChords("escape"),
		Capture:   mustChords("ctrl+n"),
		Quit:      mustChords("ctrl+q"),
		Brush:     mustChords("b"),
		Rectangle: mustChords("r"),
		Circle:    mustChords("o"),
		Arrow:     mustChords("a"),
		Text:      mustChords("t"),
		Wider:     mustChords("ctrl+plus", "plus"),
		Thinner:   mustChords("ctrl+minus", "minus"),
	}}
}

// Actions lists every bindable action in sorted order.
func Actions() []Action {
	m := Default().bindings
	out := make([]Action, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply replaces bindings from a [shortcuts] config section. A value may list
// several chords separated by commas. Unknown actions and bad chords are
// errors and leave the keymap untouched.
func (k *Keymap) Apply(overrides map[string]string) error {
	next := make(map[Action][]Chord, len(k.bindings))
	for a, cs := range k.bindings {
		next[a] = cs
	}
	for name, value := range overrides {
		a := Action(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := next[a]; !ok {
			return fmt.Errorf("shortcut for unknown action %q", name)
		}
		var chords []Chord
		for _, spec := range strings.Split(value, ",") {
			if strings.TrimSpace(spec) == "" {
				continue
			}
			c, err := ParseChord(spec)
			if err != nil {
				return fmt.Errorf("shortcut %s: %w", a, err)
			}
			chords = append(chords, c)
		}
		next[a] = chords
	}
	k.bindings = next
	return nil
}

// Chords returns the chords bound to a.
func (k *Keymap) Chords(a Action) []Chord { return k.bindings[a] }

// Lookup returns the action triggered by e. When several actions share a
// chord the alphabetically first wins.
func (k *Keymap) Lookup(e key.Event) (Action, bool) {
	var found Action
	for a, cs := range k.bindings {
		for _, c := range cs {
			if c.Matches(e) && (found == "" || a < found) {
				found = a
			}
		}
	}
	return found, found != ""
}
