package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition, one "Key: value" or "Key = value" per
// line, on top of the light theme. Unknown keys are ignored.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		i := strings.IndexAny(line, ":=")
		if i < 0 {
			continue
		}
		if err := t.Set(line[:i], line[i+1:]); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by case-insensitive name.
func (t *Theme) Set(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.Trim(strings.TrimSpace(value), `"`)
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	v := reflect.ValueOf(t).Elem()
	field := v.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, key) })
	if !field.IsValid() || field.Type() != rgbaType {
		return nil
	}
	c, err := ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(c))
	return nil
}

// Fields calls fn for every colour field in declaration order.
func (t *Theme) Fields(fn func(name string, c color.RGBA)) {
	v := reflect.ValueOf(t).Elem()
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type == rgbaType {
			fn(typ.Field(i).Name, v.Field(i).Interface().(color.RGBA))
		}
	}
}

// ParseColor accepts #RGB, #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex length in %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// FormatColor is the inverse of ParseColor for hex input.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
