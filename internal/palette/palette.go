// Package palette provides fixed colour palettes and nearest-colour matching.
//
// A Palette is an ordered list of non-premultiplied RGBA colours. Order
// matters: when two entries are equally close to a colour, the earlier entry
// wins, and index ranges select entries by position.
//
// Palettes come from the built-in presets (Named), from hex strings
// (ParseHexList), or from palette files (LoadFile).
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrEmptyPalette is returned when a matcher is built without colours.
	ErrEmptyPalette = errors.New("palette is empty")

	// ErrInvalidRange is returned for index ranges outside the palette.
	ErrInvalidRange = errors.New("invalid palette index range")

	// ErrInvalidColor is returned for unparseable colour strings.
	ErrInvalidColor = errors.New("invalid colour")

	// ErrUnknownPalette is returned when a named palette does not exist.
	ErrUnknownPalette = errors.New("unknown palette")
)

// Palette is an ordered sequence of colours.
type Palette []color.NRGBA

// Clone returns a copy of p.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// Slice returns the entries from start to end, both inclusive and 1-based,
// matching the index range a user picks in a palette editor.
func (p Palette) Slice(start, end int) (Palette, error) {
	if start < 1 || end < start || end > len(p) {
		return nil, fmt.Errorf("%w: %d..%d for a palette of %d colours", ErrInvalidRange, start, end, len(p))
	}
	return p[start-1 : end].Clone(), nil
}

// Hex returns each entry formatted by FormatHex.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = FormatHex(c)
	}
	return out
}

// FromColors converts arbitrary colours to a Palette.
func FromColors(colors []color.Color) Palette {
	out := make(Palette, len(colors))
	for i, c := range colors {
		out[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return out
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is
// optional. Colours without an alpha component are opaque.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(255)
	switch len(hex) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q must have 3, 6 or 8 hex digits", ErrInvalidColor, s)
	}

	// colorful.Hex stops at the first non-hex digit without failing.
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q has a non-hex digit", ErrInvalidColor, s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// ParseHexList parses a list of colours with ParseHex.
func ParseHexList(values []string) (Palette, error) {
	out := make(Palette, 0, len(values))
	for i, v := range values {
		c, err := ParseHex(v)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// FormatHex formats c as "#rrggbb", or "#rrggbbaa" when c is not opaque.
func FormatHex(c color.NRGBA) string {
	hex := toColorful(c).Hex()
	if c.A != 255 {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}
