package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// DefaultName is the palette used when none is given.
const DefaultName = "bw"

var presets = map[string]Palette{
	"bw":     {{0, 0, 0, 255}, {255, 255, 255, 255}},
	"gray4":  grayRamp(4),
	"gray16": grayRamp(16),
	"cga": mustHexList(
		"#000000", "#0000aa", "#00aa00", "#00aaaa", "#aa0000", "#aa00aa", "#aa5500", "#aaaaaa",
		"#555555", "#5555ff", "#55ff55", "#55ffff", "#ff5555", "#ff55ff", "#ffff55", "#ffffff",
	),
	"gameboy": mustHexList("#0f380f", "#306230", "#8bac0f", "#9bbc0f"),
	"pico8": mustHexList(
		"#000000", "#1d2b53", "#7e2553", "#008751", "#ab5236", "#5f574f", "#c2c3c7", "#fff1e8",
		"#ff004d", "#ffa300", "#ffec27", "#00e436", "#29adff", "#83769c", "#ff77a8", "#ffccaa",
	),
	// HTML 4 basic colours.
	"web-safe-16": mustHexList(
		"#000000", "#c0c0c0", "#808080", "#ffffff", "#800000", "#ff0000", "#800080", "#ff00ff",
		"#008000", "#00ff00", "#808000", "#ffff00", "#000080", "#0000ff", "#008080", "#00ffff",
	),
}

func grayRamp(levels int) Palette {
	out := make(Palette, levels)
	for i := range out {
		v := uint8(i * 255 / (levels - 1))
		out[i] = color.NRGBA{v, v, v, 255}
	}
	return out
}

func mustHexList(values ...string) Palette {
	p, err := ParseHexList(values)
	if err != nil {
		panic(err)
	}
	return p
}

// Named returns a copy of a built-in palette. Names are case-insensitive.
func Named(name string) (Palette, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return p.Clone(), nil
}

// Names returns the names of the built-in palettes in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
