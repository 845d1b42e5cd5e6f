package palette

import (
	"bufio"
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library is a set of named palettes loaded from a file.
type Library map[string]Palette

// Names returns the palette names in sorted order.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the named palette.
func (l Library) Lookup(name string) (Palette, error) {
	p, ok := l[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return p.Clone(), nil
}

// libraryFile is the YAML layout:
//
//	palettes:
//	  sunset: ["#ff0000", "#ff8800", "#ffff00"]
type libraryFile struct {
	Palettes map[string][]string `yaml:"palettes"`
}

// LoadFile reads palettes from path.
//
// Files ending in .yaml or .yml hold any number of named palettes. Any other
// file is read as a Paint.NET palette: one AARRGGBB hex colour per line, with
// ';' starting a comment. A Paint.NET file yields a single palette named
// after the file.
func LoadFile(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		p, err := ParsePaintDotNet(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return Library{name: p}, nil
	}
}

// ParseYAML parses a YAML palette library.
func ParseYAML(data []byte) (Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse palette yaml: %w", err)
	}

	lib := make(Library, len(f.Palettes))
	for name, values := range f.Palettes {
		p, err := ParseHexList(values)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		if len(p) == 0 {
			return nil, fmt.Errorf("palette %q: %w", name, ErrEmptyPalette)
		}
		lib[name] = p
	}
	return lib, nil
}

// ParsePaintDotNet parses the Paint.NET palette text format.
func ParsePaintDotNet(data []byte) (Palette, error) {
	var p Palette
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, ';'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(text) != 8 {
			return nil, fmt.Errorf("line %d: %w: %q is not AARRGGBB", line, ErrInvalidColor, text)
		}
		v, err := strconv.ParseUint(text, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrInvalidColor, text)
		}
		p = append(p, color.NRGBA{
			A: uint8(v >> 24),
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return p, nil
}
