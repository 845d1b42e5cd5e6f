package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soniakeys/quant/mean"

	"github.com/ironsheep/palette-dither-mcp/internal/palette"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// PaletteColor describes one palette entry.
type PaletteColor struct {
	// Index is the 1-based position in the palette, the numbering used by
	// start_index and end_index.
	Index int `json:"index"`

	// Hex is "#rrggbb", or "#rrggbbaa" for a translucent entry.
	Hex string `json:"hex"`

	RGB   RGBColor `json:"rgb"`
	Alpha uint8    `json:"alpha"`
	HSL   HSLColor `json:"hsl"`

	// Percentage is the share of analysed pixels in this colour's cluster.
	// Only set by ExtractPalette.
	Percentage float64 `json:"percentage,omitempty"`
}

// DescribeColor converts c to its display form.
func DescribeColor(index int, c color.NRGBA) PaletteColor {
	return PaletteColor{
		Index: index,
		Hex:   palette.FormatHex(c),
		RGB:   RGBColor{R: c.R, G: c.G, B: c.B},
		Alpha: c.A,
		HSL:   toHSL(c),
	}
}

// DescribePalette describes every entry of p in order.
func DescribePalette(p palette.Palette) []PaletteColor {
	out := make([]PaletteColor, len(p))
	for i, c := range p {
		out[i] = DescribeColor(i+1, c)
	}
	return out
}

func toHSL(c color.NRGBA) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ExtractPaletteResult contains the dominant colours of an image, ready to be
// passed back as a palette.
type ExtractPaletteResult struct {
	Colors []PaletteColor `json:"colors"`

	// Hex holds the same colours as Colors, as accepted by the colors
	// argument of image_map_to_palette.
	Hex []string `json:"hex"`

	// Palette is the extracted palette, most common colour first.
	Palette palette.Palette `json:"-"`
}

// maxExtractColors is the largest palette the quantizer produces.
const maxExtractColors = 256

// ExtractPalette finds the count most common colours of an image or region.
//
// Parameters:
//   - img: The source image to analyze.
//   - count: Maximum number of colours to return. Must be at least 1;
//     values above 256 are capped.
//   - region: Optional region to analyze. If nil, the entire image is used.
//
// Returns:
//   - *ExtractPaletteResult: The dominant colours sorted by frequency, ties
//     broken by colour so the result is deterministic.
//   - error: Non-nil for an invalid count or region.
//
// # Color Quantization
//
// Colours are clustered with the mean-cut quantizer from soniakeys/quant, so
// each returned colour is the mean of the pixels in its cluster. Clusters are
// only split while they hold more than one colour, which means fewer than
// count colours come back for simple images. Transparent pixels are skipped
// and partly transparent ones count at full opacity.
func ExtractPalette(img image.Image, count int, region *Region) (*ExtractPaletteResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}
	count = min(count, maxExtractColors)

	bounds := img.Bounds()
	if region != nil {
		r := region.Rect().Add(bounds.Min)
		if r.Empty() || !r.In(bounds) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds", region.X1, region.Y1, region.X2, region.Y2)
		}
		bounds = r
	}

	// Gather the visible pixels into a single row; the quantizer only looks
	// at colours, not positions.
	visible := make([]color.NRGBA, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			visible = append(visible, c)
		}
	}

	result := &ExtractPaletteResult{
		Colors:  []PaletteColor{},
		Hex:     []string{},
		Palette: palette.Palette{},
	}
	if len(visible) == 0 {
		return result, nil
	}

	row := image.NewNRGBA(image.Rect(0, 0, len(visible), 1))
	for i, c := range visible {
		row.SetNRGBA(i, 0, c)
	}
	quantized := mean.Quantizer(count).Paletted(row)
	colors := palette.FromColors(quantized.Palette)

	counts := make([]int, len(colors))
	for _, idx := range quantized.Pix {
		counts[idx]++
	}

	order := make([]int, len(colors))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return colorKey(colors[a]) < colorKey(colors[b])
	})

	for i, idx := range order {
		c := colors[idx]
		pc := DescribeColor(i+1, c)
		pc.Percentage = math.Round(float64(counts[idx])/float64(len(visible))*1000) / 10
		result.Colors = append(result.Colors, pc)
		result.Hex = append(result.Hex, pc.Hex)
		result.Palette = append(result.Palette, c)
	}

	return result, nil
}

func colorKey(c color.NRGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
