package imaging

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
)

// DefaultGuideColor is used when OutputOptions.GuideColor is unset.
var DefaultGuideColor = color.NRGBA{255, 0, 255, 255}

// DrawStripGuides returns a copy of img with rect outlined, a line on the
// first row of every strip after the first, and each strip numbered from 1.
// The strips are the ones MapToPalette renders for the same stripHeight.
func DrawStripGuides(img *image.NRGBA, rect image.Rectangle, stripHeight int, guide color.NRGBA) *image.NRGBA {
	result := imaging.Clone(img)
	rect = rect.Intersect(result.Bounds())
	if rect.Empty() {
		return result
	}

	// Outline
	for x := rect.Min.X; x < rect.Max.X; x++ {
		result.SetNRGBA(x, rect.Min.Y, guide)
		result.SetNRGBA(x, rect.Max.Y-1, guide)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		result.SetNRGBA(rect.Min.X, y, guide)
		result.SetNRGBA(rect.Max.X-1, y, guide)
	}

	strips := Strips(rect, stripHeight)
	for _, s := range strips[1:] {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			result.SetNRGBA(x, s.Min.Y, guide)
		}
	}

	labelColor := color.NRGBA{255, 255, 255, 255}
	bgColor := color.NRGBA{0, 0, 0, 180}
	for i, s := range strips {
		label := strconv.Itoa(i + 1)
		if s.Dy() < labelHeight+3 || rect.Dx() < len(label)*charWidth+3 {
			continue
		}
		drawLabel(result, s.Min.X+2, s.Min.Y+2, label, labelColor, bgColor)
	}
	return result
}

const (
	charWidth   = 4
	labelHeight = 7
)

// 3x5 pixel digits
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text on a background box with its top-left glyph pixel at
// (x, y). Pixels outside img are skipped.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetNRGBA(px, py, c)
		}
	}

	labelWidth := len(text) * charWidth
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
