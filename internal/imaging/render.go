package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/palette-dither-mcp/internal/dither"
	"github.com/ironsheep/palette-dither-mcp/internal/palette"
)

// ErrInvalidOptions is returned when MapOptions fail validation. No pixel is
// touched when it is returned.
var ErrInvalidOptions = errors.New("invalid render options")

// MapOptions configures MapToPalette.
type MapOptions struct {
	// Palette is the target palette. It must not be empty.
	Palette palette.Palette

	// Method selects the dithering kernel. MethodNone maps every pixel to its
	// nearest palette colour without diffusing any error.
	Method dither.Method

	// Amount scales the diffused error, from 0 (no dithering) to 1.
	Amount float32

	// KeepAlpha keeps each source pixel's opacity instead of taking the alpha
	// of the matched palette entry.
	KeepAlpha bool

	// Region restricts rendering to part of the image. Nil means the whole
	// image. Pixels outside the region are copied unchanged.
	Region *Region

	// StripHeight splits the region into horizontal strips of this many rows,
	// each dithered independently. 0 renders the region as one strip.
	StripHeight int

	// Parallel renders strips concurrently.
	Parallel bool

	// ShareCache lets all strips use one colour-match cache. Without it every
	// strip builds its own.
	ShareCache bool
}

// Dithered reports whether the options diffuse error at all.
func (o MapOptions) Dithered() bool {
	return o.Amount > 0 && o.Method != dither.MethodNone
}

func (o MapOptions) alphaMode() palette.AlphaMode {
	if o.KeepAlpha {
		return palette.AlphaFromSource
	}
	return palette.AlphaFromPalette
}

// validate checks the options against an image of the given bounds and
// returns the rectangle to render.
func (o MapOptions) validate(bounds image.Rectangle) (image.Rectangle, error) {
	if len(o.Palette) == 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %w", ErrInvalidOptions, palette.ErrEmptyPalette)
	}
	if math.IsNaN(float64(o.Amount)) || o.Amount < 0 || o.Amount > 1 {
		return image.Rectangle{}, fmt.Errorf("%w: amount must be between 0 and 1, got %v", ErrInvalidOptions, o.Amount)
	}
	if o.Method != dither.MethodNone && o.Method.Kernel() == nil {
		return image.Rectangle{}, fmt.Errorf("%w: unknown dithering method %q", ErrInvalidOptions, o.Method)
	}
	if o.StripHeight < 0 {
		return image.Rectangle{}, fmt.Errorf("%w: strip height must not be negative, got %d", ErrInvalidOptions, o.StripHeight)
	}

	if o.Region == nil {
		return bounds, nil
	}
	rect := o.Region.Rect()
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: region (%d,%d)-(%d,%d) is empty",
			ErrInvalidOptions, o.Region.X1, o.Region.Y1, o.Region.X2, o.Region.Y2)
	}
	if !rect.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			ErrInvalidOptions, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return rect, nil
}

// Strips splits rect into horizontal bands of height rows, top to bottom.
// The last band may be shorter. A height of 0, or one at least as tall as
// rect, yields rect itself.
func Strips(rect image.Rectangle, height int) []image.Rectangle {
	if height <= 0 || height >= rect.Dy() {
		return []image.Rectangle{rect}
	}
	strips := make([]image.Rectangle, 0, (rect.Dy()+height-1)/height)
	for y := rect.Min.Y; y < rect.Max.Y; y += height {
		strips = append(strips, image.Rect(rect.Min.X, y, rect.Max.X, min(y+height, rect.Max.Y)))
	}
	return strips
}

// MapToPalette returns a copy of img with every pixel of the selected region
// replaced by a colour from opts.Palette, dithered with opts.Method.
//
// Parameters:
//   - img: The source image. It is never modified.
//   - opts: Palette, method and strip layout. See MapOptions.
//
// Returns:
//   - *image.NRGBA: The mapped image, with bounds starting at (0,0) and the
//     same size as img.
//   - error: Wraps ErrInvalidOptions when opts are rejected.
//
// # Strips
//
// Each strip is rendered top to bottom with its own Diffuser, so error never
// crosses a strip boundary. Strips are independent of each other and produce
// the same pixels whether they run sequentially or in parallel.
func MapToPalette(img image.Image, opts MapOptions) (*image.NRGBA, error) {
	size := img.Bounds().Size()
	rect, err := opts.validate(image.Rect(0, 0, size.X, size.Y))
	if err != nil {
		return nil, err
	}
	dst := imaging.Clone(img)
	if rect.Empty() {
		return dst, nil
	}

	mode := opts.alphaMode()
	var shared *palette.Matcher
	if opts.ShareCache {
		if opts.Parallel {
			shared, err = palette.NewSharedMatcher(opts.Palette, mode)
		} else {
			shared, err = palette.NewMatcher(opts.Palette, mode)
		}
		if err != nil {
			return nil, err
		}
	}

	renderStrip := func(strip image.Rectangle) error {
		m := shared
		if m == nil {
			var err error
			if m, err = palette.NewMatcher(opts.Palette, mode); err != nil {
				return err
			}
		}
		if !opts.Dithered() {
			quantizeStrip(dst, strip, m)
			return nil
		}
		return ditherStrip(dst, strip, m, opts.Method.Kernel(), opts.Amount)
	}

	strips := Strips(rect, opts.StripHeight)
	errs := make([]error, len(strips))
	if opts.Parallel && len(strips) > 1 {
		parallel.Line(len(strips), func(start, end int) {
			for i := start; i < end; i++ {
				errs[i] = renderStrip(strips[i])
			}
		})
	} else {
		for i, strip := range strips {
			errs[i] = renderStrip(strip)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return dst, nil
}

// ditherStrip diffuses error across one strip of dst in place. Every pixel is
// read before it is written, so dst doubles as the source.
func ditherStrip(dst *image.NRGBA, strip image.Rectangle, q dither.Quantizer, kernel *dither.Kernel, amount float32) error {
	d, err := dither.NewDiffuser(kernel, amount, strip.Dx())
	if err != nil {
		return err
	}

	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(strip.Min.X, y):]
		for x := 0; x < d.Width(); x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			out := d.FinalColor(x, color.NRGBA{px[0], px[1], px[2], px[3]}, q)
			px[0], px[1], px[2], px[3] = out.R, out.G, out.B, out.A
		}
		d.MoveToNextLine()
	}
	return nil
}

func quantizeStrip(dst *image.NRGBA, strip image.Rectangle, q dither.Quantizer) {
	for y := strip.Min.Y; y < strip.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(strip.Min.X, y):]
		for x := 0; x < strip.Dx(); x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			out := q.Quantize(color.NRGBA{px[0], px[1], px[2], px[3]})
			px[0], px[1], px[2], px[3] = out.R, out.G, out.B, out.A
		}
	}
}

// CountColors returns the number of distinct colours in rect of img.
func CountColors(img *image.NRGBA, rect image.Rectangle) int {
	seen := make(map[color.NRGBA]struct{})
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			seen[img.NRGBAAt(x, y)] = struct{}{}
		}
	}
	return len(seen)
}
