package imaging

import (
	"image"
	"image/color"

	"github.com/ironsheep/palette-dither-mcp/internal/dither"
)

// OutputOptions controls what MapImage returns besides the pixels.
type OutputOptions struct {
	// Scale resizes the returned preview. 1 or 0 keeps the original size.
	Scale float64

	// OutputPath, when set, receives the full-size mapped image.
	OutputPath string

	// NoPreview skips the base64 preview.
	NoPreview bool

	// Guides draws the region outline and strip boundaries on the preview.
	// The saved image never carries them.
	Guides bool

	// GuideColor colours the guides. A fully transparent value means
	// DefaultGuideColor.
	GuideColor color.NRGBA
}

// MapResult is the outcome of MapImage.
type MapResult struct {
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Method         string         `json:"method"`
	Amount         float32        `json:"amount"`
	KeepAlpha      bool           `json:"keep_alpha"`
	Region         *Region        `json:"region,omitempty"`
	Strips         int            `json:"strips"`
	Palette        []PaletteColor `json:"palette"`
	DistinctColors int            `json:"distinct_colors"`
	Quality        *QualityResult `json:"quality"`
	OutputPath     string         `json:"output_path,omitempty"`
	Preview        *EncodedImage  `json:"preview,omitempty"`

	// Image is the full-size mapped image.
	Image *image.NRGBA `json:"-"`
}

// MapImage runs MapToPalette and gathers everything a caller needs to judge
// the result: colour count, quality against the source, an optional preview
// and an optional saved copy.
func MapImage(img image.Image, opts MapOptions, out OutputOptions) (*MapResult, error) {
	mapped, err := MapToPalette(img, opts)
	if err != nil {
		return nil, err
	}

	rect := mapped.Bounds()
	if opts.Region != nil {
		rect = opts.Region.Rect()
	}

	quality, err := Quality(img, mapped, opts.Region)
	if err != nil {
		return nil, err
	}

	method := opts.Method
	if !opts.Dithered() {
		method = dither.MethodNone
	}
	result := &MapResult{
		Width:          mapped.Bounds().Dx(),
		Height:         mapped.Bounds().Dy(),
		Method:         string(method),
		Amount:         opts.Amount,
		KeepAlpha:      opts.KeepAlpha,
		Region:         opts.Region,
		Strips:         len(Strips(rect, opts.StripHeight)),
		Palette:        DescribePalette(opts.Palette),
		DistinctColors: CountColors(mapped, rect),
		Quality:        quality,
		Image:          mapped,
	}

	if out.OutputPath != "" {
		if err := Save(mapped, out.OutputPath); err != nil {
			return nil, err
		}
		result.OutputPath = out.OutputPath
	}

	if !out.NoPreview {
		var src image.Image = mapped
		if out.Guides {
			guide := out.GuideColor
			if guide.A == 0 {
				guide = DefaultGuideColor
			}
			src = DrawStripGuides(mapped, rect, opts.StripHeight, guide)
		}
		preview, err := EncodePNG(src, out.Scale)
		if err != nil {
			return nil, err
		}
		result.Preview = preview
	}

	return result, nil
}
