package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// QualityResult compares a mapped image with its source.
type QualityResult struct {
	// MSE is the mean squared error over the red, green and blue channels.
	MSE      float64 `json:"mse"`
	MSERed   float64 `json:"mse_red"`
	MSEGreen float64 `json:"mse_green"`
	MSEBlue  float64 `json:"mse_blue"`

	// PSNR is the peak signal-to-noise ratio in decibels. It is omitted when
	// the images are identical.
	PSNR float64 `json:"psnr_db,omitempty"`

	Identical     bool `json:"identical"`
	PixelsChanged int  `json:"pixels_changed"`
	TotalPixels   int  `json:"total_pixels"`
}

// Quality measures how far mapped strays from original inside region, or
// across the whole image when region is nil. Both images must have the same
// size. Alpha is not compared.
func Quality(original, mapped image.Image, region *Region) (*QualityResult, error) {
	ob, mb := original.Bounds(), mapped.Bounds()
	if ob.Dx() != mb.Dx() || ob.Dy() != mb.Dy() {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", ob.Dx(), ob.Dy(), mb.Dx(), mb.Dy())
	}

	rect := image.Rect(0, 0, ob.Dx(), ob.Dy())
	if region != nil {
		r := region.Rect()
		if r.Empty() || !r.In(rect) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds", region.X1, region.Y1, region.X2, region.Y2)
		}
		rect = r
	}

	total := rect.Dx() * rect.Dy()
	if total == 0 {
		return &QualityResult{Identical: true}, nil
	}

	var sumR, sumG, sumB float64
	changed := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			a := color.NRGBAModel.Convert(original.At(ob.Min.X+x, ob.Min.Y+y)).(color.NRGBA)
			b := color.NRGBAModel.Convert(mapped.At(mb.Min.X+x, mb.Min.Y+y)).(color.NRGBA)

			dr := float64(absDiff(a.R, b.R))
			dg := float64(absDiff(a.G, b.G))
			db := float64(absDiff(a.B, b.B))
			sumR += dr * dr
			sumG += dg * dg
			sumB += db * db
			if dr != 0 || dg != 0 || db != 0 {
				changed++
			}
		}
	}

	n := float64(total)
	mse := (sumR + sumG + sumB) / (3 * n)
	result := &QualityResult{
		MSE:           round2(mse),
		MSERed:        round2(sumR / n),
		MSEGreen:      round2(sumG / n),
		MSEBlue:       round2(sumB / n),
		Identical:     changed == 0,
		PixelsChanged: changed,
		TotalPixels:   total,
	}
	if mse > 0 {
		result.PSNR = round2(10 * math.Log10(255*255/mse))
	}
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
