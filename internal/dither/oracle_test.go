package dither_test

import (
	"image"
	"image/color"
	"testing"

	refdither "github.com/makeworld-the-better-one/dither/v2"

	"github.com/ironsheep/palette-dither-mcp/internal/dither"
)

// gradient builds a horizontal grayscale ramp from black to white.
func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func thresholdBW(c color.NRGBA) color.NRGBA {
	y := (7471*int(c.B) + 38470*int(c.G) + 19595*int(c.R)) >> 16
	if y > 128 {
		return color.NRGBA{255, 255, 255, c.A}
	}
	return color.NRGBA{0, 0, 0, c.A}
}

func squaredError(a, b color.Color) int64 {
	ar, _, _, _ := a.RGBA()
	br, _, _, _ := b.RGBA()
	d := int64(ar>>8) - int64(br>>8)
	return d * d
}

func meanSquaredError(original *image.NRGBA, other image.Image) int64 {
	bounds := original.Bounds()
	var total int64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			total += squaredError(original.At(x, y), other.At(x, y))
		}
	}
	return total / int64(bounds.Dx()*bounds.Dy())
}

func TestDiffuser_GradientAgainstReferenceFloydSteinberg(t *testing.T) {
	const width, height = 256, 64
	src := gradient(width, height)

	// The reference ditherer works in place, so it gets its own copy.
	refSrc := image.NewNRGBA(src.Bounds())
	copy(refSrc.Pix, src.Pix)

	ref := refdither.NewDitherer([]color.Color{color.Black, color.White})
	ref.Matrix = refdither.FloydSteinberg
	reference := ref.Dither(refSrc)
	if reference == nil {
		t.Fatal("reference ditherer returned nil")
	}
	expected := meanSquaredError(src, reference)
	if expected <= 0 {
		t.Fatalf("reference error should be positive against the gradient, got %d", expected)
	}

	d, err := dither.NewDiffuser(dither.FloydSteinberg, 1, width)
	if err != nil {
		t.Fatalf("NewDiffuser failed: %v", err)
	}

	out := image.NewNRGBA(src.Bounds())
	differsFromThreshold := false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			original := src.NRGBAAt(x, y)
			mapped := d.FinalColor(x, original, dither.QuantizerFunc(thresholdBW))
			if mapped != thresholdBW(original) {
				differsFromThreshold = true
			}
			out.SetNRGBA(x, y, mapped)
		}
		d.MoveToNextLine()
	}

	mse := meanSquaredError(src, out)
	t.Logf("mse=%d reference=%d", mse, expected)
	if mse > expected {
		t.Errorf("unexpected mean squared error: %d > %d", mse, expected)
	}
	if !differsFromThreshold {
		t.Error("diffusion had no effect compared to plain thresholding")
	}
}

func TestDiffuser_SharedKernelAcrossGoroutines(t *testing.T) {
	const width, height, workers = 64, 16, 8
	src := gradient(width, height)

	render := func() *image.NRGBA {
		d, err := dither.NewDiffuser(dither.Sierra, 0.75, width)
		if err != nil {
			t.Errorf("NewDiffuser failed: %v", err)
			return nil
		}
		out := image.NewNRGBA(src.Bounds())
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.SetNRGBA(x, y, d.FinalColor(x, src.NRGBAAt(x, y), dither.QuantizerFunc(thresholdBW)))
			}
			d.MoveToNextLine()
		}
		return out
	}

	want := render()
	results := make(chan *image.NRGBA, workers)
	for i := 0; i < workers; i++ {
		go func() { results <- render() }()
	}
	for i := 0; i < workers; i++ {
		got := <-results
		if got == nil || want == nil {
			t.Fatal("render failed")
		}
		for j := range want.Pix {
			if got.Pix[j] != want.Pix[j] {
				t.Fatalf("concurrent render differs at byte %d", j)
			}
		}
	}
}
