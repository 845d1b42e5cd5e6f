package dither

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrMissingKernel is returned when a Diffuser is created without a kernel.
var ErrMissingKernel = errors.New("dithering kernel is required")

// Quantizer maps a colour to a colour from a reduced set.
//
// Implementations must be pure: the same input always yields the same output.
type Quantizer interface {
	Quantize(c color.NRGBA) color.NRGBA
}

// QuantizerFunc adapts an ordinary function to the Quantizer interface.
type QuantizerFunc func(c color.NRGBA) color.NRGBA

// Quantize calls f(c).
func (f QuantizerFunc) Quantize(c color.NRGBA) color.NRGBA {
	return f(c)
}

// Diffuser applies error-diffusion dithering to one horizontal strip of an
// image. Pixels must be fed in scan order: FinalColor for x = 0..width-1,
// then MoveToNextLine, then the next row.
type Diffuser struct {
	kernel *Kernel
	amount float32
	width  int

	// window[channel][row][col]; col is the image column of the strip.
	red   [][]int
	green [][]int
	blue  [][]int
}

// NewDiffuser creates a Diffuser for rows of pixelsPerRow pixels.
//
// amount scales every diffused contribution and must be in [0,1].
func NewDiffuser(kernel *Kernel, amount float32, pixelsPerRow int) (*Diffuser, error) {
	if kernel == nil {
		return nil, ErrMissingKernel
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if pixelsPerRow < 1 {
		return nil, fmt.Errorf("%w: pixels per row must be at least 1, got %d", ErrInvalidArgument, pixelsPerRow)
	}

	rows := kernel.Rows()
	cols := pixelsPerRow + kernel.Centre()
	return &Diffuser{
		kernel: kernel,
		amount: amount,
		width:  pixelsPerRow,
		red:    allocate(rows, cols),
		green:  allocate(rows, cols),
		blue:   allocate(rows, cols),
	}, nil
}

func allocate(rows, cols int) [][]int {
	window := make([][]int, rows)
	for r := range window {
		window[r] = make([]int, cols)
	}
	return window
}

func validateAmount(amount float32) error {
	// written so that NaN fails too
	if !(amount >= 0 && amount <= 1) {
		return fmt.Errorf("%w: amount must be within [0,1], got %v", ErrInvalidArgument, amount)
	}
	return nil
}

// Amount returns the current dithering strength.
func (d *Diffuser) Amount() float32 { return d.amount }

// SetAmount changes the dithering strength for all following pixels. Error
// that is already buffered keeps its value.
func (d *Diffuser) SetAmount(amount float32) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	d.amount = amount
	return nil
}

// Kernel returns the kernel the Diffuser applies.
func (d *Diffuser) Kernel() *Kernel { return d.kernel }

// Width returns the number of pixels per row.
func (d *Diffuser) Width() int { return d.width }

// Padding returns the number of extra columns each window row carries past
// the end of the image row. It always equals Kernel().Centre().
func (d *Diffuser) Padding() int { return len(d.red[0]) - d.width }

// FinalColor returns the quantized colour for the pixel at column x of the
// current row and diffuses its quantization error to the pixels that follow.
//
// The colour handed to q is original plus the pending error, rounded to
// nearest and clamped. The diffused residual however is measured from the
// unbiased original, not from the biased colour. The alpha of original is
// passed to q unchanged.
//
// x must be in [0, Width()).
func (d *Diffuser) FinalColor(x int, original color.NRGBA, q Quantizer) color.NRGBA {
	biased := color.NRGBA{
		R: clampChannel(int(float32(original.R) + float32(d.red[0][x]) + 0.5)),
		G: clampChannel(int(float32(original.G) + float32(d.green[0][x]) + 0.5)),
		B: clampChannel(int(float32(original.B) + float32(d.blue[0][x]) + 0.5)),
		A: original.A,
	}

	mapped := q.Quantize(biased)

	errR := int(original.R) - int(mapped.R)
	errG := int(original.G) - int(mapped.G)
	errB := int(original.B) - int(mapped.B)

	d.spreadRight(x, errR, errG, errB)
	d.spreadDown(x, errR, errG, errB)

	return mapped
}

// MoveToNextLine advances the window by one row. Call it once after the last
// pixel of every row.
func (d *Diffuser) MoveToNextLine() {
	shift(d.red)
	shift(d.green)
	shift(d.blue)
}

// shift moves every row up by one and recycles the old first row as the new,
// zeroed, last row.
func shift(window [][]int) {
	first := window[0]
	copy(window, window[1:])
	clear(first)
	window[len(window)-1] = first
}

// spreadRight diffuses into window row 0, for the kernel columns right of the
// centre.
func (d *Diffuser) spreadRight(x, errR, errG, errB int) {
	k := d.kernel
	cols := k.Columns()
	limit := len(d.red[0])
	for n, col := k.Centre()+1, x+1; n < cols && col < limit; n, col = n+1, col+1 {
		weight := k.At(n, 0) * d.amount
		d.red[0][col] = accumulate(d.red[0][col], errR, weight)
		d.green[0][col] = accumulate(d.green[0][col], errG, weight)
		d.blue[0][col] = accumulate(d.blue[0][col], errB, weight)
	}
}

// spreadDown diffuses into window rows 1..Rows()-1 across the full kernel
// width. Kernel column n targets image column x-centre+n; columns that would
// fall left of the image are skipped.
func (d *Diffuser) spreadDown(x, errR, errG, errB int) {
	k := d.kernel
	cols := k.Columns()
	limit := len(d.red[0])

	first, start := 0, x-k.Centre()
	if start < 0 {
		first = -start
		start = 0
	}

	for row := 1; row < k.Rows(); row++ {
		red, green, blue := d.red[row], d.green[row], d.blue[row]
		for n, col := first, start; n < cols && col < limit; n, col = n+1, col+1 {
			weight := k.At(n, row) * d.amount
			red[col] = accumulate(red[col], errR, weight)
			green[col] = accumulate(green[col], errG, weight)
			blue[col] = accumulate(blue[col], errB, weight)
		}
	}
}

// accumulate adds the truncated weighted residual to a buffered error.
func accumulate(buffered, residual int, weight float32) int {
	return int(clampChannel(buffered + int(float32(residual)*weight)))
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
