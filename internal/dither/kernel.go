package dither

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for malformed kernels, out-of-range amounts
// and non-positive row widths.
var ErrInvalidArgument = errors.New("invalid argument")

// Kernel is an error-diffusion matrix of normalised coefficients.
//
// The matrix has Columns() columns and Rows() rows and is stored row-major.
// Row 0 is the row of the pixel being processed: columns left of Centre()
// refer to pixels that have already been processed and are ignored, columns
// right of Centre() receive error on the same row. Rows below receive error
// across the full kernel width.
//
// A Kernel is immutable once constructed and safe for concurrent use.
type Kernel struct {
	coefficients []float32
	columns      int
}

// NewKernel creates a kernel from integer weights, normalised by their sum.
//
// A sum below 1 (for example an all-zero kernel) is treated as 1.
func NewKernel(weights []int, columns int) (*Kernel, error) {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	return NewKernelWithFactor(weights, columns, max(1, sum))
}

// NewKernelWithFactor creates a kernel from integer weights divided by factor.
//
// A factor larger than the sum of the weights diffuses only part of the
// error. The factor must be at least 1.
func NewKernelWithFactor(weights []int, columns, factor int) (*Kernel, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: factor must be greater than zero, got %d", ErrInvalidArgument, factor)
	}

	scale := 1.0 / float32(factor)
	coefficients := make([]float32, len(weights))
	for i, w := range weights {
		coefficients[i] = float32(w) * scale
	}
	return newKernel(coefficients, columns)
}

// NewNormalizedKernel creates a kernel from weights that are already
// normalised. The weights are copied as-is.
func NewNormalizedKernel(weights []float32, columns int) (*Kernel, error) {
	coefficients := make([]float32, len(weights))
	copy(coefficients, weights)
	return newKernel(coefficients, columns)
}

func newKernel(coefficients []float32, columns int) (*Kernel, error) {
	if columns < 1 {
		return nil, fmt.Errorf("%w: kernel width must be at least 1, got %d", ErrInvalidArgument, columns)
	}
	if len(coefficients) < columns {
		return nil, fmt.Errorf("%w: %d coefficients are not enough for width %d", ErrInvalidArgument, len(coefficients), columns)
	}
	if len(coefficients)%columns != 0 {
		return nil, fmt.Errorf("%w: %d coefficients are incompatible with width %d", ErrInvalidArgument, len(coefficients), columns)
	}
	return &Kernel{coefficients: coefficients, columns: columns}, nil
}

// mustKernel panics on construction errors. Only used for the presets.
func mustKernel(k *Kernel, err error) *Kernel {
	if err != nil {
		panic(err)
	}
	return k
}

// At returns the coefficient at column col of row row.
func (k *Kernel) At(col, row int) float32 {
	return k.coefficients[row*k.columns+col]
}

// Coefficients returns a copy of the normalised coefficients in row-major order.
func (k *Kernel) Coefficients() []float32 {
	out := make([]float32, len(k.coefficients))
	copy(out, k.coefficients)
	return out
}

// Columns returns the kernel width.
func (k *Kernel) Columns() int { return k.columns }

// Rows returns the kernel height.
func (k *Kernel) Rows() int { return len(k.coefficients) / k.columns }

// Centre returns the column of the pixel being diffused from.
func (k *Kernel) Centre() int { return (k.columns - 1) / 2 }

// Named presets. The raw weights are normalised by their sum unless noted.
var (
	// FloydSteinberg is the classic 3x2 kernel (sum 16).
	FloydSteinberg = mustKernel(NewKernel([]int{
		0, 0, 7,
		3, 5, 1,
	}, 3))

	// JarvisJudiceNinke spreads error over two rows below (sum 48).
	JarvisJudiceNinke = mustKernel(NewKernel([]int{
		0, 0, 0, 7, 5,
		3, 5, 7, 5, 3,
		1, 3, 5, 3, 1,
	}, 5))

	// Stucki is a sharper variant of Jarvis-Judice-Ninke (sum 42).
	Stucki = mustKernel(NewKernel([]int{
		0, 0, 0, 8, 4,
		2, 4, 8, 4, 2,
		1, 2, 4, 2, 1,
	}, 5))

	// Burkes is Stucki without the last row (sum 32).
	Burkes = mustKernel(NewKernel([]int{
		0, 0, 0, 8, 4,
		2, 4, 8, 4, 2,
	}, 5))

	// Sierra is the three-row Sierra kernel (sum 32).
	Sierra = mustKernel(NewKernel([]int{
		0, 0, 0, 5, 3,
		2, 4, 5, 4, 2,
		0, 2, 3, 2, 0,
	}, 5))

	// SierraLite is the small two-row Sierra kernel (sum 4).
	SierraLite = mustKernel(NewKernel([]int{
		0, 0, 2,
		1, 1, 0,
	}, 3))

	// Atkinson diffuses 6/8 of the error, which keeps highlights and shadows
	// crisp at the cost of some detail.
	Atkinson = mustKernel(NewKernelWithFactor([]int{
		0, 0, 1, 1,
		1, 1, 1, 0,
		0, 1, 0, 0,
	}, 4, 8))
)
