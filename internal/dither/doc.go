// Package dither implements error-diffusion dithering.
//
// The package has two parts: Kernel, an immutable normalised matrix of weights
// describing how much of a pixel's quantization error is pushed to which
// neighbour, and Diffuser, which applies a kernel while an image is scanned
// left-to-right, top-to-bottom.
//
// # Sliding Window
//
// A Diffuser does not keep an error buffer for the whole image. It keeps one
// row of accumulated error per kernel row and per colour channel (red, green
// and blue; alpha is never diffused). Window row 0 holds the error pending for
// the row currently being processed, rows 1..Rows()-1 hold error queued for the
// following rows. MoveToNextLine shifts the window up by one row.
//
// Each window row is Padding() columns wider than the image row so writes for
// pixels near the right edge stay inside the window. Writes that would still
// fall outside (kernels with an even number of columns) are dropped.
//
// # Thread Safety
//
// Kernels are never mutated after construction and may be shared by any number
// of goroutines. A Diffuser is stateful and must be driven by one goroutine,
// pixel by pixel and row by row. Independent regions of an image may be
// processed concurrently as long as each has its own Diffuser.
//
// # Numeric Model
//
// Channel values are integers in [0,255]. Weights are float32. Every write to
// the error window is clamped to [0,255], as is the biased colour handed to the
// quantizer.
package dither
