// Package imaging provides the array model and the intensity transforms of
// the server: normalization, Gaussian and median blur, and the Laplacian.
//
// # Array Layout
//
// An Array is a single-channel float64 grid whose first axis is x and whose
// second axis is y. Arrays built from images use the image coordinate
// system: (0,0) is the top-left pixel, X increases rightward and Y increases
// downward. Luminance uses ITU-R BT.601 weights and lies in 0-255.
//
// # Purity
//
// Every transform returns a new Array and leaves its input untouched. None
// of them keeps state between calls; two normalizations of different arrays
// get independent scales.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The transforms are stateless and
// can be called concurrently on shared, unmodified arrays.
//
// # Error Handling
//
// Functions return sentinel errors that can be matched with errors.Is:
//   - ErrEmptyArray: the array has no elements
//   - ErrDegenerateRange: max == min, so normalization is undefined
//   - ErrNonFinite: NaN or ±Inf elements, which have no 8-bit mapping
//   - ErrInvalidKernel: a kernel side is not a positive odd integer
//   - ErrShapeMismatch: nested input values are ragged
package imaging
