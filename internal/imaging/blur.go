package imaging

import (
	"errors"
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/effect"
)

// ErrInvalidKernel is returned when a kernel side length is not a positive
// odd integer.
var ErrInvalidKernel = errors.New("kernel side must be a positive odd integer")

// GaussianBlur smooths an array with a separable Gaussian kernel.
//
// Parameters:
//   - a: Source array. It is not modified.
//   - side: Kernel width and height in elements. Must be positive and odd.
//     A side of 0 is accepted when sigma > 0; the side is then derived from
//     sigma as round(sigma*8 + 1) rounded up to odd.
//   - sigma: Standard deviation shared by both axes. When sigma <= 0 it is
//     derived from the side as 0.3*((side-1)*0.5 - 1) + 0.8, except that
//     sides 1 to 7 then use the fixed binomial kernels OpenCV uses
//     (3: 1/4 [1 2 1], 5: 1/16 [1 4 6 4 1], 7: 1/64 [2 7 14 18 14 7 2]),
//     so results match OpenCV exactly.
//
// Returns a new array with exactly the same shape as a.
//
// # Border Handling
//
// Samples outside the array are mirrored without repeating the edge element
// (reflect-101: gfedcb|abcdefgh|gfedcba).
//
// # Errors
//
//   - ErrEmptyArray if a has no elements
//   - ErrInvalidKernel if side is even, negative, or zero with sigma <= 0
func GaussianBlur(a *Array, side int, sigma float64) (*Array, error) {
	if a.Empty() {
		return nil, ErrEmptyArray
	}
	if side == 0 && sigma > 0 {
		side = int(math.Round(sigma*8+1)) | 1
	}
	if err := checkKernelSide(side); err != nil {
		return nil, err
	}

	kernel := gaussianKernel(side, sigma)
	radius := side / 2

	// Pass along x, then along y.
	tmp := NewArray(a.Width, a.Height)
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += a.At(reflect101(x+k, a.Width), y) * kernel[k+radius]
			}
			tmp.Set(x, y, sum)
		}
	}

	out := NewArray(a.Width, a.Height)
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += tmp.At(x, reflect101(y+k, a.Height)) * kernel[k+radius]
			}
			out.Set(x, y, sum)
		}
	}
	return out, nil
}

// smallGaussianKernels are the kernels used for small sides when no sigma
// is given.
var smallGaussianKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// gaussianKernel returns a normalized 1-D Gaussian kernel of the given odd
// length.
func gaussianKernel(side int, sigma float64) []float64 {
	if sigma <= 0 {
		if k, ok := smallGaussianKernels[side]; ok {
			return append([]float64(nil), k...)
		}
		sigma = 0.3*((float64(side)-1)*0.5-1) + 0.8
	}
	kernel := make([]float64, side)
	center := float64(side-1) / 2
	var sum float64
	for i := range kernel {
		d := float64(i) - center
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// MedianBlur removes impulse noise with a square median filter while
// keeping the array in its original value range.
//
// The array is first normalized to 8 bits (see Normalize), the median of
// each side×side window is taken on the 8-bit grid, and the result is mapped
// back into [min, max] of the source using the captured range. The output
// therefore carries the 8-bit quantization of the intermediate step.
//
// Windows that extend past the border replicate the edge elements.
//
// # Errors
//
//   - ErrEmptyArray if a has no elements
//   - ErrInvalidKernel if side is not a positive odd integer
//   - ErrDegenerateRange if a is constant (inherited from Normalize)
//   - ErrNonFinite if a holds NaN or ±Inf (inherited from Normalize)
func MedianBlur(a *Array, side int) (*Array, error) {
	if err := checkKernelSide(side); err != nil {
		return nil, err
	}
	norm, err := Normalize(a)
	if err != nil {
		return nil, fmt.Errorf("median blur: %w", err)
	}

	filtered := rgbaRedToGray(effect.Median(norm.Pixels, float64(side/2)))
	return norm.Denormalize(filtered), nil
}

func checkKernelSide(side int) error {
	if side <= 0 || side%2 == 0 {
		return fmt.Errorf("side %d: %w", side, ErrInvalidKernel)
	}
	return nil
}
