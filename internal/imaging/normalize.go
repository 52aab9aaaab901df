package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrDegenerateRange is returned when an array cannot be rescaled because
// its maximum equals its minimum.
var ErrDegenerateRange = errors.New("array has a degenerate value range (max == min)")

// ErrNonFinite is returned when an array to be rescaled holds NaN or an
// infinity.
var ErrNonFinite = errors.New("array contains non-finite values")

// Normalized holds an array rescaled to 8 bits together with the range it
// was rescaled from.
type Normalized struct {
	// Pixels is the rescaled grid. Pixel (x, y) corresponds to Array.At(x, y).
	Pixels *image.Gray

	// High is the maximum of the source array. It maps to 255.
	High float64

	// Low is the minimum of the source array. It maps to 0.
	Low float64
}

// Normalize linearly rescales an array into the 0-255 range.
//
// The array minimum maps to 0 and the maximum to 255, using
//
//	uint8(255 * (v - low) / (high - low))
//
// so intermediate values are truncated toward zero. The returned High and
// Low are the true extremes of the input and can be passed to Denormalize to
// invert the scaling.
//
// # Errors
//
//   - ErrEmptyArray if the array has no elements
//   - ErrNonFinite if any element is NaN or ±Inf
//   - ErrDegenerateRange if every element has the same value; the division
//     would otherwise produce non-finite values
func Normalize(a *Array) (*Normalized, error) {
	if a.Empty() {
		return nil, ErrEmptyArray
	}
	for i, v := range a.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("element (%d, %d) is %v: %w", i/a.Height, i%a.Height, v, ErrNonFinite)
		}
	}
	lo, hi := a.MinMax()
	if hi == lo {
		return nil, ErrDegenerateRange
	}

	span := hi - lo
	g := image.NewGray(a.Bounds())
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			g.SetGray(x, y, color.Gray{Y: uint8(255 * (a.At(x, y) - lo) / span)})
		}
	}

	return &Normalized{Pixels: g, High: hi, Low: lo}, nil
}

// Denormalize maps an 8-bit grid back into the [Low, High] range this
// normalization was computed from, using (High-Low)/255*v + Low.
//
// The grid does not need to be n.Pixels; any grid derived from it (for
// example a filtered copy) may be passed.
func (n *Normalized) Denormalize(g *image.Gray) *Array {
	step := (n.High - n.Low) / 255
	return grayToArray(g, func(v uint8) float64 {
		return step*float64(v) + n.Low
	})
}
