package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

var (
	// ErrEmptyArray is returned when an operation receives an array with no
	// elements.
	ErrEmptyArray = errors.New("array is empty")

	// ErrShapeMismatch is returned when two grids that must share a shape do not.
	ErrShapeMismatch = errors.New("array shapes do not match")
)

// Array is a two-dimensional float64 grid holding single-channel intensity
// values.
//
// The first axis is x and the second axis is y, so a value is addressed as
// At(x, y). Storage is x-major: the element at (x, y) lives at
// Data[x*Height+y]. When an Array is built from an image.Image, x is the
// column and y is the row, matching the image coordinate system used
// elsewhere in this package.
//
// Operations in this package never modify their input arrays; they return
// new values.
type Array struct {
	// Width is the extent of the first (x) axis.
	Width int

	// Height is the extent of the second (y) axis.
	Height int

	// Data holds Width*Height values in x-major order.
	Data []float64
}

// NewArray allocates a zero-filled array with the given extents.
func NewArray(width, height int) *Array {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Array{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// FromValues builds an array from nested slices indexed as values[x][y].
//
// All inner slices must have the same length. An empty outer slice or empty
// inner slices produce ErrEmptyArray.
func FromValues(values [][]float64) (*Array, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyArray
	}
	a := NewArray(len(values), len(values[0]))
	for x, col := range values {
		if len(col) != a.Height {
			return nil, fmt.Errorf("column %d has %d values, want %d: %w", x, len(col), a.Height, ErrShapeMismatch)
		}
		copy(a.Data[x*a.Height:(x+1)*a.Height], col)
	}
	return a, nil
}

// FromImage converts an image to an array of BT.601 luminance values in the
// 0-255 range. Pixel (x, y) of the image maps to At(x-min.X, y-min.Y).
func FromImage(img image.Image) *Array {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	a := NewArray(bounds.Dx(), bounds.Dy())
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			// Grayscale sets R=G=B, so the red channel is the luminance.
			a.Set(x, y, float64(gray.Pix[y*gray.Stride+x*4]))
		}
	}
	return a
}

// At returns the value at (x, y). It panics if the coordinates are out of range.
func (a *Array) At(x, y int) float64 {
	return a.Data[x*a.Height+y]
}

// Set stores v at (x, y).
func (a *Array) Set(x, y int, v float64) {
	a.Data[x*a.Height+y] = v
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Data)
}

// Empty reports whether the array holds no elements.
func (a *Array) Empty() bool {
	return a == nil || a.Width == 0 || a.Height == 0
}

// SameShape reports whether a and b have identical extents.
func (a *Array) SameShape(b *Array) bool {
	return a.Width == b.Width && a.Height == b.Height
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	c := NewArray(a.Width, a.Height)
	copy(c.Data, a.Data)
	return c
}

// MinMax returns the smallest and largest values in the array.
// The array must not be empty.
func (a *Array) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range a.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Values returns the array as nested slices indexed as values[x][y].
func (a *Array) Values() [][]float64 {
	out := make([][]float64, a.Width)
	for x := range out {
		out[x] = make([]float64, a.Height)
		copy(out[x], a.Data[x*a.Height:(x+1)*a.Height])
	}
	return out
}

// Bounds returns the image rectangle covered by the array, with x spanning
// the first axis and y the second.
func (a *Array) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.Width, a.Height)
}

// grayToArray reads an 8-bit grid back into an array, applying fn to every
// sample.
func grayToArray(g *image.Gray, fn func(v uint8) float64) *Array {
	bounds := g.Bounds()
	a := NewArray(bounds.Dx(), bounds.Dy())
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			a.Set(x, y, fn(g.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y))
		}
	}
	return a
}

// rgbaRedToGray extracts the red channel of an RGBA image into a gray grid.
// Used on filter outputs produced from gray sources, where R=G=B.
func rgbaRedToGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			g.SetGray(x, y, color.Gray{Y: img.Pix[y*img.Stride+x*4]})
		}
	}
	return g
}
