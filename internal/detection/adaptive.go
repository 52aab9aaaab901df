package detection

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"rescribe.xyz/preproc"

	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// ErrInvalidAdaptive is returned for adaptive threshold parameters outside
// their valid range.
var ErrInvalidAdaptive = errors.New("invalid adaptive threshold parameters")

// Adaptive configures local thresholding with Sauvola's method.
//
// Each element is compared with a level computed from the mean m and
// standard deviation s of the Window x Window neighbourhood around it,
// m * (1 + K * (s/128 - 1)), on the 8-bit normalized array. Elements
// clearly brighter than their surroundings become foreground, so objects
// are separated from an unevenly lit background where no single global
// level works.
type Adaptive struct {
	// Window is the side of the square neighbourhood: odd and at least 3.
	// Objects wider than the window may come out hollow; their outer
	// contour is unaffected.
	Window int `json:"window"`

	// K weights the local standard deviation. It must lie in (0, 1);
	// larger values keep fewer elements.
	K float64 `json:"k"`
}

// DefaultAdaptive holds the adaptive parameters used when none are given.
var DefaultAdaptive = Adaptive{Window: 15, K: 0.3}

// Validate reports whether the parameters are usable.
func (p Adaptive) Validate() error {
	if p.Window < 3 || p.Window%2 == 0 {
		return fmt.Errorf("window %d must be odd and at least 3: %w", p.Window, ErrInvalidAdaptive)
	}
	if !(p.K > 0 && p.K < 1) {
		return fmt.Errorf("k %v must lie in (0, 1): %w", p.K, ErrInvalidAdaptive)
	}
	return nil
}

// BinarizeAdaptive thresholds each element of a against its neighbourhood.
//
// Foreground elements become 255, all others 0; pixel (x, y) corresponds
// to a.At(x, y). Sauvola's method marks dark text on a light page, so it
// runs on the inverted normalized grid and its dark output is foreground.
//
// # Errors
//
//   - ErrInvalidAdaptive if p fails Validate
//   - imaging.ErrEmptyArray, imaging.ErrNonFinite or
//     imaging.ErrDegenerateRange from normalizing a
func BinarizeAdaptive(a *imaging.Array, p Adaptive) (*image.Gray, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	norm, err := imaging.Normalize(a)
	if err != nil {
		return nil, fmt.Errorf("adaptive threshold: %w", err)
	}

	inv := norm.Pixels
	for i, v := range inv.Pix {
		inv.Pix[i] = 255 - v
	}
	sauvola := preproc.Sauvola(inv, p.K, p.Window)

	bounds := sauvola.Bounds()
	bin := image.NewGray(a.Bounds())
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			if sauvola.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y == 0 {
				bin.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return bin, nil
}

// ContoursAdaptive returns the outer contours of the foreground found by
// BinarizeAdaptive, ordered as Contours orders them.
func ContoursAdaptive(a *imaging.Array, p Adaptive) ([]Contour, error) {
	bin, err := BinarizeAdaptive(a, p)
	if err != nil {
		return nil, err
	}
	return ContoursFromBinary(bin), nil
}

// SignificantContoursAdaptive is SignificantContours with adaptive
// thresholding.
func SignificantContoursAdaptive(a *imaging.Array, p Adaptive, minArea float64) ([]Contour, error) {
	contours, err := ContoursAdaptive(a, p)
	if err != nil {
		return nil, err
	}
	return Significant(contours, minArea), nil
}
