package detection

import (
	"fmt"

	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// Significant keeps the contours whose area is at least minArea, preserving
// their order. The input slice is not modified.
func Significant(contours []Contour, minArea float64) []Contour {
	kept := make([]Contour, 0, len(contours))
	for _, c := range contours {
		if ContourArea(c) >= minArea {
			kept = append(kept, c)
		}
	}
	return kept
}

// SignificantContours extracts the outer contours of a at threshold and keeps
// those enclosing at least minArea pixels.
//
// This is the pure half of contour drawing: it has no side effects, so the
// filtering can be tested and reused without a display.
func SignificantContours(a *imaging.Array, threshold, minArea float64) ([]Contour, error) {
	contours, err := Contours(a, threshold)
	if err != nil {
		return nil, err
	}
	return Significant(contours, minArea), nil
}

// CountContours returns the number of outer contours of a at threshold whose
// area is at least minArea.
func CountContours(a *imaging.Array, threshold, minArea float64) (int, error) {
	contours, err := SignificantContours(a, threshold, minArea)
	if err != nil {
		return 0, err
	}
	return len(contours), nil
}

// OtsuLevel picks a binarization threshold for a with Otsu's method.
//
// The array is normalized to 8 bits, the level that maximizes the
// between-class variance of the 256-bin histogram is found, and that level
// is mapped back into the array's own value range, so the split is exact
// only up to one 8-bit step of that range.
//
// # Errors
//
//   - imaging.ErrEmptyArray if a has no elements
//   - imaging.ErrDegenerateRange if a is constant
func OtsuLevel(a *imaging.Array) (float64, error) {
	norm, err := imaging.Normalize(a)
	if err != nil {
		return 0, fmt.Errorf("otsu level: %w", err)
	}

	var hist [256]int
	for _, v := range norm.Pixels.Pix {
		hist[v]++
	}
	level := otsu(hist, len(norm.Pixels.Pix))

	return norm.Low + float64(level)*(norm.High-norm.Low)/255, nil
}

// otsu returns the histogram bin t maximizing the between-class variance
// of the split {0..t} / {t+1..255}.
func otsu(hist [256]int, total int) int {
	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		sumBack    float64
		weightBack int
		best       float64
		level      int
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(t * hist[t])

		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		between := float64(weightBack) * float64(weightFore) * diff * diff
		if between > best {
			best = between
			level = t
		}
	}
	return level
}

// ContoursOtsu extracts outer contours using the Otsu level of a as the
// threshold and returns the level used.
func ContoursOtsu(a *imaging.Array) ([]Contour, float64, error) {
	level, err := OtsuLevel(a)
	if err != nil {
		return nil, 0, err
	}
	contours, err := Contours(a, level)
	if err != nil {
		return nil, 0, err
	}
	return contours, level, nil
}
