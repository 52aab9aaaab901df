package display

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/array-tools-mcp/internal/detection"
	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// DrawOptions controls how contours are rendered and shown.
type DrawOptions struct {
	// Color of the contour lines. Nil means detection.DefaultContourColor.
	Color color.Color

	// Thickness in pixels. Values below 1 mean 1.
	Thickness int

	// Title of the display window.
	Title string

	// Adapter maps the image into array coordinates. When a backend is
	// used its channel order overrides Adapter.Order.
	Adapter Adapter

	// Adaptive, when set, binarizes the array with local thresholding and
	// the threshold argument is ignored.
	Adaptive *detection.Adaptive
}

// DrawResult holds everything produced while drawing contours.
type DrawResult struct {
	// Contours are the significant contours that were drawn.
	Contours []detection.Contour

	// Frame is the packed output handed to the backend.
	Frame *Frame

	// Image is the drawn output in the source image's orientation.
	Image *image.NRGBA
}

// Compose runs the pure part of contour drawing: it finds the significant
// contours of a, aligns img with a, draws the contours and packs a frame.
// Nothing is displayed.
//
// # Errors
//
//   - imaging.ErrEmptyArray if a has no elements
//   - imaging.ErrShapeMismatch if the aligned image and a differ in size
func Compose(img image.Image, a *imaging.Array, threshold, minArea float64, opts DrawOptions) (*DrawResult, error) {
	var (
		contours []detection.Contour
		err      error
	)
	if opts.Adaptive != nil {
		contours, err = detection.SignificantContoursAdaptive(a, *opts.Adaptive, minArea)
	} else {
		contours, err = detection.SignificantContours(a, threshold, minArea)
	}
	if err != nil {
		return nil, fmt.Errorf("significant contours: %w", err)
	}

	aligned := opts.Adapter.Align(img)
	if b := aligned.Bounds(); b.Dx() != a.Width || b.Dy() != a.Height {
		return nil, fmt.Errorf("%w: image is %dx%d after alignment, array is %dx%d",
			imaging.ErrShapeMismatch, b.Dx(), b.Dy(), a.Width, a.Height)
	}

	c := opts.Color
	if c == nil {
		c = detection.DefaultContourColor
	}
	drawn := detection.Draw(aligned, contours, c, opts.Thickness)

	frame := opts.Adapter.Frame(drawn)
	return &DrawResult{
		Contours: contours,
		Frame:    frame,
		Image:    frame.Image(),
	}, nil
}

// DrawContours draws the significant contours of a over img and shows the
// result on b, blocking until the window is dismissed or ctx is done.
//
// The steps are:
//
//  1. Keep contours of a at threshold with area >= minArea
//  2. Align img with the array (optional transpose)
//  3. Draw the contours
//  4. Pack a frame in the backend's channel order
//  5. Show it and wait; the window is always closed afterwards
//
// A nil backend skips step 5. The result is returned even when showing
// fails, so callers can still use the drawn image.
func DrawContours(ctx context.Context, b Backend, img image.Image, a *imaging.Array, threshold, minArea float64, opts DrawOptions) (*DrawResult, error) {
	if b != nil {
		opts.Adapter.Order = b.Order()
	}
	res, err := Compose(img, a, threshold, minArea, opts)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return res, nil
	}
	if err := ShowAndWait(ctx, b, opts.Title, res.Frame); err != nil {
		return res, err
	}
	return res, nil
}
