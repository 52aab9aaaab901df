// Package detection provides threshold segmentation and outer contour
// analysis for intensity arrays.
//
// # Pipeline
//
// Contour work follows a short linear pipeline:
//
//  1. Binarize: elements strictly above a threshold become foreground (255)
//  2. Extract: trace the outer boundary of every outermost foreground region
//  3. Filter: keep contours whose enclosed area meets a minimum
//  4. Use: count them (CountContours) or render them (Draw)
//
// The threshold in step 1 is fixed, picked from the histogram (OtsuLevel),
// or replaced by a per-element level from the local neighbourhood
// (BinarizeAdaptive) when lighting is uneven.
//
// Every step is pure. Showing the rendered result on screen is the job of
// the display package, which takes already computed contours.
//
// # Outer Contours Only
//
// Regions are 8-connected. A region lying inside another region's hole is
// not reported separately; its pixels count toward the enclosing region's
// area instead.
//
// # Point Representation
//
// Contour points are pixel centers in array coordinates (first axis x,
// second axis y). Points in the middle of straight horizontal, vertical or
// diagonal runs are dropped, so a filled rectangle is described by its four
// corners.
//
// # Area
//
// Contour area is the number of pixels enclosed by the outer boundary,
// holes included. A filled 4×4 block has area 16.
//
// # Ordering
//
// Contours are returned in raster order of each region's first pixel: top
// to bottom, then left to right.
package detection
