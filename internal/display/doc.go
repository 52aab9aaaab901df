// Package display shows drawn contours to a user.
//
// Drawing itself lives in the detection package and is pure. This package
// adds the two impure concerns: adapting an image to the layout a display
// expects, and owning the display window for the length of one blocking
// wait.
//
// # Backends
//
// A Backend opens Windows. Three are registered:
//
//   - "window": an OpenCV window. Needs the gocv build tag and OpenCV;
//     other builds return ErrNoWindowSystem.
//   - "png": writes each frame to a PNG file and returns at once.
//   - "none": discards frames.
//
// # Window Lifetime
//
// ShowAndWait closes the window it opened on every path out, panics
// included. Waits end on a key press, on the window being closed, or when
// the context is done.
package display
