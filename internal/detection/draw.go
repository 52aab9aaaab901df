package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultContourColor is the line color used when none is given.
var DefaultContourColor = color.RGBA{0, 0, 0, 255}

// ParseColor parses a hex color such as "#FF0000" or "#f00" into an opaque
// RGBA color. An empty string yields DefaultContourColor.
func ParseColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return DefaultContourColor, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid contour color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Draw renders contours as closed polylines onto a copy of img.
//
// Parameters:
//   - img: Background image. It is not modified. Contour point (x, y) is
//     drawn at img.Bounds().Min + (x, y).
//   - contours: Contours to draw, typically from SignificantContours.
//   - c: Line color.
//   - thickness: Line width in pixels. Values below 1 are treated as 1.
//
// Consecutive points are joined with Bresenham lines and the last point is
// joined back to the first. Single-point contours draw one dot. Pixels
// falling outside the image are clipped.
func Draw(img image.Image, contours []Contour, c color.Color, thickness int) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	if thickness < 1 {
		thickness = 1
	}
	pen := func(x, y int) {
		x0 := bounds.Min.X + x - (thickness-1)/2
		y0 := bounds.Min.Y + y - (thickness-1)/2
		for dy := 0; dy < thickness; dy++ {
			for dx := 0; dx < thickness; dx++ {
				p := image.Point{X: x0 + dx, Y: y0 + dy}
				if p.In(bounds) {
					out.Set(p.X, p.Y, c)
				}
			}
		}
	}

	for _, contour := range contours {
		n := len(contour.Points)
		if n == 1 {
			pen(contour.Points[0].X, contour.Points[0].Y)
			continue
		}
		for i := 0; i < n; i++ {
			a, b := contour.Points[i], contour.Points[(i+1)%n]
			line(a, b, pen)
		}
	}
	return out
}

// line plots every pixel of the segment a-b with Bresenham's algorithm.
func line(a, b Point, plot func(x, y int)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		plot(x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
