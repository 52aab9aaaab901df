package detection

import (
	"image"
	"image/color"

	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// Bounds represents a rectangular bounding box in array coordinates.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive), so the width is X2 - X1.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Point represents a 2D coordinate in array space.
type Point struct {
	X int `json:"x"` // First-axis position
	Y int `json:"y"` // Second-axis position
}

// Contour is the outer boundary of one connected foreground region.
type Contour struct {
	// Points is the boundary as pixel centers, traced clockwise on screen
	// starting from the region's top-left pixel. Straight horizontal,
	// vertical and diagonal runs are reduced to their endpoints.
	Points []Point `json:"points"`

	// Area is the number of pixels enclosed by the boundary, including any
	// holes and anything nested inside them.
	Area float64 `json:"area"`

	// Bounds is the bounding box of the enclosed pixels.
	Bounds Bounds `json:"bounds"`
}

// ContourArea returns the enclosed pixel area of a contour.
func ContourArea(c Contour) float64 {
	return c.Area
}

// Binarize applies a fixed binary threshold to an array.
//
// Elements strictly greater than threshold become 255, all others 0. The
// result is an 8-bit grid where pixel (x, y) corresponds to a.At(x, y).
func Binarize(a *imaging.Array, threshold float64) *image.Gray {
	g := image.NewGray(a.Bounds())
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			if a.At(x, y) > threshold {
				g.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return g
}

// Contours binarizes an array at threshold and returns the outer contours
// of the foreground.
//
// Parameters:
//   - a: Source array. It is not modified.
//   - threshold: Elements strictly above this value are foreground.
//
// Returns the contours ordered by the raster position (top to bottom, then
// left to right) of each region's first pixel. An array with no element
// above threshold yields an empty, non-nil slice.
//
// # Algorithm
//
//  1. Binarize: v > threshold -> 255, else 0
//  2. Outside fill: 4-connected flood of background from the array border.
//     Background the flood cannot reach is a hole.
//  3. Regions: 8-connected components of everything not outside. Regions
//     nested in another region's hole merge into it, so only outermost
//     regions remain.
//  4. Tracing: Moore-neighbour tracing of each region's outer boundary,
//     followed by removal of collinear points.
//
// # Errors
//
//   - imaging.ErrEmptyArray if a has no elements
func Contours(a *imaging.Array, threshold float64) ([]Contour, error) {
	if a.Empty() {
		return nil, imaging.ErrEmptyArray
	}
	return ContoursFromBinary(Binarize(a, threshold)), nil
}

// ContoursFromBinary returns the outer contours of the non-zero pixels of a
// binary grid. Coordinates are relative to the grid's top-left corner.
func ContoursFromBinary(bin *image.Gray) []Contour {
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	fg := func(x, y int) bool {
		return bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y != 0
	}

	outside := fillOutside(fg, width, height)
	filled := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height && !outside[y*width+x]
	}

	labels := make([]int, width*height)
	contours := make([]Contour, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !filled(x, y) || labels[y*width+x] != 0 {
				continue
			}
			id := len(contours) + 1
			area, box := labelRegion(filled, labels, width, x, y, id)
			inRegion := func(px, py int) bool {
				return filled(px, py) && labels[py*width+px] == id
			}
			boundary := traceBoundary(inRegion, Point{X: x, Y: y}, area)
			contours = append(contours, Contour{
				Points: simplifyChain(boundary),
				Area:   float64(area),
				Bounds: box,
			})
		}
	}

	return contours
}

// fillOutside marks every background pixel 4-connected to the border.
// The grid is treated as if surrounded by a ring of background.
func fillOutside(fg func(x, y int) bool, width, height int) []bool {
	outside := make([]bool, width*height)
	stack := make([]Point, 0)

	push := func(x, y int) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		if outside[y*width+x] || fg(x, y) {
			return
		}
		outside[y*width+x] = true
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outside
}

// labelRegion flood-fills the 8-connected region containing (sx, sy) with id
// and returns its pixel count and bounding box.
//
// Uses an explicit stack rather than recursion so large regions cannot
// overflow the goroutine stack.
func labelRegion(filled func(x, y int) bool, labels []int, width, sx, sy, id int) (int, Bounds) {
	box := Bounds{X1: sx, Y1: sy, X2: sx + 1, Y2: sy + 1}
	count := 0

	labels[sy*width+sx] = id
	stack := []Point{{X: sx, Y: sy}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++

		if p.X < box.X1 {
			box.X1 = p.X
		}
		if p.X+1 > box.X2 {
			box.X2 = p.X + 1
		}
		if p.Y+1 > box.Y2 {
			box.Y2 = p.Y + 1
		}

		for _, d := range mooreDirs {
			nx, ny := p.X+d.X, p.Y+d.Y
			if filled(nx, ny) && labels[ny*width+nx] == 0 {
				labels[ny*width+nx] = id
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}
	return count, box
}

// mooreDirs lists the eight neighbour offsets clockwise on screen (y grows
// downward), starting east.
var mooreDirs = [8]Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
}

func dirIndex(dx, dy int) int {
	for i, d := range mooreDirs {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return -1
}

// traceBoundary follows the outer boundary of a region clockwise using
// Moore-neighbour tracing.
//
// start must be the region's first pixel in raster order, so its west
// neighbour is background. Tracing stops when the walk is back at start
// and about to repeat its first move. size bounds the walk length.
func traceBoundary(inside func(x, y int) bool, start Point, size int) []Point {
	points := []Point{start}

	cur := start
	back := 4 // west of start
	var second Point
	limit := 8*size + 8

	for step := 0; step < limit; step++ {
		next, nextBack, ok := mooreStep(inside, cur, back)
		if !ok {
			// Isolated pixel
			return points
		}
		if step == 0 {
			second = next
		} else if cur == start && next == second {
			break
		}
		points = append(points, next)
		cur, back = next, nextBack
	}

	// The walk ends on start; drop the repeated point.
	if len(points) > 1 && points[len(points)-1] == start {
		points = points[:len(points)-1]
	}
	return points
}

// mooreStep scans the neighbours of cur clockwise, beginning just after the
// backtrack direction, and returns the first region pixel found together
// with the new backtrack direction relative to it.
func mooreStep(inside func(x, y int) bool, cur Point, back int) (Point, int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		p := Point{X: cur.X + mooreDirs[d].X, Y: cur.Y + mooreDirs[d].Y}
		if !inside(p.X, p.Y) {
			continue
		}
		prev := mooreDirs[(back+i-1)%8]
		b := Point{X: cur.X + prev.X, Y: cur.Y + prev.Y}
		return p, dirIndex(b.X-p.X, b.Y-p.Y), true
	}
	return Point{}, 0, false
}

// simplifyChain drops points that lie in the middle of a straight
// horizontal, vertical or diagonal run of a closed chain. The first point
// is always kept.
func simplifyChain(points []Point) []Point {
	n := len(points)
	if n < 3 {
		return points
	}

	out := []Point{points[0]}
	for i := 1; i < n; i++ {
		prev, cur, next := points[i-1], points[i], points[(i+1)%n]
		inX, inY := cur.X-prev.X, cur.Y-prev.Y
		outX, outY := next.X-cur.X, next.Y-cur.Y
		if inX != outX || inY != outY {
			out = append(out, cur)
		}
	}
	return out
}
