package imaging

// laplacianKernel is the 4-neighbour discrete Laplacian:
//
//	0  1  0
//	1 -4  1
//	0  1  0
var laplacianKernel = [3][3]float64{
	{0, 1, 0},
	{1, -4, 1},
	{0, 1, 0},
}

// Laplacian computes the discrete Laplacian (second-derivative edge
// response) of an array in float64.
//
// The response is large in magnitude where intensity changes abruptly and
// zero over constant or linearly varying regions. No normalization is
// applied before or after; the output keeps the sign of the second
// derivative and has the same shape as the input.
//
// Borders use reflect-101, so a constant array yields all zeros including
// its edges.
func Laplacian(a *Array) (*Array, error) {
	if a.Empty() {
		return nil, ErrEmptyArray
	}

	out := NewArray(a.Width, a.Height)
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			var sum float64
			for kx := -1; kx <= 1; kx++ {
				for ky := -1; ky <= 1; ky++ {
					w := laplacianKernel[kx+1][ky+1]
					if w == 0 {
						continue
					}
					sum += w * a.At(reflect101(x+kx, a.Width), reflect101(y+ky, a.Height))
				}
			}
			out.Set(x, y, sum)
		}
	}
	return out, nil
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge elements without repeating them.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
