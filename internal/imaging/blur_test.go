package imaging

import (
	"errors"
	"math"
	"testing"
)

func TestGaussianBlur_Uniform(t *testing.T) {
	a := constantArray(10, 7, 0.5)

	blurred, err := GaussianBlur(a, 5, 1.4)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}

	// Uniform input stays uniform, borders included.
	for i, v := range blurred.Data {
		if math.Abs(v-0.5) > 1e-12 {
			t.Fatalf("blurred.Data[%d]: got %v, want 0.5", i, v)
		}
	}
}

func TestGaussianBlur_PreservesShape(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		side          int
	}{
		{"square", 16, 16, 3},
		{"wide", 20, 4, 5},
		{"kernel larger than array", 3, 2, 7},
		{"single element", 1, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rampArray(tt.width, tt.height)
			blurred, err := GaussianBlur(a, tt.side, 1)
			if err != nil {
				t.Fatalf("GaussianBlur failed: %v", err)
			}
			if !blurred.SameShape(a) {
				t.Errorf("shape: got %dx%d, want %dx%d", blurred.Width, blurred.Height, a.Width, a.Height)
			}
		})
	}
}

func TestGaussianBlur_Impulse(t *testing.T) {
	a := NewArray(11, 11)
	a.Set(5, 5, 1)

	blurred, err := GaussianBlur(a, 5, 1)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}

	if blurred.At(5, 5) >= 1 {
		t.Error("impulse should be reduced after blur")
	}
	if blurred.At(4, 5) == 0 || blurred.At(5, 6) == 0 {
		t.Error("neighbours should receive part of the impulse")
	}
	// Symmetric spread
	if math.Abs(blurred.At(4, 5)-blurred.At(5, 4)) > 1e-12 {
		t.Errorf("asymmetric response: %v vs %v", blurred.At(4, 5), blurred.At(5, 4))
	}
	// Outside the 5x5 support nothing is touched.
	if blurred.At(2, 5) != 0 {
		t.Errorf("(2,5) outside kernel support: got %v, want 0", blurred.At(2, 5))
	}

	var sum float64
	for _, v := range blurred.Data {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("mass not preserved: got %v, want 1", sum)
	}
}

func TestGaussianBlur_DerivedSide(t *testing.T) {
	a := NewArray(31, 31)
	a.Set(15, 15, 1)

	// sigma 1 -> side round(9)|1 = 9, radius 4
	blurred, err := GaussianBlur(a, 0, 1)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	if blurred.At(11, 15) == 0 {
		t.Error("radius-4 neighbour should be non-zero")
	}
	if blurred.At(10, 15) != 0 {
		t.Errorf("radius-5 neighbour: got %v, want 0", blurred.At(10, 15))
	}
}

func TestGaussianBlur_InvalidKernel(t *testing.T) {
	a := rampArray(5, 5)

	tests := []struct {
		name  string
		side  int
		sigma float64
	}{
		{"even", 4, 1},
		{"negative", -3, 1},
		{"zero without sigma", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GaussianBlur(a, tt.side, tt.sigma)
			if !errors.Is(err, ErrInvalidKernel) {
				t.Errorf("error: got %v, want ErrInvalidKernel", err)
			}
		})
	}
}

func TestGaussianBlur_Empty(t *testing.T) {
	_, err := GaussianBlur(NewArray(0, 3), 3, 1)
	if !errors.Is(err, ErrEmptyArray) {
		t.Errorf("error: got %v, want ErrEmptyArray", err)
	}
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(5, 0)

	var sum float64
	for _, v := range k {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel sum: got %v, want 1", sum)
	}
	if k[0] != k[4] || k[1] != k[3] {
		t.Errorf("kernel not symmetric: %v", k)
	}
	if k[2] <= k[1] {
		t.Errorf("kernel should peak at the center: %v", k)
	}
}

func TestGaussianKernel_SmallSidesWithoutSigma(t *testing.T) {
	tests := []struct {
		side int
		want []float64
	}{
		{1, []float64{1}},
		{3, []float64{0.25, 0.5, 0.25}},
		{5, []float64{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}},
		{7, []float64{2.0 / 64, 7.0 / 64, 14.0 / 64, 18.0 / 64, 14.0 / 64, 7.0 / 64, 2.0 / 64}},
	}

	for _, tt := range tests {
		k := gaussianKernel(tt.side, 0)
		if len(k) != len(tt.want) {
			t.Fatalf("side %d: got %d taps, want %d", tt.side, len(k), len(tt.want))
		}
		for i := range k {
			if k[i] != tt.want[i] {
				t.Errorf("side %d tap %d: got %v, want %v", tt.side, i, k[i], tt.want[i])
			}
		}
	}

	// An explicit sigma samples the Gaussian instead.
	if k := gaussianKernel(3, 1); k[1] == 0.5 {
		t.Errorf("sigma 1 should not use the fixed kernel: %v", k)
	}
}

func TestGaussianBlur_FixedKernelImpulse(t *testing.T) {
	a := NewArray(7, 7)
	a.Set(3, 3, 16)

	blurred, err := GaussianBlur(a, 3, 0)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	// Outer product of 1/4 [1 2 1] scaled by 16.
	want := map[[2]int]float64{{3, 3}: 4, {2, 3}: 2, {3, 4}: 2, {2, 2}: 1, {4, 4}: 1, {1, 3}: 0}
	for p, v := range want {
		if got := blurred.At(p[0], p[1]); math.Abs(got-v) > 1e-12 {
			t.Errorf("(%d,%d): got %v, want %v", p[0], p[1], got, v)
		}
	}
}

func TestMedianBlur_RemovesImpulse(t *testing.T) {
	a := NewArray(9, 9)
	a.Set(4, 4, 1000)

	blurred, err := MedianBlur(a, 3)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}
	if !blurred.SameShape(a) {
		t.Fatalf("shape: got %dx%d, want 9x9", blurred.Width, blurred.Height)
	}
	for i, v := range blurred.Data {
		if v != 0 {
			t.Fatalf("blurred.Data[%d]: got %v, want 0", i, v)
		}
	}
}

func TestMedianBlur_OriginalRange(t *testing.T) {
	// Left half -50, right half 150: the median keeps the step and the
	// output stays in the source range rather than 0-255.
	a := NewArray(10, 6)
	for x := 0; x < 10; x++ {
		for y := 0; y < 6; y++ {
			if x < 5 {
				a.Set(x, y, -50)
			} else {
				a.Set(x, y, 150)
			}
		}
	}

	blurred, err := MedianBlur(a, 3)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}

	if got := blurred.At(1, 3); math.Abs(got+50) > 1e-9 {
		t.Errorf("left side: got %v, want -50", got)
	}
	if got := blurred.At(8, 3); math.Abs(got-150) > 1e-9 {
		t.Errorf("right side: got %v, want 150", got)
	}
	lo, hi := blurred.MinMax()
	if lo < -50-1e-9 || hi > 150+1e-9 {
		t.Errorf("output range [%v, %v] escapes source range [-50, 150]", lo, hi)
	}
}

func TestMedianBlur_Identity(t *testing.T) {
	a := rampArray(5, 5)

	blurred, err := MedianBlur(a, 1)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}

	step := 44.0 / 255
	for i := range a.Data {
		if math.Abs(blurred.Data[i]-a.Data[i]) > step {
			t.Errorf("Data[%d]: got %v, want %v ± %v", i, blurred.Data[i], a.Data[i], step)
		}
	}
}

func TestMedianBlur_Errors(t *testing.T) {
	tests := []struct {
		name string
		a    *Array
		side int
		want error
	}{
		{"constant", constantArray(5, 5, 3), 3, ErrDegenerateRange},
		{"even side", rampArray(5, 5), 2, ErrInvalidKernel},
		{"zero side", rampArray(5, 5), 0, ErrInvalidKernel},
		{"empty", NewArray(0, 0), 3, ErrEmptyArray},
		{"negative infinity", withElement(rampArray(2, 3), 0, 0, math.Inf(-1)), 3, ErrNonFinite},
		{"NaN", withElement(rampArray(5, 5), 2, 2, math.NaN()), 3, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MedianBlur(tt.a, tt.side)
			if !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
		})
	}
}
