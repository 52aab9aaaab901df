package imaging

import (
	"errors"
	"math"
	"testing"
)

func TestLaplacian_Constant(t *testing.T) {
	a := constantArray(8, 6, 42)

	lap, err := Laplacian(a)
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}
	if !lap.SameShape(a) {
		t.Fatalf("shape: got %dx%d, want 8x6", lap.Width, lap.Height)
	}
	for i, v := range lap.Data {
		if math.Abs(v) > 1e-12 {
			t.Fatalf("lap.Data[%d]: got %v, want 0", i, v)
		}
	}
}

func TestLaplacian_Impulse(t *testing.T) {
	a := NewArray(5, 5)
	a.Set(2, 2, 1)

	lap, err := Laplacian(a)
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}

	tests := []struct {
		x, y int
		want float64
	}{
		{2, 2, -4},
		{1, 2, 1},
		{3, 2, 1},
		{2, 1, 1},
		{2, 3, 1},
		{1, 1, 0}, // diagonal neighbours are not in the kernel
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := lap.At(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestLaplacian_LinearRamp(t *testing.T) {
	// A linear ramp has zero second derivative away from the borders.
	a := rampArray(6, 6)

	lap, err := Laplacian(a)
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}
	for x := 1; x < 5; x++ {
		for y := 1; y < 5; y++ {
			if got := lap.At(x, y); math.Abs(got) > 1e-12 {
				t.Errorf("(%d,%d): got %v, want 0", x, y, got)
			}
		}
	}
}

func TestLaplacian_StepEdge(t *testing.T) {
	a := NewArray(10, 4)
	for x := 5; x < 10; x++ {
		for y := 0; y < 4; y++ {
			a.Set(x, y, 100)
		}
	}

	lap, err := Laplacian(a)
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}
	// Dark side of the edge rises, bright side falls.
	if got := lap.At(4, 2); got != 100 {
		t.Errorf("(4,2): got %v, want 100", got)
	}
	if got := lap.At(5, 2); got != -100 {
		t.Errorf("(5,2): got %v, want -100", got)
	}
	if got := lap.At(1, 2); got != 0 {
		t.Errorf("(1,2): got %v, want 0", got)
	}
}

func TestLaplacian_Empty(t *testing.T) {
	_, err := Laplacian(NewArray(3, 0))
	if !errors.Is(err, ErrEmptyArray) {
		t.Errorf("error: got %v, want ErrEmptyArray", err)
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{2, 5, 2},   // within range
		{-1, 5, 1},  // mirrored without repeating index 0
		{-2, 5, 2},
		{5, 5, 3}, // mirrored without repeating index 4
		{6, 5, 2},
		{0, 1, 0}, // single element
		{-3, 1, 0},
		{-3, 2, 1}, // repeated reflection
		{4, 2, 0},
	}

	for _, tt := range tests {
		got := reflect101(tt.i, tt.n)
		if got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
