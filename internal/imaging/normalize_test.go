package imaging

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	a := rampArray(6, 5) // values 0..45

	norm, err := Normalize(a)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if norm.High != 45 || norm.Low != 0 {
		t.Errorf("range: got [%v, %v], want [0, 45]", norm.Low, norm.High)
	}
	if got := norm.Pixels.GrayAt(5, 4).Y; got != 255 {
		t.Errorf("max maps to %d, want 255", got)
	}
	if got := norm.Pixels.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("min maps to %d, want 0", got)
	}

	// 255*10/45 = 56.67 truncates to 56
	if got := norm.Pixels.GrayAt(0, 1).Y; got != 56 {
		t.Errorf("(0,1): got %d, want 56", got)
	}
	if b := norm.Pixels.Bounds(); b.Dx() != 6 || b.Dy() != 5 {
		t.Errorf("bounds: got %v, want 6x5", b)
	}
}

func TestNormalize_NegativeRange(t *testing.T) {
	a, _ := FromValues([][]float64{{-3.5, 0}, {1.25, 2.5}})

	norm, err := Normalize(a)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if norm.High != 2.5 || norm.Low != -3.5 {
		t.Errorf("range: got [%v, %v], want [-3.5, 2.5]", norm.Low, norm.High)
	}
	if got := norm.Pixels.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("min maps to %d, want 0", got)
	}
	if got := norm.Pixels.GrayAt(1, 1).Y; got != 255 {
		t.Errorf("max maps to %d, want 255", got)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		a    *Array
		want error
	}{
		{"constant", constantArray(4, 4, 7), ErrDegenerateRange},
		{"single element", constantArray(1, 1, 3), ErrDegenerateRange},
		{"empty", NewArray(0, 0), ErrEmptyArray},
		{"NaN", withElement(rampArray(2, 2), 0, 1, math.NaN()), ErrNonFinite},
		{"negative infinity", withElement(rampArray(2, 2), 0, 0, math.Inf(-1)), ErrNonFinite},
		{"positive infinity", withElement(rampArray(3, 2), 2, 1, math.Inf(1)), ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, err := Normalize(tt.a)
			if !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
			if norm != nil {
				t.Error("expected nil result on error")
			}
		})
	}
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	a := rampArray(3, 3)
	before := a.Clone()

	if _, err := Normalize(a); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i := range a.Data {
		if a.Data[i] != before.Data[i] {
			t.Fatalf("input modified at %d: got %v, want %v", i, a.Data[i], before.Data[i])
		}
	}
}

func TestDenormalize_RoundTrip(t *testing.T) {
	a := rampArray(8, 8) // 0..77

	norm, err := Normalize(a)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	back := norm.Denormalize(norm.Pixels)

	// One 8-bit step of the source range bounds the quantization error.
	step := (norm.High - norm.Low) / 255
	for x := 0; x < a.Width; x++ {
		for y := 0; y < a.Height; y++ {
			got, want := back.At(x, y), a.At(x, y)
			if got < norm.Low || got > norm.High {
				t.Errorf("(%d,%d): %v outside [%v, %v]", x, y, got, norm.Low, norm.High)
			}
			if math.Abs(got-want) > step {
				t.Errorf("(%d,%d): got %v, want %v ± %v", x, y, got, want, step)
			}
		}
	}
}

// withElement sets one element of a and returns a.
func withElement(a *Array, x, y int, v float64) *Array {
	a.Set(x, y, v)
	return a
}
