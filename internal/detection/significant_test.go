package detection

import (
	"errors"
	"testing"

	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

func TestCountContours(t *testing.T) {
	block := arrayWithBlocks(10, 10, 200, Bounds{X1: 3, Y1: 3, X2: 7, Y2: 7})

	tests := []struct {
		name      string
		a         *imaging.Array
		threshold float64
		minArea   float64
		want      int
	}{
		{"all zero", imaging.NewArray(10, 10), 100, 10, 0},
		{"block above min area", block, 100, 10, 1},
		{"block at min area", block, 100, 16, 1},
		{"block below min area", block, 100, 20, 0},
		{"threshold above block", block, 250, 1, 0},
		{
			"mixed sizes",
			arrayWithBlocks(20, 20, 1,
				Bounds{X1: 1, Y1: 1, X2: 3, Y2: 3},     // area 4
				Bounds{X1: 10, Y1: 10, X2: 15, Y2: 15}, // area 25
				Bounds{X1: 1, Y1: 15, X2: 7, Y2: 18},   // area 18
			),
			0.5, 10, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountContours(tt.a, tt.threshold, tt.minArea)
			if err != nil {
				t.Fatalf("CountContours failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountContours_Empty(t *testing.T) {
	_, err := CountContours(imaging.NewArray(0, 4), 0, 0)
	if !errors.Is(err, imaging.ErrEmptyArray) {
		t.Errorf("error: got %v, want ErrEmptyArray", err)
	}
}

func TestSignificant_PreservesOrder(t *testing.T) {
	contours := []Contour{
		{Area: 5, Points: []Point{{0, 0}}},
		{Area: 50, Points: []Point{{1, 0}}},
		{Area: 1, Points: []Point{{2, 0}}},
		{Area: 20, Points: []Point{{3, 0}}},
	}

	kept := Significant(contours, 5)
	if len(kept) != 3 {
		t.Fatalf("got %d contours, want 3", len(kept))
	}
	wantX := []int{0, 1, 3}
	for i, x := range wantX {
		if kept[i].Points[0].X != x {
			t.Errorf("kept[%d]: got contour %d, want %d", i, kept[i].Points[0].X, x)
		}
	}
	if len(contours) != 4 {
		t.Error("input slice was modified")
	}
}

func TestOtsuLevel_Bimodal(t *testing.T) {
	a := arrayWithBlocks(8, 8, 200, Bounds{X1: 0, Y1: 0, X2: 8, Y2: 3})
	for x := 0; x < 8; x++ {
		for y := 3; y < 8; y++ {
			a.Set(x, y, 10)
		}
	}

	level, err := OtsuLevel(a)
	if err != nil {
		t.Fatalf("OtsuLevel failed: %v", err)
	}
	if level < 10 || level >= 200 {
		t.Errorf("level %v does not separate 10 from 200", level)
	}

	contours, used, err := ContoursOtsu(a)
	if err != nil {
		t.Fatalf("ContoursOtsu failed: %v", err)
	}
	if used != level {
		t.Errorf("level used: got %v, want %v", used, level)
	}
	if len(contours) != 1 || contours[0].Area != 24 {
		t.Errorf("got %d contours, want one of area 24", len(contours))
	}
}

func TestOtsuLevel_Errors(t *testing.T) {
	constant := imaging.NewArray(4, 4)

	tests := []struct {
		name string
		a    *imaging.Array
		want error
	}{
		{"constant", constant, imaging.ErrDegenerateRange},
		{"empty", imaging.NewArray(0, 0), imaging.ErrEmptyArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OtsuLevel(tt.a)
			if !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOtsu_ThreeLevels(t *testing.T) {
	var hist [256]int
	hist[10] = 40
	hist[20] = 40
	hist[240] = 20

	level := otsu(hist, 100)
	if level < 20 || level >= 240 {
		t.Errorf("level %d should split {10,20} from {240}", level)
	}
}
