package display

import (
	"image"
	"image/color"
	"testing"
)

func TestAdapter_Frame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(1, 0, color.RGBA{40, 50, 60, 255})

	tests := []struct {
		name  string
		order ChannelOrder
		want  []byte
	}{
		{"rgb", OrderRGB, []byte{10, 20, 30, 40, 50, 60}},
		{"bgr", OrderBGR, []byte{30, 20, 10, 60, 50, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Adapter{Order: tt.order}.Frame(img)
			if f.Width != 2 || f.Height != 1 {
				t.Fatalf("size: got %dx%d, want 2x1", f.Width, f.Height)
			}
			if string(f.Pix) != string(tt.want) {
				t.Errorf("pix: got %v, want %v", f.Pix, tt.want)
			}

			// Image() always yields RGB.
			if got := f.Image().NRGBAAt(1, 0); got != (color.NRGBA{40, 50, 60, 255}) {
				t.Errorf("Image() (1,0): got %v", got)
			}
		})
	}
}

func TestAdapter_TransposeRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 0, color.RGBA{255, 0, 0, 255})

	ad := Adapter{Transpose: true}
	aligned := ad.Align(img)
	if aligned.Bounds().Dx() != 2 || aligned.Bounds().Dy() != 3 {
		t.Fatalf("aligned size: got %v, want 2x3", aligned.Bounds())
	}
	if got := aligned.NRGBAAt(0, 2); got.R != 255 {
		t.Errorf("aligned (0,2): got %v, want red", got)
	}

	back := ad.Frame(aligned).Image()
	if back.Bounds() != img.Bounds() {
		t.Fatalf("round trip bounds: got %v, want %v", back.Bounds(), img.Bounds())
	}
	if got := back.NRGBAAt(2, 0); got.R != 255 {
		t.Errorf("round trip (2,0): got %v, want red", got)
	}
}

func TestAdapter_AlignOffsetImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	img.Set(5, 5, color.RGBA{0, 255, 0, 255})

	aligned := Adapter{}.Align(img)
	if aligned.Bounds().Min != (image.Point{}) {
		t.Errorf("aligned image should start at the origin, got %v", aligned.Bounds())
	}
	if got := aligned.NRGBAAt(0, 0); got.G != 255 {
		t.Errorf("aligned (0,0): got %v, want green", got)
	}
}

func TestChannelOrder_String(t *testing.T) {
	if OrderRGB.String() != "RGB" || OrderBGR.String() != "BGR" {
		t.Errorf("got %s and %s", OrderRGB, OrderBGR)
	}
	if ChannelOrder(9).String() != "unknown" {
		t.Errorf("got %s for an invalid order", ChannelOrder(9))
	}
}
