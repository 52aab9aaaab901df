package display

import (
	"image"

	"github.com/disintegration/imaging"
)

// ChannelOrder is the byte order of the three color channels in a Frame.
type ChannelOrder int

const (
	// OrderRGB packs pixels as red, green, blue.
	OrderRGB ChannelOrder = iota
	// OrderBGR packs pixels as blue, green, red, the order OpenCV windows
	// expect.
	OrderBGR
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "RGB"
	case OrderBGR:
		return "BGR"
	default:
		return "unknown"
	}
}

// Frame is a packed 8-bit, 3-channel raster ready for a backend.
//
// Pix holds Height rows of Width pixels, three bytes per pixel in Order.
type Frame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte
}

// Image unpacks the frame into an opaque RGB image, whatever its channel
// order.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Pix); i, j = i+3, j+4 {
		r, g, b := f.Pix[i], f.Pix[i+1], f.Pix[i+2]
		if f.Order == OrderBGR {
			r, b = b, r
		}
		img.Pix[j] = r
		img.Pix[j+1] = g
		img.Pix[j+2] = b
		img.Pix[j+3] = 255
	}
	return img
}

// Adapter converts between an image's own layout and the layout used for
// drawing and display.
//
// Arrays index their first axis as x. When the image was stored the other
// way round (rows along the array's first axis), Transpose swaps the two
// axes so that contour points line up with image pixels. Order selects the
// channel order of the frames the adapter produces.
type Adapter struct {
	Transpose bool
	Order     ChannelOrder
}

// Align returns a copy of img in array coordinates: pixel (x, y) of the
// result corresponds to element (x, y) of the array. The result always
// starts at the origin.
func (ad Adapter) Align(img image.Image) *image.NRGBA {
	if ad.Transpose {
		return imaging.Transpose(img)
	}
	return imaging.Clone(img)
}

// Frame undoes Align and packs the result in the adapter's channel order.
// Alpha is dropped.
func (ad Adapter) Frame(img image.Image) *Frame {
	var src *image.NRGBA
	if ad.Transpose {
		src = imaging.Transpose(img)
	} else {
		src = imaging.Clone(img)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	f := &Frame{Width: w, Height: h, Order: ad.Order, Pix: make([]byte, 0, w*h*3)}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			if ad.Order == OrderBGR {
				r, b = b, r
			}
			f.Pix = append(f.Pix, r, g, b)
		}
	}
	return f
}
