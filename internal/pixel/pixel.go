// Package pixel converts between raw images and the float32 NCHW
// tensors that image models consume and produce. Pixel intensities
// cross the boundary unscaled: encoding widens uint8 values to float32
// as-is, decoding clamps to [0, 255] and rounds half up.
package pixel

import "errors"

// ChannelOrder tags how color channels are arranged along an image's
// innermost axis and a tensor's channel axis.
type ChannelOrder int

const (
	RGB ChannelOrder = iota
	BGR
	Gray
)

// String returns the conventional tag for the order.
func (o ChannelOrder) String() string {
	switch o {
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	case Gray:
		return "Gray"
	default:
		return "unknown"
	}
}

// Channels returns how many channels the order carries, or 0 for an
// invalid order.
func (o ChannelOrder) Channels() int {
	switch o {
	case RGB, BGR:
		return 3
	case Gray:
		return 1
	default:
		return 0
	}
}

// Image is a pixel grid with interleaved channels: Pixels[(y*Width+x)*C+c]
// holds channel c of the pixel at row y, column x, with channels in
// Order.
type Image struct {
	Height int
	Width  int
	Order  ChannelOrder
	Pixels []uint8
}

// NewImage allocates a zeroed image.
func NewImage(height, width int, order ChannelOrder) Image {
	return Image{
		Height: height,
		Width:  width,
		Order:  order,
		Pixels: make([]uint8, height*width*order.Channels()),
	}
}

// Channels returns the image's channel count.
func (im *Image) Channels() int { return im.Order.Channels() }

// At returns channel c of the pixel at row y, column x.
func (im *Image) At(y, x, c int) uint8 {
	return im.Pixels[(y*im.Width+x)*im.Channels()+c]
}

// Set stores channel c of the pixel at row y, column x.
func (im *Image) Set(y, x, c int, v uint8) {
	im.Pixels[(y*im.Width+x)*im.Channels()+c] = v
}

// Adapter errors.
var (
	ErrShapeMismatch      = errors.New("image dimensions disagree with declared tensor shape")
	ErrInvalidTensorShape = errors.New("tensor is not a rank-4 float32 image batch")
	ErrBadChannelOrder    = errors.New("unknown channel order")
)
