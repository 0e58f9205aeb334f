package pixel

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/tensor"
)

// Encode lays the image out as a batch-1 NCHW float32 tensor with
// channels arranged per order, so tensor[0, c, y, x] carries the
// intensity of the pixel at (y, x) in order's channel c. Values are
// widened without scaling.
//
// declared must be [C, H, W] or [1, C, H, W] and agree with the image's
// dimensions and channel count.
func Encode(img Image, declared tensor.Shape, order ChannelOrder) (*tensor.Dense, error) {
	if img.Order.Channels() == 0 {
		return nil, fmt.Errorf("%w: image order %d", ErrBadChannelOrder, int(img.Order))
	}
	if order.Channels() == 0 {
		return nil, fmt.Errorf("%w: target order %d", ErrBadChannelOrder, int(order))
	}

	c, h, w, err := splitDeclared(declared)
	if err != nil {
		return nil, err
	}
	if h != img.Height || w != img.Width {
		return nil, fmt.Errorf("%w: declared %dx%d, image %dx%d",
			ErrShapeMismatch, h, w, img.Height, img.Width)
	}
	if c != img.Channels() {
		return nil, fmt.Errorf("%w: declared %d channels, image %s carries %d",
			ErrShapeMismatch, c, img.Order, img.Channels())
	}
	if c != order.Channels() {
		return nil, fmt.Errorf("%w: declared %d channels, target order %s carries %d",
			ErrShapeMismatch, c, order, order.Channels())
	}
	if len(img.Pixels) != h*w*c {
		return nil, fmt.Errorf("%w: pixel buffer holds %d values, want %d",
			ErrShapeMismatch, len(img.Pixels), h*w*c)
	}

	out, err := tensor.NewDense(tensor.Shape{1, c, h, w}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	dst := out.Float32s()
	perm := channelPerm(img.Order, order, c)
	for tc := 0; tc < c; tc++ {
		sc := perm[tc]
		plane := dst[tc*h*w : (tc+1)*h*w]
		for y := 0; y < h; y++ {
			row := img.Pixels[y*w*c : (y+1)*w*c]
			for x := 0; x < w; x++ {
				plane[y*w+x] = float32(row[x*c+sc])
			}
		}
	}
	return out, nil
}

// channelPerm maps each target channel to its source channel. The only
// non-identity case with matching channel counts is the RGB/BGR pair,
// which reverses the channel axis.
func channelPerm(from, to ChannelOrder, c int) []int {
	perm := make([]int, c)
	for i := range perm {
		if from == to {
			perm[i] = i
		} else {
			perm[i] = c - 1 - i
		}
	}
	return perm
}

func splitDeclared(declared tensor.Shape) (c, h, w int, err error) {
	switch declared.Rank() {
	case 3:
		return declared[0], declared[1], declared[2], nil
	case 4:
		if declared[0] != 1 {
			return 0, 0, 0, fmt.Errorf("%w: batch dimension %d, encode takes one image",
				ErrShapeMismatch, declared[0])
		}
		return declared[1], declared[2], declared[3], nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: declared shape %v is not [C H W] or [1 C H W]",
			ErrShapeMismatch, declared)
	}
}
