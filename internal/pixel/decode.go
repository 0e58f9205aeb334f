package pixel

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/kiln-ml/kiln/internal/parallel"
	"github.com/kiln-ml/kiln/internal/tensor"
)

// Options tunes batch decoding.
type Options struct {
	Parallel parallel.Config
}

// DefaultOptions spreads row extraction across the available CPUs.
func DefaultOptions() Options {
	return Options{Parallel: parallel.DefaultConfig()}
}

// Decode reassembles a rank-4 float32 NCHW tensor into one image per
// batch entry. The tensor's channel axis is taken to be in order, and
// the produced images carry that tag. Every element is clamped to
// [0, 255] and then rounded to the nearest integer, half away from
// zero: floor(v + 0.5).
func Decode(t *tensor.Dense, order ChannelOrder, opts ...Options) ([]Image, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	ch := order.Channels()
	if ch == 0 {
		return nil, fmt.Errorf("%w: order %d", ErrBadChannelOrder, int(order))
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil tensor", ErrInvalidTensorShape)
	}
	if t.DType() != tensor.Float32 {
		return nil, fmt.Errorf("%w: element type %s", ErrInvalidTensorShape, t.DType())
	}
	shape := t.Shape()
	if shape.Rank() != 4 {
		return nil, fmt.Errorf("%w: rank %d", ErrInvalidTensorShape, shape.Rank())
	}
	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	if c != 1 && c != 3 {
		return nil, fmt.Errorf("%w: %d channels, want 1 or 3", ErrInvalidTensorShape, c)
	}
	if c != ch {
		return nil, fmt.Errorf("%w: tensor has %d channels, order %s carries %d",
			ErrInvalidTensorShape, c, order, ch)
	}

	src := t.Float32s()
	images := make([]Image, n)
	for b := range images {
		images[b] = NewImage(h, w, order)
	}

	plane := h * w
	parallel.ForBatch(n, h, opt.Parallel, func(b, y int) {
		base := b * c * plane
		pixels := images[b].Pixels
		for x := 0; x < w; x++ {
			for cc := 0; cc < c; cc++ {
				v := src[base+cc*plane+y*w+x]
				pixels[(y*w+x)*c+cc] = quantize(v)
			}
		}
	})
	return images, nil
}

// quantize clamps to [0, 255] first, so the subsequent floor(v + 0.5)
// only ever sees non-negative values.
func quantize(v float32) uint8 {
	v = math32.Min(255, math32.Max(0, v))
	return uint8(math32.Floor(v + 0.5))
}
