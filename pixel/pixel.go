// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pixel moves image data between the interleaved byte layout
// decoders produce and the planar float32 tensors converted models
// consume.
//
// Encode lays a height-major, channel-interleaved uint8 image out as a
// [1, C, H, W] float32 tensor; Decode walks the other way, clamping to
// [0, 255] and rounding halves up. Values are never rescaled: 255 stays
// 255.0, matching models trained on raw byte intensities.
//
//	img := pixel.NewImage(224, 224, pixel.RGB)
//	// ... fill img.Pixels ...
//
//	t, err := pixel.Encode(img, tensor.Shape{1, 3, 224, 224}, pixel.BGR)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	imgs, err := pixel.Decode(t, pixel.BGR)
//
// Encode and Decode both take the channel order of the tensor side, so
// RGB images feed BGR models without a separate swizzle pass.
package pixel

import (
	internalpixel "github.com/kiln-ml/kiln/internal/pixel"

	"github.com/kiln-ml/kiln/tensor"
)

// ChannelOrder is the channel layout of an image or image tensor.
type ChannelOrder = internalpixel.ChannelOrder

// Channel order constants.
const (
	RGB  ChannelOrder = internalpixel.RGB
	BGR  ChannelOrder = internalpixel.BGR
	Gray ChannelOrder = internalpixel.Gray
)

// Image is a height-major, channel-interleaved uint8 image.
type Image = internalpixel.Image

// NewImage allocates a zero-filled image.
func NewImage(height, width int, order ChannelOrder) Image {
	return internalpixel.NewImage(height, width, order)
}

// Options configures decoding.
type Options = internalpixel.Options

// DefaultOptions returns the decoding defaults.
func DefaultOptions() Options {
	return internalpixel.DefaultOptions()
}

// Adapter errors.
var (
	ErrShapeMismatch      = internalpixel.ErrShapeMismatch
	ErrInvalidTensorShape = internalpixel.ErrInvalidTensorShape
	ErrBadChannelOrder    = internalpixel.ErrBadChannelOrder
)

// Encode lays the image out as a [1, C, H, W] float32 tensor in the
// given channel order. The declared shape must match the image's
// dimensions; a leading batch dimension of 1 is accepted.
func Encode(img Image, declared tensor.Shape, order ChannelOrder) (*tensor.Dense, error) {
	return internalpixel.Encode(img, declared, order)
}

// Decode converts a [B, C, H, W] float32 tensor in the given channel
// order back into B images, clamping values to [0, 255] and rounding
// halves up.
func Decode(t *tensor.Dense, order ChannelOrder, opts ...Options) ([]Image, error) {
	return internalpixel.Decode(t, order, opts...)
}
