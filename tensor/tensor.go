// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/kiln-ml/kiln/internal/tensor"
)

// Type aliases for public API

// DataType represents the underlying element type of a tensor.
type DataType = tensor.DataType

// Element type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// ParseDataType parses an element type name such as "float32".
// The second result reports whether the name was recognized.
func ParseDataType(s string) (DataType, bool) {
	return tensor.ParseDataType(s)
}

// Shape describes tensor dimensions, outermost first.
type Shape = tensor.Shape

// Dense is a contiguous CPU tensor. See the accessor methods for typed
// views over its buffer.
type Dense = tensor.Dense

// NewDense allocates a zero-filled tensor with the given shape and
// element type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	return tensor.NewDense(shape, dtype)
}

// FromFloat32 builds a float32 tensor around a copy of values.
//
// Example:
//
//	t, err := tensor.FromFloat32(tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
func FromFloat32(shape Shape, values []float32) (*Dense, error) {
	return tensor.FromFloat32(shape, values)
}

// FromInt64 builds an int64 tensor around a copy of values.
func FromInt64(shape Shape, values []int64) (*Dense, error) {
	return tensor.FromInt64(shape, values)
}

// FromUint8 builds a uint8 tensor around a copy of values.
func FromUint8(shape Shape, values []uint8) (*Dense, error) {
	return tensor.FromUint8(shape, values)
}
