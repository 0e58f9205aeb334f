package tensor

import (
	"fmt"
	"unsafe"
)

// Dense is a contiguous host tensor: a shape, an element type, and a
// row-major backing buffer. It is a plain value with no device or view
// machinery; the conversion pipeline only ever needs whole tensors on
// the host.
type Dense struct {
	shape Shape
	dtype DataType
	data  []byte
}

// NewDense allocates a zero-filled tensor with the given shape and type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		shape: shape.Clone(),
		dtype: dtype,
		data:  make([]byte, shape.NumElements()*dtype.Size()),
	}, nil
}

// FromFloat32 builds a Float32 tensor around a copy of values.
// len(values) must equal the shape's element count.
func FromFloat32(shape Shape, values []float32) (*Dense, error) {
	d, err := NewDense(shape, Float32)
	if err != nil {
		return nil, err
	}
	if len(values) != d.NumElements() {
		return nil, fmt.Errorf("data length mismatch: got %d elements, shape %v wants %d",
			len(values), shape, d.NumElements())
	}
	copy(d.Float32s(), values)
	return d, nil
}

// FromInt64 builds an Int64 tensor around a copy of values.
func FromInt64(shape Shape, values []int64) (*Dense, error) {
	d, err := NewDense(shape, Int64)
	if err != nil {
		return nil, err
	}
	if len(values) != d.NumElements() {
		return nil, fmt.Errorf("data length mismatch: got %d elements, shape %v wants %d",
			len(values), shape, d.NumElements())
	}
	copy(d.Int64s(), values)
	return d, nil
}

// FromUint8 builds a Uint8 tensor around a copy of values.
func FromUint8(shape Shape, values []uint8) (*Dense, error) {
	d, err := NewDense(shape, Uint8)
	if err != nil {
		return nil, err
	}
	if len(values) != d.NumElements() {
		return nil, fmt.Errorf("data length mismatch: got %d elements, shape %v wants %d",
			len(values), shape, d.NumElements())
	}
	copy(d.Uint8s(), values)
	return d, nil
}

// Shape returns the tensor's shape. Callers must not mutate it.
func (d *Dense) Shape() Shape {
	return d.shape
}

// DType returns the tensor's element type.
func (d *Dense) DType() DataType {
	return d.dtype
}

// NumElements returns the total element count.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// ByteSize returns the size of the backing buffer in bytes.
func (d *Dense) ByteSize() int {
	return len(d.data)
}

// Data returns the raw backing bytes in native (little-endian) order.
func (d *Dense) Data() []byte {
	return d.data
}

// Float32s views the buffer as []float32.
// Panics if the element type is not Float32.
func (d *Dense) Float32s() []float32 {
	if d.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// Float64s views the buffer as []float64.
// Panics if the element type is not Float64.
func (d *Dense) Float64s() []float64 {
	if d.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// Int32s views the buffer as []int32.
// Panics if the element type is not Int32.
func (d *Dense) Int32s() []int32 {
	if d.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// Int64s views the buffer as []int64.
// Panics if the element type is not Int64.
func (d *Dense) Int64s() []int64 {
	if d.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// Uint8s views the buffer as []uint8.
// Panics if the element type is not Uint8.
func (d *Dense) Uint8s() []uint8 {
	if d.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", d.dtype))
	}
	return d.data
}

// Clone returns a deep copy sharing nothing with the receiver.
func (d *Dense) Clone() *Dense {
	out := &Dense{
		shape: d.shape.Clone(),
		dtype: d.dtype,
		data:  make([]byte, len(d.data)),
	}
	copy(out.data, d.data)
	return out
}
