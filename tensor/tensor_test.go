// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/kiln-ml/kiln/tensor"
)

// TestDenseAPI verifies the Dense alias exposes the expected API.
func TestDenseAPI(t *testing.T) {
	d, err := tensor.FromFloat32(tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}

	if !d.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", d.Shape())
	}
	if d.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", d.DType())
	}
	if d.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", d.NumElements())
	}
	if d.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", d.ByteSize())
	}

	vals := d.Float32s()
	if len(vals) != 6 || vals[0] != 1 || vals[5] != 6 {
		t.Errorf("Float32s() = %v, want [1 2 3 4 5 6]", vals)
	}
}

// TestNewDenseZeroFilled verifies NewDense allocates zeroed storage.
func TestNewDenseZeroFilled(t *testing.T) {
	d, err := tensor.NewDense(tensor.Shape{4}, tensor.Int64)
	if err != nil {
		t.Fatalf("NewDense failed: %v", err)
	}
	for i, v := range d.Int64s() {
		if v != 0 {
			t.Errorf("element %d = %d, want 0", i, v)
		}
	}
}

// TestFromConstructorsRejectBadInput verifies length and shape checks.
func TestFromConstructorsRejectBadInput(t *testing.T) {
	if _, err := tensor.FromFloat32(tensor.Shape{2, 2}, []float32{1}); err == nil {
		t.Error("Expected error for short value slice, got nil")
	}
	if _, err := tensor.FromUint8(tensor.Shape{-1}, nil); err == nil {
		t.Error("Expected error for negative dimension, got nil")
	}
	if _, err := tensor.FromInt64(tensor.Shape{3}, []int64{1, 2, 3, 4}); err == nil {
		t.Error("Expected error for oversized value slice, got nil")
	}
}

// TestParseDataType verifies name round-trips for each element type.
func TestParseDataType(t *testing.T) {
	for _, dt := range []tensor.DataType{
		tensor.Float32, tensor.Float64, tensor.Int32,
		tensor.Int64, tensor.Uint8, tensor.Bool,
	} {
		got, ok := tensor.ParseDataType(dt.String())
		if !ok {
			t.Errorf("ParseDataType(%q) not recognized", dt.String())
			continue
		}
		if got != dt {
			t.Errorf("ParseDataType(%q) = %v, want %v", dt.String(), got, dt)
		}
	}
	if _, ok := tensor.ParseDataType("complex64"); ok {
		t.Error("Expected ParseDataType to reject unknown name")
	}
}
