package tensor

import (
	"testing"
)

func TestNewDenseZeroFilled(t *testing.T) {
	d, err := NewDense(Shape{2, 3}, Float32)
	if err != nil {
		t.Fatalf("NewDense failed: %v", err)
	}

	if d.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", d.ByteSize())
	}

	for i, v := range d.Float32s() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewDenseRejectsBadShape(t *testing.T) {
	if _, err := NewDense(Shape{2, -1}, Float32); err == nil {
		t.Error("NewDense should reject negative dimensions")
	}
}

func TestFromFloat32(t *testing.T) {
	d, err := FromFloat32(Shape{2, 2}, []float32{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}

	got := d.Float32s()
	for i, want := range []float32{1, 2, 3, 4} {
		if got[i] != want {
			t.Errorf("element %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestFromFloat32LengthMismatch(t *testing.T) {
	if _, err := FromFloat32(Shape{2, 2}, []float32{1, 2, 3}); err == nil {
		t.Error("FromFloat32 should reject short data")
	}
}

func TestDenseTypedViewsAreZeroCopy(t *testing.T) {
	d, err := NewDense(Shape{3}, Int64)
	if err != nil {
		t.Fatalf("NewDense failed: %v", err)
	}

	d.Int64s()[1] = 42
	if d.Int64s()[1] != 42 {
		t.Error("Int64s should be a zero-copy view")
	}
}

func TestDenseViewPanicsOnWrongType(t *testing.T) {
	d, err := NewDense(Shape{2}, Float32)
	if err != nil {
		t.Fatalf("NewDense failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Int64s on a float32 tensor should panic")
		}
	}()
	_ = d.Int64s()
}

func TestDenseClone(t *testing.T) {
	d, err := FromUint8(Shape{2, 2}, []uint8{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromUint8 failed: %v", err)
	}

	c := d.Clone()
	c.Uint8s()[0] = 99

	if d.Uint8s()[0] != 1 {
		t.Error("Clone must not share the backing buffer")
	}
	if !c.Shape().Equal(d.Shape()) {
		t.Error("Clone must preserve shape")
	}
}

func TestParseDataTypeRoundTrip(t *testing.T) {
	for _, dt := range []DataType{Float32, Float64, Int32, Int64, Uint8, Bool} {
		got, ok := ParseDataType(dt.String())
		if !ok || got != dt {
			t.Errorf("ParseDataType(%q) = %v, %v", dt.String(), got, ok)
		}
	}

	if _, ok := ParseDataType("complex128"); ok {
		t.Error("ParseDataType should reject unknown names")
	}
}
