package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	good := Schema{
		{Name: "age", Type: Int64, Dim: 1},
		{Name: "income", Type: Float32, Dim: 1},
		{Name: "embedding", Type: Float32, Dim: 16},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		want   error
	}{
		{"empty schema", Schema{}, ErrEmpty},
		{"empty name", Schema{{Name: "", Type: Float32, Dim: 1}}, ErrEmptyName},
		{
			"duplicate name",
			Schema{
				{Name: "x", Type: Float32, Dim: 1},
				{Name: "x", Type: Int64, Dim: 1},
			},
			ErrDuplicateName,
		},
		{"zero dim", Schema{{Name: "x", Type: Float32, Dim: 0}}, ErrBadDimension},
		{"negative dim", Schema{{Name: "x", Type: Float32, Dim: -3}}, ErrBadDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWidth(t *testing.T) {
	s := Schema{
		{Name: "a", Type: Float32, Dim: 3},
		{Name: "b", Type: Int64, Dim: 1},
		{Name: "c", Type: Float32, Dim: 8},
	}
	if got := s.Width(); got != 12 {
		t.Errorf("Width() = %d, want 12", got)
	}
	if got := (Schema{}).Width(); got != 0 {
		t.Errorf("empty Width() = %d, want 0", got)
	}
}

func TestNames(t *testing.T) {
	s := Schema{
		{Name: "a", Type: Float32, Dim: 1},
		{Name: "b", Type: Int64, Dim: 1},
	}
	got := s.Names()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", got)
	}
}

func TestElementTypeText(t *testing.T) {
	for _, et := range []ElementType{Float32, Float64, Int32, Int64, String} {
		text, err := et.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", et, err)
		}
		var back ElementType
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error: %v", text, err)
		}
		if back != et {
			t.Errorf("roundtrip %v -> %q -> %v", et, text, back)
		}
	}

	var et ElementType
	if err := et.UnmarshalText([]byte("complex128")); err == nil {
		t.Error("UnmarshalText accepted unknown type name")
	}
}

func TestEntryJSON(t *testing.T) {
	in := Entry{Name: "score", Type: Float64, Dim: 4}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"name":"score","type":"float64","dim":4}`
	if string(raw) != want {
		t.Errorf("Marshal = %s, want %s", raw, want)
	}

	var out Entry
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("roundtrip = %+v, want %+v", out, in)
	}
}
