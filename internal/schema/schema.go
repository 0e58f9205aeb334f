// Package schema defines the caller-declared description of a model's
// input layout: an ordered list of named, typed, sized feature entries.
// A schema disambiguates what a trained model consumed as one untyped
// vector, so the converter can emit correctly typed graph inputs.
package schema

import (
	"errors"
	"fmt"
)

// ElementType is the declared element type of one feature entry.
type ElementType int

// Element types a schema entry may declare. The converter recognizes a
// subset of these; declaring the rest is legal here and rejected there.
const (
	Float32 ElementType = iota
	Float64
	Int32
	Int64
	String
)

// String returns the lowercase name of the element type.
func (et ElementType) String() string {
	switch et {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so entries serialize
// with readable type names.
func (et ElementType) MarshalText() ([]byte, error) {
	s := et.String()
	if s == "unknown" {
		return nil, fmt.Errorf("unknown element type %d", int(et))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (et *ElementType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "float32":
		*et = Float32
	case "float64":
		*et = Float64
	case "int32":
		*et = Int32
	case "int64":
		*et = Int64
	case "string":
		*et = String
	default:
		return fmt.Errorf("unknown element type %q", string(text))
	}
	return nil
}

// Entry declares one named slice of the model's input vector. An entry
// carries exactly one element type; inputs mixing types must be split
// into multiple entries.
type Entry struct {
	Name string      `json:"name"`
	Type ElementType `json:"type"`
	Dim  int         `json:"dim"`
}

// Schema is an ordered sequence of entries. Order matters: it is the
// order in which the source model consumed the concatenated features.
type Schema []Entry

// Validation errors.
var (
	ErrEmpty         = errors.New("schema has no entries")
	ErrEmptyName     = errors.New("schema entry has empty name")
	ErrDuplicateName = errors.New("schema entry names must be unique")
	ErrBadDimension  = errors.New("schema entry dimension must be positive")
)

// Validate checks structural invariants: at least one entry, non-empty
// unique names, positive dimensions.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]bool, len(s))
	for i, e := range s {
		if e.Name == "" {
			return fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		}
		if seen[e.Name] {
			return fmt.Errorf("entry %d (%q): %w", i, e.Name, ErrDuplicateName)
		}
		seen[e.Name] = true
		if e.Dim < 1 {
			return fmt.Errorf("entry %d (%q): %w: %d", i, e.Name, ErrBadDimension, e.Dim)
		}
	}
	return nil
}

// Width returns the total declared feature count, the sum of all entry
// dimensions. It must match the source model's expected input width.
func (s Schema) Width() int {
	w := 0
	for _, e := range s {
		w += e.Dim
	}
	return w
}

// Names returns the entry names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}
	return names
}
