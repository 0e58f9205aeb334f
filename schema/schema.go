// Package schema declares the feature schema callers hand to the
// converter: the named, typed inputs a converted model expects.
//
// A Schema is an ordered list of entries. Each entry becomes one graph
// input; entry order fixes the column order of the feature matrix the
// model consumes.
//
//	s := schema.Schema{
//	    {Name: "measurements", Type: schema.Float32, Dim: 4},
//	    {Name: "region", Type: schema.Int64, Dim: 1},
//	}
//	if err := s.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Entries marshal to and from JSON, so schemas can live alongside
// model documents on disk.
package schema

import (
	internalschema "github.com/kiln-ml/kiln/internal/schema"
)

// ElementType is the element type of one schema entry.
type ElementType = internalschema.ElementType

// Element type constants.
const (
	Float32 ElementType = internalschema.Float32
	Float64 ElementType = internalschema.Float64
	Int32   ElementType = internalschema.Int32
	Int64   ElementType = internalschema.Int64
	String  ElementType = internalschema.String
)

// Entry describes one named model input: its element type and the
// number of columns it contributes per row.
type Entry = internalschema.Entry

// Schema is an ordered feature declaration.
type Schema = internalschema.Schema

// Validation errors returned by Schema.Validate.
var (
	ErrEmpty         = internalschema.ErrEmpty
	ErrEmptyName     = internalschema.ErrEmptyName
	ErrDuplicateName = internalschema.ErrDuplicateName
	ErrBadDimension  = internalschema.ErrBadDimension
)
