// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package convert is Kiln's entry point: it turns trained source
// models into ONNX computation graphs.
//
// # Converting a Model
//
//	import (
//	    "github.com/kiln-ml/kiln/convert"
//	    "github.com/kiln-ml/kiln/onnx"
//	    "github.com/kiln-ml/kiln/schema"
//	    "github.com/kiln-ml/kiln/source"
//	)
//
//	model := &source.StandardScaler{
//	    Mean: []float32{10, 20},
//	    Std:  []float32{2, 4},
//	}
//	s := schema.Schema{{Name: "x", Type: schema.Float32, Dim: 2}}
//
//	m, err := convert.Convert(model, s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := onnx.Save(m, "scaler.onnx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Each schema entry becomes one named graph input with a symbolic
// batch dimension. Non-float32 entries are cast, multiple entries are
// concatenated, and each model stage appends its operator chain.
// Regressors and transformers expose a single "output" value;
// classifiers expose "label" and "scores".
//
// # Float16
//
// ToFloat16 narrows a default-domain model's float32 tensors to
// float16. Converter output always uses ai.onnx.ml operators and is
// therefore rejected; the function serves models loaded with
// [github.com/kiln-ml/kiln/onnx.Load] from elsewhere.
package convert

import (
	internalconvert "github.com/kiln-ml/kiln/internal/convert"

	"github.com/kiln-ml/kiln/onnx"
	"github.com/kiln-ml/kiln/schema"
	"github.com/kiln-ml/kiln/source"
)

// Producer identity stamped into converted models.
const (
	ProducerName    = internalconvert.ProducerName
	ProducerVersion = internalconvert.ProducerVersion
)

// Conversion errors.
var (
	ErrSchemaMismatch         = internalconvert.ErrSchemaMismatch
	ErrUnsupportedFeatureType = internalconvert.ErrUnsupportedFeatureType
	ErrUnknownStage           = internalconvert.ErrUnknownStage
	ErrHalfUnsupported        = internalconvert.ErrHalfUnsupported
)

// Options configures a conversion.
type Options = internalconvert.Options

// DefaultOptions returns the conversion defaults: graph "model" with a
// symbolic batch dimension "N".
func DefaultOptions() Options {
	return internalconvert.DefaultOptions()
}

// Convert builds an ONNX model computing the source model's prediction
// function over inputs declared by the schema.
func Convert(model source.Model, s schema.Schema, opts ...Options) (*onnx.ModelProto, error) {
	return internalconvert.Convert(model, s, opts...)
}

// ToFloat16 returns a copy of the model with every float32 tensor
// narrowed to float16. Models using ai.onnx.ml operators are rejected
// with ErrHalfUnsupported.
func ToFloat16(m *onnx.ModelProto) (*onnx.ModelProto, error) {
	return internalconvert.ToFloat16(m)
}
