// Package source defines the trained models Kiln converts: scalers,
// linear predictors, encoders, and pipelines of those stages.
//
// Models arrive either constructed in code or decoded from a JSON
// model document:
//
//	doc, err := source.DecodeDocument(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Model.Kind(), doc.Schema.Width())
//
// Every model validates its own parameters; converter callers get one
// Validate call covering an entire pipeline.
package source

import (
	"io"

	internalsource "github.com/kiln-ml/kiln/internal/source"
)

// Model is a trained source model the converter understands. InputWidth
// and OutputWidth describe the feature matrix the model maps between.
type Model = internalsource.Model

// Model kind names, as they appear in model documents and in emitted
// model metadata.
const (
	KindStandardScaler     = internalsource.KindStandardScaler
	KindMinMaxScaler       = internalsource.KindMinMaxScaler
	KindLinearRegression   = internalsource.KindLinearRegression
	KindLogisticRegression = internalsource.KindLogisticRegression
	KindOneHotEncoder      = internalsource.KindOneHotEncoder
	KindPipeline           = internalsource.KindPipeline
)

// ErrUnknownKind reports a model document naming a kind this package
// does not define.
var ErrUnknownKind = internalsource.ErrUnknownKind

// StandardScaler normalizes each column to zero mean and unit variance.
type StandardScaler = internalsource.StandardScaler

// MinMaxScaler rescales each column as x*Scale + Min.
type MinMaxScaler = internalsource.MinMaxScaler

// LinearRegression predicts one value per weight row.
type LinearRegression = internalsource.LinearRegression

// LogisticRegression classifies rows over a fixed label set.
type LogisticRegression = internalsource.LogisticRegression

// OneHotEncoder expands integer columns into indicator columns.
type OneHotEncoder = internalsource.OneHotEncoder

// Pipeline chains stages; each stage consumes the previous stage's
// output matrix.
type Pipeline = internalsource.Pipeline

// Document pairs a model with the feature schema it was trained
// against.
type Document = internalsource.Document

// DecodeDocument reads a JSON model document. Unknown fields are
// rejected so typos surface as errors instead of silently dropped
// parameters.
func DecodeDocument(r io.Reader) (*Document, error) {
	return internalsource.DecodeDocument(r)
}
