package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kiln-ml/kiln/internal/schema"
)

// Document pairs a model with the feature schema it was trained on. It
// is the JSON interchange form consumed by the kiln CLI.
type Document struct {
	Schema schema.Schema
	Model  Model
}

// DecodeDocument reads a JSON model document. Unknown JSON fields are
// rejected so parameter typos fail loudly instead of converting to a
// wrong model.
func DecodeDocument(r io.Reader) (*Document, error) {
	var raw struct {
		Schema schema.Schema `json:"schema"`
		Model  modelSpec     `json:"model"`
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode model document: %w", err)
	}
	m, err := raw.Model.build()
	if err != nil {
		return nil, err
	}
	return &Document{Schema: raw.Schema, Model: m}, nil
}

// modelSpec is the union of all stage fields; kind selects which ones
// apply.
type modelSpec struct {
	Kind       string      `json:"kind"`
	Mean       []float32   `json:"mean,omitempty"`
	Std        []float32   `json:"std,omitempty"`
	Min        []float32   `json:"min,omitempty"`
	Scale      []float32   `json:"scale,omitempty"`
	Weights    [][]float32 `json:"weights,omitempty"`
	Intercepts []float32   `json:"intercepts,omitempty"`
	Classes    []int64     `json:"classes,omitempty"`
	Categories [][]int64   `json:"categories,omitempty"`
	Stages     []modelSpec `json:"stages,omitempty"`
}

func (s *modelSpec) build() (Model, error) {
	switch s.Kind {
	case KindStandardScaler:
		return &StandardScaler{Mean: s.Mean, Std: s.Std}, nil
	case KindMinMaxScaler:
		return &MinMaxScaler{Min: s.Min, Scale: s.Scale}, nil
	case KindLinearRegression:
		return &LinearRegression{Weights: s.Weights, Intercepts: s.Intercepts}, nil
	case KindLogisticRegression:
		return &LogisticRegression{
			Weights:    s.Weights,
			Intercepts: s.Intercepts,
			Classes:    s.Classes,
		}, nil
	case KindOneHotEncoder:
		return &OneHotEncoder{Categories: s.Categories}, nil
	case KindPipeline:
		stages := make([]Model, len(s.Stages))
		for i := range s.Stages {
			st, err := s.Stages[i].build()
			if err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
			stages[i] = st
		}
		return &Pipeline{Stages: stages}, nil
	case "":
		return nil, fmt.Errorf("%w: document has no model kind", ErrUnknownKind)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}
