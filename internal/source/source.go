// Package source models trained classical-ML estimators in a
// framework-neutral form: scalers, linear predictors, encoders, and
// pipelines of those. Values here carry only what conversion needs,
// namely learned parameters and feature widths.
package source

import (
	"errors"
	"fmt"
)

// Model is a trained source model that can be converted. InputWidth and
// OutputWidth are feature counts per sample; Validate reports internal
// inconsistencies in the learned parameters.
type Model interface {
	Kind() string
	InputWidth() int
	OutputWidth() int
	Validate() error
}

// Model kinds as they appear in model documents.
const (
	KindStandardScaler     = "standard_scaler"
	KindMinMaxScaler       = "minmax_scaler"
	KindLinearRegression   = "linear_regression"
	KindLogisticRegression = "logistic_regression"
	KindOneHotEncoder      = "one_hot_encoder"
	KindPipeline           = "pipeline"
)

// ErrUnknownKind reports a model document naming a kind this package
// does not model.
var ErrUnknownKind = errors.New("unknown model kind")

// Pipeline chains stages so each consumes the previous stage's output.
type Pipeline struct {
	Stages []Model
}

// Kind implements Model.
func (p *Pipeline) Kind() string { return KindPipeline }

// InputWidth returns the first stage's input width.
func (p *Pipeline) InputWidth() int {
	if len(p.Stages) == 0 {
		return 0
	}
	return p.Stages[0].InputWidth()
}

// OutputWidth returns the last stage's output width.
func (p *Pipeline) OutputWidth() int {
	if len(p.Stages) == 0 {
		return 0
	}
	return p.Stages[len(p.Stages)-1].OutputWidth()
}

// Validate checks every stage and the width chaining between adjacent
// stages. Nested pipelines are rejected; flatten before converting.
func (p *Pipeline) Validate() error {
	if len(p.Stages) == 0 {
		return errors.New("pipeline has no stages")
	}
	for i, st := range p.Stages {
		if st.Kind() == KindPipeline {
			return fmt.Errorf("stage %d: nested pipelines are not supported", i)
		}
		if err := st.Validate(); err != nil {
			return fmt.Errorf("stage %d (%s): %w", i, st.Kind(), err)
		}
		if i > 0 {
			prev := p.Stages[i-1]
			if prev.OutputWidth() != st.InputWidth() {
				return fmt.Errorf("stage %d (%s) expects %d features, stage %d (%s) produces %d",
					i, st.Kind(), st.InputWidth(), i-1, prev.Kind(), prev.OutputWidth())
			}
		}
	}
	return nil
}
