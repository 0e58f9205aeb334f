package source

import (
	"errors"
	"fmt"
)

// StandardScaler centers each feature on its mean and divides by its
// standard deviation.
type StandardScaler struct {
	Mean []float32 // per-feature mean
	Std  []float32 // per-feature standard deviation
}

func (s *StandardScaler) Kind() string     { return KindStandardScaler }
func (s *StandardScaler) InputWidth() int  { return len(s.Mean) }
func (s *StandardScaler) OutputWidth() int { return len(s.Mean) }

func (s *StandardScaler) Validate() error {
	if len(s.Mean) == 0 {
		return errors.New("no features")
	}
	if len(s.Std) != len(s.Mean) {
		return fmt.Errorf("mean has %d features, std has %d", len(s.Mean), len(s.Std))
	}
	for i, v := range s.Std {
		if v == 0 {
			return fmt.Errorf("std[%d] is zero", i)
		}
	}
	return nil
}

// MinMaxScaler rescales each feature as x*scale + min, the learned
// affine map onto the training feature range.
type MinMaxScaler struct {
	Min   []float32 // per-feature additive term
	Scale []float32 // per-feature multiplicative term
}

func (s *MinMaxScaler) Kind() string     { return KindMinMaxScaler }
func (s *MinMaxScaler) InputWidth() int  { return len(s.Scale) }
func (s *MinMaxScaler) OutputWidth() int { return len(s.Scale) }

func (s *MinMaxScaler) Validate() error {
	if len(s.Scale) == 0 {
		return errors.New("no features")
	}
	if len(s.Min) != len(s.Scale) {
		return fmt.Errorf("min has %d features, scale has %d", len(s.Min), len(s.Scale))
	}
	for i, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("scale[%d] is zero", i)
		}
	}
	return nil
}

// LinearRegression predicts one value per target as a weighted feature
// sum plus an intercept.
type LinearRegression struct {
	Weights    [][]float32 // one row of feature coefficients per target
	Intercepts []float32   // one per target
}

func (m *LinearRegression) Kind() string { return KindLinearRegression }

func (m *LinearRegression) InputWidth() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

func (m *LinearRegression) OutputWidth() int { return len(m.Weights) }

func (m *LinearRegression) Validate() error {
	return validateWeights(m.Weights, m.Intercepts)
}

// LogisticRegression scores each class as a weighted feature sum pushed
// through the logistic function. Binary models carry a single weight
// row and exactly two class labels.
type LogisticRegression struct {
	Weights    [][]float32 // one row per class (one total for binary)
	Intercepts []float32   // one per weight row
	Classes    []int64     // class labels, in score order
}

func (m *LogisticRegression) Kind() string { return KindLogisticRegression }

func (m *LogisticRegression) InputWidth() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// OutputWidth is the per-class score count.
func (m *LogisticRegression) OutputWidth() int { return len(m.Classes) }

func (m *LogisticRegression) Validate() error {
	if err := validateWeights(m.Weights, m.Intercepts); err != nil {
		return err
	}
	switch {
	case len(m.Classes) < 2:
		return fmt.Errorf("%d classes, need at least 2", len(m.Classes))
	case len(m.Weights) == 1 && len(m.Classes) != 2:
		return fmt.Errorf("one weight row implies binary, got %d classes", len(m.Classes))
	case len(m.Weights) > 1 && len(m.Classes) != len(m.Weights):
		return fmt.Errorf("%d weight rows for %d classes", len(m.Weights), len(m.Classes))
	}
	seen := make(map[int64]bool, len(m.Classes))
	for _, c := range m.Classes {
		if seen[c] {
			return fmt.Errorf("duplicate class label %d", c)
		}
		seen[c] = true
	}
	return nil
}

// OneHotEncoder expands each integer feature column into indicator
// columns, one per known category value.
type OneHotEncoder struct {
	Categories [][]int64 // per input column, the known category values
}

func (e *OneHotEncoder) Kind() string    { return KindOneHotEncoder }
func (e *OneHotEncoder) InputWidth() int { return len(e.Categories) }

func (e *OneHotEncoder) OutputWidth() int {
	w := 0
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

func (e *OneHotEncoder) Validate() error {
	if len(e.Categories) == 0 {
		return errors.New("no feature columns")
	}
	for i, cats := range e.Categories {
		if len(cats) == 0 {
			return fmt.Errorf("column %d has no categories", i)
		}
		seen := make(map[int64]bool, len(cats))
		for _, c := range cats {
			if seen[c] {
				return fmt.Errorf("column %d: duplicate category %d", i, c)
			}
			seen[c] = true
		}
	}
	return nil
}

func validateWeights(weights [][]float32, intercepts []float32) error {
	if len(weights) == 0 {
		return errors.New("no weight rows")
	}
	width := len(weights[0])
	if width == 0 {
		return errors.New("empty weight row")
	}
	for i, row := range weights {
		if len(row) != width {
			return fmt.Errorf("weight row %d has %d features, row 0 has %d", i, len(row), width)
		}
	}
	if len(intercepts) != len(weights) {
		return fmt.Errorf("%d intercepts for %d weight rows", len(intercepts), len(weights))
	}
	return nil
}
