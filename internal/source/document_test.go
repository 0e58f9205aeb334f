package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/kiln-ml/kiln/internal/schema"
)

func TestDecodeDocumentPipeline(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{
		"schema": [
			{"name": "age", "type": "float32", "dim": 1},
			{"name": "income", "type": "float32", "dim": 2}
		],
		"model": {
			"kind": "pipeline",
			"stages": [
				{"kind": "standard_scaler", "mean": [1, 2, 3], "std": [1, 1, 2]},
				{"kind": "linear_regression", "weights": [[0.5, -0.5, 1]], "intercepts": [0.25]}
			]
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}

	want := schema.Schema{
		{Name: "age", Type: schema.Float32, Dim: 1},
		{Name: "income", Type: schema.Float32, Dim: 2},
	}
	if len(doc.Schema) != len(want) || doc.Schema[0] != want[0] || doc.Schema[1] != want[1] {
		t.Errorf("Schema = %+v, want %+v", doc.Schema, want)
	}

	p, ok := doc.Model.(*Pipeline)
	if !ok {
		t.Fatalf("Model is %T, want *Pipeline", doc.Model)
	}
	if len(p.Stages) != 2 {
		t.Fatalf("Expected 2 stages, got %d", len(p.Stages))
	}
	if _, ok := p.Stages[0].(*StandardScaler); !ok {
		t.Errorf("stage 0 is %T, want *StandardScaler", p.Stages[0])
	}
	lr, ok := p.Stages[1].(*LinearRegression)
	if !ok {
		t.Fatalf("stage 1 is %T, want *LinearRegression", p.Stages[1])
	}
	if lr.Weights[0][2] != 1 || lr.Intercepts[0] != 0.25 {
		t.Errorf("regression params = %v, %v", lr.Weights, lr.Intercepts)
	}
	if err := doc.Model.Validate(); err != nil {
		t.Errorf("decoded model Validate() = %v", err)
	}
}

func TestDecodeDocumentClassifier(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{
		"schema": [{"name": "x", "type": "float32", "dim": 2}],
		"model": {
			"kind": "logistic_regression",
			"weights": [[0.3, -0.7]],
			"intercepts": [0.1],
			"classes": [0, 1]
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	m, ok := doc.Model.(*LogisticRegression)
	if !ok {
		t.Fatalf("Model is %T, want *LogisticRegression", doc.Model)
	}
	if len(m.Classes) != 2 || m.Classes[1] != 1 {
		t.Errorf("Classes = %v, want [0 1]", m.Classes)
	}
}

func TestDecodeDocumentUnknownKind(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{
		"schema": [{"name": "x", "type": "float32", "dim": 1}],
		"model": {"kind": "gradient_boosting"}
	}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("DecodeDocument = %v, want ErrUnknownKind", err)
	}
}

func TestDecodeDocumentMissingKind(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{
		"schema": [{"name": "x", "type": "float32", "dim": 1}],
		"model": {"mean": [1], "std": [1]}
	}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("DecodeDocument = %v, want ErrUnknownKind", err)
	}
}

func TestDecodeDocumentRejectsUnknownFields(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{
		"schema": [{"name": "x", "type": "float32", "dim": 1}],
		"model": {"kind": "standard_scaler", "mean": [1], "stdd": [1]}
	}`))
	if err == nil {
		t.Error("DecodeDocument accepted a misspelled field")
	}
}

func TestDecodeDocumentBadJSON(t *testing.T) {
	if _, err := DecodeDocument(strings.NewReader(`{"schema": [`)); err == nil {
		t.Error("DecodeDocument accepted truncated JSON")
	}
}
