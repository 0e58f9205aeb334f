// Package convert turns trained source models into ONNX computation
// graphs. The converter validates the caller's feature schema against
// the model, materializes per-feature graph inputs, merges them into a
// single float32 feature matrix, and emits one operator chain per
// pipeline stage.
package convert

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/kiln-ml/kiln/internal/onnx"
	"github.com/kiln-ml/kiln/internal/schema"
	"github.com/kiln-ml/kiln/internal/source"
)

// Producer identity stamped into converted models.
const (
	ProducerName    = "kiln"
	ProducerVersion = "0.1.0"
)

// Conversion errors.
var (
	ErrSchemaMismatch         = errors.New("schema width disagrees with model input width")
	ErrUnsupportedFeatureType = errors.New("feature type has no graph type mapping")
	ErrUnknownStage           = errors.New("no emitter for stage kind")
	ErrHalfUnsupported        = errors.New("float16 conversion is not defined for ml-domain graphs")
)

// Options configures a conversion.
type Options struct {
	GraphName   string // emitted graph name
	BatchSymbol string // symbolic batch dimension name on inputs and outputs
	DocString   string // free-form model description
}

// DefaultOptions returns the conversion defaults: graph "model" with a
// symbolic batch dimension "N".
func DefaultOptions() Options {
	return Options{GraphName: "model", BatchSymbol: "N"}
}

// Convert builds an ONNX model computing the source model's prediction
// function over inputs declared by the schema. Each schema entry
// becomes one named graph input with a symbolic batch dimension;
// non-float32 entries are cast and all entries are concatenated into
// the feature matrix the first stage consumes.
func Convert(model source.Model, s schema.Schema, opts ...Options) (*onnx.ModelProto, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.GraphName == "" {
			opt.GraphName = "model"
		}
		if opt.BatchSymbol == "" {
			opt.BatchSymbol = "N"
		}
	}

	if model == nil {
		return nil, errors.New("nil model")
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s model: %w", model.Kind(), err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	if s.Width() != model.InputWidth() {
		return nil, fmt.Errorf("%w: schema declares %d features, %s model expects %d",
			ErrSchemaMismatch, s.Width(), model.Kind(), model.InputWidth())
	}
	for _, e := range s {
		if e.Name == outputName || e.Name == labelName || e.Name == scoresName {
			return nil, fmt.Errorf("schema entry name %q is reserved for graph outputs", e.Name)
		}
	}

	ctx := &emitCtx{
		b:     onnx.NewGraphBuilder(opt.GraphName),
		batch: onnx.SymbolicDim(opt.BatchSymbol),
	}

	current, err := emitInputs(ctx, s)
	if err != nil {
		return nil, err
	}

	stages := stageList(model)
	for i, st := range stages {
		last := i == len(stages)-1
		emit, ok := emitters[st.Kind()]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, st.Kind())
		}
		if isClassifier(st) && !last {
			return nil, fmt.Errorf("stage %d: a classifier must be the final pipeline stage", i)
		}
		klog.V(2).InfoS("emitting stage", "index", i, "kind", st.Kind())
		current, err = emit(ctx, st, current, last)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, st.Kind(), err)
		}
	}

	graph, err := ctx.b.Build()
	if err != nil {
		return nil, fmt.Errorf("assemble graph: %w", err)
	}

	opsets := []onnx.OperatorSetID{{Domain: onnx.DomainONNX, Version: onnx.OpsetVersion}}
	if ctx.usesML {
		opsets = append(opsets, onnx.OperatorSetID{
			Domain:  onnx.DomainONNXML,
			Version: onnx.OpsetMLVersion,
		})
	}

	conversionID := uuid.NewString()
	out := &onnx.ModelProto{
		IRVersion:       onnx.IRVersion,
		ProducerName:    ProducerName,
		ProducerVersion: ProducerVersion,
		DocString:       opt.DocString,
		Graph:           graph,
		OpsetImport:     opsets,
		MetadataProps: []onnx.StringStringEntry{
			{Key: "conversion_id", Value: conversionID},
			{Key: "source_kind", Value: model.Kind()},
		},
	}
	klog.V(1).InfoS("converted model",
		"kind", model.Kind(),
		"inputs", len(graph.Inputs),
		"nodes", len(graph.Nodes),
		"conversion_id", conversionID)
	return out, nil
}

// emitInputs declares one graph input per schema entry and returns the
// name of the merged float32 feature matrix. A lone float32 entry feeds
// stages directly; everything else goes through Cast and Concat.
func emitInputs(ctx *emitCtx, s schema.Schema) (string, error) {
	cols := make([]string, 0, len(s))
	for _, e := range s {
		et, err := inputElemType(e.Type)
		if err != nil {
			return "", fmt.Errorf("entry %q: %w", e.Name, err)
		}
		name := ctx.b.Input(e.Name, et, ctx.batch, onnx.Dim(int64(e.Dim)))
		if e.Type != schema.Float32 {
			out := ctx.b.Node(onnx.DomainONNX, "Cast",
				[]string{name}, nil, onnx.IntAttr("to", onnx.ElemFloat))
			name = out[0]
		}
		cols = append(cols, name)
	}
	if len(cols) == 1 {
		return cols[0], nil
	}
	out := ctx.b.Node(onnx.DomainONNX, "Concat", cols, nil, onnx.IntAttr("axis", 1))
	return out[0], nil
}

// inputElemType maps a schema element type onto the graph type system.
func inputElemType(t schema.ElementType) (int32, error) {
	switch t {
	case schema.Float32:
		return onnx.ElemFloat, nil
	case schema.Float64:
		return onnx.ElemDouble, nil
	case schema.Int32:
		return onnx.ElemInt32, nil
	case schema.Int64:
		return onnx.ElemInt64, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFeatureType, t)
	}
}

func stageList(m source.Model) []source.Model {
	if p, ok := m.(*source.Pipeline); ok {
		return p.Stages
	}
	return []source.Model{m}
}

func isClassifier(m source.Model) bool {
	return m.Kind() == source.KindLogisticRegression
}
