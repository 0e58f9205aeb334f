package convert

import (
	"fmt"

	"github.com/kiln-ml/kiln/internal/onnx"
	"github.com/kiln-ml/kiln/internal/source"
)

// emitCtx carries graph assembly state across stage emitters.
type emitCtx struct {
	b      *onnx.GraphBuilder
	batch  onnx.DimensionProto
	usesML bool
}

// An emitter appends the operators computing one stage. input names the
// float32 feature matrix the stage consumes. The returned string names
// the stage's output matrix; it is empty when the stage declared the
// graph outputs itself, which every emitter does for the last stage.
type emitter func(ctx *emitCtx, st source.Model, input string, last bool) (string, error)

var emitters = map[string]emitter{
	source.KindStandardScaler:     emitStandardScaler,
	source.KindMinMaxScaler:       emitMinMaxScaler,
	source.KindLinearRegression:   emitLinearRegression,
	source.KindLogisticRegression: emitLogisticRegression,
	source.KindOneHotEncoder:      emitOneHotEncoder,
}

// Names given to final graph outputs.
const (
	outputName = "output"
	labelName  = "label"
	scoresName = "scores"
)

func finalOuts(last bool) []string {
	if last {
		return []string{outputName}
	}
	return nil
}

// closeStage declares the graph output for a last stage and returns the
// value emitters hand back to the conversion loop.
func (ctx *emitCtx) closeStage(name string, last bool, width int) string {
	if !last {
		return name
	}
	ctx.b.Output(name, onnx.ElemFloat, ctx.batch, onnx.Dim(int64(width)))
	return ""
}

func emitStandardScaler(ctx *emitCtx, st source.Model, input string, last bool) (string, error) {
	s, ok := st.(*source.StandardScaler)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrUnknownStage, st.Kind(), st)
	}
	// Scaler computes (x - offset) * scale.
	scale := make([]float32, len(s.Std))
	for i, v := range s.Std {
		scale[i] = 1 / v
	}
	ctx.usesML = true
	out := ctx.b.Node(onnx.DomainONNXML, "Scaler", []string{input}, finalOuts(last),
		onnx.FloatsAttr("offset", s.Mean),
		onnx.FloatsAttr("scale", scale))
	return ctx.closeStage(out[0], last, s.OutputWidth()), nil
}

func emitMinMaxScaler(ctx *emitCtx, st source.Model, input string, last bool) (string, error) {
	s, ok := st.(*source.MinMaxScaler)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrUnknownStage, st.Kind(), st)
	}
	// x*scale + min rewritten as (x - (-min/scale)) * scale.
	offset := make([]float32, len(s.Min))
	for i := range offset {
		offset[i] = -s.Min[i] / s.Scale[i]
	}
	ctx.usesML = true
	out := ctx.b.Node(onnx.DomainONNXML, "Scaler", []string{input}, finalOuts(last),
		onnx.FloatsAttr("offset", offset),
		onnx.FloatsAttr("scale", s.Scale))
	return ctx.closeStage(out[0], last, s.OutputWidth()), nil
}

func emitLinearRegression(ctx *emitCtx, st source.Model, input string, last bool) (string, error) {
	m, ok := st.(*source.LinearRegression)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrUnknownStage, st.Kind(), st)
	}
	ctx.usesML = true
	out := ctx.b.Node(onnx.DomainONNXML, "LinearRegressor", []string{input}, finalOuts(last),
		onnx.FloatsAttr("coefficients", flattenRows(m.Weights)),
		onnx.FloatsAttr("intercepts", m.Intercepts),
		onnx.IntAttr("targets", int64(len(m.Weights))))
	return ctx.closeStage(out[0], last, m.OutputWidth()), nil
}

func emitLogisticRegression(ctx *emitCtx, st source.Model, input string, last bool) (string, error) {
	m, ok := st.(*source.LogisticRegression)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrUnknownStage, st.Kind(), st)
	}
	weights, intercepts := m.Weights, m.Intercepts
	post := "SOFTMAX"
	if len(weights) == 1 {
		// A binary model carries one decision row; mirror it so the
		// classifier scores both classes.
		weights = [][]float32{negated(weights[0]), weights[0]}
		intercepts = []float32{-intercepts[0], intercepts[0]}
		post = "LOGISTIC"
	}
	ctx.usesML = true
	outs := ctx.b.Node(onnx.DomainONNXML, "LinearClassifier", []string{input},
		[]string{labelName, scoresName},
		onnx.FloatsAttr("coefficients", flattenRows(weights)),
		onnx.FloatsAttr("intercepts", intercepts),
		onnx.IntsAttr("classlabels_ints", m.Classes),
		onnx.StringAttr("post_transform", post))
	ctx.b.Output(outs[0], onnx.ElemInt64, ctx.batch)
	ctx.b.Output(outs[1], onnx.ElemFloat, ctx.batch, onnx.Dim(int64(len(m.Classes))))
	return "", nil
}

func emitOneHotEncoder(ctx *emitCtx, st source.Model, input string, last bool) (string, error) {
	e, ok := st.(*source.OneHotEncoder)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrUnknownStage, st.Kind(), st)
	}
	ctx.usesML = true
	multi := len(e.Categories) > 1

	cols := make([]string, len(e.Categories))
	for i, cats := range e.Categories {
		col := input
		if multi {
			start := ctx.b.Initializer(onnx.Int64Tensor("", []int64{1}, []int64{int64(i)}))
			end := ctx.b.Initializer(onnx.Int64Tensor("", []int64{1}, []int64{int64(i) + 1}))
			axes := ctx.b.Initializer(onnx.Int64Tensor("", []int64{1}, []int64{1}))
			col = ctx.b.Node(onnx.DomainONNX, "Slice",
				[]string{input, start, end, axes}, nil)[0]
		}
		// OneHotEncoder appends the indicator axis; Flatten folds it
		// back into the feature axis.
		hot := ctx.b.Node(onnx.DomainONNXML, "OneHotEncoder", []string{col}, nil,
			onnx.IntsAttr("cats_int64s", cats),
			onnx.IntAttr("zeros", 1))
		flatOuts := []string(nil)
		if !multi {
			flatOuts = finalOuts(last)
		}
		cols[i] = ctx.b.Node(onnx.DomainONNX, "Flatten", hot, flatOuts,
			onnx.IntAttr("axis", 1))[0]
	}

	result := cols[0]
	if multi {
		result = ctx.b.Node(onnx.DomainONNX, "Concat", cols, finalOuts(last),
			onnx.IntAttr("axis", 1))[0]
	}
	return ctx.closeStage(result, last, e.OutputWidth()), nil
}

func flattenRows(rows [][]float32) []float32 {
	if len(rows) == 0 {
		return nil
	}
	flat := make([]float32, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		flat = append(flat, r...)
	}
	return flat
}

func negated(row []float32) []float32 {
	out := make([]float32, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}
