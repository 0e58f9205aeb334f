package convert

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/kiln-ml/kiln/internal/onnx"
)

// plainModel builds a small default-domain model touching every place
// float32 can appear: an initializer, a Cast target, a tensor-valued
// attribute, and the value infos.
func plainModel(t *testing.T) *onnx.ModelProto {
	t.Helper()
	b := onnx.NewGraphBuilder("plain")
	batch := onnx.SymbolicDim("N")
	b.Input("x", onnx.ElemFloat, batch, onnx.Dim(2))
	b.Input("idx", onnx.ElemInt64, batch, onnx.Dim(2))
	b.Initializer(onnx.FloatTensor("w", []int64{2}, []float32{0.5, -1.5}))

	sum := b.Node(onnx.DomainONNX, "Add", []string{"x", "w"}, nil)
	cast := b.Node(onnx.DomainONNX, "Cast", []string{"idx"}, nil,
		onnx.IntAttr("to", onnx.ElemFloat))
	bias := b.Node(onnx.DomainONNX, "Constant", nil, nil,
		onnx.TensorAttr("value", onnx.FloatTensor("", []int64{1}, []float32{3})))
	prod := b.Node(onnx.DomainONNX, "Mul", []string{sum[0], cast[0]}, nil)
	b.Node(onnx.DomainONNX, "Add", []string{prod[0], bias[0]}, []string{"y"})
	b.Output("y", onnx.ElemFloat, batch, onnx.Dim(2))

	g, err := b.Build()
	require.NoError(t, err)
	return &onnx.ModelProto{
		IRVersion:   onnx.IRVersion,
		Graph:       g,
		OpsetImport: []onnx.OperatorSetID{{Domain: onnx.DomainONNX, Version: onnx.OpsetVersion}},
	}
}

func TestToFloat16Narrows(t *testing.T) {
	m := plainModel(t)
	half, err := ToFloat16(m)
	require.NoError(t, err)
	g := half.Graph

	w := g.Initializer("w")
	require.NotNil(t, w)
	assert.Equal(t, int32(onnx.ElemFloat16), w.DataType)
	assert.Empty(t, w.FloatData)
	require.Len(t, w.RawData, 4)
	assert.Equal(t, float16.Fromfloat32(0.5).Bits(), binary.LittleEndian.Uint16(w.RawData[0:2]))
	assert.Equal(t, float16.Fromfloat32(-1.5).Bits(), binary.LittleEndian.Uint16(w.RawData[2:4]))

	assert.Equal(t, int32(onnx.ElemFloat16), g.Inputs[0].ElemType())
	assert.Equal(t, int32(onnx.ElemInt64), g.Inputs[1].ElemType(), "integer inputs stay put")
	assert.Equal(t, int32(onnx.ElemFloat16), g.Outputs[0].ElemType())

	assert.Equal(t, int64(onnx.ElemFloat16), g.Node("Cast").Attr("to").I)

	val := g.Node("Constant").Attr("value").T
	require.NotNil(t, val)
	assert.Equal(t, int32(onnx.ElemFloat16), val.DataType)
	require.Len(t, val.RawData, 2)
	assert.Equal(t, float16.Fromfloat32(3).Bits(), binary.LittleEndian.Uint16(val.RawData))
}

// TestToFloat16LeavesOriginal checks the conversion works on a copy.
func TestToFloat16LeavesOriginal(t *testing.T) {
	m := plainModel(t)
	_, err := ToFloat16(m)
	require.NoError(t, err)

	g := m.Graph
	assert.Equal(t, int32(onnx.ElemFloat), g.Initializer("w").DataType)
	assert.Equal(t, []float32{0.5, -1.5}, g.Initializer("w").FloatData)
	assert.Equal(t, int32(onnx.ElemFloat), g.Inputs[0].ElemType())
	assert.Equal(t, int64(onnx.ElemFloat), g.Node("Cast").Attr("to").I)
	assert.Equal(t, int32(onnx.ElemFloat), g.Node("Constant").Attr("value").T.DataType)
}

func TestToFloat16Subgraphs(t *testing.T) {
	sub := onnx.GraphProto{
		Name:         "branch",
		Initializers: []onnx.TensorProto{onnx.FloatTensor("k", []int64{1}, []float32{1})},
	}
	b := onnx.NewGraphBuilder("outer")
	b.Input("cond", onnx.ElemBool)
	b.Node(onnx.DomainONNX, "If", []string{"cond"}, []string{"y"},
		onnx.AttributeProto{Name: "then_branch", Type: onnx.AttrGraph, G: &sub},
		onnx.AttributeProto{Name: "else_branch", Type: onnx.AttrGraph, G: &sub})
	b.Output("y", onnx.ElemFloat)
	g, err := b.Build()
	require.NoError(t, err)

	half, err := ToFloat16(&onnx.ModelProto{IRVersion: onnx.IRVersion, Graph: g})
	require.NoError(t, err)
	for _, name := range []string{"then_branch", "else_branch"} {
		branch := half.Graph.Node("If").Attr(name).G
		require.NotNil(t, branch, name)
		assert.Equal(t, int32(onnx.ElemFloat16), branch.Initializers[0].DataType, name)
	}
}

// TestToFloat16RejectsMLGraphs checks that converter output, which
// always uses ai.onnx.ml operators, cannot be narrowed.
func TestToFloat16RejectsMLGraphs(t *testing.T) {
	m, err := Convert(scalerModel(), floatSchema(3))
	require.NoError(t, err)

	_, err = ToFloat16(m)
	assert.ErrorIs(t, err, ErrHalfUnsupported)
}

func TestToFloat16NoGraph(t *testing.T) {
	_, err := ToFloat16(nil)
	require.Error(t, err)
	_, err = ToFloat16(&onnx.ModelProto{})
	require.Error(t, err)
}
