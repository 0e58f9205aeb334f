// Package onnx reads, writes, and assembles ONNX models for the Kiln
// converter.
//
// The package carries a hand-written protobuf codec for the subset of
// onnx.proto3 a converter needs, plus a GraphBuilder that validates
// value wiring and emits nodes in topological order.
//
// # Reading and Writing
//
//	import "github.com/kiln-ml/kiln/onnx"
//
//	model, err := onnx.Load("model.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(model.ProducerName, model.OpsetVersion(onnx.DomainONNX))
//
//	if err := onnx.Save(model, "copy.onnx"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Building Graphs
//
//	b := onnx.NewGraphBuilder("model")
//	b.Input("x", onnx.ElemFloat, onnx.SymbolicDim("N"), onnx.Dim(3))
//	b.Node(onnx.DomainONNX, "Relu", []string{"x"}, []string{"y"})
//	b.Output("y", onnx.ElemFloat, onnx.SymbolicDim("N"), onnx.Dim(3))
//	graph, err := b.Build()
//
// Nodes may be appended in any order; Build sorts them and rejects
// cycles, unknown value references, and redefined names.
package onnx

import (
	internalonnx "github.com/kiln-ml/kiln/internal/onnx"
)

// Load reads and parses an ONNX model file.
func Load(path string) (*ModelProto, error) {
	return internalonnx.Load(path)
}

// Parse decodes a serialized ModelProto.
//
// Unknown fields are skipped, so models produced by other tools parse
// cleanly; only the fields modeled here survive a rewrite.
func Parse(data []byte) (*ModelProto, error) {
	return internalonnx.Parse(data)
}

// Marshal serializes the model to ONNX protobuf bytes.
func Marshal(m *ModelProto) []byte {
	return internalonnx.Marshal(m)
}

// Save writes the model to path in ONNX protobuf format.
func Save(m *ModelProto, path string) error {
	return internalonnx.Save(m, path)
}

// ErrTruncated reports a payload that ended mid-field.
var ErrTruncated = internalonnx.ErrTruncated

// Graph construction errors returned by GraphBuilder.Build.
var (
	ErrCycle         = internalonnx.ErrCycle
	ErrUnknownInput  = internalonnx.ErrUnknownInput
	ErrUnknownOutput = internalonnx.ErrUnknownOutput
)

// Operator domains.
const (
	DomainONNX   = internalonnx.DomainONNX
	DomainONNXML = internalonnx.DomainONNXML
)

// Format versions emitted by this package.
const (
	IRVersion      = internalonnx.IRVersion
	OpsetVersion   = internalonnx.OpsetVersion
	OpsetMLVersion = internalonnx.OpsetMLVersion
)

// Tensor element types (TensorProto.DataType, TensorTypeProto.ElemType).
const (
	ElemUndefined = internalonnx.ElemUndefined
	ElemFloat     = internalonnx.ElemFloat
	ElemUint8     = internalonnx.ElemUint8
	ElemInt8      = internalonnx.ElemInt8
	ElemUint16    = internalonnx.ElemUint16
	ElemInt16     = internalonnx.ElemInt16
	ElemInt32     = internalonnx.ElemInt32
	ElemInt64     = internalonnx.ElemInt64
	ElemString    = internalonnx.ElemString
	ElemBool      = internalonnx.ElemBool
	ElemFloat16   = internalonnx.ElemFloat16
	ElemDouble    = internalonnx.ElemDouble
)

// ElemTypeName returns a readable name for an element type constant.
func ElemTypeName(t int32) string {
	return internalonnx.ElemTypeName(t)
}

// Attribute types (AttributeProto.Type).
const (
	AttrFloat   = internalonnx.AttrFloat
	AttrInt     = internalonnx.AttrInt
	AttrString  = internalonnx.AttrString
	AttrTensor  = internalonnx.AttrTensor
	AttrGraph   = internalonnx.AttrGraph
	AttrFloats  = internalonnx.AttrFloats
	AttrInts    = internalonnx.AttrInts
	AttrStrings = internalonnx.AttrStrings
	AttrTensors = internalonnx.AttrTensors
	AttrGraphs  = internalonnx.AttrGraphs
)
