package onnx

import (
	internalonnx "github.com/kiln-ml/kiln/internal/onnx"
)

// Type aliases for public API

// ModelProto is the top-level ONNX model container. Accessors such as
// OpsetVersion and Metadata cover the common lookups.
type ModelProto = internalonnx.ModelProto

// GraphProto is the computation graph: nodes in topological order plus
// the named values flowing between them.
type GraphProto = internalonnx.GraphProto

// NodeProto is a single operation in the graph.
type NodeProto = internalonnx.NodeProto

// TensorProto holds constant tensor data such as initializers.
type TensorProto = internalonnx.TensorProto

// ValueInfoProto names and types one graph value.
type ValueInfoProto = internalonnx.ValueInfoProto

// TypeProto describes a value's type.
type TypeProto = internalonnx.TypeProto

// TensorTypeProto is a tensor's element type and shape.
type TensorTypeProto = internalonnx.TensorTypeProto

// TensorShapeProto lists dimensions.
type TensorShapeProto = internalonnx.TensorShapeProto

// DimensionProto is one dimension, fixed or symbolic.
type DimensionProto = internalonnx.DimensionProto

// AttributeProto is a named node attribute.
type AttributeProto = internalonnx.AttributeProto

// OperatorSetID pins one operator domain to a version.
type OperatorSetID = internalonnx.OperatorSetID

// StringStringEntry is one metadata key-value pair.
type StringStringEntry = internalonnx.StringStringEntry

// GraphBuilder accumulates inputs, nodes, initializers and outputs and
// assembles them into a validated GraphProto.
type GraphBuilder = internalonnx.GraphBuilder

// NewGraphBuilder returns a builder for a graph with the given name.
func NewGraphBuilder(name string) *GraphBuilder {
	return internalonnx.NewGraphBuilder(name)
}

// Dim returns a fixed dimension.
func Dim(v int64) DimensionProto { return internalonnx.Dim(v) }

// SymbolicDim returns a named symbolic dimension, e.g. the batch axis.
func SymbolicDim(name string) DimensionProto { return internalonnx.SymbolicDim(name) }

// ValueInfo builds a tensor-typed value description.
func ValueInfo(name string, elemType int32, dims ...DimensionProto) ValueInfoProto {
	return internalonnx.ValueInfo(name, elemType, dims...)
}

// FloatTensor builds a float32 constant tensor.
func FloatTensor(name string, dims []int64, data []float32) TensorProto {
	return internalonnx.FloatTensor(name, dims, data)
}

// Int64Tensor builds an int64 constant tensor.
func Int64Tensor(name string, dims []int64, data []int64) TensorProto {
	return internalonnx.Int64Tensor(name, dims, data)
}

// Attribute constructors.

// FloatAttr builds a FLOAT attribute.
func FloatAttr(name string, v float32) AttributeProto { return internalonnx.FloatAttr(name, v) }

// IntAttr builds an INT attribute.
func IntAttr(name string, v int64) AttributeProto { return internalonnx.IntAttr(name, v) }

// StringAttr builds a STRING attribute.
func StringAttr(name, v string) AttributeProto { return internalonnx.StringAttr(name, v) }

// FloatsAttr builds a FLOATS attribute.
func FloatsAttr(name string, v []float32) AttributeProto { return internalonnx.FloatsAttr(name, v) }

// IntsAttr builds an INTS attribute.
func IntsAttr(name string, v []int64) AttributeProto { return internalonnx.IntsAttr(name, v) }

// StringsAttr builds a STRINGS attribute.
func StringsAttr(name string, v []string) AttributeProto { return internalonnx.StringsAttr(name, v) }

// TensorAttr builds a TENSOR attribute.
func TensorAttr(name string, t TensorProto) AttributeProto { return internalonnx.TensorAttr(name, t) }
