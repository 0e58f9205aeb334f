package onnx

import (
	"errors"
	"fmt"
	"strings"
)

// Graph construction errors.
var (
	ErrCycle         = errors.New("graph contains a cycle")
	ErrUnknownInput  = errors.New("node input references unknown value")
	ErrUnknownOutput = errors.New("graph output references unknown value")
)

// GraphBuilder accumulates inputs, nodes, initializers and outputs and
// assembles them into a validated GraphProto. Values are referenced by
// name; the builder hands out unique generated names for intermediate
// values so callers only name what they expose.
//
// Not safe for concurrent use. Use NewGraphBuilder, not the zero value.
type GraphBuilder struct {
	name         string
	nodes        []NodeProto
	inputs       []ValueInfoProto
	outputs      []ValueInfoProto
	initializers []TensorProto
	seq          map[string]int
}

// NewGraphBuilder returns a builder for a graph with the given name.
func NewGraphBuilder(name string) *GraphBuilder {
	return &GraphBuilder{name: name, seq: make(map[string]int)}
}

// fresh returns a value name unique within this builder.
func (b *GraphBuilder) fresh(prefix string) string {
	n := b.seq[prefix]
	b.seq[prefix] = n + 1
	return fmt.Sprintf("%s_%d", prefix, n)
}

// Input declares a graph input and returns its name.
func (b *GraphBuilder) Input(name string, elemType int32, dims ...DimensionProto) string {
	b.inputs = append(b.inputs, ValueInfo(name, elemType, dims...))
	return name
}

// Output declares a graph output. The named value must exist by Build
// time: produced by a node, or one of the inputs or initializers.
func (b *GraphBuilder) Output(name string, elemType int32, dims ...DimensionProto) string {
	b.outputs = append(b.outputs, ValueInfo(name, elemType, dims...))
	return name
}

// Initializer registers a constant tensor under t.Name, generating a
// name when t carries none. Returns the registered name.
func (b *GraphBuilder) Initializer(t TensorProto) string {
	if t.Name == "" {
		t.Name = b.fresh("const")
	}
	b.initializers = append(b.initializers, t)
	return t.Name
}

// Node appends an operation node. Empty entries in outputs are replaced
// with generated names; passing nil outputs declares a single generated
// output. Returns the resolved output names.
func (b *GraphBuilder) Node(domain, opType string, inputs, outputs []string, attrs ...AttributeProto) []string {
	if len(outputs) == 0 {
		outputs = []string{""}
	}
	outs := make([]string, len(outputs))
	for i, o := range outputs {
		if o == "" {
			o = b.fresh(strings.ToLower(opType))
		}
		outs[i] = o
	}
	b.nodes = append(b.nodes, NodeProto{
		Name:       b.fresh(opType),
		OpType:     opType,
		Domain:     domain,
		Inputs:     append([]string(nil), inputs...),
		Outputs:    outs,
		Attributes: attrs,
	})
	return outs
}

// Build validates the accumulated graph and returns it with nodes in
// topological order. It checks that every value name is defined once,
// every node input resolves to an input, initializer or node output,
// every declared graph output exists, and the node dependencies are
// acyclic.
func (b *GraphBuilder) Build() (*GraphProto, error) {
	defined := make(map[string]bool, len(b.inputs)+len(b.initializers))
	for _, in := range b.inputs {
		if defined[in.Name] {
			return nil, fmt.Errorf("graph %q: duplicate input %q", b.name, in.Name)
		}
		defined[in.Name] = true
	}
	for _, t := range b.initializers {
		// An initializer may share an input's name: it then serves as
		// that input's default value.
		defined[t.Name] = true
	}

	producer := make(map[string]int, len(b.nodes))
	for i, nd := range b.nodes {
		for _, o := range nd.Outputs {
			if o == "" {
				continue
			}
			if defined[o] {
				return nil, fmt.Errorf("graph %q: node %q redefines value %q", b.name, nd.Name, o)
			}
			if j, ok := producer[o]; ok {
				return nil, fmt.Errorf("graph %q: nodes %q and %q both produce %q",
					b.name, b.nodes[j].Name, nd.Name, o)
			}
			producer[o] = i
		}
	}

	adj := make([][]int, len(b.nodes))
	indeg := make([]int, len(b.nodes))
	for i, nd := range b.nodes {
		for _, in := range nd.Inputs {
			if in == "" || defined[in] {
				continue
			}
			j, ok := producer[in]
			if !ok {
				return nil, fmt.Errorf("graph %q: node %q (%s): %q: %w",
					b.name, nd.Name, nd.OpType, in, ErrUnknownInput)
			}
			adj[j] = append(adj[j], i)
			indeg[i]++
		}
	}

	order := make([]int, 0, len(b.nodes))
	queue := make([]int, 0, len(b.nodes))
	for i := range b.nodes {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, j := range adj[i] {
			if indeg[j]--; indeg[j] == 0 {
				queue = append(queue, j)
			}
		}
	}
	if len(order) != len(b.nodes) {
		return nil, fmt.Errorf("graph %q: %w", b.name, ErrCycle)
	}

	for _, out := range b.outputs {
		if _, ok := producer[out.Name]; !ok && !defined[out.Name] {
			return nil, fmt.Errorf("graph %q: %q: %w", b.name, out.Name, ErrUnknownOutput)
		}
	}

	nodes := make([]NodeProto, len(order))
	for k, i := range order {
		nodes[k] = b.nodes[i]
	}
	return &GraphProto{
		Name:         b.name,
		Nodes:        nodes,
		Inputs:       append([]ValueInfoProto(nil), b.inputs...),
		Outputs:      append([]ValueInfoProto(nil), b.outputs...),
		Initializers: append([]TensorProto(nil), b.initializers...),
	}, nil
}

// Dim returns a fixed dimension.
func Dim(v int64) DimensionProto {
	return DimensionProto{DimValue: v}
}

// SymbolicDim returns a named symbolic dimension, e.g. the batch axis.
func SymbolicDim(name string) DimensionProto {
	return DimensionProto{DimParam: name}
}

// ValueInfo builds a tensor-typed value description.
func ValueInfo(name string, elemType int32, dims ...DimensionProto) ValueInfoProto {
	return ValueInfoProto{
		Name: name,
		Type: &TypeProto{
			TensorType: &TensorTypeProto{
				ElemType: elemType,
				Shape:    &TensorShapeProto{Dims: dims},
			},
		},
	}
}

// FloatTensor builds a float32 constant tensor.
func FloatTensor(name string, dims []int64, data []float32) TensorProto {
	return TensorProto{Name: name, DataType: ElemFloat, Dims: dims, FloatData: data}
}

// Int64Tensor builds an int64 constant tensor.
func Int64Tensor(name string, dims []int64, data []int64) TensorProto {
	return TensorProto{Name: name, DataType: ElemInt64, Dims: dims, Int64Data: data}
}

// FloatAttr builds a FLOAT attribute.
func FloatAttr(name string, v float32) AttributeProto {
	return AttributeProto{Name: name, Type: AttrFloat, F: v}
}

// IntAttr builds an INT attribute.
func IntAttr(name string, v int64) AttributeProto {
	return AttributeProto{Name: name, Type: AttrInt, I: v}
}

// StringAttr builds a STRING attribute.
func StringAttr(name, v string) AttributeProto {
	return AttributeProto{Name: name, Type: AttrString, S: []byte(v)}
}

// FloatsAttr builds a FLOATS attribute.
func FloatsAttr(name string, v []float32) AttributeProto {
	return AttributeProto{Name: name, Type: AttrFloats, Floats: v}
}

// IntsAttr builds an INTS attribute.
func IntsAttr(name string, v []int64) AttributeProto {
	return AttributeProto{Name: name, Type: AttrInts, Ints: v}
}

// StringsAttr builds a STRINGS attribute.
func StringsAttr(name string, v []string) AttributeProto {
	bs := make([][]byte, len(v))
	for i, s := range v {
		bs[i] = []byte(s)
	}
	return AttributeProto{Name: name, Type: AttrStrings, Strings: bs}
}

// TensorAttr builds a TENSOR attribute.
func TensorAttr(name string, t TensorProto) AttributeProto {
	return AttributeProto{Name: name, Type: AttrTensor, T: &t}
}
