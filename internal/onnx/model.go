package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// OpsetVersion returns the imported opset version for the given domain,
// or 0 when the domain is not imported.
func (m *ModelProto) OpsetVersion(domain string) int64 {
	for _, op := range m.OpsetImport {
		if op.Domain == domain {
			return op.Version
		}
	}
	return 0
}

// Metadata returns the metadata_props value for key.
func (m *ModelProto) Metadata(key string) (string, bool) {
	for _, kv := range m.MetadataProps {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Initializer returns the named initializer, or nil.
func (g *GraphProto) Initializer(name string) *TensorProto {
	for i := range g.Initializers {
		if g.Initializers[i].Name == name {
			return &g.Initializers[i]
		}
	}
	return nil
}

// Node returns the first node with the given op type, or nil. Handy for
// inspecting small graphs.
func (g *GraphProto) Node(opType string) *NodeProto {
	for i := range g.Nodes {
		if g.Nodes[i].OpType == opType {
			return &g.Nodes[i]
		}
	}
	return nil
}

// InputNames returns the graph input names in declaration order.
func (g *GraphProto) InputNames() []string {
	names := make([]string, len(g.Inputs))
	for i, vi := range g.Inputs {
		names[i] = vi.Name
	}
	return names
}

// OutputNames returns the graph output names in declaration order.
func (g *GraphProto) OutputNames() []string {
	names := make([]string, len(g.Outputs))
	for i, vi := range g.Outputs {
		names[i] = vi.Name
	}
	return names
}

// HasDomain reports whether any node belongs to the given operator
// domain.
func (g *GraphProto) HasDomain(domain string) bool {
	for i := range g.Nodes {
		if g.Nodes[i].Domain == domain {
			return true
		}
	}
	return false
}

// Attr returns the named attribute, or nil.
func (nd *NodeProto) Attr(name string) *AttributeProto {
	for i := range nd.Attributes {
		if nd.Attributes[i].Name == name {
			return &nd.Attributes[i]
		}
	}
	return nil
}

// ElemType returns the tensor element type of the value, or
// ElemUndefined when the value carries no tensor type.
func (vi *ValueInfoProto) ElemType() int32 {
	if vi.Type == nil || vi.Type.TensorType == nil {
		return ElemUndefined
	}
	return vi.Type.TensorType.ElemType
}

// Dims returns the value's shape, or nil when it carries none.
func (vi *ValueInfoProto) Dims() []DimensionProto {
	if vi.Type == nil || vi.Type.TensorType == nil || vi.Type.TensorType.Shape == nil {
		return nil
	}
	return vi.Type.TensorType.Shape.Dims
}

// ElementCount returns the number of elements implied by Dims.
func (t *TensorProto) ElementCount() int64 {
	n := int64(1)
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// Float32Values returns the tensor's float32 payload, decoding RawData
// when the typed field is empty.
func (t *TensorProto) Float32Values() ([]float32, error) {
	if t.DataType != ElemFloat {
		return nil, fmt.Errorf("tensor %q: element type %s, want float32",
			t.Name, ElemTypeName(t.DataType))
	}
	if len(t.FloatData) > 0 {
		return t.FloatData, nil
	}
	if len(t.RawData)%4 != 0 {
		return nil, fmt.Errorf("tensor %q: raw data length %d not a multiple of 4",
			t.Name, len(t.RawData))
	}
	vals := make([]float32, len(t.RawData)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.RawData[i*4:]))
	}
	return vals, nil
}

// Int64Values returns the tensor's int64 payload, decoding RawData when
// the typed field is empty.
func (t *TensorProto) Int64Values() ([]int64, error) {
	if t.DataType != ElemInt64 {
		return nil, fmt.Errorf("tensor %q: element type %s, want int64",
			t.Name, ElemTypeName(t.DataType))
	}
	if len(t.Int64Data) > 0 {
		return t.Int64Data, nil
	}
	if len(t.RawData)%8 != 0 {
		return nil, fmt.Errorf("tensor %q: raw data length %d not a multiple of 8",
			t.Name, len(t.RawData))
	}
	vals := make([]int64, len(t.RawData)/8)
	for i := range vals {
		vals[i] = int64(binary.LittleEndian.Uint64(t.RawData[i*8:]))
	}
	return vals, nil
}
