package onnx

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal serializes the model to protobuf wire bytes. Fields are
// emitted in field-number order so equal models marshal identically.
func Marshal(m *ModelProto) []byte {
	return appendModel(nil, m)
}

// Save writes the serialized model to path.
func Save(m *ModelProto, path string) error {
	if err := os.WriteFile(path, Marshal(m), 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func appendModel(b []byte, m *ModelProto) []byte {
	b = appendVarintField(b, 1, m.IRVersion)
	b = appendStringField(b, 2, m.ProducerName)
	b = appendStringField(b, 3, m.ProducerVersion)
	b = appendStringField(b, 4, m.Domain)
	b = appendVarintField(b, 5, m.ModelVersion)
	b = appendStringField(b, 6, m.DocString)
	if m.Graph != nil {
		b = appendMessage(b, 7, appendGraph(nil, m.Graph))
	}
	for _, op := range m.OpsetImport {
		b = appendMessage(b, 8, appendOperatorSetID(nil, op))
	}
	for _, kv := range m.MetadataProps {
		b = appendMessage(b, 14, appendStringStringEntry(nil, kv))
	}
	return b
}

func appendGraph(b []byte, g *GraphProto) []byte {
	for i := range g.Nodes {
		b = appendMessage(b, 1, appendNode(nil, &g.Nodes[i]))
	}
	b = appendStringField(b, 2, g.Name)
	for i := range g.Initializers {
		b = appendMessage(b, 5, appendTensor(nil, &g.Initializers[i]))
	}
	b = appendStringField(b, 10, g.DocString)
	for i := range g.Inputs {
		b = appendMessage(b, 11, appendValueInfo(nil, &g.Inputs[i]))
	}
	for i := range g.Outputs {
		b = appendMessage(b, 12, appendValueInfo(nil, &g.Outputs[i]))
	}
	for i := range g.ValueInfo {
		b = appendMessage(b, 13, appendValueInfo(nil, &g.ValueInfo[i]))
	}
	return b
}

func appendNode(b []byte, nd *NodeProto) []byte {
	// Empty input names are positional placeholders for omitted
	// optional inputs and must be encoded.
	for _, s := range nd.Inputs {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	for _, s := range nd.Outputs {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	b = appendStringField(b, 3, nd.Name)
	b = appendStringField(b, 4, nd.OpType)
	for i := range nd.Attributes {
		b = appendMessage(b, 5, appendAttribute(nil, &nd.Attributes[i]))
	}
	b = appendStringField(b, 6, nd.DocString)
	b = appendStringField(b, 7, nd.Domain)
	return b
}

func appendTensor(b []byte, t *TensorProto) []byte {
	if len(t.Dims) > 0 {
		var packed []byte
		for _, d := range t.Dims {
			packed = protowire.AppendVarint(packed, uint64(d))
		}
		b = appendMessage(b, 1, packed)
	}
	b = appendVarintField(b, 2, int64(t.DataType))
	if len(t.FloatData) > 0 {
		b = appendMessage(b, 4, appendPackedFloats(nil, t.FloatData))
	}
	if len(t.Int32Data) > 0 {
		var packed []byte
		for _, v := range t.Int32Data {
			packed = protowire.AppendVarint(packed, uint64(int64(v)))
		}
		b = appendMessage(b, 5, packed)
	}
	if len(t.Int64Data) > 0 {
		var packed []byte
		for _, v := range t.Int64Data {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		b = appendMessage(b, 7, packed)
	}
	b = appendStringField(b, 8, t.Name)
	if len(t.RawData) > 0 {
		b = protowire.AppendTag(b, 9, protowire.BytesType)
		b = protowire.AppendBytes(b, t.RawData)
	}
	b = appendStringField(b, 12, t.DocString)
	return b
}

func appendValueInfo(b []byte, vi *ValueInfoProto) []byte {
	b = appendStringField(b, 1, vi.Name)
	if vi.Type != nil {
		b = appendMessage(b, 2, appendType(nil, vi.Type))
	}
	b = appendStringField(b, 3, vi.DocString)
	return b
}

func appendType(b []byte, t *TypeProto) []byte {
	if t.TensorType != nil {
		b = appendMessage(b, 1, appendTensorType(nil, t.TensorType))
	}
	return b
}

func appendTensorType(b []byte, t *TensorTypeProto) []byte {
	b = appendVarintField(b, 1, int64(t.ElemType))
	if t.Shape != nil {
		b = appendMessage(b, 2, appendShape(nil, t.Shape))
	}
	return b
}

func appendShape(b []byte, s *TensorShapeProto) []byte {
	for _, d := range s.Dims {
		b = appendMessage(b, 1, appendDimension(nil, d))
	}
	return b
}

func appendDimension(b []byte, d DimensionProto) []byte {
	// dim_value and dim_param form a oneof; a fixed extent of zero is
	// still encoded explicitly.
	if d.DimParam != "" {
		return appendStringField(b, 2, d.DimParam)
	}
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(d.DimValue))
}

func appendAttribute(b []byte, a *AttributeProto) []byte {
	b = appendStringField(b, 1, a.Name)
	// The typed payload is encoded explicitly even when zero-valued;
	// readers select the field by a.Type.
	switch a.Type {
	case AttrFloat:
		b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(a.F))
	case AttrInt:
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a.I))
	case AttrString:
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, a.S)
	case AttrTensor:
		if a.T != nil {
			b = appendMessage(b, 5, appendTensor(nil, a.T))
		}
	case AttrGraph:
		if a.G != nil {
			b = appendMessage(b, 6, appendGraph(nil, a.G))
		}
	case AttrFloats:
		b = appendMessage(b, 7, appendPackedFloats(nil, a.Floats))
	case AttrInts:
		var packed []byte
		for _, v := range a.Ints {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
		b = appendMessage(b, 8, packed)
	case AttrStrings:
		for _, s := range a.Strings {
			b = protowire.AppendTag(b, 9, protowire.BytesType)
			b = protowire.AppendBytes(b, s)
		}
	case AttrTensors:
		for i := range a.Tensors {
			b = appendMessage(b, 10, appendTensor(nil, &a.Tensors[i]))
		}
	case AttrGraphs:
		for i := range a.Graphs {
			b = appendMessage(b, 11, appendGraph(nil, &a.Graphs[i]))
		}
	}
	b = appendStringField(b, 13, a.DocString)
	b = appendVarintField(b, 20, int64(a.Type))
	return b
}

func appendOperatorSetID(b []byte, op OperatorSetID) []byte {
	b = appendStringField(b, 1, op.Domain)
	b = appendVarintField(b, 2, op.Version)
	return b
}

func appendStringStringEntry(b []byte, kv StringStringEntry) []byte {
	b = appendStringField(b, 1, kv.Key)
	b = appendStringField(b, 2, kv.Value)
	return b
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarintField(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendPackedFloats(b []byte, vals []float32) []byte {
	for _, f := range vals {
		b = protowire.AppendFixed32(b, math.Float32bits(f))
	}
	return b
}
