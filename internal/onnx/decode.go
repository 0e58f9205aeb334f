package onnx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated reports a serialized model that ends mid-field.
var ErrTruncated = errors.New("truncated onnx payload")

// Load reads and parses an ONNX model file.
func Load(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes an ONNX model from protobuf wire bytes. Unknown fields
// are skipped so models produced by newer writers still parse.
func Parse(data []byte) (*ModelProto, error) {
	m, err := parseModel(data)
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return m, nil
}

func wireErr(n int) error {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

func parseModel(b []byte) (*ModelProto, error) {
	m := &ModelProto{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			m.IRVersion, b, err = consumeInt64(b)
		case 2:
			m.ProducerName, b, err = consumeString(b)
		case 3:
			m.ProducerVersion, b, err = consumeString(b)
		case 4:
			m.Domain, b, err = consumeString(b)
		case 5:
			m.ModelVersion, b, err = consumeInt64(b)
		case 6:
			m.DocString, b, err = consumeString(b)
		case 7:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				m.Graph, err = parseGraph(sub)
			}
		case 8:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var op OperatorSetID
				if op, err = parseOperatorSetID(sub); err == nil {
					m.OpsetImport = append(m.OpsetImport, op)
				}
			}
		case 14:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var kv StringStringEntry
				if kv, err = parseStringStringEntry(sub); err == nil {
					m.MetadataProps = append(m.MetadataProps, kv)
				}
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("model field %d: %w", num, err)
		}
	}
	return m, nil
}

func parseGraph(b []byte) (*GraphProto, error) {
	g := &GraphProto{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var node NodeProto
				if node, err = parseNode(sub); err == nil {
					g.Nodes = append(g.Nodes, node)
				}
			}
		case 2:
			g.Name, b, err = consumeString(b)
		case 5:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var t TensorProto
				if t, err = parseTensor(sub); err == nil {
					g.Initializers = append(g.Initializers, t)
				}
			}
		case 10:
			g.DocString, b, err = consumeString(b)
		case 11, 12, 13:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var vi ValueInfoProto
				if vi, err = parseValueInfo(sub); err == nil {
					switch num {
					case 11:
						g.Inputs = append(g.Inputs, vi)
					case 12:
						g.Outputs = append(g.Outputs, vi)
					default:
						g.ValueInfo = append(g.ValueInfo, vi)
					}
				}
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("graph field %d: %w", num, err)
		}
	}
	return g, nil
}

func parseNode(b []byte) (NodeProto, error) {
	var nd NodeProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nd, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var s string
			if s, b, err = consumeString(b); err == nil {
				nd.Inputs = append(nd.Inputs, s)
			}
		case 2:
			var s string
			if s, b, err = consumeString(b); err == nil {
				nd.Outputs = append(nd.Outputs, s)
			}
		case 3:
			nd.Name, b, err = consumeString(b)
		case 4:
			nd.OpType, b, err = consumeString(b)
		case 5:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var a AttributeProto
				if a, err = parseAttribute(sub); err == nil {
					nd.Attributes = append(nd.Attributes, a)
				}
			}
		case 6:
			nd.DocString, b, err = consumeString(b)
		case 7:
			nd.Domain, b, err = consumeString(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nd, fmt.Errorf("node field %d: %w", num, err)
		}
	}
	return nd, nil
}

func parseTensor(b []byte) (TensorProto, error) {
	var t TensorProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return t, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			t.Dims, b, err = consumeInt64s(b, typ, t.Dims)
		case 2:
			var v int64
			if v, b, err = consumeInt64(b); err == nil {
				t.DataType = int32(v)
			}
		case 4:
			t.FloatData, b, err = consumeFloats(b, typ, t.FloatData)
		case 5:
			t.Int32Data, b, err = consumeInt32s(b, typ, t.Int32Data)
		case 7:
			t.Int64Data, b, err = consumeInt64s(b, typ, t.Int64Data)
		case 8:
			t.Name, b, err = consumeString(b)
		case 9:
			var raw []byte
			if raw, b, err = consumeBytes(b); err == nil {
				t.RawData = append([]byte(nil), raw...)
			}
		case 12:
			t.DocString, b, err = consumeString(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return t, fmt.Errorf("tensor field %d: %w", num, err)
		}
	}
	return t, nil
}

func parseValueInfo(b []byte) (ValueInfoProto, error) {
	var vi ValueInfoProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return vi, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			vi.Name, b, err = consumeString(b)
		case 2:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				vi.Type, err = parseType(sub)
			}
		case 3:
			vi.DocString, b, err = consumeString(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return vi, fmt.Errorf("value info field %d: %w", num, err)
		}
	}
	return vi, nil
}

func parseType(b []byte) (*TypeProto, error) {
	t := &TypeProto{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				t.TensorType, err = parseTensorType(sub)
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("type field %d: %w", num, err)
		}
	}
	return t, nil
}

func parseTensorType(b []byte) (*TensorTypeProto, error) {
	t := &TensorTypeProto{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var v int64
			if v, b, err = consumeInt64(b); err == nil {
				t.ElemType = int32(v)
			}
		case 2:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				t.Shape, err = parseShape(sub)
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("tensor type field %d: %w", num, err)
		}
	}
	return t, nil
}

func parseShape(b []byte) (*TensorShapeProto, error) {
	s := &TensorShapeProto{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var d DimensionProto
				if d, err = parseDimension(sub); err == nil {
					s.Dims = append(s.Dims, d)
				}
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("shape field %d: %w", num, err)
		}
	}
	return s, nil
}

func parseDimension(b []byte) (DimensionProto, error) {
	var d DimensionProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			d.DimValue, b, err = consumeInt64(b)
		case 2:
			d.DimParam, b, err = consumeString(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return d, fmt.Errorf("dimension field %d: %w", num, err)
		}
	}
	return d, nil
}

func parseAttribute(b []byte) (AttributeProto, error) {
	var a AttributeProto
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return a, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			a.Name, b, err = consumeString(b)
		case 2:
			a.F, b, err = consumeFloat(b)
		case 3:
			a.I, b, err = consumeInt64(b)
		case 4:
			var raw []byte
			if raw, b, err = consumeBytes(b); err == nil {
				a.S = append([]byte(nil), raw...)
			}
		case 5:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var t TensorProto
				if t, err = parseTensor(sub); err == nil {
					a.T = &t
				}
			}
		case 6:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				a.G, err = parseGraph(sub)
			}
		case 7:
			a.Floats, b, err = consumeFloats(b, typ, a.Floats)
		case 8:
			a.Ints, b, err = consumeInt64s(b, typ, a.Ints)
		case 9:
			var raw []byte
			if raw, b, err = consumeBytes(b); err == nil {
				a.Strings = append(a.Strings, append([]byte(nil), raw...))
			}
		case 10:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var t TensorProto
				if t, err = parseTensor(sub); err == nil {
					a.Tensors = append(a.Tensors, t)
				}
			}
		case 11:
			var sub []byte
			if sub, b, err = consumeBytes(b); err == nil {
				var g *GraphProto
				if g, err = parseGraph(sub); err == nil {
					a.Graphs = append(a.Graphs, *g)
				}
			}
		case 13:
			a.DocString, b, err = consumeString(b)
		case 20:
			var v int64
			if v, b, err = consumeInt64(b); err == nil {
				a.Type = int32(v)
			}
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return a, fmt.Errorf("attribute field %d: %w", num, err)
		}
	}
	return a, nil
}

func parseOperatorSetID(b []byte) (OperatorSetID, error) {
	var op OperatorSetID
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return op, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			op.Domain, b, err = consumeString(b)
		case 2:
			op.Version, b, err = consumeInt64(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return op, fmt.Errorf("opset field %d: %w", num, err)
		}
	}
	return op, nil
}

func parseStringStringEntry(b []byte) (StringStringEntry, error) {
	var kv StringStringEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return kv, wireErr(n)
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			kv.Key, b, err = consumeString(b)
		case 2:
			kv.Value, b, err = consumeString(b)
		default:
			b, err = skipField(b, num, typ)
		}
		if err != nil {
			return kv, fmt.Errorf("metadata field %d: %w", num, err)
		}
	}
	return kv, nil
}

func consumeInt64(b []byte) (int64, []byte, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, b, wireErr(n)
	}
	return int64(v), b[n:], nil
}

func consumeFloat(b []byte) (float32, []byte, error) {
	v, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, b, wireErr(n)
	}
	return math.Float32frombits(v), b[n:], nil
}

func consumeString(b []byte) (string, []byte, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return "", b, wireErr(n)
	}
	return string(v), b[n:], nil
}

// consumeBytes returns a view into b; callers that retain the payload
// must copy it.
func consumeBytes(b []byte) ([]byte, []byte, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, b, wireErr(n)
	}
	return v, b[n:], nil
}

// consumeFloats handles a repeated float field in either packed or
// unpacked encoding.
func consumeFloats(b []byte, typ protowire.Type, dst []float32) ([]float32, []byte, error) {
	if typ == protowire.Fixed32Type {
		v, rest, err := consumeFloat(b)
		if err != nil {
			return dst, b, err
		}
		return append(dst, v), rest, nil
	}
	packed, rest, err := consumeBytes(b)
	if err != nil {
		return dst, b, err
	}
	for len(packed) > 0 {
		v, n := protowire.ConsumeFixed32(packed)
		if n < 0 {
			return dst, b, wireErr(n)
		}
		dst = append(dst, math.Float32frombits(v))
		packed = packed[n:]
	}
	return dst, rest, nil
}

func consumeInt64s(b []byte, typ protowire.Type, dst []int64) ([]int64, []byte, error) {
	if typ == protowire.VarintType {
		v, rest, err := consumeInt64(b)
		if err != nil {
			return dst, b, err
		}
		return append(dst, v), rest, nil
	}
	packed, rest, err := consumeBytes(b)
	if err != nil {
		return dst, b, err
	}
	for len(packed) > 0 {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			return dst, b, wireErr(n)
		}
		dst = append(dst, int64(v))
		packed = packed[n:]
	}
	return dst, rest, nil
}

func consumeInt32s(b []byte, typ protowire.Type, dst []int32) ([]int32, []byte, error) {
	if typ == protowire.VarintType {
		v, rest, err := consumeInt64(b)
		if err != nil {
			return dst, b, err
		}
		return append(dst, int32(v)), rest, nil
	}
	packed, rest, err := consumeBytes(b)
	if err != nil {
		return dst, b, err
	}
	for len(packed) > 0 {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			return dst, b, wireErr(n)
		}
		dst = append(dst, int32(v))
		packed = packed[n:]
	}
	return dst, rest, nil
}

func skipField(b []byte, num protowire.Number, typ protowire.Type) ([]byte, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return b, wireErr(n)
	}
	return b[n:], nil
}
