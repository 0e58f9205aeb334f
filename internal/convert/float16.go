package convert

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/x448/float16"

	"github.com/kiln-ml/kiln/internal/onnx"
)

// ToFloat16 returns a copy of the model with every float32 tensor
// narrowed to float16: initializers, tensor-valued attributes, value
// types, and Cast targets. The input model is left untouched.
//
// Models using ai.onnx.ml operators are rejected with
// ErrHalfUnsupported; those operators define no float16 behavior.
func ToFloat16(m *onnx.ModelProto) (*onnx.ModelProto, error) {
	if m == nil || m.Graph == nil {
		return nil, errors.New("model has no graph")
	}
	if m.Graph.HasDomain(onnx.DomainONNXML) {
		return nil, fmt.Errorf("%w: model %q", ErrHalfUnsupported, m.Graph.Name)
	}

	// Reserialize for a deep copy so the caller's model stays intact.
	cp, err := onnx.Parse(onnx.Marshal(m))
	if err != nil {
		return nil, fmt.Errorf("copy model: %w", err)
	}
	if err := halveGraph(cp.Graph); err != nil {
		return nil, err
	}
	return cp, nil
}

func halveGraph(g *onnx.GraphProto) error {
	for i := range g.Initializers {
		if err := halveTensor(&g.Initializers[i]); err != nil {
			return err
		}
	}
	halveValueInfos(g.Inputs)
	halveValueInfos(g.Outputs)
	halveValueInfos(g.ValueInfo)

	for i := range g.Nodes {
		nd := &g.Nodes[i]
		if nd.OpType == "Cast" {
			if to := nd.Attr("to"); to != nil && to.I == onnx.ElemFloat {
				to.I = onnx.ElemFloat16
			}
		}
		for j := range nd.Attributes {
			a := &nd.Attributes[j]
			if a.T != nil {
				if err := halveTensor(a.T); err != nil {
					return err
				}
			}
			for k := range a.Tensors {
				if err := halveTensor(&a.Tensors[k]); err != nil {
					return err
				}
			}
			if a.G != nil {
				if err := halveGraph(a.G); err != nil {
					return err
				}
			}
			for k := range a.Graphs {
				if err := halveGraph(&a.Graphs[k]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func halveValueInfos(infos []onnx.ValueInfoProto) {
	for i := range infos {
		if t := infos[i].Type; t != nil && t.TensorType != nil &&
			t.TensorType.ElemType == onnx.ElemFloat {
			t.TensorType.ElemType = onnx.ElemFloat16
		}
	}
}

func halveTensor(t *onnx.TensorProto) error {
	if t.DataType != onnx.ElemFloat {
		return nil
	}
	vals, err := t.Float32Values()
	if err != nil {
		return fmt.Errorf("narrow tensor %q: %w", t.Name, err)
	}
	raw := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(raw[i*2:], float16.Fromfloat32(v).Bits())
	}
	t.DataType = onnx.ElemFloat16
	t.FloatData = nil
	t.RawData = raw
	return nil
}
