package onnx_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/kiln-ml/kiln/onnx"
)

// buildModel assembles a small model through the public API.
func buildModel(t *testing.T) *onnx.ModelProto {
	t.Helper()
	b := onnx.NewGraphBuilder("facade")
	b.Input("x", onnx.ElemFloat, onnx.SymbolicDim("N"), onnx.Dim(4))
	b.Initializer(onnx.FloatTensor("w", []int64{4}, []float32{1, 2, 3, 4}))
	b.Node(onnx.DomainONNX, "Add", []string{"x", "w"}, []string{"y"},
		onnx.StringAttr("note", "bias add"))
	b.Output("y", onnx.ElemFloat, onnx.SymbolicDim("N"), onnx.Dim(4))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return &onnx.ModelProto{
		IRVersion:    onnx.IRVersion,
		ProducerName: "facade-test",
		Graph:        g,
		OpsetImport: []onnx.OperatorSetID{
			{Domain: onnx.DomainONNX, Version: onnx.OpsetVersion},
		},
	}
}

// TestSaveLoadRoundtrip verifies a built model survives the file codec.
func TestSaveLoadRoundtrip(t *testing.T) {
	m := buildModel(t)
	path := filepath.Join(t.TempDir(), "facade.onnx")

	if err := onnx.Save(m, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back, err := onnx.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if back.ProducerName != "facade-test" {
		t.Errorf("ProducerName = %q, want %q", back.ProducerName, "facade-test")
	}
	if v := back.OpsetVersion(onnx.DomainONNX); v != onnx.OpsetVersion {
		t.Errorf("OpsetVersion = %d, want %d", v, onnx.OpsetVersion)
	}
	if got := back.Graph.InputNames(); len(got) != 1 || got[0] != "x" {
		t.Errorf("InputNames = %v, want [x]", got)
	}
	w := back.Graph.Initializer("w")
	if w == nil {
		t.Fatal("initializer w missing after roundtrip")
	}
	vals, err := w.Float32Values()
	if err != nil {
		t.Fatalf("Float32Values failed: %v", err)
	}
	if len(vals) != 4 || vals[3] != 4 {
		t.Errorf("initializer values = %v, want [1 2 3 4]", vals)
	}
	node := back.Graph.Node("Add")
	if node == nil {
		t.Fatal("Add node missing after roundtrip")
	}
	if got := string(node.Attr("note").S); got != "bias add" {
		t.Errorf("note attribute = %q, want %q", got, "bias add")
	}
}

// TestParseTruncated verifies truncation surfaces as ErrTruncated.
func TestParseTruncated(t *testing.T) {
	data := onnx.Marshal(buildModel(t))
	if _, err := onnx.Parse(data[:len(data)-1]); !errors.Is(err, onnx.ErrTruncated) {
		t.Errorf("Parse(truncated) error = %v, want ErrTruncated", err)
	}
}

// TestBuilderValidation verifies Build errors reach the facade.
func TestBuilderValidation(t *testing.T) {
	b := onnx.NewGraphBuilder("bad")
	b.Node(onnx.DomainONNX, "Relu", []string{"ghost"}, []string{"y"})
	b.Output("y", onnx.ElemFloat)
	if _, err := b.Build(); !errors.Is(err, onnx.ErrUnknownInput) {
		t.Errorf("Build error = %v, want ErrUnknownInput", err)
	}
}
