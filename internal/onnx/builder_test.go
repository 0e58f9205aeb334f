package onnx

import (
	"errors"
	"testing"
)

// TestBuilderLinearChain builds input -> node -> node -> output and
// checks the assembled graph.
func TestBuilderLinearChain(t *testing.T) {
	b := NewGraphBuilder("chain")
	x := b.Input("x", ElemFloat, SymbolicDim("N"), Dim(4))
	w := b.Initializer(FloatTensor("w", []int64{4}, []float32{1, 2, 3, 4}))
	mid := b.Node(DomainONNX, "Mul", []string{x, w}, nil)
	out := b.Node(DomainONNX, "Relu", mid, []string{"y"})
	b.Output(out[0], ElemFloat, SymbolicDim("N"), Dim(4))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Name != "chain" {
		t.Errorf("Name = %q, want 'chain'", g.Name)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].OpType != "Mul" || g.Nodes[1].OpType != "Relu" {
		t.Errorf("node order = %s, %s", g.Nodes[0].OpType, g.Nodes[1].OpType)
	}
	if g.Nodes[1].Inputs[0] != mid[0] {
		t.Errorf("Relu input = %q, want %q", g.Nodes[1].Inputs[0], mid[0])
	}
	if got := g.OutputNames(); len(got) != 1 || got[0] != "y" {
		t.Errorf("OutputNames = %v, want [y]", got)
	}
	if g.Initializer("w") == nil {
		t.Error("initializer 'w' missing")
	}
}

// TestBuilderGeneratedNames checks that generated value and node names
// never collide.
func TestBuilderGeneratedNames(t *testing.T) {
	b := NewGraphBuilder("gen")
	x := b.Input("x", ElemFloat, Dim(1))
	a := b.Node(DomainONNX, "Identity", []string{x}, nil)
	c := b.Node(DomainONNX, "Identity", []string{x}, nil)
	if a[0] == c[0] {
		t.Errorf("generated names collide: %q", a[0])
	}
	b.Output(a[0], ElemFloat, Dim(1))
	b.Output(c[0], ElemFloat, Dim(1))
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Nodes[0].Name == g.Nodes[1].Name {
		t.Errorf("node names collide: %q", g.Nodes[0].Name)
	}
}

// TestBuilderTopologicalSort checks that nodes appended out of
// dependency order are emitted producer-first.
func TestBuilderTopologicalSort(t *testing.T) {
	b := NewGraphBuilder("topo")
	x := b.Input("x", ElemFloat, Dim(1))
	// Consumer appended before its producer.
	b.Node(DomainONNX, "Relu", []string{"mid"}, []string{"y"})
	b.Node(DomainONNX, "Identity", []string{x}, []string{"mid"})
	b.Output("y", ElemFloat, Dim(1))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Nodes[0].OpType != "Identity" || g.Nodes[1].OpType != "Relu" {
		t.Errorf("node order = %s, %s; want Identity, Relu",
			g.Nodes[0].OpType, g.Nodes[1].OpType)
	}
}

// TestBuilderUnknownInput checks the dangling-reference error.
func TestBuilderUnknownInput(t *testing.T) {
	b := NewGraphBuilder("bad")
	b.Input("x", ElemFloat, Dim(1))
	b.Node(DomainONNX, "Relu", []string{"ghost"}, []string{"y"})
	b.Output("y", ElemFloat, Dim(1))
	if _, err := b.Build(); !errors.Is(err, ErrUnknownInput) {
		t.Errorf("Build = %v, want ErrUnknownInput", err)
	}
}

// TestBuilderUnknownOutput checks that undeclared graph outputs are
// rejected.
func TestBuilderUnknownOutput(t *testing.T) {
	b := NewGraphBuilder("bad")
	x := b.Input("x", ElemFloat, Dim(1))
	b.Node(DomainONNX, "Relu", []string{x}, []string{"y"})
	b.Output("z", ElemFloat, Dim(1))
	if _, err := b.Build(); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("Build = %v, want ErrUnknownOutput", err)
	}
}

// TestBuilderOutputFromInput allows a graph output fed directly by an
// input.
func TestBuilderOutputFromInput(t *testing.T) {
	b := NewGraphBuilder("pass")
	b.Input("x", ElemFloat, Dim(1))
	b.Output("x", ElemFloat, Dim(1))
	if _, err := b.Build(); err != nil {
		t.Errorf("Build = %v, want nil", err)
	}
}

// TestBuilderCycle checks cycle detection.
func TestBuilderCycle(t *testing.T) {
	b := NewGraphBuilder("loop")
	b.Node(DomainONNX, "Relu", []string{"b_out"}, []string{"a_out"})
	b.Node(DomainONNX, "Relu", []string{"a_out"}, []string{"b_out"})
	b.Output("a_out", ElemFloat, Dim(1))
	if _, err := b.Build(); !errors.Is(err, ErrCycle) {
		t.Errorf("Build = %v, want ErrCycle", err)
	}
}

// TestBuilderRedefinition rejects a node output shadowing an input.
func TestBuilderRedefinition(t *testing.T) {
	b := NewGraphBuilder("dup")
	x := b.Input("x", ElemFloat, Dim(1))
	b.Node(DomainONNX, "Relu", []string{x}, []string{"x"})
	b.Output("x", ElemFloat, Dim(1))
	if _, err := b.Build(); err == nil {
		t.Error("Build accepted a node output shadowing an input")
	}
}

// TestBuilderDuplicateProducers rejects two nodes producing the same
// value.
func TestBuilderDuplicateProducers(t *testing.T) {
	b := NewGraphBuilder("dup")
	x := b.Input("x", ElemFloat, Dim(1))
	b.Node(DomainONNX, "Relu", []string{x}, []string{"y"})
	b.Node(DomainONNX, "Sigmoid", []string{x}, []string{"y"})
	b.Output("y", ElemFloat, Dim(1))
	if _, err := b.Build(); err == nil {
		t.Error("Build accepted two producers for one value")
	}
}

// TestBuilderOptionalInputSlots allows empty-string inputs, which stand
// for omitted optional operands.
func TestBuilderOptionalInputSlots(t *testing.T) {
	b := NewGraphBuilder("opt")
	x := b.Input("x", ElemFloat, Dim(1))
	b.Node(DomainONNX, "Clip", []string{x, "", "max"}, []string{"y"})
	b.Initializer(FloatTensor("max", nil, []float32{6}))
	b.Output("y", ElemFloat, Dim(1))
	if _, err := b.Build(); err != nil {
		t.Errorf("Build = %v, want nil", err)
	}
}
