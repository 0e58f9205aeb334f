// Package main provides the Kiln model converter CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/kiln-ml/kiln/convert"
	"github.com/kiln-ml/kiln/onnx"
	"github.com/kiln-ml/kiln/source"
)

func main() {
	defer klog.Flush()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "half":
		err = runHalf(os.Args[2:])
	case "version":
		fmt.Printf("Kiln %s\n", convert.ProducerVersion)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "kiln: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "kiln:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Kiln - classical model to ONNX converter")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  convert [flags] doc.json...   Convert model documents to ONNX files")
	fmt.Println("  half [flags] model.onnx       Narrow a model's float32 tensors to float16")
	fmt.Println("  version                       Show version")
	fmt.Println("")
	fmt.Println("Run a command with -h for its flags.")
}

// runConvert converts one or more JSON model documents, fanning the
// work out across workers.
func runConvert(args []string) error {
	fs := flag.NewFlagSet("kiln convert", flag.ExitOnError)
	outDir := fs.String("out", ".", "output directory")
	name := fs.String("name", "", "graph and file name (single document only; defaults to the document file name)")
	batch := fs.String("batch", "N", "symbolic batch dimension name")
	jobs := fs.Int("jobs", runtime.NumCPU(), "max concurrent conversions")
	klog.InitFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	docs := fs.Args()
	if len(docs) == 0 {
		return fmt.Errorf("no model documents given")
	}
	if *name != "" && len(docs) > 1 {
		return fmt.Errorf("-name applies to a single document, got %d", len(docs))
	}

	var g errgroup.Group
	g.SetLimit(*jobs)
	for _, path := range docs {
		g.Go(func() error {
			return convertOne(path, *outDir, *name, *batch)
		})
	}
	return g.Wait()
}

func convertOne(path, outDir, name, batch string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := source.DecodeDocument(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	m, err := convert.Convert(doc.Model, doc.Schema, convert.Options{
		GraphName:   name,
		BatchSymbol: batch,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	outPath := filepath.Join(outDir, name+".onnx")
	if err := onnx.Save(m, outPath); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	klog.InfoS("converted", "doc", path, "out", outPath,
		"kind", doc.Model.Kind(), "nodes", len(m.Graph.Nodes))
	return nil
}

// runHalf rewrites an ONNX file with float32 tensors narrowed to
// float16.
func runHalf(args []string) error {
	fs := flag.NewFlagSet("kiln half", flag.ExitOnError)
	outPath := fs.String("out", "", "output path (defaults to <input>.f16.onnx)")
	klog.InitFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("half takes exactly one model file, got %d", fs.NArg())
	}
	in := fs.Arg(0)

	m, err := onnx.Load(in)
	if err != nil {
		return err
	}
	half, err := convert.ToFloat16(m)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".f16.onnx"
	}
	if err := onnx.Save(half, out); err != nil {
		return err
	}
	klog.InfoS("narrowed", "in", in, "out", out,
		"initializers", len(half.Graph.Initializers))
	return nil
}
