// Copyright 2026 Kiln ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the host-side tensor values Kiln moves data
// in and out of: dense, contiguous, CPU-resident buffers with a
// runtime element type.
//
// # Overview
//
// Converted models carry their constants inside the graph, so this
// package is deliberately small. It exists for the data that crosses
// the API boundary:
//   - Dense: a contiguous buffer plus Shape and DataType
//   - Shape: dimension sizes with rank/stride helpers
//   - DataType: runtime element type tags (float32, int64, uint8, ...)
//
// # Basic Usage
//
//	import "github.com/kiln-ml/kiln/tensor"
//
//	// A [1, 3, 2, 2] float32 tensor.
//	t, err := tensor.FromFloat32(tensor.Shape{1, 3, 2, 2}, values)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(t.Shape(), t.DType(), t.NumElements())
//
// Typed accessors (Float32s, Int64s, Uint8s, ...) view the underlying
// buffer without copying; they panic when the element type disagrees,
// mirroring slice index misuse.
package tensor
