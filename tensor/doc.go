// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors the model builder works on.
//
// A Tensor has a Shape, row-major data and a Context naming the device it
// lives on. Operations require both operands to share a context.
//
// Example:
//
//	x := tensor.MustNew(tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
//	w := tensor.Zeros(tensor.Shape{3, 4})
//	y, err := tensor.MatMul(x, w) // [2, 4]
//
//	gpu := x.AsInContext(tensor.GPUContext(0))
package tensor
