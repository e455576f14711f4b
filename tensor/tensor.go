// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/modelbuilder/internal/tensor"
)

// Tensor is a dense float64 tensor bound to a Context.
type Tensor = tensor.Tensor

// Shape is the dimension list of a Tensor.
type Shape = tensor.Shape

// Device is the kind of device a Context names.
type Device = tensor.Device

// Context identifies where a tensor lives.
type Context = tensor.Context

// Devices.
const (
	CPU = tensor.CPU
	GPU = tensor.GPU
)

// DefaultContext is the context of tensors created without one.
var DefaultContext = tensor.DefaultContext

// Errors returned by tensor operations.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrContextMismatch = tensor.ErrContextMismatch
	ErrInvalidData     = tensor.ErrInvalidData
)

// CPUContext returns the context of CPU device id.
func CPUContext(id int) Context {
	return tensor.CPUContext(id)
}

// GPUContext returns the context of GPU device id.
func GPUContext(id int) Context {
	return tensor.GPUContext(id)
}

// New creates a tensor from a copy of data.
//
// Returns ErrInvalidData if len(data) does not match the shape.
func New(shape Shape, data []float64) (*Tensor, error) {
	return tensor.New(shape, data)
}

// MustNew is New that panics on error.
func MustNew(shape Shape, data []float64) *Tensor {
	return tensor.MustNew(shape, data)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Elementwise and linear-algebra operations.
var (
	Add         = tensor.Add
	Sub         = tensor.Sub
	Mul         = tensor.Mul
	AddScaled   = tensor.AddScaled
	Scale       = tensor.Scale
	Map         = tensor.Map
	Sum         = tensor.Sum
	MatMul      = tensor.MatMul
	AddRow      = tensor.AddRow
	ColumnStats = tensor.ColumnStats
	AllClose    = tensor.AllClose
)
