// Package tensor provides the dense array collaborator used by the model
// builder: a float64 tensor with a shape and an execution context.
//
// The builder never inspects tensor values itself. It relies on Shape and
// Context for lazy initialization, on AsInContext to materialize initializer
// output, and on ZerosLike to allocate gradient accumulators. The arithmetic
// in ops.go exists for layers, combinators and optimizer rules.
package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// Tensor is a dense, row-major float64 array bound to a Context.
type Tensor struct {
	shape Shape
	data  []float64
	ctx   Context
}

// New creates a tensor of the given shape from a copy of data.
//
// Returns ErrInvalidData if len(data) does not equal shape.NumElements().
func New(shape Shape, data []float64) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "tensor.New")
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Wrapf(ErrInvalidData, "tensor.New: shape %v needs %d elements, got %d",
			shape, shape.NumElements(), len(data))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Tensor{shape: shape.Clone(), data: buf, ctx: DefaultContext}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(shape Shape, data []float64) *Tensor {
	t, err := New(shape, data)
	if err != nil {
		panic(err)
	}
	return t
}

// Zeros creates a zero-filled tensor in the default context.
func Zeros(shape Shape) *Tensor {
	return Full(shape, 0)
}

// Full creates a tensor filled with value in the default context.
func Full(shape Shape, value float64) *Tensor {
	n := shape.NumElements()
	data := make([]float64, n)
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return &Tensor{shape: shape.Clone(), data: data, ctx: DefaultContext}
}

// ZerosLike creates a zero-filled tensor with t's shape and context.
func ZerosLike(t *Tensor) *Tensor {
	z := Zeros(t.shape)
	z.ctx = t.ctx
	return z
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Context returns the tensor's execution context.
func (t *Tensor) Context() Context {
	return t.ctx
}

// Data returns the underlying storage. Mutating it mutates the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

// At returns the element at the given multi-dimensional index.
//
// Panics if the index rank or any coordinate is out of range.
func (t *Tensor) At(index ...int) float64 {
	return t.data[t.offset(index)]
}

// Set writes the element at the given multi-dimensional index.
func (t *Tensor) Set(value float64, index ...int) {
	t.data[t.offset(index)] = value
}

func (t *Tensor) offset(index []int) int {
	if len(index) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match shape %v", len(index), t.shape))
	}
	off := 0
	for i, idx := range index {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", index, t.shape))
		}
		off = off*t.shape[i] + idx
	}
	return off
}

// Clone returns a deep copy of the tensor in the same context.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data, ctx: t.ctx}
}

// AsInContext materializes the tensor in ctx.
//
// Returns t itself when it already lives in ctx, otherwise a copy bound to ctx.
func (t *Tensor) AsInContext(ctx Context) *Tensor {
	if t.ctx == ctx {
		return t
	}
	c := t.Clone()
	c.ctx = ctx
	return c
}

// String returns a short description of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v@%s", t.shape, t.ctx)
}
