package nn

import (
	"strings"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Sequential chains modules: each module's outputs become the next module's
// positional inputs.
//
// A layer may therefore return several tensors (for example a value and an
// auxiliary state) and the next layer receives them as separate arguments.
//
// Example:
//
//	net, err := b.Sequential(fc1, relu, fc2)
//	y, err := nn.Apply(net, x)
type Sequential struct {
	base
	modules []Module
}

// NewSequential creates a Sequential container over modules.
//
// Returns ErrNotModule if any element is nil.
func NewSequential(b *Builder, modules []Module, opts ...Option) (*Sequential, error) {
	id, err := b.newBase("sequential", applyOptions(opts))
	if err != nil {
		return nil, err
	}
	for i, m := range modules {
		if isNil(m) {
			return nil, errors.Wrapf(ErrNotModule, "sequential element %d", i)
		}
	}
	return &Sequential{base: id, modules: append([]Module(nil), modules...)}, nil
}

// Sequential creates a Sequential container with a generated name.
func (b *Builder) Sequential(modules ...Module) (*Sequential, error) {
	return NewSequential(b, modules)
}

// Call feeds inputs through every module in order.
func (s *Sequential) Call(inputs ...*tensor.Tensor) (Outputs, error) {
	args := Outputs(inputs)
	for _, m := range s.modules {
		out, err := m.Call(args...)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s: module %s", s.name, m.Name())
		}
		args = out
	}
	return args, nil
}

// Append adds m at the end.
func (s *Sequential) Append(m Module) error {
	if isNil(m) {
		return ErrNotModule
	}
	s.modules = append(s.modules, m)
	return nil
}

// Insert places m before index i. i may equal Len to append.
func (s *Sequential) Insert(i int, m Module) error {
	if isNil(m) {
		return ErrNotModule
	}
	if i < 0 || i > len(s.modules) {
		return errors.Errorf("sequential insert: index %d out of range [0, %d]", i, len(s.modules))
	}
	s.modules = append(s.modules, nil)
	copy(s.modules[i+1:], s.modules[i:])
	s.modules[i] = m
	return nil
}

// Pop removes and returns the last module, or nil when empty.
func (s *Sequential) Pop() Module {
	if len(s.modules) == 0 {
		return nil
	}
	last := s.modules[len(s.modules)-1]
	s.modules = s.modules[:len(s.modules)-1]
	return last
}

// Reverse reverses the module order in place.
func (s *Sequential) Reverse() {
	for i, j := 0, len(s.modules)-1; i < j; i, j = i+1, j-1 {
		s.modules[i], s.modules[j] = s.modules[j], s.modules[i]
	}
}

// Len returns the number of modules.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// Modules returns a copy of the module list.
func (s *Sequential) Modules() []Module {
	return append([]Module(nil), s.modules...)
}

// Training switches every module to training mode.
func (s *Sequential) Training() {
	for _, m := range s.modules {
		m.Training()
	}
}

// Inference switches every module to inference mode.
func (s *Sequential) Inference() {
	for _, m := range s.modules {
		m.Inference()
	}
}

func (s *Sequential) layers() []*Layer {
	var out []*Layer
	for _, m := range s.modules {
		out = append(out, m.layers()...)
	}
	return out
}

// String lists the contained module names.
func (s *Sequential) String() string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = m.Name()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Combinator merges the outputs of two modules elementwise.
type Combinator func(a, b *tensor.Tensor) (*tensor.Tensor, error)

// Binary evaluates two modules on the same inputs and combines their single
// outputs.
type Binary struct {
	base
	left, right Module
	combine     Combinator
}

// NewBinary creates a Binary container of the given kind.
func NewBinary(b *Builder, kind string, left, right Module, combine Combinator, opts ...Option) (*Binary, error) {
	id, err := b.newBase(kind, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	if isNil(left) || isNil(right) {
		return nil, errors.Wrapf(ErrNotModule, "%s operand", kind)
	}
	if combine == nil {
		return nil, errors.Errorf("%s: nil combinator", kind)
	}
	return &Binary{base: id, left: left, right: right, combine: combine}, nil
}

// Add returns a module computing left(x) + right(x).
func (b *Builder) Add(left, right Module, opts ...Option) (*Binary, error) {
	return NewBinary(b, "add", left, right, tensor.Add, opts...)
}

// Sub returns a module computing left(x) - right(x).
func (b *Builder) Sub(left, right Module, opts ...Option) (*Binary, error) {
	return NewBinary(b, "sub", left, right, tensor.Sub, opts...)
}

// Mul returns a module computing left(x) * right(x) elementwise.
func (b *Builder) Mul(left, right Module, opts ...Option) (*Binary, error) {
	return NewBinary(b, "mul", left, right, tensor.Mul, opts...)
}

// Left returns the left operand.
func (bin *Binary) Left() Module {
	return bin.left
}

// Right returns the right operand.
func (bin *Binary) Right() Module {
	return bin.right
}

// Call evaluates both operands on inputs and combines the results.
// Each operand must produce exactly one output.
func (bin *Binary) Call(inputs ...*tensor.Tensor) (Outputs, error) {
	l, err := Apply(bin.left, inputs...)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s left", bin.name)
	}
	r, err := Apply(bin.right, inputs...)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s right", bin.name)
	}
	out, err := bin.combine(l, r)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", bin.name)
	}
	return One(out), nil
}

// Training switches both operands to training mode.
func (bin *Binary) Training() {
	bin.left.Training()
	bin.right.Training()
}

// Inference switches both operands to inference mode.
func (bin *Binary) Inference() {
	bin.left.Inference()
	bin.right.Inference()
}

func (bin *Binary) layers() []*Layer {
	return append(bin.left.layers(), bin.right.layers()...)
}

// String renders "left kind right".
func (bin *Binary) String() string {
	return bin.left.Name() + " " + bin.kind + " " + bin.right.Name()
}
