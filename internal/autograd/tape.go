// Package autograd is the boundary to the differentiation engine.
//
// The model builder needs only two things from it: marking a parameter and
// its gradient accumulator as a trainable pair, and a scoped training state
// that decides whether operations are recorded.
//
// Usage:
//
//	tape := autograd.NewTape()
//	tape.MarkVariable(weight, grad)
//	restore := tape.TrainingScope(true)
//	// ... forward pass ...
//	restore()
package autograd

import (
	"github.com/born-ml/modelbuilder/internal/tensor"
)

// Variable is a trainable tensor paired with its gradient accumulator.
type Variable struct {
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// Tape tracks marked variables and the current training state.
type Tape struct {
	variables []Variable
	index     map[*tensor.Tensor]int
	training  bool
}

// NewTape creates a tape outside of any training scope.
func NewTape() *Tape {
	return &Tape{
		variables: make([]Variable, 0, 16),
		index:     make(map[*tensor.Tensor]int),
	}
}

// MarkVariable registers value as trainable with grad as its accumulator.
// Marking the same tensor again replaces its accumulator.
func (t *Tape) MarkVariable(value, grad *tensor.Tensor) {
	if i, ok := t.index[value]; ok {
		t.variables[i].Grad = grad
		return
	}
	t.index[value] = len(t.variables)
	t.variables = append(t.variables, Variable{Value: value, Grad: grad})
}

// IsVariable reports whether value has been marked.
func (t *Tape) IsVariable(value *tensor.Tensor) bool {
	_, ok := t.index[value]
	return ok
}

// Grad returns the accumulator marked for value.
func (t *Tape) Grad(value *tensor.Tensor) (*tensor.Tensor, bool) {
	i, ok := t.index[value]
	if !ok {
		return nil, false
	}
	return t.variables[i].Grad, true
}

// Variables returns the marked variables in marking order.
func (t *Tape) Variables() []Variable {
	out := make([]Variable, len(t.variables))
	copy(out, t.variables)
	return out
}

// IsTraining reports whether the tape is inside a training scope.
func (t *Tape) IsTraining() bool {
	return t.training
}

// TrainingScope sets the training state and returns a function restoring
// the previous one. Scopes nest.
func (t *Tape) TrainingScope(training bool) (restore func()) {
	prev := t.training
	t.training = training
	return func() {
		t.training = prev
	}
}
