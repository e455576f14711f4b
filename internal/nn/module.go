package nn

import (
	"reflect"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Module is a named, composable unit of a network.
//
// Modules are built by Layer and the containers in this package; custom
// layers embed *Layer. Call runs the module on positional tensor inputs and
// returns its outputs as a tuple.
type Module interface {
	// Name returns the module's unique name. It never changes.
	Name() string

	// Kind returns the module kind, e.g. "fully_connected" or "sequential".
	Kind() string

	// Call computes the module's outputs.
	Call(inputs ...*tensor.Tensor) (Outputs, error)

	// Training switches the module and every descendant to training mode.
	Training()

	// Inference switches the module and every descendant to inference mode.
	Inference()

	// layers returns the leaf layers of the module's subtree.
	layers() []*Layer
}

// Outputs is the tuple of tensors produced by a module.
type Outputs []*tensor.Tensor

// One wraps a single tensor as Outputs.
func One(t *tensor.Tensor) Outputs {
	return Outputs{t}
}

// Single unwraps a one-element tuple.
//
// Returns ErrArity for any other length.
func (o Outputs) Single() (*tensor.Tensor, error) {
	if len(o) != 1 {
		return nil, errors.Wrapf(ErrArity, "want 1 output, got %d", len(o))
	}
	return o[0], nil
}

// Apply calls m and unwraps its single output.
func Apply(m Module, inputs ...*tensor.Tensor) (*tensor.Tensor, error) {
	out, err := m.Call(inputs...)
	if err != nil {
		return nil, err
	}
	t, err := out.Single()
	if err != nil {
		return nil, errors.WithMessagef(err, "module %s", m.Name())
	}
	return t, nil
}

// Mode is the training/inference flag of a module.
type Mode int

// Module modes.
const (
	ModeTraining Mode = iota
	ModeInference
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeInference {
		return "inference"
	}
	return "training"
}

// base holds the identity shared by every module.
type base struct {
	name string
	kind string
}

// Name returns the module name.
func (b *base) Name() string {
	return b.name
}

// Kind returns the module kind.
func (b *base) Kind() string {
	return b.kind
}

// String returns the module name.
func (b *base) String() string {
	return b.name
}

// isNil reports whether m is nil or a typed nil pointer.
func isNil(m Module) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
