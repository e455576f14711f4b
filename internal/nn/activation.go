package nn

import (
	"math"

	"github.com/born-ml/modelbuilder/internal/tensor"
)

// Activation applies an elementwise function to each of its inputs and
// returns one output per input. It has no parameters.
type Activation struct {
	*Layer
	fn func(float64) float64
}

func newActivation(b *Builder, kind string, fn func(float64) float64, opts []Option) (*Activation, error) {
	a := &Activation{fn: fn}
	l, err := NewLayer(b, kind, a, opts...)
	if err != nil {
		return nil, err
	}
	a.Layer = l
	return a, nil
}

// NewReLU creates a ReLU(x) = max(0, x) layer.
func NewReLU(b *Builder, opts ...Option) (*Activation, error) {
	return newActivation(b, "relu", func(x float64) float64 {
		return math.Max(0, x)
	}, opts)
}

// NewSigmoid creates a sigmoid(x) = 1 / (1 + exp(-x)) layer.
func NewSigmoid(b *Builder, opts ...Option) (*Activation, error) {
	return newActivation(b, "sigmoid", func(x float64) float64 {
		return 1 / (1 + math.Exp(-x))
	}, opts)
}

// NewTanh creates a tanh layer.
func NewTanh(b *Builder, opts ...Option) (*Activation, error) {
	return newActivation(b, "tanh", math.Tanh, opts)
}

// Forward applies the activation to every input.
func (a *Activation) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	out := make(Outputs, len(inputs))
	for i, x := range inputs {
		out[i] = tensor.Map(x, a.fn)
	}
	return out, nil
}
