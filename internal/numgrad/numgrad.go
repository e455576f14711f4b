// Package numgrad estimates parameter gradients by central finite
// differences.
//
// It stands in for a differentiation engine: given a Model and a closure
// evaluating a scalar loss, it perturbs each parameter tensor of the Model in
// place and reports d(loss)/d(param) with the parameter's shape. The results
// can be handed straight to an nn.Updater.
package numgrad

import (
	"github.com/born-ml/modelbuilder/internal/nn"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
)

// DefaultStep is the finite-difference step used when Options.Step is zero.
const DefaultStep = 1e-6

// Objective evaluates the loss at the Model's current parameters.
type Objective func() (float64, error)

// Options configure gradient estimation.
type Options struct {
	Step float64 // Finite-difference step (default: DefaultStep)
}

// Gradients estimates the gradient of objective for each named parameter of
// m. With no names, every initialized parameter is used.
//
// Parameter values are restored before Gradients returns.
func Gradients(m *nn.Model, objective Objective, opts Options, names ...string) (map[string]*tensor.Tensor, error) {
	if len(names) == 0 {
		names = m.ParamNames()
	}
	step := opts.Step
	if step == 0 {
		step = DefaultStep
	}
	settings := &fd.Settings{Formula: fd.Central, Step: step}

	grads := make(map[string]*tensor.Tensor, len(names))
	for _, name := range names {
		param, ok := m.Param(name)
		if !ok {
			return nil, errors.Wrapf(nn.ErrNotInitialized, "numgrad %q", name)
		}
		grad, err := gradient(param, objective, settings)
		if err != nil {
			return nil, errors.WithMessagef(err, "numgrad %q", name)
		}
		grads[name] = grad
	}
	return grads, nil
}

func gradient(param *tensor.Tensor, objective Objective, settings *fd.Settings) (*tensor.Tensor, error) {
	data := param.Data()
	origin := append([]float64(nil), data...)
	defer copy(data, origin)

	var evalErr error
	f := func(x []float64) float64 {
		if evalErr != nil {
			return 0
		}
		copy(data, x)
		v, err := objective()
		if err != nil {
			evalErr = err
		}
		return v
	}

	grad := tensor.ZerosLike(param)
	fd.Gradient(grad.Data(), f, origin, settings)
	if evalErr != nil {
		return nil, evalErr
	}
	return grad, nil
}

// MaxRelativeError returns max |a-b| / max(|a|+|b|, tiny) over all elements
// of two equally shaped tensors.
func MaxRelativeError(a, b *tensor.Tensor) (float64, error) {
	if !a.Shape().Equal(b.Shape()) {
		return 0, errors.Wrapf(tensor.ErrShapeMismatch, "relative error: %v vs %v", a.Shape(), b.Shape())
	}
	const tiny = 1e-12
	worst := 0.0
	bd := b.Data()
	for i, x := range a.Data() {
		y := bd[i]
		denom := abs(x) + abs(y)
		if denom < tiny {
			denom = tiny
		}
		if r := abs(x-y) / denom; r > worst {
			worst = r
		}
	}
	return worst, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
