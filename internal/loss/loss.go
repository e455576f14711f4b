// Package loss provides the named built-in loss functions a Model can use.
//
// Every loss returns the scalar loss and, when isTrain is set, the gradient
// of the loss with respect to the predictions. Losses average over the batch.
package loss

import (
	"sort"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrUnknownLoss = errors.New("unknown loss")
	ErrBadLabels   = errors.New("labels do not match predictions")
)

// Func computes a loss over a batch.
//
// The returned gradient is nil when isTrain is false.
type Func func(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error)

// Registry maps loss names to functions.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default creates a registry with softmax, logistic, svm, mae_regression and
// linear_regression.
func Default() *Registry {
	r := NewRegistry()
	r.Register("softmax", Softmax)
	r.Register("logistic", Logistic)
	r.Register("svm", SVM)
	r.Register("mae_regression", MAERegression)
	r.Register("linear_regression", LinearRegression)
	return r
}

// Register adds or replaces a loss.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the loss registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLoss, "%q", name)
	}
	return fn, nil
}

// Names returns the registered loss names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// classLabels validates predictions [n, c] against integral labels [n].
func classLabels(predictions, labels *tensor.Tensor) (n, c int, ys []int, err error) {
	ps := predictions.Shape()
	if len(ps) != 2 {
		return 0, 0, nil, errors.Wrapf(tensor.ErrShapeMismatch, "expected [batch, classes] predictions, got %v", ps)
	}
	n, c = ps[0], ps[1]
	if labels.Len() != n {
		return 0, 0, nil, errors.Wrapf(ErrBadLabels, "%d labels for batch of %d", labels.Len(), n)
	}
	ys = make([]int, n)
	for i, v := range labels.Data() {
		y := int(v)
		if float64(y) != v || y < 0 || y >= c {
			return 0, 0, nil, errors.Wrapf(ErrBadLabels, "label %v at %d is not a class in [0, %d)", v, i, c)
		}
		ys[i] = y
	}
	return n, c, ys, nil
}
