// Package initializer provides the named parameter initializers and the
// default initialization policy.
//
// An initializer receives the parameter shape and its merged init
// configuration and returns a freshly allocated tensor:
//
//	reg := initializer.Default()
//	w, err := reg.Init(tensor.Shape{784, 128}, config.Config{"init_rule": "xavier"})
package initializer

import (
	"sort"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// ErrUnknownRule is returned when an init_rule has no registered initializer.
var ErrUnknownRule = errors.New("unknown init rule")

// Func creates a tensor of the given shape according to cfg.
type Func func(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error)

// Registry maps init_rule names to initializer functions.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default creates a registry holding xavier, constant, gaussian and uniform.
func Default() *Registry {
	r := NewRegistry()
	r.Register("xavier", Xavier)
	r.Register("constant", Constant)
	r.Register("gaussian", Gaussian)
	r.Register("uniform", Uniform)
	return r
}

// Register adds or replaces an initializer.
func (r *Registry) Register(rule string, fn Func) {
	r.funcs[rule] = fn
}

// Get returns the initializer for rule.
func (r *Registry) Get(rule string) (Func, bool) {
	fn, ok := r.funcs[rule]
	return fn, ok
}

// Rules returns the registered rule names in sorted order.
func (r *Registry) Rules() []string {
	rules := make([]string, 0, len(r.funcs))
	for rule := range r.funcs {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	return rules
}

// Init dispatches on cfg's init_rule.
func (r *Registry) Init(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error) {
	rule, err := cfg.String(config.InitRule)
	if err != nil {
		return nil, errors.Wrap(err, "init")
	}
	fn, ok := r.funcs[rule]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "%q", rule)
	}
	t, err := fn(shape, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "init rule %q", rule)
	}
	if !t.Shape().Equal(shape) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "init rule %q returned %v, want %v", rule, t.Shape(), shape)
	}
	return t, nil
}
