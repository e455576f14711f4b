// Package optim implements the named optimizer step rules.
//
// Each rule is a pure function of the current parameter, its gradient and its
// update configuration. It returns the new parameter value plus a mapping of
// optimizer state (velocity, moments, step counter) that the caller merges
// back into the configuration:
//
//	reg := optim.Default()
//	next, state, err := reg.Step("sgd_momentum", param, grad, config.Config{
//	    "learning_rate": 0.01,
//	    "momentum":      0.9,
//	})
//	cfg.Update(state) // carries "velocity" into the next step
//
// Rules never mutate the configuration they are given.
package optim

import (
	"sort"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// ErrUnknownRule is returned when an update_rule has no registered step function.
var ErrUnknownRule = errors.New("unknown update rule")

// StepFunc computes one optimization step.
type StepFunc func(param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error)

// Registry maps update_rule names to step functions.
type Registry struct {
	steps map[string]StepFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]StepFunc)}
}

// Default creates a registry holding sgd, sgd_momentum, rmsprop and adam.
func Default() *Registry {
	r := NewRegistry()
	r.Register("sgd", SGD)
	r.Register("sgd_momentum", SGDMomentum)
	r.Register("rmsprop", RMSProp)
	r.Register("adam", Adam)
	return r
}

// Register adds or replaces a step function.
func (r *Registry) Register(rule string, fn StepFunc) {
	r.steps[rule] = fn
}

// Get returns the step function for rule.
func (r *Registry) Get(rule string) (StepFunc, bool) {
	fn, ok := r.steps[rule]
	return fn, ok
}

// Rules returns the registered rule names in sorted order.
func (r *Registry) Rules() []string {
	rules := make([]string, 0, len(r.steps))
	for rule := range r.steps {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	return rules
}

// Step dispatches to the step function registered for rule.
func (r *Registry) Step(rule string, param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
	fn, ok := r.steps[rule]
	if !ok {
		return nil, nil, errors.Wrapf(ErrUnknownRule, "%q", rule)
	}
	next, state, err := fn(param, grad, cfg)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "update rule %q", rule)
	}
	return next, state, nil
}

// stateTensor returns the optimizer state stored under key, or zeros shaped
// like param when the state does not exist yet.
func stateTensor(cfg config.Config, key string, param *tensor.Tensor) (*tensor.Tensor, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return tensor.ZerosLike(param), nil
	}
	t, ok := v.(*tensor.Tensor)
	if !ok {
		return nil, errors.Wrapf(config.ErrWrongType, "%q is %T, want *tensor.Tensor", key, v)
	}
	if !t.Shape().Equal(param.Shape()) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "%q has shape %v, param %v", key, t.Shape(), param.Shape())
	}
	return t, nil
}
