package nn

import (
	"sort"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/optim"
	"github.com/born-ml/modelbuilder/internal/parallel"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Updater applies optimizer steps to a Model's parameters.
//
// An Updater works on its own copy of the Model's update configuration, taken
// at construction, so several Updaters on one Model can diverge without
// affecting the Model or each other. The embedded Parser exposes that copy:
//
//	u := nn.NewUpdater(model, map[string]any{"update_rule": "sgd_momentum"})
//	u.Set("learning_rate", 0.01)
//	ref, _ := u.Param("fc0_bias")
//	ref.Set("learning_rate", 0.0)
//	lr, err := u.Get("momentum") // fails unless all parameters agree
type Updater struct {
	*config.Parser

	configs  config.Configs
	model    *Model
	rules    *optim.Registry
	parallel parallel.Config
}

// UpdaterOption configures an Updater.
type UpdaterOption func(*Updater)

// WithRules replaces the registry update_rule names are resolved in.
func WithRules(reg *optim.Registry) UpdaterOption {
	return func(u *Updater) {
		u.rules = reg
	}
}

// WithParallel computes the per-parameter steps on several goroutines.
// Results are still committed to the Model on the calling goroutine.
func WithParallel(cfg parallel.Config) UpdaterOption {
	return func(u *Updater) {
		u.parallel = cfg
	}
}

// NewUpdater snapshots model's update configuration and applies globals to
// every parameter of the snapshot.
func NewUpdater(model *Model, globals map[string]any, opts ...UpdaterOption) *Updater {
	configs := model.updateConfigs.Clone()
	u := &Updater{
		Parser:   config.NewParser(configs),
		configs:  configs,
		model:    model,
		rules:    optim.Default(),
		parallel: parallel.Sequential(),
	}
	for _, opt := range opts {
		opt(u)
	}
	for attr, value := range globals {
		u.Set(attr, value)
	}
	return u
}

// Step updates every parameter named in grads, and only those.
//
// For each parameter the rule named by update_rule runs on the rest of its
// configuration. The new tensors are written back into the Model and the
// returned optimizer state is merged into the Updater's configuration.
// Either every named parameter is updated or, on error, none is.
// grads itself is not modified.
func (u *Updater) Step(grads map[string]*tensor.Tensor) error {
	names := make([]string, 0, len(grads))
	for name := range grads {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]stepResult, len(names))
	err := parallel.Each(len(names), func(i int) error {
		var err error
		results[i], err = u.step(names[i], grads[names[i]])
		return err
	}, u.parallel)
	if err != nil {
		return err
	}

	for i, name := range names {
		u.model.params[name] = results[i].next
		u.configs[name].Update(results[i].state)
	}
	return nil
}

type stepResult struct {
	next  *tensor.Tensor
	state config.Config
}

func (u *Updater) step(name string, grad *tensor.Tensor) (stepResult, error) {
	param, ok := u.model.params[name]
	if !ok {
		return stepResult{}, errors.Wrapf(ErrNotInitialized, "update %q", name)
	}
	cfg, ok := u.configs[name]
	if !ok {
		return stepResult{}, errors.Wrapf(ErrUnknownParam, "update %q: no update config", name)
	}
	rule, err := cfg.String(config.UpdateRule)
	if err != nil {
		return stepResult{}, errors.WithMessagef(err, "update %q", name)
	}

	args := cfg.Clone()
	delete(args, config.UpdateRule)
	next, state, err := u.rules.Step(rule, param, grad, args)
	if err != nil {
		return stepResult{}, errors.WithMessagef(err, "update %q", name)
	}
	return stepResult{next: next, state: state}, nil
}

// Model returns the model being updated.
func (u *Updater) Model() *Model {
	return u.model
}
