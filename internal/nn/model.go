package nn

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/born-ml/modelbuilder/internal/autograd"
	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/initializer"
	"github.com/born-ml/modelbuilder/internal/loss"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Model is the parameter namespace and registration root of a network.
//
// It owns every parameter and aux-parameter tensor (keyed by global name),
// the update configuration of every parameter, and the gradient
// accumulators of attached parameters. Modules become part of the model
// through Register or RegisterAll.
//
// Custom models embed *Model and add their own forward method:
//
//	type MLP struct {
//	    *nn.Model
//	    net *nn.Sequential
//	}
//
//	func (m *MLP) Forward(x *tensor.Tensor) (nn.Outputs, error) {
//	    return m.net.Call(x)
//	}
type Model struct {
	params        map[string]*tensor.Tensor
	auxParams     map[string]*tensor.Tensor
	updateConfigs config.Configs
	grads         map[string]*tensor.Tensor

	modules   []Module
	moduleSet map[Module]struct{}
	names     map[string]struct{}
	owners    map[string]*Layer

	loss         loss.Func
	attachAll    bool
	tape         *autograd.Tape
	initializers *initializer.Registry

	// parent receives Attach and Detach once this model is nested.
	parent *Model
}

// ModelOption configures a Model.
type ModelOption func(*modelOptions)

type modelOptions struct {
	lossName     string
	lossFunc     loss.Func
	losses       *loss.Registry
	attachAll    bool
	tape         *autograd.Tape
	initializers *initializer.Registry
}

// WithLoss selects a built-in loss by name (softmax, logistic, svm,
// mae_regression, linear_regression).
func WithLoss(name string) ModelOption {
	return func(o *modelOptions) {
		o.lossName = name
	}
}

// WithLossFunc sets a custom loss function.
func WithLossFunc(fn loss.Func) ModelOption {
	return func(o *modelOptions) {
		o.lossFunc = fn
	}
}

// WithLosses replaces the registry WithLoss names are resolved in.
func WithLosses(reg *loss.Registry) ModelOption {
	return func(o *modelOptions) {
		o.losses = reg
	}
}

// WithAttachAll controls whether every parameter is attached for gradient
// tracking as soon as it is initialized. Defaults to true.
func WithAttachAll(attachAll bool) ModelOption {
	return func(o *modelOptions) {
		o.attachAll = attachAll
	}
}

// WithTape sets the autograd tape parameters are marked on.
func WithTape(tape *autograd.Tape) ModelOption {
	return func(o *modelOptions) {
		o.tape = tape
	}
}

// WithInitializers replaces the registry init_rule names are resolved in.
func WithInitializers(reg *initializer.Registry) ModelOption {
	return func(o *modelOptions) {
		o.initializers = reg
	}
}

// NewModel creates an empty model.
func NewModel(opts ...ModelOption) (*Model, error) {
	o := modelOptions{attachAll: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tape == nil {
		o.tape = autograd.NewTape()
	}
	if o.initializers == nil {
		o.initializers = initializer.Default()
	}
	if o.losses == nil {
		o.losses = loss.Default()
	}

	m := &Model{
		params:        make(map[string]*tensor.Tensor),
		auxParams:     make(map[string]*tensor.Tensor),
		updateConfigs: config.Configs{},
		grads:         make(map[string]*tensor.Tensor),
		moduleSet:     make(map[Module]struct{}),
		names:         make(map[string]struct{}),
		owners:        make(map[string]*Layer),
		loss:          o.lossFunc,
		attachAll:     o.attachAll,
		tape:          o.tape,
		initializers:  o.initializers,
	}
	if o.lossName != "" {
		fn, err := o.losses.Lookup(o.lossName)
		if err != nil {
			return nil, err
		}
		m.loss = fn
	}
	return m, nil
}

// Register adds modules to the model and affiliates them.
//
// Returns ErrDuplicateModule if the same module was registered before and
// ErrDuplicateName if another module with the same name was.
func (m *Model) Register(modules ...Module) error {
	for _, mod := range modules {
		if err := m.register(mod); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) register(mod Module) error {
	if isNil(mod) {
		return ErrNotModule
	}
	if _, ok := m.moduleSet[mod]; ok {
		return errors.Wrapf(ErrDuplicateModule, "%s", mod.Name())
	}
	if _, ok := m.names[mod.Name()]; ok {
		return errors.Wrapf(ErrDuplicateName, "%s", mod.Name())
	}
	if err := m.affiliate(mod); err != nil {
		return errors.WithMessagef(err, "register %s", mod.Name())
	}
	m.moduleSet[mod] = struct{}{}
	m.names[mod.Name()] = struct{}{}
	m.modules = append(m.modules, mod)
	return nil
}

// affiliate binds every layer of mod into m, or none of them.
func (m *Model) affiliate(mod Module) error {
	var (
		leaves  []*Layer
		seen    = make(map[*Layer]bool)
		pending = make(map[string]*Layer)
	)
	for _, l := range mod.layers() {
		if seen[l] {
			continue
		}
		seen[l] = true
		if err := l.checkAffiliate(m, pending); err != nil {
			return err
		}
		leaves = append(leaves, l)
	}
	for _, l := range leaves {
		l.bind(m)
	}
	return nil
}

// RegisterAll walks values and registers every Module found.
//
// Slices, arrays and maps are walked recursively (maps in key order),
// nested *Model values and custom models embedding *Model are composed with
// RegisterModel, strings and any
// other values are skipped.
func (m *Model) RegisterAll(values ...any) error {
	for _, v := range values {
		if err := m.registerValue(v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) registerValue(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case *Model:
		return m.RegisterModel(x)
	case modelHolder:
		return m.RegisterModel(x.baseModel())
	case Module:
		return m.register(x)
	case string:
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := m.registerValue(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			if err := m.registerValue(rv.MapIndex(k).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// modelHolder is satisfied by custom models embedding *Model.
type modelHolder interface {
	baseModel() *Model
}

func (m *Model) baseModel() *Model {
	return m
}

// RegisterModel nests inner into m: inner's Attach and Detach delegate to m,
// so gradients of both live in m.
//
// The caller must ensure the two parameter namespaces do not collide.
func (m *Model) RegisterModel(inner *Model) error {
	if inner == nil {
		return ErrNotModule
	}
	for p := m; p != nil; p = p.parent {
		if p == inner {
			return errors.New("nn: model cannot be nested into itself")
		}
	}
	inner.parent = m
	return nil
}

// Modules returns the directly registered modules in registration order.
func (m *Model) Modules() []Module {
	return append([]Module(nil), m.modules...)
}

// Param returns the tensor stored under a global parameter name.
func (m *Model) Param(name string) (*tensor.Tensor, bool) {
	t, ok := m.params[name]
	return t, ok
}

// SetParam stores t under a global parameter name. Setting a parameter
// before the owning layer runs pre-loads it: initialization keeps it.
func (m *Model) SetParam(name string, t *tensor.Tensor) {
	m.params[name] = t
}

// Params returns a copy of the parameter mapping.
func (m *Model) Params() map[string]*tensor.Tensor {
	return copyTensors(m.params)
}

// ParamNames returns the initialized parameter names in sorted order.
func (m *Model) ParamNames() []string {
	names := make([]string, 0, len(m.params))
	for name := range m.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuxParam returns the tensor stored under a global aux-parameter name.
func (m *Model) AuxParam(name string) (*tensor.Tensor, bool) {
	t, ok := m.auxParams[name]
	return t, ok
}

// SetAuxParam stores t under a global aux-parameter name.
func (m *Model) SetAuxParam(name string, t *tensor.Tensor) {
	m.auxParams[name] = t
}

// AuxParams returns a copy of the aux-parameter mapping.
func (m *Model) AuxParams() map[string]*tensor.Tensor {
	return copyTensors(m.auxParams)
}

// UpdateConfigs returns a deep copy of the update configuration.
func (m *Model) UpdateConfigs() config.Configs {
	return m.updateConfigs.Clone()
}

// AddParam always fails: parameters belong to layers.
func (m *Model) AddParam(string, *tensor.Tensor) error {
	return errors.Wrap(ErrNotImplemented, "model add param")
}

// AddParams always fails: parameters belong to layers.
func (m *Model) AddParams(map[string]*tensor.Tensor) error {
	return errors.Wrap(ErrNotImplemented, "model add params")
}

// AddAuxParam always fails: aux-parameters belong to layers.
func (m *Model) AddAuxParam(string, *tensor.Tensor) error {
	return errors.Wrap(ErrNotImplemented, "model add aux param")
}

// Attach registers t for gradient tracking under name.
//
// The first call for a name allocates a zero accumulator shaped like t and
// marks the pair on the tape. Later calls for the same name do nothing.
// A nested model delegates to its parent.
func (m *Model) Attach(name string, t *tensor.Tensor) error {
	if m.parent != nil {
		return m.parent.Attach(name, t)
	}
	if t == nil {
		return errors.Errorf("attach %q: nil tensor", name)
	}
	if _, ok := m.grads[name]; ok {
		return nil
	}
	grad := tensor.ZerosLike(t)
	m.grads[name] = grad
	m.tape.MarkVariable(t, grad)
	return nil
}

// Detach is reserved and always fails.
func (m *Model) Detach(name string) error {
	if m.parent != nil {
		return m.parent.Detach(name)
	}
	return errors.Wrapf(ErrNotImplemented, "detach %q", name)
}

// Grad returns the gradient accumulator of an attached parameter.
func (m *Model) Grad(name string) (*tensor.Tensor, bool) {
	g, ok := m.grads[name]
	return g, ok
}

// Grads returns a copy of the gradient accumulator mapping.
func (m *Model) Grads() map[string]*tensor.Tensor {
	return copyTensors(m.grads)
}

// GradAndLoss is reserved and always fails.
func (m *Model) GradAndLoss(data, labels *tensor.Tensor) (map[string]*tensor.Tensor, float64, error) {
	return nil, 0, errors.Wrap(ErrNotImplemented, "grad and loss")
}

// Forward is the placeholder for models that do not define their own.
func (m *Model) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	return nil, errors.Wrap(ErrNotImplemented, "model forward")
}

// Tape returns the autograd tape parameters are marked on.
func (m *Model) Tape() *autograd.Tape {
	return m.tape
}

// Loss evaluates the model's loss on predictions and labels.
func (m *Model) Loss(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	if m.loss == nil {
		return 0, nil, ErrNoLoss
	}
	return m.loss(predictions, labels, isTrain)
}

// Training switches every registered module to training mode.
func (m *Model) Training() {
	for _, mod := range m.modules {
		mod.Training()
	}
}

// Inference switches every registered module to inference mode.
func (m *Model) Inference() {
	for _, mod := range m.modules {
		mod.Inference()
	}
}

// ForwardFunc is a model forward pass.
type ForwardFunc func(inputs ...*tensor.Tensor) (Outputs, error)

// Wrap returns forward guarded by mode and training scope: the model is
// switched to training or inference according to isTrain, and the tape's
// training state is set for the duration of the call.
func (m *Model) Wrap(forward ForwardFunc) func(isTrain bool, inputs ...*tensor.Tensor) (Outputs, error) {
	return func(isTrain bool, inputs ...*tensor.Tensor) (Outputs, error) {
		if isTrain {
			m.Training()
		} else {
			m.Inference()
		}
		restore := m.tape.TrainingScope(isTrain)
		defer restore()
		return forward(inputs...)
	}
}

func copyTensors(src map[string]*tensor.Tensor) map[string]*tensor.Tensor {
	out := make(map[string]*tensor.Tensor, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
