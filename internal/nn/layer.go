package nn

import (
	"sort"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/initializer"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// UnspecifiedRule is the update_rule every parameter starts with. An Updater
// fails on it unless the user configured a real rule.
const UnspecifiedRule = "unspecified"

// Forwarder computes a layer's outputs from bound parameters.
type Forwarder interface {
	Forward(inputs ...*tensor.Tensor) (Outputs, error)
}

// ParamShaper reports parameter shapes, keyed by local name, for the given
// input shapes. Layers without it have no parameters.
type ParamShaper interface {
	ParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error)
}

// AuxParamShaper reports aux-parameter shapes, keyed by local name.
type AuxParamShaper interface {
	AuxParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error)
}

// InitPolicy replaces the default init configuration of a local parameter.
type InitPolicy interface {
	DefaultInitConfig(local string) config.Config
}

// Layer is a leaf module owning named parameters.
//
// A Layer owns only names and configuration. The tensors live in the
// affiliated Model, keyed by global name "{layer}_{local}". Parameters are
// created on the first Call from the input shapes; later calls never
// re-create them, even for different shapes. Tensors already present in the
// Model are kept as they are.
//
// Custom layers embed *Layer and pass themselves as impl:
//
//	type Scale struct{ *nn.Layer }
//
//	func NewScale(b *nn.Builder) (*Scale, error) {
//	    s := &Scale{}
//	    l, err := nn.NewLayer(b, "scale", s, nn.WithParams("gamma"))
//	    s.Layer = l
//	    return s, err
//	}
type Layer struct {
	base
	impl Forwarder

	localParams  []string
	globalParams []string
	localAux     []string
	globalAux    []string

	initConfigs   config.Configs
	updateConfigs config.Configs

	mode      Mode
	needsInit bool

	// model is a non-owning back-reference, nil until affiliation.
	model *Model
}

// NewLayer creates a layer of the given kind backed by impl.
//
// Init configurations start from impl's InitPolicy when present, else from
// initializer.DefaultConfigFor each local name. Every parameter starts with
// update_rule "unspecified". WithInitConfigs and WithUpdateConfigs options
// are registered on top, in order.
func NewLayer(b *Builder, kind string, impl Forwarder, opts ...Option) (*Layer, error) {
	o := applyOptions(opts)
	id, err := b.newBase(kind, o)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, errors.Errorf("layer %s: nil implementation", id.name)
	}

	l := &Layer{
		base:          id,
		impl:          impl,
		localParams:   append([]string(nil), o.params...),
		localAux:      append([]string(nil), o.auxParams...),
		initConfigs:   config.Configs{},
		updateConfigs: config.Configs{},
		mode:          ModeTraining,
		needsInit:     true,
	}

	seen := make(map[string]bool)
	for _, local := range append(l.Params(), l.localAux...) {
		if seen[local] {
			return nil, errors.Wrapf(ErrDuplicateParam, "layer %s declares %q twice", l.name, local)
		}
		seen[local] = true
	}
	l.globalParams = l.globalNames(l.localParams)
	l.globalAux = l.globalNames(l.localAux)

	for _, name := range l.globalParams {
		l.initConfigs[name] = config.Config{}
		l.updateConfigs[name] = config.Config{}
	}
	for _, name := range l.globalAux {
		l.initConfigs[name] = config.Config{}
	}

	policy, custom := impl.(InitPolicy)
	defaults := config.Overrides{}
	for _, local := range append(l.Params(), l.localAux...) {
		if custom {
			defaults[local] = policy.DefaultInitConfig(local)
		} else {
			defaults[local] = initializer.DefaultConfigFor(local)
		}
	}
	if err := l.RegisterInitConfigs(defaults); err != nil {
		return nil, err
	}
	if err := l.RegisterUpdateConfigs(config.Overrides{config.UpdateRule: UnspecifiedRule}); err != nil {
		return nil, err
	}

	for _, ov := range o.initConfigs {
		if err := l.RegisterInitConfigs(ov); err != nil {
			return nil, err
		}
	}
	for _, ov := range o.updateConfigs {
		if err := l.RegisterUpdateConfigs(ov); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Layer) globalNames(locals []string) []string {
	out := make([]string, len(locals))
	for i, local := range locals {
		out[i] = l.name + "_" + local
	}
	return out
}

// Params returns the local parameter names in declaration order.
func (l *Layer) Params() []string {
	return append([]string(nil), l.localParams...)
}

// ParamNames returns the global parameter names in declaration order.
func (l *Layer) ParamNames() []string {
	return append([]string(nil), l.globalParams...)
}

// AuxParamNames returns the global aux-parameter names in declaration order.
func (l *Layer) AuxParamNames() []string {
	return append([]string(nil), l.globalAux...)
}

// ParamName translates a local parameter or aux-parameter name to its
// global name.
func (l *Layer) ParamName(local string) (string, error) {
	for i, name := range l.localParams {
		if name == local {
			return l.globalParams[i], nil
		}
	}
	for i, name := range l.localAux {
		if name == local {
			return l.globalAux[i], nil
		}
	}
	return "", errors.Wrapf(ErrUnknownParam, "layer %s has no %q", l.name, local)
}

// parseOverrides translates local-name keys to global names. Other keys are
// passed through untouched. A local and a global key naming the same
// parameter in one override set are rejected.
func (l *Layer) parseOverrides(ov config.Overrides) (config.Overrides, error) {
	out := make(config.Overrides, len(ov))
	for key, value := range ov {
		if global, err := l.ParamName(key); err == nil {
			if _, clash := ov[global]; clash {
				return nil, errors.Wrapf(config.ErrInvalidOverride, "%q and %q name the same parameter", key, global)
			}
			out[global] = value
			continue
		}
		out[key] = value
	}
	return out, nil
}

// RegisterInitConfigs merges init overrides keyed by local name, global
// name or global attribute.
func (l *Layer) RegisterInitConfigs(ov config.Overrides) error {
	parsed, err := l.parseOverrides(ov)
	if err == nil {
		err = config.Register(l.initConfigs, parsed)
	}
	if err != nil {
		return errors.WithMessagef(err, "layer %s init configs", l.name)
	}
	return nil
}

// RegisterUpdateConfigs merges update overrides keyed by local name, global
// name or global attribute.
//
// Once the layer is affiliated, its entries are shared with the Model, so
// later registrations are visible there too.
func (l *Layer) RegisterUpdateConfigs(ov config.Overrides) error {
	parsed, err := l.parseOverrides(ov)
	if err == nil {
		err = config.Register(l.updateConfigs, parsed)
	}
	if err != nil {
		return errors.WithMessagef(err, "layer %s update configs", l.name)
	}
	return nil
}

// InitConfigs returns a copy of the init configuration, keyed by global name.
func (l *Layer) InitConfigs() config.Configs {
	return l.initConfigs.Clone()
}

// UpdateConfigs returns a copy of the update configuration, keyed by global name.
func (l *Layer) UpdateConfigs() config.Configs {
	return l.updateConfigs.Clone()
}

// AddParam always fails: parameters are declared at construction.
func (l *Layer) AddParam(string) error {
	return errors.Wrap(ErrNotImplemented, "add param after construction")
}

// Call initializes the layer on its first invocation, then runs Forward.
//
// Returns ErrUnbound if the layer is not affiliated to a Model and
// ErrContextMismatch if the inputs do not share one context.
func (l *Layer) Call(inputs ...*tensor.Tensor) (Outputs, error) {
	if l.model == nil {
		return nil, errors.Wrapf(ErrUnbound, "layer %s", l.name)
	}
	if l.needsInit {
		if err := l.initialize(inputs); err != nil {
			return nil, errors.WithMessagef(err, "layer %s", l.name)
		}
	}
	return l.impl.Forward(inputs...)
}

// Initialized reports whether the parameter-creation pass has run.
func (l *Layer) Initialized() bool {
	return !l.needsInit
}

func (l *Layer) initialize(inputs []*tensor.Tensor) error {
	var (
		shapes []tensor.Shape
		ctx    = tensor.DefaultContext
		found  bool
	)
	for _, t := range inputs {
		if t == nil {
			continue
		}
		if found && t.Context() != ctx {
			return errors.Wrapf(ErrContextMismatch, "inputs in %s and %s", ctx, t.Context())
		}
		ctx, found = t.Context(), true
		shapes = append(shapes, t.Shape())
	}

	if shaper, ok := l.impl.(ParamShaper); ok {
		params, err := shaper.ParamShapes(shapes...)
		if err != nil {
			return errors.WithMessage(err, "param shapes")
		}
		if err := l.fill(l.model.params, l.localParams, l.globalParams, params, ctx, true); err != nil {
			return err
		}
	}
	if shaper, ok := l.impl.(AuxParamShaper); ok {
		aux, err := shaper.AuxParamShapes(shapes...)
		if err != nil {
			return errors.WithMessage(err, "aux param shapes")
		}
		if err := l.fill(l.model.auxParams, l.localAux, l.globalAux, aux, ctx, false); err != nil {
			return err
		}
	}

	l.needsInit = false
	return nil
}

// fill creates every tensor named in shapes that store does not hold yet.
func (l *Layer) fill(store map[string]*tensor.Tensor, locals, globals []string,
	shapes map[string]tensor.Shape, ctx tensor.Context, attach bool) error {
	declared := make(map[string]bool, len(locals))
	for _, local := range locals {
		declared[local] = true
	}
	var unknown []string
	for local := range shapes {
		if !declared[local] {
			unknown = append(unknown, local)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Wrapf(ErrUnknownParam, "shapes given for undeclared %v", unknown)
	}

	for i, local := range locals {
		shape, ok := shapes[local]
		if !ok {
			continue
		}
		name := globals[i]
		if _, exists := store[name]; !exists {
			t, err := l.model.initializers.Init(shape, l.initConfigs[name])
			if err != nil {
				return errors.WithMessagef(err, "initialize %s", name)
			}
			store[name] = t.AsInContext(ctx)
		}
		if attach && l.model.attachAll {
			if err := l.model.Attach(name, store[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Model returns the affiliated model, or nil while unbound.
func (l *Layer) Model() *Model {
	return l.model
}

// Bound reports whether the layer is affiliated to a Model.
func (l *Layer) Bound() bool {
	return l.model != nil
}

func (l *Layer) layers() []*Layer {
	return []*Layer{l}
}

// checkAffiliate reports whether l can be bound into m. pending holds the
// global names claimed by other layers of the same registration.
func (l *Layer) checkAffiliate(m *Model, pending map[string]*Layer) error {
	if l.model != nil && l.model != m {
		return errors.Wrapf(ErrAlreadyBound, "layer %s", l.name)
	}
	for _, name := range append(l.ParamNames(), l.globalAux...) {
		owner, ok := m.owners[name]
		if !ok {
			owner, ok = pending[name]
		}
		if ok && owner != l {
			return errors.Wrapf(ErrDuplicateParam, "%q claimed by %s and %s", name, owner.name, l.name)
		}
		pending[name] = l
	}
	return nil
}

// bind shares l's update configuration with m and sets the back-reference.
// checkAffiliate must have succeeded first.
func (l *Layer) bind(m *Model) {
	for _, name := range append(l.ParamNames(), l.globalAux...) {
		m.owners[name] = l
	}
	for name, cfg := range l.updateConfigs {
		m.updateConfigs[name] = cfg
	}
	l.model = m
}

// Param returns the tensor of a local parameter or aux-parameter.
func (l *Layer) Param(local string) (*tensor.Tensor, error) {
	if l.model == nil {
		return nil, errors.Wrapf(ErrUnbound, "layer %s", l.name)
	}
	name, err := l.ParamName(local)
	if err != nil {
		return nil, err
	}
	if t, ok := l.model.params[name]; ok {
		return t, nil
	}
	if t, ok := l.model.auxParams[name]; ok {
		return t, nil
	}
	return nil, errors.Wrapf(ErrNotInitialized, "%q", name)
}

// SetAuxParam replaces the tensor of a local aux-parameter in the Model.
func (l *Layer) SetAuxParam(local string, t *tensor.Tensor) error {
	if l.model == nil {
		return errors.Wrapf(ErrUnbound, "layer %s", l.name)
	}
	for i, name := range l.localAux {
		if name == local {
			l.model.auxParams[l.globalAux[i]] = t
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownParam, "layer %s has no aux param %q", l.name, local)
}

// ParamDict returns the layer's parameters keyed by global name.
func (l *Layer) ParamDict() (map[string]*tensor.Tensor, error) {
	return l.collect(l.globalParams, func(m *Model) map[string]*tensor.Tensor { return m.params })
}

// AuxParamDict returns the layer's aux-parameters keyed by global name.
func (l *Layer) AuxParamDict() (map[string]*tensor.Tensor, error) {
	return l.collect(l.globalAux, func(m *Model) map[string]*tensor.Tensor { return m.auxParams })
}

func (l *Layer) collect(names []string, store func(*Model) map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error) {
	if l.model == nil {
		return nil, errors.Wrapf(ErrUnbound, "layer %s", l.name)
	}
	src := store(l.model)
	out := make(map[string]*tensor.Tensor, len(names))
	for _, name := range names {
		t, ok := src[name]
		if !ok {
			return nil, errors.Wrapf(ErrNotInitialized, "%q", name)
		}
		out[name] = t
	}
	return out, nil
}

// Mode returns the current mode.
func (l *Layer) Mode() Mode {
	return l.mode
}

// IsTraining reports whether the layer is in training mode.
func (l *Layer) IsTraining() bool {
	return l.mode == ModeTraining
}

// Training switches the layer to training mode.
func (l *Layer) Training() {
	l.mode = ModeTraining
}

// Inference switches the layer to inference mode.
func (l *Layer) Inference() {
	l.mode = ModeInference
}
