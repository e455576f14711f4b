package nn

import (
	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/naming"
	"github.com/pkg/errors"
)

// Builder is the naming context for module construction.
//
// Each Builder owns its Namer, so default names are deterministic per
// Builder and never leak between independent networks or tests.
type Builder struct {
	namer naming.Namer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithNamer replaces the default per-kind counter.
func WithNamer(n naming.Namer) BuilderOption {
	return func(b *Builder) {
		b.namer = n
	}
}

// NewBuilder creates a Builder naming modules kind0, kind1, ... per kind.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{namer: naming.NewCounter()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option configures a single module at construction.
type Option func(*moduleOptions)

type moduleOptions struct {
	name          string
	params        []string
	auxParams     []string
	initConfigs   []config.Overrides
	updateConfigs []config.Overrides
}

// WithName gives the module an explicit name instead of a generated one.
func WithName(name string) Option {
	return func(o *moduleOptions) {
		o.name = name
	}
}

// WithParams declares local parameter names of a layer.
func WithParams(names ...string) Option {
	return func(o *moduleOptions) {
		o.params = append(o.params, names...)
	}
}

// WithAuxParams declares local aux-parameter names of a layer.
func WithAuxParams(names ...string) Option {
	return func(o *moduleOptions) {
		o.auxParams = append(o.auxParams, names...)
	}
}

// WithInitConfigs registers init configuration overrides right after the
// layer defaults. Keys may be local parameter names.
func WithInitConfigs(ov config.Overrides) Option {
	return func(o *moduleOptions) {
		o.initConfigs = append(o.initConfigs, ov)
	}
}

// WithUpdateConfigs registers update configuration overrides right after
// the layer defaults. Keys may be local parameter names.
func WithUpdateConfigs(ov config.Overrides) Option {
	return func(o *moduleOptions) {
		o.updateConfigs = append(o.updateConfigs, ov)
	}
}

func applyOptions(opts []Option) moduleOptions {
	var o moduleOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newBase resolves the identity of a module of the given kind.
func (b *Builder) newBase(kind string, o moduleOptions) (base, error) {
	if kind == "" {
		return base{}, ErrNoKind
	}
	if o.name != "" {
		return base{name: o.name, kind: kind}, nil
	}
	if b == nil || b.namer == nil {
		return base{}, errors.Wrapf(ErrNoBuilder, "kind %q", kind)
	}
	return base{name: b.namer.Next(kind), kind: kind}, nil
}
