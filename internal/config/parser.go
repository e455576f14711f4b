package config

import (
	"reflect"

	"github.com/pkg/errors"
)

// Parser gives attribute-style access to a Configs mapping.
//
// Set and Get operate on every entry at once; Param narrows to a single entry.
// The Parser mutates the Configs it wraps.
type Parser struct {
	configs Configs
}

// NewParser wraps configs. The mapping is used as is, not copied.
func NewParser(configs Configs) *Parser {
	if configs == nil {
		configs = Configs{}
	}
	return &Parser{configs: configs}
}

// Get returns the value of attr shared by every entry that has it.
//
// Returns ErrInconsistentAttr when no entry has attr or entries disagree.
func (p *Parser) Get(attr string) (any, error) {
	var (
		value any
		found bool
	)
	for _, name := range p.configs.Names() {
		v, ok := p.configs[name][attr]
		if !ok {
			continue
		}
		if found && !reflect.DeepEqual(value, v) {
			return nil, errors.Wrapf(ErrInconsistentAttr, "%q: %v vs %v", attr, value, v)
		}
		value, found = v, true
	}
	if !found {
		return nil, errors.Wrapf(ErrInconsistentAttr, "%q: not set on any entry", attr)
	}
	return value, nil
}

// Set assigns attr on every entry.
func (p *Parser) Set(attr string, value any) {
	for name, cfg := range p.configs {
		if cfg == nil {
			cfg = Config{}
			p.configs[name] = cfg
		}
		cfg[attr] = value
	}
}

// Apply merges overrides with Register semantics.
func (p *Parser) Apply(overrides Overrides) error {
	return Register(p.configs, overrides)
}

// Param returns a reference to a single entry.
func (p *Parser) Param(name string) (*ParamRef, error) {
	cfg, ok := p.configs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEntry, "%q", name)
	}
	return &ParamRef{cfg: cfg}, nil
}

// Replace substitutes the whole configuration of name with a copy of cfg.
func (p *Parser) Replace(name string, cfg Config) {
	p.configs[name] = cfg.Clone()
}

// Names returns the entry names in sorted order.
func (p *Parser) Names() []string {
	return p.configs.Names()
}

// Snapshot returns a deep copy of the wrapped configuration.
func (p *Parser) Snapshot() Configs {
	return p.configs.Clone()
}

// ParamRef reads and writes one entry of a Parser.
type ParamRef struct {
	cfg Config
}

// Get returns attr of the entry.
func (r *ParamRef) Get(attr string) (any, bool) {
	v, ok := r.cfg[attr]
	return v, ok
}

// Set assigns attr on the entry.
func (r *ParamRef) Set(attr string, value any) {
	r.cfg[attr] = value
}

// Config returns a copy of the entry.
func (r *ParamRef) Config() Config {
	return r.cfg.Clone()
}
