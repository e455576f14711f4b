package config

import (
	"sort"

	"github.com/pkg/errors"
)

// Well-known configuration keys.
const (
	InitRule   = "init_rule"
	UpdateRule = "update_rule"
)

// Config is the configuration of a single parameter.
type Config map[string]any

// Clone returns a shallow copy of c.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Update copies every key of other into c, overwriting existing keys.
func (c Config) Update(other Config) {
	for k, v := range other {
		c[k] = v
	}
}

// Float returns key as float64, accepting any Go numeric kind.
func (c Config) Float(key string) (float64, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.Wrapf(ErrMissingKey, "%q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, errors.Wrapf(ErrWrongType, "%q is %T, want number", key, v)
}

// FloatOr returns key as float64, or def when the key is absent.
func (c Config) FloatOr(key string, def float64) (float64, error) {
	if _, ok := c[key]; !ok {
		return def, nil
	}
	return c.Float(key)
}

// Int returns key as int. Floats are accepted when they hold an integral value.
func (c Config) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.Wrapf(ErrMissingKey, "%q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, errors.Wrapf(ErrWrongType, "%q is %v (%T), want integer", key, v, v)
}

// String returns key as string.
func (c Config) String(key string) (string, error) {
	v, ok := c[key]
	if !ok {
		return "", errors.Wrapf(ErrMissingKey, "%q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Wrapf(ErrWrongType, "%q is %T, want string", key, v)
	}
	return s, nil
}

// Configs maps global parameter names to their configuration.
type Configs map[string]Config

// Clone copies the mapping and every entry, so that mutating the clone's
// entries leaves cs untouched.
func (cs Configs) Clone() Configs {
	out := make(Configs, len(cs))
	for name, c := range cs {
		out[name] = c.Clone()
	}
	return out
}

// Names returns the entry names in sorted order.
func (cs Configs) Names() []string {
	names := make([]string, 0, len(cs))
	for name := range cs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overrides is the input to Register.
//
// A key naming an existing entry carries a Config (or map[string]any) merged
// into that entry. Any other key is a global attribute set on every entry.
type Overrides map[string]any

// Group expands a group override: each named entry receives its own copy of cfg.
// It returns o to allow chaining.
func (o Overrides) Group(cfg Config, names ...string) Overrides {
	for _, name := range names {
		o[name] = cfg.Clone()
	}
	return o
}

// asConfig reports whether v is a mapping usable as a parameter-specific override.
func asConfig(v any) (Config, bool) {
	switch m := v.(type) {
	case Config:
		return m, true
	case map[string]any:
		return Config(m), true
	}
	return nil, false
}

// Register merges toRegister into configs.
//
// Global attributes (keys not present in configs) are set on every entry
// first. Parameter-specific entries (keys present in configs) are then merged
// onto their existing entry, so within one call the specific value wins.
//
// Nothing is modified when an error is returned.
func Register(configs Configs, toRegister Overrides) error {
	global := make(map[string]any)
	specific := make(map[string]Config)

	for key, value := range toRegister {
		cfg, isMap := asConfig(value)
		if _, exists := configs[key]; exists {
			if !isMap {
				return errors.Wrapf(ErrInvalidOverride, "entry %q needs a mapping, got %T", key, value)
			}
			specific[key] = cfg
			continue
		}
		if isMap {
			return errors.Wrapf(ErrInvalidOverride, "mapping given for unknown entry %q", key)
		}
		global[key] = value
	}

	for name, cfg := range configs {
		if cfg == nil {
			configs[name] = Config{}
		}
	}
	for attr, value := range global {
		for _, cfg := range configs {
			cfg[attr] = value
		}
	}
	for name, cfg := range specific {
		configs[name].Update(cfg)
	}
	return nil
}
