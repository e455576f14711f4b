package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// GroupsKey is the reserved top-level YAML key holding group overrides.
const GroupsKey = "groups"

type groupSpec struct {
	Params []string       `yaml:"params"`
	Config map[string]any `yaml:"config"`
}

// LoadOverrides decodes Overrides from YAML.
//
// Scalars at the top level are global attributes, mappings are
// parameter-specific entries, and the optional groups list is expanded:
//
//	learning_rate: 0.01
//	update_rule: sgd_momentum
//	fc0_bias:
//	  learning_rate: 0
//	groups:
//	  - params: [fc1_weight, fc2_weight]
//	    config: {momentum: 0.5}
func LoadOverrides(r io.Reader) (Overrides, error) {
	var doc struct {
		Groups []groupSpec    `yaml:"groups"`
		Rest   map[string]any `yaml:",inline"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Overrides{}, nil
		}
		return nil, errors.Wrap(err, "decode overrides")
	}

	out := make(Overrides, len(doc.Rest))
	for key, value := range doc.Rest {
		if m, ok := value.(map[string]any); ok {
			out[key] = Config(m)
			continue
		}
		out[key] = value
	}
	for i, g := range doc.Groups {
		if len(g.Params) == 0 {
			return nil, errors.Wrapf(ErrInvalidOverride, "group %d: no params", i)
		}
		out.Group(Config(g.Config), g.Params...)
	}
	return out, nil
}

// LoadOverridesFile reads Overrides from a YAML file.
func LoadOverridesFile(path string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open overrides")
	}
	defer f.Close()
	return LoadOverrides(f)
}
