package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigs() Configs {
	return Configs{
		"fc0_weight": {"update_rule": "sgd"},
		"fc0_bias":   {"update_rule": "sgd"},
	}
}

// TestRegister_GlobalAppliesToAll verifies that unknown keys reach every entry.
func TestRegister_GlobalAppliesToAll(t *testing.T) {
	configs := newConfigs()

	err := Register(configs, Overrides{"learning_rate": 0.1})
	require.NoError(t, err)

	for name, cfg := range configs {
		assert.Equal(t, 0.1, cfg["learning_rate"], name)
	}
}

// TestRegister_SpecificWinsSameCall checks precedence inside one call.
func TestRegister_SpecificWinsSameCall(t *testing.T) {
	configs := newConfigs()

	err := Register(configs, Overrides{
		"learning_rate": 0.1,
		"fc0_bias":      Config{"learning_rate": 0.0},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.1, configs["fc0_weight"]["learning_rate"])
	assert.Equal(t, 0.0, configs["fc0_bias"]["learning_rate"])
}

// TestRegister_LaterCallWins checks precedence across calls regardless of specificity.
func TestRegister_LaterCallWins(t *testing.T) {
	configs := newConfigs()

	require.NoError(t, Register(configs, Overrides{"fc0_bias": Config{"learning_rate": 0.0}}))
	require.NoError(t, Register(configs, Overrides{"learning_rate": 0.5}))

	assert.Equal(t, 0.5, configs["fc0_bias"]["learning_rate"])
	assert.Equal(t, 0.5, configs["fc0_weight"]["learning_rate"])
}

func TestRegister_PlainMapAccepted(t *testing.T) {
	configs := newConfigs()

	require.NoError(t, Register(configs, Overrides{"fc0_weight": map[string]any{"momentum": 0.9}}))
	assert.Equal(t, 0.9, configs["fc0_weight"]["momentum"])
	assert.Equal(t, "sgd", configs["fc0_weight"]["update_rule"])
}

func TestRegister_InvalidOverride(t *testing.T) {
	tests := []struct {
		name string
		ov   Overrides
	}{
		{"scalar for entry", Overrides{"fc0_weight": 3.0}},
		{"mapping for unknown entry", Overrides{"fc9_weight": Config{"x": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := newConfigs()
			err := Register(configs, withGlobal(tt.ov, "learning_rate", 1.0))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOverride))
			// Nothing applied on failure.
			_, ok := configs["fc0_bias"]["learning_rate"]
			assert.False(t, ok)
		})
	}
}

func withGlobal(ov Overrides, attr string, value any) Overrides {
	out := Overrides{attr: value}
	for k, v := range ov {
		out[k] = v
	}
	return out
}

func TestOverrides_Group(t *testing.T) {
	shared := Config{"learning_rate": 0.3}
	ov := Overrides{}.Group(shared, "fc0_weight", "fc0_bias")

	configs := newConfigs()
	require.NoError(t, Register(configs, ov))
	assert.Equal(t, 0.3, configs["fc0_weight"]["learning_rate"])
	assert.Equal(t, 0.3, configs["fc0_bias"]["learning_rate"])

	// Members receive independent copies.
	configs["fc0_weight"]["learning_rate"] = 1.0
	assert.Equal(t, 0.3, configs["fc0_bias"]["learning_rate"])
	assert.Equal(t, 0.3, shared["learning_rate"])
}

func TestConfigs_CloneIsDeep(t *testing.T) {
	configs := newConfigs()
	clone := configs.Clone()
	clone["fc0_weight"]["update_rule"] = "adam"

	assert.Equal(t, "sgd", configs["fc0_weight"]["update_rule"])
	assert.Equal(t, []string{"fc0_bias", "fc0_weight"}, configs.Names())
}

func TestConfig_TypedGetters(t *testing.T) {
	cfg := Config{"lr": 1, "eps": float32(0.5), "rule": "sgd", "t": 3.0, "bad": "x"}

	lr, err := cfg.Float("lr")
	require.NoError(t, err)
	assert.Equal(t, 1.0, lr)

	eps, err := cfg.Float("eps")
	require.NoError(t, err)
	assert.Equal(t, 0.5, eps)

	n, err := cfg.Int("t")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rule, err := cfg.String("rule")
	require.NoError(t, err)
	assert.Equal(t, "sgd", rule)

	def, err := cfg.FloatOr("missing", 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.25, def)

	_, err = cfg.Float("bad")
	assert.True(t, errors.Is(err, ErrWrongType))
	_, err = cfg.String("missing")
	assert.True(t, errors.Is(err, ErrMissingKey))
}

func TestLoadOverrides(t *testing.T) {
	doc := `
learning_rate: 0.01
update_rule: sgd_momentum
fc0_bias:
  learning_rate: 0
groups:
  - params: [fc1_weight, fc2_weight]
    config: {momentum: 0.5}
`
	ov, err := LoadOverrides(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 0.01, ov["learning_rate"])
	assert.Equal(t, "sgd_momentum", ov["update_rule"])
	assert.Equal(t, Config{"learning_rate": 0}, ov["fc0_bias"])
	assert.Equal(t, Config{"momentum": 0.5}, ov["fc1_weight"])
	assert.Equal(t, Config{"momentum": 0.5}, ov["fc2_weight"])
	_, hasGroups := ov[GroupsKey]
	assert.False(t, hasGroups)
}

func TestLoadOverrides_Empty(t *testing.T) {
	ov, err := LoadOverrides(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ov)
}
