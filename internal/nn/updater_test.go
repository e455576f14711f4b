package nn

import (
	"testing"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/optim"
	"github.com/born-ml/modelbuilder/internal/parallel"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantModel builds a model holding p_weight and p_bias, both filled with 1.
func constantModel(t *testing.T, opts ...Option) (*Model, *probe) {
	t.Helper()
	base := []Option{
		WithName("p"),
		WithParams("weight", "bias"),
		WithInitConfigs(config.Overrides{config.InitRule: "constant", "value": 1.0}),
	}
	p := newProbe(t, NewBuilder(), append(base, opts...)...)
	m := newModel(t)
	require.NoError(t, m.Register(p))
	_, err := p.Call(ones(2))
	require.NoError(t, err)
	return m, p
}

func TestUpdater_SGDStep(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, map[string]any{"update_rule": "sgd", "learning_rate": 0.5})

	require.NoError(t, u.Step(map[string]*tensor.Tensor{
		"p_weight": tensor.Full(tensor.Shape{2}, 1),
		"p_bias":   tensor.Full(tensor.Shape{2}, 2),
	}))

	w, _ := m.Param("p_weight")
	bias, _ := m.Param("p_bias")
	assert.Equal(t, []float64{0.5, 0.5}, w.Data())
	assert.Equal(t, []float64{0, 0}, bias.Data())
}

func TestUpdater_OnlyNamedParams(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, map[string]any{"update_rule": "sgd", "learning_rate": 1.0})

	require.NoError(t, u.Step(map[string]*tensor.Tensor{"p_bias": ones(2)}))

	w, _ := m.Param("p_weight")
	bias, _ := m.Param("p_bias")
	assert.Equal(t, []float64{1, 1}, w.Data())
	assert.Equal(t, []float64{0, 0}, bias.Data())
}

func TestUpdater_UnspecifiedRuleFails(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, nil)

	err := u.Step(map[string]*tensor.Tensor{"p_weight": ones(2)})
	assert.ErrorIs(t, err, optim.ErrUnknownRule)

	cfg, err := u.Param("p_weight")
	require.NoError(t, err)
	rule, _ := cfg.Get(config.UpdateRule)
	assert.Equal(t, UnspecifiedRule, rule, "configuration untouched by a failed step")
}

func TestUpdater_UnknownParam(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, map[string]any{"update_rule": "sgd"})

	err := u.Step(map[string]*tensor.Tensor{"q_weight": ones(2)})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestUpdater_Isolation(t *testing.T) {
	m, _ := constantModel(t, WithUpdateConfigs(config.Overrides{"update_rule": "sgd", "learning_rate": 0.1}))

	a := NewUpdater(m, map[string]any{"learning_rate": 0.2})
	b := NewUpdater(m, nil)

	lrA, err := a.Get("learning_rate")
	require.NoError(t, err)
	lrB, err := b.Get("learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 0.2, lrA)
	assert.Equal(t, 0.1, lrB)
	assert.Equal(t, 0.1, m.UpdateConfigs()["p_weight"]["learning_rate"])
}

func TestUpdater_StepIsolation(t *testing.T) {
	m, _ := constantModel(t)
	a := NewUpdater(m, map[string]any{"update_rule": "sgd_momentum", "learning_rate": 0.1})
	b := NewUpdater(m, map[string]any{"update_rule": "sgd"})

	require.NoError(t, a.Step(map[string]*tensor.Tensor{"p_weight": ones(2)}))

	refA, err := a.Param("p_weight")
	require.NoError(t, err)
	_, ok := refA.Get("velocity")
	assert.True(t, ok)

	refB, err := b.Param("p_weight")
	require.NoError(t, err)
	_, ok = refB.Get("velocity")
	assert.False(t, ok, "velocity stays in the stepping updater")
	rule, _ := refB.Get(config.UpdateRule)
	assert.Equal(t, "sgd", rule)

	_, ok = m.UpdateConfigs()["p_weight"]["velocity"]
	assert.False(t, ok)
	assert.Equal(t, UnspecifiedRule, m.UpdateConfigs()["p_weight"][config.UpdateRule])
}

func TestUpdater_ParserAccess(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, map[string]any{"update_rule": "sgd", "learning_rate": 0.1})

	ref, err := u.Param("p_bias")
	require.NoError(t, err)
	ref.Set("learning_rate", 0.0)

	_, err = u.Get("learning_rate")
	assert.ErrorIs(t, err, config.ErrInconsistentAttr)
	assert.Equal(t, []string{"p_bias", "p_weight"}, u.Names())

	require.NoError(t, u.Step(map[string]*tensor.Tensor{"p_bias": ones(2), "p_weight": ones(2)}))
	bias, _ := m.Param("p_bias")
	w, _ := m.Param("p_weight")
	assert.Equal(t, []float64{1, 1}, bias.Data(), "zero learning rate freezes the bias")
	assert.InDeltaSlice(t, []float64{0.9, 0.9}, w.Data(), 1e-12)
}

func TestUpdater_MomentumStateKept(t *testing.T) {
	m, _ := constantModel(t)
	u := NewUpdater(m, map[string]any{"update_rule": "sgd_momentum", "learning_rate": 0.1, "momentum": 0.5})
	grads := map[string]*tensor.Tensor{"p_weight": ones(2)}

	require.NoError(t, u.Step(grads))
	require.NoError(t, u.Step(grads))

	// v1 = -0.1, v2 = 0.5*-0.1 - 0.1 = -0.15
	w, _ := m.Param("p_weight")
	assert.InDeltaSlice(t, []float64{0.75, 0.75}, w.Data(), 1e-12)

	ref, err := u.Param("p_weight")
	require.NoError(t, err)
	_, ok := ref.Get("velocity")
	assert.True(t, ok)
	_, ok = m.UpdateConfigs()["p_weight"]["velocity"]
	assert.False(t, ok, "optimizer state stays in the updater")
}

func TestUpdater_CustomRule(t *testing.T) {
	m, _ := constantModel(t)
	rules := optim.NewRegistry()
	rules.Register("zero", func(param, _ *tensor.Tensor, _ config.Config) (*tensor.Tensor, config.Config, error) {
		return tensor.ZerosLike(param), nil, nil
	})
	u := NewUpdater(m, map[string]any{"update_rule": "zero"}, WithRules(rules))

	require.NoError(t, u.Step(map[string]*tensor.Tensor{"p_weight": ones(2)}))
	w, _ := m.Param("p_weight")
	assert.Equal(t, []float64{0, 0}, w.Data())
	assert.Same(t, m, u.Model())
}

func TestUpdater_FailedStepCommitsNothing(t *testing.T) {
	m, p := constantModel(t)
	require.NoError(t, p.RegisterUpdateConfigs(config.Overrides{
		"update_rule": "sgd",
		"weight":      config.Config{"update_rule": "missing"},
	}))
	u := NewUpdater(m, nil)

	err := u.Step(map[string]*tensor.Tensor{"p_bias": ones(2), "p_weight": ones(2)})
	assert.ErrorIs(t, err, optim.ErrUnknownRule)

	bias, _ := m.Param("p_bias")
	assert.Equal(t, []float64{1, 1}, bias.Data())
}

func TestUpdater_Parallel(t *testing.T) {
	seqModel, _ := constantModel(t)
	parModel, _ := constantModel(t)
	globals := map[string]any{"update_rule": "adam", "learning_rate": 0.1}
	grads := map[string]*tensor.Tensor{
		"p_weight": tensor.MustNew(tensor.Shape{2}, []float64{1, -2}),
		"p_bias":   tensor.MustNew(tensor.Shape{2}, []float64{0.5, 3}),
	}

	seq := NewUpdater(seqModel, globals)
	par := NewUpdater(parModel, globals, WithParallel(parallel.Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1}))
	for i := 0; i < 3; i++ {
		require.NoError(t, seq.Step(grads))
		require.NoError(t, par.Step(grads))
	}

	for _, name := range []string{"p_weight", "p_bias"} {
		want, _ := seqModel.Param(name)
		got, _ := parModel.Param(name)
		assert.Equal(t, want.Data(), got.Data(), name)
	}
}
