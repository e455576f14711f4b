package main

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/born-ml/modelbuilder/config"
	"github.com/born-ml/modelbuilder/internal/numgrad"
	"github.com/born-ml/modelbuilder/nn"
	"github.com/born-ml/modelbuilder/tensor"
	"github.com/pkg/errors"
)

type trainOptions struct {
	Epochs       int
	Samples      int
	Hidden       int
	Rule         string
	LearningRate float64
	Seed         int64
	ConfigPath   string
	UUIDNames    bool
}

type trainResult struct {
	InitialLoss float64
	FinalLoss   float64
	Params      []string
}

// syntheticData samples x uniformly in [-2, 2] and targets y = sin(x).
func syntheticData(n int, seed int64) (x, y *tensor.Tensor) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic data
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()*4 - 2
		ys[i] = math.Sin(xs[i])
	}
	return tensor.MustNew(tensor.Shape{n, 1}, xs), tensor.MustNew(tensor.Shape{n, 1}, ys)
}

func buildNetwork(opts trainOptions) (*nn.Sequential, error) {
	var bopts []nn.BuilderOption
	if opts.UUIDNames {
		bopts = append(bopts, nn.WithUUIDNames())
	}
	b := nn.NewBuilder(bopts...)

	seeded := config.Overrides{"weight": config.Config{"seed": opts.Seed}}
	hidden, err := nn.NewFullyConnected(b, opts.Hidden, nn.WithInitConfigs(seeded))
	if err != nil {
		return nil, err
	}
	act, err := nn.NewTanh(b)
	if err != nil {
		return nil, err
	}
	out, err := nn.NewFullyConnected(b, 1, nn.WithInitConfigs(config.Overrides{"weight": config.Config{"seed": opts.Seed + 1}}))
	if err != nil {
		return nil, err
	}
	return b.Sequential(hidden, act, out)
}

func train(opts trainOptions, logger *slog.Logger) (*trainResult, error) {
	if opts.Epochs < 0 || opts.Samples <= 0 || opts.Hidden <= 0 {
		return nil, errors.Errorf("invalid options: epochs=%d samples=%d hidden=%d", opts.Epochs, opts.Samples, opts.Hidden)
	}

	net, err := buildNetwork(opts)
	if err != nil {
		return nil, errors.WithMessage(err, "build network")
	}
	model, err := nn.NewModel(nn.WithLoss("linear_regression"))
	if err != nil {
		return nil, err
	}
	if err := model.Register(net); err != nil {
		return nil, errors.WithMessage(err, "register network")
	}
	logger.Info("network declared", "modules", net.String())

	x, y := syntheticData(opts.Samples, opts.Seed)
	forward := model.Wrap(func(inputs ...*tensor.Tensor) (nn.Outputs, error) {
		return net.Call(inputs...)
	})
	objective := func() (float64, error) {
		out, err := forward(true, x)
		if err != nil {
			return 0, err
		}
		pred, err := out.Single()
		if err != nil {
			return 0, err
		}
		value, _, err := model.Loss(pred, y, false)
		return value, err
	}

	initial, err := objective()
	if err != nil {
		return nil, errors.WithMessage(err, "initial forward")
	}
	logger.Info("parameters initialized", "count", len(model.ParamNames()), "loss", initial)

	updater := nn.NewUpdater(model, map[string]any{
		config.UpdateRule: opts.Rule,
		"learning_rate":   opts.LearningRate,
	})
	if opts.ConfigPath != "" {
		overrides, err := config.LoadOverridesFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if err := updater.Apply(overrides); err != nil {
			return nil, errors.WithMessagef(err, "apply %s", opts.ConfigPath)
		}
		logger.Info("overrides applied", "path", opts.ConfigPath, "keys", len(overrides))
	}

	current := initial
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		grads, err := numgrad.Gradients(model, objective, numgrad.Options{})
		if err != nil {
			return nil, errors.WithMessagef(err, "epoch %d", epoch)
		}
		if err := updater.Step(grads); err != nil {
			return nil, errors.WithMessagef(err, "epoch %d", epoch)
		}
		if current, err = objective(); err != nil {
			return nil, errors.WithMessagef(err, "epoch %d", epoch)
		}
		logger.Debug("step", "epoch", epoch, "loss", current)
	}

	logger.Info("training done", "epochs", opts.Epochs, "loss", current)
	return &trainResult{InitialLoss: initial, FinalLoss: current, Params: model.ParamNames()}, nil
}
