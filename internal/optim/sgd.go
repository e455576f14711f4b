package optim

import (
	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/tensor"
)

// Default hyperparameters.
const (
	DefaultLearningRate = 1e-2
	DefaultMomentum     = 0.9
)

// SGD implements vanilla stochastic gradient descent.
//
// Update rule:
//
//	param = param - learning_rate * gradient
//
// Config: learning_rate (default 1e-2). Returns no state.
func SGD(param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
	lr, err := cfg.FloatOr("learning_rate", DefaultLearningRate)
	if err != nil {
		return nil, nil, err
	}
	next, err := tensor.AddScaled(param, -lr, grad)
	if err != nil {
		return nil, nil, err
	}
	return next, config.Config{}, nil
}

// SGDMomentum implements stochastic gradient descent with momentum.
//
// Update rule:
//
//	velocity = momentum * velocity - learning_rate * gradient
//	param = param + velocity
//
// Config: learning_rate (default 1e-2), momentum (default 0.9), velocity
// (state, zeros on the first step). Returns the new velocity.
func SGDMomentum(param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
	lr, err := cfg.FloatOr("learning_rate", DefaultLearningRate)
	if err != nil {
		return nil, nil, err
	}
	momentum, err := cfg.FloatOr("momentum", DefaultMomentum)
	if err != nil {
		return nil, nil, err
	}
	velocity, err := stateTensor(cfg, "velocity", param)
	if err != nil {
		return nil, nil, err
	}

	velocity, err = tensor.AddScaled(tensor.Scale(momentum, velocity), -lr, grad)
	if err != nil {
		return nil, nil, err
	}
	next, err := tensor.Add(param, velocity)
	if err != nil {
		return nil, nil, err
	}
	return next, config.Config{"velocity": velocity}, nil
}
