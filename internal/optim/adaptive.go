package optim

import (
	"math"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/tensor"
)

// RMSProp divides the learning rate by a running average of squared gradients.
//
// Update rule:
//
//	cache = decay_rate * cache + (1 - decay_rate) * gradient²
//	param = param - learning_rate * gradient / (sqrt(cache) + epsilon)
//
// Config: learning_rate (1e-2), decay_rate (0.99), epsilon (1e-8), cache (state).
func RMSProp(param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
	lr, err := cfg.FloatOr("learning_rate", DefaultLearningRate)
	if err != nil {
		return nil, nil, err
	}
	decay, err := cfg.FloatOr("decay_rate", 0.99)
	if err != nil {
		return nil, nil, err
	}
	eps, err := cfg.FloatOr("epsilon", 1e-8)
	if err != nil {
		return nil, nil, err
	}
	cache, err := stateTensor(cfg, "cache", param)
	if err != nil {
		return nil, nil, err
	}
	if !grad.Shape().Equal(param.Shape()) {
		return nil, nil, tensor.ErrShapeMismatch
	}

	g := grad.Data()
	nextCache := tensor.ZerosLike(param)
	next := param.Clone()
	c, nc, p := cache.Data(), nextCache.Data(), next.Data()
	for i := range p {
		nc[i] = decay*c[i] + (1-decay)*g[i]*g[i]
		p[i] -= lr * g[i] / (math.Sqrt(nc[i]) + eps)
	}
	return next, config.Config{"cache": nextCache}, nil
}

// Adam implements Adaptive Moment Estimation.
//
// Update rule:
//
//	t = t + 1
//	m = beta1 * m + (1 - beta1) * gradient
//	v = beta2 * v + (1 - beta2) * gradient²
//	m_hat = m / (1 - beta1^t)
//	v_hat = v / (1 - beta2^t)
//	param = param - learning_rate * m_hat / (sqrt(v_hat) + epsilon)
//
// Config: learning_rate (1e-3), beta1 (0.9), beta2 (0.999), epsilon (1e-8),
// and state m, v, t.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
func Adam(param, grad *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
	lr, err := cfg.FloatOr("learning_rate", 1e-3)
	if err != nil {
		return nil, nil, err
	}
	beta1, err := cfg.FloatOr("beta1", 0.9)
	if err != nil {
		return nil, nil, err
	}
	beta2, err := cfg.FloatOr("beta2", 0.999)
	if err != nil {
		return nil, nil, err
	}
	eps, err := cfg.FloatOr("epsilon", 1e-8)
	if err != nil {
		return nil, nil, err
	}
	m, err := stateTensor(cfg, "m", param)
	if err != nil {
		return nil, nil, err
	}
	v, err := stateTensor(cfg, "v", param)
	if err != nil {
		return nil, nil, err
	}
	step := 0
	if _, ok := cfg["t"]; ok {
		if step, err = cfg.Int("t"); err != nil {
			return nil, nil, err
		}
	}
	if !grad.Shape().Equal(param.Shape()) {
		return nil, nil, tensor.ErrShapeMismatch
	}
	step++

	nextM, nextV, next := tensor.ZerosLike(param), tensor.ZerosLike(param), param.Clone()
	g, m0, v0 := grad.Data(), m.Data(), v.Data()
	m1, v1, p := nextM.Data(), nextV.Data(), next.Data()
	bc1 := 1 - math.Pow(beta1, float64(step))
	bc2 := 1 - math.Pow(beta2, float64(step))
	for i := range p {
		m1[i] = beta1*m0[i] + (1-beta1)*g[i]
		v1[i] = beta2*v0[i] + (1-beta2)*g[i]*g[i]
		p[i] -= lr * (m1[i] / bc1) / (math.Sqrt(v1[i]/bc2) + eps)
	}
	return next, config.Config{"m": nextM, "v": nextV, "t": step}, nil
}
