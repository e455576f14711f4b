package nn

import (
	"math"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// BatchNormConfig holds configuration for BatchNorm.
type BatchNormConfig struct {
	Momentum float64 // Running statistics momentum (default: 0.9)
	Epsilon  float64 // Variance offset (default: 1e-5)
}

// BatchNorm normalizes [batch, features] inputs per feature.
//
// Parameters gamma (scale, default 1) and beta (shift, default 0) are
// trainable. Aux-parameters moving_mean (default 0) and moving_var (default 1)
// hold running statistics: in training mode they are updated from each batch,
//
//	moving = momentum * moving + (1 - momentum) * batch_stat
//
// and in inference mode they replace the batch statistics.
type BatchNorm struct {
	*Layer
	momentum float64
	epsilon  float64
}

// NewBatchNorm creates a batch normalization layer.
func NewBatchNorm(b *Builder, cfg BatchNormConfig, opts ...Option) (*BatchNorm, error) {
	if cfg.Momentum == 0 {
		cfg.Momentum = 0.9
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-5
	}
	if cfg.Momentum < 0 || cfg.Momentum >= 1 {
		return nil, errors.Errorf("batch norm: momentum must be in [0, 1), got %g", cfg.Momentum)
	}
	bn := &BatchNorm{momentum: cfg.Momentum, epsilon: cfg.Epsilon}
	base := []Option{WithParams("gamma", "beta"), WithAuxParams("moving_mean", "moving_var")}
	l, err := NewLayer(b, "batch_norm", bn, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	bn.Layer = l
	return bn, nil
}

func featureShape(inputs []tensor.Shape) (tensor.Shape, error) {
	if len(inputs) != 1 {
		return nil, errors.Wrapf(ErrArity, "batch norm takes 1 input, got %d", len(inputs))
	}
	if len(inputs[0]) != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "batch norm expects [batch, features], got %v", inputs[0])
	}
	return tensor.Shape{inputs[0][1]}, nil
}

// ParamShapes returns gamma and beta shapes.
func (bn *BatchNorm) ParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error) {
	features, err := featureShape(inputs)
	if err != nil {
		return nil, err
	}
	return map[string]tensor.Shape{"gamma": features, "beta": features}, nil
}

// AuxParamShapes returns moving_mean and moving_var shapes.
func (bn *BatchNorm) AuxParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error) {
	features, err := featureShape(inputs)
	if err != nil {
		return nil, err
	}
	return map[string]tensor.Shape{"moving_mean": features, "moving_var": features}, nil
}

// Forward normalizes the input with batch or running statistics.
func (bn *BatchNorm) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	if len(inputs) != 1 {
		return nil, errors.Wrapf(ErrArity, "batch norm takes 1 input, got %d", len(inputs))
	}
	x := inputs[0]
	gamma, err := bn.Param("gamma")
	if err != nil {
		return nil, err
	}
	beta, err := bn.Param("beta")
	if err != nil {
		return nil, err
	}
	movingMean, err := bn.Param("moving_mean")
	if err != nil {
		return nil, err
	}
	movingVar, err := bn.Param("moving_var")
	if err != nil {
		return nil, err
	}

	mean, variance := movingMean, movingVar
	if bn.IsTraining() {
		if mean, variance, err = tensor.ColumnStats(x); err != nil {
			return nil, err
		}
		nextMean, err := tensor.AddScaled(tensor.Scale(bn.momentum, movingMean), 1-bn.momentum, mean)
		if err != nil {
			return nil, err
		}
		nextVar, err := tensor.AddScaled(tensor.Scale(bn.momentum, movingVar), 1-bn.momentum, variance)
		if err != nil {
			return nil, err
		}
		if err := bn.SetAuxParam("moving_mean", nextMean); err != nil {
			return nil, err
		}
		if err := bn.SetAuxParam("moving_var", nextVar); err != nil {
			return nil, err
		}
	}

	shape := x.Shape()
	if len(shape) != 2 || shape[1] != gamma.Len() {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "batch norm: input %v, features %d", shape, gamma.Len())
	}
	n, m := shape[0], shape[1]
	out := tensor.ZerosLike(x)
	xd, od := x.Data(), out.Data()
	g, bt, mu, v := gamma.Data(), beta.Data(), mean.Data(), variance.Data()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			od[i*m+j] = g[j]*(xd[i*m+j]-mu[j])/math.Sqrt(v[j]+bn.epsilon) + bt[j]
		}
	}
	return One(out), nil
}
