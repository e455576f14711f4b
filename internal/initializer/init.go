package initializer

import (
	"math"
	"math/rand"

	"github.com/born-ml/modelbuilder/internal/config"
	"github.com/born-ml/modelbuilder/internal/tensor"
)

// source returns a deterministic generator when cfg carries a seed.
func source(cfg config.Config) (*rand.Rand, error) {
	if _, ok := cfg["seed"]; !ok {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		return rand.New(rand.NewSource(rand.Int63())), nil
	}
	seed, err := cfg.Int("seed")
	if err != nil {
		return nil, err
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return rand.New(rand.NewSource(int64(seed))), nil
}

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))),
// with the fans derived from the shape (see tensor.Shape.Fans).
// An optional "seed" makes the draw reproducible.
func Xavier(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error) {
	rng, err := source(cfg)
	if err != nil {
		return nil, err
	}
	fanIn, fanOut := shape.Fans()
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return t, nil
}

// Constant fills the tensor with "value" (default 0).
func Constant(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error) {
	value, err := cfg.FloatOr("value", 0)
	if err != nil {
		return nil, err
	}
	return tensor.Full(shape, value), nil
}

// Gaussian draws from N(mu, stdvar²). Defaults: mu 0, stdvar 1.
func Gaussian(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error) {
	mu, err := cfg.FloatOr("mu", 0)
	if err != nil {
		return nil, err
	}
	std, err := cfg.FloatOr("stdvar", 1)
	if err != nil {
		return nil, err
	}
	rng, err := source(cfg)
	if err != nil {
		return nil, err
	}

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = mu + std*rng.NormFloat64()
	}
	return t, nil
}

// Uniform draws from U(low, high). Defaults: low -1, high 1.
func Uniform(shape tensor.Shape, cfg config.Config) (*tensor.Tensor, error) {
	low, err := cfg.FloatOr("low", -1)
	if err != nil {
		return nil, err
	}
	high, err := cfg.FloatOr("high", 1)
	if err != nil {
		return nil, err
	}
	rng, err := source(cfg)
	if err != nil {
		return nil, err
	}

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = low + (high-low)*rng.Float64()
	}
	return t, nil
}
