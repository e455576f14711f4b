package nn

import (
	"math/rand"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// DropoutConfig holds configuration for Dropout.
type DropoutConfig struct {
	P    float64 // Probability of zeroing an element, in [0, 1)
	Seed int64   // Mask generator seed; 0 picks a random seed
}

// Dropout zeroes elements with probability P in training mode and scales
// the survivors by 1/(1-P). In inference mode it is the identity.
type Dropout struct {
	*Layer
	p   float64
	rng *rand.Rand
}

// NewDropout creates a dropout layer.
func NewDropout(b *Builder, cfg DropoutConfig, opts ...Option) (*Dropout, error) {
	if cfg.P < 0 || cfg.P >= 1 {
		return nil, errors.Errorf("dropout: p must be in [0, 1), got %g", cfg.P)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63() //nolint:gosec // masks are not security-critical
	}
	d := &Dropout{
		p:   cfg.P,
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // masks are not security-critical
	}
	l, err := NewLayer(b, "dropout", d, opts...)
	if err != nil {
		return nil, err
	}
	d.Layer = l
	return d, nil
}

// Forward applies the dropout mask to every input.
func (d *Dropout) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	if !d.IsTraining() || d.p == 0 {
		return Outputs(inputs), nil
	}
	keep := 1 - d.p
	out := make(Outputs, len(inputs))
	for i, x := range inputs {
		out[i] = tensor.Map(x, func(v float64) float64 {
			if d.rng.Float64() < d.p {
				return 0
			}
			return v / keep
		})
	}
	return out, nil
}
