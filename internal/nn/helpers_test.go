package nn

import (
	"testing"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/stretchr/testify/require"
)

// probe is a test layer with a configurable parameter list whose shapes
// mirror the first input.
type probe struct {
	*Layer
	shapeCalls int
	out        func(inputs ...*tensor.Tensor) Outputs
}

func newProbe(t *testing.T, b *Builder, opts ...Option) *probe {
	t.Helper()
	p := &probe{}
	l, err := NewLayer(b, "probe", p, opts...)
	require.NoError(t, err)
	p.Layer = l
	return p
}

func (p *probe) ParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error) {
	p.shapeCalls++
	shapes := make(map[string]tensor.Shape)
	for _, local := range p.Params() {
		shapes[local] = inputs[0].Clone()
	}
	return shapes, nil
}

func (p *probe) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	if p.out != nil {
		return p.out(inputs...), nil
	}
	return Outputs(inputs), nil
}

func newModel(t *testing.T, opts ...ModelOption) *Model {
	t.Helper()
	m, err := NewModel(opts...)
	require.NoError(t, err)
	return m
}

func ones(shape ...int) *tensor.Tensor {
	return tensor.Full(tensor.Shape(shape), 1)
}
