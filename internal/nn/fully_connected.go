package nn

import (
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// FullyConnected implements a dense layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight parameter with shape [in_features, units]
//   - b is the bias parameter with shape [units]
//
// in_features is taken from the first input, so the layer needs no input
// size at construction. By default the weight uses xavier and the bias a
// constant 0.
//
// Example:
//
//	fc, err := nn.NewFullyConnected(b, 128)
//	y, err := nn.Apply(fc, x) // x: [32, 784] → y: [32, 128]
type FullyConnected struct {
	*Layer
	units int
}

// NewFullyConnected creates a dense layer with the given number of output units.
func NewFullyConnected(b *Builder, units int, opts ...Option) (*FullyConnected, error) {
	if units <= 0 {
		return nil, errors.Errorf("fully connected: units must be > 0, got %d", units)
	}
	fc := &FullyConnected{units: units}
	l, err := NewLayer(b, "fully_connected", fc, append([]Option{WithParams("weight", "bias")}, opts...)...)
	if err != nil {
		return nil, err
	}
	fc.Layer = l
	return fc, nil
}

// Units returns the number of output units.
func (fc *FullyConnected) Units() int {
	return fc.units
}

// ParamShapes derives weight and bias shapes from a [batch, in] input.
func (fc *FullyConnected) ParamShapes(inputs ...tensor.Shape) (map[string]tensor.Shape, error) {
	if len(inputs) != 1 {
		return nil, errors.Wrapf(ErrArity, "fully connected takes 1 input, got %d", len(inputs))
	}
	if len(inputs[0]) != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "fully connected expects [batch, features], got %v", inputs[0])
	}
	return map[string]tensor.Shape{
		"weight": {inputs[0][1], fc.units},
		"bias":   {fc.units},
	}, nil
}

// Forward computes x @ W + b.
func (fc *FullyConnected) Forward(inputs ...*tensor.Tensor) (Outputs, error) {
	if len(inputs) != 1 {
		return nil, errors.Wrapf(ErrArity, "fully connected takes 1 input, got %d", len(inputs))
	}
	w, err := fc.Param("weight")
	if err != nil {
		return nil, err
	}
	bias, err := fc.Param("bias")
	if err != nil {
		return nil, err
	}
	y, err := tensor.MatMul(inputs[0], w)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", fc.Name())
	}
	y, err = tensor.AddRow(y, bias)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", fc.Name())
	}
	return One(y), nil
}
