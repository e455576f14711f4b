package numgrad

import (
	"testing"

	"github.com/born-ml/modelbuilder/internal/nn"
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradients_LinearRegressionMatchesAnalytic(t *testing.T) {
	b := nn.NewBuilder()
	fc, err := nn.NewFullyConnected(b, 1, nn.WithName("fc"))
	require.NoError(t, err)
	model, err := nn.NewModel(nn.WithLoss("linear_regression"))
	require.NoError(t, err)
	require.NoError(t, model.Register(fc))

	x := tensor.MustNew(tensor.Shape{3, 2}, []float64{1, 2, 3, 4, 5, 6})
	y := tensor.MustNew(tensor.Shape{3, 1}, []float64{1, 0, -1})
	objective := func() (float64, error) {
		pred, err := nn.Apply(fc, x)
		if err != nil {
			return 0, err
		}
		value, _, err := model.Loss(pred, y, false)
		return value, err
	}

	before, err := objective()
	require.NoError(t, err)
	w, _ := model.Param("fc_weight")
	saved := w.Clone()

	grads, err := Gradients(model, objective, Options{})
	require.NoError(t, err)
	assert.Len(t, grads, 2)

	// d/dW mean((xW+b-y)^2) = 2/N x^T (xW+b-y)
	pred, err := nn.Apply(fc, x)
	require.NoError(t, err)
	_, dPred, err := model.Loss(pred, y, true)
	require.NoError(t, err)
	want := tensor.Zeros(tensor.Shape{2, 1})
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			want.Set(want.At(j, 0)+x.At(i, j)*dPred.At(i, 0), j, 0)
		}
	}

	rel, err := MaxRelativeError(want, grads["fc_weight"])
	require.NoError(t, err)
	assert.Less(t, rel, 1e-5)

	after, err := objective()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, saved.Data(), w.Data(), "parameters restored")
}

func TestGradients_UnknownParam(t *testing.T) {
	model, err := nn.NewModel()
	require.NoError(t, err)

	_, err = Gradients(model, func() (float64, error) { return 0, nil }, Options{}, "missing")
	assert.ErrorIs(t, err, nn.ErrNotInitialized)
}

func TestGradients_ObjectiveError(t *testing.T) {
	model, err := nn.NewModel()
	require.NoError(t, err)
	model.SetParam("p", tensor.Full(tensor.Shape{2}, 1))

	boom := assert.AnError
	_, err = Gradients(model, func() (float64, error) { return 0, boom }, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestMaxRelativeError_ShapeMismatch(t *testing.T) {
	_, err := MaxRelativeError(tensor.Zeros(tensor.Shape{2}), tensor.Zeros(tensor.Shape{3}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
