package loss

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmax_Uniform(t *testing.T) {
	preds := tensor.Zeros(tensor.Shape{2, 4})
	labels := tensor.MustNew(tensor.Shape{2}, []float64{0, 3})

	loss, grad, err := Softmax(preds, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(4), loss, 1e-12)

	// Row 0: (0.25 - 1) / 2 at the label, 0.25 / 2 elsewhere.
	assert.InDelta(t, -0.375, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.125, grad.At(0, 1), 1e-12)
	assert.InDelta(t, -0.375, grad.At(1, 3), 1e-12)
}

func TestSoftmax_InferenceHasNoGrad(t *testing.T) {
	preds := tensor.MustNew(tensor.Shape{1, 2}, []float64{1000, 0})
	loss, grad, err := Softmax(preds, tensor.MustNew(tensor.Shape{1}, []float64{0}), false)
	require.NoError(t, err)
	assert.Nil(t, grad)
	assert.InDelta(t, 0, loss, 1e-9)
}

func TestSoftmax_BadLabels(t *testing.T) {
	preds := tensor.Zeros(tensor.Shape{2, 3})

	_, _, err := Softmax(preds, tensor.MustNew(tensor.Shape{2}, []float64{0, 3}), true)
	assert.True(t, errors.Is(err, ErrBadLabels))

	_, _, err = Softmax(preds, tensor.MustNew(tensor.Shape{1}, []float64{0}), true)
	assert.True(t, errors.Is(err, ErrBadLabels))

	_, _, err = Softmax(tensor.Zeros(tensor.Shape{3}), tensor.Zeros(tensor.Shape{3}), true)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestSVM(t *testing.T) {
	preds := tensor.MustNew(tensor.Shape{1, 3}, []float64{3, 1, 2.5})
	labels := tensor.MustNew(tensor.Shape{1}, []float64{0})

	// margins: 1 - 3 + 1 = -1 (0), 2.5 - 3 + 1 = 0.5
	loss, grad, err := SVM(preds, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, loss, 1e-12)
	assert.Equal(t, []float64{-1, 0, 1}, grad.Data())
}

func TestLogistic(t *testing.T) {
	preds := tensor.MustNew(tensor.Shape{2}, []float64{0, 0})
	labels := tensor.MustNew(tensor.Shape{2}, []float64{1, 0})

	loss, grad, err := Logistic(preds, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), loss, 1e-12)
	assert.InDelta(t, -0.25, grad.Data()[0], 1e-12)
	assert.InDelta(t, 0.25, grad.Data()[1], 1e-12)

	// Large logits stay finite.
	loss, _, err = Logistic(tensor.MustNew(tensor.Shape{1}, []float64{-800}), tensor.MustNew(tensor.Shape{1}, []float64{1}), false)
	require.NoError(t, err)
	assert.InDelta(t, 800, loss, 1e-9)
}

func TestRegression(t *testing.T) {
	preds := tensor.MustNew(tensor.Shape{2, 1}, []float64{1, 4})
	labels := tensor.MustNew(tensor.Shape{2, 1}, []float64{2, 2})

	mse, grad, err := LinearRegression(preds, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, mse, 1e-12)
	assert.Equal(t, []float64{-1, 2}, grad.Data())

	mae, grad, err := MAERegression(preds, labels, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, mae, 1e-12)
	assert.Equal(t, []float64{-0.5, 0.5}, grad.Data())

	_, _, err = LinearRegression(preds, tensor.Zeros(tensor.Shape{2}), true)
	assert.True(t, errors.Is(err, ErrBadLabels))
}

func TestRegistry_Lookup(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{"linear_regression", "logistic", "mae_regression", "softmax", "svm"}, reg.Names())

	fn, err := reg.Lookup("svm")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = reg.Lookup("hinge")
	assert.True(t, errors.Is(err, ErrUnknownLoss))
}
