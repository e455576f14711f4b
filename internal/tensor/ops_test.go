package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementwise(t *testing.T) {
	a := MustNew(Shape{2, 2}, []float64{1, 2, 3, 4})
	b := MustNew(Shape{2, 2}, []float64{4, 3, 2, 1})

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5, 5}, sum.Data())

	diff, err := Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -1, 1, 3}, diff.Data())

	prod, err := Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6, 6, 4}, prod.Data())

	// Inputs are untouched.
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data())
}

func TestElementwise_Mismatch(t *testing.T) {
	a := Zeros(Shape{2})
	_, err := Add(a, Zeros(Shape{3}))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = Mul(a, Zeros(Shape{2}).AsInContext(GPUContext(0)))
	assert.True(t, errors.Is(err, ErrContextMismatch))
}

func TestMatMul(t *testing.T) {
	a := MustNew(Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := MustNew(Shape{3, 2}, []float64{7, 8, 9, 10, 11, 12})

	c, err := MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, c.Shape())
	assert.Equal(t, []float64{58, 64, 139, 154}, c.Data())

	_, err = MatMul(a, a)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestAddRow(t *testing.T) {
	m := MustNew(Shape{2, 2}, []float64{1, 2, 3, 4})
	row := MustNew(Shape{2}, []float64{10, 20})

	out, err := AddRow(m, row)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 13, 24}, out.Data())
}

func TestColumnStats(t *testing.T) {
	m := MustNew(Shape{2, 2}, []float64{1, 10, 3, 30})

	mean, variance, err := ColumnStats(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 20}, mean.Data())
	assert.Equal(t, []float64{1, 100}, variance.Data())
}

func TestAddScaledAndScale(t *testing.T) {
	a := MustNew(Shape{2}, []float64{1, 1})
	b := MustNew(Shape{2}, []float64{2, 4})

	out, err := AddScaled(a, -0.5, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1}, out.Data())

	assert.Equal(t, []float64{4, 8}, Scale(2, b).Data())
	assert.InDelta(t, 6.0, Sum(b), 1e-12)
	assert.True(t, AllClose(a, MustNew(Shape{2}, []float64{1.0000001, 1}), 1e-6))
}
