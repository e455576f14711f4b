package tensor

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func checkSame(op string, a, b *Tensor) error {
	if a.ctx != b.ctx {
		return errors.Wrapf(ErrContextMismatch, "%s: %s vs %s", op, a.ctx, b.ctx)
	}
	if !a.shape.Equal(b.shape) {
		return errors.Wrapf(ErrShapeMismatch, "%s: %v vs %v", op, a.shape, b.shape)
	}
	return nil
}

func like(t *Tensor) *Tensor {
	return &Tensor{shape: t.shape.Clone(), data: make([]float64, len(t.data)), ctx: t.ctx}
}

// Add returns a + b elementwise.
func Add(a, b *Tensor) (*Tensor, error) {
	if err := checkSame("add", a, b); err != nil {
		return nil, err
	}
	out := like(a)
	floats.AddTo(out.data, a.data, b.data)
	return out, nil
}

// Sub returns a - b elementwise.
func Sub(a, b *Tensor) (*Tensor, error) {
	if err := checkSame("sub", a, b); err != nil {
		return nil, err
	}
	out := like(a)
	floats.SubTo(out.data, a.data, b.data)
	return out, nil
}

// Mul returns a * b elementwise.
func Mul(a, b *Tensor) (*Tensor, error) {
	if err := checkSame("mul", a, b); err != nil {
		return nil, err
	}
	out := like(a)
	floats.MulTo(out.data, a.data, b.data)
	return out, nil
}

// AddScaled returns a + alpha*b.
func AddScaled(a *Tensor, alpha float64, b *Tensor) (*Tensor, error) {
	if err := checkSame("add_scaled", a, b); err != nil {
		return nil, err
	}
	out := like(a)
	floats.AddScaledTo(out.data, a.data, alpha, b.data)
	return out, nil
}

// Scale returns alpha * t.
func Scale(alpha float64, t *Tensor) *Tensor {
	out := t.Clone()
	floats.Scale(alpha, out.data)
	return out
}

// Map returns a new tensor with fn applied to every element.
func Map(t *Tensor, fn func(float64) float64) *Tensor {
	out := like(t)
	for i, v := range t.data {
		out.data[i] = fn(v)
	}
	return out
}

// Sum returns the sum of all elements.
func Sum(t *Tensor) float64 {
	return floats.Sum(t.data)
}

// MatMul computes the matrix product of a [n, k] and b [k, m].
func MatMul(a, b *Tensor) (*Tensor, error) {
	if a.ctx != b.ctx {
		return nil, errors.Wrapf(ErrContextMismatch, "matmul: %s vs %s", a.ctx, b.ctx)
	}
	if len(a.shape) != 2 || len(b.shape) != 2 || a.shape[1] != b.shape[0] {
		return nil, errors.Wrapf(ErrShapeMismatch, "matmul: %v x %v", a.shape, b.shape)
	}
	n, m := a.shape[0], b.shape[1]
	out := &Tensor{shape: Shape{n, m}, data: make([]float64, n*m), ctx: a.ctx}
	dst := mat.NewDense(n, m, out.data)
	dst.Mul(mat.NewDense(a.shape[0], a.shape[1], a.data), mat.NewDense(b.shape[0], b.shape[1], b.data))
	return out, nil
}

// AddRow adds the vector row [m] to every row of t [n, m].
func AddRow(t, row *Tensor) (*Tensor, error) {
	if t.ctx != row.ctx {
		return nil, errors.Wrapf(ErrContextMismatch, "add_row: %s vs %s", t.ctx, row.ctx)
	}
	if len(t.shape) != 2 || len(row.shape) != 1 || t.shape[1] != row.shape[0] {
		return nil, errors.Wrapf(ErrShapeMismatch, "add_row: %v + %v", t.shape, row.shape)
	}
	out := t.Clone()
	m := t.shape[1]
	for i := 0; i < t.shape[0]; i++ {
		floats.Add(out.data[i*m:(i+1)*m], row.data)
	}
	return out, nil
}

// ColumnStats returns the per-column mean and (biased) variance of t [n, m].
func ColumnStats(t *Tensor) (mean, variance *Tensor, err error) {
	if len(t.shape) != 2 {
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "column_stats: expected 2D, got %v", t.shape)
	}
	n, m := t.shape[0], t.shape[1]
	mean = &Tensor{shape: Shape{m}, data: make([]float64, m), ctx: t.ctx}
	variance = &Tensor{shape: Shape{m}, data: make([]float64, m), ctx: t.ctx}
	for i := 0; i < n; i++ {
		floats.Add(mean.data, t.data[i*m:(i+1)*m])
	}
	floats.Scale(1/float64(n), mean.data)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			d := t.data[i*m+j] - mean.data[j]
			variance.data[j] += d * d
		}
	}
	floats.Scale(1/float64(n), variance.data)
	return mean, variance, nil
}

// AllClose reports whether a and b have equal shapes and every pair of
// elements differs by at most tol.
func AllClose(a, b *Tensor, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}
