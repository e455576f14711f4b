package loss

import (
	"math"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

func sameShape(name string, predictions, labels *tensor.Tensor) error {
	if !predictions.Shape().Equal(labels.Shape()) {
		return errors.Wrapf(ErrBadLabels, "%s: labels %v, predictions %v", name, labels.Shape(), predictions.Shape())
	}
	return nil
}

// LinearRegression computes the mean squared error.
//
//	loss = mean((x - y)²)
//	grad = 2 (x - y) / N
func LinearRegression(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	if err := sameShape("linear_regression", predictions, labels); err != nil {
		return 0, nil, err
	}
	diff, err := tensor.Sub(predictions, labels)
	if err != nil {
		return 0, nil, err
	}
	sq, err := tensor.Mul(diff, diff)
	if err != nil {
		return 0, nil, err
	}
	n := float64(diff.Len())
	loss := tensor.Sum(sq) / n
	if !isTrain {
		return loss, nil, nil
	}
	return loss, tensor.Scale(2/n, diff), nil
}

// MAERegression computes the mean absolute error.
//
//	loss = mean(|x - y|)
//	grad = sign(x - y) / N
func MAERegression(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	if err := sameShape("mae_regression", predictions, labels); err != nil {
		return 0, nil, err
	}
	diff, err := tensor.Sub(predictions, labels)
	if err != nil {
		return 0, nil, err
	}
	n := float64(diff.Len())
	loss := tensor.Sum(tensor.Map(diff, math.Abs)) / n
	if !isTrain {
		return loss, nil, nil
	}
	sign := tensor.Map(diff, func(v float64) float64 {
		switch {
		case v > 0:
			return 1 / n
		case v < 0:
			return -1 / n
		}
		return 0
	})
	return loss, sign, nil
}
