package loss

import (
	"math"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Softmax computes the softmax cross-entropy over predictions [n, c] with
// integer class labels [n].
//
//	loss = -mean_i log softmax(x_i)[y_i]
//	grad = (softmax(x) - onehot(y)) / n
func Softmax(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	n, c, ys, err := classLabels(predictions, labels)
	if err != nil {
		return 0, nil, errors.WithMessage(err, "softmax")
	}

	x := predictions.Data()
	probs := tensor.ZerosLike(predictions)
	p := probs.Data()
	total := 0.0
	for i := 0; i < n; i++ {
		row := x[i*c : (i+1)*c]
		maxVal := row[0]
		for _, v := range row[1:] {
			maxVal = math.Max(maxVal, v)
		}
		sum := 0.0
		for j, v := range row {
			p[i*c+j] = math.Exp(v - maxVal)
			sum += p[i*c+j]
		}
		for j := range row {
			p[i*c+j] /= sum
		}
		total -= math.Log(math.Max(p[i*c+ys[i]], 1e-300))
	}
	loss := total / float64(n)
	if !isTrain {
		return loss, nil, nil
	}

	for i, y := range ys {
		p[i*c+y]--
	}
	return loss, tensor.Scale(1/float64(n), probs), nil
}

// SVM computes the multiclass hinge loss with margin 1.
//
//	loss = mean_i sum_{j != y_i} max(0, x_ij - x_iy + 1)
func SVM(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	n, c, ys, err := classLabels(predictions, labels)
	if err != nil {
		return 0, nil, errors.WithMessage(err, "svm")
	}

	x := predictions.Data()
	grad := tensor.ZerosLike(predictions)
	g := grad.Data()
	total := 0.0
	for i, y := range ys {
		correct := x[i*c+y]
		for j := 0; j < c; j++ {
			if j == y {
				continue
			}
			margin := x[i*c+j] - correct + 1
			if margin > 0 {
				total += margin
				g[i*c+j]++
				g[i*c+y]--
			}
		}
	}
	loss := total / float64(n)
	if !isTrain {
		return loss, nil, nil
	}
	return loss, tensor.Scale(1/float64(n), grad), nil
}

// Logistic computes binary cross-entropy on logits with labels in {0, 1}.
// Predictions and labels must hold the same number of elements.
//
//	loss = mean(log(1 + exp(-x)) + (1 - y) * x)
//	grad = (sigmoid(x) - y) / n
func Logistic(predictions, labels *tensor.Tensor, isTrain bool) (float64, *tensor.Tensor, error) {
	if predictions.Len() != labels.Len() {
		return 0, nil, errors.Wrapf(ErrBadLabels, "logistic: %d labels for %d predictions", labels.Len(), predictions.Len())
	}

	x, y := predictions.Data(), labels.Data()
	n := float64(len(x))
	grad := tensor.ZerosLike(predictions)
	g := grad.Data()
	total := 0.0
	for i, v := range x {
		// log(1 + exp(-v)) computed without overflow.
		softplus := math.Max(-v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
		total += softplus + (1-y[i])*v
		g[i] = (1/(1+math.Exp(-v)) - y[i]) / n
	}
	loss := total / n
	if !isTrain {
		return loss, nil, nil
	}
	return loss, grad, nil
}
