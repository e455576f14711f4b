// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/modelbuilder/tensor"
)

func TestNew_InvalidData(t *testing.T) {
	_, err := tensor.New(tensor.Shape{2, 2}, []float64{1, 2, 3})
	if !errors.Is(err, tensor.ErrInvalidData) {
		t.Errorf("Expected ErrInvalidData, got %v", err)
	}
}

func TestMatMul(t *testing.T) {
	a := tensor.MustNew(tensor.Shape{1, 2}, []float64{1, 2})
	b := tensor.MustNew(tensor.Shape{2, 1}, []float64{3, 4})

	c, err := tensor.MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul: %v", err)
	}
	if got := c.At(0, 0); got != 11 {
		t.Errorf("Expected 11, got %f", got)
	}
}

func TestContextMismatch(t *testing.T) {
	a := tensor.Zeros(tensor.Shape{2})
	b := tensor.Zeros(tensor.Shape{2}).AsInContext(tensor.GPUContext(0))

	if _, err := tensor.Add(a, b); !errors.Is(err, tensor.ErrContextMismatch) {
		t.Errorf("Expected ErrContextMismatch, got %v", err)
	}
	if a.Context() != tensor.DefaultContext {
		t.Errorf("Expected default context, got %s", a.Context())
	}
}
