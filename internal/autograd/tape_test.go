package autograd

import (
	"testing"

	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestTape_MarkVariable(t *testing.T) {
	tape := NewTape()
	w := tensor.Zeros(tensor.Shape{2})
	g := tensor.ZerosLike(w)

	assert.False(t, tape.IsVariable(w))
	tape.MarkVariable(w, g)
	assert.True(t, tape.IsVariable(w))

	got, ok := tape.Grad(w)
	assert.True(t, ok)
	assert.Same(t, g, got)

	g2 := tensor.ZerosLike(w)
	tape.MarkVariable(w, g2)
	assert.Len(t, tape.Variables(), 1)
	got, _ = tape.Grad(w)
	assert.Same(t, g2, got)
}

func TestTape_TrainingScopeNests(t *testing.T) {
	tape := NewTape()
	assert.False(t, tape.IsTraining())

	outer := tape.TrainingScope(true)
	assert.True(t, tape.IsTraining())

	inner := tape.TrainingScope(false)
	assert.False(t, tape.IsTraining())
	inner()
	assert.True(t, tape.IsTraining())

	outer()
	assert.False(t, tape.IsTraining())
}
