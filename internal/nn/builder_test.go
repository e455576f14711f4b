package nn

import (
	"strings"
	"testing"

	"github.com/born-ml/modelbuilder/internal/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DefaultNamesUniquePerKind(t *testing.T) {
	b := NewBuilder()

	fc0, err := NewFullyConnected(b, 4)
	require.NoError(t, err)
	fc1, err := NewFullyConnected(b, 4)
	require.NoError(t, err)
	relu, err := NewReLU(b)
	require.NoError(t, err)
	seq, err := b.Sequential(fc0, relu, fc1)
	require.NoError(t, err)

	assert.Equal(t, "fully_connected0", fc0.Name())
	assert.Equal(t, "fully_connected1", fc1.Name())
	assert.Equal(t, "relu0", relu.Name())
	assert.Equal(t, "sequential0", seq.Name())
	assert.Equal(t, "sequential", seq.Kind())
}

func TestBuilder_IndependentBuilders(t *testing.T) {
	a, err := NewReLU(NewBuilder())
	require.NoError(t, err)
	b, err := NewReLU(NewBuilder())
	require.NoError(t, err)

	assert.Equal(t, a.Name(), b.Name())
}

func TestBuilder_ExplicitNameSkipsCounter(t *testing.T) {
	b := NewBuilder()

	named, err := NewReLU(b, WithName("act"))
	require.NoError(t, err)
	next, err := NewReLU(b)
	require.NoError(t, err)

	assert.Equal(t, "act", named.Name())
	assert.Equal(t, "relu0", next.Name())
}

func TestBuilder_NilBuilderNeedsName(t *testing.T) {
	_, err := NewReLU(nil)
	assert.ErrorIs(t, err, ErrNoBuilder)

	relu, err := NewReLU(nil, WithName("act"))
	require.NoError(t, err)
	assert.Equal(t, "act", relu.Name())
}

func TestBuilder_EmptyKind(t *testing.T) {
	_, err := NewLayer(NewBuilder(), "", &probe{})
	assert.ErrorIs(t, err, ErrNoKind)
}

func TestBuilder_UUIDNamer(t *testing.T) {
	b := NewBuilder(WithNamer(naming.UUID{}))

	a, err := NewReLU(b)
	require.NoError(t, err)
	c, err := NewReLU(b)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.Name(), "relu_"))
	assert.NotEqual(t, a.Name(), c.Name())
}
