package nn

import (
	"github.com/born-ml/modelbuilder/internal/tensor"
	"github.com/pkg/errors"
)

// Construction errors.
var (
	ErrNoKind    = errors.New("module kind is not defined")
	ErrNoBuilder = errors.New("module needs a builder or an explicit name")
	ErrNotModule = errors.New("value is not a module")
)

// Binding errors.
var (
	ErrUnbound      = errors.New("module is not affiliated to a model")
	ErrAlreadyBound = errors.New("module is affiliated to another model")
)

// ErrContextMismatch is returned when a layer's inputs live in different contexts.
var ErrContextMismatch = tensor.ErrContextMismatch

// Registration errors.
var (
	ErrDuplicateModule = errors.New("module already registered")
	ErrDuplicateName   = errors.New("module name already registered")
	ErrDuplicateParam  = errors.New("global parameter name already owned by another layer")
)

// Usage errors.
var (
	ErrUnknownParam   = errors.New("unknown parameter")
	ErrNotInitialized = errors.New("parameter not initialized")
	ErrArity          = errors.New("unexpected number of outputs")
	ErrNoLoss         = errors.New("model has no loss")
	ErrNotImplemented = errors.New("not implemented")
)
