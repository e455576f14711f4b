package tensor

import "github.com/pkg/errors"

// Common errors.
var (
	ErrShapeMismatch   = errors.New("tensor shapes do not match")
	ErrContextMismatch = errors.New("tensors live in different contexts")
	ErrInvalidData     = errors.New("data length does not match shape")
)
