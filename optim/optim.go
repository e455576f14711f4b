// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/modelbuilder/internal/optim"
)

// Default hyperparameters.
const (
	DefaultLearningRate = optim.DefaultLearningRate
	DefaultMomentum     = optim.DefaultMomentum
)

// ErrUnknownRule is returned when an update_rule has no registered step function.
var ErrUnknownRule = optim.ErrUnknownRule

// StepFunc computes one optimization step.
type StepFunc = optim.StepFunc

// Registry maps update_rule names to step functions.
type Registry = optim.Registry

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return optim.NewRegistry()
}

// Default returns a registry with sgd, sgd_momentum, rmsprop and adam.
func Default() *Registry {
	return optim.Default()
}

// Built-in rules.
var (
	SGD         StepFunc = optim.SGD
	SGDMomentum StepFunc = optim.SGDMomentum
	RMSProp     StepFunc = optim.RMSProp
	Adam        StepFunc = optim.Adam
)
