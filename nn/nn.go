// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/modelbuilder/internal/autograd"
	"github.com/born-ml/modelbuilder/internal/initializer"
	"github.com/born-ml/modelbuilder/internal/loss"
	"github.com/born-ml/modelbuilder/internal/naming"
	"github.com/born-ml/modelbuilder/internal/nn"
	"github.com/born-ml/modelbuilder/internal/parallel"
)

// Module is a named, composable unit of a network.
type Module = nn.Module

// Outputs is the tuple of tensors produced by a module.
type Outputs = nn.Outputs

// Mode is the training/inference flag of a module.
type Mode = nn.Mode

// Module modes.
const (
	ModeTraining  = nn.ModeTraining
	ModeInference = nn.ModeInference
)

// UnspecifiedRule is the update_rule every parameter starts with.
const UnspecifiedRule = nn.UnspecifiedRule

// Builder is the naming context for module construction.
type Builder = nn.Builder

// BuilderOption configures a Builder.
type BuilderOption = nn.BuilderOption

// Option configures a single module at construction.
type Option = nn.Option

// Namer produces fresh module names for a kind.
type Namer = naming.Namer

// LossFunc evaluates a loss and, in training, its gradient w.r.t. predictions.
type LossFunc = loss.Func

// InitRegistry maps init_rule names to initializers.
type InitRegistry = initializer.Registry

// InitFunc creates a tensor of the given shape from an init configuration.
type InitFunc = initializer.Func

// DefaultInitializers returns a registry with xavier, constant, gaussian and uniform.
func DefaultInitializers() *InitRegistry {
	return initializer.Default()
}

// NewBuilder creates a Builder naming modules kind0, kind1, ... per kind.
func NewBuilder(opts ...BuilderOption) *Builder {
	return nn.NewBuilder(opts...)
}

// WithNamer replaces the default per-kind counter.
func WithNamer(n Namer) BuilderOption {
	return nn.WithNamer(n)
}

// WithUUIDNames names modules kind_<uuid> instead of counting per kind.
func WithUUIDNames() BuilderOption {
	return nn.WithNamer(naming.UUID{})
}

// WithName gives the module an explicit name.
func WithName(name string) Option {
	return nn.WithName(name)
}

// WithParams declares local parameter names of a layer.
func WithParams(names ...string) Option {
	return nn.WithParams(names...)
}

// WithAuxParams declares local aux-parameter names of a layer.
func WithAuxParams(names ...string) Option {
	return nn.WithAuxParams(names...)
}

// WithInitConfigs registers init overrides at construction.
var WithInitConfigs = nn.WithInitConfigs

// WithUpdateConfigs registers update overrides at construction.
var WithUpdateConfigs = nn.WithUpdateConfigs

// One wraps a single tensor as Outputs.
var One = nn.One

// Apply calls m and unwraps its single output.
var Apply = nn.Apply

// Layers

// Layer is a leaf module owning named parameters. Custom layers embed *Layer.
type Layer = nn.Layer

// Forwarder computes a layer's outputs from bound parameters.
type Forwarder = nn.Forwarder

// ParamShaper reports parameter shapes for the given input shapes.
type ParamShaper = nn.ParamShaper

// AuxParamShaper reports aux-parameter shapes for the given input shapes.
type AuxParamShaper = nn.AuxParamShaper

// InitPolicy replaces the default init configuration of a local parameter.
type InitPolicy = nn.InitPolicy

// NewLayer creates a layer of the given kind backed by impl.
//
// Example:
//
//	type Scale struct{ *nn.Layer }
//
//	s := &Scale{}
//	l, err := nn.NewLayer(b, "scale", s, nn.WithParams("gamma"))
//	s.Layer = l
func NewLayer(b *Builder, kind string, impl Forwarder, opts ...Option) (*Layer, error) {
	return nn.NewLayer(b, kind, impl, opts...)
}

// FullyConnected implements y = x @ W + b.
type FullyConnected = nn.FullyConnected

// NewFullyConnected creates a dense layer with the given number of output units.
func NewFullyConnected(b *Builder, units int, opts ...Option) (*FullyConnected, error) {
	return nn.NewFullyConnected(b, units, opts...)
}

// Activation applies an elementwise function to every input.
type Activation = nn.Activation

// NewReLU creates a ReLU layer.
func NewReLU(b *Builder, opts ...Option) (*Activation, error) {
	return nn.NewReLU(b, opts...)
}

// NewSigmoid creates a sigmoid layer.
func NewSigmoid(b *Builder, opts ...Option) (*Activation, error) {
	return nn.NewSigmoid(b, opts...)
}

// NewTanh creates a tanh layer.
func NewTanh(b *Builder, opts ...Option) (*Activation, error) {
	return nn.NewTanh(b, opts...)
}

// BatchNorm normalizes [batch, features] inputs per feature.
type BatchNorm = nn.BatchNorm

// BatchNormConfig holds configuration for BatchNorm.
type BatchNormConfig = nn.BatchNormConfig

// NewBatchNorm creates a batch normalization layer.
func NewBatchNorm(b *Builder, cfg BatchNormConfig, opts ...Option) (*BatchNorm, error) {
	return nn.NewBatchNorm(b, cfg, opts...)
}

// Dropout zeroes elements in training mode.
type Dropout = nn.Dropout

// DropoutConfig holds configuration for Dropout.
type DropoutConfig = nn.DropoutConfig

// NewDropout creates a dropout layer.
func NewDropout(b *Builder, cfg DropoutConfig, opts ...Option) (*Dropout, error) {
	return nn.NewDropout(b, cfg, opts...)
}

// Containers

// Sequential chains modules output to input.
type Sequential = nn.Sequential

// NewSequential creates a Sequential container over modules.
func NewSequential(b *Builder, modules []Module, opts ...Option) (*Sequential, error) {
	return nn.NewSequential(b, modules, opts...)
}

// Binary combines the single outputs of two modules.
type Binary = nn.Binary

// Combinator merges two tensors elementwise.
type Combinator = nn.Combinator

// NewBinary creates a Binary container of the given kind.
func NewBinary(b *Builder, kind string, left, right Module, combine Combinator, opts ...Option) (*Binary, error) {
	return nn.NewBinary(b, kind, left, right, combine, opts...)
}

// Model

// Model is the parameter namespace and registration root of a network.
type Model = nn.Model

// ModelOption configures a Model.
type ModelOption = nn.ModelOption

// ForwardFunc is a model forward pass.
type ForwardFunc = nn.ForwardFunc

// NewModel creates an empty model.
func NewModel(opts ...ModelOption) (*Model, error) {
	return nn.NewModel(opts...)
}

// WithLoss selects a built-in loss by name.
func WithLoss(name string) ModelOption {
	return nn.WithLoss(name)
}

// WithLossFunc sets a custom loss function.
func WithLossFunc(fn LossFunc) ModelOption {
	return nn.WithLossFunc(fn)
}

// WithAttachAll controls whether parameters are attached on initialization.
func WithAttachAll(attachAll bool) ModelOption {
	return nn.WithAttachAll(attachAll)
}

// WithInitializers replaces the registry init_rule names are resolved in.
func WithInitializers(reg *InitRegistry) ModelOption {
	return nn.WithInitializers(reg)
}

// Tape tracks parameters marked for gradient tracking.
type Tape = autograd.Tape

// NewTape creates a tape outside of any training scope.
func NewTape() *Tape {
	return autograd.NewTape()
}

// WithTape sets the tape parameters are marked on.
func WithTape(tape *Tape) ModelOption {
	return nn.WithTape(tape)
}

// Updater applies optimizer steps to a Model's parameters.
type Updater = nn.Updater

// UpdaterOption configures an Updater.
type UpdaterOption = nn.UpdaterOption

// WithRules replaces the registry update_rule names are resolved in.
var WithRules = nn.WithRules

// ParallelConfig controls how many goroutines compute Updater steps.
type ParallelConfig = parallel.Config

// DefaultParallel returns a ParallelConfig with one worker per CPU.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// WithParallel computes per-parameter steps concurrently.
func WithParallel(cfg ParallelConfig) UpdaterOption {
	return nn.WithParallel(cfg)
}

// NewUpdater snapshots model's update configuration and applies globals.
func NewUpdater(model *Model, globals map[string]any, opts ...UpdaterOption) *Updater {
	return nn.NewUpdater(model, globals, opts...)
}

// Errors

// Errors returned by builder, model and updater operations.
var (
	ErrNoKind          = nn.ErrNoKind
	ErrNoBuilder       = nn.ErrNoBuilder
	ErrNotModule       = nn.ErrNotModule
	ErrUnbound         = nn.ErrUnbound
	ErrAlreadyBound    = nn.ErrAlreadyBound
	ErrContextMismatch = nn.ErrContextMismatch
	ErrDuplicateModule = nn.ErrDuplicateModule
	ErrDuplicateName   = nn.ErrDuplicateName
	ErrDuplicateParam  = nn.ErrDuplicateParam
	ErrUnknownParam    = nn.ErrUnknownParam
	ErrNotInitialized  = nn.ErrNotInitialized
	ErrArity           = nn.ErrArity
	ErrNoLoss          = nn.ErrNoLoss
	ErrNotImplemented  = nn.ErrNotImplemented
)
