// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config holds the per-parameter configuration types.
//
// Configs map global parameter names to a Config. Overrides are merged into
// Configs: keys naming an entry carry a mapping for that entry, every other
// key is an attribute set on all entries. Overrides can also be loaded from
// YAML:
//
//	learning_rate: 0.01
//	fc0_bias:
//	  learning_rate: 0
//	groups:
//	  - params: [fc0_weight, fc1_weight]
//	    config: {momentum: 0.5}
package config

import (
	"io"

	"github.com/born-ml/modelbuilder/internal/config"
)

// Well-known configuration keys.
const (
	InitRule   = config.InitRule
	UpdateRule = config.UpdateRule
)

// Config is the configuration of a single parameter.
type Config = config.Config

// Configs maps global parameter names to their configuration.
type Configs = config.Configs

// Overrides is a set of configuration overrides.
type Overrides = config.Overrides

// Parser gives attribute-style access to a Configs mapping.
type Parser = config.Parser

// ParamRef reads and writes one entry of a Parser.
type ParamRef = config.ParamRef

// Errors returned by configuration operations.
var (
	ErrInconsistentAttr = config.ErrInconsistentAttr
	ErrInvalidOverride  = config.ErrInvalidOverride
	ErrUnknownEntry     = config.ErrUnknownEntry
	ErrWrongType        = config.ErrWrongType
	ErrMissingKey       = config.ErrMissingKey
)

// Register merges overrides into configs.
func Register(configs Configs, overrides Overrides) error {
	return config.Register(configs, overrides)
}

// NewParser wraps configs without copying them.
func NewParser(configs Configs) *Parser {
	return config.NewParser(configs)
}

// LoadOverrides decodes Overrides from YAML.
func LoadOverrides(r io.Reader) (Overrides, error) {
	return config.LoadOverrides(r)
}

// LoadOverridesFile decodes Overrides from a YAML file.
func LoadOverridesFile(path string) (Overrides, error) {
	return config.LoadOverridesFile(path)
}
