// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the declarative model builder.
//
// # Overview
//
// A network is declared from Modules:
//   - Layers: FullyConnected, BatchNorm, Dropout
//   - Activations: ReLU, Sigmoid, Tanh
//   - Containers: Sequential and the Add, Sub, Mul binaries
//   - Model: owns parameters, update configs and gradients
//   - Updater: applies one optimizer step per named gradient
//
// Layers never receive input sizes. Their parameters are created on the
// first call from the shapes of the actual inputs, and never re-created.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/modelbuilder/nn"
//	    "github.com/born-ml/modelbuilder/tensor"
//	)
//
//	func main() {
//	    b := nn.NewBuilder()
//	    fc1, _ := nn.NewFullyConnected(b, 128)
//	    relu, _ := nn.NewReLU(b)
//	    fc2, _ := nn.NewFullyConnected(b, 10)
//	    net, _ := b.Sequential(fc1, relu, fc2)
//
//	    model, _ := nn.NewModel(nn.WithLoss("softmax"))
//	    _ = model.Register(net)
//
//	    logits, _ := nn.Apply(net, x) // [batch, 784] → [batch, 10]
//	}
//
// # Configuration
//
// Every parameter carries an init configuration and an update
// configuration. Overrides are keyed by local parameter name, global
// parameter name, or attribute:
//
//	fc, _ := nn.NewFullyConnected(b, 10, nn.WithUpdateConfigs(config.Overrides{
//	    "learning_rate": 0.1,                               // every parameter
//	    "bias":          config.Config{"learning_rate": 0.0}, // this one only
//	}))
//
// Within one registration the parameter-specific value wins. Across
// registrations the later one wins.
//
// # Updating
//
//	updater := nn.NewUpdater(model, map[string]any{
//	    "update_rule":   "sgd_momentum",
//	    "learning_rate": 0.01,
//	})
//	err := updater.Step(grads)
//
// Built-in update rules: sgd, sgd_momentum, rmsprop, adam.
package nn
