// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizer update rules used by nn.Updater.
//
// # Overview
//
// An update rule is selected per parameter through the update_rule entry of
// its update configuration:
//   - sgd: param -= learning_rate * grad
//   - sgd_momentum: velocity = momentum * velocity - learning_rate * grad
//   - rmsprop: running mean of squared gradients scales the step
//   - adam: bias-corrected first and second moments
//
// # Custom Rules
//
// A rule returns the new parameter and its optimizer state. The state is
// merged into the parameter's configuration before the next step:
//
//	rules := optim.Default()
//	rules.Register("sign_sgd", func(p, g *tensor.Tensor, cfg config.Config) (*tensor.Tensor, config.Config, error) {
//	    lr, err := cfg.FloatOr("learning_rate", optim.DefaultLearningRate)
//	    if err != nil {
//	        return nil, nil, err
//	    }
//	    next, err := tensor.AddScaled(p, -lr, tensor.Map(g, sign))
//	    return next, nil, err
//	})
//	updater := nn.NewUpdater(model, globals, nn.WithRules(rules))
package optim
