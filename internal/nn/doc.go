// Package nn implements the declarative model builder.
//
// A network is declared from Modules: Layers own named parameters, while
// containers (Sequential and the Add/Sub/Mul binaries) compose other
// Modules. Modules are registered into a Model, which owns every parameter
// tensor, every aux-parameter tensor, the update configuration and the
// gradient accumulators. The first call of a Layer creates its parameters
// from the input shapes; an Updater then applies one optimizer step per
// named gradient.
//
//	b := nn.NewBuilder()
//	fc1, _ := nn.NewFullyConnected(b, 64)
//	relu, _ := nn.NewReLU(b)
//	fc2, _ := nn.NewFullyConnected(b, 10)
//	net, _ := b.Sequential(fc1, relu, fc2)
//
//	model, _ := nn.NewModel(nn.WithLoss("softmax"))
//	_ = model.Register(net)
//
//	logits, _ := nn.Apply(net, x) // parameters are created here
//
//	updater := nn.NewUpdater(model, map[string]any{
//	    "update_rule":   "sgd",
//	    "learning_rate": 0.1,
//	})
//	_ = updater.Step(grads)
//
// All operations are synchronous. A Model and its Modules must not be used
// from several goroutines at once.
package nn
