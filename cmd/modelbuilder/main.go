// Package main provides the modelbuilder CLI.
//
// It declares a small multilayer perceptron, fits it to synthetic
// regression data with finite-difference gradients, and logs the loss.
//
// Usage:
//
//	modelbuilder -epochs 200 -hidden 8 -rule sgd_momentum -lr 0.05
//	modelbuilder -config overrides.yaml
//	modelbuilder version
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("modelbuilder %s\n", version)
		return
	}

	var opts trainOptions
	flag.IntVar(&opts.Epochs, "epochs", 200, "Number of training steps")
	flag.IntVar(&opts.Samples, "samples", 32, "Number of synthetic samples")
	flag.IntVar(&opts.Hidden, "hidden", 8, "Hidden layer width")
	flag.StringVar(&opts.Rule, "rule", "sgd_momentum", "Update rule (sgd, sgd_momentum, rmsprop, adam)")
	flag.Float64Var(&opts.LearningRate, "lr", 0.05, "Learning rate")
	flag.Int64Var(&opts.Seed, "seed", 1, "Seed for data and initialization")
	flag.StringVar(&opts.ConfigPath, "config", "", "YAML file with update config overrides")
	flag.BoolVar(&opts.UUIDNames, "uuid-names", false, "Name modules with random UUIDs")
	verbose := flag.Bool("v", false, "Log every step")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	result, err := train(opts, logger)
	if err != nil {
		logger.Error("training failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("final loss: %.6f (initial %.6f)\n", result.FinalLoss, result.InitialLoss)
}
