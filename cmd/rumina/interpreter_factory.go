package main

import (
	"io"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/config"
	"rumina/interpreter-go/pkg/interpreter"
)

func newInterpreter(cfg *config.Config, mode interpreter.ExecMode, stdout io.Writer, registry *cas.Registry) *interpreter.Interpreter {
	return interpreter.NewWithOptions(interpreter.Options{
		ExecMode:         mode,
		Stdout:           stdout,
		MaxCallDepth:     cfg.MaxCallDepth,
		DecimalPrecision: cfg.DecimalPrecision,
		CAS:              cfg.CAS,
		Registry:         registry,
		RandomSeed:       cfg.RandomSeed,
	})
}

func configuredMode(cfg *config.Config) interpreter.ExecMode {
	mode, err := interpreter.ParseExecMode(cfg.ExecMode)
	if err != nil {
		return interpreter.ExecModeTreewalker
	}
	return mode
}
