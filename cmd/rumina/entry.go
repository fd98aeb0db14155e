package main

import (
	"errors"
	"fmt"
	"os"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/config"
	"rumina/interpreter-go/pkg/driver"
	"rumina/interpreter-go/pkg/interpreter"
	"rumina/interpreter-go/pkg/runtime"
)

// runEntry evaluates each program in turn on one interpreter, so later
// programs see the globals of earlier ones. Unreachable heap objects are
// collected between programs.
func runEntry(args []string, cfg *config.Config) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "rumina run requires a program file")
		return 1
	}
	programs := make([]*driver.Program, 0, len(args))
	for _, path := range args {
		program, err := driver.LoadProgram(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
			return 1
		}
		programs = append(programs, program)
	}

	interp := newInterpreter(cfg, configuredMode(cfg), os.Stdout, cas.DefaultRegistry)
	for idx, program := range programs {
		if idx > 0 {
			freed := interp.Collect()
			log.LogVf("collected %d heap objects before %s", freed, program.Path)
		}
		log.LogVf("running %s (%s)", program.Path, interp.ExecMode())
		if _, _, err := interp.EvaluateModule(program.Module); err != nil {
			return reportRunError(program.Path, err)
		}
	}
	return 0
}

// reportRunError prints err and maps it to the process exit code. exit(n)
// in a script is not an error.
func reportRunError(path string, err error) int {
	var exit interpreter.ExitError
	if errors.As(err, &exit) {
		log.LogVf("%s exited with code %d", path, exit.Code)
		return exit.Code
	}
	if rerr, ok := runtime.AsError(err); ok {
		fmt.Fprintln(os.Stderr, rerr.Describe())
		return 1
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
	return 1
}
