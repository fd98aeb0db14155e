package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

// Control flow in the tree walker travels as errors; validation guarantees
// break and continue never leave a loop and return never leaves a function
// body or the module.

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}

// ExitError is returned from EvaluateModule when a script calls exit(code).
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

func isControlSignal(err error) bool {
	switch err.(type) {
	case breakSignal, continueSignal, returnSignal, ExitError:
		return true
	default:
		return false
	}
}
