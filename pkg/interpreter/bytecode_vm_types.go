package interpreter

import (
	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

type bytecodeInstruction struct {
	op       bytecodeOp
	name     string
	operator string
	value    runtime.Value
	target   int
	argCount int
	mutable  bool
	path     []string
	program  *bytecodeProgram
	node     ast.Node
}

// bytecodeProgram is one lowered unit: the module body, a function body or a
// lambda body.
type bytecodeProgram struct {
	name         string
	instructions []bytecodeInstruction
}

// bytecodeFrame is an activation on the VM's own frame stack. Script calls
// push frames instead of recursing on the host stack.
type bytecodeFrame struct {
	program   *bytecodeProgram
	ip        int
	env       *runtime.Environment
	stackBase int
	name      string
	node      ast.Node

	// call frames are mirrored on the interpreter's call stack; the module
	// frame of a run is not.
	call    bool
	closure *runtime.Closure
	memoKey string
}

type bytecodeVM struct {
	interp *Interpreter
	stack  []runtime.Value
	frames []bytecodeFrame
	env    *runtime.Environment
}

func newBytecodeVM(interp *Interpreter, env *runtime.Environment) *bytecodeVM {
	return &bytecodeVM{
		interp: interp,
		env:    env,
		stack:  make([]runtime.Value, 0, 16),
		frames: make([]bytecodeFrame, 0, 8),
	}
}
