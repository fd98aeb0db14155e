package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/ast"
)

// execDefineFunction binds a named function in the current scope. The body
// was lowered ahead of time and rides on the instruction.
func (vm *bytecodeVM) execDefineFunction(instr bytecodeInstruction) error {
	def, ok := instr.node.(*ast.FunctionDefinition)
	if !ok || def == nil {
		return fmt.Errorf("bytecode function definition missing node")
	}
	env := vm.frame().env
	env.Define(instr.name, vm.interp.makeFunction(def, env, instr.program), true)
	return nil
}

func (vm *bytecodeVM) execMakeFunction(instr bytecodeInstruction) error {
	lambda, ok := instr.node.(*ast.LambdaExpression)
	if !ok || lambda == nil {
		return fmt.Errorf("bytecode lambda missing node")
	}
	vm.push(vm.interp.makeLambda(lambda, vm.frame().env, instr.program))
	return nil
}
