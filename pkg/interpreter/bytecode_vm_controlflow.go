package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

func (vm *bytecodeVM) execJump(instr bytecodeInstruction) error {
	fr := vm.frame()
	if instr.target < 0 || instr.target > len(fr.program.instructions) {
		return fmt.Errorf("bytecode jump target %d out of range", instr.target)
	}
	switch instr.op {
	case bytecodeOpJump:
		fr.ip = instr.target
		return nil
	case bytecodeOpJumpIfFalse, bytecodeOpJumpIfTrue:
		cond, err := vm.pop()
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) == (instr.op == bytecodeOpJumpIfTrue) {
			fr.ip = instr.target
		}
		return nil
	}
	return fmt.Errorf("bytecode jump opcode %s invalid", instr.op)
}

// execScope opens one block scope or closes argCount of them.
func (vm *bytecodeVM) execScope(instr bytecodeInstruction) error {
	fr := vm.frame()
	if instr.op == bytecodeOpEnterScope {
		fr.env = runtime.NewEnvironment(fr.env)
		return nil
	}
	for n := 0; n < instr.argCount; n++ {
		parent := fr.env.Parent()
		if parent == nil {
			return fmt.Errorf("bytecode scope underflow")
		}
		fr.env = parent
	}
	return nil
}
