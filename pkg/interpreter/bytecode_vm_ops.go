package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

func (vm *bytecodeVM) execOperator(instr bytecodeInstruction) error {
	switch instr.op {
	case bytecodeOpBinary:
		right, err := vm.pop()
		if err != nil {
			return err
		}
		left, err := vm.pop()
		if err != nil {
			return err
		}
		result, err := applyBinaryOperator(vm.interp.heap, instr.operator, left, right)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case bytecodeOpUnary:
		operand, err := vm.pop()
		if err != nil {
			return err
		}
		result, err := applyUnaryOperator(instr.operator, operand)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case bytecodeOpToBool:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(runtime.Bool(runtime.Truthy(v)))
		return nil
	}
	return fmt.Errorf("bytecode operator opcode %s invalid", instr.op)
}
