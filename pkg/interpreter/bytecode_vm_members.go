package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/ast"
)

func (vm *bytecodeVM) execMemberAccess(instr bytecodeInstruction) error {
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	v, err := vm.interp.memberGet(obj, instr.name)
	if err != nil {
		return err
	}
	vm.push(v)
	return nil
}

func (vm *bytecodeVM) execIndexGet() error {
	index, err := vm.pop()
	if err != nil {
		return err
	}
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	v, err := vm.interp.indexGet(obj, index)
	if err != nil {
		return err
	}
	vm.push(v)
	return nil
}

func (vm *bytecodeVM) execArrayLiteral(instr bytecodeInstruction) error {
	elements, err := vm.popN(instr.argCount)
	if err != nil {
		return err
	}
	vm.push(vm.interp.heap.NewArray(elements))
	return nil
}

func (vm *bytecodeVM) execStructLiteral(instr bytecodeInstruction) error {
	lit, ok := instr.node.(*ast.StructLiteral)
	if !ok || lit == nil {
		return fmt.Errorf("bytecode struct literal missing node")
	}
	values, err := vm.popN(instr.argCount)
	if err != nil {
		return err
	}
	v, err := vm.interp.buildStruct(lit, values)
	if err != nil {
		return err
	}
	vm.push(v)
	return nil
}
