package interpreter

import (
	"rumina/interpreter-go/pkg/runtime"
)

func (vm *bytecodeVM) execDeclareName(instr bytecodeInstruction) error {
	value, err := vm.pop()
	if err != nil {
		return err
	}
	vm.frame().env.Define(instr.name, value, instr.mutable)
	return nil
}

func (vm *bytecodeVM) execAssignName(instr bytecodeInstruction) error {
	value, err := vm.pop()
	if err != nil {
		return err
	}
	if err := vm.frame().env.Assign(instr.name, value); err != nil {
		return err
	}
	vm.push(value)
	return nil
}

// execMemberSet handles a.b.c = v. instr.path holds every member name; the
// last one is written, the others are walked with autovivification.
func (vm *bytecodeVM) execMemberSet(instr bytecodeInstruction) error {
	var root assignTarget
	if instr.op == bytecodeOpMemberSet {
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		root = valueTarget(obj)
	}
	value, err := vm.pop()
	if err != nil {
		return err
	}
	if instr.op == bytecodeOpMemberSetPath {
		root, err = vm.interp.bindingTarget(vm.frame().env, instr.name)
		if err != nil {
			return err
		}
	}
	if len(instr.path) == 0 {
		return runtime.Errorf(runtime.TypeError, "member assignment without a member")
	}
	last := len(instr.path) - 1
	parent, err := vm.interp.resolveAssignPath(root, instr.path[:last])
	if err != nil {
		return err
	}
	if err := vm.interp.storeMember(parent, instr.path[last], value); err != nil {
		return err
	}
	vm.push(value)
	return nil
}

// execIndexSet handles a.b[i] = v; instr.path holds the members between the
// root and the indexed aggregate.
func (vm *bytecodeVM) execIndexSet(instr bytecodeInstruction) error {
	var root assignTarget
	if instr.op == bytecodeOpIndexSet {
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		root = valueTarget(obj)
	}
	index, err := vm.pop()
	if err != nil {
		return err
	}
	value, err := vm.pop()
	if err != nil {
		return err
	}
	if instr.op == bytecodeOpIndexSetName {
		root, err = vm.interp.bindingTarget(vm.frame().env, instr.name)
		if err != nil {
			return err
		}
	}
	parent, err := vm.interp.resolveAssignPath(root, instr.path)
	if err != nil {
		return err
	}
	if err := vm.interp.storeIndex(parent, index, value); err != nil {
		return err
	}
	vm.push(value)
	return nil
}
