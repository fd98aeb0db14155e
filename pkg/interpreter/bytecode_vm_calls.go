package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

func (vm *bytecodeVM) execCall(instr bytecodeInstruction) error {
	if instr.argCount < 0 {
		return fmt.Errorf("bytecode call arg count invalid")
	}
	args, err := vm.popN(instr.argCount)
	if err != nil {
		return err
	}
	callee, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.invoke(callee, args, instr.node)
}

// execCallMember expects the receiver, the looked up callee and the
// arguments on the stack, in that order.
func (vm *bytecodeVM) execCallMember(instr bytecodeInstruction) error {
	if instr.argCount < 0 {
		return fmt.Errorf("bytecode call arg count invalid")
	}
	args, err := vm.popN(instr.argCount)
	if err != nil {
		return err
	}
	callee, err := vm.pop()
	if err != nil {
		return err
	}
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	return vm.invoke(callee, vm.interp.withReceiver(obj, callee, args), instr.node)
}

// invoke runs natives inline and pushes a frame for script functions.
func (vm *bytecodeVM) invoke(callee runtime.Value, args []runtime.Value, node ast.Node) error {
	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		result, err := vm.interp.callNative(fn, args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case runtime.FunctionValue:
		closure, err := vm.interp.heap.Closure(fn)
		if err != nil {
			return err
		}
		result, pushed, err := vm.enterClosure(closure, args, node)
		if err != nil {
			return err
		}
		if !pushed {
			vm.push(result)
		}
		return nil
	}
	return runtime.Errorf(runtime.TypeError, "%s is not callable", runtime.TypeName(callee))
}

// enterClosure binds arguments and pushes a call frame. A memoized hit
// returns the cached value without pushing anything.
func (vm *bytecodeVM) enterClosure(c *runtime.Closure, args []runtime.Value, node ast.Node) (runtime.Value, bool, error) {
	program, err := lowerClosureBody(c)
	if err != nil {
		return nil, false, err
	}
	callEnv, err := bindArguments(c, args)
	if err != nil {
		return nil, false, err
	}
	key, cached, hit := vm.interp.memoLookup(c, args)
	if hit {
		return cached, false, nil
	}
	name := closureName(c)
	if err := vm.interp.pushFrame(name, node); err != nil {
		return nil, false, err
	}
	vm.frames = append(vm.frames, bytecodeFrame{
		program:   program,
		env:       callEnv,
		stackBase: len(vm.stack),
		name:      name,
		node:      node,
		call:      true,
		closure:   c,
		memoKey:   key,
	})
	return nil, true, nil
}

// execReturn pops the current frame. done reports that the outermost frame
// of this VM returned.
func (vm *bytecodeVM) execReturn() (runtime.Value, bool, error) {
	result, err := vm.pop()
	if err != nil {
		return nil, false, err
	}
	fr := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	if fr.stackBase <= len(vm.stack) {
		vm.stack = vm.stack[:fr.stackBase]
	}
	if fr.call {
		vm.interp.popFrame()
		vm.interp.memoStore(fr.closure, fr.memoKey, result)
	}
	if len(vm.frames) == 0 {
		return result, true, nil
	}
	vm.push(result)
	return nil, false, nil
}
