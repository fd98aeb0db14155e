package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

func (vm *bytecodeVM) pop() (runtime.Value, error) {
	if len(vm.stack) == 0 {
		return nil, fmt.Errorf("bytecode stack underflow")
	}
	last := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return last, nil
}

// popN removes the top n values and returns them in push order.
func (vm *bytecodeVM) popN(n int) ([]runtime.Value, error) {
	if n < 0 || n > len(vm.stack) {
		return nil, fmt.Errorf("bytecode stack underflow")
	}
	start := len(vm.stack) - n
	out := make([]runtime.Value, n)
	copy(out, vm.stack[start:])
	vm.stack = vm.stack[:start]
	return out, nil
}

func (vm *bytecodeVM) push(v runtime.Value) {
	if v == nil {
		v = runtime.Null
	}
	vm.stack = append(vm.stack, v)
}

func (vm *bytecodeVM) frame() *bytecodeFrame {
	return &vm.frames[len(vm.frames)-1]
}
