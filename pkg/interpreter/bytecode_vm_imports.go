package interpreter

func (vm *bytecodeVM) execInclude(instr bytecodeInstruction) error {
	return vm.interp.includeModule(instr.name, vm.frame().env)
}
