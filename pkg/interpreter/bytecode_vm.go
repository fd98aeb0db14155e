package interpreter

import (
	"fmt"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

type bytecodeOp int

const (
	bytecodeOpConst bytecodeOp = iota
	bytecodeOpLoadName
	bytecodeOpLoadFunction
	bytecodeOpDeclareName
	bytecodeOpAssignName
	bytecodeOpDup
	bytecodeOpPop
	bytecodeOpBinary
	bytecodeOpUnary
	bytecodeOpToBool
	bytecodeOpJump
	bytecodeOpJumpIfFalse
	bytecodeOpJumpIfTrue
	bytecodeOpCall
	bytecodeOpCallMember
	bytecodeOpReturn
	bytecodeOpMemberAccess
	bytecodeOpMemberSet
	bytecodeOpMemberSetPath
	bytecodeOpIndexGet
	bytecodeOpIndexSet
	bytecodeOpIndexSetName
	bytecodeOpArrayLiteral
	bytecodeOpStructLiteral
	bytecodeOpMakeFunction
	bytecodeOpDefineFunction
	bytecodeOpEnterScope
	bytecodeOpExitScope
	bytecodeOpInclude
)

var bytecodeOpNames = [...]string{
	bytecodeOpConst:          "Const",
	bytecodeOpLoadName:       "LoadName",
	bytecodeOpLoadFunction:   "LoadFunction",
	bytecodeOpDeclareName:    "DeclareName",
	bytecodeOpAssignName:     "AssignName",
	bytecodeOpDup:            "Dup",
	bytecodeOpPop:            "Pop",
	bytecodeOpBinary:         "Binary",
	bytecodeOpUnary:          "Unary",
	bytecodeOpToBool:         "ToBool",
	bytecodeOpJump:           "Jump",
	bytecodeOpJumpIfFalse:    "JumpIfFalse",
	bytecodeOpJumpIfTrue:     "JumpIfTrue",
	bytecodeOpCall:           "Call",
	bytecodeOpCallMember:     "CallMember",
	bytecodeOpReturn:         "Return",
	bytecodeOpMemberAccess:   "MemberAccess",
	bytecodeOpMemberSet:      "MemberSet",
	bytecodeOpMemberSetPath:  "MemberSetPath",
	bytecodeOpIndexGet:       "IndexGet",
	bytecodeOpIndexSet:       "IndexSet",
	bytecodeOpIndexSetName:   "IndexSetName",
	bytecodeOpArrayLiteral:   "ArrayLiteral",
	bytecodeOpStructLiteral:  "StructLiteral",
	bytecodeOpMakeFunction:   "MakeFunction",
	bytecodeOpDefineFunction: "DefineFunction",
	bytecodeOpEnterScope:     "EnterScope",
	bytecodeOpExitScope:      "ExitScope",
	bytecodeOpInclude:        "Include",
}

func (op bytecodeOp) String() string {
	if int(op) >= 0 && int(op) < len(bytecodeOpNames) {
		return bytecodeOpNames[op]
	}
	return fmt.Sprintf("bytecodeOp(%d)", int(op))
}

// run executes a module program in vm.env and returns its result.
func (vm *bytecodeVM) run(program *bytecodeProgram) (runtime.Value, error) {
	if program == nil {
		return nil, fmt.Errorf("bytecode program missing")
	}
	leave := vm.interp.enterRootFrame()
	defer leave()
	if vm.env == nil {
		vm.env = vm.interp.global
	}
	base := len(vm.interp.callStack)
	vm.frames = append(vm.frames, bytecodeFrame{
		program: program,
		env:     vm.env,
		name:    program.name,
	})
	return vm.execute(base)
}

// runClosure calls c on a fresh VM. Natives that call back into script
// functions and host callers land here.
func (vm *bytecodeVM) runClosure(c *runtime.Closure, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	leave := vm.interp.enterRootFrame()
	defer leave()
	base := len(vm.interp.callStack)
	result, pushed, err := vm.enterClosure(c, args, node)
	if err != nil {
		return nil, vm.interp.attachTrace(err)
	}
	if !pushed {
		return result, nil
	}
	return vm.execute(base)
}

// execute steps frames until the outermost one returns. On error the
// interpreter call stack is unwound to depth base.
func (vm *bytecodeVM) execute(base int) (runtime.Value, error) {
	for len(vm.frames) > 0 {
		fr := vm.frame()
		if fr.ip >= len(fr.program.instructions) {
			return nil, vm.fail(base, fmt.Errorf("bytecode %s ran past its end", fr.program.name))
		}
		instr := fr.program.instructions[fr.ip]
		fr.ip++
		if instr.op == bytecodeOpReturn {
			result, done, err := vm.execReturn()
			if err != nil {
				return nil, vm.fail(base, err)
			}
			if done {
				return result, nil
			}
			continue
		}
		if err := vm.step(instr); err != nil {
			return nil, vm.fail(base, err)
		}
	}
	return runtime.Null, nil
}

func (vm *bytecodeVM) step(instr bytecodeInstruction) error {
	switch instr.op {
	case bytecodeOpConst:
		vm.push(instr.value)
		return nil
	case bytecodeOpLoadName:
		v, err := vm.frame().env.Get(instr.name)
		if err != nil {
			return err
		}
		vm.push(v)
		return nil
	case bytecodeOpLoadFunction:
		v, err := lookupFunction(vm.frame().env, instr.name)
		if err != nil {
			return err
		}
		vm.push(v)
		return nil
	case bytecodeOpDup:
		if len(vm.stack) == 0 {
			return fmt.Errorf("bytecode stack underflow")
		}
		vm.push(vm.stack[len(vm.stack)-1])
		return nil
	case bytecodeOpPop:
		_, err := vm.pop()
		return err
	case bytecodeOpBinary, bytecodeOpUnary, bytecodeOpToBool:
		return vm.execOperator(instr)
	case bytecodeOpJump, bytecodeOpJumpIfFalse, bytecodeOpJumpIfTrue:
		return vm.execJump(instr)
	case bytecodeOpEnterScope, bytecodeOpExitScope:
		return vm.execScope(instr)
	case bytecodeOpCall:
		return vm.execCall(instr)
	case bytecodeOpCallMember:
		return vm.execCallMember(instr)
	case bytecodeOpMemberAccess:
		return vm.execMemberAccess(instr)
	case bytecodeOpIndexGet:
		return vm.execIndexGet()
	case bytecodeOpArrayLiteral:
		return vm.execArrayLiteral(instr)
	case bytecodeOpStructLiteral:
		return vm.execStructLiteral(instr)
	case bytecodeOpAssignName:
		return vm.execAssignName(instr)
	case bytecodeOpMemberSet, bytecodeOpMemberSetPath:
		return vm.execMemberSet(instr)
	case bytecodeOpIndexSet, bytecodeOpIndexSetName:
		return vm.execIndexSet(instr)
	case bytecodeOpDeclareName:
		return vm.execDeclareName(instr)
	case bytecodeOpMakeFunction:
		return vm.execMakeFunction(instr)
	case bytecodeOpDefineFunction:
		return vm.execDefineFunction(instr)
	case bytecodeOpInclude:
		return vm.execInclude(instr)
	}
	return fmt.Errorf("bytecode opcode %s not handled", instr.op)
}

// fail records the trace at the failure point and unwinds.
func (vm *bytecodeVM) fail(base int, err error) error {
	err = vm.interp.attachTrace(err)
	if log.LogVerbose() && len(vm.frames) > 0 {
		fr := vm.frame()
		log.LogVf("bytecode: %s failed at ip=%d: %v", fr.program.name, fr.ip-1, err)
	}
	vm.interp.truncateFrames(base)
	vm.frames = vm.frames[:0]
	vm.stack = vm.stack[:0]
	return err
}
