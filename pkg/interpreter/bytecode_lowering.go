package interpreter

import (
	"errors"
	"fmt"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

var errBytecodeUnsupported = errors.New("bytecode lowering unsupported")

type bytecodeLoweringContext struct {
	instructions []bytecodeInstruction
	scopeDepth   int
	loopStack    []loopContext
}

type loopContext struct {
	start         int
	scopeDepth    int
	breakJumps    []int
	continueJumps []int
}

// lowerModuleToBytecode validates module and lowers it. Nothing is returned
// for a module that fails validation.
func (i *Interpreter) lowerModuleToBytecode(module *ast.Module) (*bytecodeProgram, error) {
	if err := validateModule(module); err != nil {
		return nil, err
	}
	program, err := lowerUnit(moduleFrameName, module.Body)
	if err != nil {
		return nil, runtime.WrapError(runtime.ParseError, err)
	}
	log.LogVf("bytecode: lowered module into %d instructions", len(program.instructions))
	return program, nil
}

// lowerClosureBody lowers the body of a closure created by the tree walker so
// the VM can run it; the result is cached on the closure.
func lowerClosureBody(c *runtime.Closure) (*bytecodeProgram, error) {
	if program, ok := c.Code.(*bytecodeProgram); ok && program != nil {
		return program, nil
	}
	var body []ast.Statement
	if c.Body != nil {
		body = c.Body.Body
	}
	program, err := lowerUnit(closureName(c), body)
	if err != nil {
		return nil, runtime.WrapError(runtime.ParseError, err)
	}
	c.Code = program
	return program, nil
}

// lowerUnit emits a statement list that leaves its result on the stack and
// returns it: the last expression statement's value, else null.
func lowerUnit(name string, body []ast.Statement) (*bytecodeProgram, error) {
	ctx := &bytecodeLoweringContext{instructions: make([]bytecodeInstruction, 0, len(body)*2+2)}
	produced := false
	for idx, stmt := range body {
		if stmt == nil {
			return nil, bytecodeUnsupported("nil statement in %s", name)
		}
		if expr, ok := stmt.(ast.Expression); ok && idx == len(body)-1 {
			if err := emitExpression(ctx, expr); err != nil {
				return nil, err
			}
			produced = true
			continue
		}
		if err := emitStatement(ctx, stmt); err != nil {
			return nil, err
		}
	}
	if !produced {
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.Null})
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpReturn})
	return &bytecodeProgram{name: name, instructions: ctx.instructions}, nil
}

// emitStatement leaves the stack as it found it.
func emitStatement(ctx *bytecodeLoweringContext, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Value != nil {
			if err := emitExpression(ctx, s.Value); err != nil {
				return err
			}
		} else {
			ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.Null})
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpDeclareName, name: s.Name.Name, mutable: s.Mutable, node: s})
	case *ast.FunctionDefinition:
		program, err := lowerUnit(s.ID.Name, s.Body.Body)
		if err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpDefineFunction, name: s.ID.Name, program: program, node: s})
	case *ast.ReturnStatement:
		if s.Argument != nil {
			if err := emitExpression(ctx, s.Argument); err != nil {
				return err
			}
		} else {
			ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.Null})
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpReturn, node: s})
	case *ast.IfStatement:
		return emitIf(ctx, s)
	case *ast.WhileLoop:
		return emitWhileLoop(ctx, s)
	case *ast.ForLoop:
		return emitForLoop(ctx, s)
	case *ast.LoopStatement:
		return emitLoopStatement(ctx, s)
	case *ast.BreakStatement:
		return emitBreakStatement(ctx)
	case *ast.ContinueStatement:
		return emitContinueStatement(ctx)
	case *ast.IncludeStatement:
		ctx.emit(bytecodeInstruction{op: bytecodeOpInclude, name: s.Path, node: s})
	case *ast.BlockStatement:
		return emitBlock(ctx, s)
	case ast.Expression:
		if err := emitExpression(ctx, s); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpPop})
	default:
		return bytecodeUnsupported("statement %T", stmt)
	}
	return nil
}

func emitExpression(ctx *bytecodeLoweringContext, expr ast.Expression) error {
	switch n := expr.(type) {
	case *ast.StringLiteral:
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.String(n.Value)})
	case *ast.BooleanLiteral:
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.Bool(n.Value)})
	case *ast.NullLiteral:
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: runtime.Null})
	case *ast.IntegerLiteral:
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: integerLiteralValue(n)})
	case *ast.DecimalLiteral:
		val, err := decimalLiteralValue(n)
		if err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpConst, value: val})
	case *ast.Identifier:
		ctx.emit(bytecodeInstruction{op: bytecodeOpLoadName, name: n.Name, node: n})
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if err := emitExpression(ctx, el); err != nil {
				return err
			}
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpArrayLiteral, argCount: len(n.Elements), node: n})
	case *ast.StructLiteral:
		for _, field := range n.Fields {
			if err := emitExpression(ctx, field.Value); err != nil {
				return err
			}
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpStructLiteral, argCount: len(n.Fields), node: n})
	case *ast.UnaryExpression:
		if err := emitExpression(ctx, n.Operand); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpUnary, operator: n.Operator, node: n})
	case *ast.FactorialExpression:
		if err := emitExpression(ctx, n.Operand); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpUnary, operator: unaryFactorial, node: n})
	case *ast.BinaryExpression:
		return emitBinary(ctx, n)
	case *ast.FunctionCall:
		return emitCall(ctx, n)
	case *ast.MemberAccessExpression:
		if err := emitExpression(ctx, n.Object); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpMemberAccess, name: n.Member.Name, node: n})
	case *ast.IndexExpression:
		if err := emitExpression(ctx, n.Object); err != nil {
			return err
		}
		if err := emitExpression(ctx, n.Index); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpIndexGet, node: n})
	case *ast.LambdaExpression:
		program, err := lowerUnit("lambda", n.Body.Body)
		if err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpMakeFunction, program: program, node: n})
	case *ast.AssignmentExpression:
		return emitAssignment(ctx, n)
	default:
		return bytecodeUnsupported("expression %T", expr)
	}
	return nil
}

func emitBinary(ctx *bytecodeLoweringContext, n *ast.BinaryExpression) error {
	if err := emitExpression(ctx, n.Left); err != nil {
		return err
	}
	switch n.Operator {
	case "&&", "||":
		ctx.emit(bytecodeInstruction{op: bytecodeOpDup})
		jumpOp := bytecodeOpJumpIfFalse
		if n.Operator == "||" {
			jumpOp = bytecodeOpJumpIfTrue
		}
		jumpToEnd := ctx.emit(bytecodeInstruction{op: jumpOp, target: -1})
		ctx.emit(bytecodeInstruction{op: bytecodeOpPop})
		if err := emitExpression(ctx, n.Right); err != nil {
			return err
		}
		ctx.patchJump(jumpToEnd, len(ctx.instructions))
		ctx.emit(bytecodeInstruction{op: bytecodeOpToBool})
		return nil
	}
	if err := emitExpression(ctx, n.Right); err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpBinary, operator: n.Operator, node: n})
	return nil
}

func emitCall(ctx *bytecodeLoweringContext, n *ast.FunctionCall) error {
	if member, ok := n.Callee.(*ast.MemberAccessExpression); ok {
		if err := emitExpression(ctx, member.Object); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpDup})
		ctx.emit(bytecodeInstruction{op: bytecodeOpMemberAccess, name: member.Member.Name, node: member})
		if err := emitArguments(ctx, n.Arguments); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpCallMember, argCount: len(n.Arguments), node: n})
		return nil
	}
	if ident, ok := n.Callee.(*ast.Identifier); ok {
		ctx.emit(bytecodeInstruction{op: bytecodeOpLoadFunction, name: ident.Name, node: ident})
	} else if err := emitExpression(ctx, n.Callee); err != nil {
		return err
	}
	if err := emitArguments(ctx, n.Arguments); err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpCall, argCount: len(n.Arguments), node: n})
	return nil
}

func emitArguments(ctx *bytecodeLoweringContext, args []ast.Expression) error {
	for _, arg := range args {
		if err := emitExpression(ctx, arg); err != nil {
			return err
		}
	}
	return nil
}

// emitAssignment keeps the tree walker's order: value, then index, then the
// root of a computed target.
func emitAssignment(ctx *bytecodeLoweringContext, n *ast.AssignmentExpression) error {
	if err := emitExpression(ctx, n.Value); err != nil {
		return err
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		ctx.emit(bytecodeInstruction{op: bytecodeOpAssignName, name: target.Name, node: n})
		return nil
	case *ast.MemberAccessExpression:
		root, path := splitAssignPath(target.Object)
		path = append(path, target.Member.Name)
		if ident, ok := root.(*ast.Identifier); ok {
			ctx.emit(bytecodeInstruction{op: bytecodeOpMemberSetPath, name: ident.Name, path: path, node: n})
			return nil
		}
		if err := emitExpression(ctx, root); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpMemberSet, path: path, node: n})
		return nil
	case *ast.IndexExpression:
		if err := emitExpression(ctx, target.Index); err != nil {
			return err
		}
		root, path := splitAssignPath(target.Object)
		if ident, ok := root.(*ast.Identifier); ok {
			ctx.emit(bytecodeInstruction{op: bytecodeOpIndexSetName, name: ident.Name, path: path, node: n})
			return nil
		}
		if err := emitExpression(ctx, root); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpIndexSet, path: path, node: n})
		return nil
	}
	return bytecodeUnsupported("assignment target %T", n.Target)
}

func emitBlock(ctx *bytecodeLoweringContext, block *ast.BlockStatement) error {
	ctx.enterScope()
	if block != nil {
		for _, stmt := range block.Body {
			if stmt == nil {
				return bytecodeUnsupported("nil statement in block")
			}
			if err := emitStatement(ctx, stmt); err != nil {
				return err
			}
		}
	}
	ctx.exitScope()
	return nil
}

func emitIf(ctx *bytecodeLoweringContext, stmt *ast.IfStatement) error {
	if err := emitExpression(ctx, stmt.Condition); err != nil {
		return err
	}
	jumpToElse := ctx.emit(bytecodeInstruction{op: bytecodeOpJumpIfFalse, target: -1})
	if err := emitBlock(ctx, stmt.Consequent); err != nil {
		return err
	}
	if stmt.Alternate == nil {
		ctx.patchJump(jumpToElse, len(ctx.instructions))
		return nil
	}
	jumpToEnd := ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: -1})
	ctx.patchJump(jumpToElse, len(ctx.instructions))
	if err := emitStatement(ctx, stmt.Alternate); err != nil {
		return err
	}
	ctx.patchJump(jumpToEnd, len(ctx.instructions))
	return nil
}

func emitWhileLoop(ctx *bytecodeLoweringContext, loop *ast.WhileLoop) error {
	loopStart := len(ctx.instructions)
	ctx.pushLoop(loopStart)
	if err := emitExpression(ctx, loop.Condition); err != nil {
		return err
	}
	jumpToEnd := ctx.emit(bytecodeInstruction{op: bytecodeOpJumpIfFalse, target: -1})
	if err := emitBlock(ctx, loop.Body); err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: loopStart})
	loopEnd := len(ctx.instructions)
	ctx.patchJump(jumpToEnd, loopEnd)
	ctx.popLoop(loopEnd, loopStart)
	return nil
}

// emitForLoop wraps the loop in its own scope holding the init bindings;
// continue jumps to the update clause.
func emitForLoop(ctx *bytecodeLoweringContext, loop *ast.ForLoop) error {
	ctx.enterScope()
	if loop.Init != nil {
		if err := emitStatement(ctx, loop.Init); err != nil {
			return err
		}
	}
	loopStart := len(ctx.instructions)
	ctx.pushLoop(loopStart)
	jumpToEnd := -1
	if loop.Condition != nil {
		if err := emitExpression(ctx, loop.Condition); err != nil {
			return err
		}
		jumpToEnd = ctx.emit(bytecodeInstruction{op: bytecodeOpJumpIfFalse, target: -1})
	}
	if err := emitBlock(ctx, loop.Body); err != nil {
		return err
	}
	update := len(ctx.instructions)
	if loop.Update != nil {
		if err := emitExpression(ctx, loop.Update); err != nil {
			return err
		}
		ctx.emit(bytecodeInstruction{op: bytecodeOpPop})
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: loopStart})
	loopEnd := len(ctx.instructions)
	if jumpToEnd >= 0 {
		ctx.patchJump(jumpToEnd, loopEnd)
	}
	ctx.popLoop(loopEnd, update)
	ctx.exitScope()
	return nil
}

func emitLoopStatement(ctx *bytecodeLoweringContext, loop *ast.LoopStatement) error {
	loopStart := len(ctx.instructions)
	ctx.pushLoop(loopStart)
	if err := emitBlock(ctx, loop.Body); err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: loopStart})
	loopEnd := len(ctx.instructions)
	ctx.popLoop(loopEnd, loopStart)
	return nil
}

func emitBreakStatement(ctx *bytecodeLoweringContext) error {
	exitCount, err := ctx.loopExitCount()
	if err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpExitScope, argCount: exitCount})
	jumpIdx := ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: -1})
	ctx.appendBreakJump(jumpIdx)
	return nil
}

func emitContinueStatement(ctx *bytecodeLoweringContext) error {
	exitCount, err := ctx.loopExitCount()
	if err != nil {
		return err
	}
	ctx.emit(bytecodeInstruction{op: bytecodeOpExitScope, argCount: exitCount})
	jumpIdx := ctx.emit(bytecodeInstruction{op: bytecodeOpJump, target: -1})
	ctx.appendContinueJump(jumpIdx)
	return nil
}

func (ctx *bytecodeLoweringContext) emit(instr bytecodeInstruction) int {
	ctx.instructions = append(ctx.instructions, instr)
	return len(ctx.instructions) - 1
}

func (ctx *bytecodeLoweringContext) patchJump(index int, target int) {
	if index < 0 || index >= len(ctx.instructions) {
		return
	}
	ctx.instructions[index].target = target
}

func (ctx *bytecodeLoweringContext) enterScope() {
	ctx.emit(bytecodeInstruction{op: bytecodeOpEnterScope})
	ctx.scopeDepth++
}

func (ctx *bytecodeLoweringContext) exitScope() {
	ctx.emit(bytecodeInstruction{op: bytecodeOpExitScope, argCount: 1})
	if ctx.scopeDepth > 0 {
		ctx.scopeDepth--
	}
}

func (ctx *bytecodeLoweringContext) pushLoop(start int) {
	ctx.loopStack = append(ctx.loopStack, loopContext{
		start:      start,
		scopeDepth: ctx.scopeDepth,
	})
}

// popLoop patches pending break jumps to loopEnd and continue jumps to
// continueTarget.
func (ctx *bytecodeLoweringContext) popLoop(loopEnd, continueTarget int) {
	if len(ctx.loopStack) == 0 {
		return
	}
	loop := ctx.loopStack[len(ctx.loopStack)-1]
	ctx.loopStack = ctx.loopStack[:len(ctx.loopStack)-1]
	for _, idx := range loop.breakJumps {
		ctx.patchJump(idx, loopEnd)
	}
	for _, idx := range loop.continueJumps {
		ctx.patchJump(idx, continueTarget)
	}
}

func (ctx *bytecodeLoweringContext) appendBreakJump(index int) {
	if len(ctx.loopStack) == 0 {
		return
	}
	last := len(ctx.loopStack) - 1
	ctx.loopStack[last].breakJumps = append(ctx.loopStack[last].breakJumps, index)
}

func (ctx *bytecodeLoweringContext) appendContinueJump(index int) {
	if len(ctx.loopStack) == 0 {
		return
	}
	last := len(ctx.loopStack) - 1
	ctx.loopStack[last].continueJumps = append(ctx.loopStack[last].continueJumps, index)
}

func (ctx *bytecodeLoweringContext) loopExitCount() (int, error) {
	if len(ctx.loopStack) == 0 {
		return 0, bytecodeUnsupported("break/continue outside loop")
	}
	loop := ctx.loopStack[len(ctx.loopStack)-1]
	exitCount := ctx.scopeDepth - loop.scopeDepth
	if exitCount <= 0 {
		return 0, bytecodeUnsupported("loop scope mismatch")
	}
	return exitCount, nil
}

func bytecodeUnsupported(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBytecodeUnsupported}, args...)...)
}
