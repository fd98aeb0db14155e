package ast

import "math/big"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(big.NewInt(value))
}

func IntBig(value *big.Int) *IntegerLiteral {
	return NewIntegerLiteral(new(big.Int).Set(value))
}

func Dec(text string) *DecimalLiteral {
	return NewDecimalLiteral(text)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

func Field(name string, value Expression) *StructFieldInitializer {
	return NewStructFieldInitializer(ID(name), value)
}

func StructLit(fields ...*StructFieldInitializer) *StructLiteral {
	return NewStructLiteral(fields)
}

// Expression helpers.

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Fact(operand Expression) *FactorialExpression {
	return NewFactorialExpression(operand)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func Call(name string, args ...Expression) *FunctionCall {
	return CallExpr(ID(name), args...)
}

func Member(object Expression, member string) *MemberAccessExpression {
	return NewMemberAccessExpression(object, ID(member))
}

func CallMember(object Expression, member string, args ...Expression) *FunctionCall {
	return CallExpr(Member(object, member), args...)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func Lam(params []string, body ...Statement) *LambdaExpression {
	return NewLambdaExpression(identifiers(params), Block(body...))
}

func Assign(target AssignmentTarget, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(target, value)
}

func AssignMember(object Expression, member string, value Expression) *AssignmentExpression {
	return Assign(Member(object, member), value)
}

func AssignIndex(object, index, value Expression) *AssignmentExpression {
	return Assign(Index(object, index), value)
}

// Statement helpers.

func Var(name string, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(true, ID(name), value)
}

func Let(name string, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(false, ID(name), value)
}

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(ID(name), identifiers(params), Block(body...), nil)
}

// Decorated attaches decorators such as "memoize" to a function definition.
func Decorated(fn *FunctionDefinition, decorators ...string) *FunctionDefinition {
	fn.Decorators = append(fn.Decorators, decorators...)
	return fn
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func If(condition Expression, consequent *BlockStatement, alternate Statement) *IfStatement {
	return NewIfStatement(condition, consequent, alternate)
}

func While(condition Expression, body ...Statement) *WhileLoop {
	return NewWhileLoop(condition, Block(body...))
}

func For(init Statement, condition Expression, update Expression, body ...Statement) *ForLoop {
	return NewForLoop(init, condition, update, Block(body...))
}

func Loop(body ...Statement) *LoopStatement {
	return NewLoopStatement(Block(body...))
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Include(path string) *IncludeStatement {
	return NewIncludeStatement(path)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func Mod(body ...Statement) *Module {
	return NewModule(body)
}

func identifiers(names []string) []*Identifier {
	out := make([]*Identifier, len(names))
	for i, name := range names {
		out[i] = ID(name)
	}
	return out
}
