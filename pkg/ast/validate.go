package ast

import "fmt"

// ValidationError is a structural problem found before execution.
type ValidationError struct {
	Node    Node
	Message string
}

func (e *ValidationError) Error() string {
	if e.Node != nil && !e.Node.Span().IsZero() {
		return fmt.Sprintf("%s at %s", e.Message, e.Node.Span())
	}
	return e.Message
}

var binaryOperators = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "^": {},
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
	"&&": {}, "||": {},
}

var unaryOperators = map[string]struct{}{
	"-": {}, "!": {}, "not": {},
}

// IsBinaryOperator reports whether op is a known binary operator.
func IsBinaryOperator(op string) bool {
	_, ok := binaryOperators[op]
	return ok
}

type validator struct {
	loopDepth int
}

// Validate checks the structural rules both execution modes rely on:
// break/continue only inside loops, non-empty identifiers, known operators
// and well-formed assignment targets.
func Validate(mod *Module) error {
	if mod == nil {
		return &ValidationError{Message: "nil module"}
	}
	v := &validator{}
	for _, stmt := range mod.Body {
		if err := v.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) fail(node Node, format string, args ...any) error {
	return &ValidationError{Node: node, Message: fmt.Sprintf(format, args...)}
}

func (v *validator) block(block *BlockStatement) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Body {
		if err := v.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) loopBody(block *BlockStatement) error {
	v.loopDepth++
	defer func() { v.loopDepth-- }()
	return v.block(block)
}

// functionBody validates a body in a fresh loop context; break does not
// escape a function.
func (v *validator) functionBody(params []*Identifier, block *BlockStatement) error {
	for _, param := range params {
		if param == nil || param.Name == "" {
			return v.fail(nil, "function parameter name must not be empty")
		}
	}
	saved := v.loopDepth
	v.loopDepth = 0
	defer func() { v.loopDepth = saved }()
	return v.block(block)
}

func (v *validator) statement(stmt Statement) error {
	switch s := stmt.(type) {
	case nil:
		return v.fail(nil, "nil statement")
	case *VariableDeclaration:
		if s.Name == nil || s.Name.Name == "" {
			return v.fail(s, "variable name must not be empty")
		}
		if s.Value != nil {
			return v.expression(s.Value)
		}
		return nil
	case *FunctionDefinition:
		if s.ID == nil || s.ID.Name == "" {
			return v.fail(s, "function name must not be empty")
		}
		for _, decorator := range s.Decorators {
			if decorator != "memoize" && decorator != "pure" {
				return v.fail(s, "unknown decorator @%s", decorator)
			}
		}
		return v.functionBody(s.Params, s.Body)
	case *ReturnStatement:
		if s.Argument != nil {
			return v.expression(s.Argument)
		}
		return nil
	case *IfStatement:
		if err := v.expression(s.Condition); err != nil {
			return err
		}
		if err := v.block(s.Consequent); err != nil {
			return err
		}
		if s.Alternate != nil {
			return v.statement(s.Alternate)
		}
		return nil
	case *WhileLoop:
		if err := v.expression(s.Condition); err != nil {
			return err
		}
		return v.loopBody(s.Body)
	case *ForLoop:
		if s.Init != nil {
			if err := v.statement(s.Init); err != nil {
				return err
			}
		}
		if s.Condition != nil {
			if err := v.expression(s.Condition); err != nil {
				return err
			}
		}
		if s.Update != nil {
			if err := v.expression(s.Update); err != nil {
				return err
			}
		}
		return v.loopBody(s.Body)
	case *LoopStatement:
		return v.loopBody(s.Body)
	case *BreakStatement:
		if v.loopDepth == 0 {
			return v.fail(s, "break outside of loop")
		}
		return nil
	case *ContinueStatement:
		if v.loopDepth == 0 {
			return v.fail(s, "continue outside of loop")
		}
		return nil
	case *IncludeStatement:
		if s.Path == "" {
			return v.fail(s, "include path must not be empty")
		}
		return nil
	case *BlockStatement:
		return v.block(s)
	case Expression:
		return v.expression(s)
	}
	return v.fail(stmt, "unsupported statement %s", stmt.NodeType())
}

func (v *validator) expression(expr Expression) error {
	switch e := expr.(type) {
	case nil:
		return v.fail(nil, "missing expression")
	case *Identifier:
		if e.Name == "" {
			return v.fail(e, "identifier must not be empty")
		}
		return nil
	case *IntegerLiteral:
		if e.Value == nil {
			return v.fail(e, "integer literal without value")
		}
		return nil
	case *DecimalLiteral, *StringLiteral, *BooleanLiteral, *NullLiteral:
		return nil
	case *ArrayLiteral:
		for _, el := range e.Elements {
			if err := v.expression(el); err != nil {
				return err
			}
		}
		return nil
	case *StructLiteral:
		for _, field := range e.Fields {
			if field == nil || field.Name == nil || field.Name.Name == "" {
				return v.fail(e, "struct field name must not be empty")
			}
			if err := v.expression(field.Value); err != nil {
				return err
			}
		}
		return nil
	case *UnaryExpression:
		if _, ok := unaryOperators[e.Operator]; !ok {
			return v.fail(e, "unknown unary operator %q", e.Operator)
		}
		return v.expression(e.Operand)
	case *FactorialExpression:
		return v.expression(e.Operand)
	case *BinaryExpression:
		if !IsBinaryOperator(e.Operator) {
			return v.fail(e, "unknown binary operator %q", e.Operator)
		}
		if err := v.expression(e.Left); err != nil {
			return err
		}
		return v.expression(e.Right)
	case *FunctionCall:
		if err := v.expression(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := v.expression(arg); err != nil {
				return err
			}
		}
		return nil
	case *MemberAccessExpression:
		if e.Member == nil || e.Member.Name == "" {
			return v.fail(e, "member name must not be empty")
		}
		return v.expression(e.Object)
	case *IndexExpression:
		if err := v.expression(e.Object); err != nil {
			return err
		}
		return v.expression(e.Index)
	case *LambdaExpression:
		return v.functionBody(e.Params, e.Body)
	case *AssignmentExpression:
		if e.Target == nil {
			return v.fail(e, "missing assignment target")
		}
		if err := v.expression(e.Target); err != nil {
			return err
		}
		return v.expression(e.Value)
	}
	return v.fail(expr, "unsupported expression %s", expr.NodeType())
}
