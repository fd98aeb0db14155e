package interpreter

import (
	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.IntegerLiteral:
		return integerLiteralValue(n), nil
	case *ast.DecimalLiteral:
		return decimalLiteralValue(n)
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.ArrayLiteral:
		return i.evaluateArrayLiteral(n, env)
	case *ast.StructLiteral:
		return i.evaluateStructLiteral(n, env)
	case *ast.UnaryExpression:
		operand, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return applyUnaryOperator(n.Operator, operand)
	case *ast.FactorialExpression:
		operand, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return applyUnaryOperator(unaryFactorial, operand)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.MemberAccessExpression:
		obj, err := i.evaluateExpression(n.Object, env)
		if err != nil {
			return nil, err
		}
		return i.memberGet(obj, n.Member.Name)
	case *ast.IndexExpression:
		obj, err := i.evaluateExpression(n.Object, env)
		if err != nil {
			return nil, err
		}
		idx, err := i.evaluateExpression(n.Index, env)
		if err != nil {
			return nil, err
		}
		return i.indexGet(obj, idx)
	case *ast.LambdaExpression:
		return i.makeLambda(n, env, nil), nil
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	default:
		return nil, runtime.Errorf(runtime.TypeError, "unsupported expression %T", node)
	}
}

func integerLiteralValue(n *ast.IntegerLiteral) runtime.Value {
	if n.Value.IsInt64() {
		return runtime.Int(n.Value.Int64())
	}
	return runtime.BigIntValue{Val: n.Value}
}

func decimalLiteralValue(n *ast.DecimalLiteral) (runtime.Value, error) {
	r, err := runtime.ParseDecimalLiteral(n.Text)
	if err != nil {
		return nil, runtime.WrapError(runtime.ParseError, err)
	}
	return r, nil
}

func (i *Interpreter) evaluateArrayLiteral(n *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		v, err := i.evaluateExpression(el, env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	return i.heap.NewArray(elements), nil
}

func (i *Interpreter) evaluateStructLiteral(n *ast.StructLiteral, env *runtime.Environment) (runtime.Value, error) {
	values := make([]runtime.Value, 0, len(n.Fields))
	for _, field := range n.Fields {
		v, err := i.evaluateExpression(field.Value, env)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return i.buildStruct(n, values)
}

// buildStruct allocates a struct literal from already evaluated field values.
func (i *Interpreter) buildStruct(n *ast.StructLiteral, values []runtime.Value) (runtime.Value, error) {
	inst := i.heap.NewStruct()
	fields, err := i.heap.Fields(inst)
	if err != nil {
		return nil, err
	}
	for idx, field := range n.Fields {
		fields.Set(field.Name.Name, values[idx])
	}
	return inst, nil
}

func (i *Interpreter) evaluateBinaryExpression(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "&&":
		if !runtime.Truthy(left) {
			return runtime.Bool(false), nil
		}
	case "||":
		if runtime.Truthy(left) {
			return runtime.Bool(true), nil
		}
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(i.heap, n.Operator, left, right)
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	if member, ok := call.Callee.(*ast.MemberAccessExpression); ok {
		obj, err := i.evaluateExpression(member.Object, env)
		if err != nil {
			return nil, err
		}
		callee, err := i.memberGet(obj, member.Member.Name)
		if err != nil {
			return nil, err
		}
		args, err := i.evaluateArguments(call.Arguments, env)
		if err != nil {
			return nil, err
		}
		return i.callValue(callee, i.withReceiver(obj, callee, args), call)
	}
	var (
		callee runtime.Value
		err    error
	)
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		callee, err = lookupFunction(env, ident.Name)
	} else {
		callee, err = i.evaluateExpression(call.Callee, env)
	}
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(call.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.callValue(callee, args, call)
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// lookupFunction resolves a called name; an unknown name is a NameError that
// says it was used as a function.
func lookupFunction(env *runtime.Environment, name string) (runtime.Value, error) {
	binding, ok := env.Binding(name)
	if !ok {
		return nil, runtime.Errorf(runtime.NameError, "undefined function '%s'", name)
	}
	return binding.Value, nil
}

func (i *Interpreter) evaluateAssignment(n *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.MemberAccessExpression:
		root, path := splitAssignPath(target.Object)
		base, err := i.assignRoot(root, env)
		if err != nil {
			return nil, err
		}
		parent, err := i.resolveAssignPath(base, path)
		if err != nil {
			return nil, err
		}
		if err := i.storeMember(parent, target.Member.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.IndexExpression:
		index, err := i.evaluateExpression(target.Index, env)
		if err != nil {
			return nil, err
		}
		root, path := splitAssignPath(target.Object)
		base, err := i.assignRoot(root, env)
		if err != nil {
			return nil, err
		}
		parent, err := i.resolveAssignPath(base, path)
		if err != nil {
			return nil, err
		}
		if err := i.storeIndex(parent, index, value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, runtime.Errorf(runtime.TypeError, "invalid assignment target %T", n.Target)
}

func (i *Interpreter) assignRoot(root ast.Expression, env *runtime.Environment) (assignTarget, error) {
	if ident, ok := root.(*ast.Identifier); ok {
		return i.bindingTarget(env, ident.Name)
	}
	v, err := i.evaluateExpression(root, env)
	if err != nil {
		return assignTarget{}, err
	}
	return valueTarget(v), nil
}
