package interpreter

import (
	"rumina/interpreter-go/pkg/runtime"
)

// Unary operator names. Factorial has no surface token of its own in the
// operator table; the AST carries it as a dedicated node.
const (
	unaryNegate    = "-"
	unaryNot       = "!"
	unaryNotWord   = "not"
	unaryFactorial = "factorial"
)

// applyBinaryOperator is the single implementation of every binary operator
// except the short-circuit evaluation of && and ||, which callers perform
// before handing over both operands.
func applyBinaryOperator(heap *runtime.Heap, op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==":
		return runtime.Bool(valuesEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!valuesEqual(left, right)), nil
	case "&&":
		return runtime.Bool(runtime.Truthy(left) && runtime.Truthy(right)), nil
	case "||":
		return runtime.Bool(runtime.Truthy(left) || runtime.Truthy(right)), nil
	}
	if runtime.IsNull(left) || runtime.IsNull(right) {
		return nil, runtime.Errorf(runtime.TypeError, "operator %s is not defined for %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
	}
	switch op {
	case "<", "<=", ">", ">=":
		return compareValues(op, left, right)
	case "+":
		return addValues(heap, left, right)
	case "-", "*", "/", "%", "^":
		return runtime.Arithmetic(op, left, right)
	}
	return nil, runtime.Errorf(runtime.TypeError, "unknown binary operator %s", op)
}

func addValues(heap *runtime.Heap, left, right runtime.Value) (runtime.Value, error) {
	_, leftString := left.(runtime.StringValue)
	_, rightString := right.(runtime.StringValue)
	if leftString || rightString {
		return runtime.String(runtime.Display(heap, left) + runtime.Display(heap, right)), nil
	}
	switch l := left.(type) {
	case runtime.ArrayValue:
		r, ok := right.(runtime.ArrayValue)
		if !ok {
			break
		}
		la, err := heap.Array(l)
		if err != nil {
			return nil, err
		}
		ra, err := heap.Array(r)
		if err != nil {
			return nil, err
		}
		elements := make([]runtime.Value, 0, len(la.Elements)+len(ra.Elements))
		elements = append(elements, la.Elements...)
		elements = append(elements, ra.Elements...)
		return heap.NewArray(elements), nil
	case runtime.StructValue:
		r, ok := right.(runtime.StructValue)
		if !ok {
			break
		}
		return mergeStructs(heap, l, r)
	}
	return runtime.Arithmetic("+", left, right)
}

// mergeStructs allocates a struct holding left's fields overlaid by right's.
func mergeStructs(heap *runtime.Heap, left, right runtime.StructValue) (runtime.Value, error) {
	lf, err := heap.Fields(left)
	if err != nil {
		return nil, err
	}
	rf, err := heap.Fields(right)
	if err != nil {
		return nil, err
	}
	merged := heap.NewStruct()
	out, err := heap.Fields(merged)
	if err != nil {
		return nil, err
	}
	for _, key := range lf.Keys() {
		v, _ := lf.Get(key)
		out.Set(key, v)
	}
	for _, key := range rf.Keys() {
		v, _ := rf.Get(key)
		out.Set(key, v)
	}
	return merged, nil
}

// applyUnaryOperator covers negation, logical not and factorial.
func applyUnaryOperator(op string, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case unaryNegate:
		if !runtime.IsNumeric(operand) {
			return nil, runtime.Errorf(runtime.TypeError, "unary '-' not supported for %s", runtime.TypeName(operand))
		}
		return runtime.Negate(operand)
	case unaryNot, unaryNotWord:
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtime.Errorf(runtime.TypeError, "'!' requires bool, got %s", runtime.TypeName(operand))
		}
		return runtime.Bool(!b.Val), nil
	case unaryFactorial:
		return runtime.Factorial(operand)
	default:
		return nil, runtime.Errorf(runtime.TypeError, "unsupported unary operator %s", op)
	}
}
