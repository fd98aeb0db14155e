package interpreter

import (
	"strings"

	"rumina/interpreter-go/pkg/runtime"
)

// valuesEqual implements == for every pair of values. Numbers compare across
// kinds, aggregates and callables by identity, and different kinds are never
// equal.
func valuesEqual(left, right runtime.Value) bool {
	if runtime.IsNull(left) || runtime.IsNull(right) {
		return runtime.IsNull(left) && runtime.IsNull(right)
	}
	if runtime.IsNumeric(left) && runtime.IsNumeric(right) {
		return runtime.NumbersEqual(left, right)
	}
	switch l := left.(type) {
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	}
	return runtime.SameHandle(left, right)
}

func compareValues(op string, left, right runtime.Value) (runtime.Value, error) {
	var (
		cmp int
		ok  = true
	)
	ls, leftString := left.(runtime.StringValue)
	rs, rightString := right.(runtime.StringValue)
	switch {
	case leftString && rightString:
		cmp = strings.Compare(ls.Val, rs.Val)
	case runtime.IsNumeric(left) && runtime.IsNumeric(right):
		var err error
		cmp, ok, err = runtime.CompareNumbers(left, right)
		if err != nil {
			return nil, err
		}
	default:
		return nil, runtime.Errorf(runtime.TypeError, "cannot compare %s and %s with %s", runtime.TypeName(left), runtime.TypeName(right), op)
	}
	if !ok {
		return runtime.Bool(false), nil
	}
	switch op {
	case "<":
		return runtime.Bool(cmp < 0), nil
	case "<=":
		return runtime.Bool(cmp <= 0), nil
	case ">":
		return runtime.Bool(cmp > 0), nil
	default:
		return runtime.Bool(cmp >= 0), nil
	}
}
