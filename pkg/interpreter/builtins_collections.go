package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

func (i *Interpreter) collectionBuiltins() []moduleMember {
	return []moduleMember{
		i.native("foreach", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			elements, err := snapshotArray(ctx, args[0])
			if err != nil {
				return nil, err
			}
			for _, el := range elements {
				if _, err := ctx.Caller.CallFunction(args[1], []runtime.Value{el}); err != nil {
					return nil, err
				}
			}
			return runtime.Null, nil
		}),
		i.native("map", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			elements, err := snapshotArray(ctx, args[0])
			if err != nil {
				return nil, err
			}
			out := make([]runtime.Value, len(elements))
			for idx, el := range elements {
				v, err := ctx.Caller.CallFunction(args[1], []runtime.Value{el})
				if err != nil {
					return nil, err
				}
				out[idx] = v
			}
			return ctx.Heap.NewArray(out), nil
		}),
		i.native("filter", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			elements, err := snapshotArray(ctx, args[0])
			if err != nil {
				return nil, err
			}
			out := make([]runtime.Value, 0, len(elements))
			for _, el := range elements {
				keep, err := ctx.Caller.CallFunction(args[1], []runtime.Value{el})
				if err != nil {
					return nil, err
				}
				if runtime.Truthy(keep) {
					out = append(out, el)
				}
			}
			return ctx.Heap.NewArray(out), nil
		}),
		i.native("reduce", builtinReduce),
		i.native("fold", builtinReduce),
		i.native("push", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) < 2 {
				return nil, fmt.Errorf("push expects an array and at least one value, got %d arguments", len(args))
			}
			arr, err := arrayArg(ctx, args[0])
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, args[1:]...)
			return args[0], nil
		}),
		i.native("pop", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			arr, err := arrayArg(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if len(arr.Elements) == 0 {
				return nil, fmt.Errorf("pop from an empty array")
			}
			last := arr.Elements[len(arr.Elements)-1]
			arr.Elements = arr.Elements[:len(arr.Elements)-1]
			return last, nil
		}),
		i.native("range", builtinRange),
		i.native("concat", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var out []runtime.Value
			for _, arg := range args {
				arr, err := arrayArg(ctx, arg)
				if err != nil {
					return nil, err
				}
				out = append(out, arr.Elements...)
			}
			return ctx.Heap.NewArray(out), nil
		}),
		i.native("dot", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			return dotProduct(ctx, args[0], args[1])
		}),
		i.native("norm", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			sq, err := dotProduct(ctx, args[0], args[0])
			if err != nil {
				return nil, err
			}
			return runtime.Sqrt(sq)
		}),
		i.native("cross", builtinCross),
		i.native("det", builtinDet),
	}
}

// snapshotArray copies the elements so callbacks that mutate the array do
// not change the iteration.
func snapshotArray(ctx *runtime.NativeCallContext, v runtime.Value) ([]runtime.Value, error) {
	arr, err := arrayArg(ctx, v)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(arr.Elements))
	copy(out, arr.Elements)
	return out, nil
}

// builtinReduce is reduce(array, fn, initial); without initial the first
// element seeds the accumulator.
func builtinReduce(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, fmt.Errorf("%s expects 2 or 3 arguments, got %d", ctx.Name, len(args))
	}
	elements, err := snapshotArray(ctx, args[0])
	if err != nil {
		return nil, err
	}
	var acc runtime.Value
	if len(args) == 3 {
		acc = args[2]
	} else {
		if len(elements) == 0 {
			return nil, fmt.Errorf("%s of an empty array without an initial value", ctx.Name)
		}
		acc, elements = elements[0], elements[1:]
	}
	for _, el := range elements {
		acc, err = ctx.Caller.CallFunction(args[1], []runtime.Value{acc, el})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// builtinRange accepts range(end), range(start, end) or
// range(start, end, step); end is exclusive.
func builtinRange(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, fmt.Errorf("range expects 1 to 3 arguments, got %d", len(args))
	}
	bounds := make([]int64, len(args))
	for idx, arg := range args {
		n, err := argInt(ctx.Name, arg)
		if err != nil {
			return nil, err
		}
		bounds[idx] = n
	}
	start, end, step := int64(0), bounds[0], int64(1)
	if len(bounds) >= 2 {
		start, end = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, fmt.Errorf("range step must not be zero")
	}
	var out []runtime.Value
	for n := start; (step > 0 && n < end) || (step < 0 && n > end); n += step {
		out = append(out, runtime.Int(n))
	}
	return ctx.Heap.NewArray(out), nil
}

func numericVector(ctx *runtime.NativeCallContext, v runtime.Value) ([]runtime.Value, error) {
	arr, err := arrayArg(ctx, v)
	if err != nil {
		return nil, err
	}
	for _, el := range arr.Elements {
		if !runtime.IsNumeric(el) {
			return nil, fmt.Errorf("%s expects numeric vectors, found %s", ctx.Name, runtime.TypeName(el))
		}
	}
	return arr.Elements, nil
}

func dotProduct(ctx *runtime.NativeCallContext, a, b runtime.Value) (runtime.Value, error) {
	va, err := numericVector(ctx, a)
	if err != nil {
		return nil, err
	}
	vb, err := numericVector(ctx, b)
	if err != nil {
		return nil, err
	}
	if len(va) != len(vb) {
		return nil, fmt.Errorf("%s expects vectors of equal length, got %d and %d", ctx.Name, len(va), len(vb))
	}
	var sum runtime.Value = runtime.Int(0)
	for idx := range va {
		prod, err := runtime.Arithmetic("*", va[idx], vb[idx])
		if err != nil {
			return nil, err
		}
		if sum, err = runtime.Arithmetic("+", sum, prod); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func builtinCross(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 2); err != nil {
		return nil, err
	}
	a, err := numericVector(ctx, args[0])
	if err != nil {
		return nil, err
	}
	b, err := numericVector(ctx, args[1])
	if err != nil {
		return nil, err
	}
	if len(a) != 3 || len(b) != 3 {
		return nil, fmt.Errorf("cross expects two 3-vectors")
	}
	component := func(p, q int) (runtime.Value, error) {
		l, err := runtime.Arithmetic("*", a[p], b[q])
		if err != nil {
			return nil, err
		}
		r, err := runtime.Arithmetic("*", a[q], b[p])
		if err != nil {
			return nil, err
		}
		return runtime.Arithmetic("-", l, r)
	}
	out := make([]runtime.Value, 3)
	for idx, pq := range [3][2]int{{1, 2}, {2, 0}, {0, 1}} {
		v, err := component(pq[0], pq[1])
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return ctx.Heap.NewArray(out), nil
}

// builtinDet computes the determinant of a square matrix by cofactor
// expansion, so exact entries give exact results.
func builtinDet(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	rows, err := arrayArg(ctx, args[0])
	if err != nil {
		return nil, err
	}
	n := len(rows.Elements)
	if n == 0 {
		return nil, fmt.Errorf("det expects a non-empty square matrix")
	}
	matrix := make([][]runtime.Value, n)
	for r, row := range rows.Elements {
		cells, err := numericVector(ctx, row)
		if err != nil {
			return nil, err
		}
		if len(cells) != n {
			return nil, fmt.Errorf("det expects a square matrix, row %d has %d entries", r, len(cells))
		}
		matrix[r] = cells
	}
	return determinant(matrix)
}

func determinant(m [][]runtime.Value) (runtime.Value, error) {
	if len(m) == 1 {
		return m[0][0], nil
	}
	var total runtime.Value = runtime.Int(0)
	for col := range m {
		minor := make([][]runtime.Value, 0, len(m)-1)
		for _, row := range m[1:] {
			next := make([]runtime.Value, 0, len(m)-1)
			next = append(next, row[:col]...)
			next = append(next, row[col+1:]...)
			minor = append(minor, next)
		}
		sub, err := determinant(minor)
		if err != nil {
			return nil, err
		}
		term, err := runtime.Arithmetic("*", m[0][col], sub)
		if err != nil {
			return nil, err
		}
		op := "+"
		if col%2 == 1 {
			op = "-"
		}
		if total, err = runtime.Arithmetic(op, total, term); err != nil {
			return nil, err
		}
	}
	return total, nil
}
