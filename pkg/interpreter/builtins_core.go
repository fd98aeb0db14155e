package interpreter

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"rumina/interpreter-go/pkg/runtime"
)

// initBuiltins installs the global natives and registers the virtual
// modules. Globals are immutable bindings; scripts may shadow them.
func (i *Interpreter) initBuiltins() {
	mathMembers := i.mathBuiltins()
	casMembers := i.casBuiltins()
	randomMembers := i.randomBuiltins()
	i.defineGlobals(i.coreBuiltins())
	i.defineGlobals(mathMembers)
	i.defineGlobals(physicsConstants())
	i.defineGlobals(i.collectionBuiltins())
	i.defineGlobals(i.stringGlobals())
	i.defineGlobals(casMembers)
	i.defineGlobals(prefixed("cas_", casMembers))
	i.defineGlobals(randomMembers[:2]) // rand, randint
	i.global.Define("i", runtime.ImaginaryUnit(), false)

	i.registerModule("math", mathMembers)
	i.registerModule("cas", casMembers)
	i.registerModule("time", i.timeBuiltins())
	i.registerModule("string", i.stringModule())
	i.registerModule("random", randomMembers)
}

func (i *Interpreter) native(name string, fn runtime.NativeFunc) moduleMember {
	return moduleMember{name: name, value: i.heap.NewNative(name, false, fn)}
}

func (i *Interpreter) method(name string, fn runtime.NativeFunc) moduleMember {
	return moduleMember{name: name, value: i.heap.NewNative(name, true, fn)}
}

func (i *Interpreter) defineGlobals(members []moduleMember) {
	for _, m := range members {
		i.global.Define(m.name, m.value, false)
	}
}

func prefixed(prefix string, members []moduleMember) []moduleMember {
	out := make([]moduleMember, len(members))
	for idx, m := range members {
		out[idx] = moduleMember{name: prefix + m.name, value: m.value}
	}
	return out
}

func (i *Interpreter) coreBuiltins() []moduleMember {
	toString := func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if err := expectArgs(ctx.Name, args, 1); err != nil {
			return nil, err
		}
		return runtime.String(runtime.Display(ctx.Heap, args[0])), nil
	}
	return []moduleMember{
		i.native("print", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, arg := range args {
				parts[idx] = runtime.Display(ctx.Heap, arg)
			}
			ctx.Caller.Print(strings.Join(parts, " "))
			return runtime.Null, nil
		}),
		i.native("input", i.builtinInput),
		i.native("typeof", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			return runtime.String(runtime.TypeName(args[0])), nil
		}),
		i.native("size", builtinSize),
		i.native("tostring", toString),
		i.native("to_string", toString),
		i.native("string", toString),
		i.native("exit", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			code := int64(0)
			if len(args) > 0 {
				n, err := argInt(ctx.Name, args[0])
				if err != nil {
					return nil, err
				}
				code = n
			}
			return nil, ExitError{Code: int(code)}
		}),
		i.native("new", builtinNew),
		i.native("same", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			return runtime.Bool(runtime.SameHandle(args[0], args[1]) || valuesEqual(args[0], args[1])), nil
		}),
		i.native("setattr", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 3); err != nil {
				return nil, err
			}
			key, err := argString(ctx.Name, args[1])
			if err != nil {
				return nil, err
			}
			fields, err := structArg(ctx, args[0])
			if err != nil {
				return nil, err
			}
			fields.Set(key, args[2])
			return runtime.Null, nil
		}),
		i.native("update", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			dst, err := structArg(ctx, args[0])
			if err != nil {
				return nil, err
			}
			src, err := structArg(ctx, args[1])
			if err != nil {
				return nil, err
			}
			for _, key := range src.Keys() {
				v, _ := src.Get(key)
				dst.Set(key, v)
			}
			return args[0], nil
		}),
		i.native("assert", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, fmt.Errorf("assert expects 1 or 2 arguments, got %d", len(args))
			}
			if runtime.Truthy(args[0]) {
				return runtime.Null, nil
			}
			if len(args) == 2 {
				return nil, runtime.Errorf(runtime.TypeError, "assertion failed: %s", runtime.Display(ctx.Heap, args[1]))
			}
			return nil, runtime.Errorf(runtime.TypeError, "assertion failed")
		}),
		i.native("fraction", builtinFraction),
		i.native("decimal", i.builtinDecimal),
		i.native("int", builtinInt),
		i.native("float", builtinFloat),
		i.native("bool", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			return runtime.Bool(runtime.Truthy(args[0])), nil
		}),
		i.native("rational", builtinRational),
		i.native("complex", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			c, err := runtime.NewComplex(args[0], args[1])
			if err != nil {
				return nil, err
			}
			return c, nil
		}),
	}
}

func (i *Interpreter) builtinInput(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("input expects at most 1 argument, got %d", len(args))
	}
	if len(args) == 1 {
		fmt.Fprint(i.stdout, runtime.Display(ctx.Heap, args[0]))
	}
	line, err := i.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return runtime.String(strings.TrimRight(line, "\r\n")), nil
}

func builtinSize(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.ArrayValue:
		arr, err := ctx.Heap.Array(v)
		if err != nil {
			return nil, err
		}
		return runtime.Int(int64(len(arr.Elements))), nil
	case runtime.StringValue:
		return runtime.Int(int64(runeCount(v.Val))), nil
	case runtime.StructValue, runtime.ModuleValue:
		fields, err := ctx.Heap.Fields(v)
		if err != nil {
			return nil, err
		}
		return runtime.Int(int64(fields.Len())), nil
	}
	return nil, fmt.Errorf("size expects an array, string or struct, got %s", runtime.TypeName(args[0]))
}

// builtinNew returns a shallow copy of a struct.
func builtinNew(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	src, err := structArg(ctx, args[0])
	if err != nil {
		return nil, err
	}
	out := ctx.Heap.NewStruct()
	dst, err := ctx.Heap.Fields(out)
	if err != nil {
		return nil, err
	}
	for _, key := range src.Keys() {
		v, _ := src.Get(key)
		dst.Set(key, v)
	}
	return out, nil
}

func builtinFraction(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.RationalValue:
		return v, nil
	case runtime.IntValue:
		return runtime.RationalFromInt(v.Val), nil
	case runtime.BigIntValue:
		return runtime.RationalFromRat(new(big.Rat).SetInt(v.Val)), nil
	}
	f, ok := runtime.ToFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("fraction expects a real number, got %s", runtime.TypeName(args[0]))
	}
	r, err := runtime.FractionFromFloat(f)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// builtinDecimal widens to Float, optionally rounding to digits fractional
// digits. Complex values are converted component-wise.
func (i *Interpreter) builtinDecimal(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("decimal expects 1 or 2 arguments, got %d", len(args))
	}
	digits := -1
	if len(args) == 2 {
		n, err := argInt(ctx.Name, args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("decimal digits must be non-negative, got %d", n)
		}
		digits = int(n)
	}
	if c, ok := args[0].(runtime.ComplexValue); ok {
		re, err := runtime.ToDecimal(c.Re, digits, i.decimalPrecision)
		if err != nil {
			return nil, err
		}
		im, err := runtime.ToDecimal(c.Im, digits, i.decimalPrecision)
		if err != nil {
			return nil, err
		}
		c, err := runtime.NewComplex(re, im)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return runtime.ToDecimal(args[0], digits, i.decimalPrecision)
}

func builtinInt(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.IntValue, runtime.BigIntValue:
		return v, nil
	case runtime.BoolValue:
		if v.Val {
			return runtime.Int(1), nil
		}
		return runtime.Int(0), nil
	case runtime.RationalValue:
		q := new(big.Int).Quo(v.Val.Num(), v.Val.Denom())
		return bigToValue(q), nil
	case runtime.StringValue:
		text := strings.TrimSpace(v.Val)
		if n, ok := new(big.Int).SetString(text, 10); ok {
			return bigToValue(n), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("int cannot parse %q", v.Val)
		}
		return floatToInt(f)
	}
	f, ok := runtime.ToFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("int expects a number, string or bool, got %s", runtime.TypeName(args[0]))
	}
	return floatToInt(f)
}

func floatToInt(f float64) (runtime.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, runtime.Errorf(runtime.ArithmeticError, "cannot convert %s to int", runtime.FormatFloat(f))
	}
	b, _ := new(big.Float).SetFloat64(math.Trunc(f)).Int(nil)
	return bigToValue(b), nil
}

func bigToValue(n *big.Int) runtime.Value {
	if n.IsInt64() {
		return runtime.Int(n.Int64())
	}
	return runtime.BigIntValue{Val: n}
}

func builtinFloat(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case runtime.StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Val), 64)
		if err != nil {
			return nil, fmt.Errorf("float cannot parse %q", v.Val)
		}
		return runtime.Float(f), nil
	case runtime.BoolValue:
		if v.Val {
			return runtime.Float(1), nil
		}
		return runtime.Float(0), nil
	}
	f, ok := runtime.ToFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("float expects a real number, string or bool, got %s", runtime.TypeName(args[0]))
	}
	return runtime.Float(f), nil
}

// builtinRational accepts rational(x) or rational(num, den) with integers.
func builtinRational(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch len(args) {
	case 1:
		return builtinFraction(ctx, args)
	case 2:
		num, err := argBig(ctx.Name, args[0])
		if err != nil {
			return nil, err
		}
		den, err := argBig(ctx.Name, args[1])
		if err != nil {
			return nil, err
		}
		r, err := runtime.NewRational(num, den)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("rational expects 1 or 2 arguments, got %d", len(args))
}

//-----------------------------------------------------------------------------
// Argument helpers
//-----------------------------------------------------------------------------

func expectArgs(name string, args []runtime.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func argString(name string, v runtime.Value) (string, error) {
	s, ok := v.(runtime.StringValue)
	if !ok {
		return "", fmt.Errorf("%s expects a string, got %s", name, runtime.TypeName(v))
	}
	return s.Val, nil
}

func argInt(name string, v runtime.Value) (int64, error) {
	switch n := v.(type) {
	case runtime.IntValue:
		return n.Val, nil
	case runtime.FloatValue:
		if n.Val == math.Trunc(n.Val) && math.Abs(n.Val) < 1<<53 {
			return int64(n.Val), nil
		}
	}
	return 0, fmt.Errorf("%s expects an int, got %s", name, runtime.TypeName(v))
}

func argBig(name string, v runtime.Value) (*big.Int, error) {
	switch n := v.(type) {
	case runtime.IntValue:
		return big.NewInt(n.Val), nil
	case runtime.BigIntValue:
		return n.Val, nil
	}
	return nil, fmt.Errorf("%s expects an int, got %s", name, runtime.TypeName(v))
}

func argFloat(name string, v runtime.Value) (float64, error) {
	f, ok := runtime.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("%s expects a real number, got %s", name, runtime.TypeName(v))
	}
	return f, nil
}

func arrayArg(ctx *runtime.NativeCallContext, v runtime.Value) (*runtime.ArrayObject, error) {
	arr, ok := v.(runtime.ArrayValue)
	if !ok {
		return nil, fmt.Errorf("%s expects an array, got %s", ctx.Name, runtime.TypeName(v))
	}
	return ctx.Heap.Array(arr)
}

func structArg(ctx *runtime.NativeCallContext, v runtime.Value) (*runtime.StructObject, error) {
	if _, ok := v.(runtime.StructValue); !ok {
		return nil, fmt.Errorf("%s expects a struct, got %s", ctx.Name, runtime.TypeName(v))
	}
	return ctx.Heap.Fields(v)
}
