package runtime

import "math"

func realArg(name string, v Value) (float64, error) {
	f, ok := ToFloat(v)
	if !ok {
		return 0, Errorf(TypeError, "%s expects a real number, got %s", name, TypeName(v))
	}
	return f, nil
}

// Ln is the natural logarithm. Non-positive arguments are an ArithmeticError.
func Ln(v Value) (Value, error) {
	if e, ok := v.(IrrationalValue); ok && e.Type == IrrationalE && e.Coef.IsInt() && e.Coef.Num().Int64() == 1 {
		return IntValue{Val: 1}, nil
	}
	f, err := realArg("ln", v)
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, Errorf(ArithmeticError, "ln domain error: argument must be positive")
	}
	return FloatValue{Val: math.Log(f)}, nil
}

// Log10 is the base-10 logarithm.
func Log10(v Value) (Value, error) {
	f, err := realArg("log", v)
	if err != nil {
		return nil, err
	}
	if f <= 0 {
		return nil, Errorf(ArithmeticError, "log domain error: argument must be positive")
	}
	return FloatValue{Val: math.Log10(f)}, nil
}

// LogBase computes log_base(x).
func LogBase(base, x Value) (Value, error) {
	b, err := realArg("logBASE", base)
	if err != nil {
		return nil, err
	}
	f, err := realArg("logBASE", x)
	if err != nil {
		return nil, err
	}
	if b <= 0 || b == 1 {
		return nil, Errorf(ArithmeticError, "logBASE domain error: base must be positive and not 1")
	}
	if f <= 0 {
		return nil, Errorf(ArithmeticError, "logBASE domain error: argument must be positive")
	}
	return FloatValue{Val: math.Log(f) / math.Log(b)}, nil
}

// Trig applies sin, cos, tan or exp to the widened argument.
func Trig(name string, v Value) (Value, error) {
	f, err := realArg(name, v)
	if err != nil {
		return nil, err
	}
	switch name {
	case "sin":
		return FloatValue{Val: math.Sin(f)}, nil
	case "cos":
		return FloatValue{Val: math.Cos(f)}, nil
	case "tan":
		return FloatValue{Val: math.Tan(f)}, nil
	case "exp":
		return FloatValue{Val: math.Exp(f)}, nil
	}
	return nil, Errorf(NameError, "unknown math function %s", name)
}
