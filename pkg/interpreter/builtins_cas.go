package interpreter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/runtime"
)

// CAS expressions cross into scripts as their canonical strings; every CAS
// builtin accepts such a string, and "lhs = rhs" reads as (lhs) - (rhs).

func (i *Interpreter) casBuiltins() []moduleMember {
	return []moduleMember{
		i.native("parse", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			n, err := casExpression(ctx.Name, args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(n.String()), nil
		}),
		i.native("simplify", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			n, err := casExpression(ctx.Name, args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(cas.Simplify(n).String()), nil
		}),
		i.native("differentiate", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, name, err := casExpressionAndVariable(ctx, args, 2)
			if err != nil {
				return nil, err
			}
			d, err := cas.Differentiate(n, name)
			if err != nil {
				return nil, casError(err)
			}
			return runtime.String(d.String()), nil
		}),
		i.native("evaluate_at", i.builtinEvaluateAt),
		i.native("solve_linear", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, name, err := casExpressionAndVariable(ctx, args, 2)
			if err != nil {
				return nil, err
			}
			solution, err := cas.SolveLinear(n, name)
			if err != nil {
				return nil, casError(err)
			}
			if solution.Kind == cas.NumberNode {
				return runtime.Float(solution.Value), nil
			}
			return runtime.String(solution.String()), nil
		}),
		i.native("numerical_derivative", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, name, err := casExpressionAndVariable(ctx, args, 3)
			if err != nil {
				return nil, err
			}
			point, err := argFloat(ctx.Name, args[2])
			if err != nil {
				return nil, err
			}
			v, err := i.casSettings.NumericalDerivative(n, name, point)
			if err != nil {
				return nil, casError(err)
			}
			return runtime.Float(v), nil
		}),
		i.native("integrate", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, name, err := casExpressionAndVariable(ctx, args, 2)
			if err != nil {
				return nil, err
			}
			return runtime.String(cas.Integrate(n, name).String()), nil
		}),
		i.native("definite_integral", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, name, err := casExpressionAndVariable(ctx, args, 4)
			if err != nil {
				return nil, err
			}
			a, err := argFloat(ctx.Name, args[2])
			if err != nil {
				return nil, err
			}
			b, err := argFloat(ctx.Name, args[3])
			if err != nil {
				return nil, err
			}
			v, err := i.casSettings.DefiniteIntegral(n, name, a, b)
			if err != nil {
				return nil, casError(err)
			}
			return runtime.Float(v), nil
		}),
		i.native("store", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			name, err := argString(ctx.Name, args[0])
			if err != nil {
				return nil, err
			}
			n, err := casExpression(ctx.Name, args[1])
			if err != nil {
				return nil, err
			}
			i.registry.Store(name, n)
			return runtime.Null, nil
		}),
		i.native("load", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			name, err := argString(ctx.Name, args[0])
			if err != nil {
				return nil, err
			}
			n, err := i.registry.Load(name)
			if err != nil {
				return nil, casError(err)
			}
			return runtime.String(n.String()), nil
		}),
	}
}

// builtinEvaluateAt accepts evaluate_at(expr, {x: 3, ...}) or
// evaluate_at(expr, "x", 3).
func (i *Interpreter) builtinEvaluateAt(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, fmt.Errorf("evaluate_at expects 2 or 3 arguments, got %d", len(args))
	}
	n, err := casExpression(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	bindings := cas.Bindings{}
	if len(args) == 3 {
		name, err := argString(ctx.Name, args[1])
		if err != nil {
			return nil, err
		}
		v, err := argFloat(ctx.Name, args[2])
		if err != nil {
			return nil, err
		}
		bindings[name] = v
	} else {
		fields, err := structArg(ctx, args[1])
		if err != nil {
			return nil, err
		}
		for _, key := range fields.Keys() {
			raw, _ := fields.Get(key)
			v, err := argFloat(ctx.Name, raw)
			if err != nil {
				return nil, err
			}
			bindings[key] = v
		}
	}
	v, err := i.casSettings.Evaluate(n, bindings)
	if err != nil {
		return nil, casError(err)
	}
	return runtime.Float(v), nil
}

func casExpression(name string, v runtime.Value) (*cas.Node, error) {
	src, err := argString(name, v)
	if err != nil {
		return nil, err
	}
	if lhs, rhs, ok := strings.Cut(src, "="); ok {
		l, err := cas.Parse(lhs)
		if err != nil {
			return nil, casError(err)
		}
		r, err := cas.Parse(rhs)
		if err != nil {
			return nil, casError(err)
		}
		return cas.Sub(l, r), nil
	}
	n, err := cas.Parse(src)
	if err != nil {
		return nil, casError(err)
	}
	return n, nil
}

func casExpressionAndVariable(ctx *runtime.NativeCallContext, args []runtime.Value, want int) (*cas.Node, string, error) {
	if err := expectArgs(ctx.Name, args, want); err != nil {
		return nil, "", err
	}
	n, err := casExpression(ctx.Name, args[0])
	if err != nil {
		return nil, "", err
	}
	name, err := argString(ctx.Name, args[1])
	if err != nil {
		return nil, "", err
	}
	return n, name, nil
}

// casError maps engine sentinels onto runtime error kinds.
func casError(err error) error {
	var kind runtime.ErrorKind
	switch {
	case errors.Is(err, cas.ErrParse):
		kind = runtime.ParseError
	case errors.Is(err, cas.ErrUndefinedVariable), errors.Is(err, cas.ErrNotFound):
		kind = runtime.NameError
	case errors.Is(err, cas.ErrDivisionByZero), errors.Is(err, cas.ErrDomain),
		errors.Is(err, cas.ErrNonLinear), errors.Is(err, cas.ErrNoUniqueSolution):
		kind = runtime.ArithmeticError
	default:
		kind = runtime.TypeError
	}
	return runtime.WrapError(kind, err)
}
