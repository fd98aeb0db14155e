package cas

// Differentiate returns the simplified derivative of n with respect to name.
func Differentiate(n *Node, name string) (*Node, error) {
	d, err := derive(n, name)
	if err != nil {
		return nil, err
	}
	return Simplify(d), nil
}

func derive(n *Node, x string) (*Node, error) {
	if !n.Contains(x) {
		return Num(0), nil
	}
	switch n.Kind {
	case VariableNode:
		return Num(1), nil
	case NegNode:
		d, err := derive(n.left(), x)
		if err != nil {
			return nil, err
		}
		return Neg(d), nil
	case FuncNode:
		return deriveFunc(n, x)
	}
	f, g := n.left(), n.right()
	df, err := derive(f, x)
	if err != nil {
		return nil, err
	}
	dg, err := derive(g, x)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case AddNode:
		return Add(df, dg), nil
	case SubNode:
		return Sub(df, dg), nil
	case MulNode:
		return Add(Mul(df, g), Mul(f, dg)), nil
	case DivNode:
		return Div(Sub(Mul(df, g), Mul(f, dg)), Pow(g, Num(2))), nil
	case PowNode:
		switch {
		case !g.Contains(x):
			// n * f^(n-1) * f'
			return Mul(Mul(g, Pow(f, Sub(g, Num(1)))), df), nil
		case !f.Contains(x):
			// a^g * ln(a) * g'
			return Mul(Mul(n, Func("ln", f)), dg), nil
		default:
			// f^g * (g' ln f + g f'/f)
			return Mul(n, Add(Mul(dg, Func("ln", f)), Div(Mul(g, df), f))), nil
		}
	}
	return nil, errNotDifferentiable(n)
}

func deriveFunc(n *Node, x string) (*Node, error) {
	if n.Name == integralFunc && len(n.Args) == 2 && n.Args[1].Kind == VariableNode && n.Args[1].Name == x {
		return n.Args[0], nil
	}
	if len(n.Args) != 1 {
		return nil, errNotDifferentiable(n)
	}
	u := n.Args[0]
	du, err := derive(u, x)
	if err != nil {
		return nil, err
	}
	var outer *Node
	switch n.Name {
	case "sin":
		outer = Func("cos", u)
	case "cos":
		outer = Neg(Func("sin", u))
	case "tan":
		outer = Div(Num(1), Pow(Func("cos", u), Num(2)))
	case "exp":
		outer = Func("exp", u)
	case "ln":
		outer = Div(Num(1), u)
	case "sqrt":
		outer = Div(Num(1), Mul(Num(2), Func("sqrt", u)))
	case "abs":
		outer = Div(u, Func("abs", u))
	default:
		return nil, errNotDifferentiable(n)
	}
	return Mul(outer, du), nil
}
