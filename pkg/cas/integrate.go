package cas

// Integrate returns a simplified antiderivative of n with respect to name.
// Forms without a rule come back as integral(n, name), which Evaluate
// computes numerically from 0.
func Integrate(n *Node, name string) *Node {
	if result := antiderivative(Simplify(n), name); result != nil {
		return Simplify(result)
	}
	return Func(integralFunc, n, Var(name))
}

func antiderivative(n *Node, x string) *Node {
	v := Var(x)
	if !n.Contains(x) {
		return Mul(n, v)
	}
	switch n.Kind {
	case VariableNode:
		return Div(Pow(v, Num(2)), Num(2))
	case NegNode:
		if inner := antiderivative(n.left(), x); inner != nil {
			return Neg(inner)
		}
	case AddNode, SubNode:
		l := antiderivative(n.left(), x)
		r := antiderivative(n.right(), x)
		if l == nil || r == nil {
			return nil
		}
		if n.Kind == AddNode {
			return Add(l, r)
		}
		return Sub(l, r)
	case MulNode:
		f, g := n.left(), n.right()
		switch {
		case !f.Contains(x):
			if inner := antiderivative(g, x); inner != nil {
				return Mul(f, inner)
			}
		case !g.Contains(x):
			if inner := antiderivative(f, x); inner != nil {
				return Mul(g, inner)
			}
		}
	case DivNode:
		f, g := n.left(), n.right()
		switch {
		case !g.Contains(x):
			if inner := antiderivative(f, x); inner != nil {
				return Div(inner, g)
			}
		case !f.Contains(x) && g.Kind == VariableNode:
			return Mul(f, Func("ln", Func("abs", v)))
		}
	case PowNode:
		base, exp := n.left(), n.right()
		if base.Kind == VariableNode && exp.Kind == NumberNode {
			if exp.Value == -1 {
				return Func("ln", Func("abs", v))
			}
			return Div(Pow(v, Num(exp.Value+1)), Num(exp.Value+1))
		}
	case FuncNode:
		return antiderivativeFunc(n, x)
	}
	return nil
}

// antiderivativeFunc covers f(k*x) for the elementary functions.
func antiderivativeFunc(n *Node, x string) *Node {
	if len(n.Args) != 1 {
		return nil
	}
	u := n.Args[0]
	k, ok := linearCoefficient(u, x)
	if !ok {
		return nil
	}
	kn := Num(k)
	switch n.Name {
	case "sin":
		return Div(Neg(Func("cos", u)), kn)
	case "cos":
		return Div(Func("sin", u), kn)
	case "exp":
		return Div(Func("exp", u), kn)
	}
	if k != 1 {
		return nil
	}
	switch n.Name {
	case "sqrt":
		return Mul(Div(Num(2), Num(3)), Pow(u, Num(1.5)))
	case "tan":
		return Neg(Func("ln", Func("abs", Func("cos", u))))
	case "ln":
		return Sub(Mul(u, Func("ln", u)), u)
	}
	return nil
}

// linearCoefficient matches u against x or k*x.
func linearCoefficient(u *Node, x string) (float64, bool) {
	switch {
	case u.Kind == VariableNode && u.Name == x:
		return 1, true
	case u.Kind == MulNode && u.left().Kind == NumberNode && u.right().Kind == VariableNode && u.right().Name == x:
		if u.left().Value == 0 {
			return 0, false
		}
		return u.left().Value, true
	}
	return 0, false
}
