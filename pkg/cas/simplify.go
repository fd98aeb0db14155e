package cas

import "math"

// Simplify folds constants and removes identity operations bottom-up. The
// result is a new tree; n is not modified.
func Simplify(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NumberNode, VariableNode:
		return n
	case NegNode:
		return simplifyNeg(Simplify(n.left()))
	case FuncNode:
		args := make([]*Node, len(n.Args))
		for idx, arg := range n.Args {
			args[idx] = Simplify(arg)
		}
		return simplifyFunc(n.Name, args)
	}
	a, b := Simplify(n.left()), Simplify(n.right())
	switch n.Kind {
	case AddNode:
		return simplifyAdd(a, b)
	case SubNode:
		return simplifySub(a, b)
	case MulNode:
		return simplifyMul(a, b)
	case DivNode:
		return simplifyDiv(a, b)
	case PowNode:
		return simplifyPow(a, b)
	}
	return n
}

func simplifyNeg(a *Node) *Node {
	switch a.Kind {
	case NumberNode:
		return Num(-a.Value)
	case NegNode:
		return a.left()
	}
	return Neg(a)
}

func simplifyAdd(a, b *Node) *Node {
	switch {
	case a.Kind == NumberNode && b.Kind == NumberNode:
		return Num(a.Value + b.Value)
	case a.IsNumber(0):
		return b
	case b.IsNumber(0):
		return a
	case b.Kind == NegNode:
		return simplifySub(a, b.left())
	case b.Kind == NumberNode && b.Value < 0:
		return Sub(a, Num(-b.Value))
	case Equal(a, b):
		return simplifyMul(Num(2), a)
	}
	return Add(a, b)
}

func simplifySub(a, b *Node) *Node {
	switch {
	case a.Kind == NumberNode && b.Kind == NumberNode:
		return Num(a.Value - b.Value)
	case b.IsNumber(0):
		return a
	case a.IsNumber(0):
		return simplifyNeg(b)
	case Equal(a, b):
		return Num(0)
	case b.Kind == NegNode:
		return simplifyAdd(a, b.left())
	}
	return Sub(a, b)
}

func simplifyMul(a, b *Node) *Node {
	switch {
	case a.Kind == NumberNode && b.Kind == NumberNode:
		return Num(a.Value * b.Value)
	case a.IsNumber(0) || b.IsNumber(0):
		return Num(0)
	case a.IsNumber(1):
		return b
	case b.IsNumber(1):
		return a
	case a.IsNumber(-1):
		return simplifyNeg(b)
	case b.IsNumber(-1):
		return simplifyNeg(a)
	case b.Kind == NumberNode:
		// coefficients go first
		return simplifyMul(b, a)
	case a.Kind == NumberNode && b.Kind == MulNode && b.left().Kind == NumberNode:
		return simplifyMul(Num(a.Value*b.left().Value), b.right())
	case a.Kind == NegNode:
		return simplifyNeg(simplifyMul(a.left(), b))
	case b.Kind == NegNode:
		return simplifyNeg(simplifyMul(a, b.left()))
	case Equal(a, b):
		return simplifyPow(a, Num(2))
	}
	return Mul(a, b)
}

func simplifyDiv(a, b *Node) *Node {
	switch {
	case a.Kind == NumberNode && b.Kind == NumberNode && b.Value != 0:
		return Num(a.Value / b.Value)
	case a.IsNumber(0) && !b.IsNumber(0):
		return Num(0)
	case b.IsNumber(1):
		return a
	case Equal(a, b) && !b.IsNumber(0):
		return Num(1)
	}
	return Div(a, b)
}

func simplifyPow(a, b *Node) *Node {
	switch {
	case a.Kind == NumberNode && b.Kind == NumberNode:
		v := math.Pow(a.Value, b.Value)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return Num(v)
		}
	case b.IsNumber(0):
		return Num(1)
	case b.IsNumber(1):
		return a
	case a.IsNumber(1):
		return Num(1)
	case a.Kind == PowNode && a.right().Kind == NumberNode && b.Kind == NumberNode:
		return simplifyPow(a.left(), Num(a.right().Value*b.Value))
	}
	return Pow(a, b)
}

func simplifyFunc(name string, args []*Node) *Node {
	if len(args) == 1 && args[0].Kind == NumberNode {
		if v, err := applyFunc(name, args[0].Value); err == nil && !math.IsNaN(v) {
			// non-integral results stay symbolic
			if v == math.Trunc(v) {
				return Num(v)
			}
		}
	}
	if len(args) == 1 {
		inner := args[0]
		switch {
		case name == "ln" && inner.Kind == FuncNode && inner.Name == "exp":
			return inner.Args[0]
		case name == "exp" && inner.Kind == FuncNode && inner.Name == "ln":
			return inner.Args[0]
		}
	}
	return Func(name, args...)
}
