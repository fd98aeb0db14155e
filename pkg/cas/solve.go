package cas

import "github.com/pkg/errors"

// SolveLinear solves n = 0 for name, where n must be linear in name. The
// solution is returned symbolically; it is a NumberNode when constant.
func SolveLinear(n *Node, name string) (*Node, error) {
	a, b, err := linearParts(Simplify(n), name)
	if err != nil {
		return nil, err
	}
	a = Simplify(a)
	if a.IsNumber(0) {
		return nil, errors.Wrapf(ErrNoUniqueSolution, "%s does not depend on %s", n, name)
	}
	return Simplify(Div(Neg(b), a)), nil
}

// linearParts decomposes n into a*name + b.
func linearParts(n *Node, x string) (*Node, *Node, error) {
	if !n.Contains(x) {
		return Num(0), n, nil
	}
	switch n.Kind {
	case VariableNode:
		return Num(1), Num(0), nil
	case NegNode:
		a, b, err := linearParts(n.left(), x)
		if err != nil {
			return nil, nil, err
		}
		return Neg(a), Neg(b), nil
	case AddNode, SubNode:
		a1, b1, err := linearParts(n.left(), x)
		if err != nil {
			return nil, nil, err
		}
		a2, b2, err := linearParts(n.right(), x)
		if err != nil {
			return nil, nil, err
		}
		if n.Kind == AddNode {
			return Add(a1, a2), Add(b1, b2), nil
		}
		return Sub(a1, a2), Sub(b1, b2), nil
	case MulNode:
		f, g := n.left(), n.right()
		if f.Contains(x) && g.Contains(x) {
			return nil, nil, errors.Wrapf(ErrNonLinear, "%s", n)
		}
		if f.Contains(x) {
			f, g = g, f
		}
		a, b, err := linearParts(g, x)
		if err != nil {
			return nil, nil, err
		}
		return Mul(f, a), Mul(f, b), nil
	case DivNode:
		if n.right().Contains(x) {
			return nil, nil, errors.Wrapf(ErrNonLinear, "%s", n)
		}
		a, b, err := linearParts(n.left(), x)
		if err != nil {
			return nil, nil, err
		}
		return Div(a, n.right()), Div(b, n.right()), nil
	}
	return nil, nil, errors.Wrapf(ErrNonLinear, "%s", n)
}
