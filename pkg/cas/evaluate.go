package cas

import (
	"math"

	"github.com/pkg/errors"
)

// Bindings assigns values to the free variables of an expression.
type Bindings map[string]float64

// Evaluate computes n with the default settings.
func Evaluate(n *Node, bindings Bindings) (float64, error) {
	return DefaultSettings().Evaluate(n, bindings)
}

// Evaluate computes n. The unbound names pi and e read as their constants.
func (s Settings) Evaluate(n *Node, bindings Bindings) (float64, error) {
	if n == nil {
		return 0, errors.Wrap(ErrUnsupported, "empty expression")
	}
	switch n.Kind {
	case NumberNode:
		return n.Value, nil
	case VariableNode:
		if v, ok := bindings[n.Name]; ok {
			return v, nil
		}
		switch n.Name {
		case "pi":
			return math.Pi, nil
		case "e":
			return math.E, nil
		}
		return 0, errors.Wrapf(ErrUndefinedVariable, "variable '%s'", n.Name)
	case NegNode:
		v, err := s.Evaluate(n.left(), bindings)
		return -v, err
	case FuncNode:
		return s.evaluateFunc(n, bindings)
	}
	a, err := s.Evaluate(n.left(), bindings)
	if err != nil {
		return 0, err
	}
	b, err := s.Evaluate(n.right(), bindings)
	if err != nil {
		return 0, err
	}
	switch n.Kind {
	case AddNode:
		return a + b, nil
	case SubNode:
		return a - b, nil
	case MulNode:
		return a * b, nil
	case DivNode:
		if b == 0 {
			return 0, errors.Wrapf(ErrDivisionByZero, "evaluating %s", n)
		}
		return a / b, nil
	case PowNode:
		v := math.Pow(a, b)
		if math.IsNaN(v) {
			return 0, errors.Wrapf(ErrDomain, "%s^%s", formatNumber(a), formatNumber(b))
		}
		return v, nil
	}
	return 0, errors.Wrapf(ErrUnsupported, "node kind %s", n.Kind)
}

func (s Settings) evaluateFunc(n *Node, bindings Bindings) (float64, error) {
	if n.Name == integralFunc {
		return s.evaluateIntegralNode(n, bindings)
	}
	if len(n.Args) != 1 {
		return 0, errors.Wrapf(ErrUnknownFunction, "%s/%d", n.Name, len(n.Args))
	}
	arg, err := s.Evaluate(n.Args[0], bindings)
	if err != nil {
		return 0, err
	}
	return applyFunc(n.Name, arg)
}

// evaluateIntegralNode computes integral(f, x) at the bound x as the
// definite integral of f from 0 to x.
func (s Settings) evaluateIntegralNode(n *Node, bindings Bindings) (float64, error) {
	if len(n.Args) != 2 || n.Args[1].Kind != VariableNode {
		return 0, errors.Wrap(ErrUnsupported, "integral expects (expression, variable)")
	}
	name := n.Args[1].Name
	upper, ok := bindings[name]
	if !ok {
		return 0, errors.Wrapf(ErrUndefinedVariable, "variable '%s'", name)
	}
	inner := make(Bindings, len(bindings))
	for k, v := range bindings {
		inner[k] = v
	}
	return s.definiteIntegral(n.Args[0], name, 0, upper, inner)
}

func applyFunc(name string, v float64) (float64, error) {
	switch name {
	case "sin":
		return math.Sin(v), nil
	case "cos":
		return math.Cos(v), nil
	case "tan":
		return math.Tan(v), nil
	case "exp":
		return math.Exp(v), nil
	case "abs":
		return math.Abs(v), nil
	case "ln":
		if v <= 0 {
			return 0, errors.Wrapf(ErrDomain, "ln(%s)", formatNumber(v))
		}
		return math.Log(v), nil
	case "sqrt":
		if v < 0 {
			return 0, errors.Wrapf(ErrDomain, "sqrt(%s)", formatNumber(v))
		}
		return math.Sqrt(v), nil
	}
	return 0, errors.Wrapf(ErrUnknownFunction, "%s", name)
}
