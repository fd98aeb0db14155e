package cas

import (
	"math"

	"github.com/pkg/errors"
)

// NumericalDerivative estimates d/dname n at point with a central difference.
func (s Settings) NumericalDerivative(n *Node, name string, point float64) (float64, error) {
	s = s.withDefaults()
	h := s.DerivativeStep
	hi, err := s.Evaluate(n, Bindings{name: point + h})
	if err != nil {
		return 0, err
	}
	lo, err := s.Evaluate(n, Bindings{name: point - h})
	if err != nil {
		return 0, err
	}
	return (hi - lo) / (2 * h), nil
}

// DefiniteIntegral integrates n over [a, b] by adaptive Simpson.
func (s Settings) DefiniteIntegral(n *Node, name string, a, b float64) (float64, error) {
	return s.definiteIntegral(n, name, a, b, Bindings{})
}

func (s Settings) definiteIntegral(n *Node, name string, a, b float64, bindings Bindings) (float64, error) {
	s = s.withDefaults()
	if a == b {
		return 0, nil
	}
	f := func(x float64) (float64, error) {
		bindings[name] = x
		return s.Evaluate(n, bindings)
	}
	fa, err := f(a)
	if err != nil {
		return 0, err
	}
	fb, err := f(b)
	if err != nil {
		return 0, err
	}
	m := (a + b) / 2
	fm, err := f(m)
	if err != nil {
		return 0, err
	}
	whole := simpson(a, b, fa, fm, fb)
	return adaptiveSimpson(f, a, b, fa, fm, fb, whole, s.IntegralTolerance, s.IntegralMaxDepth)
}

func simpson(a, b, fa, fm, fb float64) float64 {
	return (b - a) / 6 * (fa + 4*fm + fb)
}

func adaptiveSimpson(f func(float64) (float64, error), a, b, fa, fm, fb, whole, tol float64, depth int) (float64, error) {
	m := (a + b) / 2
	lm, rm := (a+m)/2, (m+b)/2
	flm, err := f(lm)
	if err != nil {
		return 0, err
	}
	frm, err := f(rm)
	if err != nil {
		return 0, err
	}
	left := simpson(a, m, fa, flm, fm)
	right := simpson(m, b, fm, frm, fb)
	delta := left + right - whole
	if depth <= 0 || math.Abs(delta) <= 15*tol {
		return left + right + delta/15, nil
	}
	l, err := adaptiveSimpson(f, a, m, fa, flm, fm, left, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	r, err := adaptiveSimpson(f, m, b, fm, frm, fb, right, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

// NumericalDerivative and DefiniteIntegral with the default settings.
func NumericalDerivative(n *Node, name string, point float64) (float64, error) {
	return DefaultSettings().NumericalDerivative(n, name, point)
}

func DefiniteIntegral(n *Node, name string, a, b float64) (float64, error) {
	return DefaultSettings().DefiniteIntegral(n, name, a, b)
}

// errNotDifferentiable is returned for functions without a derivative rule.
func errNotDifferentiable(n *Node) error {
	return errors.Wrapf(ErrUnsupported, "cannot differentiate %s", n)
}
