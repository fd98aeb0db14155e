package cas

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestParseAndPrint(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{src: "x^2", want: "x^2"},
		{src: "2x + 4", want: "2*x + 4"},
		{src: "a - (b - c)", want: "a - (b - c)"},
		{src: "-x^2", want: "-x^2"},
		{src: "2^3^2", want: "2^3^2"},
		{src: "log(x)", want: "ln(x)"},
		{src: "sin(2*x)/3", want: "sin(2*x)/3"},
		{src: "1.5e3*y", want: "1500*y"},
	}
	for _, tc := range cases {
		n, err := Parse(tc.src)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.src, err)
		}
		if got := n.String(); got != tc.want {
			t.Fatalf("print %q: got=%q want=%q", tc.src, got, tc.want)
		}
		again, err := Parse(n.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", n.String(), err)
		}
		if !Equal(n, again) {
			t.Fatalf("reparse of %q changed the tree: %s", tc.src, again)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "x +", "(x", "sin(x, y)", "x $ y"} {
		if _, err := Parse(src); !errors.Is(err, ErrParse) {
			t.Fatalf("parse %q: expected ErrParse, got %v", src, err)
		}
	}
}

func TestSimplifyIdentities(t *testing.T) {
	cases := map[string]string{
		"x + 0":        "x",
		"1*x":          "x",
		"x*0":          "0",
		"x - x":        "0",
		"x^1":          "x",
		"x^0":          "1",
		"x*3":          "3*x",
		"2*(3*x)":      "6*x",
		"x + x":        "2*x",
		"(x^2)^3":      "x^6",
		"ln(exp(y))":   "y",
		"2 + 3*4":      "14",
		"sqrt(16) + z": "4 + z",
	}
	for src, want := range cases {
		if got := Simplify(MustParse(src)).String(); got != want {
			t.Fatalf("simplify %q: got=%q want=%q", src, got, want)
		}
	}
}

func TestDifferentiate(t *testing.T) {
	cases := map[string]string{
		"x^2":      "2*x",
		"3*x + 5":  "3",
		"sin(x)":   "cos(x)",
		"y^2":      "0",
		"x*y":      "y",
		"exp(2*x)": "2*exp(2*x)",
	}
	for src, want := range cases {
		d, err := Differentiate(MustParse(src), "x")
		if err != nil {
			t.Fatalf("differentiate %q: %v", src, err)
		}
		if got := d.String(); got != want {
			t.Fatalf("differentiate %q: got=%q want=%q", src, got, want)
		}
	}
}

func TestDifferentiateMatchesNumericalDerivative(t *testing.T) {
	exprs := []string{"x^3 - 2*x", "sin(x)*cos(x)", "exp(x)/x", "sqrt(x) + ln(x)", "x^x"}
	for _, src := range exprs {
		n := MustParse(src)
		d, err := Differentiate(n, "x")
		if err != nil {
			t.Fatalf("differentiate %q: %v", src, err)
		}
		exact, err := Evaluate(d, Bindings{"x": 1.3})
		if err != nil {
			t.Fatalf("evaluate %s: %v", d, err)
		}
		approx, err := Settings{DerivativeStep: 1e-6}.NumericalDerivative(n, "x", 1.3)
		if err != nil {
			t.Fatalf("numerical derivative %q: %v", src, err)
		}
		if !approxEqual(exact, approx, 1e-5) {
			t.Fatalf("derivative of %q at 1.3: symbolic=%v numerical=%v", src, exact, approx)
		}
	}
}

func TestEvaluate(t *testing.T) {
	v, err := Evaluate(MustParse("2*x + y^2"), Bindings{"x": 3, "y": 4})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v != 22 {
		t.Fatalf("evaluate mismatch: got=%v want=22", v)
	}
	if v, err := Evaluate(MustParse("cos(pi)"), nil); err != nil || !approxEqual(v, -1, 1e-12) {
		t.Fatalf("cos(pi): got=%v err=%v", v, err)
	}
	if _, err := Evaluate(MustParse("x + 1"), nil); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
	if _, err := Evaluate(MustParse("1/x"), Bindings{"x": 0}); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := Evaluate(MustParse("ln(x)"), Bindings{"x": -1}); !errors.Is(err, ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
}

func TestSolveLinear(t *testing.T) {
	sol, err := SolveLinear(MustParse("2x + 4"), "x")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.IsNumber(-2) {
		t.Fatalf("solve 2x + 4: got=%s want=-2", sol)
	}
	sol, err = SolveLinear(MustParse("a*x - b"), "x")
	if err != nil {
		t.Fatalf("solve symbolic: %v", err)
	}
	v, err := Evaluate(sol, Bindings{"a": 4, "b": 10})
	if err != nil || v != 2.5 {
		t.Fatalf("solve a*x - b: got=%s (%v, %v)", sol, v, err)
	}
	if _, err := SolveLinear(MustParse("x^2 - 1"), "x"); !errors.Is(err, ErrNonLinear) {
		t.Fatalf("expected ErrNonLinear, got %v", err)
	}
	if _, err := SolveLinear(MustParse("x*x"), "x"); !errors.Is(err, ErrNonLinear) {
		t.Fatalf("expected ErrNonLinear for x*x, got %v", err)
	}
	if _, err := SolveLinear(MustParse("y + 1"), "x"); !errors.Is(err, ErrNoUniqueSolution) {
		t.Fatalf("expected ErrNoUniqueSolution, got %v", err)
	}
}

func TestIntegrateSymbolic(t *testing.T) {
	cases := map[string]string{
		"x":       "x^2/2",
		"3*x^2":   "3*(x^3/3)",
		"cos(x)":  "sin(x)",
		"5":       "5*x",
		"1/x":     "ln(abs(x))",
		"exp(2x)": "exp(2*x)/2",
	}
	for src, want := range cases {
		if got := Integrate(MustParse(src), "x").String(); got != want {
			t.Fatalf("integrate %q: got=%q want=%q", src, got, want)
		}
	}
}

func TestIntegrateFallsBackToNumeric(t *testing.T) {
	n := Integrate(MustParse("exp(x^2)"), "x")
	if n.Kind != FuncNode || n.Name != integralFunc {
		t.Fatalf("expected integral fallback, got %s", n)
	}
	v, err := Evaluate(n, Bindings{"x": 1})
	if err != nil {
		t.Fatalf("evaluate fallback: %v", err)
	}
	// integral of exp(x^2) from 0 to 1
	if !approxEqual(v, 1.4626517459071816, 1e-8) {
		t.Fatalf("fallback value: got=%v", v)
	}
	d, err := Differentiate(n, "x")
	if err != nil {
		t.Fatalf("differentiate fallback: %v", err)
	}
	if d.String() != "exp(x^2)" {
		t.Fatalf("d/dx of integral: got=%s", d)
	}
}

func TestDefiniteIntegral(t *testing.T) {
	v, err := DefiniteIntegral(MustParse("x^2"), "x", 0, 3)
	if err != nil {
		t.Fatalf("definite integral: %v", err)
	}
	if !approxEqual(v, 9, 1e-9) {
		t.Fatalf("integral of x^2 on [0,3]: got=%v want=9", v)
	}
	v, err = DefiniteIntegral(MustParse("sin(x)"), "x", 0, math.Pi)
	if err != nil {
		t.Fatalf("definite integral: %v", err)
	}
	if !approxEqual(v, 2, 1e-9) {
		t.Fatalf("integral of sin on [0,pi]: got=%v want=2", v)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Store("f", MustParse("x^2"))
	r.Store("g", MustParse("x + 1"))
	got, err := r.Load("f")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.String() != "x^2" {
		t.Fatalf("load mismatch: got=%s", got)
	}
	if _, err := r.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"f", "g"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestVariablesInOrder(t *testing.T) {
	got := MustParse("y*x + sin(y) + z").Variables()
	if diff := cmp.Diff([]string{"y", "x", "z"}, got); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}
