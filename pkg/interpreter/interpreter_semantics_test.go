package interpreter

import (
	"math"
	"testing"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

func TestDecimalLiteralsAreExact(t *testing.T) {
	sum := ast.Bin("+", ast.Dec("0.1"), ast.Dec("0.2"))
	module := ast.Mod(
		ast.Arr(
			sum,
			ast.Bin("==", sum, ast.Dec("0.3")),
			ast.Call("typeof", sum),
			ast.Call("decimal", sum),
		),
	)
	expectDisplay(t, module, `[3/10, true, "rational", 0.3]`)
}

func TestIntegerDivisionStaysRational(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Bin("/", ast.Int(1), ast.Int(3)),
			ast.Bin("/", ast.Int(6), ast.Int(3)),
			ast.Call("typeof", ast.Bin("/", ast.Int(6), ast.Int(3))),
			ast.Call("decimal", ast.Bin("/", ast.Int(1), ast.Int(3)), ast.Int(3)),
			ast.Call("int", ast.Bin("/", ast.Int(7), ast.Int(2))),
		),
	)
	expectDisplay(t, module, `[1/3, 2, "rational", 0.333, 3]`)
}

func TestMixedModuloPromotion(t *testing.T) {
	floatMod := ast.Bin("%", ast.Int(10), ast.Call("float", ast.Dec("3.5")))
	ratMod := ast.Bin("%", ast.Int(10), ast.Call("rational", ast.Int(3)))
	module := ast.Mod(
		ast.Arr(
			floatMod,
			ast.Call("typeof", floatMod),
			ast.Bin("==", ratMod, ast.Int(1)),
			ast.Call("typeof", ratMod),
			ast.Bin("%", ast.Int(-7), ast.Int(3)),
		),
	)
	expectDisplay(t, module, `[3, "float", true, "rational", 2]`)
}

func TestCrossKindNumericEquality(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Bin("==", ast.Int(1), ast.Call("float", ast.Int(1))),
			ast.Bin("==", ast.Dec("0.5"), ast.Bin("/", ast.Int(1), ast.Int(2))),
			ast.Bin("<", ast.Bin("/", ast.Int(1), ast.Int(3)), ast.Dec("0.34")),
			ast.Bin("!=", ast.Int(2), ast.Str("2")),
			ast.Bin("<", ast.Str("abc"), ast.Str("abd")),
			ast.Bin("<", ast.Str("ab"), ast.Str("abc")),
		),
	)
	expectDisplay(t, module, "[true, true, true, true, true, true]")
}

func TestIntegerOverflowAndBigPowers(t *testing.T) {
	overflow := ast.Mod(ast.Bin("+", ast.Int(math.MaxInt64), ast.Int(1)))
	expectErrorKind(t, overflow, runtime.ArithmeticError)

	module := ast.Mod(
		ast.Arr(
			ast.Bin("^", ast.Int(2), ast.Int(10)),
			ast.Bin("^", ast.Int(2), ast.Int(64)),
			ast.Fact(ast.Int(25)),
			ast.Call("typeof", ast.Fact(ast.Int(25))),
		),
	)
	expectDisplay(t, module, `[1024, 18446744073709551616, 15511210043330985984000000, "bigint"]`)
}

func TestDivisionByZero(t *testing.T) {
	expectErrorKind(t, ast.Mod(ast.Bin("/", ast.Int(1), ast.Int(0))), runtime.ArithmeticError)
	expectErrorKind(t, ast.Mod(ast.Bin("%", ast.Dec("1.5"), ast.Int(0))), runtime.ArithmeticError)
}

func TestConcatenation(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Bin("+", ast.Str("n="), ast.Int(3)),
			ast.Bin("+", ast.Dec("0.5"), ast.Str("!")),
			ast.Bin("+", ast.Arr(ast.Int(1), ast.Int(2)), ast.Arr(ast.Int(3))),
			ast.Bin("+",
				ast.StructLit(ast.Field("a", ast.Int(1)), ast.Field("b", ast.Int(2))),
				ast.StructLit(ast.Field("b", ast.Int(3)), ast.Field("c", ast.Int(4))),
			),
		),
	)
	expectDisplay(t, module, `["n=3", "1/2!", [1, 2, 3], {a = 1, b = 3, c = 4}]`)
}

func TestAggregateIdentityEquality(t *testing.T) {
	module := ast.Mod(
		ast.Var("a", ast.StructLit(ast.Field("x", ast.Int(1)))),
		ast.Var("b", ast.StructLit(ast.Field("x", ast.Int(1)))),
		ast.Var("c", ast.ID("a")),
		ast.AssignMember(ast.ID("c"), "x", ast.Int(9)),
		ast.Arr(
			ast.Bin("==", ast.ID("a"), ast.ID("b")),
			ast.Bin("==", ast.ID("a"), ast.ID("c")),
			ast.Bin("!=", ast.ID("a"), ast.Null()),
			ast.Bin("==", ast.Null(), ast.Null()),
			ast.Member(ast.ID("a"), "x"),
			ast.Bin("==", ast.Arr(ast.Int(1)), ast.Arr(ast.Int(1))),
			ast.Call("same", ast.ID("a"), ast.ID("c")),
			ast.Call("same", ast.Int(2), ast.Dec("2.0")),
		),
	)
	expectDisplay(t, module, "[false, true, true, true, 9, false, true, true]")
}

func TestUnsupportedOperandsAreTypeErrors(t *testing.T) {
	cases := map[string]*ast.Module{
		"ordering structs": ast.Mod(ast.Bin("<", ast.StructLit(), ast.StructLit())),
		"null arithmetic":  ast.Mod(ast.Bin("+", ast.Null(), ast.Int(1))),
		"not on int":       ast.Mod(ast.Un("!", ast.Int(1))),
		"negate string":    ast.Mod(ast.Un("-", ast.Str("x"))),
		"call non-func":    ast.Mod(ast.Var("v", ast.Int(1)), ast.Call("v")),
		"member on int":    ast.Mod(ast.Member(ast.Int(1), "x")),
		"wrong arity":      ast.Mod(ast.Fn("f", []string{"a"}, ast.ID("a")), ast.Call("f")),
	}
	for name, module := range cases {
		t.Run(name, func(t *testing.T) {
			expectErrorKind(t, module, runtime.TypeError)
		})
	}
}

func TestNullMemberReads(t *testing.T) {
	module := ast.Mod(
		ast.Var("n", ast.Null()),
		ast.Arr(
			ast.Member(ast.ID("n"), "x"),
			ast.Member(ast.StructLit(), "missing"),
			ast.Index(ast.ID("n"), ast.Int(0)),
		),
	)
	expectDisplay(t, module, "[null, null, null]")
}

func TestUndefinedNamesAreNameErrors(t *testing.T) {
	rerr := expectErrorKind(t, ast.Mod(ast.Call("nope", ast.Call("also_missing"))), runtime.NameError)
	if rerr.Message != "undefined function 'nope'" {
		t.Fatalf("callee should be resolved before arguments: %q", rerr.Message)
	}
	expectErrorKind(t, ast.Mod(ast.ID("ghost")), runtime.NameError)
	expectErrorKind(t, ast.Mod(ast.Assign(ast.ID("ghost"), ast.Int(1))), runtime.NameError)
}

func TestComplexAndIrrationalValues(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Call("sqrt", ast.Int(-4)),
			ast.Bin("*", ast.ID("i"), ast.ID("i")),
			ast.Call("sqrt", ast.Int(16)),
			ast.Call("sqrt", ast.Bin("/", ast.Int(1), ast.Int(4))),
		),
	)
	expectDisplay(t, module, "[2i, -1, 4, 1/2]")
}

func TestFailedAutovivLeavesBindingUntouched(t *testing.T) {
	cases := map[string]*ast.Module{
		"int key under null": ast.Mod(
			ast.AssignIndex(ast.Member(ast.ID("x"), "a"), ast.Int(0), ast.Int(1)),
		),
		"int key deep": ast.Mod(
			ast.AssignIndex(ast.Member(ast.Member(ast.ID("x"), "a"), "b"), ast.Int(2), ast.Int(1)),
		),
	}
	for name, failing := range cases {
		for _, mode := range allTestExecModes {
			t.Run(name+"/"+string(mode), func(t *testing.T) {
				interp := newTestInterpreter(t, mode, nil)
				mustEvalModule(t, interp, ast.Mod(ast.Var("x", ast.Null())))
				err := evalModuleError(t, interp, failing)
				if kind, ok := runtime.KindOf(err); !ok || kind != runtime.TypeError {
					t.Fatalf("expected TypeError, got %v", err)
				}
				val := mustEvalModule(t, interp, ast.Mod(ast.Call("typeof", ast.ID("x"))))
				if got := interp.Display(val); got != "null" {
					t.Fatalf("binding changed by failed assignment: typeof(x)=%s", got)
				}
			})
		}
	}
}

func TestAutovivCreatesNestedStructs(t *testing.T) {
	module := ast.Mod(
		ast.Var("x", ast.Null()),
		ast.AssignIndex(ast.Member(ast.Member(ast.ID("x"), "a"), "b"), ast.Str("c"), ast.Int(1)),
		ast.AssignMember(ast.Member(ast.ID("x"), "d"), "e", ast.Int(2)),
		ast.ID("x"),
	)
	expectDisplay(t, module, "{a = {b = {c = 1}}, d = {e = 2}}")
}

func TestMemoizeKeysAggregatesByIdentity(t *testing.T) {
	tag := ast.Decorated(ast.Fn("tag", []string{"s"},
		ast.Assign(ast.ID("calls"), ast.Bin("+", ast.ID("calls"), ast.Int(1))),
		ast.Ret(ast.ID("calls")),
	), "memoize")
	module := ast.Mod(
		ast.Var("calls", ast.Int(0)),
		tag,
		ast.Var("p", ast.StructLit(ast.Field("a", ast.Int(1)))),
		ast.Var("q", ast.StructLit(ast.Field("a", ast.Int(1)))),
		ast.Arr(
			ast.Call("tag", ast.ID("p")),
			ast.Call("tag", ast.ID("q")),
			ast.Call("tag", ast.ID("p")),
			ast.Call("tag", ast.Arr(ast.Int(1))),
			ast.Call("tag", ast.Arr(ast.Int(1))),
			ast.Call("tag", ast.Int(7)),
			ast.Call("tag", ast.Int(7)),
		),
	)
	expectDisplay(t, module, "[1, 2, 1, 3, 4, 5, 5]")
}
