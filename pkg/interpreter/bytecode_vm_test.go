package interpreter

import (
	"bytes"
	"testing"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

func TestBytecodeVM_AssignmentAndBinary(t *testing.T) {
	module := ast.Mod(
		ast.Var("x", ast.Int(1)),
		ast.Var("y", ast.Int(2)),
		ast.Assign(ast.ID("x"), ast.Bin("+", ast.ID("x"), ast.ID("y"))),
		ast.Bin("*", ast.ID("x"), ast.ID("y")),
	)

	want := mustEvalModule(t, New(), module)
	got := runBytecodeModule(t, module)

	if !valuesEqual(got, want) {
		t.Fatalf("bytecode result mismatch: got=%#v want=%#v", got, want)
	}
	if !valuesEqual(got, runtime.Int(6)) {
		t.Fatalf("bytecode result mismatch: got=%#v want=6", got)
	}
}

func TestBytecodeVM_UnaryOperators(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Un("-", ast.Int(3)),
			ast.Un("!", ast.Bool(true)),
			ast.Fact(ast.Int(5)),
		),
	)
	expectDisplay(t, module, "[-3, false, 120]")
}

func TestBytecodeVM_LoweringEmitsStackCode(t *testing.T) {
	module := ast.Mod(ast.Bin("+", ast.Int(1), ast.Int(2)))
	program, err := New().lowerModuleToBytecode(module)
	if err != nil {
		t.Fatalf("bytecode lowering failed: %v", err)
	}
	want := []bytecodeOp{bytecodeOpConst, bytecodeOpConst, bytecodeOpBinary, bytecodeOpReturn}
	if len(program.instructions) != len(want) {
		t.Fatalf("instruction count mismatch: got=%d want=%d", len(program.instructions), len(want))
	}
	for idx, op := range want {
		if program.instructions[idx].op != op {
			t.Fatalf("instruction %d mismatch: got=%s want=%s", idx, program.instructions[idx].op, op)
		}
	}
}

func TestBytecodeVM_LoweringFailsBeforeExecution(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(t, testExecBytecode, &out)
	module := ast.Mod(
		ast.Call("print", ast.Str("side effect")),
		ast.Brk(),
	)
	err := evalModuleError(t, interp, module)
	if kind, ok := runtime.KindOf(err); !ok || kind != runtime.ParseError {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("module ran before lowering failed: %q", out.String())
	}
}

func TestBytecodeVM_ShortCircuit(t *testing.T) {
	module := ast.Mod(
		ast.Arr(
			ast.Bin("&&", ast.Bool(false), ast.Call("missing")),
			ast.Bin("||", ast.Bool(true), ast.Call("missing")),
			ast.Bin("&&", ast.Int(1), ast.Str("yes")),
			ast.Bin("||", ast.Null(), ast.Int(0)),
		),
	)
	expectDisplay(t, module, "[false, true, true, false]")
}

func TestBytecodeVM_IfElseChain(t *testing.T) {
	classify := ast.Fn("classify", []string{"n"},
		ast.If(ast.Bin("<", ast.ID("n"), ast.Int(0)),
			ast.Block(ast.Ret(ast.Str("neg"))),
			ast.If(ast.Bin("==", ast.ID("n"), ast.Int(0)),
				ast.Block(ast.Ret(ast.Str("zero"))),
				ast.Block(ast.Ret(ast.Str("pos"))),
			),
		),
	)
	module := ast.Mod(
		classify,
		ast.Arr(
			ast.Call("classify", ast.Int(-4)),
			ast.Call("classify", ast.Int(0)),
			ast.Call("classify", ast.Int(9)),
		),
	)
	expectDisplay(t, module, `["neg", "zero", "pos"]`)
}

func TestBytecodeVM_WhileBreakContinue(t *testing.T) {
	module := ast.Mod(
		ast.Var("i", ast.Int(0)),
		ast.Var("sum", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(10)),
			ast.Assign(ast.ID("i"), ast.Bin("+", ast.ID("i"), ast.Int(1))),
			ast.If(ast.Bin("==", ast.Bin("%", ast.ID("i"), ast.Int(2)), ast.Int(0)), ast.Block(ast.Cont()), nil),
			ast.If(ast.Bin(">", ast.ID("i"), ast.Int(7)), ast.Block(ast.Brk()), nil),
			ast.Assign(ast.ID("sum"), ast.Bin("+", ast.ID("sum"), ast.ID("i"))),
		),
		ast.ID("sum"),
	)
	expectDisplay(t, module, "16")
}

func TestBytecodeVM_ForLoopScope(t *testing.T) {
	module := ast.Mod(
		ast.Var("total", ast.Int(0)),
		ast.For(
			ast.Var("j", ast.Int(0)),
			ast.Bin("<", ast.ID("j"), ast.Int(5)),
			ast.Assign(ast.ID("j"), ast.Bin("+", ast.ID("j"), ast.Int(1))),
			ast.If(ast.Bin("==", ast.ID("j"), ast.Int(2)), ast.Block(ast.Cont()), nil),
			ast.Assign(ast.ID("total"), ast.Bin("+", ast.ID("total"), ast.ID("j"))),
		),
		ast.ID("total"),
	)
	expectDisplay(t, module, "8")

	leaked := ast.Mod(
		ast.For(ast.Var("k", ast.Int(0)), ast.Bin("<", ast.ID("k"), ast.Int(1)), ast.Assign(ast.ID("k"), ast.Int(1))),
		ast.ID("k"),
	)
	expectErrorKind(t, leaked, runtime.NameError)
}

func TestBytecodeVM_LoopStatement(t *testing.T) {
	module := ast.Mod(
		ast.Var("n", ast.Int(1)),
		ast.Loop(
			ast.Var("doubled", ast.Bin("*", ast.ID("n"), ast.Int(2))),
			ast.If(ast.Bin(">", ast.ID("doubled"), ast.Int(100)), ast.Block(ast.Brk()), nil),
			ast.Assign(ast.ID("n"), ast.ID("doubled")),
		),
		ast.ID("n"),
	)
	expectDisplay(t, module, "64")
}

func TestBytecodeVM_Recursion(t *testing.T) {
	fib := ast.Fn("fib", []string{"n"},
		ast.If(ast.Bin("<", ast.ID("n"), ast.Int(2)), ast.Block(ast.Ret(ast.ID("n"))), nil),
		ast.Ret(ast.Bin("+",
			ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(1))),
			ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(2))),
		)),
	)
	expectDisplay(t, ast.Mod(fib, ast.Call("fib", ast.Int(15))), "610")
}

func TestBytecodeVM_DeepRecursionStaysIterative(t *testing.T) {
	down := ast.Fn("down", []string{"n"},
		ast.If(ast.Bin("==", ast.ID("n"), ast.Int(0)), ast.Block(ast.Ret(ast.Str("done"))), nil),
		ast.Ret(ast.Call("down", ast.Bin("-", ast.ID("n"), ast.Int(1)))),
	)
	interp := NewWithOptions(Options{ExecMode: ExecModeBytecode, MaxCallDepth: 50000})
	got := mustEvalModule(t, interp, ast.Mod(down, ast.Call("down", ast.Int(30000))))
	if !valuesEqual(got, runtime.String("done")) {
		t.Fatalf("deep recursion result mismatch: got=%#v", got)
	}
	if depth := len(interp.callStack); depth != 0 {
		t.Fatalf("call stack not unwound: %d frames left", depth)
	}
}

func TestBytecodeVM_ImplicitFunctionResult(t *testing.T) {
	module := ast.Mod(
		ast.Fn("last", []string{"a"}, ast.Var("b", ast.Bin("+", ast.ID("a"), ast.Int(1))), ast.Bin("*", ast.ID("b"), ast.Int(10))),
		ast.Fn("nothing", []string{}, ast.Var("z", ast.Int(1))),
		ast.Arr(ast.Call("last", ast.Int(2)), ast.Call("nothing")),
	)
	expectDisplay(t, module, "[30, null]")
}

func TestBytecodeVM_TopLevelReturn(t *testing.T) {
	module := ast.Mod(
		ast.If(ast.Bool(true), ast.Block(ast.Ret(ast.Int(7))), nil),
		ast.Int(8),
	)
	expectDisplay(t, module, "7")
}

func TestBytecodeVM_ClosuresCaptureScope(t *testing.T) {
	module := ast.Mod(
		ast.Fn("makeCounter", []string{},
			ast.Var("c", ast.Int(0)),
			ast.Ret(ast.Lam([]string{},
				ast.Assign(ast.ID("c"), ast.Bin("+", ast.ID("c"), ast.Int(1))),
				ast.Ret(ast.ID("c")),
			)),
		),
		ast.Var("f", ast.Call("makeCounter")),
		ast.Var("g", ast.Call("makeCounter")),
		ast.Call("f"),
		ast.Call("f"),
		ast.Call("g"),
		ast.Arr(ast.Call("f"), ast.Call("g")),
	)
	expectDisplay(t, module, "[3, 2]")
}

func TestBytecodeVM_LambdaCallbacksFromNatives(t *testing.T) {
	module := ast.Mod(
		ast.Var("factor", ast.Int(3)),
		ast.Var("scaled", ast.Call("map", ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3)),
			ast.Lam([]string{"x"}, ast.Ret(ast.Bin("*", ast.ID("x"), ast.ID("factor")))))),
		ast.Var("odd", ast.Call("filter", ast.ID("scaled"),
			ast.Lam([]string{"x"}, ast.Bin("==", ast.Bin("%", ast.ID("x"), ast.Int(2)), ast.Int(1))))),
		ast.Arr(ast.ID("scaled"), ast.ID("odd"),
			ast.Call("reduce", ast.ID("scaled"), ast.Lam([]string{"a", "b"}, ast.Bin("+", ast.ID("a"), ast.ID("b"))))),
	)
	expectDisplay(t, module, "[[3, 6, 9], [3, 9], 18]")
}

func TestBytecodeVM_MemoizedFunction(t *testing.T) {
	square := ast.Decorated(ast.Fn("square", []string{"n"},
		ast.Assign(ast.ID("calls"), ast.Bin("+", ast.ID("calls"), ast.Int(1))),
		ast.Ret(ast.Bin("*", ast.ID("n"), ast.ID("n"))),
	), "memoize")
	module := ast.Mod(
		ast.Var("calls", ast.Int(0)),
		square,
		ast.Call("square", ast.Int(4)),
		ast.Call("square", ast.Int(4)),
		ast.Call("square", ast.Int(5)),
		ast.Arr(ast.Call("square", ast.Int(4)), ast.ID("calls")),
	)
	expectDisplay(t, module, "[16, 2]")
}

func TestBytecodeVM_StructMembersAndAutoviv(t *testing.T) {
	module := ast.Mod(
		ast.Var("p", ast.Null()),
		ast.AssignMember(ast.Member(ast.ID("p"), "pos"), "x", ast.Int(5)),
		ast.AssignMember(ast.ID("p"), "name", ast.Str("rover")),
		ast.Var("alias", ast.ID("p")),
		ast.AssignMember(ast.Member(ast.ID("alias"), "pos"), "y", ast.Int(6)),
		ast.Arr(
			ast.Member(ast.Member(ast.ID("p"), "pos"), "y"),
			ast.Member(ast.ID("p"), "missing"),
			ast.ID("p"),
		),
	)
	expectDisplay(t, module, `[6, null, {pos = {x = 5, y = 6}, name = "rover"}]`)
}

func TestBytecodeVM_IndexAssignment(t *testing.T) {
	module := ast.Mod(
		ast.Var("arr", ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3))),
		ast.AssignIndex(ast.ID("arr"), ast.Int(1), ast.Int(20)),
		ast.Var("m", ast.Null()),
		ast.AssignIndex(ast.ID("m"), ast.Str("k"), ast.Str("v")),
		ast.Var("s", ast.StructLit(ast.Field("inner", ast.Null()))),
		ast.AssignIndex(ast.Member(ast.ID("s"), "inner"), ast.Str("deep"), ast.Int(1)),
		ast.Arr(ast.ID("arr"), ast.Member(ast.ID("m"), "k"), ast.Index(ast.ID("s"), ast.Str("inner"))),
	)
	expectDisplay(t, module, `[[1, 20, 3], "v", {deep = 1}]`)

	intoNull := ast.Mod(
		ast.Var("n", ast.Null()),
		ast.AssignIndex(ast.ID("n"), ast.Int(0), ast.Int(1)),
	)
	expectErrorKind(t, intoNull, runtime.TypeError)

	outOfRange := ast.Mod(ast.Index(ast.Arr(ast.Int(1)), ast.Int(3)))
	expectErrorKind(t, outOfRange, runtime.TypeError)
}

func TestBytecodeVM_LetBindingsAreImmutable(t *testing.T) {
	rebinding := ast.Mod(
		ast.Let("k", ast.Int(1)),
		ast.Assign(ast.ID("k"), ast.Int(2)),
	)
	expectErrorKind(t, rebinding, runtime.ImmutableAssignment)

	autoviv := ast.Mod(
		ast.Let("s", ast.Null()),
		ast.AssignMember(ast.ID("s"), "a", ast.Int(1)),
	)
	expectErrorKind(t, autoviv, runtime.ImmutableAssignment)

	nested := ast.Mod(
		ast.Let("s", ast.StructLit(ast.Field("a", ast.Int(1)))),
		ast.AssignMember(ast.ID("s"), "a", ast.Int(2)),
	)
	expectErrorKind(t, nested, runtime.ImmutableAssignment)
}

func TestBytecodeVM_IncludeModule(t *testing.T) {
	module := ast.Mod(
		ast.Include("math"),
		ast.Include("rumina:string"),
		ast.Arr(
			ast.CallMember(ast.ID("math"), "sqrt", ast.Int(16)),
			ast.CallMember(ast.ID("string"), "length", ast.Str("héllo")),
		),
	)
	expectDisplay(t, module, "[4, 5]")

	missing := ast.Mod(ast.Include("nope"))
	expectErrorKind(t, missing, runtime.NameError)

	sealed := ast.Mod(ast.Include("math"), ast.Assign(ast.ID("math"), ast.Null()))
	expectErrorKind(t, sealed, runtime.ImmutableAssignment)
}

func TestBytecodeVM_FunctionValuesInStructs(t *testing.T) {
	module := ast.Mod(
		ast.Fn("twice", []string{"x"}, ast.Ret(ast.Bin("*", ast.ID("x"), ast.Int(2)))),
		ast.Var("ops", ast.StructLit(
			ast.Field("twice", ast.ID("twice")),
			ast.Field("inc", ast.Lam([]string{"x"}, ast.Ret(ast.Bin("+", ast.ID("x"), ast.Int(1))))),
			ast.Field("len", ast.ID("size")),
		)),
		ast.Arr(
			ast.CallMember(ast.ID("ops"), "twice", ast.Int(4)),
			ast.CallMember(ast.ID("ops"), "inc", ast.Int(4)),
			ast.CallMember(ast.ID("ops"), "len", ast.Str("abc")),
		),
	)
	expectDisplay(t, module, "[8, 5, 3]")
}
