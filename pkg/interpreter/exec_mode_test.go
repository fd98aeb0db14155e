package interpreter

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

type testExecMode string

const (
	testExecTreewalker testExecMode = "treewalker"
	testExecBytecode   testExecMode = "bytecode"
)

var execModeFlag = flag.String("exec-mode", string(testExecTreewalker), "execution mode for interpreter tests (treewalker|bytecode)")

var allTestExecModes = []testExecMode{testExecTreewalker, testExecBytecode}

func resolveTestExecMode(t *testing.T) testExecMode {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(*execModeFlag)) {
	case string(testExecTreewalker), "":
		return testExecTreewalker
	case string(testExecBytecode):
		return testExecBytecode
	default:
		t.Fatalf("unknown exec mode %q (expected treewalker or bytecode)", *execModeFlag)
		return testExecTreewalker
	}
}

// newTestInterpreter builds an interpreter for mode that prints into stdout.
func newTestInterpreter(t *testing.T, mode testExecMode, stdout *bytes.Buffer) *Interpreter {
	t.Helper()
	opts := Options{ExecMode: ExecModeTreewalker}
	if mode == testExecBytecode {
		opts.ExecMode = ExecModeBytecode
	}
	if stdout != nil {
		opts.Stdout = stdout
	}
	return NewWithOptions(opts)
}

func mustEvalModule(t *testing.T, interp *Interpreter, module *ast.Module) runtime.Value {
	t.Helper()
	val, _, err := interp.EvaluateModule(module)
	if err != nil {
		t.Fatalf("module evaluation failed: %v", err)
	}
	return val
}

func evalModuleError(t *testing.T, interp *Interpreter, module *ast.Module) error {
	t.Helper()
	_, _, err := interp.EvaluateModule(module)
	return err
}

func runBytecodeModule(t *testing.T, module *ast.Module) runtime.Value {
	t.Helper()
	interp := New()
	return runBytecodeModuleWithInterpreter(t, interp, module)
}

func runBytecodeModuleWithInterpreter(t *testing.T, interp *Interpreter, module *ast.Module) runtime.Value {
	t.Helper()
	program, err := interp.lowerModuleToBytecode(module)
	if err != nil {
		t.Fatalf("bytecode lowering failed: %v", err)
	}
	vm := newBytecodeVM(interp, interp.GlobalEnvironment())
	val, err := vm.run(program)
	if err != nil {
		t.Fatalf("bytecode execution failed: %v", err)
	}
	return val
}

func runBytecodeModuleError(t *testing.T, interp *Interpreter, module *ast.Module) error {
	t.Helper()
	program, err := interp.lowerModuleToBytecode(module)
	if err != nil {
		return err
	}
	vm := newBytecodeVM(interp, interp.GlobalEnvironment())
	_, err = vm.run(program)
	return err
}

// expectDisplay runs module in both modes and checks the display form of the
// result.
func expectDisplay(t *testing.T, module *ast.Module, want string) {
	t.Helper()
	tree := New()
	treeVal := mustEvalModule(t, tree, module)
	if got := tree.Display(treeVal); got != want {
		t.Fatalf("treewalker result mismatch: got=%q want=%q", got, want)
	}
	vm := New()
	vmVal := runBytecodeModuleWithInterpreter(t, vm, module)
	if got := vm.Display(vmVal); got != want {
		t.Fatalf("bytecode result mismatch: got=%q want=%q", got, want)
	}
}

// expectErrorKind runs module in both modes and checks that each fails with
// kind. The tree walker error is returned for further checks.
func expectErrorKind(t *testing.T, module *ast.Module, kind runtime.ErrorKind) *runtime.Error {
	t.Helper()
	treeErr := evalModuleError(t, New(), module)
	rerr, ok := runtime.AsError(treeErr)
	if !ok || rerr.Kind != kind {
		t.Fatalf("treewalker error mismatch: got=%v want kind %s", treeErr, kind)
	}
	vmErr := runBytecodeModuleError(t, New(), module)
	if got, ok := runtime.KindOf(vmErr); !ok || got != kind {
		t.Fatalf("bytecode error mismatch: got=%v want kind %s", vmErr, kind)
	}
	return rerr
}

func TestResolveTestExecModeDefaults(t *testing.T) {
	mode := resolveTestExecMode(t)
	interp := newTestInterpreter(t, mode, nil)
	if string(interp.ExecMode()) != string(mode) {
		t.Fatalf("exec mode mismatch: got=%s want=%s", interp.ExecMode(), mode)
	}
}

func TestParseExecMode(t *testing.T) {
	cases := map[string]ExecMode{
		"":           ExecModeTreewalker,
		"treewalker": ExecModeTreewalker,
		"AST":        ExecModeTreewalker,
		"bytecode":   ExecModeBytecode,
		" vm ":       ExecModeBytecode,
	}
	for raw, want := range cases {
		got, err := ParseExecMode(raw)
		if err != nil {
			t.Fatalf("ParseExecMode(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseExecMode(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseExecMode("jit"); err == nil {
		t.Fatalf("expected error for unknown exec mode")
	}
}

func TestExecModeSelectsStrategy(t *testing.T) {
	module := ast.Mod(
		ast.Fn("double", []string{"n"}, ast.Ret(ast.Bin("*", ast.ID("n"), ast.Int(2)))),
		ast.Call("print", ast.Call("double", ast.Int(21))),
		ast.Call("double", ast.Int(4)),
	)
	for _, mode := range allTestExecModes {
		var out bytes.Buffer
		interp := newTestInterpreter(t, mode, &out)
		got := mustEvalModule(t, interp, module)
		if !valuesEqual(got, runtime.Int(8)) {
			t.Fatalf("%s result mismatch: got=%#v want=8", mode, got)
		}
		if out.String() != "42\n" {
			t.Fatalf("%s stdout mismatch: got=%q want=%q", mode, out.String(), "42\n")
		}
	}
}
