package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/config"
)

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()
	return code, string(outBytes), string(errBytes)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const printProgram = `
type: Module
body:
  - type: VariableDeclaration
    kind: var
    name: greeting
    value: {type: StringLiteral, value: hello}
  - type: FunctionCall
    callee: {type: Identifier, name: print}
    arguments:
      - {type: Identifier, name: greeting}
      - type: BinaryExpression
        operator: "/"
        left: {type: IntegerLiteral, value: 1}
        right: {type: IntegerLiteral, value: 4}
`

const usesGreetingProgram = `
type: Module
body:
  - type: FunctionCall
    callee: {type: Identifier, name: print}
    arguments:
      - type: BinaryExpression
        operator: "+"
        left: {type: Identifier, name: greeting}
        right: {type: StringLiteral, value: " again"}
`

const exitProgram = `
type: Module
body:
  - type: FunctionCall
    callee: {type: Identifier, name: exit}
    arguments: [{type: IntegerLiteral, value: 3}]
`

const failingProgram = `
type: Module
body:
  - type: FunctionDefinition
    id: explode
    params: []
    body:
      - type: ReturnStatement
        argument:
          type: BinaryExpression
          operator: "%"
          left: {type: IntegerLiteral, value: 1}
          right: {type: IntegerLiteral, value: 0}
  - type: FunctionCall
    callee: {type: Identifier, name: explode}
`

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("unexpected version output %q", stdout)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	flags, rest, err := parseGlobalFlags([]string{"--exec-mode", "vm", "run", "--log-level=debug", "a.yml", "--config=x.yml"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if flags.execMode != "bytecode" || flags.logLevel != "debug" || flags.configPath != "x.yml" {
		t.Fatalf("unexpected flags %+v", flags)
	}
	if strings.Join(rest, " ") != "run a.yml" {
		t.Fatalf("unexpected remaining args %v", rest)
	}

	if _, _, err := parseGlobalFlags([]string{"--exec-mode=jit", "run"}); err == nil {
		t.Fatalf("expected unknown exec mode to fail")
	}
	if _, _, err := parseGlobalFlags([]string{"run", "--config"}); err == nil {
		t.Fatalf("expected missing flag value to fail")
	}
	_, rest, err = parseGlobalFlags([]string{"run", "--", "--exec-mode"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if strings.Join(rest, " ") != "run --exec-mode" {
		t.Fatalf("arguments after -- must pass through, got %v", rest)
	}
}

func TestRunCommandPrintsInBothModes(t *testing.T) {
	dir := t.TempDir()
	program := filepath.Join(dir, "hello.yml")
	writeFile(t, program, printProgram)
	for _, mode := range []string{"treewalker", "bytecode"} {
		code, stdout, stderr := captureCLI(t, []string{"--exec-mode=" + mode, "run", program})
		if code != 0 {
			t.Fatalf("%s: expected exit code 0, got %d (stderr=%q)", mode, code, stderr)
		}
		if stdout != "hello 1/4\n" {
			t.Fatalf("%s: unexpected stdout %q", mode, stdout)
		}
	}
}

func TestRunCommandSharesGlobalsAcrossPrograms(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yml")
	second := filepath.Join(dir, "second.yml")
	writeFile(t, first, printProgram)
	writeFile(t, second, usesGreetingProgram)
	code, stdout, stderr := captureCLI(t, []string{first, second})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "hello 1/4\nhello again\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunCommandExitCode(t *testing.T) {
	program := filepath.Join(t.TempDir(), "exit.yml")
	writeFile(t, program, exitProgram)
	code, _, stderr := captureCLI(t, []string{"run", program})
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d (stderr=%q)", code, stderr)
	}
}

func TestRunCommandReportsRuntimeErrors(t *testing.T) {
	program := filepath.Join(t.TempDir(), "fail.yml")
	writeFile(t, program, failingProgram)
	code, _, stderr := captureCLI(t, []string{"--exec-mode=bytecode", "run", program})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(stderr, "ArithmeticError: ") {
		t.Fatalf("expected error kind on stderr, got %q", stderr)
	}
	if !strings.Contains(stderr, "at explode") || !strings.Contains(stderr, "at <module>") {
		t.Fatalf("expected call trace on stderr, got %q", stderr)
	}
}

func TestRunCommandRequiresProgram(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 || !strings.Contains(stderr, "requires a program file") {
		t.Fatalf("expected usage error, got code=%d stderr=%q", code, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"run", filepath.Join(t.TempDir(), "missing.yml")})
	if code != 1 || !strings.Contains(stderr, "failed to load program") {
		t.Fatalf("expected load error, got code=%d stderr=%q", code, stderr)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.FileName)
	writeFile(t, cfgPath, "exec_mode: bytecode\nmax_call_depth: 50\n")
	flags := globalFlags{configPath: cfgPath}
	cfg, err := resolveConfig(flags)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.ExecMode != "bytecode" || cfg.MaxCallDepth != 50 {
		t.Fatalf("config not applied: %+v", cfg)
	}
	flags.execMode = "treewalker"
	cfg, err = resolveConfig(flags)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.ExecMode != "treewalker" {
		t.Fatalf("flag must override config, got %s", cfg.ExecMode)
	}

	code, _, stderr := captureCLI(t, []string{"--config", filepath.Join(dir, "nope.yml"), "version"})
	if code != 0 {
		t.Fatalf("version must not need a config, got code=%d stderr=%q", code, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"--config", filepath.Join(dir, "nope.yml"), "run", "x.yml"})
	if code != 1 || !strings.Contains(stderr, "not found") {
		t.Fatalf("expected missing config error, got code=%d stderr=%q", code, stderr)
	}
}

func TestParityCommandOnFixtures(t *testing.T) {
	root := filepath.Join("..", "..", "pkg", "interpreter", "testdata", "exec")
	code, stdout, stderr := captureCLI(t, []string{"parity", root})
	if code != 0 {
		t.Fatalf("expected parity to pass, got %d (stdout=%q stderr=%q)", code, stdout, stderr)
	}
	if !strings.Contains(stdout, " 0 failed") {
		t.Fatalf("unexpected parity summary %q", stdout)
	}
}

func TestParityCommandReportsExpectationMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wrong")
	writeFile(t, filepath.Join(dir, "program.yml"), printProgram)
	writeFile(t, filepath.Join(dir, "manifest.yml"), "expect:\n  stdout: [\"bye\"]\n")
	code, stdout, _ := captureCLI(t, []string{"parity", filepath.Dir(dir)})
	if code != 1 {
		t.Fatalf("expected parity failure, got %d (stdout=%q)", code, stdout)
	}
	if !strings.Contains(stdout, "FAIL  wrong") || !strings.Contains(stdout, "1 failed") {
		t.Fatalf("unexpected parity output %q", stdout)
	}
}

func TestCASSession(t *testing.T) {
	session := newCASSession(config.Default(), cas.NewRegistry())
	cases := []struct {
		line string
		want string
	}{
		{"x + 0", "x"},
		{":d x^2", "2*x"},
		{":d sin(t), t", "cos(t)"},
		{":i 1/x, x", "ln(abs(x))"},
		{":solve 2x + 4 = 0, x", "x = -2"},
		{":eval x*y @ x=2, y=3", "6"},
		{":def x @ x=0..2", "2"},
		{":store f x^2 + 1", "f := x^2 + 1"},
		{":load f", "x^2 + 1"},
		{":d $f", "2*x"},
		{":names", "f"},
	}
	for _, tc := range cases {
		got, err := session.exec(tc.line)
		if err != nil {
			t.Fatalf("%q: %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got=%q want=%q", tc.line, got, tc.want)
		}
	}

	if _, err := session.exec(":quit"); err != errQuit {
		t.Fatalf("expected quit, got %v", err)
	}
	for _, line := range []string{"2 +", ":load missing", ":eval x @ x", ":def x", ":bogus"} {
		if _, err := session.exec(line); err == nil {
			t.Fatalf("%q: expected an error", line)
		}
	}
}
