package ast

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleJSON = `{
  "type": "Module",
  "body": [
    {"type": "VariableDeclaration", "kind": "let", "name": "x",
     "value": {"type": "DecimalLiteral", "value": 0.1},
     "span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 12}}},
    {"type": "FunctionDefinition", "id": "sq", "params": ["n"], "decorators": ["memoize"],
     "body": [{"type": "ReturnStatement", "argument":
       {"type": "BinaryExpression", "operator": "*",
        "left": {"type": "Identifier", "name": "n"},
        "right": {"type": "Identifier", "name": "n"}}}]},
    {"type": "FunctionCall", "callee": {"type": "Identifier", "name": "sq"},
     "arguments": [{"type": "IntegerLiteral", "value": 123456789012345678901234567890}]}
  ]
}`

const sampleYAML = `
type: Module
body:
  - type: VariableDeclaration
    kind: let
    name: x
    value: {type: DecimalLiteral, text: "0.1"}
    span: {start: {line: 1, column: 1}, end: {line: 1, column: 12}}
  - type: FunctionDefinition
    id: sq
    params: [n]
    decorators: [memoize]
    body:
      - type: ReturnStatement
        argument:
          type: BinaryExpression
          operator: "*"
          left: {type: Identifier, name: n}
          right: {type: Identifier, name: n}
  - type: FunctionCall
    callee: {type: Identifier, name: sq}
    arguments:
      - {type: IntegerLiteral, value: "123456789012345678901234567890"}
`

func TestDecodeModuleJSON(t *testing.T) {
	mod, err := DecodeModuleJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	checkSampleModule(t, mod)
}

func TestDecodeModuleYAMLMatchesJSON(t *testing.T) {
	fromYAML, err := DecodeModuleYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	checkSampleModule(t, fromYAML)
	fromJSON, err := DecodeModuleJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	exportAll := cmp.Exporter(func(reflect.Type) bool { return true })
	if diff := cmp.Diff(fromJSON, fromYAML, exportAll); diff != "" {
		t.Fatalf("yaml and json decode differ (-json +yaml):\n%s", diff)
	}
}

func checkSampleModule(t *testing.T, mod *Module) {
	t.Helper()
	if len(mod.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(mod.Body))
	}
	decl, ok := mod.Body[0].(*VariableDeclaration)
	if !ok || decl.Mutable || decl.Name.Name != "x" {
		t.Fatalf("unexpected declaration %#v", mod.Body[0])
	}
	if lit, ok := decl.Value.(*DecimalLiteral); !ok || lit.Text != "0.1" {
		t.Fatalf("unexpected decimal literal %#v", decl.Value)
	}
	if got := decl.Span(); got.Start.Line != 1 || got.End.Column != 12 {
		t.Fatalf("span not decoded: %+v", got)
	}
	fn, ok := mod.Body[1].(*FunctionDefinition)
	if !ok || !fn.HasDecorator("memoize") || len(fn.Params) != 1 {
		t.Fatalf("unexpected function %#v", mod.Body[1])
	}
	call := mod.Body[2].(*FunctionCall)
	lit := call.Arguments[0].(*IntegerLiteral)
	if lit.Value.String() != "123456789012345678901234567890" {
		t.Fatalf("big integer literal lost precision: %s", lit.Value)
	}
}

func TestDecodeRejectsLongDecimal(t *testing.T) {
	src := `{"type":"Module","body":[{"type":"DecimalLiteral","text":"0.1234567890123456789"}]}`
	_, err := DecodeModuleJSON([]byte(src))
	if err == nil || !strings.Contains(err.Error(), "fractional digits") {
		t.Fatalf("expected fractional digit error, got %v", err)
	}
}

func TestDecodeUnknownNode(t *testing.T) {
	_, err := DecodeModuleJSON([]byte(`{"type":"Module","body":[{"type":"Mystery"}]}`))
	if err == nil || !strings.Contains(err.Error(), "unknown node type") {
		t.Fatalf("expected unknown node error, got %v", err)
	}
}

func TestDecodeModuleFileByExtension(t *testing.T) {
	if _, err := DecodeModuleFile("prog.yaml", []byte(sampleYAML)); err != nil {
		t.Fatalf("yaml by extension: %v", err)
	}
	if _, err := DecodeModuleFile("prog.json", []byte(sampleJSON)); err != nil {
		t.Fatalf("json by extension: %v", err)
	}
}

func TestValidateLoopControl(t *testing.T) {
	if err := Validate(Mod(Brk())); err == nil {
		t.Fatalf("expected break outside loop to fail")
	}
	inLoop := Mod(While(Bool(true), If(Bool(true), Block(Brk()), Block(Cont()))))
	if err := Validate(inLoop); err != nil {
		t.Fatalf("break inside loop: %v", err)
	}
	lambdaEscape := Mod(Loop(Call("f", Lam(nil, Brk()))))
	if err := Validate(lambdaEscape); err == nil {
		t.Fatalf("expected break inside lambda body to fail")
	}
	if err := Validate(Mod(Fn("f", nil, Cont()))); err == nil {
		t.Fatalf("expected continue inside function body to fail")
	}
}

func TestValidateRejectsMalformedNodes(t *testing.T) {
	cases := []*Module{
		Mod(Bin("**", Int(1), Int(2))),
		Mod(ID("")),
		Mod(Un("~", Int(1))),
		Mod(Var("", Int(1))),
		Mod(Decorated(Fn("f", nil), "cached")),
	}
	for idx, mod := range cases {
		if err := Validate(mod); err == nil {
			t.Fatalf("case %d: expected validation error", idx)
		}
	}
}

func TestValidationErrorIncludesSpan(t *testing.T) {
	brk := WithSpan(Brk(), 3, 5, 3, 10)
	err := Validate(Mod(brk))
	if err == nil || !strings.Contains(err.Error(), "3:5") {
		t.Fatalf("expected span in error, got %v", err)
	}
}
