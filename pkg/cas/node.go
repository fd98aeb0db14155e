// Package cas implements a small symbolic algebra engine over float64
// expression trees: parsing, simplification, differentiation, evaluation,
// linear solving and integration.
package cas

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	NumberNode Kind = iota
	VariableNode
	AddNode
	SubNode
	MulNode
	DivNode
	PowNode
	NegNode
	FuncNode
)

func (k Kind) String() string {
	switch k {
	case NumberNode:
		return "number"
	case VariableNode:
		return "variable"
	case AddNode:
		return "add"
	case SubNode:
		return "sub"
	case MulNode:
		return "mul"
	case DivNode:
		return "div"
	case PowNode:
		return "pow"
	case NegNode:
		return "neg"
	case FuncNode:
		return "func"
	}
	return "unknown"
}

// Node is an immutable expression tree. Binary nodes keep their operands in
// Args[0] and Args[1]; NegNode in Args[0]; FuncNode keeps its call arguments.
type Node struct {
	Kind  Kind
	Value float64
	Name  string
	Args  []*Node
}

// integralFunc names the unevaluated antiderivative integral(f, x).
const integralFunc = "integral"

func Num(v float64) *Node       { return &Node{Kind: NumberNode, Value: v} }
func Var(name string) *Node     { return &Node{Kind: VariableNode, Name: name} }
func Add(a, b *Node) *Node      { return &Node{Kind: AddNode, Args: []*Node{a, b}} }
func Sub(a, b *Node) *Node      { return &Node{Kind: SubNode, Args: []*Node{a, b}} }
func Mul(a, b *Node) *Node      { return &Node{Kind: MulNode, Args: []*Node{a, b}} }
func Div(a, b *Node) *Node      { return &Node{Kind: DivNode, Args: []*Node{a, b}} }
func Pow(a, b *Node) *Node      { return &Node{Kind: PowNode, Args: []*Node{a, b}} }
func Neg(a *Node) *Node         { return &Node{Kind: NegNode, Args: []*Node{a}} }
func Func(name string, args ...*Node) *Node {
	return &Node{Kind: FuncNode, Name: name, Args: args}
}

func (n *Node) left() *Node  { return n.Args[0] }
func (n *Node) right() *Node { return n.Args[1] }

// IsNumber reports whether n is the literal v.
func (n *Node) IsNumber(v float64) bool {
	return n != nil && n.Kind == NumberNode && n.Value == v
}

// Contains reports whether variable name occurs anywhere in n.
func (n *Node) Contains(name string) bool {
	if n == nil {
		return false
	}
	if n.Kind == VariableNode {
		return n.Name == name
	}
	for _, arg := range n.Args {
		if arg.Contains(name) {
			return true
		}
	}
	return false
}

// Equal compares two trees structurally.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	if a.Kind == NumberNode && a.Value != b.Value {
		return false
	}
	for idx := range a.Args {
		if !Equal(a.Args[idx], b.Args[idx]) {
			return false
		}
	}
	return true
}

// Variables lists the free variables of n in first-occurrence order.
func (n *Node) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(*Node)
	walk = func(node *Node) {
		if node == nil {
			return
		}
		if node.Kind == VariableNode && !seen[node.Name] {
			seen[node.Name] = true
			out = append(out, node.Name)
		}
		for _, arg := range node.Args {
			walk(arg)
		}
	}
	walk(n)
	return out
}

//-----------------------------------------------------------------------------
// Printing
//-----------------------------------------------------------------------------

const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

func precedence(n *Node) int {
	switch n.Kind {
	case AddNode, SubNode:
		return precSum
	case MulNode, DivNode:
		return precProduct
	case NegNode:
		return precUnary
	case PowNode:
		return precPower
	case NumberNode:
		if n.Value < 0 || math.Signbit(n.Value) {
			return precUnary
		}
	}
	return precAtom
}

// String renders n in a form Parse accepts and maps back to an equal tree.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Kind {
	case NumberNode:
		sb.WriteString(formatNumber(n.Value))
	case VariableNode:
		sb.WriteString(n.Name)
	case AddNode:
		writeOperand(sb, n.left(), false)
		sb.WriteString(" + ")
		writeOperand(sb, n.right(), precedence(n.right()) < precSum)
	case SubNode:
		writeOperand(sb, n.left(), false)
		sb.WriteString(" - ")
		writeOperand(sb, n.right(), precedence(n.right()) <= precSum)
	case MulNode, DivNode:
		op := "*"
		if n.Kind == DivNode {
			op = "/"
		}
		writeOperand(sb, n.left(), precedence(n.left()) < precProduct)
		sb.WriteString(op)
		writeOperand(sb, n.right(), precedence(n.right()) <= precProduct || precedence(n.right()) == precUnary)
	case PowNode:
		writeOperand(sb, n.left(), precedence(n.left()) <= precPower)
		sb.WriteString("^")
		writeOperand(sb, n.right(), precedence(n.right()) < precPower)
	case NegNode:
		sb.WriteString("-")
		p := precedence(n.left())
		writeOperand(sb, n.left(), p < precProduct || p == precUnary)
	case FuncNode:
		sb.WriteString(n.Name)
		sb.WriteString("(")
		for idx, arg := range n.Args {
			if idx > 0 {
				sb.WriteString(", ")
			}
			arg.write(sb)
		}
		sb.WriteString(")")
	}
}

func writeOperand(sb *strings.Builder, n *Node, parens bool) {
	if parens {
		sb.WriteString("(")
	}
	n.write(sb)
	if parens {
		sb.WriteString(")")
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
