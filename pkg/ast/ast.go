package ast

import "math/big"

type NodeType string

const (
	NodeIdentifier             NodeType = "Identifier"
	NodeIntegerLiteral         NodeType = "IntegerLiteral"
	NodeDecimalLiteral         NodeType = "DecimalLiteral"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeNullLiteral            NodeType = "NullLiteral"
	NodeArrayLiteral           NodeType = "ArrayLiteral"
	NodeStructFieldInitializer NodeType = "StructFieldInitializer"
	NodeStructLiteral          NodeType = "StructLiteral"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeFactorialExpression    NodeType = "FactorialExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeFunctionCall           NodeType = "FunctionCall"
	NodeMemberAccessExpression NodeType = "MemberAccessExpression"
	NodeIndexExpression        NodeType = "IndexExpression"
	NodeLambdaExpression       NodeType = "LambdaExpression"
	NodeAssignmentExpression   NodeType = "AssignmentExpression"
	NodeVariableDeclaration    NodeType = "VariableDeclaration"
	NodeFunctionDefinition     NodeType = "FunctionDefinition"
	NodeReturnStatement        NodeType = "ReturnStatement"
	NodeIfStatement            NodeType = "IfStatement"
	NodeWhileLoop              NodeType = "WhileLoop"
	NodeForLoop                NodeType = "ForLoop"
	NodeLoopStatement          NodeType = "LoopStatement"
	NodeBreakStatement         NodeType = "BreakStatement"
	NodeContinueStatement      NodeType = "ContinueStatement"
	NodeIncludeStatement       NodeType = "IncludeStatement"
	NodeBlockStatement         NodeType = "BlockStatement"
	NodeModule                 NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// AssignmentTarget is an identifier, member access or index expression.
type AssignmentTarget interface {
	Expression
	assignmentTargetNode()
}

type assignmentTargetMarker struct{}

func (assignmentTargetMarker) assignmentTargetNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

// DecimalLiteral keeps the source text; it evaluates to an exact rational.
type DecimalLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Text string `json:"text"`
}

func NewDecimalLiteral(text string) *DecimalLiteral {
	return &DecimalLiteral{nodeImpl: newNodeImpl(NodeDecimalLiteral), Text: text}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type StructFieldInitializer struct {
	nodeImpl

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewStructFieldInitializer(name *Identifier, value Expression) *StructFieldInitializer {
	return &StructFieldInitializer{nodeImpl: newNodeImpl(NodeStructFieldInitializer), Name: name, Value: value}
}

// StructLiteral fields are evaluated in source order; a repeated name overwrites.
type StructLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Fields []*StructFieldInitializer `json:"fields"`
}

func NewStructLiteral(fields []*StructFieldInitializer) *StructLiteral {
	return &StructLiteral{nodeImpl: newNodeImpl(NodeStructLiteral), Fields: fields}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// FactorialExpression is postfix `!`.
type FactorialExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operand Expression `json:"operand"`
}

func NewFactorialExpression(operand Expression) *FactorialExpression {
	return &FactorialExpression{nodeImpl: newNodeImpl(NodeFactorialExpression), Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Object Expression  `json:"object"`
	Member *Identifier `json:"member"`
}

func NewMemberAccessExpression(object Expression, member *Identifier) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: newNodeImpl(NodeMemberAccessExpression), Object: object, Member: member}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

type LambdaExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params []*Identifier    `json:"params"`
	Body   *BlockStatement `json:"body"`
}

func NewLambdaExpression(params []*Identifier, body *BlockStatement) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

// AssignmentExpression rebinds an existing variable or writes a member/index
// slot. It evaluates to the assigned value.
type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target AssignmentTarget `json:"target"`
	Value  Expression       `json:"value"`
}

func NewAssignmentExpression(target AssignmentTarget, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Target: target, Value: value}
}

// Statements

// VariableDeclaration is `var name = value` (Mutable) or `let name = value`.
type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Mutable bool        `json:"mutable"`
	Name    *Identifier `json:"name"`
	Value   Expression  `json:"value,omitempty"`
}

func NewVariableDeclaration(mutable bool, name *Identifier, value Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Mutable: mutable, Name: name, Value: value}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID         *Identifier     `json:"id"`
	Params     []*Identifier   `json:"params"`
	Body       *BlockStatement `json:"body"`
	Decorators []string        `json:"decorators,omitempty"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body *BlockStatement, decorators []string) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body, Decorators: decorators}
}

// HasDecorator reports whether the definition carries @name.
func (f *FunctionDefinition) HasDecorator(name string) bool {
	for _, d := range f.Decorators {
		if d == name {
			return true
		}
	}
	return false
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

// IfStatement's Alternate is nil, a *BlockStatement or another *IfStatement.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition  Expression      `json:"condition"`
	Consequent *BlockStatement `json:"consequent"`
	Alternate  Statement       `json:"alternate,omitempty"`
}

func NewIfStatement(condition Expression, consequent *BlockStatement, alternate Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Consequent: consequent, Alternate: alternate}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression      `json:"condition"`
	Body      *BlockStatement `json:"body"`
}

func NewWhileLoop(condition Expression, body *BlockStatement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// ForLoop is the C-style `for (init; condition; update) body`. Any of the
// three clauses may be nil.
type ForLoop struct {
	nodeImpl
	statementMarker

	Init      Statement       `json:"init,omitempty"`
	Condition Expression      `json:"condition,omitempty"`
	Update    Expression      `json:"update,omitempty"`
	Body      *BlockStatement `json:"body"`
}

func NewForLoop(init Statement, condition Expression, update Expression, body *BlockStatement) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Init: init, Condition: condition, Update: update, Body: body}
}

type LoopStatement struct {
	nodeImpl
	statementMarker

	Body *BlockStatement `json:"body"`
}

func NewLoopStatement(body *BlockStatement) *LoopStatement {
	return &LoopStatement{nodeImpl: newNodeImpl(NodeLoopStatement), Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

// IncludeStatement binds a virtual module such as "rumina:cas".
type IncludeStatement struct {
	nodeImpl
	statementMarker

	Path string `json:"path"`
}

func NewIncludeStatement(path string) *IncludeStatement {
	return &IncludeStatement{nodeImpl: newNodeImpl(NodeIncludeStatement), Path: path}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

type Module struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewModule(body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}
