package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxDecimalDigits is the longest fractional part a decimal literal may carry.
const MaxDecimalDigits = 18

// DecodeError reports a malformed serialized program.
type DecodeError struct {
	Type    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return fmt.Sprintf("decode %s: %s", e.Type, e.Message)
}

// DecodeModuleJSON decodes a program serialized as JSON.
func DecodeModuleJSON(data []byte) (*Module, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: parse json: %w", err)
	}
	return decodeRootModule(raw)
}

// DecodeModuleYAML decodes a program serialized as YAML.
func DecodeModuleYAML(data []byte) (*Module, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: parse yaml: %w", err)
	}
	return decodeRootModule(raw)
}

// DecodeModuleFile picks the decoder from the file extension.
func DecodeModuleFile(path string, data []byte) (*Module, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return DecodeModuleYAML(data)
	default:
		return DecodeModuleJSON(data)
	}
}

func decodeRootModule(raw map[string]any) (*Module, error) {
	if raw == nil {
		return nil, &DecodeError{Message: "empty program"}
	}
	node, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	mod, ok := node.(*Module)
	if !ok {
		return nil, &DecodeError{Type: string(node.NodeType()), Message: "top-level node must be a Module"}
	}
	return mod, nil
}

type nodeCategoryDecoder func(map[string]any, string) (Node, bool, error)

var nodeDecoders []nodeCategoryDecoder

func init() {
	nodeDecoders = []nodeCategoryDecoder{
		decodeModuleNodes,
		decodeLiteralNodes,
		decodeExpressionNodes,
		decodeStatementNodes,
	}
}

// DecodeNode decodes one node from its generic map form.
func DecodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	for _, decoder := range nodeDecoders {
		decoded, handled, err := decoder(node, typ)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		if handled {
			if span, ok := decodeSpan(node["span"]); ok {
				SetSpan(decoded, span)
			}
			return decoded, nil
		}
	}
	return nil, &DecodeError{Type: typ, Message: "unknown node type"}
}

func decodeChild(raw any) (Node, error) {
	if raw == nil {
		return nil, nil
	}
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid node entry %T", raw)
	}
	return DecodeNode(child)
}

func decodeExpression(raw any) (Expression, error) {
	node, err := decodeChild(raw)
	if err != nil || node == nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("expected expression, got %s", node.NodeType())
	}
	return expr, nil
}

func decodeRequiredExpression(node map[string]any, key string) (Expression, error) {
	expr, err := decodeExpression(node[key])
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, fmt.Errorf("missing %s", key)
	}
	return expr, nil
}

func decodeStatement(raw any) (Statement, error) {
	node, err := decodeChild(raw)
	if err != nil || node == nil {
		return nil, err
	}
	stmt, ok := node.(Statement)
	if !ok {
		return nil, fmt.Errorf("expected statement, got %s", node.NodeType())
	}
	return stmt, nil
}

func decodeStatements(raw any) ([]Statement, error) {
	list, _ := raw.([]any)
	stmts := make([]Statement, 0, len(list))
	for _, entry := range list {
		stmt, err := decodeStatement(entry)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

func decodeExpressions(raw any) ([]Expression, error) {
	list, _ := raw.([]any)
	exprs := make([]Expression, 0, len(list))
	for _, entry := range list {
		expr, err := decodeExpression(entry)
		if err != nil {
			return nil, err
		}
		if expr == nil {
			return nil, fmt.Errorf("null expression in list")
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// decodeBlock accepts either a BlockStatement node or a bare statement list.
func decodeBlock(raw any) (*BlockStatement, error) {
	switch val := raw.(type) {
	case nil:
		return NewBlockStatement(nil), nil
	case []any:
		stmts, err := decodeStatements(val)
		if err != nil {
			return nil, err
		}
		return NewBlockStatement(stmts), nil
	}
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*BlockStatement)
	if !ok {
		return nil, fmt.Errorf("expected block, got %s", node.NodeType())
	}
	return block, nil
}

// decodeIdentifier accepts an Identifier node or a bare string.
func decodeIdentifier(raw any) (*Identifier, error) {
	if name, ok := raw.(string); ok {
		return NewIdentifier(name), nil
	}
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	id, ok := node.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("expected identifier")
	}
	return id, nil
}

func decodeIdentifiers(raw any) ([]*Identifier, error) {
	list, _ := raw.([]any)
	ids := make([]*Identifier, 0, len(list))
	for _, entry := range list {
		id, err := decodeIdentifier(entry)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("missing integer value")
	case json.Number:
		if bi, ok := new(big.Int).SetString(v.String(), 10); ok {
			return bi, nil
		}
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v == float64(int64(v)) {
			return big.NewInt(int64(v)), nil
		}
	case string:
		if bi, ok := new(big.Int).SetString(v, 10); ok {
			return bi, nil
		}
	}
	return nil, fmt.Errorf("invalid integer value %v", value)
}

func decimalText(node map[string]any) (string, error) {
	raw, ok := node["text"]
	if !ok {
		raw = node["value"]
	}
	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		text = strconv.Itoa(v)
	default:
		return "", fmt.Errorf("invalid decimal value %v", raw)
	}
	if _, frac, found := strings.Cut(text, "."); found && len(frac) > MaxDecimalDigits {
		return "", fmt.Errorf("decimal literal %q exceeds %d fractional digits", text, MaxDecimalDigits)
	}
	if _, ok := new(big.Rat).SetString(text); !ok {
		return "", fmt.Errorf("invalid decimal literal %q", text)
	}
	return text, nil
}

func decodeInt(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}
