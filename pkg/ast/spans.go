package ast

import "fmt"

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}

// WithSpan sets a span on node and returns it, for building located fixtures.
func WithSpan[T Node](node T, startLine, startColumn, endLine, endColumn int) T {
	SetSpan(node, Span{
		Start: Position{Line: startLine, Column: startColumn},
		End:   Position{Line: endLine, Column: endColumn},
	})
	return node
}

func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

func decodeSpan(raw any) (Span, bool) {
	node, ok := raw.(map[string]any)
	if !ok {
		return Span{}, false
	}
	start, _ := node["start"].(map[string]any)
	end, _ := node["end"].(map[string]any)
	span := Span{Start: decodePosition(start), End: decodePosition(end)}
	return span, !span.IsZero()
}

func decodePosition(node map[string]any) Position {
	if node == nil {
		return Position{}
	}
	return Position{Line: decodeInt(node["line"]), Column: decodeInt(node["column"])}
}
