package cas

import (
	"strconv"
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// knownFunctions are the functions the engine differentiates, integrates and
// evaluates. log is read as the natural logarithm.
var knownFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "exp": true,
	"ln": true, "sqrt": true, "abs": true,
}

func tokenize(src string) ([]token, error) {
	runes := []rune(src)
	var toks []token
	for pos := 0; pos < len(runes); {
		r := runes[pos]
		switch {
		case unicode.IsSpace(r):
			pos++
		case unicode.IsDigit(r) || (r == '.' && pos+1 < len(runes) && unicode.IsDigit(runes[pos+1])):
			start := pos
			for pos < len(runes) && (unicode.IsDigit(runes[pos]) || runes[pos] == '.') {
				pos++
			}
			if pos < len(runes) && (runes[pos] == 'e' || runes[pos] == 'E') {
				next := pos + 1
				if next < len(runes) && (runes[next] == '+' || runes[next] == '-') {
					next++
				}
				if next < len(runes) && unicode.IsDigit(runes[next]) {
					pos = next
					for pos < len(runes) && unicode.IsDigit(runes[pos]) {
						pos++
					}
				}
			}
			text := string(runes[start:pos])
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrParse, "invalid number %q at %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: v, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := pos
			for pos < len(runes) && (unicode.IsLetter(runes[pos]) || unicode.IsDigit(runes[pos]) || runes[pos] == '_') {
				pos++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:pos]), pos: start})
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: pos})
			pos++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: pos})
			pos++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: pos})
			pos++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: pos})
			pos++
		default:
			return nil, errors.Wrapf(ErrParse, "unexpected character %q at %d", r, pos)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(runes)}), nil
}

type parser struct {
	toks []token
	pos  int
}

// Parse reads an infix expression. Precedence from loosest: + and -, then
// * and / (including implicit multiplication such as 2x), unary minus, and
// right associative ^.
func Parse(src string) (*Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, errors.Wrap(ErrParse, "empty expression")
	}
	node, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, errors.Wrapf(ErrParse, "unexpected %q at %d", tok.text, tok.pos)
	}
	return node, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(src string) *Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(text string) bool {
	tok := p.peek()
	return tok.kind == tokOp && tok.text == text
}

func (p *parser) parseSum() (*Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = Add(left, right)
		} else {
			left = Sub(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseProduct() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*") || p.isOp("/"):
			op := p.next().text
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if op == "*" {
				left = Mul(left, right)
			} else {
				left = Div(left, right)
			}
		case p.startsImplicitFactor():
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = Mul(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) startsImplicitFactor() bool {
	switch p.peek().kind {
	case tokNumber, tokIdent, tokLParen:
		return true
	}
	return false
}

func (p *parser) parseUnary() (*Node, error) {
	if p.isOp("-") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand.Kind == NumberNode {
			return Num(-operand.Value), nil
		}
		return Neg(operand), nil
	}
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (*Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (*Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return Num(tok.num), nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok)
		}
		return Var(tok.text), nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, errors.Wrapf(ErrParse, "expected ')' at %d", p.peek().pos)
		}
		p.next()
		return inner, nil
	case tokEOF:
		return nil, errors.Wrap(ErrParse, "unexpected end of expression")
	}
	return nil, errors.Wrapf(ErrParse, "unexpected %q at %d", tok.text, tok.pos)
}

func (p *parser) parseCall(name token) (*Node, error) {
	p.next() // (
	var args []*Node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.peek().kind != tokRParen {
		return nil, errors.Wrapf(ErrParse, "expected ')' to close %s( at %d", name.text, p.peek().pos)
	}
	p.next()
	fn := name.text
	if fn == "log" {
		fn = "ln"
	}
	if knownFunctions[fn] && len(args) != 1 {
		return nil, errors.Wrapf(ErrParse, "%s expects 1 argument, got %d", fn, len(args))
	}
	return Func(fn, args...), nil
}
