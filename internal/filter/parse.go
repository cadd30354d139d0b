package filter

import (
	"fmt"
	"strings"
	"unicode"
)

// SyntaxError reports a malformed filter expression
type SyntaxError struct {
	Expression string
	Pos        int
	Msg        string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid filter expression %q at position %d: %s", e.Expression, e.Pos, e.Msg)
}

// Parse parses a caller filter expression such as
//
//	FullyQualifiedName~Unit&TestCategory!=Slow|Name=testLogin
//
// '&' binds tighter than '|', '!' negates a parenthesised group and a bare
// value is shorthand for FullyQualifiedName~value. A blank expression is Empty.
func Parse(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return Empty, nil
	}
	p := &exprParser{expr: expression, src: []rune(expression)}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return newConcrete(root), nil
}

type exprParser struct {
	expr string
	src  []rune
	pos  int
}

func (p *exprParser) eof() bool  { return p.pos >= len(p.src) }
func (p *exprParser) peek() rune { return p.src[p.pos] }

func (p *exprParser) peekAt(offset int) (rune, bool) {
	if p.pos+offset >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos+offset], true
}

func (p *exprParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func (p *exprParser) errorf(format string, args ...any) error {
	return &SyntaxError{Expression: p.expr, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *exprParser) parseOr() (node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []node{first}
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '|' {
			break
		}
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return orNode{children: children}, nil
}

func (p *exprParser) parseAnd() (node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	children := []node{first}
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '&' {
			break
		}
		p.pos++
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return andNode{children: children}, nil
}

func (p *exprParser) parseUnary() (node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("expected condition")
	}
	switch p.peek() {
	case '!':
		p.pos++
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{child: child}, nil
	case '(':
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return inner, nil
	}
	return p.parseCondition()
}

func (p *exprParser) parseCondition() (node, error) {
	property := strings.TrimSpace(p.readToken("=~!|&()"))
	if property == "" {
		return nil, p.errorf("expected property or value")
	}

	op, ok := p.readOperator()
	if !ok {
		return condition{property: PropertyFullyQualifiedName, op: opContains, value: property}, nil
	}

	value := strings.TrimSpace(p.readToken("|&()"))
	if value == "" {
		return nil, p.errorf("missing value for %s", property)
	}
	return condition{property: property, op: op, value: value}, nil
}

func (p *exprParser) readOperator() (operator, bool) {
	if p.eof() {
		return "", false
	}
	switch p.peek() {
	case '=':
		p.pos++
		return opEqual, true
	case '~':
		p.pos++
		return opContains, true
	case '!':
		next, ok := p.peekAt(1)
		if !ok {
			return "", false
		}
		switch next {
		case '=':
			p.pos += 2
			return opNotEqual, true
		case '~':
			p.pos += 2
			return opNotContains, true
		}
	}
	return "", false
}

// readToken reads up to the first unescaped rune in stop
func (p *exprParser) readToken(stop string) string {
	var b strings.Builder
	for !p.eof() {
		r := p.peek()
		if r == '\\' {
			if next, ok := p.peekAt(1); ok {
				b.WriteRune(next)
				p.pos += 2
				continue
			}
		}
		if strings.ContainsRune(stop, r) {
			break
		}
		b.WriteRune(r)
		p.pos++
	}
	return b.String()
}
