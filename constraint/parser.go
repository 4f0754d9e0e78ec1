package constraint

import "fmt"

// ParseError is a syntax error produced while parsing a predicate or code
// fragment. AsItemError translates it into a *qmlerr.ItemError carrying the
// item id.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg) }

// UnsupportedError marks a construct the grammar deliberately excludes
// (non-linear arithmetic, loops) — distinct from ParseError so callers can
// map it to qmlerr.UnsupportedExpression instead of qmlerr.ParseError.
type UnsupportedError struct {
	Offset int
	Msg    string
}

func (e *UnsupportedError) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg) }

// UnknownFunctionError marks a call to an identifier the grammar has no
// builtin for (§4.1 "no user-defined functions").
type UnknownFunctionError struct {
	Offset int
	Name   string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("offset %d: unknown function %q", e.Offset, e.Name)
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}
func (p *parser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if !p.at(k) {
		return token{}, &ParseError{Offset: p.cur().offset, Msg: fmt.Sprintf("expected %s", what)}
	}
	return p.advance(), nil
}

// ParseExpr parses a single expression (predicate or postcondition text).
func ParseExpr(src string) (Expr, error) {
	lx := newLexer(trimNewlines(src))
	toks, err := lx.lex()
	if err != nil {
		return nil, &ParseError{Offset: 0, Msg: err.Error()}
	}
	// predicates are single-line: drop newlines produced by embedded comments.
	toks = stripNewlines(toks)
	p := &parser{toks: toks}
	e, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.at(tokEOF) {
		return nil, &ParseError{Offset: p.cur().offset, Msg: "unexpected trailing input"}
	}
	return e, nil
}

func stripNewlines(toks []token) []token {
	out := toks[:0:0]
	for _, t := range toks {
		if t.kind == tokNewline {
			continue
		}
		out = append(out, t)
	}
	return out
}

// parseTernary handles the supplemented `a if cond else b` form (lowest
// precedence, right-associative like Python's conditional expression).
func (p *parser) parseTernary() (Expr, error) {
	thenExpr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.at(tokIf) {
		return thenExpr, nil
	}
	offset := p.cur().offset
	p.advance()
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokElse, "'else'"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &CondExpr{Cond: cond, Then: thenExpr, Else: elseExpr, Offset: offset}, nil
}

func (p *parser) parseOr() (Expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(tokOr) {
		offset := p.cur().offset
		p.advance()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = &BoolExpr{Op: "or", L: l, R: r, Offset: offset}
	}
	return l, nil
}

func (p *parser) parseAnd() (Expr, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(tokAnd) {
		offset := p.cur().offset
		p.advance()
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l = &BoolExpr{Op: "and", L: l, R: r, Offset: offset}
	}
	return l, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.at(tokNot) {
		offset := p.cur().offset
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: "not", X: x, Offset: offset}, nil
	}
	return p.parseCompare()
}

var compareOps = map[tokenKind]string{
	tokEq: "==", tokNe: "!=", tokLt: "<", tokLe: "<=", tokGt: ">", tokGe: ">=",
}

func (p *parser) parseCompare() (Expr, error) {
	l, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.cur().kind]; ok {
		offset := p.cur().offset
		p.advance()
		r, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Op: op, L: l, R: r, Offset: offset}, nil
	}
	if p.at(tokIs) {
		offset := p.cur().offset
		p.advance()
		negate := false
		if p.at(tokNot) {
			negate = true
			p.advance()
		}
		if _, err := p.expect(tokNone, "'None'"); err != nil {
			return nil, err
		}
		out, ok := l.(*Outcome)
		if !ok {
			return nil, &ParseError{Offset: offset, Msg: "'is None' is only supported on an item outcome (qid.outcome)"}
		}
		return &IsNone{QID: out.QID, Negate: negate, Offset: offset}, nil
	}
	return l, nil
}

func (p *parser) parseAdd() (Expr, error) {
	l, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.at(tokPlus) || p.at(tokMinus) {
		op := "+"
		if p.at(tokMinus) {
			op = "-"
		}
		offset := p.cur().offset
		p.advance()
		r, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		l = &BinaryExpr{Op: op, L: l, R: r, Offset: offset}
	}
	return l, nil
}

func (p *parser) parseMul() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(tokStar) || p.at(tokSlashSlash) || p.at(tokPercent) {
		var op string
		switch p.cur().kind {
		case tokStar:
			op = "*"
		case tokSlashSlash:
			op = "//"
		case tokPercent:
			op = "%"
		}
		offset := p.cur().offset
		p.advance()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			if !isLiteral(l) && !isLiteral(r) {
				return nil, &UnsupportedError{Offset: offset, Msg: "multiplication requires at least one literal operand (non-linear arithmetic is unsupported)"}
			}
		}
		l = &BinaryExpr{Op: op, L: l, R: r, Offset: offset}
	}
	return l, nil
}

func isLiteral(e Expr) bool {
	_, ok := e.(*IntLit)
	return ok
}

func (p *parser) parseUnary() (Expr, error) {
	if p.at(tokMinus) || p.at(tokPlus) {
		op := "+"
		if p.at(tokMinus) {
			op = "-"
		}
		offset := p.cur().offset
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, X: x, Offset: offset}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokInt:
		p.advance()
		return &IntLit{Value: t.ival, Offset: t.offset}, nil
	case tokTrue:
		p.advance()
		return &BoolLit{Value: true, Offset: t.offset}, nil
	case tokFalse:
		p.advance()
		return &BoolLit{Value: false, Offset: t.offset}, nil
	case tokNone:
		p.advance()
		return &NoneLit{Offset: t.offset}, nil
	case tokLParen:
		p.advance()
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokIdent:
		p.advance()
		if p.at(tokLParen) {
			return nil, &UnknownFunctionError{Offset: t.offset, Name: t.text}
		}
		if p.at(tokDot) {
			p.advance()
			attr, err := p.expect(tokIdent, "attribute name")
			if err != nil {
				return nil, err
			}
			if attr.text != "outcome" {
				return nil, &ParseError{Offset: attr.offset, Msg: fmt.Sprintf("unsupported attribute access %q", attr.text)}
			}
			return &Outcome{QID: t.text, Offset: t.offset}, nil
		}
		return &Ident{Name: t.text, Offset: t.offset}, nil
	default:
		return nil, &ParseError{Offset: t.offset, Msg: "unexpected token"}
	}
}
