package constraint

import "fmt"

// ParseStmts parses a code fragment (§3 code_i) into a statement list.
// `for` and `while` loops are rejected with *UnsupportedError; any other
// construct besides assignment and if/elif/else is rejected with
// *ParseError, not *UnsupportedError.
//
// Block syntax: since the grammar is a restricted sublanguage independent of
// the YAML host document's own indentation, blocks are delimited explicitly
// rather than by whitespace:
//
//	if cond:
//	    s1
//	    s2
//	else:
//	    s3
//	end
func ParseStmts(src string) ([]Stmt, error) {
	lx := newLexer(trimNewlines(src))
	toks, err := lx.lex()
	if err != nil {
		return nil, &ParseError{Offset: 0, Msg: err.Error()}
	}
	p := &sparser{toks: toks}
	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.at(tokEOF) {
		return nil, &ParseError{Offset: p.cur().offset, Msg: "unexpected trailing input"}
	}
	return stmts, nil
}

type sparser struct {
	toks []token
	pos  int
}

func (p *sparser) cur() token { return p.toks[p.pos] }
func (p *sparser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}
func (p *sparser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *sparser) skipNewlines() {
	for p.at(tokNewline) {
		p.advance()
	}
}

func (p *sparser) expect(k tokenKind, what string) (token, error) {
	if !p.at(k) {
		return token{}, &ParseError{Offset: p.cur().offset, Msg: fmt.Sprintf("expected %s", what)}
	}
	return p.advance(), nil
}

// parseBlock parses statements until EOF, "end", "else", or "elif".
func (p *sparser) parseBlock() ([]Stmt, error) {
	var stmts []Stmt
	p.skipNewlines()
	for !p.at(tokEOF) && !p.at(tokEnd) && !p.at(tokElse) && !p.at(tokElif) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.skipNewlines()
	}
	return stmts, nil
}

func (p *sparser) parseStmt() (Stmt, error) {
	switch p.cur().kind {
	case tokIf:
		return p.parseIf()
	case tokFor, tokWhile:
		return nil, &UnsupportedError{Offset: p.cur().offset, Msg: "loops are not supported in analyzed code fragments"}
	case tokIdent:
		return p.parseAssign()
	default:
		return nil, &ParseError{Offset: p.cur().offset, Msg: "expected statement"}
	}
}

func (p *sparser) parseAssign() (Stmt, error) {
	name, _ := p.expect(tokIdent, "identifier")
	target := name.text
	targetQID := ""
	if p.at(tokDot) {
		p.advance()
		attr, err := p.expect(tokIdent, "attribute name")
		if err != nil {
			return nil, err
		}
		if attr.text != "outcome" {
			return nil, &ParseError{Offset: attr.offset, Msg: fmt.Sprintf("unsupported attribute access %q", attr.text)}
		}
		targetQID = target
		target = ""
	}
	if _, err := p.expect(tokAssign, "'='"); err != nil {
		return nil, err
	}
	exprToks := p.collectExprTokens()
	ep := &parser{toks: exprToks}
	val, err := ep.parseTernary()
	if err != nil {
		return nil, err
	}
	if !ep.at(tokEOF) {
		return nil, &ParseError{Offset: ep.cur().offset, Msg: "unexpected trailing input in assignment"}
	}
	return &AssignStmt{Target: target, TargetQID: targetQID, Value: val, Offset: name.offset}, nil
}

// collectExprTokens slices off tokens up to (not including) the statement's
// terminating newline/EOF/end/else/elif and appends a synthetic EOF so the
// expression parser can be reused unchanged.
func (p *sparser) collectExprTokens() []token {
	start := p.pos
	for !p.at(tokNewline) && !p.at(tokEOF) && !p.at(tokEnd) && !p.at(tokElse) && !p.at(tokElif) {
		p.advance()
	}
	toks := append([]token{}, p.toks[start:p.pos]...)
	toks = append(toks, token{kind: tokEOF, offset: p.cur().offset})
	return toks
}

func (p *sparser) parseIf() (Stmt, error) {
	offset := p.cur().offset
	p.advance()
	condToks := p.collectCondTokens()
	cp := &parser{toks: condToks}
	cond, err := cp.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseStmts []Stmt
	switch p.cur().kind {
	case tokElif:
		elifStmt, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		elseStmts = []Stmt{elifStmt}
		return &IfStmt{Cond: cond, Then: then, Else: elseStmts, Offset: offset}, nil
	case tokElse:
		p.advance()
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		elseStmts, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokEnd, "'end'"); err != nil {
			return nil, err
		}
	case tokEnd:
		p.advance()
	default:
		return nil, &ParseError{Offset: p.cur().offset, Msg: "expected 'elif', 'else', or 'end'"}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseStmts, Offset: offset}, nil
}

// collectCondTokens slices off the condition tokens up to the ':' that
// opens the if-block's body.
func (p *sparser) collectCondTokens() []token {
	start := p.pos
	for !p.at(tokColon) && !p.at(tokEOF) {
		p.advance()
	}
	toks := append([]token{}, p.toks[start:p.pos]...)
	toks = append(toks, token{kind: tokEOF, offset: p.cur().offset})
	return toks
}
