// Package smt wraps the go-z3 bindings used by the rest of the pipeline.
//
// The wrapper exists for two reasons: the analysis packages should not sprinkle
// type assertions to z3.Int/z3.Bool everywhere, and every query needs the same
// per-query timeout handling (spec §5); there is no cancellation hook. Everything here is a thin
// layer over a single z3.Context; callers are expected to create one Context per
// analysis run and not share it across goroutines (§5 "Solver contexts are not
// shared across threads").
package smt

import (
	"github.com/aclements/go-z3/z3"
)

// Context owns a z3.Context and the sort objects reused for every variable.
type Context struct {
	cfg     *z3.Config
	raw     *z3.Context
	intSort z3.Sort
	boolSort z3.Sort

	// trueTerm/falseTerm avoid depending on an unverified Bool literal
	// constructor: they are derived from Int equality, which every
	// go-z3 build supports.
	trueTerm  z3.Bool
	falseTerm z3.Bool
}

// NewContext creates a fresh solving context. Each analysis run (one
// questionnaire, one pass) should own exactly one Context.
func NewContext() *Context {
	cfg := z3.NewContextConfig()
	raw := z3.NewContext(cfg)

	c := &Context{
		cfg:      cfg,
		raw:      raw,
		intSort:  raw.IntSort(),
		boolSort: raw.BoolSort(),
	}
	zero := c.IntVal(0)
	c.trueTerm = zero.Eq(zero)
	c.falseTerm = c.trueTerm.Not()
	return c
}

// Raw exposes the underlying z3.Context for packages that need to construct
// sorts or values this wrapper doesn't cover yet.
func (c *Context) Raw() *z3.Context { return c.raw }

// IntVar returns the Int term for the given SSA-qualified name, creating it
// if this is the first reference. Two calls with the same name return terms
// that denote the same Z3 symbol.
func (c *Context) IntVar(name string) z3.Int {
	return c.raw.Const(name, c.intSort).(z3.Int)
}

// BoolVar returns the Bool term for the given name.
func (c *Context) BoolVar(name string) z3.Bool {
	return c.raw.Const(name, c.boolSort).(z3.Bool)
}

// IntVal returns the integer literal v as a Z3 term.
func (c *Context) IntVal(v int64) z3.Int {
	return c.raw.FromInt(v, c.intSort).(z3.Int)
}

// True and False return the canonical boolean literals for this context.
func (c *Context) True() z3.Bool  { return c.trueTerm }
func (c *Context) False() z3.Bool { return c.falseTerm }

// BoolVal returns the literal as a Z3 term.
func (c *Context) BoolVal(v bool) z3.Bool {
	if v {
		return c.trueTerm
	}
	return c.falseTerm
}

// And conjoins zero or more boolean terms. And() with no arguments is True
// (the empty precondition/postcondition per spec §3 "Empty ⇒ true").
func (c *Context) And(terms ...z3.Bool) z3.Bool {
	switch len(terms) {
	case 0:
		return c.True()
	case 1:
		return terms[0]
	default:
		return terms[0].And(terms[1:]...)
	}
}

// Or disjoins zero or more boolean terms. Or() with no arguments is False.
func (c *Context) Or(terms ...z3.Bool) z3.Bool {
	switch len(terms) {
	case 0:
		return c.False()
	case 1:
		return terms[0]
	default:
		return terms[0].Or(terms[1:]...)
	}
}

// Not negates a boolean term.
func (c *Context) Not(t z3.Bool) z3.Bool { return t.Not() }

// Implies builds p ⇒ q, encoded as ¬p ∨ q since go-z3's Bool type does not
// need a dedicated Implies to stay linear.
func (c *Context) Implies(p, q z3.Bool) z3.Bool {
	return c.Or(p.Not(), q)
}

// ITE builds the term `if cond then t else e`, used for SSA joins (§4.9) and
// for the supplemented ternary-expression syntax (SPEC_FULL §C.4).
func (c *Context) ITE(cond z3.Bool, t, e z3.Int) z3.Int {
	return z3.If(cond, t, e).(z3.Int)
}

// ITEBool is the boolean-valued analog of ITE, needed when a conditional
// assignment's branches are both boolean-typed.
func (c *Context) ITEBool(cond, t, e z3.Bool) z3.Bool {
	return z3.If(cond, t, e).(z3.Bool)
}
