package constraint

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"github.com/fadingrose/qmlcheck/smt"
)

// ValueKind distinguishes the two SMT-representable types the grammar
// produces; unlike the Python original's dynamic coercion, mismatches here
// are surfaced as TypeMismatch rather than silently cast.
type ValueKind int

const (
	IntValue ValueKind = iota
	BoolValue
)

// Value is a compiled term tagged with its SMT sort.
type Value struct {
	Kind ValueKind
	I    z3.Int
	B    z3.Bool
}

// NewIntValue and NewBoolValue let callers outside this package (the static
// builder, declaring an item's outcome variable) construct a Value.
func NewIntValue(i z3.Int) Value  { return Value{Kind: IntValue, I: i} }
func NewBoolValue(b z3.Bool) Value { return Value{Kind: BoolValue, B: b} }

func intVal(i z3.Int) Value  { return Value{Kind: IntValue, I: i} }
func boolVal(b z3.Bool) Value { return Value{Kind: BoolValue, B: b} }

// Env resolves the two identifier forms the grammar supports (§4.1) and
// accumulates the guards and dependencies discovered while compiling.
type Env struct {
	Ctx *smt.Context

	// Locals holds the current SSA-live value for a bare identifier.
	Locals map[string]Value

	// Outcome resolves `qid.outcome` to the SSA version live at the use
	// site; supplied by the static builder (§4.2).
	Outcome func(qid string) (Value, bool)

	// Visited resolves the auxiliary `visited_qid` boolean used for the
	// `is [not] None` visitedness predicate (§9).
	Visited func(qid string) (z3.Bool, bool)

	ItemID string

	// Guards accumulates side-conditions (e.g. `divisor != 0`) that must
	// be conjoined with the enclosing predicate (§4.1 "Division ... by a
	// variable the compiler emits a guard").
	Guards []z3.Bool

	// Deps accumulates every qid referenced by Outcome or Visited lookups.
	// The static builder's edge extraction does not read it; it walks the
	// AST with ReferencedQIDs instead.
	Deps map[string]bool
}

func (e *Env) addDep(qid string) {
	if e.Deps == nil {
		e.Deps = make(map[string]bool)
	}
	e.Deps[qid] = true
}

// typeError is the per-item TypeMismatch-shaped error the caller wraps
// into a *qmlerr.ItemError; kept untyped here to avoid a cyclic import.
type typeError struct {
	Offset int
	Msg    string
}

func (e *typeError) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg) }

// unresolvedError marks an identifier with no binding in scope. Per spec.md
// §7 this is a structural error (aborts the whole analysis), unlike the
// other compile-time failures in this file.
type unresolvedError struct {
	Offset int
	Name   string
}

func (e *unresolvedError) Error() string {
	return fmt.Sprintf("offset %d: unresolved identifier %q", e.Offset, e.Name)
}

// Compile lowers a parsed Expr into an SMT term against env.
func Compile(e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *IntLit:
		return intVal(env.Ctx.IntVal(n.Value)), nil

	case *BoolLit:
		return boolVal(env.Ctx.BoolVal(n.Value)), nil

	case *NoneLit:
		return Value{}, &typeError{Offset: n.Offset, Msg: "None is only valid in an 'is'/'is not' comparison"}

	case *Ident:
		if v, ok := env.Locals[n.Name]; ok {
			return v, nil
		}
		return Value{}, &unresolvedError{Offset: n.Offset, Name: n.Name}

	case *Outcome:
		if env.Outcome == nil {
			return Value{}, &unresolvedError{Offset: n.Offset, Name: n.QID + ".outcome"}
		}
		v, ok := env.Outcome(n.QID)
		if !ok {
			return Value{}, &unresolvedError{Offset: n.Offset, Name: n.QID + ".outcome"}
		}
		env.addDep(n.QID)
		return v, nil

	case *IsNone:
		if env.Visited == nil {
			return Value{}, &unresolvedError{Offset: n.Offset, Name: n.QID + ".outcome"}
		}
		visited, ok := env.Visited(n.QID)
		if !ok {
			return Value{}, &unresolvedError{Offset: n.Offset, Name: n.QID + ".outcome"}
		}
		env.addDep(n.QID)
		// `is None` means "not visited"; `is not None` means "visited".
		notVisited := env.Ctx.Not(visited)
		if n.Negate {
			return boolVal(visited), nil
		}
		return boolVal(notVisited), nil

	case *UnaryExpr:
		return compileUnary(n, env)

	case *BinaryExpr:
		return compileBinary(n, env)

	case *CompareExpr:
		return compileCompare(n, env)

	case *BoolExpr:
		return compileBoolOp(n, env)

	case *CondExpr:
		return compileCond(n, env)

	default:
		return Value{}, &typeError{Offset: 0, Msg: fmt.Sprintf("unhandled expression node %T", e)}
	}
}

func compileUnary(n *UnaryExpr, env *Env) (Value, error) {
	x, err := Compile(n.X, env)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "not":
		if x.Kind != BoolValue {
			return Value{}, &typeError{Offset: n.Offset, Msg: "'not' requires a boolean operand"}
		}
		return boolVal(env.Ctx.Not(x.B)), nil
	case "-":
		if x.Kind != IntValue {
			return Value{}, &typeError{Offset: n.Offset, Msg: "unary '-' requires an integer operand"}
		}
		return intVal(env.Ctx.IntVal(0).Sub(x.I)), nil
	case "+":
		if x.Kind != IntValue {
			return Value{}, &typeError{Offset: n.Offset, Msg: "unary '+' requires an integer operand"}
		}
		return x, nil
	default:
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("unknown unary operator %q", n.Op)}
	}
}

func compileBinary(n *BinaryExpr, env *Env) (Value, error) {
	l, err := Compile(n.L, env)
	if err != nil {
		return Value{}, err
	}
	r, err := Compile(n.R, env)
	if err != nil {
		return Value{}, err
	}
	if l.Kind != IntValue || r.Kind != IntValue {
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("operator %q requires integer operands", n.Op)}
	}
	switch n.Op {
	case "+":
		return intVal(l.I.Add(r.I)), nil
	case "-":
		return intVal(l.I.Sub(r.I)), nil
	case "*":
		return intVal(l.I.Mul(r.I)), nil
	case "//":
		if err := guardDivisor(n.R, r, env, n.Offset); err != nil {
			return Value{}, err
		}
		return intVal(l.I.Div(r.I)), nil
	case "%":
		if err := guardDivisor(n.R, r, env, n.Offset); err != nil {
			return Value{}, err
		}
		return intVal(l.I.Mod(r.I)), nil
	default:
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("unknown binary operator %q", n.Op)}
	}
}

// guardDivisor implements §4.1: a literal-zero divisor is a compile-time
// error, a variable divisor gets an accumulated `divisor != 0` guard.
func guardDivisor(rhs Expr, r Value, env *Env, offset int) error {
	if lit, ok := rhs.(*IntLit); ok {
		if lit.Value == 0 {
			return &typeError{Offset: offset, Msg: "division/modulus by literal zero"}
		}
		return nil
	}
	zero := env.Ctx.IntVal(0)
	env.Guards = append(env.Guards, r.I.NE(zero))
	return nil
}

func compileCompare(n *CompareExpr, env *Env) (Value, error) {
	l, err := Compile(n.L, env)
	if err != nil {
		return Value{}, err
	}
	r, err := Compile(n.R, env)
	if err != nil {
		return Value{}, err
	}
	if l.Kind != r.Kind {
		return Value{}, &typeError{Offset: n.Offset, Msg: "comparison operands have mismatched types"}
	}
	if l.Kind == BoolValue {
		switch n.Op {
		case "==":
			return boolVal(env.Ctx.Or(env.Ctx.And(l.B, r.B), env.Ctx.And(env.Ctx.Not(l.B), env.Ctx.Not(r.B)))), nil
		case "!=":
			eq := env.Ctx.Or(env.Ctx.And(l.B, r.B), env.Ctx.And(env.Ctx.Not(l.B), env.Ctx.Not(r.B)))
			return boolVal(env.Ctx.Not(eq)), nil
		default:
			return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("operator %q is not supported on boolean operands", n.Op)}
		}
	}
	switch n.Op {
	case "==":
		return boolVal(l.I.Eq(r.I)), nil
	case "!=":
		return boolVal(l.I.NE(r.I)), nil
	case "<":
		return boolVal(l.I.LT(r.I)), nil
	case "<=":
		return boolVal(l.I.LE(r.I)), nil
	case ">":
		return boolVal(l.I.GT(r.I)), nil
	case ">=":
		return boolVal(l.I.GE(r.I)), nil
	default:
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("unknown comparison operator %q", n.Op)}
	}
}

func compileBoolOp(n *BoolExpr, env *Env) (Value, error) {
	l, err := Compile(n.L, env)
	if err != nil {
		return Value{}, err
	}
	r, err := Compile(n.R, env)
	if err != nil {
		return Value{}, err
	}
	if l.Kind != BoolValue || r.Kind != BoolValue {
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("%q requires boolean operands", n.Op)}
	}
	switch n.Op {
	case "and":
		return boolVal(env.Ctx.And(l.B, r.B)), nil
	case "or":
		return boolVal(env.Ctx.Or(l.B, r.B)), nil
	default:
		return Value{}, &typeError{Offset: n.Offset, Msg: fmt.Sprintf("unknown boolean operator %q", n.Op)}
	}
}

func compileCond(n *CondExpr, env *Env) (Value, error) {
	cond, err := Compile(n.Cond, env)
	if err != nil {
		return Value{}, err
	}
	if cond.Kind != BoolValue {
		return Value{}, &typeError{Offset: n.Offset, Msg: "ternary condition must be boolean"}
	}
	then, err := Compile(n.Then, env)
	if err != nil {
		return Value{}, err
	}
	els, err := Compile(n.Else, env)
	if err != nil {
		return Value{}, err
	}
	if then.Kind != els.Kind {
		return Value{}, &typeError{Offset: n.Offset, Msg: "ternary branches have mismatched types"}
	}
	if then.Kind == IntValue {
		return intVal(env.Ctx.ITE(cond.B, then.I, els.I)), nil
	}
	return boolVal(env.Ctx.ITEBool(cond.B, then.B, els.B)), nil
}
