package analysis

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"github.com/fadingrose/qmlcheck/constraint"
	"github.com/fadingrose/qmlcheck/smt"
)

// blockScope tracks the values an in-progress code fragment has assigned so
// far, falling back to the shared `current`/locals maps for anything it
// hasn't touched yet. Two sibling scopes (then/else) are compiled from
// identical copies of their parent and merged afterward.
type blockScope struct {
	locals   map[string]constraint.Value
	outcomes map[string]constraint.Value
	base     map[string]constraint.Value // read-only fallback for outcomes not yet written in this block
}

func newBlockScope(locals map[string]constraint.Value, base map[string]constraint.Value) *blockScope {
	return &blockScope{
		locals:   cloneValues(locals),
		outcomes: map[string]constraint.Value{},
		base:     base,
	}
}

func (s *blockScope) clone() *blockScope {
	return &blockScope{
		locals:   cloneValues(s.locals),
		outcomes: cloneValues(s.outcomes),
		base:     s.base,
	}
}

func cloneValues(m map[string]constraint.Value) map[string]constraint.Value {
	out := make(map[string]constraint.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *blockScope) resolveOutcome(qid string) (constraint.Value, bool) {
	if v, ok := s.outcomes[qid]; ok {
		return v, true
	}
	v, ok := s.base[qid]
	return v, ok
}

// execBlock lowers a code fragment's statements (§3 code_i, §9 SSA lowering)
// into the shared `current` (outcome SSA versions) and env.Locals maps.
// Nested if/else branches are merged keyed on the branch condition alone,
// the way the thesis reference's compiler does it; the whole block's net
// effect is then gated once on the enclosing item's own precondition term
// `guard`, so a variable this code fragment never actually reaches keeps
// its pre-fragment value whenever `guard` is false.
func execBlock(stmts []constraint.Stmt, env *constraint.Env, itemID string, guard z3.Bool, current map[string]constraint.Value, versionCounter map[string]int) error {
	scope := newBlockScope(env.Locals, current)
	if err := execStmts(stmts, env, scope, versionCounter, itemID); err != nil {
		return err
	}

	for name, v := range scope.locals {
		prev, had := env.Locals[name]
		if had && sameValue(prev, v) {
			continue
		}
		if !had {
			env.Locals[name] = v
			continue
		}
		env.Locals[name] = gatedMerge(env.Ctx, guard, v, prev)
	}
	for qid, v := range scope.outcomes {
		prev, had := current[qid]
		if !had {
			current[qid] = v
			continue
		}
		versionCounter[qid]++
		current[qid] = gatedMerge(env.Ctx, guard, v, prev)
	}
	return nil
}

func sameValue(a, b constraint.Value) bool { return a == b }

// gatedMerge returns `newVal` when guard holds, else `prevVal` — the single
// conditional join §4.2 describes for a write gated by a non-ALWAYS
// precondition. Type-correctness between newVal/prevVal is guaranteed by
// the compiler never changing a variable's declared kind mid-analysis.
func gatedMerge(ctx *smt.Context, guard z3.Bool, newVal, prevVal constraint.Value) constraint.Value {
	if newVal.Kind == constraint.BoolValue {
		return constraint.NewBoolValue(ctx.ITEBool(guard, newVal.B, prevVal.B))
	}
	return constraint.NewIntValue(ctx.ITE(guard, newVal.I, prevVal.I))
}

func execStmts(stmts []constraint.Stmt, env *constraint.Env, scope *blockScope, versionCounter map[string]int, itemID string) error {
	for _, s := range stmts {
		if err := execStmt(s, env, scope, versionCounter, itemID); err != nil {
			return err
		}
	}
	return nil
}

func execStmt(s constraint.Stmt, env *constraint.Env, scope *blockScope, versionCounter map[string]int, itemID string) error {
	switch n := s.(type) {
	case *constraint.AssignStmt:
		return execAssign(n, env, scope)
	case *constraint.IfStmt:
		return execIf(n, env, scope, versionCounter, itemID)
	default:
		return fmt.Errorf("unhandled statement node %T", s)
	}
}

func execAssign(n *constraint.AssignStmt, env *constraint.Env, scope *blockScope) error {
	scopedEnv := &constraint.Env{
		Ctx:     env.Ctx,
		Locals:  scope.locals,
		Outcome: scope.resolveOutcome,
		Visited: env.Visited,
		ItemID:  env.ItemID,
	}
	val, err := constraint.Compile(n.Value, scopedEnv)
	if err != nil {
		return err
	}
	env.Guards = append(env.Guards, scopedEnv.Guards...)

	if n.TargetQID != "" {
		scope.outcomes[n.TargetQID] = val
	} else {
		scope.locals[n.Target] = val
	}
	return nil
}

func execIf(n *constraint.IfStmt, env *constraint.Env, scope *blockScope, versionCounter map[string]int, itemID string) error {
	condEnv := &constraint.Env{
		Ctx:     env.Ctx,
		Locals:  scope.locals,
		Outcome: scope.resolveOutcome,
		Visited: env.Visited,
		ItemID:  env.ItemID,
	}
	condVal, err := constraint.Compile(n.Cond, condEnv)
	if err != nil {
		return err
	}
	env.Guards = append(env.Guards, condEnv.Guards...)
	if condVal.Kind != constraint.BoolValue {
		return fmt.Errorf("if-condition must be boolean")
	}

	thenScope := scope.clone()
	if err := execStmts(n.Then, env, thenScope, versionCounter, itemID); err != nil {
		return err
	}
	elseScope := scope.clone()
	if err := execStmts(n.Else, env, elseScope, versionCounter, itemID); err != nil {
		return err
	}

	merged := map[string]bool{}
	for name := range thenScope.locals {
		merged[name] = true
	}
	for name := range elseScope.locals {
		merged[name] = true
	}
	for name := range merged {
		t, tok := thenScope.locals[name]
		e, eok := elseScope.locals[name]
		base, bok := scope.locals[name]
		if !tok {
			t = base
		}
		if !eok {
			e = base
		}
		if !tok && !eok {
			continue
		}
		if tok && eok && t == e {
			scope.locals[name] = t
			continue
		}
		if !bok {
			// No pre-branch value to fall back to outside either branch:
			// keep whichever branch actually wrote it (mutually exclusive
			// at runtime; a static read of this name outside the branch
			// that didn't write it is itself a modeling choice we don't
			// need to resolve since locals never cross item boundaries).
			if tok {
				scope.locals[name] = t
			} else {
				scope.locals[name] = e
			}
			continue
		}
		scope.locals[name] = gatedMerge(env.Ctx, condVal.B, t, e)
	}

	mergedOutcomes := map[string]bool{}
	for qid := range thenScope.outcomes {
		mergedOutcomes[qid] = true
	}
	for qid := range elseScope.outcomes {
		mergedOutcomes[qid] = true
	}
	for qid := range mergedOutcomes {
		t, tok := thenScope.outcomes[qid]
		e, eok := elseScope.outcomes[qid]
		base, bok := scope.resolveOutcome(qid)
		if !tok {
			if !bok {
				continue
			}
			t = base
		}
		if !eok {
			if !bok {
				continue
			}
			e = base
		}
		scope.outcomes[qid] = gatedMerge(env.Ctx, condVal.B, t, e)
	}
	return nil
}
