// Package globalformula implements Level 2 of the verification pipeline
// (spec.md §4.5): a single global satisfiability query over every item's
// implication, localizing any conflict to the items in the solver's unsat
// core (not minimized).
package globalformula

import (
	"time"

	"github.com/aclements/go-z3/z3"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/classify"
	"github.com/fadingrose/qmlcheck/constraint"
	"github.com/fadingrose/qmlcheck/smt"
)

type Verdict string

const (
	Valid        Verdict = "VALID"
	Inconsistent Verdict = "INCONSISTENT"
	Undecided    Verdict = "UNDECIDED"
)

// Result is the Level 2 outcome (§3 "Global result").
type Result struct {
	Verdict  Verdict
	Witness  classify.Witness
	Conflict []string // item ids implicated in the unsat core, when Inconsistent
}

// Check builds F := B★ ∧ ⋀_i (P_i ⇒ Q_i) over every item whose Level 1
// reachability is not NEVER (a NEVER item's implication is vacuous and
// excluded so it cannot itself be blamed for an unrelated conflict — the
// resolved reading of "excluding NEVER items" from the dead-item discussion
// in §4.4), and reports satisfiability. On UNSAT, each item's implication is
// tracked behind a fresh boolean label so the unsat core localizes the
// conflict to specific item ids, mirroring get_conflicting_items in the
// reference implementation's global formula module.
func Check(ctx *smt.Context, build *analysis.Result, records map[string]*classify.Record, timeout time.Duration) *Result {
	solver := smt.NewSolver(ctx, timeout)
	solver.Assert(build.BStar)

	labelToItem := map[z3.Bool]string{}
	var labels []z3.Bool

	for id, terms := range build.Items {
		if terms.Err != nil {
			continue
		}
		if rec, ok := records[id]; ok && rec.Reach == classify.Never {
			continue
		}
		implication := ctx.Implies(terms.P, terms.QAll)
		label := ctx.BoolVar("assume_" + id)
		solver.Assert(ctx.Implies(label, implication))
		labelToItem[label] = id
		labels = append(labels, label)
	}

	result, core := solver.CheckAssuming(labels)

	switch result {
	case smt.Unknown:
		return &Result{Verdict: Undecided}
	case smt.Sat:
		return &Result{Verdict: Valid, Witness: extractWitness(solver.Model(), build)}
	default:
		conflict := make([]string, 0, len(core))
		for _, l := range core {
			if id, ok := labelToItem[l]; ok {
				conflict = append(conflict, id)
			}
		}
		return &Result{Verdict: Inconsistent, Conflict: conflict}
	}
}

func extractWitness(m *smt.Model, build *analysis.Result) classify.Witness {
	w := classify.Witness{}
	for id, terms := range build.Items {
		if terms.Err != nil {
			continue
		}
		if terms.Outcome.Kind == constraint.IntValue {
			if v, ok := m.EvalInt(terms.Outcome.I); ok {
				w[id] = v
			}
			continue
		}
		if v, ok := m.EvalBool(terms.Outcome.B); ok {
			w[id] = v
		}
	}
	return w
}
