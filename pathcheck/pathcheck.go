// Package pathcheck implements Level 3 of the verification pipeline
// (spec.md §4.6): for each item, whether it can ever be reached once every
// upstream item's own implication is also assumed to hold.
package pathcheck

import (
	"time"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/smt"
	"github.com/fadingrose/qmlcheck/topology"
)

// Record is one item's Level 3 result (§3 "Path result").
type Record struct {
	ItemID string
	Dead   bool // A_i ∧ P_i is UNSAT

	// Undecided marks that the query timed out; Dead is left false in that
	// case (§4.4 "Failure modes": undecided must never be reported as dead).
	Undecided bool
}

// predecessors returns, for every item, the full ancestor set Pred*(i) — every
// item reachable by following edges backward, computed once over the whole
// edge list rather than per item.
func predecessors(edges []topology.Edge) map[string]map[string]bool {
	direct := map[string][]string{}
	for _, e := range edges {
		direct[e.To] = append(direct[e.To], e.From)
	}

	memo := map[string]map[string]bool{}
	var visit func(id string, visiting map[string]bool) map[string]bool
	visit = func(id string, visiting map[string]bool) map[string]bool {
		if m, ok := memo[id]; ok {
			return m
		}
		if visiting[id] {
			return map[string]bool{} // defensive: a cycle would already have aborted upstream
		}
		visiting[id] = true
		acc := map[string]bool{}
		for _, p := range direct[id] {
			acc[p] = true
			for anc := range visit(p, visiting) {
				acc[anc] = true
			}
		}
		visiting[id] = false
		memo[id] = acc
		return acc
	}

	result := make(map[string]map[string]bool, len(direct))
	for id := range direct {
		result[id] = visit(id, map[string]bool{})
	}
	return result
}

// Check computes, for every item, whether it is dead code: unreachable once
// every ancestor's own precondition⇒postcondition implication is assumed to
// already hold in addition to the base constraint. B★ is asserted once; each
// item's accumulated implications are pushed, checked, and popped so the
// shared B★ assertion isn't re-parsed per item (§9 "Solver lifetime").
func Check(ctx *smt.Context, build *analysis.Result, edges []topology.Edge, timeout time.Duration) map[string]*Record {
	solver := smt.NewSolver(ctx, timeout)
	solver.Assert(build.BStar)

	preds := predecessors(edges)
	records := make(map[string]*Record, len(build.Items))

	for id, terms := range build.Items {
		if terms.Err != nil {
			continue
		}
		solver.Push()
		for anc := range preds[id] {
			at := build.Items[anc]
			if at == nil || at.Err != nil {
				continue
			}
			solver.Assert(ctx.Implies(at.P, at.QAll))
			// Assert the ancestor was actually visited, independent of
			// whether its own precondition already follows from B★ and the
			// other asserted implications (resolved reading of the
			// accumulated-formula construction).
			solver.Assert(at.P)
		}
		solver.Assert(terms.P)
		result := solver.Check()
		solver.Pop()

		rec := &Record{ItemID: id}
		switch result {
		case smt.Unsat:
			rec.Dead = true
		case smt.Unknown:
			rec.Undecided = true
		}
		records[id] = rec
	}
	return records
}
