// Package topology implements spec.md §4.3: cycle detection via two
// independent methods that must agree, the canonical topological order, and
// the supplemented dependency-layer/component computations (SPEC_FULL §C.2).
package topology

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/smt"
)

// Edge is one dependency j → i: i references j's outcome.
type Edge struct {
	From, To string
}

// Result is everything the topology pass computes for a questionnaire.
type Result struct {
	// Order is the canonical topological order (§4.3 "Ordering").
	Order []string

	// Layers maps item id to its dependency layer: the longest path depth
	// from any source (SPEC_FULL §C.2).
	Layers map[string]int

	// Components maps item id to its weakly-connected component index.
	Components map[string]int
}

// adjacency holds both directions of the edge set for a fixed item list.
type adjacency struct {
	items     []*model.Item
	byID      map[string]*model.Item
	out       map[string][]string // j -> items that depend on j
	in        map[string][]string // i -> items i depends on
	indegree  map[string]int
}

func buildAdjacency(items []*model.Item, edges []Edge) *adjacency {
	a := &adjacency{
		items:    items,
		byID:     map[string]*model.Item{},
		out:      map[string][]string{},
		in:       map[string][]string{},
		indegree: map[string]int{},
	}
	for _, it := range items {
		a.byID[it.ID] = it
		a.indegree[it.ID] = 0
	}
	for _, e := range edges {
		a.out[e.From] = append(a.out[e.From], e.To)
		a.in[e.To] = append(a.in[e.To], e.From)
		a.indegree[e.To]++
	}
	return a
}

// Compute runs both cycle-detection methods, cross-checks them (§8 property
// 6 "the two detection methods always agree on acyclicity"), and on success
// returns the canonical order plus layers/components.
func Compute(ctx *smt.Context, items []*model.Item, edges []Edge) (*Result, *qmlerr.StructuralError) {
	a := buildAdjacency(items, edges)

	smtAcyclic := checkAcyclicSMT(ctx, items, edges)
	order, kahnAcyclic := kahnOrder(a)

	if smtAcyclic != kahnAcyclic {
		// The two methods disagree — treat as a hard failure rather than
		// silently trusting either one; this should never happen for a
		// correctly built edge set.
		return nil, qmlerr.NewStructural(qmlerr.CycleDetected,
			"cycle-detection methods disagree: this indicates a builder defect, not a questionnaire defect")
	}

	if !kahnAcyclic {
		cycle := extractCycle(a)
		err := qmlerr.NewStructural(qmlerr.CycleDetected, fmt.Sprintf("cycle detected: %v", cycle))
		err.Cycle = cycle
		return nil, err
	}

	layers := computeLayers(a, order)
	components := computeComponents(a)

	return &Result{Order: order, Layers: layers, Components: components}, nil
}

// checkAcyclicSMT implements §4.3 method 1: assign each item an integer
// position variable π_i; for each edge j→i assert π_j < π_i. The formula is
// satisfiable iff the graph is acyclic.
func checkAcyclicSMT(ctx *smt.Context, items []*model.Item, edges []Edge) bool {
	solver := smt.NewSolver(ctx, 0)
	positions := make(map[string]z3.Int, len(items))
	for _, it := range items {
		positions[it.ID] = ctx.IntVar("pi_" + it.ID)
	}
	for _, e := range edges {
		pj, jok := positions[e.From]
		pi, iok := positions[e.To]
		if !jok || !iok {
			continue
		}
		solver.Assert(pj.LT(pi))
	}
	return solver.Check() == smt.Sat
}
