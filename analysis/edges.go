// Package analysis is the static builder (spec.md §4.2): it compiles every
// item's predicates and code fragment into SMT terms, threads SSA versions
// across the dependency graph, and accumulates the base constraint B★.
package analysis

import (
	"fmt"

	"github.com/fadingrose/qmlcheck/constraint"
	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/topology"
)

// Edge is an alias for topology.Edge so callers don't need to import both
// packages just to build the argument topology.Compute expects.
type Edge = topology.Edge

// parsedItem caches what ExtractEdges already parsed so Build doesn't
// re-lex/re-parse every expression a second time.
type parsedItem struct {
	pre   []constraint.Expr
	post  []constraint.Expr
	code  []constraint.Stmt
	reads map[string]bool
}

// ExtractEdges parses every item's predicates and code fragment and returns
// the dependency edge set E = {j→i : j referenced in P_i ∪ Q_i ∪ code_i}
// (§4.2), plus the parsed ASTs for reuse by Build. Parse/compile failures
// that are structural (§7: UnsupportedExpression, UnresolvedIdentifier) are
// collected for every item and returned in the structural slice for the
// caller to abort on; ParseError/UnknownFunction/TypeMismatch are per-item and are
// returned attached to that item's entry instead, with its predicates
// treated as absent downstream (Build skips a failed item's own terms but
// still processes items that merely reference it).
func ExtractEdges(q *model.Questionnaire) (map[string]*parsedItem, []Edge, map[string]*qmlerr.ItemError, []*qmlerr.StructuralError) {
	parsed := make(map[string]*parsedItem, len(q.Items))
	itemErrs := make(map[string]*qmlerr.ItemError)
	var structural []*qmlerr.StructuralError
	var edges []Edge
	edgeSeen := map[Edge]bool{}

	addEdge := func(from, to string) {
		if from == to {
			return // an item reading its own outcome adds no edge
		}
		e := Edge{From: from, To: to}
		if !edgeSeen[e] {
			edgeSeen[e] = true
			edges = append(edges, e)
		}
	}

	for _, it := range q.Items {
		if it.Kind != model.Question {
			continue
		}
		pi := &parsedItem{reads: map[string]bool{}}

		for _, p := range it.Preconditions {
			e, err := constraint.ParseExpr(p.Predicate)
			if err != nil {
				if constraint.IsStructural(err) {
					structural = append(structural, constraint.AsStructuralError(it.ID, err))
					continue
				}
				itemErrs[it.ID] = constraint.AsItemError(it.ID, err)
				continue
			}
			pi.pre = append(pi.pre, e)
			for _, qid := range constraint.ReferencedQIDs(e) {
				pi.reads[qid] = true
			}
		}

		for _, p := range it.Postconditions {
			e, err := constraint.ParseExpr(p.Predicate)
			if err != nil {
				if constraint.IsStructural(err) {
					structural = append(structural, constraint.AsStructuralError(it.ID, err))
					continue
				}
				itemErrs[it.ID] = constraint.AsItemError(it.ID, err)
				continue
			}
			pi.post = append(pi.post, e)
			for _, qid := range constraint.ReferencedQIDs(e) {
				pi.reads[qid] = true
			}
		}

		if trimmed := trimmedCode(it.Code); trimmed != "" {
			stmts, err := constraint.ParseStmts(trimmed)
			if err != nil {
				if constraint.IsStructural(err) {
					structural = append(structural, constraint.AsStructuralError(it.ID, err))
				} else {
					itemErrs[it.ID] = constraint.AsItemError(it.ID, err)
				}
			} else {
				pi.code = stmts
				reads, _, outcomeWrites := constraint.StmtRefs(stmts)
				for _, qid := range reads {
					pi.reads[qid] = true
				}
				for _, qid := range outcomeWrites {
					pi.reads[qid] = true // a write depends on the prior version too
				}
			}
		}

		parsed[it.ID] = pi
		for qid := range pi.reads {
			if q.ByID(qid) == nil {
				structural = append(structural, qmlerr.NewStructuralItem(qmlerr.UnresolvedIdentifier, it.ID, -1,
					fmt.Sprintf("item %q references unknown item %q", it.ID, qid)))
				continue
			}
			addEdge(qid, it.ID)
		}
	}

	return parsed, edges, itemErrs, structural
}

func trimmedCode(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '\r' {
			return s
		}
	}
	return ""
}
