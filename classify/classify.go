// Package classify implements Level 1 of the verification pipeline
// (spec.md §4.4): four SMT queries per item classifying reachability and
// postcondition strength.
package classify

import (
	"time"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/constraint"
	"github.com/fadingrose/qmlcheck/smt"
)

type Reach string

const (
	Always      Reach = "ALWAYS"
	Conditional Reach = "CONDITIONAL"
	Never       Reach = "NEVER"
)

type Post string

const (
	Tautological Post = "TAUTOLOGICAL"
	Constraining Post = "CONSTRAINING"
	Infeasible   Post = "INFEASIBLE"
	None         Post = "NONE"
	Undecided    Post = "UNDECIDED"
)

// Witness maps item ids to the outcome values a solver model assigns them.
// A Level 1 record's witness holds only the classified item's own outcome;
// the other outcomes its predicates reference are not included.
type Witness map[string]any

// Record is one item's Level 1 classification (§3 "Classification record").
type Record struct {
	ItemID       string
	Reach        Reach
	Post         Post
	Unobservable bool // post recorded but reach == NEVER (§4.4)
	Witness      Witness

	// ReachUndecided/PostUndecided mark that the corresponding SMT query
	// timed out (§4.4 "Failure modes").
	ReachUndecided bool
	PostUndecided  bool
}

// Classify runs the four queries of §4.4 for every item in build.Items,
// against a solver preloaded with B★, reused via push/pop per item and per
// query (§9 "Solver lifetime").
func Classify(ctx *smt.Context, build *analysis.Result, timeout time.Duration) map[string]*Record {
	solver := smt.NewSolver(ctx, timeout)
	solver.Assert(build.BStar)

	records := make(map[string]*Record, len(build.Items))
	for id, terms := range build.Items {
		if terms.Err != nil {
			continue
		}
		records[id] = classifyOne(ctx, solver, terms)
	}
	return records
}

func classifyOne(ctx *smt.Context, solver *smt.Solver, terms *analysis.ItemTerms) *Record {
	rec := &Record{ItemID: terms.Item.ID}

	// R1: B★ ∧ ¬P_i — UNSAT ⇒ ALWAYS
	solver.Push()
	solver.Assert(ctx.Not(terms.P))
	r1 := solver.Check()
	solver.Pop()

	// R2: B★ ∧ P_i — UNSAT ⇒ NEVER
	solver.Push()
	solver.Assert(terms.P)
	r2 := solver.Check()
	var witnessModel *smt.Model
	if r2 == smt.Sat {
		witnessModel = solver.Model()
	}
	solver.Pop()

	switch {
	case r1 == smt.Unknown || r2 == smt.Unknown:
		rec.ReachUndecided = true
		rec.Reach = Conditional
	case r1 == smt.Unsat:
		rec.Reach = Always
	case r2 == smt.Unsat:
		rec.Reach = Never
	default:
		rec.Reach = Conditional
	}

	if witnessModel != nil {
		rec.Witness = extractWitness(witnessModel, terms)
	}

	if rec.Reach == Never {
		rec.Unobservable = true
	}

	if len(terms.Q) == 0 {
		rec.Post = None
		return rec
	}

	// T1: B★ ∧ P_i ∧ Q_i — UNSAT ⇒ INFEASIBLE
	solver.Push()
	solver.Assert(terms.P)
	solver.Assert(terms.QAll)
	t1 := solver.Check()
	if t1 == smt.Sat && rec.Witness == nil {
		rec.Witness = extractWitness(solver.Model(), terms)
	}
	solver.Pop()

	// T2: B★ ∧ P_i ∧ ¬Q_i — UNSAT ⇒ TAUTOLOGICAL
	solver.Push()
	solver.Assert(terms.P)
	solver.Assert(ctx.Not(terms.QAll))
	t2 := solver.Check()
	solver.Pop()

	switch {
	case t1 == smt.Unknown || t2 == smt.Unknown:
		rec.PostUndecided = true
		rec.Post = Undecided
	case t1 == smt.Unsat:
		rec.Post = Infeasible
	case t2 == smt.Unsat:
		rec.Post = Tautological
	default:
		rec.Post = Constraining
	}

	return rec
}

// extractWitness restricts a model to the outcome variable this item
// declares, per §3's witness definition.
func extractWitness(m *smt.Model, terms *analysis.ItemTerms) Witness {
	w := Witness{}
	if terms.Outcome.Kind == constraint.IntValue {
		if v, ok := m.EvalInt(terms.Outcome.I); ok {
			w[terms.Item.ID] = v
		}
		return w
	}
	if v, ok := m.EvalBool(terms.Outcome.B); ok {
		w[terms.Item.ID] = v
	}
	return w
}
