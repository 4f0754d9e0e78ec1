package analysis

import (
	"fmt"
	"log/slog"

	"github.com/aclements/go-z3/z3"

	"github.com/fadingrose/qmlcheck/constraint"
	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/smt"
)

// ItemTerms is everything the builder derives for one item (§4.2: ⟦P_i⟧,
// ⟦Q_iₖ⟧, ⟦D_i⟧, and the referenced identifier set).
type ItemTerms struct {
	Item *model.Item

	P z3.Bool // ⟦P_i⟧, true when P_i is empty

	// Q holds each postcondition term individually (per-clause witness
	// reporting); QAll is their conjunction, true when Q_i is empty.
	Q    []z3.Bool
	QAll z3.Bool

	// Outcome is the SSA version of S_i live after this item's own code
	// fragment has run — the version downstream items' reads resolve to.
	Outcome constraint.Value

	// Guards accumulates divisor-nonzero side conditions (§4.1) collected
	// while compiling this item's own predicates and code.
	Guards []z3.Bool

	// Err holds a per-item compile failure (§7); when set, P/Q/Outcome are
	// zero values. The item's domain term is still part of B★, and it adds
	// nothing to the edge set beyond what ExtractEdges already recorded.
	Err *qmlerr.ItemError
}

// Result is the static builder's complete output (§4.2, §2 data flow).
type Result struct {
	Items map[string]*ItemTerms
	BStar z3.Bool
}

// Builder orchestrates per-item constraint generation in canonical
// topological order, threading SSA versions as described in §4.2 and §9.
type Builder struct {
	Ctx *smt.Context
	Log *slog.Logger
}

func NewBuilder(ctx *smt.Context, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{Ctx: ctx, Log: log}
}

// Build compiles every item in order into SMT terms, threading outcome SSA
// versions across dependency edges. order must be a valid topological order
// (as produced by the topology package) so every item's dependencies are
// already processed by the time it is visited — this is what lets a single
// forward pass stand in for the source's separate SSA-numbering pass
// followed by a compilation pass (§4.2).
func (b *Builder) Build(q *model.Questionnaire, parsed map[string]*parsedItem, order []string) *Result {
	res := &Result{Items: make(map[string]*ItemTerms, len(order))}

	current := make(map[string]constraint.Value, len(order)) // live SSA version per item id
	visited := make(map[string]z3.Bool, len(order))           // auxiliary "item has been visited" boolean
	versionCounter := make(map[string]int, len(order))

	domainConj := b.Ctx.True()

	for _, id := range order {
		it := q.ByID(id)
		if it == nil || it.Kind != model.Question {
			continue
		}
		pi := parsed[id]
		if pi == nil {
			continue
		}

		outcome0, domainTerm := b.declareOutcome(it)
		current[id] = outcome0
		versionCounter[id] = 0
		domainConj = b.Ctx.And(domainConj, domainTerm)

		env := b.newEnv(it.ID, current, visited)

		pTerm, err := compileConjunction(pi.pre, env)
		if err != nil {
			res.Items[id] = &ItemTerms{Item: it, Err: itemErr(id, err)}
			continue
		}

		qTerms, err := compileEach(pi.post, env)
		if err != nil {
			res.Items[id] = &ItemTerms{Item: it, Err: itemErr(id, err)}
			continue
		}

		if len(pi.code) > 0 {
			if err := execBlock(pi.code, env, it.ID, pTerm, current, versionCounter); err != nil {
				res.Items[id] = &ItemTerms{Item: it, Err: itemErr(id, err)}
				continue
			}
		}

		// Division/modulus-by-variable guards attach to the enclosing
		// predicate (§4.1): conjoin them into P_i so an item gated by a
		// guarded precondition is never reachable through a division by
		// zero.
		if len(env.Guards) > 0 {
			pTerm = b.Ctx.And(append([]z3.Bool{pTerm}, env.Guards...)...)
		}
		visited[id] = pTerm // an item is visited exactly when its precondition holds

		res.Items[id] = &ItemTerms{
			Item:    it,
			P:       pTerm,
			Q:       qTerms,
			QAll:    b.Ctx.And(qTerms...),
			Outcome: current[id],
			Guards:  env.Guards,
		}
	}

	res.BStar = domainConj
	return res
}

func itemErr(id string, err error) *qmlerr.ItemError {
	if e := constraint.AsItemError(id, err); e != nil {
		return e
	}
	return qmlerr.NewItem(qmlerr.ParseError, id, -1, err.Error())
}

// declareOutcome creates S_i^0 and the domain contribution ⟦D_i⟧ (§4.2).
func (b *Builder) declareOutcome(it *model.Item) (constraint.Value, z3.Bool) {
	name := fmt.Sprintf("S_%s_0", it.ID)

	if it.Domain.Kind == model.BooleanDomain {
		return constraint.NewBoolValue(b.Ctx.BoolVar(name)), b.Ctx.True()
	}

	s := b.Ctx.IntVar(name)
	v := constraint.NewIntValue(s)

	switch it.Domain.Kind {
	case model.IntegerDomain:
		lo := b.Ctx.IntVal(it.Domain.Lo)
		hi := b.Ctx.IntVal(it.Domain.Hi)
		return v, b.Ctx.And(s.GE(lo), s.LE(hi))
	case model.EnumDomain:
		var disjuncts []z3.Bool
		for _, ev := range it.Domain.EnumValues {
			disjuncts = append(disjuncts, s.Eq(b.Ctx.IntVal(ev)))
		}
		return v, b.Ctx.Or(disjuncts...)
	default: // FreeDomain
		return v, b.Ctx.True()
	}
}

func (b *Builder) newEnv(itemID string, current map[string]constraint.Value, visited map[string]z3.Bool) *constraint.Env {
	return &constraint.Env{
		Ctx:    b.Ctx,
		Locals: map[string]constraint.Value{},
		Outcome: func(qid string) (constraint.Value, bool) {
			v, ok := current[qid]
			return v, ok
		},
		Visited: func(qid string) (z3.Bool, bool) {
			v, ok := visited[qid]
			return v, ok
		},
		ItemID: itemID,
	}
}

func compileConjunction(exprs []constraint.Expr, env *constraint.Env) (z3.Bool, error) {
	result := env.Ctx.True()
	for _, e := range exprs {
		v, err := constraint.Compile(e, env)
		if err != nil {
			return z3.Bool{}, err
		}
		if v.Kind != constraint.BoolValue {
			return z3.Bool{}, fmt.Errorf("expression does not evaluate to a boolean")
		}
		result = env.Ctx.And(result, v.B)
	}
	return result, nil
}

func compileEach(exprs []constraint.Expr, env *constraint.Env) ([]z3.Bool, error) {
	terms := make([]z3.Bool, 0, len(exprs))
	for _, e := range exprs {
		v, err := constraint.Compile(e, env)
		if err != nil {
			return nil, err
		}
		if v.Kind != constraint.BoolValue {
			return nil, fmt.Errorf("expression does not evaluate to a boolean")
		}
		terms = append(terms, v.B)
	}
	return terms, nil
}
