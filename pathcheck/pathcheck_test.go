package pathcheck

import (
	"testing"
	"time"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/smt"
	"github.com/fadingrose/qmlcheck/topology"
)

func buildOne(t *testing.T, items []*model.Item) (*smt.Context, *analysis.Result, []topology.Edge) {
	t.Helper()
	q := &model.Questionnaire{Items: items}
	parsed, edges, itemErrs, structural := analysis.ExtractEdges(q)
	if len(structural) != 0 || len(itemErrs) != 0 {
		t.Fatalf("unexpected errors: structural=%v item=%v", structural, itemErrs)
	}
	ctx := smt.NewContext()
	res, sErr := topology.Compute(ctx, q.Items, edges)
	if sErr != nil {
		t.Fatalf("unexpected topology error: %v", sErr)
	}
	build := analysis.NewBuilder(ctx, nil).Build(q, parsed, res.Order)
	return ctx, build, edges
}

func TestCheckAliveAlongChain(t *testing.T) {
	items := []*model.Item{
		{ID: "a", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10}},
		{ID: "b", Kind: model.Question, Domain: model.Domain{Kind: model.BooleanDomain},
			Preconditions: []model.Precondition{{Predicate: "a.outcome >= 5"}}},
	}
	ctx, build, edges := buildOne(t, items)
	records := Check(ctx, build, edges, time.Second)
	if records["b"].Dead {
		t.Errorf("expected 'b' to remain reachable once 'a' is assumed visited")
	}
}

func TestCheckDeadWhenAncestorImplicationContradicts(t *testing.T) {
	items := []*model.Item{
		{ID: "a", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10},
			Postconditions: []model.Postcondition{{Predicate: "a.outcome < 5"}}},
		{ID: "b", Kind: model.Question, Domain: model.Domain{Kind: model.BooleanDomain},
			Preconditions: []model.Precondition{{Predicate: "a.outcome >= 5"}}},
	}
	ctx, build, edges := buildOne(t, items)
	records := Check(ctx, build, edges, time.Second)
	if !records["b"].Dead {
		t.Errorf("expected 'b' to be dead: its precondition contradicts 'a's asserted postcondition")
	}
}

func TestCheckIndependentItemsAreAlive(t *testing.T) {
	items := []*model.Item{
		{ID: "a", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10}},
		{ID: "b", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10}},
	}
	ctx, build, edges := buildOne(t, items)
	records := Check(ctx, build, edges, time.Second)
	if records["a"].Dead || records["b"].Dead {
		t.Errorf("expected both independent items to be alive")
	}
}
