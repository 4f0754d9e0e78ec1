package classify

import (
	"testing"
	"time"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/smt"
	"github.com/fadingrose/qmlcheck/topology"
)

func buildOne(t *testing.T, items []*model.Item) (*smt.Context, *analysis.Result) {
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
	return ctx, build
}

func TestClassifyAlwaysReachable(t *testing.T) {
	items := []*model.Item{
		{ID: "q1", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10}},
	}
	ctx, build := buildOne(t, items)
	records := Classify(ctx, build, time.Second)
	if records["q1"].Reach != Always {
		t.Errorf("expected an unconditional item to be ALWAYS reachable, got %v", records["q1"].Reach)
	}
	if records["q1"].Post != None {
		t.Errorf("expected no postconditions to classify as NONE, got %v", records["q1"].Post)
	}
}

func TestClassifyNeverReachable(t *testing.T) {
	items := []*model.Item{
		{ID: "q1", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 10},
			Preconditions: []model.Precondition{{Predicate: "1 == 2"}}},
	}
	ctx, build := buildOne(t, items)
	records := Classify(ctx, build, time.Second)
	rec := records["q1"]
	if rec.Reach != Never {
		t.Fatalf("expected NEVER, got %v", rec.Reach)
	}
	if !rec.Unobservable {
		t.Errorf("expected an unreachable item to be marked unobservable")
	}
}

func TestClassifyConditionalReachableWithWitness(t *testing.T) {
	items := []*model.Item{
		{ID: "age", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 0, Hi: 120}},
		{ID: "adult", Kind: model.Question, Domain: model.Domain{Kind: model.BooleanDomain},
			Preconditions: []model.Precondition{{Predicate: "age.outcome >= 18"}}},
	}
	ctx, build := buildOne(t, items)
	records := Classify(ctx, build, time.Second)
	rec := records["adult"]
	if rec.Reach != Conditional {
		t.Fatalf("expected CONDITIONAL, got %v", rec.Reach)
	}
	if rec.Witness == nil {
		t.Errorf("expected a witness model for a conditionally reachable item")
	}
}

func TestClassifyTautologicalPost(t *testing.T) {
	items := []*model.Item{
		{ID: "q1", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 5, Hi: 5},
			Postconditions: []model.Postcondition{{Predicate: "q1.outcome == 5"}}},
	}
	ctx, build := buildOne(t, items)
	records := Classify(ctx, build, time.Second)
	if records["q1"].Post != Tautological {
		t.Errorf("expected TAUTOLOGICAL, got %v", records["q1"].Post)
	}
}

func TestClassifyInfeasiblePost(t *testing.T) {
	items := []*model.Item{
		{ID: "q1", Kind: model.Question, Domain: model.Domain{Kind: model.IntegerDomain, Lo: 5, Hi: 5},
			Postconditions: []model.Postcondition{{Predicate: "q1.outcome == 6"}}},
	}
	ctx, build := buildOne(t, items)
	records := Classify(ctx, build, time.Second)
	if records["q1"].Post != Infeasible {
		t.Errorf("expected INFEASIBLE, got %v", records["q1"].Post)
	}
}

func TestClassifySkipsCompileErroredItems(t *testing.T) {
	ctx := smt.NewContext()
	build := &analysis.Result{
		BStar: ctx.True(),
		Items: map[string]*analysis.ItemTerms{
			"bad": {Item: &model.Item{ID: "bad"}, Err: qmlerr.NewItem(qmlerr.ParseError, "bad", -1, "boom")},
		},
	}
	records := Classify(ctx, build, time.Second)
	if _, ok := records["bad"]; ok {
		t.Errorf("expected a compile-errored item to be skipped entirely")
	}
}
