// Package pipeline wires the static builder, topology pass, and three
// verification levels into the single forward pass spec.md §2 describes.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/fadingrose/qmlcheck/analysis"
	"github.com/fadingrose/qmlcheck/classify"
	"github.com/fadingrose/qmlcheck/globalformula"
	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/pathcheck"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/report"
	"github.com/fadingrose/qmlcheck/smt"
	"github.com/fadingrose/qmlcheck/topology"
)

// Run is the full pipeline's result, kept around so cmd/qmlcheck's debug
// subcommand can dump any stage without re-running it.
type Run struct {
	Questionnaire *model.Questionnaire
	ItemErrs      map[string]*qmlerr.ItemError
	Structural    []*qmlerr.StructuralError
	Topology      *topology.Result
	Build         *analysis.Result
	Classified    map[string]*classify.Record
	Paths         map[string]*pathcheck.Record
	Global        *globalformula.Result
	Report        *report.Report
}

// Execute runs loader output q through every stage. A cycle or any other
// structural failure short-circuits the remaining stages; the returned Run
// still carries enough to report the failure (§6, §7).
func Execute(q *model.Questionnaire, timeout time.Duration, log *slog.Logger) *Run {
	if log == nil {
		log = slog.Default()
	}
	run := &Run{Questionnaire: q}

	parsed, edges, itemErrs, structural := analysis.ExtractEdges(q)
	run.ItemErrs = itemErrs
	run.Structural = structural
	log.Info("edges extracted", "count", len(edges), "item_errors", len(itemErrs))

	if len(structural) > 0 {
		log.Warn("structural errors, aborting before topology", "count", len(structural))
		run.Report = report.Build(ids(q), itemErrs, nil, nil, nil, nil)
		return run
	}

	ctx := smt.NewContext()

	topo, cycleErr := topology.Compute(ctx, q.Items, edges)
	if cycleErr != nil {
		log.Warn("cycle detected", "path", cycleErr.Cycle)
		run.Structural = append(run.Structural, cycleErr)
		run.Report = report.Build(ids(q), itemErrs, nil, nil, nil, cycleErr.Cycle)
		return run
	}
	run.Topology = topo
	log.Info("topology computed", "order_len", len(topo.Order))

	builder := analysis.NewBuilder(ctx, log)
	build := builder.Build(q, parsed, topo.Order)
	run.Build = build
	for id, it := range build.Items {
		if it.Err != nil {
			run.ItemErrs[id] = it.Err
		}
	}

	classified := classify.Classify(ctx, build, timeout)
	run.Classified = classified
	for id, rec := range classified {
		if rec.ReachUndecided || rec.PostUndecided {
			log.Warn("solver undecided", "item", id)
		}
	}
	log.Info("items classified", "count", len(classified))

	paths := pathcheck.Check(ctx, build, edges, timeout)
	run.Paths = paths

	global := globalformula.Check(ctx, build, classified, timeout)
	run.Global = global
	log.Info("global formula checked", "verdict", global.Verdict)

	run.Report = report.Build(ids(q), run.ItemErrs, classified, paths, global, nil)
	return run
}

func ids(q *model.Questionnaire) []string {
	out := make([]string, 0, len(q.Items))
	for _, it := range q.Items {
		if it.Kind == model.Question {
			out = append(out, it.ID)
		}
	}
	return out
}
