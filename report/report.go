// Package report assembles the final JSON report (spec.md §6) and the exit
// code a batch-validator invocation should return.
package report

import (
	"encoding/json"
	"io"

	"github.com/fadingrose/qmlcheck/classify"
	"github.com/fadingrose/qmlcheck/globalformula"
	"github.com/fadingrose/qmlcheck/pathcheck"
	"github.com/fadingrose/qmlcheck/qmlerr"
)

// ItemError is the wire shape of one attached per-item error.
type ItemError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Item is one item's row in the report's items array.
type Item struct {
	ID      string         `json:"id"`
	Reach   string         `json:"reach,omitempty"`
	Post    string         `json:"post,omitempty"`
	Dead    bool           `json:"dead"`
	Witness map[string]any `json:"witness"`
	Errors  []ItemError    `json:"errors"`
}

// Global is the report's global-verdict section.
type Global struct {
	Verdict  string   `json:"verdict"`
	Conflict []string `json:"conflict"`
}

// Report is the complete JSON document §6 specifies.
type Report struct {
	Valid  bool    `json:"valid"`
	Cycle  []string `json:"cycle"`
	Items  []Item  `json:"items"`
	Global Global  `json:"global"`
}

// Build assembles a Report from every stage's output. ids fixes iteration
// order so the report is deterministic across runs of the same
// questionnaire (§8 "determinism"). cycle is non-nil only when the
// topology pass aborted with CycleDetected, in which case every other
// argument is ignored and the report carries only the path and an
// UNDECIDED global verdict.
func Build(
	ids []string,
	itemErrs map[string]*qmlerr.ItemError,
	classified map[string]*classify.Record,
	paths map[string]*pathcheck.Record,
	global *globalformula.Result,
	cycle []string,
) *Report {
	rep := &Report{}

	if cycle != nil {
		rep.Cycle = cycle
		rep.Valid = false
		rep.Global = Global{Verdict: "UNDECIDED"}
		return rep
	}

	anyDead := false
	for _, id := range ids {
		it := Item{ID: id, Witness: nil, Errors: []ItemError{}}

		if err, ok := itemErrs[id]; ok {
			it.Errors = append(it.Errors, ItemError{Kind: err.Kind.String(), Message: err.Msg})
		}

		if rec, ok := classified[id]; ok {
			it.Reach = string(rec.Reach)
			it.Post = string(rec.Post)
			if rec.Witness != nil {
				it.Witness = rec.Witness
			}
			if rec.Reach == classify.Never || rec.Post == classify.Infeasible {
				anyDead = true
			}
		}

		if pr, ok := paths[id]; ok {
			it.Dead = pr.Dead
			if pr.Dead {
				anyDead = true
			}
		}

		rep.Items = append(rep.Items, it)
	}

	if global != nil {
		rep.Global = Global{Verdict: string(global.Verdict), Conflict: global.Conflict}
	} else {
		rep.Global = Global{Verdict: "UNDECIDED"}
	}

	rep.Valid = !anyDead && rep.Global.Verdict == string(globalformula.Valid) && len(itemErrs) == 0

	return rep
}

// ExitCode maps a completed Report onto the process exit code §6 specifies.
func ExitCode(rep *Report, structuralErr bool) int {
	switch {
	case structuralErr && rep.Cycle != nil:
		return 2
	case structuralErr:
		return 1
	}

	anyItemErr := false
	anyDead := false
	anyUndecided := rep.Global.Verdict == "UNDECIDED"
	for _, it := range rep.Items {
		if len(it.Errors) > 0 {
			anyItemErr = true
		}
		if it.Dead || it.Reach == "NEVER" || it.Post == "INFEASIBLE" {
			anyDead = true
		}
		if it.Reach == "" || it.Post == "UNDECIDED" {
			anyUndecided = true
		}
	}

	switch {
	case anyItemErr:
		return 1
	case rep.Global.Verdict == string(globalformula.Inconsistent):
		return 4
	case anyDead:
		return 3
	case anyUndecided:
		return 5
	default:
		return 0
	}
}

// Write encodes the report as indented JSON, the format a CLI invocation
// prints to stdout.
func Write(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
