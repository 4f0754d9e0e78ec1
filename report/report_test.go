package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fadingrose/qmlcheck/classify"
	"github.com/fadingrose/qmlcheck/globalformula"
	"github.com/fadingrose/qmlcheck/qmlerr"
)

func TestBuildCycleShortCircuits(t *testing.T) {
	rep := Build([]string{"a", "b"}, nil, nil, nil, nil, []string{"a", "b", "a"})
	if rep.Valid {
		t.Errorf("expected an invalid report when a cycle is present")
	}
	if len(rep.Cycle) != 3 {
		t.Errorf("expected the cycle path to be carried through unchanged")
	}
	if rep.Global.Verdict != "UNDECIDED" {
		t.Errorf("expected UNDECIDED global verdict for a cycle report")
	}
	if len(rep.Items) != 0 {
		t.Errorf("expected no items in a cycle report")
	}
}

func TestBuildAllLiveAndValid(t *testing.T) {
	classified := map[string]*classify.Record{
		"a": {ItemID: "a", Reach: classify.Always, Post: classify.None},
	}
	global := &globalformula.Result{Verdict: globalformula.Valid}
	rep := Build([]string{"a"}, nil, classified, nil, global, nil)
	if !rep.Valid {
		t.Fatalf("expected a valid report, got %+v", rep)
	}
	if rep.Items[0].Reach != "ALWAYS" {
		t.Errorf("expected item reach ALWAYS, got %q", rep.Items[0].Reach)
	}
}

func TestBuildNeverItemMarksInvalid(t *testing.T) {
	classified := map[string]*classify.Record{
		"a": {ItemID: "a", Reach: classify.Never, Post: classify.None},
	}
	global := &globalformula.Result{Verdict: globalformula.Valid}
	rep := Build([]string{"a"}, nil, classified, nil, global, nil)
	if rep.Valid {
		t.Errorf("expected an invalid report when an item is NEVER reachable")
	}
}

func TestBuildItemErrorMarksInvalid(t *testing.T) {
	itemErrs := map[string]*qmlerr.ItemError{
		"a": qmlerr.NewItem(qmlerr.ParseError, "a", 3, "bad token"),
	}
	rep := Build([]string{"a"}, itemErrs, nil, nil, nil, nil)
	if rep.Valid {
		t.Errorf("expected an invalid report when an item has a compile error")
	}
	if len(rep.Items[0].Errors) != 1 {
		t.Fatalf("expected one attached error, got %v", rep.Items[0].Errors)
	}
	if rep.Items[0].Errors[0].Kind != "ParseError" {
		t.Errorf("expected ParseError kind, got %q", rep.Items[0].Errors[0].Kind)
	}
}

func TestExitCodeTable(t *testing.T) {
	tcs := []struct {
		name          string
		rep           *Report
		structuralErr bool
		want          int
	}{
		{
			name:          "structural error with cycle",
			rep:           &Report{Cycle: []string{"a", "b", "a"}, Global: Global{Verdict: "UNDECIDED"}},
			structuralErr: true,
			want:          2,
		},
		{
			name:          "structural error without cycle",
			rep:           &Report{Global: Global{Verdict: "UNDECIDED"}},
			structuralErr: true,
			want:          1,
		},
		{
			name: "item compile error",
			rep: &Report{
				Global: Global{Verdict: "VALID"},
				Items:  []Item{{ID: "a", Errors: []ItemError{{Kind: "ParseError", Message: "x"}}}},
			},
			want: 1,
		},
		{
			name: "global inconsistent",
			rep: &Report{
				Global: Global{Verdict: "INCONSISTENT"},
				Items:  []Item{{ID: "a", Reach: "ALWAYS", Post: "NONE"}},
			},
			want: 4,
		},
		{
			name: "dead item",
			rep: &Report{
				Global: Global{Verdict: "VALID"},
				Items:  []Item{{ID: "a", Reach: "NEVER", Post: "NONE"}},
			},
			want: 3,
		},
		{
			name: "undecided",
			rep: &Report{
				Global: Global{Verdict: "VALID"},
				Items:  []Item{{ID: "a", Reach: "ALWAYS", Post: "UNDECIDED"}},
			},
			want: 5,
		},
		{
			name: "all live and valid",
			rep: &Report{
				Global: Global{Verdict: "VALID"},
				Items:  []Item{{ID: "a", Reach: "ALWAYS", Post: "NONE"}},
			},
			want: 0,
		},
	}
	for _, tc := range tcs {
		if got := ExitCode(tc.rep, tc.structuralErr); got != tc.want {
			t.Errorf("%s: ExitCode() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWriteProducesIndentedJSON(t *testing.T) {
	rep := &Report{Valid: true, Global: Global{Verdict: "VALID"}}
	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var round Report
	if err := json.Unmarshal(buf.Bytes(), &round); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !round.Valid || round.Global.Verdict != "VALID" {
		t.Errorf("round-tripped report mismatch: %+v", round)
	}
	if !bytes.Contains(buf.Bytes(), []byte("  \"valid\"")) {
		t.Errorf("expected indented JSON output, got %s", buf.String())
	}
}
