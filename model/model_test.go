package model

import "testing"

func TestQuestionnaireByID(t *testing.T) {
	q := &Questionnaire{
		Items: []*Item{
			{ID: "q1", Kind: Question},
			{ID: "q2", Kind: Comment},
		},
	}

	tcs := []struct {
		id       string
		wantNil  bool
		wantKind Kind
	}{
		{id: "q1", wantKind: Question},
		{id: "q2", wantKind: Comment},
		{id: "missing", wantNil: true},
	}
	for _, tc := range tcs {
		it := q.ByID(tc.id)
		if tc.wantNil {
			if it != nil {
				t.Errorf("ByID(%q): expected nil, got %+v", tc.id, it)
			}
			continue
		}
		if it == nil {
			t.Fatalf("ByID(%q): expected an item, got nil", tc.id)
		}
		if it.Kind != tc.wantKind {
			t.Errorf("ByID(%q): expected kind %v, got %v", tc.id, tc.wantKind, it.Kind)
		}
	}
}

func TestHasOutcome(t *testing.T) {
	tcs := []struct {
		kind     Kind
		expected bool
	}{
		{Question, true},
		{Comment, false},
		{Group, false},
	}
	for _, tc := range tcs {
		it := &Item{Kind: tc.kind}
		if got := it.HasOutcome(); got != tc.expected {
			t.Errorf("kind %v: expected HasOutcome=%v, got %v", tc.kind, tc.expected, got)
		}
	}
}

func TestKindString(t *testing.T) {
	tcs := []struct {
		kind     Kind
		expected string
	}{
		{Question, "Question"},
		{Comment, "Comment"},
		{Group, "Group"},
		{Kind(99), "Unknown"},
	}
	for _, tc := range tcs {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, got)
		}
	}
}
