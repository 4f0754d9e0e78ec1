package loader

import (
	"strings"
	"testing"

	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
)

func mustStructural(t *testing.T, err error) *qmlerr.StructuralError {
	t.Helper()
	se, ok := err.(*qmlerr.StructuralError)
	if !ok {
		t.Fatalf("expected *qmlerr.StructuralError, got %T (%v)", err, err)
	}
	return se
}

func TestLoadValidDocument(t *testing.T) {
	doc := `
qmlVersion: "1.0"
questionnaire:
  title: demo
  blocks:
    - id: b1
      title: Block One
      items:
        - id: age
          kind: Question
          input:
            control: Editbox
            min: 0
            max: 120
        - id: adult
          kind: Question
          input:
            control: Checkbox
          precondition:
            - predicate: "age.outcome >= 18"
`
	q, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Title != "demo" {
		t.Errorf("expected title 'demo', got %q", q.Title)
	}
	if len(q.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(q.Items))
	}
	age := q.ByID("age")
	if age == nil {
		t.Fatal("expected item 'age' to exist")
	}
	if age.Domain.Kind != model.IntegerDomain || age.Domain.Lo != 0 || age.Domain.Hi != 120 {
		t.Errorf("unexpected age domain: %+v", age.Domain)
	}
	adult := q.ByID("adult")
	if adult == nil {
		t.Fatal("expected item 'adult' to exist")
	}
	if adult.Domain.Kind != model.BooleanDomain {
		t.Errorf("expected boolean domain, got %+v", adult.Domain)
	}
	if len(adult.Preconditions) != 1 || adult.Preconditions[0].Predicate != "age.outcome >= 18" {
		t.Errorf("unexpected preconditions: %+v", adult.Preconditions)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	doc := `
qmlVersion: "2.0"
questionnaire:
  title: demo
  blocks:
    - id: b1
      items:
        - id: q1
          kind: Question
`
	_, err := Load(strings.NewReader(doc))
	se := mustStructural(t, err)
	if se.Kind != qmlerr.SchemaError {
		t.Errorf("expected SchemaError, got %v", se.Kind)
	}
}

func TestLoadRejectsDuplicateItemID(t *testing.T) {
	doc := `
questionnaire:
  title: demo
  blocks:
    - id: b1
      items:
        - id: q1
          kind: Question
        - id: q1
          kind: Question
`
	_, err := Load(strings.NewReader(doc))
	se := mustStructural(t, err)
	if se.Kind != qmlerr.DuplicateItemID {
		t.Errorf("expected DuplicateItemID, got %v", se.Kind)
	}
}

func TestLoadRejectsEmptyQuestionnaire(t *testing.T) {
	doc := `
questionnaire:
  title: demo
  blocks: []
`
	_, err := Load(strings.NewReader(doc))
	se := mustStructural(t, err)
	if se.Kind != qmlerr.EmptyQuestionnaire {
		t.Errorf("expected EmptyQuestionnaire, got %v", se.Kind)
	}
}

func TestConvertDomain(t *testing.T) {
	two := int64(2)
	ten := int64(10)
	tcs := []struct {
		name    string
		raw     item
		want    model.DomainKind
		wantErr bool
	}{
		{name: "no input is free", raw: item{}, want: model.FreeDomain},
		{name: "checkbox is boolean", raw: item{Input: &inputSpec{Control: "Checkbox"}}, want: model.BooleanDomain},
		{
			name: "editbox with bounds",
			raw:  item{Input: &inputSpec{Control: "Editbox", Min: &two, Max: &ten}},
			want: model.IntegerDomain,
		},
		{
			name:    "editbox with inverted bounds errors",
			raw:     item{Input: &inputSpec{Control: "Editbox", Min: &ten, Max: &two}},
			wantErr: true,
		},
		{
			name: "radiobutton with options is enum",
			raw: item{Input: &inputSpec{Control: "RadioButton", Options: []optionSpec{
				{Value: 1, Label: "yes"}, {Value: 0, Label: "no"},
			}}},
			want: model.EnumDomain,
		},
		{
			name:    "radio with no labels or options errors",
			raw:     item{Input: &inputSpec{Control: "Radio"}},
			wantErr: true,
		},
		{
			name:    "unknown control errors",
			raw:     item{Input: &inputSpec{Control: "Whatsit"}},
			wantErr: true,
		},
	}
	for _, tc := range tcs {
		d, err := convertDomain(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got none", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if d.Kind != tc.want {
			t.Errorf("%s: expected domain kind %v, got %v", tc.name, tc.want, d.Kind)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	tcs := []struct {
		version string
		wantErr bool
	}{
		{version: "", wantErr: false},
		{version: "1", wantErr: false},
		{version: "1.0", wantErr: false},
		{version: "1.3.2", wantErr: false},
		{version: "2.0", wantErr: true},
	}
	for _, tc := range tcs {
		err := checkVersion(tc.version)
		if tc.wantErr != (err != nil) {
			t.Errorf("checkVersion(%q): wantErr=%v, got err=%v", tc.version, tc.wantErr, err)
		}
	}
}
