package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
)

// Load decodes and schema-checks a YAML questionnaire document, returning
// the typed model. Errors returned here are always *qmlerr.StructuralError
// (§4.7: SchemaError, DuplicateItemId, EmptyQuestionnaire).
func Load(r io.Reader) (*model.Questionnaire, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, qmlerr.NewStructural(qmlerr.SchemaError, fmt.Sprintf("read: %v", err))
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, qmlerr.NewStructural(qmlerr.SchemaError, fmt.Sprintf("yaml: %v", err))
	}

	if err := checkVersion(doc.QMLVersion); err != nil {
		return nil, qmlerr.NewStructural(qmlerr.SchemaError, err.Error())
	}

	if doc.Questionnaire.Title == "" && len(doc.Questionnaire.Blocks) == 0 {
		return nil, qmlerr.NewStructural(qmlerr.SchemaError, "missing required key: questionnaire")
	}

	q := &model.Questionnaire{
		Title:      doc.Questionnaire.Title,
		QMLVersion: doc.QMLVersion,
		CodeInit:   doc.Questionnaire.CodeInit,
	}

	seen := make(map[string]bool)
	index := 0
	for _, b := range doc.Questionnaire.Blocks {
		for _, raw := range b.Items {
			it, err := convertItem(raw, b, index)
			if err != nil {
				return nil, err
			}
			if seen[it.ID] {
				return nil, qmlerr.NewStructuralItem(qmlerr.DuplicateItemID, it.ID, -1,
					fmt.Sprintf("item id %q appears more than once", it.ID))
			}
			seen[it.ID] = true
			q.Items = append(q.Items, it)
			index++
		}
	}

	if len(q.Items) == 0 {
		return nil, qmlerr.NewStructural(qmlerr.EmptyQuestionnaire, "questionnaire has no items")
	}

	return q, nil
}

func convertItem(raw item, b block, originIndex int) (*model.Item, error) {
	if raw.ID == "" {
		return nil, qmlerr.NewStructural(qmlerr.SchemaError, "item missing required key: id")
	}

	kind, err := parseKind(raw.Kind)
	if err != nil {
		return nil, qmlerr.NewStructuralItem(qmlerr.SchemaError, raw.ID, -1, err.Error())
	}

	it := &model.Item{
		ID:          raw.ID,
		Kind:        kind,
		Title:       raw.Title,
		Code:        raw.CodeBlock,
		OriginIndex: originIndex,
		BlockID:     b.ID,
		BlockTitle:  b.Title,
	}

	if kind == model.Question {
		d, err := convertDomain(raw)
		if err != nil {
			return nil, qmlerr.NewStructuralItem(qmlerr.SchemaError, raw.ID, -1, err.Error())
		}
		it.Domain = d
	}

	for _, p := range raw.Precondition {
		it.Preconditions = append(it.Preconditions, model.Precondition{Predicate: p.Predicate, Hint: p.Hint})
	}
	for _, p := range raw.Postcondition {
		it.Postconditions = append(it.Postconditions, model.Postcondition{Predicate: p.Predicate, Hint: p.Hint})
	}

	return it, nil
}

func parseKind(s string) (model.Kind, error) {
	switch s {
	case "", "Question":
		return model.Question, nil
	case "Comment":
		return model.Comment, nil
	case "Group":
		return model.Group, nil
	default:
		return model.Question, fmt.Errorf("unknown item kind %q", s)
	}
}

// convertDomain derives a model.Domain from an item's input block, per §6:
// min/max for Editbox/Slider, labels (old form) or options (new form) for
// Radio/RadioButton controls. A Question with no input block and no
// constraining keys gets Free; a Free domain is accepted even when other
// items reference its outcome.
func convertDomain(raw item) (model.Domain, error) {
	if raw.Input == nil {
		return model.Domain{Kind: model.FreeDomain}, nil
	}
	in := raw.Input

	switch in.Control {
	case "Checkbox", "Boolean":
		return model.Domain{Kind: model.BooleanDomain}, nil

	case "Radio", "RadioButton":
		var values []int64
		if len(in.Options) > 0 {
			for _, o := range in.Options {
				values = append(values, o.Value)
			}
		} else if len(in.Labels) > 0 {
			for v := range in.Labels {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return model.Domain{}, fmt.Errorf("control %q requires labels or options", in.Control)
		}
		return model.Domain{Kind: model.EnumDomain, EnumValues: values}, nil

	case "Editbox", "Slider":
		lo := int64(model.DefaultIntMin)
		hi := int64(model.DefaultIntMax)
		if in.Min != nil {
			lo = *in.Min
		}
		if in.Max != nil {
			hi = *in.Max
		}
		if lo > hi {
			return model.Domain{}, fmt.Errorf("input min (%d) exceeds max (%d)", lo, hi)
		}
		return model.Domain{Kind: model.IntegerDomain, Lo: lo, Hi: hi}, nil

	case "":
		return model.Domain{Kind: model.FreeDomain}, nil

	default:
		return model.Domain{}, fmt.Errorf("unknown input control %q", in.Control)
	}
}
