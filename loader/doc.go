// Package loader decodes the YAML questionnaire document (spec.md §6) into
// the model package's typed representation, performing the schema checks
// named in §4.7.
package loader

import (
	"fmt"
)

// document mirrors the YAML wire shape exactly; it is decoded first and
// converted to *model.Questionnaire afterward so yaml struct tags never leak
// into the rest of the pipeline.
type document struct {
	QMLVersion    string        `yaml:"qmlVersion"`
	Questionnaire questionnaire `yaml:"questionnaire"`
}

type questionnaire struct {
	Title    string  `yaml:"title"`
	CodeInit string  `yaml:"codeInit"`
	Blocks   []block `yaml:"blocks"`
}

type block struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Items []item `yaml:"items"`
}

type item struct {
	ID            string          `yaml:"id"`
	Kind          string          `yaml:"kind"`
	Title         string          `yaml:"title"`
	Input         *inputSpec      `yaml:"input"`
	Precondition  []predicateSpec `yaml:"precondition"`
	Postcondition []predicateSpec `yaml:"postcondition"`
	CodeBlock     string          `yaml:"codeBlock"`
}

type inputSpec struct {
	Control string         `yaml:"control"`
	Min     *int64         `yaml:"min"`
	Max     *int64         `yaml:"max"`
	Step    *int64         `yaml:"step"`
	Labels  map[int64]string `yaml:"labels"`
	Options []optionSpec   `yaml:"options"`
}

type optionSpec struct {
	Value int64  `yaml:"value"`
	Label string `yaml:"label"`
}

type predicateSpec struct {
	Predicate string `yaml:"predicate"`
	Hint      string `yaml:"hint"`
}

// supportedMajor is the only qmlVersion major this loader accepts ("reject
// unknown majors", §6).
const supportedMajor = "1"

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	major := v
	for i, r := range v {
		if r == '.' {
			major = v[:i]
			break
		}
	}
	if major != supportedMajor {
		return fmt.Errorf("unsupported qmlVersion %q: major must be %q", v, supportedMajor)
	}
	return nil
}
