// Package intent implements the deterministic first-pass intent recognizer:
// an ordered pattern engine over the closed intent set, with confidence
// scoring and entity extraction.
package intent

import (
	"regexp"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Pattern is one recognition rule for an intent.
type Pattern struct {
	ID string
	Intent model.Intent
	Regexes []*regexp.Regexp
	Keywords []string
	RequiredEntities []string
	OptionalEntities []string
	Priority int
	Active bool
}

// FromConfig compiles the configured per-intent regex lists
// (config.IntentPatternConfig.Patterns, a map of intent name to ordered
// regex strings) into Patterns. One Pattern is built per configured intent
// entry; its Keywords are left empty, since configuration carries only the
// regex lists (entities are pulled out by the Engine's built-in per-intent
// extractors, not carried in configuration).
func FromConfig(patterns map[string][]string) ([]Pattern, error) {
	var out []Pattern
	for name, regexStrs := range patterns {
		in := model.Intent(name)
		if !in.IsValid() {
			continue
		}
		compiled := make([]*regexp.Regexp, 0, len(regexStrs))
		for _, rs := range regexStrs {
			re, err := regexp.Compile(rs)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, re)
		}
		out = append(out, Pattern{
			ID: name + "-default",
			Intent: in,
			Regexes: compiled,
			Active: true,
		})
	}
	return out, nil
}
