package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// DefaultMinConfidence is the threshold below which a candidate match is
// dropped.
const DefaultMinConfidence = 0.3

// Match is one candidate intent recognition.
type Match struct {
	Intent model.Intent
	PatternID string
	Confidence float64
	Entities []model.Entity
}

// Engine holds the ordered pattern set and runs the deterministic
// recognition algorithm.
type Engine struct {
	Patterns []Pattern
	MinConfidence float64
}

// New builds an Engine from a compiled pattern set.
func New(patterns []Pattern) *Engine {
	return &Engine{Patterns: patterns, MinConfidence: DefaultMinConfidence}
}

// Match runs its five-step algorithm against text.
func (e *Engine) Match(text string) []Match {
	normalized := strings.ToLower(strings.TrimSpace(text))

	best := make(map[string]Match) // patternID -> best candidate
	for _, pattern := range e.Patterns {
		if !pattern.Active {
			continue
		}
		for _, re := range pattern.Regexes {
			loc := re.FindStringIndex(normalized)
			if loc == nil {
				continue
			}
			matchedKeywords := countMatchedKeywords(normalized, pattern.Keywords)
			confidence := confidenceFor(pattern, loc, matchedKeywords, len(normalized))

			existing, ok := best[pattern.ID]
			if !ok || confidence > existing.Confidence {
				best[pattern.ID] = Match{
					Intent: pattern.Intent,
					PatternID: pattern.ID,
					Confidence: confidence,
					Entities: extractEntities(pattern.Intent, text),
				}
			}
		}
	}

	matches := make([]Match, 0, len(best))
	for _, m := range best {
		if m.Confidence >= e.minConfidence() {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].PatternID < matches[j].PatternID
	})
	return matches
}

func (e *Engine) minConfidence() float64 {
	if e.MinConfidence > 0 {
		return e.MinConfidence
	}
	return DefaultMinConfidence
}

func countMatchedKeywords(normalized string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(normalized, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}

// confidenceFor implements its exact formula: "0.5 +
// 0.3·(matchedKeywords/len(keywords)) + min(0.2, matchLength/textLength ·
// 0.2) + (matchIndex==0 ? 0.1 : 0); clamped to [0,1]".
func confidenceFor(pattern Pattern, loc []int, matchedKeywords, textLength int) float64 {
	confidence := 0.5
	if len(pattern.Keywords) > 0 {
		confidence += 0.3 * (float64(matchedKeywords) / float64(len(pattern.Keywords)))
	}
	matchLength := loc[1] - loc[0]
	if textLength > 0 {
		lengthBonus := float64(matchLength) / float64(textLength) * 0.2
		if lengthBonus > 0.2 {
			lengthBonus = 0.2
		}
		confidence += lengthBonus
	}
	if loc[0] == 0 {
		confidence += 0.1
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

var (
	tagRE = regexp.MustCompile(`#(\w+)`)
	integerRE = regexp.MustCompile(`\b\d+\b`)
	quotedRE = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
)

// extractEntities runs intent-specific extractors against the original,
// case-preserving text, falling back to the generic
// tag/integer extractor that applies regardless of intent.
func extractEntities(in model.Intent, originalText string) []model.Entity {
	var entities []model.Entity

	switch in {
	case model.IntentCreateProject, model.IntentOpenProject, model.IntentUpdateProject, model.IntentArchiveProject:
		entities = append(entities, extractNamedEntity("project_name", originalText)...)
	case model.IntentCreateTask, model.IntentRunTask, model.IntentRefineTask, model.IntentAssignTask:
		entities = append(entities, extractNamedEntity("task_info", originalText)...)
	case model.IntentCheckStatus:
		entities = append(entities, extractNamedEntity("status_info", originalText)...)
	case model.IntentSearchFiles, model.IntentSearchContent:
		entities = append(entities, extractNamedEntity("search_info", originalText)...)
	case model.IntentImportArtifact, model.IntentParsePRD, model.IntentParseTasks:
		entities = append(entities, extractNamedEntity("artifact_info", originalText)...)
	}

	entities = append(entities, extractGenericEntities(originalText)...)
	return entities
}

// extractNamedEntity extracts a quoted span (the common case for
// project/task/search text) as an entity of kind name.
func extractNamedEntity(name, text string) []model.Entity {
	m := quotedRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value := m[1]
	if value == "" {
		value = m[2]
	}
	return []model.Entity{{Type: name, Value: value, Confidence: 0.9}}
}

// extractGenericEntities extracts #tags and bare integers, which apply to
// any intent.
func extractGenericEntities(text string) []model.Entity {
	var entities []model.Entity
	for _, m := range tagRE.FindAllStringSubmatch(text, -1) {
		entities = append(entities, model.Entity{Type: "tag", Value: m[1], Confidence: 0.8})
	}
	for _, m := range integerRE.FindAllString(text, -1) {
		if _, err := strconv.Atoi(m); err == nil {
			entities = append(entities, model.Entity{Type: "integer", Value: m, Confidence: 0.8})
		}
	}
	return entities
}
