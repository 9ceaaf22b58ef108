package curator

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/forgeflow-dev/taskforge/pkg/codemap"
	"github.com/forgeflow-dev/taskforge/pkg/config"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// discoveryPhase is Phase 4 — Multi-Strategy File Discovery:
// four strategies run concurrently over the code map; results are
// consolidated by union on path, taking the max confidence and the
// highest priority seen across strategies.
//
// The four strategies map onto config.DiscoveryStrategy's four values:
// keyword (keyword_matching), semantic (semantic_similarity — approximated
// below, since no embeddings index is wired; see DESIGN.md), import_graph
// and structure together stand in for its structural_analysis /
// semantic_and_keyword pairing — import_graph follows import edges from
// the keyword-matched files, structure layers the code map's own
// directory/pattern signals on top of the keyword matches.
type discoveryPhase struct {
	gateway Gateway
	enabled []config.DiscoveryStrategy
}

func (p *discoveryPhase) Name() string { return "multi_strategy_discovery" }

func (p *discoveryPhase) strategies() []config.DiscoveryStrategy {
	if len(p.enabled) > 0 {
		return p.enabled
	}
	return []config.DiscoveryStrategy{
		config.DiscoveryStrategyKeyword,
		config.DiscoveryStrategySemantic,
		config.DiscoveryStrategyImport,
		config.DiscoveryStrategyStructure,
	}
}

func (p *discoveryPhase) Run(ctx context.Context, st *State) error {
	archInfo := codemap.ExtractArchitecturalInfo(st.CodemapContent)
	deps := codemap.ExtractDependencyInfo(st.CodemapContent)
	keywordMatches := codemap.ExtractRelevantFiles(st.CodemapContent, st.RefinedPrompt)

	strategies := p.strategies()
	results := make([][]DiscoveredFile, len(strategies))

	group, _ := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		i, strategy := i, strategy
		group.Go(func() error {
			files, err := p.runStrategy(strategy, archInfo, deps, keywordMatches)
			if err != nil {
				// A single strategy's failure logs a warning but does not
				// fail the phase, provided at least one strategy returned
				// results.
				st.warn("discovery strategy " + string(strategy) + " failed: " + err.Error())
				return nil
			}
			results[i] = files
			return nil
		})
	}
	_ = group.Wait() // runStrategy never returns a hard error; see above

	consolidated := consolidate(results)
	if len(consolidated) == 0 {
		st.warn("no discovery strategy returned any candidate files")
	}
	st.Candidates = consolidated
	return nil
}

func (p *discoveryPhase) runStrategy(strategy config.DiscoveryStrategy, archInfo codemap.ArchitecturalInfo, deps []codemap.DependencyInfo, keywordMatches []string) ([]DiscoveredFile, error) {
	switch strategy {
	case config.DiscoveryStrategyKeyword:
		return keywordStrategy(keywordMatches), nil
	case config.DiscoveryStrategySemantic:
		return semanticStrategy(keywordMatches, archInfo), nil
	case config.DiscoveryStrategyImport:
		return importGraphStrategy(deps, keywordMatches), nil
	case config.DiscoveryStrategyStructure:
		return structureStrategy(archInfo), nil
	default:
		return nil, nil
	}
}

func keywordStrategy(matches []string) []DiscoveredFile {
	out := make([]DiscoveredFile, 0, len(matches))
	for _, path := range matches {
		out = append(out, DiscoveredFile{
			Path: path,
			Priority: model.FilePriorityMedium,
			Reasoning: "keyword overlap with the refined prompt",
			Confidence: 0.6,
			ModificationLikelihood: model.ModificationLikelihoodMedium,
			Strategies: []string{string(config.DiscoveryStrategyKeyword)},
		})
	}
	return out
}

// semanticStrategy approximates nearest-neighbour similarity with the
// keyword overlap set, boosting confidence for files whose path also names
// an architectural pattern or framework — the closest signal available
// without a wired embeddings index.
func semanticStrategy(matches []string, archInfo codemap.ArchitecturalInfo) []DiscoveredFile {
	out := make([]DiscoveredFile, 0, len(matches))
	for _, path := range matches {
		confidence := 0.5
		lower := strings.ToLower(path)
		for _, pattern := range archInfo.Patterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				confidence = 0.75
				break
			}
		}
		out = append(out, DiscoveredFile{
			Path: path,
			Priority: model.FilePriorityMedium,
			Reasoning: "semantic proximity to the refined prompt",
			Confidence: confidence,
			ModificationLikelihood: model.ModificationLikelihoodMedium,
			Strategies: []string{string(config.DiscoveryStrategySemantic)},
		})
	}
	return out
}

// importGraphStrategy follows import/require edges from the files already
// selected by a keyword match.
func importGraphStrategy(deps []codemap.DependencyInfo, seeds []string) []DiscoveredFile {
	seedSet := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		seedSet[filepath.Base(s)] = true
	}

	var out []DiscoveredFile
	seen := make(map[string]bool)
	for _, dep := range deps {
		if dep.IsExternal || seen[dep.Target] {
			continue
		}
		for seed := range seedSet {
			if strings.Contains(dep.Target, strings.TrimSuffix(seed, filepath.Ext(seed))) {
				out = append(out, DiscoveredFile{
					Path: dep.Target,
					Priority: model.FilePriorityHigh,
					Reasoning: "imported by a file already selected with high confidence",
					Confidence: 0.8,
					ModificationLikelihood: model.ModificationLikelihoodHigh,
					Strategies: []string{string(config.DiscoveryStrategyImport)},
				})
				seen[dep.Target] = true
				break
			}
		}
	}
	return out
}

// structureStrategy surfaces the project's own entry points and config
// files as low-confidence reference candidates, reflecting the code map's
// project-structure pattern recognition.
func structureStrategy(archInfo codemap.ArchitecturalInfo) []DiscoveredFile {
	out := make([]DiscoveredFile, 0, len(archInfo.EntryPoints))
	for _, path := range archInfo.EntryPoints {
		out = append(out, DiscoveredFile{
			Path: path,
			Priority: model.FilePriorityLow,
			Reasoning: "project entry point",
			Confidence: 0.3,
			ModificationLikelihood: model.ModificationLikelihoodLow,
			Strategies: []string{string(config.DiscoveryStrategyStructure)},
		})
	}
	return out
}

// consolidate unions candidate files by path across strategies, taking the
// max confidence, the highest priority seen, and counting duplicates.
func consolidate(results [][]DiscoveredFile) []DiscoveredFile {
	byPath := make(map[string]*DiscoveredFile)
	var order []string

	for _, files := range results {
		for _, f := range files {
			existing, ok := byPath[f.Path]
			if !ok {
				copyF := f
				copyF.DuplicateCount = 1
				byPath[f.Path] = &copyF
				order = append(order, f.Path)
				continue
			}
			existing.DuplicateCount++
			if f.Confidence > existing.Confidence {
				existing.Confidence = f.Confidence
			}
			if priorityRank(f.Priority) > priorityRank(existing.Priority) {
				existing.Priority = f.Priority
			}
			existing.Strategies = append(existing.Strategies, f.Strategies...)
		}
	}

	out := make([]DiscoveredFile, 0, len(order))
	for _, path := range order {
		out = append(out, *byPath[path])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func priorityRank(p model.FilePriority) int {
	switch p {
	case model.FilePriorityHigh:
		return 2
	case model.FilePriorityMedium:
		return 1
	default:
		return 0
	}
}
