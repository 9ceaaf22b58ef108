package curator

import (
	"context"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// DefaultTokenBudget is used when Request.TokenBudget is unset.
const DefaultTokenBudget = 80000

// DefaultMaxContentLength and DefaultOptimizationThreshold bound how much
// of a single file's raw content Phase 7 will embed before trimming it
// into an excerpt.
const (
	DefaultMaxContentLength = 60000
	DefaultOptimizationThreshold = 20000
)

// ReferenceTokenEstimate is the token cost charged against the budget for
// a low-priority FileReference: path, relevance score, and other metadata,
// never the file's content. Flat rather than content-derived, since a
// reference carries no content to estimate from.
const ReferenceTokenEstimate = 20

// assemblyPhase is Phase 7 — Package Assembly.
type assemblyPhase struct {
	reader FileReader
	maxContentLength int
	optimizationThreshold int
}

func (p *assemblyPhase) Name() string { return "package_assembly" }

func (p *assemblyPhase) Run(ctx context.Context, st *State) error {
	maxLen := p.maxContentLength
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLength
	}
	optThreshold := p.optimizationThreshold
	if optThreshold <= 0 {
		optThreshold = DefaultOptimizationThreshold
	}
	budget := st.Request.TokenBudget
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	pkg := &model.ContextPackage{RefinedPrompt: st.RefinedPrompt, CodemapPath: st.CodemapPath}
	remaining := budget

	demote := func(sf ScoredFile) {
		ref := p.buildReference(sf)
		if ref.TokenEstimate > remaining {
			st.warn("dropping " + sf.Path + ": token budget exhausted even for a reference entry")
			return
		}
		remaining -= ref.TokenEstimate
		pkg.LowPriorityFiles = append(pkg.LowPriorityFiles, ref)
	}

	for _, sf := range st.Scored {
		class := sf.Relevance.PriorityClass()

		if class == model.FilePriorityLow {
			demote(sf)
			continue
		}

		packaged, tokens, err := p.buildPackagedFile(sf, maxLen, optThreshold)
		if err != nil {
			st.warn("reading " + sf.Path + " failed, demoting to reference: " + err.Error())
			demote(sf)
			continue
		}

		if tokens > remaining {
			// Greedy token-budget fill exhausted: demote to reference-only.
			demote(sf)
			continue
		}

		remaining -= tokens
		if class == model.FilePriorityHigh {
			pkg.HighPriorityFiles = append(pkg.HighPriorityFiles, packaged)
		} else {
			pkg.MediumPriorityFiles = append(pkg.MediumPriorityFiles, packaged)
		}
	}

	pkg.MetaPrompt = st.MetaPrompt
	st.Package = pkg
	return nil
}

func (p *assemblyPhase) buildReference(sf ScoredFile) model.FileReference {
	_, lastModified, size, err := p.reader.ReadFile(sf.Path)
	ref := model.FileReference{
		Path: sf.Path,
		Relevance: sf.Relevance.Overall,
		Language: languageOf(sf.Path),
		TokenEstimate: ReferenceTokenEstimate,
	}
	if err == nil {
		ref.Size = size
		ref.LastModified = lastModified
	}
	return ref
}

func (p *assemblyPhase) buildPackagedFile(sf ScoredFile, maxLen, optThreshold int) (model.PackagedFile, int, error) {
	content, lastModified, _, err := p.reader.ReadFile(sf.Path)
	if err != nil {
		return model.PackagedFile{}, 0, err
	}

	if len(content) > maxLen {
		content = content[:maxLen]
	}

	file := model.PackagedFile{
		Path: sf.Path,
		Content: content,
		TotalLines: countLines(content),
		Reasoning: joinReasoning(sf),
		Language: languageOf(sf.Path),
		LastModified: lastModified,
		Relevance: sf.Relevance,
	}

	if len(content) > optThreshold {
		file.IsOptimized = true
		file.Sections = optimizeSections(content)
	} else {
		file.Sections = []model.ContentSection{{
			Kind: model.ContentSectionFull, StartLine: 1, EndLine: file.TotalLines, Content: content,
		}}
	}

	tokens := estimateTokens(content)
	file.TokenEstimate = tokens
	return file, tokens, nil
}

// optimizeSections splits an over-long file into a leading and trailing
// excerpt, a simple head/tail heuristic that keeps both the file's
// imports/declarations and its closing logic in view.
func optimizeSections(content string) []model.ContentSection {
	lines := splitLines(content)
	if len(lines) <= 120 {
		return []model.ContentSection{{Kind: model.ContentSectionOptimized, StartLine: 1, EndLine: len(lines), Content: content}}
	}
	head := lines[:60]
	tail := lines[len(lines)-60:]
	return []model.ContentSection{
		{Kind: model.ContentSectionOptimized, StartLine: 1, EndLine: 60, Content: joinLines(head)},
		{Kind: model.ContentSectionOptimized, StartLine: len(lines) - 59, EndLine: len(lines), Content: joinLines(tail)},
	}
}

func joinReasoning(sf ScoredFile) string {
	if len(sf.Relevance.Reasoning) == 0 {
		return ""
	}
	return sf.Relevance.Reasoning[0]
}

func countLines(s string) int {
	return len(splitLines(s))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
