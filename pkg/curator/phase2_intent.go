package curator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeflow-dev/taskforge/pkg/codemap"
	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
)

// intentPhase is Phase 2 — Intent Analysis: classifies the
// request via an LLM call, then augments the result with project/language
// analysis derived from the code map.
type intentPhase struct {
	gateway Gateway
}

func (p *intentPhase) Name() string { return "intent_analysis" }

var intentAnalysisSchema = map[string]any{
	"task_type": nil, "confidence": nil, "reasoning": nil,
	"architectural_components": nil, "scope": nil,
}

func (p *intentPhase) Run(ctx context.Context, st *State) error {
	raw, err := p.gateway.Call(ctx, llmgateway.Request{
		TaskName: "intent_analysis",
		SystemPrompt: "You analyze a software engineering request against a project's code map and classify its intent, scope and risk.",
		UserPrompt: fmt.Sprintf("Prompt: %s\n\nCode map:\n%s", st.Request.Prompt, st.CodemapContent),
		Format: llmgateway.FormatJSON,
		Schema: intentAnalysisSchema,
	})
	if err != nil {
		return err
	}

	var result IntentAnalysisResult
	if jsonErr := json.Unmarshal([]byte(raw), &result); jsonErr != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInvalidModelOutput, "intent_analysis output is not valid JSON", jsonErr)
	}
	st.IntentAnalysis = result

	archInfo := codemap.ExtractArchitecturalInfo(st.CodemapContent)
	st.ProjectTypeAnalysis = ProjectTypeAnalysisResult{
		Frameworks: archInfo.Frameworks,
		StructurePatterns: archInfo.Patterns,
		ConfigFiles: archInfo.ConfigFiles,
		PackageManagers: detectPackageManagers(archInfo.ConfigFiles),
	}
	st.LanguageAnalysis = LanguageAnalysisResult{Distribution: languageDistribution(archInfo.Languages)}

	return nil
}

// detectPackageManagers maps known config file names to the package
// manager they imply (Phase 2 sub-step: "package-manager detection").
func detectPackageManagers(configFiles []string) []string {
	known := map[string]string{
		"package.json": "npm",
		"go.mod": "go modules",
		"requirements.txt": "pip",
		"pyproject.toml": "poetry",
		"Cargo.toml": "cargo",
		"pom.xml": "maven",
		"build.gradle": "gradle",
		"Gemfile": "bundler",
	}
	var found []string
	seen := make(map[string]bool)
	for _, f := range configFiles {
		if pm, ok := known[f]; ok && !seen[pm] {
			found = append(found, pm)
			seen[pm] = true
		}
	}
	return found
}

// languageDistribution gives every detected language an equal share
// (Phase 2 sub-step: "language distribution"); the code map's own
// markdown does not carry per-language byte/line counts, so this is a
// deliberately coarse estimate, refined by Phase 4's file-level discovery
// rather than this phase.
func languageDistribution(languages []string) map[string]float64 {
	if len(languages) == 0 {
		return nil
	}
	share := 1.0 / float64(len(languages))
	dist := make(map[string]float64, len(languages))
	for _, lang := range languages {
		dist[lang] = share
	}
	return dist
}
