package curator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
)

// refinePhase is Phase 3 — Prompt Refinement: the refined
// prompt must be at least as specific as the original, with explicit
// technical constraints appended.
type refinePhase struct {
	gateway Gateway
}

func (p *refinePhase) Name() string { return "prompt_refinement" }

var promptRefinementSchema = map[string]any{"refined_prompt": nil, "technical_constraints": nil}

func (p *refinePhase) Run(ctx context.Context, st *State) error {
	raw, err := p.gateway.Call(ctx, llmgateway.Request{
		TaskName: "prompt_refinement",
		SystemPrompt: "You refine a software engineering request into a more specific version given an intent analysis, adding explicit technical constraints. Never remove information from the original prompt.",
		UserPrompt: fmt.Sprintf("Original prompt: %s\n\nIntent analysis: task_type=%s confidence=%.2f reasoning=%s", st.Request.Prompt, st.IntentAnalysis.TaskType, st.IntentAnalysis.Confidence, st.IntentAnalysis.Reasoning),
		Format: llmgateway.FormatJSON,
		Schema: promptRefinementSchema,
	})
	if err != nil {
		return err
	}

	var result PromptRefinementResult
	if jsonErr := json.Unmarshal([]byte(raw), &result); jsonErr != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInvalidModelOutput, "prompt_refinement output is not valid JSON", jsonErr)
	}

	refined := result.RefinedPrompt
	if len(refined) < len(st.Request.Prompt) {
		// Never regress below the original's specificity.
		refined = st.Request.Prompt
	}

	st.RefinedPrompt = refined
	st.TechnicalConstraints = result.TechnicalConstraints
	return nil
}
