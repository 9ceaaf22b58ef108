package curator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// metaPromptPhase is Phase 6 — Meta-Prompt Generation.
type metaPromptPhase struct {
	gateway Gateway
}

func (p *metaPromptPhase) Name() string { return "meta_prompt_generation" }

var metaPromptSchema = map[string]any{
	"system_prompt": nil, "user_prompt": nil, "task_decomposition": nil,
}

func (p *metaPromptPhase) Run(ctx context.Context, st *State) error {
	raw, err := p.gateway.Call(ctx, llmgateway.Request{
		TaskName: "meta_prompt_generation",
		SystemPrompt: "You generate a task-type-specialized system/user prompt pair plus a hierarchical epic/task/subtask breakdown for an AI coding agent.",
		UserPrompt: fmt.Sprintf("Refined prompt: %s\nTask type: %s\nFocus areas: %v", st.RefinedPrompt, st.IntentAnalysis.TaskType, st.Request.FocusAreas),
		Format: llmgateway.FormatJSON,
		Schema: metaPromptSchema,
	})
	if err != nil {
		return err
	}

	var mp model.MetaPrompt
	if jsonErr := json.Unmarshal([]byte(raw), &mp); jsonErr != nil {
		return coreerrors.Wrap("curator", coreerrors.KindInvalidModelOutput, "meta_prompt_generation output is not valid JSON", jsonErr)
	}
	st.MetaPrompt = &mp
	return nil
}
