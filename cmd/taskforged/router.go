package main

import (
	"context"
	"encoding/json"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/decompose"
	"github.com/forgeflow-dev/taskforge/pkg/dispatch"
	"github.com/forgeflow-dev/taskforge/pkg/intent"
	"github.com/forgeflow-dev/taskforge/pkg/intentfallback"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// intentRouter composes the deterministic pattern engine, its LLM fallback,
// and the command dispatcher into the single collaborator pkg/api's
// /intents handler depends on (pkg/api.Router).
type intentRouter struct {
	patterns  *intent.Engine
	fallback  *intentfallback.Fallback
	threshold float64
	dispatcher *dispatch.Dispatcher
}

// Recognize runs the pattern engine first; only on a sub-threshold (or
// absent) match does it fall through to the LLM fallback.
func (r *intentRouter) Recognize(ctx context.Context, text string) (model.IntentRecognitionResult, error) {
	matches := r.patterns.Match(text)
	if len(matches) > 0 && matches[0].Confidence >= r.threshold {
		best := matches[0]
		result := model.NewIntentRecognitionResult(best.Intent, best.Confidence, text, text, model.IntentMethodPattern)
		result.Entities = best.Entities
		return *result, nil
	}

	result, err := r.fallback.Recognize(ctx, text, nil)
	if err != nil {
		return model.IntentRecognitionResult{}, err
	}
	return *result, nil
}

// Dispatch delegates straight to the underlying Dispatcher.
func (r *intentRouter) Dispatch(ctx context.Context, in model.Intent, toolParams map[string]any, execCtx dispatch.ExecutionContext) (dispatch.Outcome, error) {
	return r.dispatcher.Dispatch(ctx, in, toolParams, execCtx)
}

// registerHandlers wires the closed intent set's handlers that this
// deployment can actually serve. Intents with no registered handler report
// resource_not_found on dispatch (Dispatcher.Dispatch's documented behavior) rather
// than panicking — the set here is deliberately the subset backed by a
// built component; the rest are reserved for a project/task persistence
// layer this module doesn't implement.
func registerHandlers(registry *dispatch.Registry, decomposeManager *decompose.Manager) {
	registry.Register(model.IntentGetHelp, "list every intent this deployment can dispatch",
		func(ctx context.Context, in model.Intent, toolParams map[string]any, execCtx dispatch.ExecutionContext) (dispatch.Outcome, error) {
			descriptions := registry.Descriptions()
			text, err := json.Marshal(descriptions)
			if err != nil {
				return dispatch.Outcome{}, coreerrors.Wrap("dispatch", coreerrors.KindInternal, "encoding help listing", err)
			}
			return dispatch.Outcome{Success: true, Content: []dispatch.ContentItem{{Type: "text", Text: string(text)}}}, nil
		})

	registry.Register(model.IntentDecomposeTask, "recursively split a task description into atomic subtasks",
		func(ctx context.Context, in model.Intent, toolParams map[string]any, execCtx dispatch.ExecutionContext) (dispatch.Outcome, error) {
			description, _ := toolParams["description"].(string)
			if description == "" {
				return dispatch.Outcome{}, coreerrors.New("dispatch", coreerrors.KindInvalidInput, "decompose_task requires a \"description\" param")
			}

			task := model.AtomicTask{
				ID:          "task-" + execCtx.SessionID,
				Title:       description,
				Description: description,
				Status:      model.TaskStatusPending,
				ProjectID:   execCtx.CurrentProject,
			}
			projectContext := model.ProjectContext{ProjectID: execCtx.CurrentProject}
			options := model.DecompositionOptions{MaxDepth: 3, MinHours: 0.5, MaxHours: 4}

			session := decomposeManager.StartDecomposition(ctx, decompose.Request{
				Task:           task,
				ProjectContext: projectContext,
				Options:        options,
				CreatedBy:      execCtx.SessionID,
			})
			snap := session.Snapshot()
			text, err := json.Marshal(snap)
			if err != nil {
				return dispatch.Outcome{}, coreerrors.Wrap("dispatch", coreerrors.KindInternal, "encoding decomposition session", err)
			}
			return dispatch.Outcome{Success: true, Content: []dispatch.ContentItem{{Type: "text", Text: string(text)}}}, nil
		})
}
