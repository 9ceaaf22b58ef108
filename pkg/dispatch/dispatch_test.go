package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

func TestDispatchInvokesRegisteredHandler(t *testing.T) {
	registry := NewRegistry()
	registry.Register(model.IntentListProjects, "lists known projects", func(ctx context.Context, intent model.Intent, params map[string]any, execCtx ExecutionContext) (Outcome, error) {
		return Outcome{Success: true, Content: []ContentItem{{Type: "text", Text: "project-a, project-b"}}}, nil
	})
	d := New(registry)

	outcome, err := d.Dispatch(context.Background(), model.IntentListProjects, nil, ExecutionContext{SessionID: "s1"})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "project-a, project-b", outcome.Content[0].Text)
}

func TestDispatchMissingHandlerIsResourceNotFound(t *testing.T) {
	d := New(NewRegistry())
	_, err := d.Dispatch(context.Background(), model.IntentCreateTask, nil, ExecutionContext{})
	assert.Error(t, err)
}

func TestRegistryDescriptionsSortedByIntent(t *testing.T) {
	registry := NewRegistry()
	registry.Register(model.IntentListTasks, "lists tasks", noopHandler)
	registry.Register(model.IntentCreateTask, "creates a task", noopHandler)

	descriptions := registry.Descriptions()
	require.Len(t, descriptions, 2)
	assert.Equal(t, model.IntentCreateTask, descriptions[0].Intent)
	assert.Equal(t, model.IntentListTasks, descriptions[1].Intent)
}

func noopHandler(ctx context.Context, intent model.Intent, params map[string]any, execCtx ExecutionContext) (Outcome, error) {
	return Outcome{Success: true}, nil
}
