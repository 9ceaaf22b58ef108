package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithNoConfigFiles(t *testing.T) {
	// An empty directory is valid: Initialize falls back entirely to built-ins.
	configDir := t.TempDir()

	ctx := context.Background()
	cfg, err := Initialize(ctx, configDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.NotNil(t, cfg.LLMProviderRegistry)
	assert.True(t, cfg.LLMProviderRegistry.Has("openai-default"))
	assert.Equal(t, "openai-default", cfg.Defaults.LLMProvider)
	assert.Contains(t, cfg.IntentPatterns.Patterns, "check_status")
}

func TestInitializeWithUserOverrides(t *testing.T) {
	configDir := setupTestConfigDir(t, `
defaults:
  llm_provider: custom-provider
  fallback_intent: check_status
decomposition:
  max_depth: 3
curation:
  token_budget: 120000
output:
  dir: ${OUTPUT_DIR}
  allowed_project_root: ${ALLOWED_PROJECT_ROOT}
`, `
llm_providers:
  custom-provider:
    type: openai
    model: gpt-5
    api_key_env: CUSTOM_KEY
task_model:
  decompose_task: custom-provider
`)

	t.Setenv("OUTPUT_DIR", "/tmp/taskforge-output")
	t.Setenv("ALLOWED_PROJECT_ROOT", "/tmp/taskforge-project")

	ctx := context.Background()
	cfg, err := Initialize(ctx, configDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "custom-provider", cfg.Defaults.LLMProvider)
	assert.Equal(t, 3, cfg.Decomposition.MaxDepth)
	assert.Equal(t, 120000, cfg.Curation.TokenBudget)
	assert.Equal(t, "/tmp/taskforge-output", cfg.Output.Dir)
	assert.Equal(t, "/tmp/taskforge-project", cfg.Output.AllowedProjectRoot)

	provider, err := cfg.LLMProviderForTask("decompose_task")
	require.NoError(t, err)
	assert.Equal(t, "gpt-5", provider.Model)
}

func TestInitializeInvalidYAML(t *testing.T) {
	configDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "taskforge.yaml"), []byte("{{{"), 0644))

	ctx := context.Background()
	_, err := Initialize(ctx, configDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestInitializeValidationFailure(t *testing.T) {
	configDir := setupTestConfigDir(t, `
decomposition:
  max_depth: 11
`, ``)

	ctx := context.Background()
	_, err := Initialize(ctx, configDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestEnvironmentVariableExpansionInConfig(t *testing.T) {
	t.Setenv("CUSTOM_API_KEY_ENV", "MY_KEY_VAR")

	configDir := setupTestConfigDir(t, ``, `
llm_providers:
  env-provider:
    type: local
    model: local-model
    api_key_env: ${CUSTOM_API_KEY_ENV}
`)

	ctx := context.Background()
	cfg, err := Initialize(ctx, configDir)
	require.NoError(t, err)

	provider, err := cfg.GetLLMProvider("env-provider")
	require.NoError(t, err)
	assert.Equal(t, "MY_KEY_VAR", provider.APIKeyEnv)
}

func TestQueueConfigMerging(t *testing.T) {
	configDir := setupTestConfigDir(t, `
queue:
  worker_count: 20
`, ``)

	ctx := context.Background()
	cfg, err := Initialize(ctx, configDir)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Queue.WorkerCount)
	// Unspecified fields keep their built-in default.
	assert.Equal(t, DefaultQueueConfig().MaxConcurrentSessions, cfg.Queue.MaxConcurrentSessions)
}

// setupTestConfigDir writes taskforge.yaml and llm-providers.yaml into a
// temp directory and returns its path.
func setupTestConfigDir(t *testing.T, taskforgeYAML, llmProvidersYAML string) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "taskforge.yaml"), []byte(taskforgeYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm-providers.yaml"), []byte(llmProvidersYAML), 0644))

	return dir
}
