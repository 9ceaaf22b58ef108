package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConvenienceMethods(t *testing.T) {
	llmProviders := map[string]*LLMProviderConfig{
		"test-provider": {
			Type:  LLMProviderTypeOpenAI,
			Model: "test-model",
		},
	}
	taskModel := TaskModelMap{"decompose_task": "test-provider"}

	cfg := &Config{
		configDir:           "/test/config",
		Defaults:            &Defaults{LLMProvider: "test-provider"},
		LLMProviderRegistry: NewLLMProviderRegistry(llmProviders, taskModel),
		IntentPatterns:      &IntentPatternConfig{Patterns: map[string][]string{"fix_bug": {`bug`}}},
	}

	t.Run("ConfigDir", func(t *testing.T) {
		assert.Equal(t, "/test/config", cfg.ConfigDir())
	})

	t.Run("GetLLMProvider success", func(t *testing.T) {
		provider, err := cfg.GetLLMProvider("test-provider")
		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.Equal(t, "test-model", provider.Model)
	})

	t.Run("GetLLMProvider not found", func(t *testing.T) {
		_, err := cfg.GetLLMProvider("nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("LLMProviderForTask mapped", func(t *testing.T) {
		provider, err := cfg.LLMProviderForTask("decompose_task")
		require.NoError(t, err)
		assert.Equal(t, "test-model", provider.Model)
	})

	t.Run("LLMProviderForTask falls back to default", func(t *testing.T) {
		provider, err := cfg.LLMProviderForTask("unmapped_task")
		require.NoError(t, err)
		assert.Equal(t, "test-model", provider.Model)
	})
}

func TestConfigStats(t *testing.T) {
	llmProviders := map[string]*LLMProviderConfig{
		"l1": {Type: LLMProviderTypeOpenAI, Model: "m1"},
		"l2": {Type: LLMProviderTypeAnthropic, Model: "m2"},
	}
	cfg := &Config{
		LLMProviderRegistry: NewLLMProviderRegistry(llmProviders, nil),
		IntentPatterns: &IntentPatternConfig{
			Patterns: map[string][]string{"fix_bug": {`bug`}, "implement_feature": {`feature`}, "refactor": {`refactor`}},
		},
	}

	stats := cfg.Stats()
	assert.Equal(t, 2, stats.LLMProviders)
	assert.Equal(t, 3, stats.IntentTypes)
}
