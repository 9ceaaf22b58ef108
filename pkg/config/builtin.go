package config

import (
	"sync"
	"time"
)

// BuiltinConfig holds all built-in configuration data: the LLM provider pool,
// the gateway's task→model map, and the intent pattern engine's default
// recognition rules. User YAML merges on top of this at load time.
type BuiltinConfig struct {
	LLMProviders map[string]LLMProviderConfig
	TaskModel TaskModelMap
	IntentPattern map[string][]string
	MCPServer MCPServerConfig
}

var (
	builtinConfig *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration (thread-safe, lazy-initialized)
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		LLMProviders: initBuiltinLLMProviders(),
		TaskModel: initBuiltinTaskModel(),
		IntentPattern: initBuiltinIntentPatterns(),
		MCPServer: initBuiltinMCPServer(),
	}
}

// initBuiltinMCPServer is the default code-map generator server: a stdio
// subprocess.
func initBuiltinMCPServer() MCPServerConfig {
	return MCPServerConfig{
		Transport: TransportConfig{
			Type: TransportTypeStdio,
			Command: "npx",
			Args: []string{"-y", "@taskforge/codemap-mcp-server"},
		},
		ToolName: "generate_code_map",
	}
}

func initBuiltinLLMProviders() map[string]LLMProviderConfig {
	return map[string]LLMProviderConfig{
		"openai-default": {
			Type: LLMProviderTypeOpenAI,
			Model: "gpt-5",
			APIKeyEnv: "OPENAI_API_KEY",
			Temperature: 0.2,
			Timeout: 90 * time.Second,
			MaxConcurrentCalls: 8,
		},
		"anthropic-default": {
			Type: LLMProviderTypeAnthropic,
			Model: "claude-sonnet-4-20250514",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			Temperature: 0.2,
			Timeout: 90 * time.Second,
			MaxConcurrentCalls: 8,
		},
		"openai-fast": {
			Type: LLMProviderTypeOpenAI,
			Model: "gpt-5-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			Temperature: 0.0,
			Timeout: 20 * time.Second,
			MaxConcurrentCalls: 16,
		},
	}
}

// initBuiltinTaskModel maps gateway task names to the provider that serves
// them by default. Cheap, high-volume tasks (relevance scoring, intent
// fallback classification) route to the fast model; tasks that need deeper
// reasoning (decomposition, meta-prompt generation) route to the default.
func initBuiltinTaskModel() TaskModelMap {
	return TaskModelMap{
		"intent_fallback": "openai-fast",
		"task_decomposition": "anthropic-default",
		"intent_analysis": "openai-fast",
		"prompt_refinement": "openai-default",
		"relevance_scoring": "openai-fast",
		"meta_prompt_generation": "anthropic-default",
	}
}

// initBuiltinIntentPatterns returns the default regex/keyword patterns per
// intent, ordered most-specific first. Operators extend or replace these via
// the intent_patterns section of the user YAML. Keys must be members of
// model.Intent's closed set — intent.FromConfig silently drops any pattern
// group keyed by a value outside that enumeration.
func initBuiltinIntentPatterns() map[string][]string {
	return map[string][]string{
		"create_task": {
			`(?i)\b(implement|add|build|create)\b.{0,40}\b(feature|functionality|endpoint|page|component)\b`,
			`(?i)\bnew feature\b`,
		},
		"check_status": {
			`(?i)\b(fix|resolve|debug|patch)\b.{0,40}\b(bug|issue|error|crash|regression)\b`,
			`(?i)\bnot working\b`,
			`(?i)\bthrows? an? (error|exception)\b`,
		},
		"refine_task": {
			`(?i)\b(refactor|restructure|clean ?up|simplify)\b`,
			`(?i)\bimprove.{0,30}\b(readability|maintainability|structure)\b`,
		},
		"run_task": {
			`(?i)\b(write|add)\b.{0,30}\btests?\b`,
			`(?i)\bincrease.{0,20}\bcoverage\b`,
		},
		"get_help": {
			`(?i)^\s*(what|why|how|when|where|who|which|can|does|is)\b`,
			`(?i)\bexplain\b`,
		},
		"search_content": {
			`(?i)\breview\b.{0,30}\b(code|pr|pull request|diff|changes)\b`,
		},
	}
}
