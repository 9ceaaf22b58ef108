package config

// Defaults contains system-wide default configurations.
// These values are used when specific components don't specify their own values.
type Defaults struct {
	// LLM provider used for gateway tasks with no explicit task→model mapping
	LLMProvider string `yaml:"llm_provider,omitempty"`

	// Default intent assigned when the pattern engine and the LLM fallback
	// both fail to reach ConfidenceThreshold
	FallbackIntent string `yaml:"fallback_intent,omitempty"`

	// Default priority assigned to a decomposed task when the decomposition
	// prompt/heuristics don't otherwise set one
	DefaultTaskPriority string `yaml:"default_task_priority,omitempty"`
}
