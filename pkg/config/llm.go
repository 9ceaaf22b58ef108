package config

import (
	"fmt"
	"sync"
	"time"
)

// LLMProviderConfig defines one entry in the LLM Gateway's provider pool.
type LLMProviderConfig struct {
	// Provider type (required)
	Type LLMProviderType `yaml:"type" validate:"required"`

	// Model name (required)
	Model string `yaml:"model" validate:"required"`

	// Environment variable name for the API key
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Optional custom endpoint/base URL, used for Azure/local deployments
	BaseURL string `yaml:"base_url,omitempty"`

	// Sampling temperature passed on every call
	Temperature float64 `yaml:"temperature"`

	// Per-call timeout; zero means the gateway default applies
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Maximum concurrent in-flight calls against this provider specifically,
	// separate from the gateway's global concurrency cap
	MaxConcurrentCalls int `yaml:"max_concurrent_calls,omitempty"`
}

// TaskModelMap maps a gateway task name (e.g. "decompose_task",
// "score_relevance", "classify_intent") to the provider name that should
// serve it. Task names not present fall back to DefaultProvider.
type TaskModelMap map[string]string

// LLMProviderRegistry stores LLM provider configurations in memory with thread-safe access
type LLMProviderRegistry struct {
	providers map[string]*LLMProviderConfig
	taskModel TaskModelMap
	mu        sync.RWMutex
}

// NewLLMProviderRegistry creates a new LLM provider registry
func NewLLMProviderRegistry(providers map[string]*LLMProviderConfig, taskModel TaskModelMap) *LLMProviderRegistry {
	copied := make(map[string]*LLMProviderConfig, len(providers))
	for k, v := range providers {
		copied[k] = v
	}
	copiedTasks := make(TaskModelMap, len(taskModel))
	for k, v := range taskModel {
		copiedTasks[k] = v
	}
	return &LLMProviderRegistry{
		providers: copied,
		taskModel: copiedTasks,
	}
}

// Get retrieves an LLM provider configuration by name (thread-safe)
func (r *LLMProviderRegistry) Get(name string) (*LLMProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrLLMProviderNotFound, name)
	}
	return provider, nil
}

// ForTask resolves the provider configured for a gateway task name, falling
// back to defaultProvider when the task has no explicit mapping.
func (r *LLMProviderRegistry) ForTask(task, defaultProvider string) (*LLMProviderConfig, error) {
	name, err := r.NameForTask(task, defaultProvider)
	if err != nil {
		return nil, err
	}
	return r.Get(name)
}

// NameForTask resolves just the provider name configured for a gateway task,
// falling back to defaultProvider when unmapped. Exposed separately from
// ForTask so callers that need to route on provider identity (e.g. the
// llmgateway.ProviderResolver adapter picking a per-provider base URL/API
// key) don't have to re-derive it from the resolved config.
func (r *LLMProviderRegistry) NameForTask(task, defaultProvider string) (string, error) {
	r.mu.RLock()
	name, mapped := r.taskModel[task]
	r.mu.RUnlock()

	if !mapped {
		name = defaultProvider
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrTaskModelNotMapped, task)
	}
	return name, nil
}

// GetAll returns all LLM provider configurations (thread-safe, returns copy)
func (r *LLMProviderRegistry) GetAll() map[string]*LLMProviderConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*LLMProviderConfig, len(r.providers))
	for k, v := range r.providers {
		result[k] = v
	}
	return result
}

// Has checks if an LLM provider exists in the registry (thread-safe)
func (r *LLMProviderRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[name]
	return exists
}

// Len returns the number of LLM providers in the registry (thread-safe)
func (r *LLMProviderRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
