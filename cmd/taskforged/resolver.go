package main

import (
	"os"

	"github.com/forgeflow-dev/taskforge/pkg/config"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
)

// configResolver adapts *config.Config to llmgateway.ProviderResolver.
type configResolver struct {
	cfg *config.Config
}

func (r configResolver) LLMProviderForTask(task string) (llmgateway.ProviderConfig, error) {
	name, err := r.cfg.LLMProviderNameForTask(task)
	if err != nil {
		return llmgateway.ProviderConfig{}, err
	}
	provider, err := r.cfg.GetLLMProvider(name)
	if err != nil {
		return llmgateway.ProviderConfig{}, err
	}
	return llmgateway.ProviderConfig{
		Name:               name,
		Model:              provider.Model,
		Temperature:        provider.Temperature,
		Timeout:            provider.Timeout,
		MaxConcurrentCalls: provider.MaxConcurrentCalls,
	}, nil
}

// defaultBaseURL returns the well-known chat-completions endpoint for
// provider types that don't set one explicitly (Azure/local deployments
// always set BaseURL in their own config entry).
func defaultBaseURL(t config.LLMProviderType) string {
	switch t {
	case config.LLMProviderTypeOpenAI:
		return "https://api.openai.com/v1/chat/completions"
	case config.LLMProviderTypeAnthropic:
		return "https://api.anthropic.com/v1/messages"
	default:
		return ""
	}
}

// buildRoutingProvider registers one HTTPProvider per configured LLM
// provider, so the Gateway's single Provider seam can serve every vendor
// endpoint the pool configures.
func buildRoutingProvider(cfg *config.Config) *llmgateway.RoutingProvider {
	routing := llmgateway.NewRoutingProvider()
	for name, provider := range cfg.LLMProviderRegistry.GetAll() {
		baseURL := provider.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURL(provider.Type)
		}
		apiKey := ""
		if provider.APIKeyEnv != "" {
			apiKey = os.Getenv(provider.APIKeyEnv)
		}
		routing.Register(name, baseURL, apiKey, nil)
	}
	return routing
}
