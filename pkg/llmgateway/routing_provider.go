package llmgateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
)

// RoutingProvider dispatches an Invoke call to the HTTPProvider registered
// for cfg.Name, letting a single Gateway serve multiple vendor endpoints
// (different BaseURL/API key per configured LLM provider) behind the one
// Provider seam the Gateway holds.
type RoutingProvider struct {
	mu        sync.RWMutex
	providers map[string]*HTTPProvider
}

// NewRoutingProvider builds an empty RoutingProvider; register each
// configured provider name with Register before first use.
func NewRoutingProvider() *RoutingProvider {
	return &RoutingProvider{providers: make(map[string]*HTTPProvider)}
}

// Register wires name (a pkg/config.LLMProviderConfig key, e.g.
// "openai-default") to an HTTPProvider built from that provider's own
// BaseURL and resolved API key.
func (r *RoutingProvider) Register(name, baseURL, apiKey string, client *http.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = NewHTTPProvider(baseURL, apiKey, client)
}

// Invoke resolves cfg.Name to its registered HTTPProvider and delegates.
func (r *RoutingProvider) Invoke(ctx context.Context, cfg ProviderConfig, systemPrompt, userPrompt string, temperature float64, jsonMode bool) (string, error) {
	r.mu.RLock()
	provider, ok := r.providers[cfg.Name]
	r.mu.RUnlock()
	if !ok {
		return "", coreerrors.New("llmgateway", coreerrors.KindProviderUnavailable, fmt.Sprintf("no HTTP provider registered for %q", cfg.Name))
	}
	return provider.Invoke(ctx, cfg, systemPrompt, userPrompt, temperature, jsonMode)
}
