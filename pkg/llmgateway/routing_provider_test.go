package llmgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingProviderDispatchesByName(t *testing.T) {
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "from-openai"})
	}))
	defer openai.Close()
	anthropic := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "from-anthropic"})
	}))
	defer anthropic.Close()

	routing := NewRoutingProvider()
	routing.Register("openai-default", openai.URL, "key-a", nil)
	routing.Register("anthropic-default", anthropic.URL, "key-b", nil)

	out, err := routing.Invoke(context.Background(), ProviderConfig{Name: "openai-default"}, "sys", "user", 0.2, false)
	require.NoError(t, err)
	assert.Equal(t, "from-openai", out)

	out, err = routing.Invoke(context.Background(), ProviderConfig{Name: "anthropic-default"}, "sys", "user", 0.2, false)
	require.NoError(t, err)
	assert.Equal(t, "from-anthropic", out)
}

func TestRoutingProviderUnknownNameIsProviderUnavailable(t *testing.T) {
	routing := NewRoutingProvider()
	_, err := routing.Invoke(context.Background(), ProviderConfig{Name: "missing"}, "sys", "user", 0.2, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
