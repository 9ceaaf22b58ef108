package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMProviderTypeIsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider LLMProviderType
		valid    bool
	}{
		{"openai", LLMProviderTypeOpenAI, true},
		{"anthropic", LLMProviderTypeAnthropic, true},
		{"azure", LLMProviderTypeAzure, true},
		{"local", LLMProviderTypeLocal, true},
		{"invalid", LLMProviderType("invalid"), false},
		{"empty", LLMProviderType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
		})
	}
}

func TestDiscoveryStrategyIsValid(t *testing.T) {
	tests := []struct {
		name     string
		strategy DiscoveryStrategy
		valid    bool
	}{
		{"keyword", DiscoveryStrategyKeyword, true},
		{"import_graph", DiscoveryStrategyImport, true},
		{"semantic", DiscoveryStrategySemantic, true},
		{"structure", DiscoveryStrategyStructure, true},
		{"invalid", DiscoveryStrategy("invalid"), false},
		{"empty", DiscoveryStrategy(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.strategy.IsValid())
		})
	}
}
