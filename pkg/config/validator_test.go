package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Defaults: &Defaults{
			LLMProvider:         "openai-default",
			FallbackIntent:      "answer_question",
			DefaultTaskPriority: "medium",
		},
		LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"openai-default": {Type: LLMProviderTypeOpenAI, Model: "gpt-5", Temperature: 0.2},
		}, nil),
		IntentPatterns: &IntentPatternConfig{
			Patterns:                    map[string][]string{"answer_question": {`(?i)^what\b`}},
			ConfidenceThreshold:         0.7,
			FallbackConfidenceThreshold: 0.5,
			FallbackCacheSize:           128,
		},
		Decomposition: DefaultDecompositionConfig(),
		Curation:      DefaultCurationConfig(),
		Queue:         DefaultQueueConfig(),
		Output:        &OutputConfig{Dir: "./out", AllowedProjectRoot: "."},
	}
}

func TestValidateAllSucceedsOnValidConfig(t *testing.T) {
	v := NewValidator(validConfig())
	assert.NoError(t, v.ValidateAll())
}

func TestValidateLLMProviders(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errMsg  string
		wantErr bool
	}{
		{
			name:    "no providers configured",
			mutate:  func(c *Config) { c.LLMProviderRegistry = NewLLMProviderRegistry(nil, nil) },
			wantErr: true,
			errMsg:  "at least one LLM provider",
		},
		{
			name: "invalid provider type",
			mutate: func(c *Config) {
				c.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
					"bad": {Type: "not-a-type", Model: "m"},
				}, nil)
			},
			wantErr: true,
			errMsg:  "invalid provider type",
		},
		{
			name: "missing model",
			mutate: func(c *Config) {
				c.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
					"bad": {Type: LLMProviderTypeOpenAI},
				}, nil)
			},
			wantErr: true,
			errMsg:  "model",
		},
		{
			name: "temperature out of range",
			mutate: func(c *Config) {
				c.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
					"bad": {Type: LLMProviderTypeOpenAI, Model: "m", Temperature: 3},
				}, nil)
			},
			wantErr: true,
			errMsg:  "temperature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := NewValidator(cfg).validateLLMProviders()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	t.Run("unknown llm provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Defaults.LLMProvider = "nonexistent"
		err := NewValidator(cfg).validateDefaults()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LLM provider")
	})

	t.Run("unknown fallback intent", func(t *testing.T) {
		cfg := validConfig()
		cfg.Defaults.FallbackIntent = "no_such_intent"
		err := NewValidator(cfg).validateDefaults()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback_intent")
	})
}

func TestValidateIntentPatterns(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*IntentPatternConfig)
		errMsg  string
		wantErr bool
	}{
		{
			name:    "no patterns at all",
			mutate:  func(ip *IntentPatternConfig) { ip.Patterns = nil },
			wantErr: true,
			errMsg:  "at least one intent",
		},
		{
			name: "intent with empty pattern list",
			mutate: func(ip *IntentPatternConfig) {
				ip.Patterns["empty_intent"] = nil
			},
			wantErr: true,
			errMsg:  "at least one pattern required",
		},
		{
			name: "invalid regex",
			mutate: func(ip *IntentPatternConfig) {
				ip.Patterns["bad_intent"] = []string{`(unclosed`}
			},
			wantErr: true,
			errMsg:  "invalid regex",
		},
		{
			name:    "confidence threshold out of range",
			mutate:  func(ip *IntentPatternConfig) { ip.ConfidenceThreshold = 1.5 },
			wantErr: true,
			errMsg:  "confidence_threshold",
		},
		{
			name:    "fallback cache size zero",
			mutate:  func(ip *IntentPatternConfig) { ip.FallbackCacheSize = 0 },
			wantErr: true,
			errMsg:  "fallback_cache_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg.IntentPatterns)
			err := NewValidator(cfg).validateIntentPatterns()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDecomposition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DecompositionConfig)
		errMsg string
	}{
		{"max depth zero", func(d *DecompositionConfig) { d.MaxDepth = 0 }, "max_depth"},
		{"max depth too high", func(d *DecompositionConfig) { d.MaxDepth = 11 }, "max_depth"},
		{"min task hours zero", func(d *DecompositionConfig) { d.MinTaskHours = 0 }, "min_task_hours"},
		{"max task hours not greater than min", func(d *DecompositionConfig) { d.MaxTaskHours = d.MinTaskHours }, "max_task_hours"},
		{"atomicity threshold out of range", func(d *DecompositionConfig) { d.AtomicityConfidenceThreshold = 0 }, "atomicity_confidence_threshold"},
		{"max fanout zero", func(d *DecompositionConfig) { d.MaxFanout = 0 }, "max_fanout"},
		{"max concurrent splits zero", func(d *DecompositionConfig) { d.MaxConcurrentSplits = 0 }, "max_concurrent_splits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg.Decomposition)
			err := NewValidator(cfg).validateDecomposition()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateCuration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CurationConfig)
		errMsg string
	}{
		{"token budget too low", func(c *CurationConfig) { c.TokenBudget = 100 }, "token_budget"},
		{"relevance threshold out of range", func(c *CurationConfig) { c.RelevanceThreshold = 2 }, "relevance_threshold"},
		{"max files zero", func(c *CurationConfig) { c.MaxFiles = 0 }, "max_files"},
		{"no strategies", func(c *CurationConfig) { c.Strategies = nil }, "strategies"},
		{"invalid strategy", func(c *CurationConfig) { c.Strategies = []DiscoveryStrategy{"bogus"} }, "strategies"},
		{"discovery worker count zero", func(c *CurationConfig) { c.DiscoveryWorkerCount = 0 }, "discovery_worker_count"},
		{"scoring worker count zero", func(c *CurationConfig) { c.ScoringWorkerCount = 0 }, "scoring_worker_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg.Curation)
			err := NewValidator(cfg).validateCuration()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateOutput(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.Dir = ""
		err := NewValidator(cfg).validateOutput()
		require.Error(t, err)
	})

	t.Run("missing allowed project root", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.AllowedProjectRoot = ""
		err := NewValidator(cfg).validateOutput()
		require.Error(t, err)
	})
}
