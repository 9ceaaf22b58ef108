package config

import (
	"fmt"
	"regexp"
)

// Validator validates configuration comprehensively with clear error messages
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error).
// Order matters: LLM providers are validated before the defaults/intent config
// that reference them by name.
func (v *Validator) ValidateAll() error {
	if err := v.validateQueue(); err != nil {
		return fmt.Errorf("queue validation failed: %w", err)
	}

	if err := v.validateLLMProviders(); err != nil {
		return fmt.Errorf("LLM provider validation failed: %w", err)
	}

	if err := v.validateDefaults(); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}

	if err := v.validateIntentPatterns(); err != nil {
		return fmt.Errorf("intent pattern validation failed: %w", err)
	}

	if err := v.validateDecomposition(); err != nil {
		return fmt.Errorf("decomposition validation failed: %w", err)
	}

	if err := v.validateCuration(); err != nil {
		return fmt.Errorf("curation validation failed: %w", err)
	}

	if err := v.validateOutput(); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateQueue() error {
	q := v.cfg.Queue
	if q == nil {
		return fmt.Errorf("queue configuration is nil")
	}

	if q.WorkerCount < 1 || q.WorkerCount > 64 {
		return fmt.Errorf("worker_count must be between 1 and 64, got %d", q.WorkerCount)
	}
	if q.MaxConcurrentSessions < 1 {
		return fmt.Errorf("max_concurrent_sessions must be at least 1, got %d", q.MaxConcurrentSessions)
	}
	if q.SessionTimeout <= 0 {
		return fmt.Errorf("session_timeout must be positive, got %v", q.SessionTimeout)
	}
	if q.GracefulShutdownTimeout <= 0 {
		return fmt.Errorf("graceful_shutdown_timeout must be positive, got %v", q.GracefulShutdownTimeout)
	}

	return nil
}

func (v *Validator) validateLLMProviders() error {
	providers := v.cfg.LLMProviderRegistry.GetAll()
	if len(providers) == 0 {
		return fmt.Errorf("at least one LLM provider must be configured")
	}

	for name, p := range providers {
		if !p.Type.IsValid() {
			return NewValidationError("llm_provider", name, "type", fmt.Errorf("invalid provider type: %s", p.Type))
		}
		if p.Model == "" {
			return NewValidationError("llm_provider", name, "model", ErrMissingRequiredField)
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return NewValidationError("llm_provider", name, "temperature", fmt.Errorf("must be between 0 and 2, got %v", p.Temperature))
		}
	}

	return nil
}

func (v *Validator) validateDefaults() error {
	defaults := v.cfg.Defaults
	if defaults == nil {
		return fmt.Errorf("defaults configuration is nil")
	}

	if !v.cfg.LLMProviderRegistry.Has(defaults.LLMProvider) {
		return NewValidationError("defaults", "", "llm_provider", fmt.Errorf("LLM provider '%s' not found", defaults.LLMProvider))
	}

	if _, ok := v.cfg.IntentPatterns.Patterns[defaults.FallbackIntent]; !ok {
		return NewValidationError("defaults", "", "fallback_intent", fmt.Errorf("intent '%s' has no recognition patterns", defaults.FallbackIntent))
	}

	return nil
}

func (v *Validator) validateIntentPatterns() error {
	ip := v.cfg.IntentPatterns
	if ip == nil {
		return fmt.Errorf("intent pattern configuration is nil")
	}
	if len(ip.Patterns) == 0 {
		return fmt.Errorf("at least one intent must have recognition patterns")
	}

	for intent, patterns := range ip.Patterns {
		if len(patterns) == 0 {
			return NewValidationError("intent", intent, "patterns", fmt.Errorf("at least one pattern required"))
		}
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return NewValidationError("intent", intent, "patterns", fmt.Errorf("invalid regex %q: %w", p, err))
			}
		}
	}

	if ip.ConfidenceThreshold <= 0 || ip.ConfidenceThreshold > 1 {
		return NewValidationError("intent", "", "confidence_threshold", fmt.Errorf("must be between 0 and 1, got %v", ip.ConfidenceThreshold))
	}
	if ip.FallbackConfidenceThreshold <= 0 || ip.FallbackConfidenceThreshold > 1 {
		return NewValidationError("intent", "", "fallback_confidence_threshold", fmt.Errorf("must be between 0 and 1, got %v", ip.FallbackConfidenceThreshold))
	}
	if ip.FallbackCacheSize < 1 {
		return NewValidationError("intent", "", "fallback_cache_size", fmt.Errorf("must be at least 1"))
	}

	return nil
}

func (v *Validator) validateDecomposition() error {
	d := v.cfg.Decomposition
	if d == nil {
		return fmt.Errorf("decomposition configuration is nil")
	}

	if d.MaxDepth < 1 || d.MaxDepth > 10 {
		return NewValidationError("decomposition", "", "max_depth", fmt.Errorf("must be between 1 and 10, got %d", d.MaxDepth))
	}
	if d.MinTaskHours <= 0 {
		return NewValidationError("decomposition", "", "min_task_hours", fmt.Errorf("must be positive, got %v", d.MinTaskHours))
	}
	if d.MaxTaskHours <= d.MinTaskHours {
		return NewValidationError("decomposition", "", "max_task_hours", fmt.Errorf("must exceed min_task_hours (%v), got %v", d.MinTaskHours, d.MaxTaskHours))
	}
	if d.AtomicityConfidenceThreshold <= 0 || d.AtomicityConfidenceThreshold > 1 {
		return NewValidationError("decomposition", "", "atomicity_confidence_threshold", fmt.Errorf("must be between 0 and 1, got %v", d.AtomicityConfidenceThreshold))
	}
	if d.MaxFanout < 1 {
		return NewValidationError("decomposition", "", "max_fanout", fmt.Errorf("must be at least 1"))
	}
	if d.MaxConcurrentSplits < 1 {
		return NewValidationError("decomposition", "", "max_concurrent_splits", fmt.Errorf("must be at least 1"))
	}

	return nil
}

func (v *Validator) validateCuration() error {
	c := v.cfg.Curation
	if c == nil {
		return fmt.Errorf("curation configuration is nil")
	}

	if c.TokenBudget < 1000 {
		return NewValidationError("curation", "", "token_budget", fmt.Errorf("must be at least 1000, got %d", c.TokenBudget))
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1 {
		return NewValidationError("curation", "", "relevance_threshold", fmt.Errorf("must be between 0 and 1, got %v", c.RelevanceThreshold))
	}
	if c.MaxFiles < 1 {
		return NewValidationError("curation", "", "max_files", fmt.Errorf("must be at least 1"))
	}
	if len(c.Strategies) == 0 {
		return NewValidationError("curation", "", "strategies", fmt.Errorf("at least one discovery strategy required"))
	}
	for _, s := range c.Strategies {
		if !s.IsValid() {
			return NewValidationError("curation", "", "strategies", fmt.Errorf("invalid discovery strategy: %s", s))
		}
	}
	if c.DiscoveryWorkerCount < 1 {
		return NewValidationError("curation", "", "discovery_worker_count", fmt.Errorf("must be at least 1"))
	}
	if c.ScoringWorkerCount < 1 {
		return NewValidationError("curation", "", "scoring_worker_count", fmt.Errorf("must be at least 1"))
	}

	return nil
}

func (v *Validator) validateOutput() error {
	o := v.cfg.Output
	if o == nil {
		return fmt.Errorf("output configuration is nil")
	}
	if o.Dir == "" {
		return NewValidationError("output", "", "dir", ErrMissingRequiredField)
	}
	if o.AllowedProjectRoot == "" {
		return NewValidationError("output", "", "allowed_project_root", ErrMissingRequiredField)
	}
	return nil
}
