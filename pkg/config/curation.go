package config

import "time"

// CurationConfig holds the curation settings for the eight-phase
// context-curation pipeline (Component H). They are merged and validated
// with the rest of the configuration, but pkg/curator does not read them:
// curator.NewPipeline takes no CurationConfig, and its phases use their own
// package defaults (DefaultTokenBudget, DefaultMinRelevanceThreshold,
// DefaultScoringWorkers). No phase applies a file-count cap.
type CurationConfig struct {
	// TokenBudget is the maximum approximate token count a single context
	// package's Phase 7 assembly may spend on file content.
	TokenBudget int `yaml:"token_budget" validate:"required,min=1000"`

	// RelevanceThreshold is the minimum Phase 5 relevance score a discovered
	// file must reach to be included in the package.
	RelevanceThreshold float64 `yaml:"relevance_threshold" validate:"required,min=0,max=1"`

	// MaxFiles caps how many files Phase 7 will embed, applied after
	// relevance-ranking so only the lowest-scored files are dropped.
	MaxFiles int `yaml:"max_files" validate:"required,min=1"`

	// Strategies lists which Phase 4 discovery strategies run; order has no
	// effect since they execute concurrently and results are merged.
	Strategies []DiscoveryStrategy `yaml:"strategies" validate:"required,min=1"`

	// DiscoveryWorkerCount bounds how many Phase 4 discovery strategies (and,
	// within strategies that shard by directory, how many shards) run
	// concurrently.
	DiscoveryWorkerCount int `yaml:"discovery_worker_count" validate:"required,min=1"`

	// ScoringWorkerCount bounds Phase 5's concurrent relevance-scoring calls.
	ScoringWorkerCount int `yaml:"scoring_worker_count" validate:"required,min=1"`

	// CodeMapCacheTTL controls how long Component B's generated code-map
	// stays valid before a project change invalidates it.
	CodeMapCacheTTL time.Duration `yaml:"code_map_cache_ttl,omitempty"`

	// PhaseTimeout bounds any single pipeline phase's wall-clock time.
	PhaseTimeout time.Duration `yaml:"phase_timeout,omitempty"`
}

// DefaultCurationConfig returns the built-in curation pipeline defaults.
func DefaultCurationConfig() *CurationConfig {
	return &CurationConfig{
		TokenBudget:          80000,
		RelevanceThreshold:   0.5,
		MaxFiles:             40,
		Strategies:           []DiscoveryStrategy{DiscoveryStrategyKeyword, DiscoveryStrategyImport, DiscoveryStrategyStructure},
		DiscoveryWorkerCount: 6,
		ScoringWorkerCount:   6,
		CodeMapCacheTTL:      10 * time.Minute,
		PhaseTimeout:         45 * time.Second,
	}
}
