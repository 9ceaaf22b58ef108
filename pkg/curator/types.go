// Package curator implements the eight-phase Context Curation Pipeline: it
// turns a user prompt and a project path into a finished Context Package.
package curator

import (
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Request is the pipeline's inbound job.
type Request struct {
	JobID string
	Prompt string
	ProjectPath string
	TaskType model.TaskTypeHint
	TokenBudget int
	IncludePatterns []string
	ExcludePatterns []string
	FocusAreas []string
	UseCodeMapCache bool
	CacheMaxAgeMinutes int
	OutputFormat model.OutputFormat
}

// ScopeAnalysis is the Phase 2 "scope" sub-record.
type ScopeAnalysis struct {
	Complexity model.Complexity `json:"complexity"`
	EstimatedFiles int `json:"estimated_files"`
	RiskLevel string `json:"risk_level"`
}

// IntentAnalysisResult is the schema Phase 2's `intent_analysis` LLM call
// returns.
type IntentAnalysisResult struct {
	TaskType model.TaskTypeHint `json:"task_type"`
	Confidence float64 `json:"confidence"`
	Reasoning string `json:"reasoning"`
	ArchitecturalComponents []string `json:"architectural_components"`
	Scope ScopeAnalysis `json:"scope"`
	SuggestedFocusAreas []string `json:"suggested_focus_areas"`
	EstimatedEffort string `json:"estimated_effort"`
}

// ProjectTypeAnalysisResult is Phase 2's code-map-derived project/language
// rollup.
type ProjectTypeAnalysisResult struct {
	PackageManagers []string `json:"package_managers"`
	Frameworks []string `json:"frameworks"`
	StructurePatterns []string `json:"structure_patterns"`
	ConfigFiles []string `json:"config_files"`
}

// LanguageAnalysisResult is Phase 2's language-distribution rollup.
type LanguageAnalysisResult struct {
	Distribution map[string]float64 `json:"distribution"`
}

// PromptRefinementResult is the schema Phase 3's `prompt_refinement` LLM
// call returns.
type PromptRefinementResult struct {
	RefinedPrompt string `json:"refined_prompt"`
	TechnicalConstraints []string `json:"technical_constraints"`
}

// DiscoveredFile is one Phase 4 candidate, consolidated across strategies.
type DiscoveredFile struct {
	Path string `json:"path"`
	Priority model.FilePriority `json:"priority"`
	Reasoning string `json:"reasoning"`
	Confidence float64 `json:"confidence"`
	EstimatedTokens int `json:"estimated_tokens"`
	ModificationLikelihood model.ModificationLikelihood `json:"modification_likelihood"`
	Strategies []string `json:"strategies"`
	DuplicateCount int `json:"duplicate_count"`
}

// ScoredFile pairs a discovered file with its Phase 5 relevance score.
type ScoredFile struct {
	Path string
	Relevance model.RelevanceScore
}

// State is the mutable working state threaded through every phase.
type State struct {
	Request Request

	StartedAt time.Time

	CodemapPath string
	CodemapContent string
	CodemapCacheUsed bool

	IntentAnalysis IntentAnalysisResult
	ProjectTypeAnalysis ProjectTypeAnalysisResult
	LanguageAnalysis LanguageAnalysisResult

	RefinedPrompt string
	TechnicalConstraints []string

	Candidates []DiscoveredFile
	Scored []ScoredFile
	ChunkingUsed bool

	MetaPrompt *model.MetaPrompt

	Package *model.ContextPackage

	Warnings []string

	OutputPath string
}

func (s *State) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

// Summary reports the Phase 8 result shape the pipeline's caller surfaces.
func (s *State) Summary() OutputSummary {
	var totalFiles, totalTokens int
	var avgRelevance, cacheHitRate float64
	if s.Package != nil {
		totalFiles = s.Package.Metadata.TotalFiles
		totalTokens = s.Package.Metadata.TotalTokens
		avgRelevance = s.Package.Metadata.AverageRelevance
		cacheHitRate = s.Package.Metadata.CacheHitRate
	}
	return OutputSummary{
		JobID: s.Request.JobID,
		TotalFiles: totalFiles,
		TotalTokens: totalTokens,
		AverageRelevanceScore: avgRelevance,
		CacheHitRate: cacheHitRate,
		ProcessingTimeMs: time.Since(s.StartedAt).Milliseconds(),
		OutputPath: s.OutputPath,
	}
}
