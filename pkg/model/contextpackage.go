package model

import (
	"fmt"
	"time"
)

// ContentSection is a (possibly trimmed) excerpt of a file's content
// included in a Context Package.
type ContentSection struct {
	Kind ContentSectionKind `json:"kind"`
	StartLine int `json:"start_line"`
	EndLine int `json:"end_line"`
	Content string `json:"content"`
}

// Validate checks the section's own invariant.
func (s *ContentSection) Validate() error {
	if s.StartLine > s.EndLine {
		return fmt.Errorf("content section start line %d > end line %d", s.StartLine, s.EndLine)
	}
	if s.Kind != "" && !s.Kind.IsValid() {
		return fmt.Errorf("invalid content section kind %q", s.Kind)
	}
	return nil
}

// PackagedFile is a file included in a Context Package's high- or
// medium-priority collection: full content plus sectioning.
type PackagedFile struct {
	Path string `json:"path"`
	Content string `json:"content"`
	IsOptimized bool `json:"is_optimized"`
	TotalLines int `json:"total_lines"`
	TokenEstimate int `json:"token_estimate"` // ≥ 0
	Reasoning string `json:"reasoning,omitempty"`
	Sections []ContentSection `json:"sections,omitempty"`
	Language string `json:"language,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
	Relevance RelevanceScore `json:"relevance"`
}

// FileReference is a low-priority file: reference-only, no content.
type FileReference struct {
	Path string `json:"path"`
	Relevance float64 `json:"relevance"`
	Size int64 `json:"size"`
	Language string `json:"language,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
	TokenEstimate int `json:"token_estimate"`
}

// MetaPromptTaskDecomposition is the hierarchical breakdown a meta-prompt
// carries: epics → tasks → subtasks.
type MetaPromptTaskDecomposition struct {
	Epics []MetaPromptEpic `json:"epics"`
}

// MetaPromptEpic is one epic within a meta-prompt's task decomposition.
type MetaPromptEpic struct {
	Title string `json:"title"`
	Tasks []MetaPromptTask `json:"tasks"`
}

// MetaPromptTask is one task within a meta-prompt epic.
type MetaPromptTask struct {
	Title string `json:"title"`
	Subtasks []string `json:"subtasks,omitempty"`
}

// MetaPrompt is the task-type-specialized prompt record attached to a
// finished context package.
type MetaPrompt struct {
	SystemPrompt string `json:"system_prompt"`
	UserPrompt string `json:"user_prompt"`
	ContextSummary string `json:"context_summary,omitempty"`
	TaskDecomposition MetaPromptTaskDecomposition `json:"task_decomposition"`
	Guidelines []string `json:"guidelines,omitempty"`
	EstimatedComplexity Complexity `json:"estimated_complexity,omitempty"`
	QualityScore float64 `json:"quality_score"`
	AIAgentResponseFormat string `json:"ai_agent_response_format,omitempty"`
}

// ContextPackageMetadata carries the summary fields attached to a finished
// package.
type ContextPackageMetadata struct {
	JobID string `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
	TaskType TaskTypeHint `json:"task_type"`
	TotalFiles int `json:"total_files"`
	TotalTokens int `json:"total_tokens"`
	AverageRelevance float64 `json:"average_relevance_score"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	ProcessingTime time.Duration `json:"processing_time_ms"`
	CodemapCacheUsed bool `json:"codemap_cache_used"`
	Warnings []string `json:"warnings,omitempty"`
}

// ContextPackage is the final artifact of the curation pipeline.
type ContextPackage struct {
	Metadata ContextPackageMetadata `json:"metadata"`
	RefinedPrompt string `json:"refined_prompt"`
	CodemapPath string `json:"codemap_path"`

	HighPriorityFiles []PackagedFile `json:"high_priority_files"`
	MediumPriorityFiles []PackagedFile `json:"medium_priority_files"`
	LowPriorityFiles []FileReference `json:"low_priority_files"`

	MetaPrompt *MetaPrompt `json:"meta_prompt,omitempty"`
}

// TotalTokenEstimate sums the token estimates across all three tiers.
func (p *ContextPackage) TotalTokenEstimate() int {
	total := 0
	for _, f := range p.HighPriorityFiles {
		total += f.TokenEstimate
	}
	for _, f := range p.MediumPriorityFiles {
		total += f.TokenEstimate
	}
	for _, f := range p.LowPriorityFiles {
		total += f.TokenEstimate
	}
	return total
}

// Validate checks the package-level invariants /§8: every
// tokenEstimate ≥ 0, the running total respects maxTokenBudget, and every
// ContentSection has startLine ≤ endLine.
func (p *ContextPackage) Validate(maxTokenBudget int) error {
	check := func(tokens int) error {
		if tokens < 0 {
			return fmt.Errorf("token estimate %d is negative", tokens)
		}
		return nil
	}
	for _, f := range p.HighPriorityFiles {
		if err := check(f.TokenEstimate); err != nil {
			return err
		}
		for _, s := range f.Sections {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}
	for _, f := range p.MediumPriorityFiles {
		if err := check(f.TokenEstimate); err != nil {
			return err
		}
		for _, s := range f.Sections {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}
	for _, f := range p.LowPriorityFiles {
		if err := check(f.TokenEstimate); err != nil {
			return err
		}
	}
	if maxTokenBudget > 0 && p.TotalTokenEstimate() > maxTokenBudget {
		return fmt.Errorf("total token estimate %d exceeds budget %d", p.TotalTokenEstimate(), maxTokenBudget)
	}
	return nil
}
