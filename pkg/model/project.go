package model

import "time"

// DetectedStack records what the code map / project analysis discovered
// about a project's technology choices.
type DetectedStack struct {
	Languages []string `json:"languages,omitempty"`
	Frameworks []string `json:"frameworks,omitempty"`
	BuildTools []string `json:"build_tools,omitempty"`
	Tools []string `json:"tools,omitempty"`
	ConfigFiles []string `json:"config_files,omitempty"`
	EntryPoints []string `json:"entry_points,omitempty"`
	ArchitecturalPatterns []string `json:"architectural_patterns,omitempty"`
}

// ProjectStructure records the directory roles discovered in a project.
type ProjectStructure struct {
	SourceDirs []string `json:"source_dirs,omitempty"`
	TestDirs []string `json:"test_dirs,omitempty"`
	DocDirs []string `json:"doc_dirs,omitempty"`
	BuildDirs []string `json:"build_dirs,omitempty"`
}

// ProjectDependencies records a project's dependency manifests, split by
// scope.
type ProjectDependencies struct {
	Production []string `json:"production,omitempty"`
	Development []string `json:"development,omitempty"`
	External []string `json:"external,omitempty"`
}

// ExistingTasksSummary is a rollup of the tasks already known for a project,
// used to avoid re-decomposing covered ground.
type ExistingTasksSummary struct {
	Total int `json:"total"`
	Completed int `json:"completed"`
	Pending int `json:"pending"`
}

// GatheringMetrics records how a codebase context snapshot was assembled.
type GatheringMetrics struct {
	FilesScanned int `json:"files_scanned"`
	FilesSelected int `json:"files_selected"`
	GatheringTime time.Duration `json:"gathering_time"`
	StrategiesUsed []string `json:"strategies_used,omitempty"`
}

// CodebaseContextSnapshot is the read-only snapshot of assembled context
// attached to a ProjectContext at creation time.
type CodebaseContextSnapshot struct {
	RelevantFiles []string `json:"relevant_files,omitempty"`
	ContextSummary string `json:"context_summary,omitempty"`
	GatheringMetrics GatheringMetrics `json:"gathering_metrics"`
	TotalContextSize int `json:"total_context_size"`
	AverageRelevance float64 `json:"average_relevance"`
}

// ProjectContextMetadata records provenance for a ProjectContext.
type ProjectContextMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version int `json:"version"`
	Source ContextSource `json:"source"`
}

// ProjectContext is created once per decomposition or curation session and
// is read-only thereafter.
type ProjectContext struct {
	ProjectID string `json:"project_id"`
	ProjectPath string `json:"project_path"` // absolute
	ProjectName string `json:"project_name"`
	Description string `json:"description,omitempty"`

	Detected DetectedStack `json:"detected"`
	ExistingTasks ExistingTasksSummary `json:"existing_tasks"`

	CodebaseSize CodebaseSize `json:"codebase_size"`
	TeamSize int `json:"team_size,omitempty"`
	Complexity Complexity `json:"complexity"`

	Structure ProjectStructure `json:"structure"`
	Dependencies ProjectDependencies `json:"dependencies"`

	CodebaseContext CodebaseContextSnapshot `json:"codebase_context"`

	Metadata ProjectContextMetadata `json:"metadata"`
}

// Clone returns a deep-enough copy of pc for safe handoff to callers that
// must not observe later mutation — ProjectContext is read-only after
// creation, but slices/maps are still defensively copied at the boundary
// where a session first publishes it.
func (pc *ProjectContext) Clone() *ProjectContext {
	if pc == nil {
		return nil
	}
	clone := *pc
	clone.Detected.Languages = append([]string(nil), pc.Detected.Languages...)
	clone.Detected.Frameworks = append([]string(nil), pc.Detected.Frameworks...)
	clone.Detected.BuildTools = append([]string(nil), pc.Detected.BuildTools...)
	clone.Detected.Tools = append([]string(nil), pc.Detected.Tools...)
	clone.Detected.ConfigFiles = append([]string(nil), pc.Detected.ConfigFiles...)
	clone.Detected.EntryPoints = append([]string(nil), pc.Detected.EntryPoints...)
	clone.Detected.ArchitecturalPatterns = append([]string(nil), pc.Detected.ArchitecturalPatterns...)
	clone.Structure.SourceDirs = append([]string(nil), pc.Structure.SourceDirs...)
	clone.Structure.TestDirs = append([]string(nil), pc.Structure.TestDirs...)
	clone.Structure.DocDirs = append([]string(nil), pc.Structure.DocDirs...)
	clone.Structure.BuildDirs = append([]string(nil), pc.Structure.BuildDirs...)
	clone.Dependencies.Production = append([]string(nil), pc.Dependencies.Production...)
	clone.Dependencies.Development = append([]string(nil), pc.Dependencies.Development...)
	clone.Dependencies.External = append([]string(nil), pc.Dependencies.External...)
	clone.CodebaseContext.RelevantFiles = append([]string(nil), pc.CodebaseContext.RelevantFiles...)
	return &clone
}
