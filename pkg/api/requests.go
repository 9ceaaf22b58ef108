package api

// CurateRequest is the inbound body of POST /jobs: the original
// user prompt, the project it concerns, and the knobs that bound how much
// work the curation pipeline does on its behalf.
type CurateRequest struct {
	Prompt             string   `json:"prompt" binding:"required"`
	ProjectPath        string   `json:"project_path" binding:"required"`
	TaskType           string   `json:"task_type" binding:"omitempty,oneof=feature_addition refactoring bug_fix performance_optimization general"`
	MaxFiles           int      `json:"max_files" binding:"omitempty,min=1,max=1000"`
	IncludePatterns    []string `json:"include_patterns"`
	ExcludePatterns    []string `json:"exclude_patterns"`
	FocusAreas         []string `json:"focus_areas"`
	MaxTokenBudget     int      `json:"max_token_budget" binding:"omitempty,min=1000,max=500000"`
	OutputFormat       string   `json:"output_format" binding:"omitempty,oneof=xml json"`
	UseCodeMapCache    *bool    `json:"useCodeMapCache"`
	CacheMaxAgeMinutes int      `json:"cacheMaxAgeMinutes" binding:"omitempty,min=1,max=1440"`
}

// Defaults mirrored from the inbound-request contract: a field left at its
// JSON zero value is filled in here before the request reaches the pipeline.
const (
	defaultTaskType            = "general"
	defaultMaxFiles            = 100
	defaultMaxTokenBudget      = 250000
	defaultOutputFormat        = "xml"
	defaultCacheMaxAgeMinutes  = 60
)

var (
	defaultIncludePatterns = []string{"**/*"}
	defaultExcludePatterns = []string{"node_modules/**", ".git/**", "dist/**", "build/**"}
)

// applyDefaults fills every unset field with its documented default. Called
// once after binding/validation succeeds.
func (r *CurateRequest) applyDefaults() {
	if r.TaskType == "" {
		r.TaskType = defaultTaskType
	}
	if r.MaxFiles == 0 {
		r.MaxFiles = defaultMaxFiles
	}
	if len(r.IncludePatterns) == 0 {
		r.IncludePatterns = defaultIncludePatterns
	}
	if len(r.ExcludePatterns) == 0 {
		r.ExcludePatterns = defaultExcludePatterns
	}
	if r.MaxTokenBudget == 0 {
		r.MaxTokenBudget = defaultMaxTokenBudget
	}
	if r.OutputFormat == "" {
		r.OutputFormat = defaultOutputFormat
	}
	if r.UseCodeMapCache == nil {
		useCache := true
		r.UseCodeMapCache = &useCache
	}
	if r.CacheMaxAgeMinutes == 0 {
		r.CacheMaxAgeMinutes = defaultCacheMaxAgeMinutes
	}
}
