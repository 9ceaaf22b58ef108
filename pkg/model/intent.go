package model

import "time"

// Intent is one value from a closed enumeration. The
// Non-goals exclude plugin extension of this set — it is sealed.
type Intent string

const (
	IntentCreateProject Intent = "create_project"
	IntentListProjects Intent = "list_projects"
	IntentOpenProject Intent = "open_project"
	IntentUpdateProject Intent = "update_project"
	IntentArchiveProject Intent = "archive_project"
	IntentCreateTask Intent = "create_task"
	IntentListTasks Intent = "list_tasks"
	IntentRunTask Intent = "run_task"
	IntentCheckStatus Intent = "check_status"
	IntentDecomposeTask Intent = "decompose_task"
	IntentDecomposeProject Intent = "decompose_project"
	IntentSearchFiles Intent = "search_files"
	IntentSearchContent Intent = "search_content"
	IntentRefineTask Intent = "refine_task"
	IntentAssignTask Intent = "assign_task"
	IntentGetHelp Intent = "get_help"
	IntentParsePRD Intent = "parse_prd"
	IntentParseTasks Intent = "parse_tasks"
	IntentImportArtifact Intent = "import_artifact"
	IntentClarificationNeeded Intent = "clarification_needed"
	IntentUnknown Intent = "unknown"
)

// allIntents is the closed set, in declaration order.
var allIntents = []Intent{
	IntentCreateProject, IntentListProjects, IntentOpenProject, IntentUpdateProject, IntentArchiveProject,
	IntentCreateTask, IntentListTasks, IntentRunTask, IntentCheckStatus,
	IntentDecomposeTask, IntentDecomposeProject,
	IntentSearchFiles, IntentSearchContent,
	IntentRefineTask, IntentAssignTask, IntentGetHelp,
	IntentParsePRD, IntentParseTasks, IntentImportArtifact,
	IntentClarificationNeeded, IntentUnknown,
}

// IsValid reports whether i is a member of the closed intent set.
func (i Intent) IsValid() bool {
	for _, known := range allIntents {
		if known == i {
			return true
		}
	}
	return false
}

// AllIntents returns the closed intent set, in declaration order.
func AllIntents() []Intent {
	out := make([]Intent, len(allIntents))
	copy(out, allIntents)
	return out
}

// Entity is a single extracted entity from user input.
type Entity struct {
	Type string `json:"type"`
	Value string `json:"value"`
	Confidence float64 `json:"confidence"`
}

// AlternativeIntent is a lower-ranked intent candidate surfaced alongside
// the chosen one.
type AlternativeIntent struct {
	Intent Intent `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// IntentRecognitionMetadata carries provenance for a recognition result.
type IntentRecognitionMetadata struct {
	ProcessingTime time.Duration `json:"processing_time"`
	Method IntentMethod `json:"method"`
	ModelUsed string `json:"model_used,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IntentRecognitionResult is the output of the intent router.
type IntentRecognitionResult struct {
	Intent Intent `json:"intent"`
	Confidence float64 `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Entities []Entity `json:"entities"`
	OriginalInput string `json:"original_input"`
	ProcessedInput string `json:"processed_input"`
	Alternatives []AlternativeIntent `json:"alternatives,omitempty"`
	Metadata IntentRecognitionMetadata `json:"metadata"`
}

// NewIntentRecognitionResult fills ConfidenceLevel from Confidence,
// mirroring the banding required on every result.
func NewIntentRecognitionResult(intent Intent, confidence float64, originalInput, processedInput string, method IntentMethod) *IntentRecognitionResult {
	return &IntentRecognitionResult{
		Intent: intent,
		Confidence: confidence,
		ConfidenceLevel: ConfidenceLevelOf(confidence),
		OriginalInput: originalInput,
		ProcessedInput: processedInput,
		Metadata: IntentRecognitionMetadata{
			Method: method,
			Timestamp: time.Now(),
		},
	}
}
