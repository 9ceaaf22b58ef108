package model

import (
	"fmt"
	"strings"
	"time"
)

// QualityCriteria records the quality bar an Atomic Task must clear.
type QualityCriteria struct {
	CodeStyle []string `json:"code_style,omitempty"`
	Performance []string `json:"performance,omitempty"`
	Security []string `json:"security,omitempty"`
	Maintainability []string `json:"maintainability,omitempty"`
}

// TestingCriteria records the testing bar an Atomic Task must clear.
type TestingCriteria struct {
	UnitTests []string `json:"unit_tests,omitempty"`
	IntegrationTests []string `json:"integration_tests,omitempty"`
	CoverageTarget float64 `json:"coverage_target,omitempty"`
}

// IntegrationCriteria records cross-component checks an Atomic Task must pass.
type IntegrationCriteria struct {
	Dependencies []string `json:"dependencies,omitempty"`
	CompatibleWith []string `json:"compatible_with,omitempty"`
	BreakingChanges bool `json:"breaking_changes"`
}

// AtomicTask is a unit of work with at most MaxAtomicHours of estimated
// effort. Fields mirror the originating shape, re-themed to
// this domain's status/priority/type enums and dependency graph.
type AtomicTask struct {
	ID string `json:"id"`
	Title string `json:"title"`
	Description string `json:"description"`
	Status TaskStatus `json:"status"`
	Priority TaskPriority `json:"priority"`
	Type TaskType `json:"type"`

	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours *float64 `json:"actual_hours,omitempty"`

	ProjectID string `json:"project_id"`
	EpicID string `json:"epic_id,omitempty"`

	Dependencies []string `json:"dependencies"`
	Dependents []string `json:"dependents"`

	FilePaths []string `json:"file_paths,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`

	Testing TestingCriteria `json:"testing,omitempty"`
	Quality QualityCriteria `json:"quality,omitempty"`
	Integration IntegrationCriteria `json:"integration,omitempty"`

	ValidationMethods []string `json:"validation_methods,omitempty"`
	AssignedAgent string `json:"assigned_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedBy string `json:"created_by"`
	Tags []string `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MaxAtomicHours is the estimated-effort ceiling for a task to be
// considered atomic at all. The decomposition engine's own atomicity
// predicate is narrower (bounded by the session's configured min/max hours)
// and lives in pkg/decompose; this is the absolute, config- independent cap.
const MaxAtomicHours = 8.0

// MinEstimatedHours and MaxEstimatedHours bound AtomicTask.EstimatedHours
// for any task, atomic or not.
const (
	MinEstimatedHours = 0.1
	MaxEstimatedHours = 24.0
)

// Validate checks field-level invariants that hold independent of any
// decomposition-session configuration: id presence, hour bounds, and a
// valid status/priority/type. It does not check acyclicity of the
// dependency graph — that is a cross-task invariant enforced by the
// session (pkg/decompose), not a single task's own validation.
func (t *AtomicTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("task id required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title required")
	}
	if t.EstimatedHours < MinEstimatedHours || t.EstimatedHours > MaxEstimatedHours {
		return fmt.Errorf("estimated hours %.2f out of range [%.1f, %.1f]", t.EstimatedHours, MinEstimatedHours, MaxEstimatedHours)
	}
	if t.Status != "" && !t.Status.IsValid() {
		return fmt.Errorf("invalid status %q", t.Status)
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if t.Type != "" && !t.Type.IsValid() {
		return fmt.Errorf("invalid type %q", t.Type)
	}
	return nil
}

// IsAtomicByEffort reports whether t's estimated hours alone would permit
// atomicity, independent of the decomposition
// session's configured thresholds or the full predicate .
func (t *AtomicTask) IsAtomicByEffort() bool {
	return t.EstimatedHours <= MaxAtomicHours
}

// CanTransitionTo reports whether moving the task's status to next is legal
// per the state machine .
func (t *AtomicTask) CanTransitionTo(next TaskStatus) bool {
	return t.Status.CanTransition(next)
}

// SubTaskID derives the identifier for the n-th sub-task generated from
// parentID, in this step ("assign ids <parentId>.<n>").
func SubTaskID(parentID string, n int) string {
	return fmt.Sprintf("%s.%d", parentID, n)
}
