// Package decompose implements the Decomposition Engine: it
// splits a task recursively until every leaf is atomic.
package decompose

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Session is the live, mutex-guarded decomposition session object
//, grounded on
// pkg/session/types.go's Session{mu sync.RWMutex}/Clone() shape. It
// mutates over time; callers only ever observe it through Snapshot, which
// mirrors Clone()'s "never mutates a returned snapshot" guarantee.
type Session struct {
	mu sync.RWMutex

	id string
	originatingTask model.AtomicTask
	projectContext model.ProjectContext
	options model.DecompositionOptions
	status model.SessionStatus
	results []model.DecompositionResult
	err string
	startedAt time.Time
	finishedAt *time.Time

	cancelled atomic.Bool
}

// newSession builds a pending Session.
func newSession(id string, task model.AtomicTask, projectContext model.ProjectContext, options model.DecompositionOptions) *Session {
	return &Session{
		id: id,
		originatingTask: task,
		projectContext: projectContext,
		options: options,
		status: model.SessionStatusPending,
		startedAt: time.Now(),
	}
}

// SetStatus transitions the session's status (thread-safe).
func (s *Session) SetStatus(status model.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetResults replaces the session's accumulated results and marks it
// completed.
func (s *Session) SetResults(results []model.DecompositionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.status = model.SessionStatusCompleted
	now := time.Now()
	s.finishedAt = &now
}

// SetError marks the session failed.
func (s *Session) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = message
	s.status = model.SessionStatusFailed
	now := time.Now()
	s.finishedAt = &now
}

// Cancel flags the session cancelled. The recursive procedure checks
// IsCancelled between recursion levels.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// IsCancelled reports whether Cancel has been called.
func (s *Session) IsCancelled() bool {
	return s.cancelled.Load()
}

// Snapshot returns a safe, independent copy of the session for external
// observation.
func (s *Session) Snapshot() model.DecompositionSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.DecompositionResult, len(s.results))
	copy(results, s.results)

	return model.DecompositionSession{
		ID: s.id,
		OriginatingTask: s.originatingTask,
		ProjectContext: s.projectContext,
		Options: s.options,
		Status: s.status,
		Results: results,
		Error: s.err,
		StartedAt: s.startedAt,
		FinishedAt: s.finishedAt,
	}
}
