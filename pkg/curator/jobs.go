package curator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Job is the live, mutex-guarded record of one submitted curation request
// , grounded on pkg/decompose/session.go's Session shape — same "mutate
// under lock, observe only through a snapshot" discipline, re-themed from
// decomposition results to a finished Context Package summary.
type Job struct {
	mu sync.RWMutex

	id string
	status model.SessionStatus
	summary OutputSummary
	err string
	startedAt time.Time
	finishedAt *time.Time
}

func newJob(id string) *Job {
	return &Job{
		id: id,
		status: model.SessionStatusPending,
		startedAt: time.Now(),
	}
}

func (j *Job) setStatus(status model.SessionStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
}

func (j *Job) setCompleted(summary OutputSummary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = model.SessionStatusCompleted
	j.summary = summary
	now := time.Now()
	j.finishedAt = &now
}

func (j *Job) setFailed(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = model.SessionStatusFailed
	j.err = message
	now := time.Now()
	j.finishedAt = &now
}

// Snapshot returns an immutable view of the job's current state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobSnapshot{
		JobID: j.id,
		Status: j.status,
		Summary: j.summary,
		Error: j.err,
		StartedAt: j.startedAt,
		FinishedAt: j.finishedAt,
	}
}

// JobSnapshot is the read-only result of a job lookup (its
// job-lookup interface).
type JobSnapshot struct {
	JobID string
	Status model.SessionStatus
	Summary OutputSummary
	Error string
	StartedAt time.Time
	FinishedAt *time.Time
}

// JobManager runs curation Requests against a Pipeline in the background
// and tracks them by job ID, grounded on pkg/decompose/engine.go's
// Manager (map + RWMutex + uuid, one goroutine per submission).
type JobManager struct {
	pipeline *Pipeline

	mu sync.RWMutex
	jobs map[string]*Job

	logger *slog.Logger
}

// NewJobManager builds a JobManager around pipeline.
func NewJobManager(pipeline *Pipeline) *JobManager {
	return &JobManager{
		pipeline: pipeline,
		jobs: make(map[string]*Job),
		logger: slog.Default().With("component", "curator"),
	}
}

// Submit assigns req a job ID if it doesn't already have one, registers
// the job, and runs the pipeline in the background. The returned Job is
// safe to read immediately — Status starts at pending.
func (m *JobManager) Submit(ctx context.Context, req Request) *Job {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}

	job := newJob(req.JobID)
	m.mu.Lock()
	m.jobs[job.id] = job
	m.mu.Unlock()

	go m.run(ctx, job, req)
	return job
}

func (m *JobManager) run(ctx context.Context, job *Job, req Request) {
	job.setStatus(model.SessionStatusInProgress)
	m.logger.Info("curation job started", "job_id", job.id)

	state, err := m.pipeline.Run(ctx, req)
	if err != nil {
		m.logger.Error("curation job failed", "job_id", job.id, "error", err)
		job.setFailed(err.Error())
		return
	}

	m.logger.Info("curation job completed", "job_id", job.id)
	job.setCompleted(state.Summary())
}

// Get returns a snapshot of the job identified by id.
func (m *JobManager) Get(id string) (JobSnapshot, bool) {
	m.mu.RLock()
	job, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return JobSnapshot{}, false
	}
	return job.Snapshot(), true
}
