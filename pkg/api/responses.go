package api

import "github.com/forgeflow-dev/taskforge/pkg/curator"

// CurateResponse is returned immediately by POST /jobs: the
// request has been accepted and queued, not yet run.
type CurateResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// JobResponse is returned by GET /jobs/:id: the job's
// current status, and its output summary once it has completed.
type JobResponse struct {
	JobID      string                 `json:"jobId"`
	Status     string                 `json:"status"`
	Error      string                 `json:"error,omitempty"`
	Summary    *curator.OutputSummary `json:"summary,omitempty"`
	StartedAt  string                 `json:"startedAt"`
	FinishedAt string                 `json:"finishedAt,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck reports one health-check component's status.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
