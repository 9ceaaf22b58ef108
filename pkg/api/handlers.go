package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/curator"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// submitCurationHandler handles POST /jobs.
func (s *Server) submitCurationHandler(c *gin.Context) {
	// 1. Bind HTTP request.
	var req CurateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, coreerrors.Wrap("api", coreerrors.KindInvalidInput, "invalid request body", err))
		return
	}

	// 2. Fill in documented defaults for anything unset.
	req.applyDefaults()

	// 3. project_path must resolve under the configured allowed root.
	resolved, err := resolveProjectPath(s.allowedRoot, req.ProjectPath)
	if err != nil {
		writeError(c, coreerrors.Wrap("api", coreerrors.KindInvalidInput, "project_path is not allowed", err))
		return
	}

	// 4. Transform to the pipeline's own request shape.
	curateReq := curator.Request{
		Prompt:             req.Prompt,
		ProjectPath:        resolved,
		TaskType:           model.TaskTypeHint(req.TaskType),
		TokenBudget:        req.MaxTokenBudget,
		IncludePatterns:    req.IncludePatterns,
		ExcludePatterns:    req.ExcludePatterns,
		FocusAreas:         req.FocusAreas,
		UseCodeMapCache:    req.UseCodeMapCache == nil || *req.UseCodeMapCache,
		CacheMaxAgeMinutes: req.CacheMaxAgeMinutes,
		OutputFormat:       model.OutputFormat(req.OutputFormat),
	}

	// 5. Submit and return immediately.
	job := s.jobs.Submit(c.Request.Context(), curateReq)
	c.JSON(http.StatusAccepted, &CurateResponse{
		JobID:   job.Snapshot().JobID,
		Message: "context package curation started",
	})
}

// getJobHandler handles GET /jobs/:id.
func (s *Server) getJobHandler(c *gin.Context) {
	snap, ok := s.jobs.Get(c.Param("id"))
	if !ok {
		writeError(c, coreerrors.New("api", coreerrors.KindResourceNotFound, "job not found"))
		return
	}

	resp := JobResponse{
		JobID:     snap.JobID,
		Status:    string(snap.Status),
		Error:     snap.Error,
		StartedAt: snap.StartedAt.Format(timeFormat),
	}
	if snap.Status == model.SessionStatusCompleted {
		summary := snap.Summary
		resp.Summary = &summary
	}
	if snap.FinishedAt != nil {
		resp.FinishedAt = snap.FinishedAt.Format(timeFormat)
	}
	c.JSON(http.StatusOK, &resp)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *gin.Context) {
	stats := s.cfg.Stats()
	c.JSON(http.StatusOK, &HealthResponse{
		Status:  "ok",
		Version: version,
		Checks: map[string]HealthCheck{
			"llm_providers": {Status: "ok", Message: strconv.Itoa(stats.LLMProviders) + " configured"},
			"intent_types":  {Status: "ok", Message: strconv.Itoa(stats.IntentTypes) + " configured"},
		},
	})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
