package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/dispatch"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// Router is the subset of the intent-recognition/dispatch pipeline the
// intent handler needs, narrowed to this package's own collaborator
// interfaces so it depends on behavior, not concrete types.
type Router interface {
	Recognize(ctx context.Context, text string) (model.IntentRecognitionResult, error)
	Dispatch(ctx context.Context, intent model.Intent, toolParams map[string]any, execCtx dispatch.ExecutionContext) (dispatch.Outcome, error)
}

// IntentRequest is the inbound body of POST /intents.
type IntentRequest struct {
	Text           string         `json:"text" binding:"required"`
	SessionID      string         `json:"session_id"`
	CurrentProject string         `json:"current_project"`
	Params         map[string]any `json:"params"`
}

// IntentResponse reports the recognized intent and the outcome of
// dispatching it to its registered handler.
type IntentResponse struct {
	Intent     string              `json:"intent"`
	Confidence float64             `json:"confidence"`
	Method     string              `json:"method"`
	Outcome    dispatch.Outcome    `json:"outcome"`
	Entities   []model.Entity      `json:"entities,omitempty"`
}

// submitIntentHandler handles POST /intents: recognize the intent behind
// free-form text, then dispatch it to its registered handler.
func (s *Server) submitIntentHandler(c *gin.Context) {
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, coreerrors.Wrap("api", coreerrors.KindInvalidInput, "invalid request body", err))
		return
	}

	result, err := s.router.Recognize(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	outcome, err := s.router.Dispatch(c.Request.Context(), result.Intent, req.Params, dispatch.ExecutionContext{
		SessionID:      req.SessionID,
		CurrentProject: req.CurrentProject,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, &IntentResponse{
		Intent:     string(result.Intent),
		Confidence: result.Confidence,
		Method:     string(result.Metadata.Method),
		Outcome:    outcome,
		Entities:   result.Entities,
	})
}
