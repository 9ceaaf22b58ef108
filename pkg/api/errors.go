package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
)

// statusForKind maps a coreerrors.Kind to the HTTP status a client should
// see for it.
var statusForKind = map[coreerrors.Kind]int{
	coreerrors.KindInvalidInput: http.StatusBadRequest,
	coreerrors.KindResourceNotFound: http.StatusNotFound,
	coreerrors.KindProviderUnavailable: http.StatusBadGateway,
	coreerrors.KindTimeout: http.StatusGatewayTimeout,
	coreerrors.KindInvalidModelOutput: http.StatusBadGateway,
	coreerrors.KindSchemaViolation: http.StatusUnprocessableEntity,
	coreerrors.KindCancelled: http.StatusRequestTimeout,
	coreerrors.KindInternal: http.StatusInternalServerError,
}

// writeError maps err to an HTTP status via its coreerrors.Kind and writes a
// JSON error body. Unclassified errors (neither a *coreerrors.CoreError nor
// wrapping one of its sentinels) resolve to KindInternal, log at error level
// and surface as 500, matching its "unexpected error" fallback.
func writeError(c *gin.Context, err error) {
	kind := coreerrors.KindOf(err)
	status, ok := statusForKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		slog.Error("unhandled request error", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
