package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/pkg/response"
)

// handleError converts domain errors to HTTP responses. Category mapping:
// validation 400, state conflict 409, authorization 403, not found 404.
func handleError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), "")
	case domain.IsConflictError(err):
		response.Error(c, http.StatusConflict, "STATE_CONFLICT", err.Error(), "")
	case domain.IsUnauthorizedError(err):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error(), "")
	case domain.IsNotFoundError(err):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}
