// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors to status codes.
func writeDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, plan.ErrMissingDestination),
		errors.Is(err, plan.ErrMissingDateInfo),
		errors.Is(err, plan.ErrInvalidDateRange),
		errors.Is(err, plan.ErrInvalidDay),
		errors.Is(err, plan.ErrUnsupportedVersion),
		errors.Is(err, followup.ErrUnknownQuestion),
		errors.Is(err, followup.ErrEmptyAnswer):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, plan.ErrNotFound),
		errors.Is(err, plan.ErrDayNotFound),
		errors.Is(err, followup.ErrSessionNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, followup.ErrIncomplete):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, plan.ErrNoActivity):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(c, http.StatusServiceUnavailable, "request cancelled")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parsePlanID rejects anything that is not a uuid.
func parsePlanID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid plan id")
		return uuid.UUID{}, false
	}
	return id, true
}
