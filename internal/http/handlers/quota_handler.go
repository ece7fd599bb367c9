// README: Quota handler: remaining monthly AI generations for the caller.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"itinera/internal/http/middleware"
)

// QuotaReader reports a caller's remaining AI generations.
type QuotaReader interface {
	Remaining(ctx context.Context, uid string) (int, error)
}

type QuotaHandler struct {
	quota QuotaReader
}

func NewQuotaHandler(quota QuotaReader) *QuotaHandler {
	return &QuotaHandler{quota: quota}
}

type quotaResp struct {
	UID       string `json:"uid"`
	Remaining int    `json:"remaining"`
}

// Get handles GET /api/quota.
func (h *QuotaHandler) Get(c *gin.Context) {
	if h.quota == nil {
		writeError(c, http.StatusServiceUnavailable, "quota not configured")
		return
	}
	uid := middleware.CallerUID(c)
	if uid == "" {
		writeError(c, http.StatusUnauthorized, "quota is tracked per signed-in user")
		return
	}
	n, err := h.quota.Remaining(c.Request.Context(), uid)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, quotaResp{UID: uid, Remaining: n})
}
