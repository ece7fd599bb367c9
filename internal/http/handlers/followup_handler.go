// README: Followup handlers: start a clarification dialog and answer its questions.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itinera/internal/http/middleware"
	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
	"itinera/internal/service"
)

type FollowupHandler struct {
	planner  *service.TripPlanner
	plans    PlanStore
	sessions SessionStore
	logger   *zap.Logger
}

func NewFollowupHandler(planner *service.TripPlanner, plans PlanStore, sessions SessionStore, logger *zap.Logger) *FollowupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowupHandler{planner: planner, plans: plans, sessions: sessions, logger: logger}
}

type answerReq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	UseAI    bool   `json:"useAi"`
}

type answerResp struct {
	Complete bool           `json:"complete"`
	Session  *sessionResp   `json:"session,omitempty"`
	Plan     *plan.Document `json:"plan,omitempty"`
}

// Create handles POST /api/followups.
func (h *FollowupHandler) Create(c *gin.Context) {
	var req textReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sess, err := h.sessions.Create(c.Request.Context(), middleware.CallerUID(c), strings.TrimSpace(req.Text))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toSessionResp(sess))
}

// Answer handles POST /api/followups/:id/answers. The plan is generated and
// the session removed once every question has an answer.
func (h *FollowupHandler) Answer(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ctx := c.Request.Context()
	uid := middleware.CallerUID(c)
	sess, err := h.sessions.Get(ctx, c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	// Dialogs started by someone else are reported as missing.
	if sess.OwnerUID != "" && sess.OwnerUID != uid {
		writeDomainError(c, followup.ErrSessionNotFound)
		return
	}

	q := followup.Question(strings.TrimSpace(req.Question))
	if q == "" && sess.State.Current != nil {
		q = *sess.State.Current
	}
	next, err := followup.Answer(sess.State, q, req.Answer)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	sess.State = next

	if !next.IsComplete() {
		if err := h.sessions.Save(ctx, sess); err != nil {
			writeDomainError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, answerResp{Session: toSessionResp(sess)})
		return
	}

	result, err := h.planner.PlanFromDialog(ctx, next, service.PlanOptions{UseAI: req.UseAI, CallerUID: uid})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.plans.Save(ctx, uid, result); err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.sessions.Delete(ctx, sess.ID); err != nil {
		h.logger.Warn("delete finished followup session", zap.String("session", sess.ID), zap.Error(err))
	}
	doc := plan.ToDocument(result)
	writeJSON(c, http.StatusCreated, answerResp{Complete: true, Plan: &doc})
}
