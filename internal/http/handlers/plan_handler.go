// README: Plan handlers: classify, generate, read, template summary and day replacement.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"itinera/internal/http/middleware"
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
	"itinera/internal/service"
)

// PlanStore persists generated plans.
type PlanStore interface {
	Save(ctx context.Context, ownerUID string, r plan.PlanResult) error
	Get(ctx context.Context, id uuid.UUID) (plan.PlanResult, string, error)
	Update(ctx context.Context, r plan.PlanResult) error
}

// SessionStore keeps clarification dialogs between requests.
type SessionStore interface {
	Create(ctx context.Context, ownerUID, text string) (followup.Session, error)
	Get(ctx context.Context, id string) (followup.Session, error)
	Save(ctx context.Context, sess followup.Session) error
	Delete(ctx context.Context, id string) error
}

// Outcome statuses returned by POST /api/plans.
const (
	StatusPlanned  = "planned"
	StatusFollowup = "followup"
	StatusTemplate = "template"
)

type PlanHandler struct {
	planner  *service.TripPlanner
	plans    PlanStore
	sessions SessionStore
	loc      *time.Location
	logger   *zap.Logger
}

func NewPlanHandler(planner *service.TripPlanner, plans PlanStore, sessions SessionStore, loc *time.Location, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{planner: planner, plans: plans, sessions: sessions, loc: loc, logger: logger}
}

type textReq struct {
	Text  string `json:"text"`
	UseAI bool   `json:"useAi"`
}

// sessionResp is the pending question of a dialog.
type sessionResp struct {
	ID       string `json:"id"`
	Question string `json:"question,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

type outcomeResp struct {
	Status         string            `json:"status"`
	Classification classifier.Result `json:"classification"`
	Plan           *plan.Document    `json:"plan,omitempty"`
	Session        *sessionResp      `json:"session,omitempty"`
}

func bindText(c *gin.Context) (textReq, bool) {
	var req textReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return req, false
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return req, false
	}
	return req, true
}

// Classify handles POST /api/classify.
func (h *PlanHandler) Classify(c *gin.Context) {
	req, ok := bindText(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, h.planner.Classify(req.Text))
}

// Create handles POST /api/plans.
func (h *PlanHandler) Create(c *gin.Context) {
	req, ok := bindText(c)
	if !ok {
		return
	}
	uid := middleware.CallerUID(c)
	out, err := h.planner.PlanFromText(c.Request.Context(), req.Text, service.PlanOptions{UseAI: req.UseAI, CallerUID: uid})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := outcomeResp{Classification: out.Classification}
	switch {
	case out.NeedsFollowup:
		sess, err := h.sessions.Create(c.Request.Context(), uid, req.Text)
		if err != nil {
			h.logger.Error("create followup session", zap.Error(err))
			writeDomainError(c, err)
			return
		}
		resp.Status = StatusFollowup
		resp.Session = toSessionResp(sess)
		writeJSON(c, http.StatusOK, resp)
	case out.NeedsTemplate:
		resp.Status = StatusTemplate
		writeJSON(c, http.StatusOK, resp)
	default:
		if err := h.plans.Save(c.Request.Context(), uid, *out.Plan); err != nil {
			h.logger.Error("save plan", zap.Error(err))
			writeDomainError(c, err)
			return
		}
		doc := plan.ToDocument(*out.Plan)
		resp.Status = StatusPlanned
		resp.Plan = &doc
		writeJSON(c, http.StatusCreated, resp)
	}
}

// load reads a plan visible to the caller. Plans owned by someone else are
// reported as missing.
func (h *PlanHandler) load(c *gin.Context) (plan.PlanResult, bool) {
	id, ok := parsePlanID(c)
	if !ok {
		return plan.PlanResult{}, false
	}
	r, owner, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return plan.PlanResult{}, false
	}
	if owner != "" && owner != middleware.CallerUID(c) {
		writeDomainError(c, plan.ErrNotFound)
		return plan.PlanResult{}, false
	}
	return r, true
}

// Get handles GET /api/plans/:id.
func (h *PlanHandler) Get(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, plan.ToDocument(r))
}

// Template handles GET /api/plans/:id/template.
func (h *PlanHandler) Template(c *gin.Context) {
	r, ok := h.load(c)
	if !ok {
		return
	}
	tpl, err := plan.TemplateSummary(r)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tpl)
}

// PutDay handles PUT /api/plans/:id/days/:date.
func (h *PlanHandler) PutDay(c *gin.Context) {
	var dd plan.DayDocument
	if err := c.ShouldBindJSON(&dd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date := c.Param("date")
	if dd.Date == "" {
		dd.Date = date
	}
	if dd.Date != date {
		writeError(c, http.StatusBadRequest, "day date does not match path")
		return
	}

	r, ok := h.load(c)
	if !ok {
		return
	}
	day, err := plan.FromDayDocument(dd, h.loc)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	updated, err := plan.WithDay(r, day)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if err := h.plans.Update(c.Request.Context(), updated); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, plan.ToDocument(updated))
}

func toSessionResp(sess followup.Session) *sessionResp {
	resp := &sessionResp{ID: sess.ID}
	if q := sess.State.Current; q != nil {
		resp.Question = string(*q)
		resp.Prompt = q.Prompt()
	}
	return resp
}
