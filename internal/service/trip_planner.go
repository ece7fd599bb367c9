// README: TripPlanner turns request text into a plan: classify, then AI with scheduler fallback.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"itinera/internal/ai"
	"itinera/internal/maps"
	"itinera/internal/modules/aiusage"
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
	"itinera/internal/modules/scheduler"
	"itinera/internal/modules/slots"
)

// Risk flags added by the planner.
const (
	RiskAIFallbackPrefix = "ai fallback: "
	RiskAIPartial        = "ai plan skipped days with unreadable dates"
)

// Fallback reasons recorded after RiskAIFallbackPrefix.
const (
	ReasonDisabled      = "disabled"
	ReasonTimeout       = "timeout"
	ReasonInvalidJSON   = "invalid response"
	ReasonProvider      = "provider error"
	ReasonQuota         = "quota exhausted"
	ReasonQuotaCheck    = "quota check failed"
	ReasonNoUsableDays  = "no usable days"
	maxPromptAttraction = 3
)

// Quota charges one AI generation to a user.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
}

// AttractionSearcher suggests places to anchor the AI prompt.
type AttractionSearcher interface {
	SearchAttractions(ctx context.Context, destination, category string) ([]maps.Place, error)
}

// Deps are the collaborators of a TripPlanner. Itinerary, Quota and Places
// are optional.
type Deps struct {
	Classifier *classifier.Classifier
	Scheduler  *scheduler.Scheduler
	Itinerary  *ai.Itinerary
	Quota      Quota
	Places     AttractionSearcher
	Location   *time.Location
	Logger     *zap.Logger
}

// TripPlanner orchestrates classification, AI generation and the scheduler.
type TripPlanner struct {
	classifier *classifier.Classifier
	scheduler  *scheduler.Scheduler
	itinerary  *ai.Itinerary
	quota      Quota
	places     AttractionSearcher
	loc        *time.Location
	logger     *zap.Logger
}

func NewTripPlanner(d Deps) *TripPlanner {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TripPlanner{
		classifier: d.Classifier,
		scheduler:  d.Scheduler,
		itinerary:  d.Itinerary,
		quota:      d.Quota,
		places:     d.Places,
		loc:        loc,
		logger:     logger,
	}
}

// PlanOptions controls a single planning run.
type PlanOptions struct {
	UseAI     bool
	CallerUID string
}

// Outcome is the result of PlanFromText. Plan is nil when the request needs
// the clarification dialog (type C) or a saved template (type D).
type Outcome struct {
	Classification classifier.Result
	Plan           *plan.PlanResult
	NeedsFollowup  bool
	NeedsTemplate  bool
}

// Classify exposes the classifier for callers that only need the category.
func (p *TripPlanner) Classify(text string) classifier.Result {
	return p.classifier.Classify(text)
}

// PlanFromText classifies text and, for types A and B, generates a plan.
func (p *TripPlanner) PlanFromText(ctx context.Context, text string, opts PlanOptions) (Outcome, error) {
	res := p.classifier.Classify(text)
	out := Outcome{Classification: res}

	switch res.InputType {
	case classifier.TypeC:
		out.NeedsFollowup = true
		return out, nil
	case classifier.TypeD:
		out.NeedsTemplate = true
		return out, nil
	}

	result, err := p.PlanFromSlots(ctx, res.Slots, res.Assumptions, res.RiskFlags, opts)
	if err != nil {
		return out, err
	}
	out.Plan = &result
	return out, nil
}

// PlanFromDialog builds slots from a completed dialog and plans them.
func (p *TripPlanner) PlanFromDialog(ctx context.Context, state followup.State, opts PlanOptions) (plan.PlanResult, error) {
	s, assumptions, err := followup.BuildSlots(state, p.classifier)
	if err != nil {
		return plan.PlanResult{}, err
	}
	return p.PlanFromSlots(ctx, s, assumptions, p.classifier.Validate(s), opts)
}

// PlanFromSlots tries the AI path when asked to and falls back to the
// scheduler on any AI failure, recording the reason as a risk flag. Only
// caller cancellation and scheduler errors are returned.
func (p *TripPlanner) PlanFromSlots(ctx context.Context, s slots.ExtractedSlots, assumptions, riskFlags []string, opts PlanOptions) (plan.PlanResult, error) {
	s = p.withDerivedRange(s)
	flags := append([]string{}, riskFlags...)

	if opts.UseAI {
		result, reason, err := p.tryAI(ctx, s, assumptions, flags, opts)
		if err != nil {
			return plan.PlanResult{}, err
		}
		if reason == "" {
			return result, nil
		}
		p.logger.Info("falling back to scheduler", zap.String("reason", reason))
		flags = append(flags, RiskAIFallbackPrefix+reason)
	}

	result, err := p.scheduler.GeneratePlan(s)
	if err != nil {
		return plan.PlanResult{}, err
	}
	result.Assumptions = append([]string{}, assumptions...)
	result.RiskFlags = flags
	return result, nil
}

// tryAI returns a plan, or a non-empty fallback reason. err is set only when
// the caller's context is cancelled.
func (p *TripPlanner) tryAI(ctx context.Context, s slots.ExtractedSlots, assumptions, flags []string, opts PlanOptions) (plan.PlanResult, string, error) {
	if p.itinerary == nil || !p.itinerary.Enabled() {
		return plan.PlanResult{}, ReasonDisabled, nil
	}

	if p.quota != nil && opts.CallerUID != "" {
		if err := p.quota.UseToken(ctx, opts.CallerUID); err != nil {
			if errors.Is(err, aiusage.ErrInsufficientTokens) {
				return plan.PlanResult{}, ReasonQuota, nil
			}
			p.logger.Warn("quota check failed", zap.String("uid", opts.CallerUID), zap.Error(err))
			return plan.PlanResult{}, ReasonQuotaCheck, nil
		}
	}

	req := ai.RequestFromSlots(s, p.suggestAttractions(ctx, s))
	aiPlan, err := p.itinerary.GenerateAIItinerary(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return plan.PlanResult{}, "", err
		}
		return plan.PlanResult{}, fallbackReason(err), nil
	}

	result := ai.ToPlanResult(aiPlan, req.Destination, assumptions, flags, p.loc)
	if len(result.Days) == 0 {
		return plan.PlanResult{}, ReasonNoUsableDays, nil
	}
	if len(result.Days) < len(aiPlan.Days) {
		result.RiskFlags = append(result.RiskFlags, RiskAIPartial)
	}
	return result, "", nil
}

func (p *TripPlanner) suggestAttractions(ctx context.Context, s slots.ExtractedSlots) []string {
	if p.places == nil {
		return nil
	}
	category := ""
	if len(s.InterestTags) > 0 {
		category = s.InterestTags[0]
	}
	places, err := p.places.SearchAttractions(ctx, s.Destination.Value, category)
	if err != nil {
		p.logger.Warn("attraction search failed", zap.String("destination", s.Destination.Value), zap.Error(err))
		return nil
	}
	names := maps.Names(places)
	if len(names) > maxPromptAttraction {
		names = names[:maxPromptAttraction]
	}
	return names
}

// withDerivedRange anchors a duration-only request at tomorrow so the AI and
// the scheduler plan the same dates.
func (p *TripPlanner) withDerivedRange(s slots.ExtractedSlots) slots.ExtractedSlots {
	if s.DateRange.Has() || !s.DurationDays.Has() || s.DurationDays.Value < 1 {
		return s
	}
	out := s.Clone()
	tomorrow := p.classifier.Today().AddDate(0, 0, 1)
	out.DateRange = slots.Known(
		slots.RangeFromDuration(tomorrow, s.DurationDays.Value),
		s.DurationDays.Confidence*p.classifier.Thresholds().DerivedRangeDiscount,
	)
	return out
}

func fallbackReason(err error) string {
	var invalid *ai.InvalidJSONError
	var genErr *ai.GenerationError
	switch {
	case errors.Is(err, ai.ErrAIDisabled):
		return ReasonDisabled
	case errors.Is(err, ai.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &invalid):
		return ReasonInvalidJSON
	case errors.As(err, &genErr):
		return ReasonProvider
	default:
		return err.Error()
	}
}
