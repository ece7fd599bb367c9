// README: Classifier turns raw request text into a typed, slot-filled Result.
package classifier

import (
	"strings"
	"time"
	"unicode/utf8"

	"itinera/internal/modules/slots"
)

// Classifier is stateless apart from its configuration and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
	now        func() time.Time
	loc        *time.Location
	extractors map[Field]Extractor
}

func New(opts ...Option) *Classifier {
	c := &Classifier{
		thresholds: DefaultThresholds(),
		now:        time.Now,
		loc:        time.Local,
		extractors: defaultExtractors(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the active heuristic constants.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// Today is the current date in the classifier's location.
func (c *Classifier) Today() time.Time {
	return slots.DateOnly(c.now().In(c.loc))
}

// FillDefaults applies the default filler with the configured confidence.
func (c *Classifier) FillDefaults(s slots.ExtractedSlots) (slots.ExtractedSlots, []string) {
	return FillDefaults(s, c.Today(), c.thresholds.DefaultConfidence)
}

// Classify runs preprocess, type determination, extraction, default filling
// (type B only) and risk validation, in that order.
func (c *Classifier) Classify(text string) Result {
	clean := preprocess(text)
	in := Input{
		Text:       clean,
		Lower:      strings.ToLower(clean),
		Today:      c.Today(),
		Thresholds: c.thresholds,
	}

	extracted := c.extract(in)

	var typ InputType
	switch {
	case containsAny(clean, templateKeywords):
		typ = TypeD
	case utf8.RuneCountInString(clean) <= c.thresholds.FragmentMaxRunes:
		typ = TypeC
	default:
		typ = c.typeFromSignals(extracted)
	}

	res := Result{InputType: typ, Slots: extracted}
	if typ == TypeB {
		res.Slots, res.Assumptions = c.FillDefaults(extracted)
	}
	res.RiskFlags = c.Validate(res.Slots)
	if res.Assumptions == nil {
		res.Assumptions = []string{}
	}
	return res
}

// Validate returns the risk flags for s.
func (c *Classifier) Validate(s slots.ExtractedSlots) []string {
	flags := []string{}
	if s.Destination.Confidence < c.thresholds.DestinationRiskConfidence {
		flags = append(flags, RiskDestinationUnclear)
	}
	if !s.DateRange.Has() && !s.DurationDays.Has() {
		flags = append(flags, RiskMissingDates)
	}
	return flags
}

func (c *Classifier) extract(in Input) slots.ExtractedSlots {
	var out slots.ExtractedSlots
	for _, f := range fieldOrder {
		if e, ok := c.extractors[f]; ok && e != nil {
			e(in, &out)
		}
	}
	out.Reconcile()
	return out
}

func (c *Classifier) typeFromSignals(s slots.ExtractedSlots) InputType {
	signals := 0
	if s.Destination.Above(c.thresholds.SignalConfidence) {
		signals++
	}
	if s.DateRange.Above(c.thresholds.SignalConfidence) || s.DurationDays.Above(c.thresholds.SignalConfidence) {
		signals++
	}
	if len(s.InterestTags) > 0 || s.Pace.Has() || s.WalkingLevel.Has() {
		signals++
	}
	switch {
	case signals >= c.thresholds.TypeAMinSignals:
		return TypeA
	case signals > 0:
		return TypeB
	default:
		return TypeC
	}
}

func preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
