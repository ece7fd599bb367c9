// README: Classification result types, heuristic thresholds and classifier options.
package classifier

import (
	"time"

	"itinera/internal/modules/slots"
)

// InputType is the completeness category of a request.
type InputType string

const (
	// TypeA has enough signals to generate directly.
	TypeA InputType = "A"
	// TypeB generates after default filling.
	TypeB InputType = "B"
	// TypeC needs the clarification dialog.
	TypeC InputType = "C"
	// TypeD asks to reuse a saved template.
	TypeD InputType = "D"
)

// Risk flags appended by validation.
const (
	RiskDestinationUnclear = "destination unclear"
	RiskMissingDates       = "missing date/duration"
)

// Result is the outcome of a single Classify call.
type Result struct {
	InputType   InputType            `json:"inputType"`
	Slots       slots.ExtractedSlots `json:"slots"`
	Assumptions []string             `json:"assumptions"`
	RiskFlags   []string             `json:"riskFlags"`
}

// Thresholds are the heuristic constants of the classifier. They have no derivation
// beyond tuning, so they are kept overridable rather than hard-coded.
type Thresholds struct {
	// SignalConfidence is the exclusive lower bound for destination/date signals.
	SignalConfidence float64
	// TypeAMinSignals is the signal count at which a request is generated directly.
	TypeAMinSignals int
	// FragmentMaxRunes marks inputs too short to carry a request.
	FragmentMaxRunes int
	// DestinationRiskConfidence flags "destination unclear" below this value.
	DestinationRiskConfidence float64
	// DerivedRangeDiscount scales duration confidence for a range anchored at tomorrow.
	DerivedRangeDiscount float64
	// DefaultConfidence is assigned to every default-filled slot.
	DefaultConfidence float64
}

// DefaultThresholds returns the tuned production values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignalConfidence:          0.5,
		TypeAMinSignals:           2,
		FragmentMaxRunes:          3,
		DestinationRiskConfidence: 0.5,
		DerivedRangeDiscount:      0.7,
		DefaultConfidence:         0.5,
	}
}

// Extraction confidences, tied to match specificity.
const (
	confDestinationKeyword = 0.8
	confDestinationPattern = 0.6
	confDurationNumeric    = 0.9
	confDurationNamed      = 0.8
	confDurationHint       = 0.4
	confExplicitDate       = 0.9
	confSingleDate         = 0.6
	confStartLocation      = 0.7
	confPace               = 0.8
	confWalking            = 0.7
	confBudget             = 0.7
	confTransport          = 0.7
)

type Option func(*Classifier)

// WithThresholds overrides the heuristic constants.
func WithThresholds(t Thresholds) Option {
	return func(c *Classifier) { c.thresholds = t }
}

// WithClock sets the time source used to resolve "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// WithLocation sets the local time zone for derived dates.
func WithLocation(loc *time.Location) Option {
	return func(c *Classifier) { c.loc = loc }
}

// WithExtractor replaces the extractor registered for field.
func WithExtractor(field Field, e Extractor) Option {
	return func(c *Classifier) { c.extractors[field] = e }
}
