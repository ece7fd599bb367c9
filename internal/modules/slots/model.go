// README: Slot model; every extracted trip field carries its own confidence.
package slots

import (
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates across slots and plans.
const DateLayout = "2006-01-02"

// SlotInfo is a single extracted value with the confidence of its extraction.
// Present=false means the value is absent; Confidence is then 0.
type SlotInfo[T any] struct {
	Value      T       `json:"value"`
	Present    bool    `json:"present"`
	Confidence float64 `json:"confidence"`
}

// Known returns a present slot at the given confidence.
func Known[T any](v T, confidence float64) SlotInfo[T] {
	return SlotInfo[T]{Value: v, Present: true, Confidence: confidence}
}

// Absent returns an empty slot with confidence 0.0.
func Absent[T any]() SlotInfo[T] {
	return SlotInfo[T]{}
}

func (s SlotInfo[T]) Has() bool { return s.Present }

// Above reports whether the slot is present with confidence strictly greater than threshold.
func (s SlotInfo[T]) Above(threshold float64) bool {
	return s.Present && s.Confidence > threshold
}

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PaceTight    Pace = "tight"
)

type WalkingLevel string

const (
	WalkingLow    WalkingLevel = "low"
	WalkingNormal WalkingLevel = "normal"
	WalkingHigh   WalkingLevel = "high"
)

type BudgetLevel string

const (
	BudgetLow    BudgetLevel = "low"
	BudgetMedium BudgetLevel = "medium"
	BudgetHigh   BudgetLevel = "high"
)

type TransportPreference string

const (
	TransportPublic  TransportPreference = "public_transport"
	TransportDriving TransportPreference = "driving"
	TransportTaxi    TransportPreference = "taxi"
	TransportWalking TransportPreference = "walking"
)

// FixedAnchor is a hard-scheduled event (reservation, ticketed show) the plan must respect.
type FixedAnchor struct {
	Title    string `json:"title"`
	Date     string `json:"date"`  // yyyy-MM-dd
	Start    string `json:"start"` // HH:mm
	End      string `json:"end"`   // HH:mm
	Location string `json:"location,omitempty"`
}

// TimeConstraints limits the usable part of each day. Only one flag is honoured.
type TimeConstraints struct {
	OnlyMorning   bool `json:"onlyMorning"`
	OnlyAfternoon bool `json:"onlyAfternoon"`
	OnlyEvening   bool `json:"onlyEvening"`
}

// ExtractedSlots aggregates everything known about a request.
type ExtractedSlots struct {
	Destination         SlotInfo[string]              `json:"destination"`
	DateRange           SlotInfo[DateRange]           `json:"dateRange"`
	DurationDays        SlotInfo[int]                 `json:"durationDays"`
	StartLocation       SlotInfo[string]              `json:"startLocation"`
	FixedAnchors        []FixedAnchor                 `json:"fixedAnchors,omitempty"`
	TimeConstraints     *TimeConstraints              `json:"timeConstraints,omitempty"`
	Pace                SlotInfo[Pace]                `json:"pace"`
	WalkingLevel        SlotInfo[WalkingLevel]        `json:"walkingLevel"`
	BudgetLevel         SlotInfo[BudgetLevel]         `json:"budgetLevel"`
	InterestTags        []string                      `json:"interestTags"`
	TransportPreference SlotInfo[TransportPreference] `json:"transportPreference"`
}

// Clone returns a deep copy so defaults can be filled without touching the original.
func (s ExtractedSlots) Clone() ExtractedSlots {
	out := s
	if s.FixedAnchors != nil {
		out.FixedAnchors = append([]FixedAnchor(nil), s.FixedAnchors...)
	}
	if s.TimeConstraints != nil {
		tc := *s.TimeConstraints
		out.TimeConstraints = &tc
	}
	if s.InterestTags != nil {
		out.InterestTags = append([]string(nil), s.InterestTags...)
	}
	return out
}

// AddInterest inserts tag keeping InterestTags sorted and unique.
func (s *ExtractedSlots) AddInterest(tag string) {
	i := sort.SearchStrings(s.InterestTags, tag)
	if i < len(s.InterestTags) && s.InterestTags[i] == tag {
		return
	}
	s.InterestTags = append(s.InterestTags, "")
	copy(s.InterestTags[i+1:], s.InterestTags[i:])
	s.InterestTags[i] = tag
}

// Reconcile makes durationDays agree with dateRange when a range is known.
// The range wins because it was stated (or derived) as concrete dates.
func (s *ExtractedSlots) Reconcile() {
	if !s.DateRange.Has() || !s.DateRange.Value.Valid() {
		return
	}
	days := s.DateRange.Value.DayCount()
	if s.DurationDays.Has() && s.DurationDays.Value == days {
		return
	}
	s.DurationDays = Known(days, s.DateRange.Confidence)
}

// AnchorsOn returns the anchors scheduled for date (yyyy-MM-dd).
func (s ExtractedSlots) AnchorsOn(date string) []FixedAnchor {
	var out []FixedAnchor
	for _, a := range s.FixedAnchors {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
