package classifier

import (
	"time"

	"itinera/internal/modules/slots"
)

// Assumption texts recorded for every default-filled slot.
const (
	AssumePace      = "pace not specified, assumed moderate"
	AssumeWalking   = "walking level not specified, assumed normal"
	AssumeTransport = "transport not specified, assumed public transport"
	AssumeDates     = "dates not specified, assumed a 1-day trip starting tomorrow"
)

// FillDefaults returns a copy of s with missing preferences set to defaults at
// confidence conf, plus one assumption per filled field. Present slots are kept.
func FillDefaults(s slots.ExtractedSlots, today time.Time, conf float64) (slots.ExtractedSlots, []string) {
	out := s.Clone()
	var assumptions []string

	if !out.Pace.Has() {
		out.Pace = slots.Known(slots.PaceModerate, conf)
		assumptions = append(assumptions, AssumePace)
	}
	if !out.WalkingLevel.Has() {
		out.WalkingLevel = slots.Known(slots.WalkingNormal, conf)
		assumptions = append(assumptions, AssumeWalking)
	}
	if !out.TransportPreference.Has() {
		out.TransportPreference = slots.Known(slots.TransportPublic, conf)
		assumptions = append(assumptions, AssumeTransport)
	}
	if !out.DateRange.Has() && !out.DurationDays.Has() {
		out.DateRange = slots.Known(slots.RangeFromDuration(today.AddDate(0, 0, 1), 1), conf)
		out.DurationDays = slots.Known(1, conf)
		assumptions = append(assumptions, AssumeDates)
	}
	return out, assumptions
}
