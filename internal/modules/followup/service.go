package followup

import (
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/slots"
)

const (
	confAnsweredDestination = 0.9
	confBareDuration        = 0.8
)

// BuildSlots turns a completed dialog into slots. The destination is taken
// verbatim, the duration is parsed like free text (or as a bare number), the
// trip starts tomorrow, and the remaining preferences get the classifier defaults.
func BuildSlots(s State, c *classifier.Classifier) (slots.ExtractedSlots, []string, error) {
	if !s.IsComplete() {
		return slots.ExtractedSlots{}, nil, ErrIncomplete
	}

	var out slots.ExtractedSlots
	out.Destination = slots.Known(s.Answers[QuestionDestination], confAnsweredDestination)

	dur := classifier.ParseDurationAnswer(s.Answers[QuestionDuration], confBareDuration)
	if dur.Has() {
		th := c.Thresholds()
		out.DurationDays = dur
		out.DateRange = slots.Known(
			slots.RangeFromDuration(c.Today().AddDate(0, 0, 1), dur.Value),
			dur.Confidence*th.DerivedRangeDiscount,
		)
	}

	filled, assumptions := c.FillDefaults(out)
	return filled, assumptions, nil
}
