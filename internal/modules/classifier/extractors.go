// README: Per-field slot extractors, registered in a table keyed by field.
package classifier

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"itinera/internal/modules/slots"
)

// Field names a slot group handled by one extractor.
type Field string

const (
	FieldDestination     Field = "destination"
	FieldSchedule        Field = "schedule" // date range + duration
	FieldStartLocation   Field = "start_location"
	FieldPace            Field = "pace"
	FieldWalking         Field = "walking_level"
	FieldBudget          Field = "budget_level"
	FieldTransport       Field = "transport"
	FieldInterests       Field = "interests"
	FieldTimeConstraints Field = "time_constraints"
)

// fieldOrder is the fixed extraction order.
var fieldOrder = []Field{
	FieldDestination, FieldSchedule, FieldStartLocation, FieldPace, FieldWalking,
	FieldBudget, FieldTransport, FieldInterests, FieldTimeConstraints,
}

// Input is what every extractor sees.
type Input struct {
	Text       string
	Lower      string
	Today      time.Time
	Thresholds Thresholds
}

// Extractor writes the slots for its field. It never fails: a value it cannot
// find stays absent at confidence 0.
type Extractor func(in Input, out *slots.ExtractedSlots)

func defaultExtractors() map[Field]Extractor {
	return map[Field]Extractor{
		FieldDestination:     extractDestination,
		FieldSchedule:        extractSchedule,
		FieldStartLocation:   extractStartLocation,
		FieldPace:            extractPace,
		FieldWalking:         extractWalking,
		FieldBudget:          extractBudget,
		FieldTransport:       extractTransport,
		FieldInterests:       extractInterests,
		FieldTimeConstraints: extractTimeConstraints,
	}
}

var (
	goToPattern = regexp.MustCompile(`去([\p{Han}A-Za-z]{1,20}?)(?:玩|旅行|旅遊|旅游|度假|走走|看看|逛|住|待|過|过|[0-9一二兩两三四五六七八九十半]|[，,。.！!？?\s]|$)`)
	tripPattern = regexp.MustCompile(`([\p{Han}A-Za-z]{1,20}?)(?:的)?(?:行程|之旅|自由行|[遊游])`)
	fromPattern = regexp.MustCompile(`[從从]([\p{Han}A-Za-z]{1,10}?)(?:出發|出发|飛|飞|搭|坐|開車|开车|去|到)`)
)

const (
	minDestinationRunes = 1
	maxDestinationRunes = 20
)

func extractDestination(in Input, out *slots.ExtractedSlots) {
	text := withoutStartLocation(in.Text)
	if kw, ok := matchDestinationKeyword(text); ok {
		out.Destination = slots.Known(kw, confDestinationKeyword)
		return
	}
	for _, re := range []*regexp.Regexp{goToPattern, tripPattern} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if place, ok := cleanDestination(m[1]); ok {
			out.Destination = slots.Known(place, confDestinationPattern)
			return
		}
	}
	out.Destination = slots.Absent[string]()
}

// withoutStartLocation blanks the place named in "從X出發" so it is not taken
// for the destination.
func withoutStartLocation(text string) string {
	m := fromPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	return text[:m[2]] + " " + text[m[3]:]
}

// matchDestinationKeyword returns the earliest keyword in text, preferring the
// longer keyword when two start at the same position.
func matchDestinationKeyword(text string) (string, bool) {
	best, bestIdx := "", -1
	for _, kw := range destinationKeywords {
		idx := strings.Index(text, kw)
		if idx < 0 {
			continue
		}
		if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(kw) > len(best)) {
			best, bestIdx = kw, idx
		}
	}
	return best, bestIdx >= 0
}

func cleanDestination(capture string) (string, bool) {
	s := strings.TrimSpace(capture)
	for changed := true; changed; {
		changed = false
		for _, f := range destinationFillers {
			if strings.HasPrefix(s, f) && len(s) > len(f) {
				s = strings.TrimPrefix(s, f)
				changed = true
			}
		}
	}
	n := utf8.RuneCountInString(s)
	if n < minDestinationRunes || n > maxDestinationRunes {
		return "", false
	}
	for _, r := range destinationRejects {
		if strings.Contains(s, r) {
			return "", false
		}
	}
	return s, true
}

func extractSchedule(in Input, out *slots.ExtractedSlots) {
	dates, rest := findExplicitDates(in.Text, in.Today)
	dur := ParseDuration(rest)

	switch {
	case len(dates) >= 2:
		r := slots.DateRange{Start: dates[0], End: dates[1]}
		if !r.Valid() {
			out.DateRange = slots.Absent[slots.DateRange]()
			out.DurationDays = dur
			return
		}
		out.DateRange = slots.Known(r, confExplicitDate)
		out.DurationDays = slots.Known(r.DayCount(), confExplicitDate)
	case len(dates) == 1 && dur.Has():
		conf := confExplicitDate
		if dur.Confidence < conf {
			conf = dur.Confidence
		}
		out.DateRange = slots.Known(slots.RangeFromDuration(dates[0], dur.Value), conf)
		out.DurationDays = dur
	case len(dates) == 1:
		out.DateRange = slots.Known(slots.RangeFromDuration(dates[0], 1), confSingleDate)
		out.DurationDays = slots.Known(1, confSingleDate)
	case dur.Has():
		out.DurationDays = dur
		out.DateRange = slots.Known(
			slots.RangeFromDuration(in.Today.AddDate(0, 0, 1), dur.Value),
			dur.Confidence*in.Thresholds.DerivedRangeDiscount,
		)
	default:
		out.DateRange = slots.Absent[slots.DateRange]()
		out.DurationDays = slots.Absent[int]()
	}
}

func extractStartLocation(in Input, out *slots.ExtractedSlots) {
	m := fromPattern.FindStringSubmatch(in.Text)
	if m == nil {
		out.StartLocation = slots.Absent[string]()
		return
	}
	place := strings.TrimSpace(m[1])
	if place == "" {
		out.StartLocation = slots.Absent[string]()
		return
	}
	out.StartLocation = slots.Known(place, confStartLocation)
}

func extractPace(in Input, out *slots.ExtractedSlots) {
	out.Pace = firstKeyword(in.Lower, paceOrder, paceKeywords, confPace)
}

func extractWalking(in Input, out *slots.ExtractedSlots) {
	out.WalkingLevel = firstKeyword(in.Lower, walkingOrder, walkingKeywords, confWalking)
}

func extractBudget(in Input, out *slots.ExtractedSlots) {
	out.BudgetLevel = firstKeyword(in.Lower, budgetOrder, budgetKeywords, confBudget)
}

func extractTransport(in Input, out *slots.ExtractedSlots) {
	out.TransportPreference = firstKeyword(in.Lower, transportOrder, transportKeywords, confTransport)
}

func extractInterests(in Input, out *slots.ExtractedSlots) {
	tags := make([]string, 0, len(interestKeywords))
	for tag := range interestKeywords {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	out.InterestTags = nil
	for _, tag := range tags {
		if containsAny(in.Lower, interestKeywords[tag]) {
			out.AddInterest(tag)
		}
	}
}

func extractTimeConstraints(in Input, out *slots.ExtractedSlots) {
	switch {
	case containsAny(in.Text, onlyMorningKeywords):
		out.TimeConstraints = &slots.TimeConstraints{OnlyMorning: true}
	case containsAny(in.Text, onlyAfternoonKeywords):
		out.TimeConstraints = &slots.TimeConstraints{OnlyAfternoon: true}
	case containsAny(in.Text, onlyEveningKeywords):
		out.TimeConstraints = &slots.TimeConstraints{OnlyEvening: true}
	default:
		out.TimeConstraints = nil
	}
}

func firstKeyword[T comparable](text string, order []T, table map[T][]string, conf float64) slots.SlotInfo[T] {
	for _, v := range order {
		if containsAny(text, table[v]) {
			return slots.Known(v, conf)
		}
	}
	return slots.Absent[T]()
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
