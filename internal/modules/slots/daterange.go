package slots

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RangeFromDuration returns the range of days starting at start.
func RangeFromDuration(start time.Time, days int) DateRange {
	if days < 1 {
		days = 1
	}
	start = DateOnly(start)
	return DateRange{Start: start, End: start.AddDate(0, 0, days-1)}
}

// Valid reports whether End is not before Start.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !DateOnly(r.End).Before(DateOnly(r.Start))
}

// DayCount is the inclusive number of calendar days (day difference + 1).
func (r DateRange) DayCount() int {
	s := DateOnly(r.Start)
	e := DateOnly(r.End)
	// Compare in UTC so DST transitions do not shave an hour off a day.
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours()/24) + 1
}

// Days lists every date in the range formatted as yyyy-MM-dd.
func (r DateRange) Days() []string {
	n := r.DayCount()
	if n < 1 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DateOnly(r.Start).AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}

type dateRangeWire struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	if r.Start.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(dateRangeWire{Start: r.Start.Format(DateLayout), End: r.End.Format(DateLayout)})
}

func (r *DateRange) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = DateRange{}
		return nil
	}
	var w dateRangeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	start, err := time.ParseInLocation(DateLayout, w.Start, time.Local)
	if err != nil {
		return fmt.Errorf("dateRange.start: %w", err)
	}
	end, err := time.ParseInLocation(DateLayout, w.End, time.Local)
	if err != nil {
		return fmt.Errorf("dateRange.end: %w", err)
	}
	r.Start, r.End = start, end
	return nil
}
