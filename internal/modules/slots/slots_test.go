package slots

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayCountRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
	r := DateRange{Start: start, End: start.AddDate(0, 0, 4)}
	if got := r.DayCount(); got != 5 {
		t.Fatalf("DayCount() = %d, want 5", got)
	}

	back := RangeFromDuration(start, r.DayCount())
	if !back.End.Equal(r.End) {
		t.Fatalf("RangeFromDuration end = %v, want %v", back.End, r.End)
	}
}

func TestDayCountSingleDay(t *testing.T) {
	d := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	r := DateRange{Start: d, End: d}
	if got := r.DayCount(); got != 1 {
		t.Fatalf("DayCount() = %d, want 1", got)
	}
	if days := r.Days(); len(days) != 1 || days[0] != "2026-01-01" {
		t.Fatalf("Days() = %v", days)
	}
}

func TestValid(t *testing.T) {
	d := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	if (DateRange{Start: d, End: d.AddDate(0, 0, -1)}).Valid() {
		t.Fatal("expected end-before-start range to be invalid")
	}
	if !(DateRange{Start: d, End: d}).Valid() {
		t.Fatal("expected same-day range to be valid")
	}
}

func TestReconcileDerivesDuration(t *testing.T) {
	d := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	s := ExtractedSlots{
		DateRange:    Known(DateRange{Start: d, End: d.AddDate(0, 0, 2)}, 0.9),
		DurationDays: Known(7, 0.4),
	}
	s.Reconcile()
	if s.DurationDays.Value != 3 || s.DurationDays.Confidence != 0.9 {
		t.Fatalf("DurationDays = %+v, want 3@0.9", s.DurationDays)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := ExtractedSlots{
		InterestTags:    []string{"food"},
		TimeConstraints: &TimeConstraints{OnlyMorning: true},
	}
	c := s.Clone()
	c.InterestTags[0] = "art"
	c.TimeConstraints.OnlyMorning = false
	if s.InterestTags[0] != "food" || !s.TimeConstraints.OnlyMorning {
		t.Fatal("Clone shares state with the original")
	}
}

func TestAddInterestKeepsSortedSet(t *testing.T) {
	var s ExtractedSlots
	for _, tag := range []string{"nature", "food", "nature", "art"} {
		s.AddInterest(tag)
	}
	want := []string{"art", "food", "nature"}
	if len(s.InterestTags) != len(want) {
		t.Fatalf("InterestTags = %v, want %v", s.InterestTags, want)
	}
	for i := range want {
		if s.InterestTags[i] != want[i] {
			t.Fatalf("InterestTags = %v, want %v", s.InterestTags, want)
		}
	}
}

func TestDateRangeJSON(t *testing.T) {
	d := time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local)
	raw, err := json.Marshal(DateRange{Start: d, End: d.AddDate(0, 0, 1)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"start":"2026-10-18","end":"2026-10-19"}` {
		t.Fatalf("marshal = %s", raw)
	}
	var back DateRange
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.DayCount() != 2 {
		t.Fatalf("DayCount after round trip = %d", back.DayCount())
	}
}
