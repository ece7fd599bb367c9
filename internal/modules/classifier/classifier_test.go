package classifier

import (
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"itinera/internal/modules/slots"
)

func fixedClassifier(opts ...Option) *Classifier {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	base := []Option{WithClock(func() time.Time { return now }), WithLocation(time.UTC)}
	return New(append(base, opts...)...)
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestClassifyFragmentIsTypeC(t *testing.T) {
	res := fixedClassifier().Classify("午餐")
	if res.InputType != TypeC {
		t.Fatalf("InputType = %s, want C", res.InputType)
	}
	if len(res.RiskFlags) != 2 {
		t.Fatalf("RiskFlags = %v, want both flags", res.RiskFlags)
	}
}

func TestClassifyCompleteRequestIsTypeA(t *testing.T) {
	res := fixedClassifier().Classify("下個月去東京玩五天，想放鬆")
	if res.InputType != TypeA {
		t.Fatalf("InputType = %s, want A", res.InputType)
	}
	s := res.Slots
	if s.Destination.Value != "東京" || !approx(s.Destination.Confidence, 0.8) {
		t.Fatalf("Destination = %+v, want 東京@0.8", s.Destination)
	}
	if s.DurationDays.Value != 5 || !approx(s.DurationDays.Confidence, 0.9) {
		t.Fatalf("DurationDays = %+v, want 5@0.9", s.DurationDays)
	}
	if s.Pace.Value != slots.PaceRelaxed {
		t.Fatalf("Pace = %+v, want relaxed", s.Pace)
	}
	if !s.DateRange.Has() || s.DateRange.Value.DayCount() != 5 {
		t.Fatalf("DateRange = %+v, want 5 days", s.DateRange)
	}
	if got := s.DateRange.Value.Start.Format(slots.DateLayout); got != "2026-10-18" {
		t.Fatalf("derived start = %s, want tomorrow", got)
	}
	if !approx(s.DateRange.Confidence, 0.9*0.7) {
		t.Fatalf("DateRange confidence = %v, want 0.63", s.DateRange.Confidence)
	}
	if len(res.Assumptions) != 0 {
		t.Fatalf("type A must not fill defaults, got %v", res.Assumptions)
	}
	if len(res.RiskFlags) != 0 {
		t.Fatalf("RiskFlags = %v, want none", res.RiskFlags)
	}
}

func TestClassifySingleSignalFillsDefaults(t *testing.T) {
	res := fixedClassifier().Classify("想去京都")
	if res.InputType != TypeB {
		t.Fatalf("InputType = %s, want B", res.InputType)
	}
	s := res.Slots
	if s.Pace.Value != slots.PaceModerate || !approx(s.Pace.Confidence, 0.5) {
		t.Fatalf("Pace = %+v", s.Pace)
	}
	if s.WalkingLevel.Value != slots.WalkingNormal || s.TransportPreference.Value != slots.TransportPublic {
		t.Fatalf("defaults not applied: %+v %+v", s.WalkingLevel, s.TransportPreference)
	}
	if s.DurationDays.Value != 1 || s.DateRange.Value.Start.Format(slots.DateLayout) != "2026-10-18" {
		t.Fatalf("dates = %+v / %+v", s.DateRange, s.DurationDays)
	}
	want := []string{AssumePace, AssumeWalking, AssumeTransport, AssumeDates}
	if !reflect.DeepEqual(res.Assumptions, want) {
		t.Fatalf("Assumptions = %v, want %v", res.Assumptions, want)
	}
}

func TestClassifyTemplateIsTypeD(t *testing.T) {
	res := fixedClassifier().Classify("照上次的模板去大阪")
	if res.InputType != TypeD {
		t.Fatalf("InputType = %s, want D", res.InputType)
	}
	if res.Slots.Destination.Value != "大阪" {
		t.Fatalf("slots still extracted for D, got %+v", res.Slots.Destination)
	}
	if !reflect.DeepEqual(res.RiskFlags, []string{RiskMissingDates}) {
		t.Fatalf("RiskFlags = %v", res.RiskFlags)
	}
}

func TestClassifyExplicitDates(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantStart string
		wantDays  int
	}{
		{"iso range", "2026-12-01到2026-12-03去大阪", "2026-12-01", 3},
		{"month day range", "10月20日到22日去台南吃小吃", "2026-10-20", 3},
		{"past month day rolls over", "3月1日去花蓮", "2027-03-01", 1},
		{"start plus duration", "11月2日出發去首爾玩4天", "2026-11-02", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := fixedClassifier().Classify(tc.text).Slots
			if !s.DateRange.Has() {
				t.Fatalf("DateRange absent")
			}
			if got := s.DateRange.Value.Start.Format(slots.DateLayout); got != tc.wantStart {
				t.Fatalf("start = %s, want %s", got, tc.wantStart)
			}
			if s.DurationDays.Value != tc.wantDays || s.DateRange.Value.DayCount() != tc.wantDays {
				t.Fatalf("days = %d / %d, want %d", s.DurationDays.Value, s.DateRange.Value.DayCount(), tc.wantDays)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		text string
		days int
		conf float64
	}{
		{"玩3天", 3, 0.9},
		{"七日遊", 7, 0.9},
		{"十二天", 12, 0.9},
		{"週末去走走", 2, 0.8},
		{"長週末", 3, 0.8},
		{"一星期", 7, 0.8},
		{"想去玩幾天", 3, 0.4},
		{"第3天想去海邊", 0, 0},
		{"沒有天數", 0, 0},
	}
	for _, tc := range cases {
		got := ParseDuration(tc.text)
		if got.Value != tc.days || !approx(got.Confidence, tc.conf) {
			t.Fatalf("ParseDuration(%q) = %+v, want %d@%v", tc.text, got, tc.days, tc.conf)
		}
	}
}

func TestParseDurationAnswer(t *testing.T) {
	if got := ParseDurationAnswer(" 4 ", 0.8); got.Value != 4 || !approx(got.Confidence, 0.8) {
		t.Fatalf("bare int = %+v", got)
	}
	if got := ParseDurationAnswer("三", 0.8); got.Value != 3 {
		t.Fatalf("bare chinese = %+v", got)
	}
	if got := ParseDurationAnswer("5天", 0.8); got.Value != 5 || !approx(got.Confidence, 0.9) {
		t.Fatalf("explicit = %+v", got)
	}
	if got := ParseDurationAnswer("隨便", 0.8); got.Has() {
		t.Fatalf("expected absent, got %+v", got)
	}
}

func TestDestinationPatternCapture(t *testing.T) {
	cases := []struct {
		text string
		want string
		conf float64
	}{
		{"想去宜昌玩", "宜昌", 0.6},
		{"幫我規劃瀋陽之旅", "瀋陽", 0.6},
		{"想去旅遊", "", 0},
		{"去哪裡玩比較好", "", 0},
	}
	for _, tc := range cases {
		got := fixedClassifier().Classify(tc.text).Slots.Destination
		if got.Value != tc.want || !approx(got.Confidence, tc.conf) {
			t.Fatalf("%q destination = %+v, want %q@%v", tc.text, got, tc.want, tc.conf)
		}
	}
}

func TestExtractPreferences(t *testing.T) {
	s := fixedClassifier().Classify("從台北出發去台中，想自駕、吃美食、逛美術館，預算有限，只有下午有空").Slots
	if s.StartLocation.Value != "台北" || !approx(s.StartLocation.Confidence, 0.7) {
		t.Fatalf("StartLocation = %+v", s.StartLocation)
	}
	if s.Destination.Value != "台中" {
		t.Fatalf("Destination = %+v", s.Destination)
	}
	if s.TransportPreference.Value != slots.TransportDriving {
		t.Fatalf("Transport = %+v", s.TransportPreference)
	}
	if s.BudgetLevel.Value != slots.BudgetLow {
		t.Fatalf("Budget = %+v", s.BudgetLevel)
	}
	if !reflect.DeepEqual(s.InterestTags, []string{"art", "food"}) {
		t.Fatalf("InterestTags = %v", s.InterestTags)
	}
	if s.TimeConstraints == nil || !s.TimeConstraints.OnlyAfternoon {
		t.Fatalf("TimeConstraints = %+v", s.TimeConstraints)
	}
}

func TestClassifyIsDeterministicAndConcurrent(t *testing.T) {
	c := fixedClassifier()
	want := c.Classify("下週去沖繩五天，想看海、少走路")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Classify("下週去沖繩五天，想看海、少走路"); !reflect.DeepEqual(got, want) {
				t.Errorf("non-deterministic result: %+v vs %+v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestWithThresholdsChangesBoundary(t *testing.T) {
	th := DefaultThresholds()
	th.TypeAMinSignals = 3
	res := fixedClassifier(WithThresholds(th)).Classify("下個月去東京玩五天")
	if res.InputType != TypeB {
		t.Fatalf("InputType = %s, want B", res.InputType)
	}
}

func TestWithExtractorOverride(t *testing.T) {
	c := fixedClassifier(WithExtractor(FieldDestination, func(in Input, out *slots.ExtractedSlots) {
		out.Destination = slots.Known("月球", 1.0)
	}))
	if got := c.Classify("隨便去走走好了").Slots.Destination.Value; got != "月球" {
		t.Fatalf("Destination = %q, want override", got)
	}
}

func TestDestinationRiskBoundary(t *testing.T) {
	c := fixedClassifier()
	if got := c.Thresholds().DestinationRiskConfidence; !approx(got, 0.5) {
		t.Fatalf("DestinationRiskConfidence = %v, want 0.5", got)
	}
	captured := slots.ExtractedSlots{Destination: slots.Known("某小鎮", 0.6), DurationDays: slots.Known(2, 0.9)}
	if flags := c.Validate(captured); len(flags) != 0 {
		t.Fatalf("flags for a 0.6 destination = %v", flags)
	}
	weak := slots.ExtractedSlots{Destination: slots.Known("某小鎮", 0.4), DurationDays: slots.Known(2, 0.9)}
	if flags := c.Validate(weak); !reflect.DeepEqual(flags, []string{RiskDestinationUnclear}) {
		t.Fatalf("flags for a 0.4 destination = %v", flags)
	}
}
