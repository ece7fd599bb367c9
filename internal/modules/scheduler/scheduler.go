// README: Rule-based day-plan scheduler; lays out activity, transit, buffer, rest and flex blocks.
package scheduler

import (
	"strings"
	"time"

	"itinera/internal/modules/plan"
	"itinera/internal/modules/slots"
)

// Config holds the layout rules, all durations in minutes.
type Config struct {
	DayStart       int // minutes from midnight
	DayEnd         int
	MorningEnd     int // day end when only mornings are free
	AfternoonStart int // day start when only afternoons are free
	EveningStart   int // day start when only evenings are free
	Activity       map[slots.Pace]int
	Transit        int
	Buffer         int
	Rest           int
	Flex           int
	MaxActivities  int
	MaxConsecutive int
}

func DefaultConfig() Config {
	return Config{
		DayStart:       9*60 + 30,
		DayEnd:         20*60 + 30,
		MorningEnd:     12 * 60,
		AfternoonStart: 12 * 60,
		EveningStart:   18 * 60,
		Activity: map[slots.Pace]int{
			slots.PaceRelaxed:  120,
			slots.PaceModerate: 90,
			slots.PaceTight:    60,
		},
		Transit:        30,
		Buffer:         10,
		Rest:           60,
		Flex:           30,
		MaxActivities:  4,
		MaxConsecutive: 2,
	}
}

var activityTitles = map[string]string{
	"food":      "美食探索",
	"culture":   "文化巡禮",
	"nature":    "自然漫步",
	"shopping":  "購物時光",
	"nightlife": "夜生活體驗",
	"art":       "藝術欣賞",
	"family":    "親子同樂",
	"photo":     "拍照打卡",
}

const (
	defaultActivityTitle = "城市探索"
	transitTitle         = "交通移動"
	bufferTitle          = "緩衝時間"
	restTitle            = "休息時間"
	flexTitle            = "彈性時間"
)

// Scheduler is pure apart from its clock and is safe for concurrent use.
type Scheduler struct {
	cfg Config
	loc *time.Location
	now func() time.Time
}

type Option func(*Scheduler)

func WithConfig(cfg Config) Option {
	return func(s *Scheduler) { s.cfg = cfg }
}

// WithClock sets the time source used when a plan starts "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(loc *time.Location, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{cfg: DefaultConfig(), loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePlan lays out one DayPlan per day of the trip.
func (s *Scheduler) GeneratePlan(in slots.ExtractedSlots) (plan.PlanResult, error) {
	dest := strings.TrimSpace(in.Destination.Value)
	if !in.Destination.Has() || dest == "" {
		return plan.PlanResult{}, plan.ErrMissingDestination
	}

	var r slots.DateRange
	switch {
	case in.DateRange.Has():
		r = in.DateRange.Value
		if !r.Valid() {
			return plan.PlanResult{}, plan.ErrInvalidDateRange
		}
	case in.DurationDays.Has() && in.DurationDays.Value > 0:
		tomorrow := slots.DateOnly(s.now().In(s.loc)).AddDate(0, 0, 1)
		r = slots.RangeFromDuration(tomorrow, in.DurationDays.Value)
	default:
		return plan.PlanResult{}, plan.ErrMissingDateInfo
	}

	days := make([]plan.DayPlan, 0, r.DayCount())
	for _, date := range r.Days() {
		day, err := time.ParseInLocation(slots.DateLayout, date, s.loc)
		if err != nil {
			continue
		}
		days = append(days, s.PlanDay(day, dest, in))
	}
	return plan.NewResult(dest, plan.SourceScheduler, days, nil, nil), nil
}

// PlanDay lays out a single day.
func (s *Scheduler) PlanDay(day time.Time, destination string, in slots.ExtractedSlots) plan.DayPlan {
	start, end := s.window(in.TimeConstraints)
	act := s.activityMinutes(in.Pace)

	l := &layout{
		day:      slots.DateOnly(day),
		cursor:   start,
		end:      end,
		location: destination,
	}
	date := l.day.Format(slots.DateLayout)
	l.addAnchors(in.AnchorsOn(date), destination)

	n := 0
	if per := act + s.cfg.Transit + s.cfg.Buffer; per > 0 {
		n = (end - start) / per
	}
	if n > s.cfg.MaxActivities {
		n = s.cfg.MaxActivities
	}

	// Anchors count toward the activity run. An activity that completes a run
	// right before an anchor must leave room for a rest ahead of it.
	consecutive, placed, next := 0, 0, 0
	prior := false
	for {
		gapEnd := l.gapEnd(next)
		if consecutive >= s.cfg.MaxConsecutive && (placed < n || next < len(l.anchors)) && l.cursor+s.cfg.Rest <= gapEnd {
			l.place(plan.BlockRest, s.cfg.Rest, restTitle, plan.PriorityRest, false)
			consecutive = 0
		}
		if placed < n && consecutive < s.cfg.MaxConsecutive {
			lead := 0
			if prior {
				lead = s.cfg.Transit + s.cfg.Buffer
			}
			reserve := 0
			if consecutive+1 >= s.cfg.MaxConsecutive && next < len(l.anchors) {
				reserve = s.cfg.Rest
			}
			if l.cursor+lead+act+reserve <= gapEnd {
				if prior {
					l.place(plan.BlockTransit, s.cfg.Transit, transitTitle, plan.PriorityTransit, false)
					l.place(plan.BlockBuffer, s.cfg.Buffer, bufferTitle, plan.PriorityBuffer, false)
				}
				l.place(plan.BlockActivity, act, activityTitle(in.InterestTags, placed), plan.PriorityActivity, false)
				placed++
				consecutive++
				prior = true
				continue
			}
		}
		if next == len(l.anchors) {
			break
		}
		if consecutive > 0 && l.cursor+s.cfg.Rest <= gapEnd {
			l.place(plan.BlockRest, s.cfg.Rest, restTitle, plan.PriorityRest, false)
			consecutive = 0
			continue
		}
		if !l.has(plan.BlockFlex) && l.cursor+s.cfg.Flex <= gapEnd {
			l.place(plan.BlockFlex, s.cfg.Flex, flexTitle, plan.PriorityFlex, false)
		}
		l.cursor = max(l.cursor, l.anchors[next].end)
		next++
		consecutive++
		prior = true
	}

	if !l.has(plan.BlockFlex) && l.remaining(s.cfg.Flex) >= s.cfg.Flex {
		l.place(plan.BlockFlex, s.cfg.Flex, flexTitle, plan.PriorityFlex, true)
	}
	if !l.has(plan.BlockRest) && l.remaining(s.cfg.Rest) > 0 {
		l.place(plan.BlockRest, s.cfg.Rest, restTitle, plan.PriorityRest, true)
	}

	plan.SortBlocks(l.blocks)
	return plan.DayPlan{Date: date, Blocks: l.blocks}
}

func (s *Scheduler) window(tc *slots.TimeConstraints) (int, int) {
	start, end := s.cfg.DayStart, s.cfg.DayEnd
	if tc == nil {
		return start, end
	}
	switch {
	case tc.OnlyMorning:
		end = min(end, s.cfg.MorningEnd)
	case tc.OnlyAfternoon:
		start = max(start, s.cfg.AfternoonStart)
	case tc.OnlyEvening:
		start = max(start, s.cfg.EveningStart)
	}
	return start, end
}

func (s *Scheduler) activityMinutes(p slots.SlotInfo[slots.Pace]) int {
	if p.Has() {
		if m, ok := s.cfg.Activity[p.Value]; ok {
			return m
		}
	}
	return s.cfg.Activity[slots.PaceModerate]
}

func activityTitle(tags []string, i int) string {
	if len(tags) == 0 {
		return defaultActivityTitle
	}
	if title, ok := activityTitles[tags[i%len(tags)]]; ok {
		return title
	}
	return defaultActivityTitle
}
