// README: Plan aggregate: time blocks, day plans and the result handed to consumers.
package plan

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type BlockType string

const (
	BlockActivity BlockType = "activity"
	BlockTransit  BlockType = "transit"
	BlockBuffer   BlockType = "buffer"
	BlockFlex     BlockType = "flex"
	BlockRest     BlockType = "rest"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockActivity, BlockTransit, BlockBuffer, BlockFlex, BlockRest:
		return true
	}
	return false
}

// Source records which generator produced a plan.
type Source string

const (
	SourceScheduler Source = "scheduler"
	SourceAI        Source = "ai"
)

// Block priorities, 1 (drop first) .. 10 (never drop).
const (
	PriorityFlex     = 1
	PriorityBuffer   = 2
	PriorityTransit  = 3
	PriorityRest     = 4
	PriorityActivity = 5
	PriorityAnchor   = 10
)

var (
	ErrMissingDestination = errors.New("destination is required")
	ErrMissingDateInfo    = errors.New("date range or duration is required")
	ErrInvalidDateRange   = errors.New("date range ends before it starts")
	ErrNoActivity         = errors.New("plan has no activity block")
	ErrNotFound           = errors.New("plan not found")
	ErrDayNotFound        = errors.New("plan has no such day")
	ErrInvalidDay         = errors.New("invalid day plan")
)

// TimeBlock is one contiguous span of a day. Start and End are wall-clock
// times in the planner's location.
type TimeBlock struct {
	Type        BlockType `json:"type"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	IsAnchor    bool      `json:"isAnchor"`
	Priority    int       `json:"priority"`
	Description string    `json:"description,omitempty"`
}

func (b TimeBlock) Duration() time.Duration { return b.End.Sub(b.Start) }

// DayPlan holds the blocks of one calendar day (yyyy-MM-dd), sorted by start.
// Theme and Summary are only set on AI days.
type DayPlan struct {
	Date    string      `json:"date"`
	Theme   string      `json:"theme,omitempty"`
	Summary string      `json:"summary,omitempty"`
	Blocks  []TimeBlock `json:"blocks"`
}

func (d DayPlan) HasFlex() bool { return d.has(BlockFlex) }
func (d DayPlan) HasRest() bool { return d.has(BlockRest) }

func (d DayPlan) has(t BlockType) bool {
	for _, b := range d.Blocks {
		if b.Type == t {
			return true
		}
	}
	return false
}

// Activities returns the activity blocks in order.
func (d DayPlan) Activities() []TimeBlock {
	var out []TimeBlock
	for _, b := range d.Blocks {
		if b.Type == BlockActivity {
			out = append(out, b)
		}
	}
	return out
}

// SortBlocks orders blocks by start time, keeping the insertion order of ties.
func SortBlocks(blocks []TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
}

// Validate checks that every block ends after it starts, blocks are sorted,
// and no two blocks overlap.
func (d DayPlan) Validate() error {
	if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidDay, d.Date)
	}
	for i, b := range d.Blocks {
		if !b.Type.Valid() {
			return fmt.Errorf("%w: block %d has type %q", ErrInvalidDay, i, b.Type)
		}
		if !b.End.After(b.Start) {
			return fmt.Errorf("%w: block %d (%s) ends at or before its start", ErrInvalidDay, i, b.Title)
		}
		if b.Priority < 1 || b.Priority > 10 {
			return fmt.Errorf("%w: block %d priority %d out of 1..10", ErrInvalidDay, i, b.Priority)
		}
		if i == 0 {
			continue
		}
		prev := d.Blocks[i-1]
		if b.Start.Before(prev.Start) {
			return fmt.Errorf("%w: block %d is out of order", ErrInvalidDay, i)
		}
		if b.Start.Before(prev.End) {
			return fmt.Errorf("%w: block %d (%s) overlaps %s", ErrInvalidDay, i, b.Title, prev.Title)
		}
	}
	return nil
}

// PlanResult is the immutable output of a generation run.
type PlanResult struct {
	ID          uuid.UUID `json:"id"`
	Destination string    `json:"destination"`
	Source      Source    `json:"source"`
	Days        []DayPlan `json:"days"`
	Assumptions []string  `json:"assumptions"`
	RiskFlags   []string  `json:"riskFlags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewResult stamps a fresh id and creation time.
func NewResult(destination string, source Source, days []DayPlan, assumptions, riskFlags []string) PlanResult {
	return PlanResult{
		ID:          uuid.New(),
		Destination: destination,
		Source:      source,
		Days:        days,
		Assumptions: nonNil(assumptions),
		RiskFlags:   nonNil(riskFlags),
		CreatedAt:   time.Now(),
	}
}

// Clone returns a deep copy.
func (r PlanResult) Clone() PlanResult {
	out := r
	out.Days = make([]DayPlan, len(r.Days))
	for i, d := range r.Days {
		out.Days[i] = d
		out.Days[i].Blocks = append([]TimeBlock(nil), d.Blocks...)
	}
	out.Assumptions = append([]string{}, r.Assumptions...)
	out.RiskFlags = append([]string{}, r.RiskFlags...)
	return out
}

// WithRiskFlag returns a copy with flag appended.
func (r PlanResult) WithRiskFlag(flag string) PlanResult {
	out := r.Clone()
	out.RiskFlags = append(out.RiskFlags, flag)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
