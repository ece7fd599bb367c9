package plan

import "fmt"

// WithDay returns a copy of r with the day matching day.Date replaced.
// The replacement is sorted and validated first; r is never modified.
func WithDay(r PlanResult, day DayPlan) (PlanResult, error) {
	d := DayPlan{Date: day.Date, Blocks: append([]TimeBlock(nil), day.Blocks...)}
	SortBlocks(d.Blocks)
	if err := d.Validate(); err != nil {
		return PlanResult{}, err
	}

	idx := -1
	for i, existing := range r.Days {
		if existing.Date == d.Date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PlanResult{}, fmt.Errorf("%w: %s", ErrDayNotFound, d.Date)
	}

	out := r.Clone()
	out.Days[idx] = d
	return out, nil
}

// Template is what gets saved when a plan is kept for reuse.
type Template struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	Days        int    `json:"days"`
}

// TemplateSummary titles a template after the first activity of the first day.
// The primary destination is that activity's location, falling back to the plan's.
func TemplateSummary(r PlanResult) (Template, error) {
	if len(r.Days) == 0 {
		return Template{}, ErrNoActivity
	}
	acts := r.Days[0].Activities()
	if len(acts) == 0 {
		return Template{}, ErrNoActivity
	}
	first := acts[0]
	dest := first.Location
	if dest == "" {
		dest = r.Destination
	}
	return Template{
		Title:       fmt.Sprintf("%s・%s", dest, first.Title),
		Destination: dest,
		Days:        len(r.Days),
	}, nil
}
