// README: Converts AI itinerary days into the scheduler's block model.
package ai

import (
	"fmt"
	"strings"
	"time"

	"itinera/internal/modules/plan"
	"itinera/internal/modules/slots"
)

const (
	dayStartMinutes        = 9*60 + 30
	dayEndMinutes          = 20*60 + 30
	transitMinutes         = 30
	bufferMinutes          = 10
	flexMinutes            = 30
	defaultActivityMinutes = 60

	transitToMealTitle = "前往用餐地點"
	transitTitle       = "前往下一個景點"
	bufferTitle        = "緩衝時間"
	flexTitle          = "彈性時間"
)

// ConvertDayActivitiesToBlocks lays out one AI day from 09:30. Every activity
// gets a buffer before it and, from the second one on, a transit before that.
// Activities are clipped at 20:30 and a flex block closes the day when at
// least 30 minutes remain. date is yyyy-MM-dd read in loc.
func ConvertDayActivitiesToBlocks(date string, activities []AIActivity, loc *time.Location) ([]plan.TimeBlock, error) {
	return convertDay(date, activities, "", loc)
}

// convertDay is ConvertDayActivitiesToBlocks with a note attached to every
// transit block.
func convertDay(date string, activities []AIActivity, transitNote string, loc *time.Location) ([]plan.TimeBlock, error) {
	day, err := time.ParseInLocation(slots.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return nil, fmt.Errorf("day date %q: %w", date, err)
	}
	at := func(minutes int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, loc)
	}

	var blocks []plan.TimeBlock
	cursor := dayStartMinutes
	add := func(t plan.BlockType, minutes int, title, location, desc string, priority int) {
		blocks = append(blocks, plan.TimeBlock{
			Type:        t,
			Start:       at(cursor),
			End:         at(cursor + minutes),
			Title:       title,
			Location:    location,
			Priority:    priority,
			Description: desc,
		})
		cursor += minutes
	}

	for i, a := range activities {
		lead := bufferMinutes
		if i > 0 {
			lead += transitMinutes
		}
		// No transit or buffer unless some of the activity fits after them.
		if cursor+lead >= dayEndMinutes {
			break
		}
		if i > 0 {
			add(plan.BlockTransit, transitMinutes, transitTitleFor(a), "", transitNote, plan.PriorityTransit)
		}
		add(plan.BlockBuffer, bufferMinutes, bufferTitle, "", "", plan.PriorityBuffer)

		minutes := a.RecommendedDuration
		if minutes <= 0 {
			minutes = defaultActivityMinutes
		}
		if cursor+minutes > dayEndMinutes {
			minutes = dayEndMinutes - cursor
		}
		add(plan.BlockActivity, minutes, strings.TrimSpace(a.Title), a.Location, activityDescription(a), plan.PriorityActivity)
		if cursor >= dayEndMinutes {
			break
		}
	}

	if dayEndMinutes-cursor >= flexMinutes {
		add(plan.BlockFlex, flexMinutes, flexTitle, "", "", plan.PriorityFlex)
	}
	plan.SortBlocks(blocks)
	return blocks, nil
}

func transitTitleFor(next AIActivity) string {
	if strings.Contains(next.Category, "餐厅") || strings.Contains(next.Category, "餐廳") {
		return transitToMealTitle
	}
	return transitTitle
}

func transportNote(modes []string) string {
	var kept []string
	for _, m := range modes {
		if m = strings.TrimSpace(m); m != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "交通方式：" + strings.Join(kept, "、")
}

// activityDescription joins description, rationale, tips, opening hours and
// price level, in that order, skipping empty sections.
func activityDescription(a AIActivity) string {
	var parts []string
	if d := strings.TrimSpace(a.Description); d != "" {
		parts = append(parts, d)
	}
	if r := strings.TrimSpace(a.Rationale); r != "" {
		parts = append(parts, "【推薦理由】"+r)
	}
	var tips []string
	for _, t := range a.Tips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, "• "+t)
		}
	}
	if len(tips) > 0 {
		parts = append(parts, "【小提示】\n"+strings.Join(tips, "\n"))
	}
	if h := strings.TrimSpace(a.OpeningHours); h != "" {
		parts = append(parts, "【營業時間】"+h)
	}
	if p := strings.TrimSpace(a.PriceLevel); p != "" {
		parts = append(parts, "【價格等級】"+p)
	}
	return strings.Join(parts, "\n\n")
}

// ToPlanResult converts a decoded AI plan. Days whose date does not parse are
// skipped, so the result may hold fewer days than the AI returned.
func ToPlanResult(p *AITripPlan, destination string, assumptions, riskFlags []string, loc *time.Location) plan.PlanResult {
	days := make([]plan.DayPlan, 0, len(p.Days))
	for _, d := range p.Days {
		blocks, err := convertDay(d.Date, d.Activities, transportNote(d.Transportation), loc)
		if err != nil {
			continue
		}
		days = append(days, plan.DayPlan{
			Date:    strings.TrimSpace(d.Date),
			Theme:   strings.TrimSpace(d.DayTheme),
			Summary: strings.TrimSpace(d.DaySummary),
			Blocks:  blocks,
		})
	}
	dest := strings.TrimSpace(p.Destination)
	if dest == "" {
		dest = destination
	}
	return plan.NewResult(dest, plan.SourceAI, days, assumptions, riskFlags)
}
