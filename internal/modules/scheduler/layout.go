package scheduler

import (
	"sort"
	"time"

	"itinera/internal/modules/plan"
	"itinera/internal/modules/slots"
)

type span struct{ start, end int }

// layout places blocks left to right from cursor, never crossing end or an anchor.
type layout struct {
	day      time.Time
	cursor   int
	end      int
	location string
	blocks   []plan.TimeBlock
	anchors  []span
}

func (l *layout) at(minutes int) time.Time {
	y, m, d := l.day.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, l.day.Location())
}

// addAnchors places fixed anchors first. Unparseable anchors and anchors that
// collide with an earlier one are dropped.
func (l *layout) addAnchors(anchors []slots.FixedAnchor, destination string) {
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Start < anchors[j].Start })
	for _, a := range anchors {
		start, ok1 := parseClock(a.Start)
		end, ok2 := parseClock(a.End)
		if !ok1 || !ok2 || end <= start {
			continue
		}
		if l.overlapsAnchor(start, end) {
			continue
		}
		loc := a.Location
		if loc == "" {
			loc = destination
		}
		l.anchors = append(l.anchors, span{start, end})
		l.blocks = append(l.blocks, plan.TimeBlock{
			Type:     plan.BlockActivity,
			Start:    l.at(start),
			End:      l.at(end),
			Title:    a.Title,
			Location: loc,
			IsAnchor: true,
			Priority: plan.PriorityAnchor,
		})
	}
}

// gapEnd is where the free stretch ahead of anchors[next] ends.
func (l *layout) gapEnd(next int) int {
	if next < len(l.anchors) {
		return min(l.end, l.anchors[next].start)
	}
	return l.end
}

func (l *layout) overlapsAnchor(start, end int) bool {
	for _, a := range l.anchors {
		if start < a.end && end > a.start {
			return true
		}
	}
	return false
}

// skipAnchors moves the cursor past every anchor a block of dur minutes would hit.
func (l *layout) skipAnchors(dur int) {
	for moved := true; moved; {
		moved = false
		for _, a := range l.anchors {
			if l.cursor < a.end && l.cursor+dur > a.start {
				l.cursor = a.end
				moved = true
			}
		}
	}
}

func (l *layout) remaining(dur int) int {
	l.skipAnchors(dur)
	return l.end - l.cursor
}

// place appends a block of dur minutes at the cursor. With clip the block is
// shortened to end at the day boundary; without it a block that does not fit
// is rejected.
func (l *layout) place(t plan.BlockType, dur int, title string, priority int, clip bool) bool {
	l.skipAnchors(dur)
	if clip && l.cursor+dur > l.end {
		dur = l.end - l.cursor
	}
	if dur <= 0 || l.cursor+dur > l.end {
		return false
	}
	b := plan.TimeBlock{
		Type:     t,
		Start:    l.at(l.cursor),
		End:      l.at(l.cursor + dur),
		Title:    title,
		Priority: priority,
	}
	if t == plan.BlockActivity {
		b.Location = l.location
	}
	l.blocks = append(l.blocks, b)
	l.cursor += dur
	return true
}

func (l *layout) has(t plan.BlockType) bool {
	for _, b := range l.blocks {
		if b.Type == t {
			return true
		}
	}
	return false
}

// parseClock reads "HH:mm" as minutes from midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
