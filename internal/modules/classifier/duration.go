package classifier

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"itinera/internal/modules/slots"
)

const maxDurationDays = 60

var (
	numericDuration = regexp.MustCompile(`(第)?(\d{1,3})\s*(?:天|日)`)
	chineseDuration = regexp.MustCompile(`(第)?([一二兩两三四五六七八九十]{1,3})(?:天|日)`)

	isoDate        = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
	monthDayRange  = regexp.MustCompile(`(\d{1,2})月(\d{1,2})(?:日|號|号)?\s*(?:到|至|-|~|～|－)\s*(?:(\d{1,2})月)?(\d{1,2})(?:日|號|号)?`)
	monthDaySingle = regexp.MustCompile(`(\d{1,2})月(\d{1,2})(?:日|號|号)?`)
)

var chineseDigits = map[rune]int{
	'一': 1, '二': 2, '兩': 2, '两': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// ParseDuration reads a trip length from free text. Numeric forms ("5天", "五日")
// win over named durations, which win over vague hints. Ordinals ("第3天") are ignored.
func ParseDuration(text string) slots.SlotInfo[int] {
	for _, m := range numericDuration.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 && n <= maxDurationDays {
			return slots.Known(n, confDurationNumeric)
		}
	}
	for _, m := range chineseDuration.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			continue
		}
		if n, ok := parseChineseNumber(m[2]); ok && n <= maxDurationDays {
			return slots.Known(n, confDurationNumeric)
		}
	}
	for _, d := range namedDurations {
		if strings.Contains(text, d.Keyword) {
			return slots.Known(d.Days, confDurationNamed)
		}
	}
	for _, d := range durationHints {
		if strings.Contains(text, d.Keyword) {
			return slots.Known(d.Days, confDurationHint)
		}
	}
	return slots.Absent[int]()
}

// ParseDurationAnswer is ParseDuration for a dialog answer, which may also be a
// bare number ("3" or "三").
func ParseDurationAnswer(answer string, confidence float64) slots.SlotInfo[int] {
	answer = strings.TrimSpace(answer)
	if d := ParseDuration(answer); d.Has() {
		return d
	}
	if n, err := strconv.Atoi(answer); err == nil && n > 0 && n <= maxDurationDays {
		return slots.Known(n, confidence)
	}
	if n, ok := parseChineseNumber(answer); ok && n <= maxDurationDays {
		return slots.Known(n, confidence)
	}
	return slots.Absent[int]()
}

// parseChineseNumber handles 1..99 written with 一..九 and 十.
func parseChineseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	total, cur := 0, 0
	for _, r := range s {
		if r == '十' {
			if cur == 0 {
				cur = 1
			}
			total += cur * 10
			cur = 0
			continue
		}
		d, ok := chineseDigits[r]
		if !ok {
			return 0, false
		}
		cur = d
	}
	total += cur
	return total, total > 0
}

// findExplicitDates returns up to two dates stated in text plus the text with
// those mentions blanked out, so "5日" in "10月5日" is not read as a duration.
func findExplicitDates(text string, today time.Time) ([]time.Time, string) {
	var dates []time.Time
	rest := text

	if ms := isoDate.FindAllStringSubmatchIndex(text, 2); len(ms) > 0 {
		for _, m := range ms {
			y, _ := strconv.Atoi(text[m[2]:m[3]])
			mo, _ := strconv.Atoi(text[m[4]:m[5]])
			d, _ := strconv.Atoi(text[m[6]:m[7]])
			if t, ok := makeDate(y, mo, d, today.Location()); ok {
				dates = append(dates, t)
			}
		}
		return dates, isoDate.ReplaceAllString(text, " ")
	}

	if m := monthDayRange.FindStringSubmatch(text); m != nil {
		m1, _ := strconv.Atoi(m[1])
		d1, _ := strconv.Atoi(m[2])
		m2 := m1
		if m[3] != "" {
			m2, _ = strconv.Atoi(m[3])
		}
		d2, _ := strconv.Atoi(m[4])
		start, ok1 := resolveMonthDay(m1, d1, today)
		end, ok2 := resolveMonthDay(m2, d2, today)
		if ok1 && ok2 {
			if end.Before(start) && end.Year() == start.Year() {
				// "12月30日到1月2日" crosses the year boundary.
				end = end.AddDate(1, 0, 0)
			}
			dates = append(dates, start, end)
		}
		return dates, monthDayRange.ReplaceAllString(text, " ")
	}

	for _, m := range monthDaySingle.FindAllStringSubmatch(text, 2) {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		if t, ok := resolveMonthDay(mo, d, today); ok {
			dates = append(dates, t)
		}
	}
	if len(dates) > 0 {
		rest = monthDaySingle.ReplaceAllString(text, " ")
	}
	return dates, rest
}

// resolveMonthDay places a month/day in the current year, or the next one if
// that date has already passed.
func resolveMonthDay(month, day int, today time.Time) (time.Time, bool) {
	t, ok := makeDate(today.Year(), month, day, today.Location())
	if !ok {
		return time.Time{}, false
	}
	if t.Before(slots.DateOnly(today)) {
		t, ok = makeDate(today.Year()+1, month, day, today.Location())
	}
	return t, ok
}

func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
