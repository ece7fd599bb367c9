package ai

import (
	"fmt"
	"strings"

	"itinera/internal/modules/slots"
)

var activitiesPerDay = map[slots.Pace]string{
	slots.PaceRelaxed:  "2-3",
	slots.PaceModerate: "3-4",
	slots.PaceTight:    "4-5",
}

var walkingText = map[slots.WalkingLevel]string{
	slots.WalkingLow:    "low (keep walking short, prefer door-to-door transport)",
	slots.WalkingNormal: "normal",
	slots.WalkingHigh:   "high (long walks and hikes are welcome)",
}

var transportText = map[slots.TransportPreference]string{
	slots.TransportPublic:  "public transport (metro, bus, train)",
	slots.TransportDriving: "self-driving",
	slots.TransportTaxi:    "taxi / ride-hailing",
	slots.TransportWalking: "walking",
}

// BuildItineraryPrompt renders the single prompt sent to the provider.
// Identical requests produce identical prompts, which the cache relies on.
func BuildItineraryPrompt(req ItineraryRequest) string {
	var days []string
	if req.DateRange.Valid() {
		days = req.DateRange.Days()
	}
	dayCount := len(days)
	if dayCount == 0 {
		dayCount = req.DurationDays
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Role: You are a local travel planner writing a day-by-day itinerary for %s.\n", req.Destination)
	b.WriteString("Trip:\n")
	if len(days) > 0 {
		fmt.Fprintf(&b, "- Dates: %s to %s (%d days)\n", days[0], days[len(days)-1], dayCount)
	} else {
		fmt.Fprintf(&b, "- Length: %d days\n", dayCount)
	}
	fmt.Fprintf(&b, "- Pace: %s (%s activities per day)\n", req.Pace, perDay(req.Pace))
	if len(req.InterestTags) > 0 {
		fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(req.InterestTags, ", "))
	} else {
		b.WriteString("- Interests: general sightseeing\n")
	}
	if req.WalkingLevel != nil {
		fmt.Fprintf(&b, "- Walking level: %s\n", walkingText[*req.WalkingLevel])
	}
	if req.TransportPreference != nil {
		fmt.Fprintf(&b, "- Transport: %s\n", transportText[*req.TransportPreference])
	}
	if len(req.SelectedAttractions) > 0 {
		fmt.Fprintf(&b, "- Must include: %s\n", strings.Join(req.SelectedAttractions, "、"))
	}

	b.WriteString(`
RULES:
1. Return exactly one entry in "days" per trip date, using the dates above in yyyy-MM-dd. Set "startDate" and "endDate" to the first and last day.
2. Order activities in the sequence they should be visited. Do not add transit entries; travel time is added later.
3. EVERY activity MUST have a non-empty "title" and a "rationale" explaining why it suits this traveller.
4. "recommendedDuration" is an integer number of minutes between 30 and 240.
5. "category" is a short noun such as 景點, 餐廳, 博物館, 購物, 公園.
6. Every day has a "daySummary" of one sentence. "transportation" lists the modes used between that day's activities.
7. Write all user-facing text in Traditional Chinese (台灣繁體中文).
8. Output ONLY the JSON object below. No markdown, no comments, no trailing commas.

Output JSON example:
{
  "destination": "台南",
  "startDate": "2026-03-28",
  "endDate": "2026-03-28",
  "days": [
    {
      "date": "2026-03-28",
      "dayTheme": "府城古蹟與小吃",
      "dayKeywords": ["古蹟", "小吃"],
      "activities": [
        {
          "title": "赤崁樓",
          "location": "台南市中西區民族路二段212號",
          "description": "荷蘭時期留下的古蹟，園區不大適合慢慢逛。",
          "category": "景點",
          "recommendedDuration": 60,
          "openingHours": "08:30-21:30",
          "tips": ["早上人潮較少", "可搭配周邊小吃"],
          "priceLevel": "$",
          "timeSlot": "上午",
          "rationale": "符合對歷史文化的興趣，且步行距離短。"
        }
      ],
      "daySummary": "上午走訪古蹟，午後品嚐府城小吃。",
      "transportation": ["公車", "步行"]
    }
  ]
}
`)
	return b.String()
}

func perDay(p slots.Pace) string {
	if n, ok := activitiesPerDay[p]; ok {
		return n
	}
	return activitiesPerDay[slots.PaceModerate]
}
