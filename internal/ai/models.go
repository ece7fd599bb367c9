package ai

import (
	"itinera/internal/modules/slots"
)

// AITripPlan is the itinerary document the model is asked to return.
type AITripPlan struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
	Days        []AIDay `json:"days"`
}

type AIDay struct {
	// Date is yyyy-MM-dd.
	Date        string       `json:"date"`
	DayTheme    string       `json:"dayTheme,omitempty"`
	DayKeywords []string     `json:"dayKeywords,omitempty"`
	Activities  []AIActivity `json:"activities"`
	DaySummary  string       `json:"daySummary"`
	// Transportation lists the modes used to move between the day's activities.
	Transportation []string `json:"transportation,omitempty"`
}

type AIActivity struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
	// RecommendedDuration is in minutes.
	RecommendedDuration int      `json:"recommendedDuration"`
	OpeningHours        string   `json:"openingHours,omitempty"`
	Tips                []string `json:"tips,omitempty"`
	PriceLevel          string   `json:"priceLevel,omitempty"`
	// TimeSlot is a hint such as "上午" or "晚上"; layout ignores it.
	TimeSlot string `json:"timeSlot,omitempty"`
	// Rationale explains why the activity fits the traveller.
	Rationale string `json:"rationale"`
}

// ItineraryRequest carries the trip constraints into the prompt.
type ItineraryRequest struct {
	Destination         string
	DateRange           slots.DateRange
	DurationDays        int
	InterestTags        []string
	Pace                slots.Pace
	WalkingLevel        *slots.WalkingLevel
	TransportPreference *slots.TransportPreference
	SelectedAttractions []string
}

// RequestFromSlots builds a request from extracted slots. Absent optional
// preferences stay nil so the prompt leaves them to the model.
func RequestFromSlots(s slots.ExtractedSlots, attractions []string) ItineraryRequest {
	req := ItineraryRequest{
		Destination:         s.Destination.Value,
		DateRange:           s.DateRange.Value,
		DurationDays:        s.DurationDays.Value,
		InterestTags:        append([]string(nil), s.InterestTags...),
		Pace:                slots.PaceModerate,
		SelectedAttractions: attractions,
	}
	if s.Pace.Has() {
		req.Pace = s.Pace.Value
	}
	if s.WalkingLevel.Has() {
		w := s.WalkingLevel.Value
		req.WalkingLevel = &w
	}
	if s.TransportPreference.Has() {
		t := s.TransportPreference.Value
		req.TransportPreference = &t
	}
	if !s.DateRange.Has() {
		req.DateRange = slots.DateRange{}
	}
	return req
}
