// README: Attraction candidates for a destination via Places text search.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

const (
	minAttractionRating = 4.0
	defaultMaxResults   = 5
)

// textSearchClient is the part of *maps.Client the places service uses.
type textSearchClient interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// Place represents a simplified attraction result.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

// categoryQueries maps interest tags to search terms the Places API handles well.
var categoryQueries = map[string]string{
	"food":      "美食 餐廳",
	"culture":   "古蹟 博物館",
	"nature":    "公園 步道 自然景觀",
	"shopping":  "購物 商圈",
	"nightlife": "夜景 酒吧",
	"art":       "美術館 藝廊",
	"family":    "親子 樂園",
	"photo":     "拍照 景點",
}

// excludedNames drop lodging and transit results that text search often mixes in.
var excludedNames = []string{"Hotel", "飯店", "旅館", "民宿", "Hostel", "車站", "Station", "停車場", "Parking"}

// PlacesService handles interactions with the Places API.
type PlacesService struct {
	client     textSearchClient
	maxResults int
}

// NewPlacesService creates a PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newPlacesService(client), nil
}

func newPlacesService(client textSearchClient) *PlacesService {
	return &PlacesService{client: client, maxResults: defaultMaxResults}
}

// SearchAttractions returns up to five well-rated attractions in destination.
// category is an interest tag ("food", "culture", ...) or free text; empty
// means general sightseeing.
func (s *PlacesService) SearchAttractions(ctx context.Context, destination, category string) ([]Place, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	query := "熱門景點"
	if category = strings.TrimSpace(category); category != "" {
		query = category
		if mapped, ok := categoryQueries[strings.ToLower(category)]; ok {
			query = mapped
		}
	}

	r := &maps.TextSearchRequest{
		Query:    fmt.Sprintf("%s in %s", query, destination),
		Language: "zh-TW",
	}
	if category == "" {
		r.Type = maps.PlaceTypeTouristAttraction
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	seen := make(map[string]bool)
	var results []Place
	for _, result := range resp.Results {
		if result.Rating < minAttractionRating || seen[result.PlaceID] {
			continue
		}
		if containsAnyFold(result.Name, excludedNames) {
			continue
		}
		seen[result.PlaceID] = true
		results = append(results, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
		})
		if len(results) >= s.maxResults {
			break
		}
	}
	return results, nil
}

// Names lists place names, the form the itinerary prompt takes.
func Names(places []Place) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.Name)
	}
	return out
}

func containsAnyFold(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
