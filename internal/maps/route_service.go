// README: Travel-time lookups between two places via the Google Directions API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"itinera/internal/modules/slots"
)

var ErrNoRoute = errors.New("no route found")

// directionsClient is the part of *maps.Client the route service uses.
type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// TravelEstimate is the first leg of the best route.
type TravelEstimate struct {
	Duration time.Duration `json:"duration"`
	Minutes  int           `json:"minutes"`
	Distance string        `json:"distance"`
	Meters   int           `json:"meters"`
	Mode     string        `json:"mode"`
}

// RouteService handles interactions with the Directions API.
type RouteService struct {
	client   directionsClient
	language string
	region   string
}

// NewRouteService creates a RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newRouteService(client), nil
}

func newRouteService(client directionsClient) *RouteService {
	return &RouteService{client: client, language: "zh-TW", region: "TW"}
}

// GetTravelEstimate returns the driving estimate from origin to destination.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination string) (TravelEstimate, error) {
	return s.GetTravelEstimateBy(ctx, origin, destination, slots.TransportDriving)
}

// GetTravelEstimateBy estimates with the travel mode matching pref.
func (s *RouteService) GetTravelEstimateBy(ctx context.Context, origin, destination string, pref slots.TransportPreference) (TravelEstimate, error) {
	mode := travelMode(pref)
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		Language:    s.language,
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return TravelEstimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return TravelEstimate{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return TravelEstimate{
		Duration: leg.Duration,
		Minutes:  int(leg.Duration.Round(time.Minute) / time.Minute),
		Distance: leg.Distance.HumanReadable,
		Meters:   leg.Distance.Meters,
		Mode:     string(mode),
	}, nil
}

func travelMode(pref slots.TransportPreference) maps.Mode {
	switch pref {
	case slots.TransportPublic:
		return maps.TravelModeTransit
	case slots.TransportWalking:
		return maps.TravelModeWalking
	default:
		// taxi shares road routing with driving
		return maps.TravelModeDriving
	}
}
