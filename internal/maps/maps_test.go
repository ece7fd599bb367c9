package maps

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"googlemaps.github.io/maps"

	"itinera/internal/modules/slots"
)

type stubDirections struct {
	req    *maps.DirectionsRequest
	routes []maps.Route
	err    error
}

func (s *stubDirections) Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	s.req = r
	return s.routes, nil, s.err
}

type stubTextSearch struct {
	req  *maps.TextSearchRequest
	resp maps.PlacesSearchResponse
}

func (s *stubTextSearch) TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error) {
	s.req = r
	return s.resp, nil
}

func TestGetTravelEstimate(t *testing.T) {
	stub := &stubDirections{routes: []maps.Route{{Legs: []*maps.Leg{{
		Duration: 27*time.Minute + 40*time.Second,
		Distance: maps.Distance{HumanReadable: "12.3 公里", Meters: 12300},
	}}}}}
	svc := newRouteService(stub)

	est, err := svc.GetTravelEstimate(context.Background(), "台南車站", "安平古堡")
	if err != nil {
		t.Fatalf("GetTravelEstimate: %v", err)
	}
	if est.Minutes != 28 || est.Meters != 12300 || est.Mode != "driving" {
		t.Fatalf("estimate = %+v", est)
	}
	if stub.req.Language != "zh-TW" || stub.req.Origin != "台南車站" {
		t.Fatalf("request = %+v", stub.req)
	}

	if _, err := svc.GetTravelEstimateBy(context.Background(), "a", "b", slots.TransportPublic); err != nil {
		t.Fatalf("GetTravelEstimateBy: %v", err)
	}
	if stub.req.Mode != maps.TravelModeTransit {
		t.Fatalf("mode = %s, want transit", stub.req.Mode)
	}
}

func TestGetTravelEstimateNoRoute(t *testing.T) {
	svc := newRouteService(&stubDirections{})
	if _, err := svc.GetTravelEstimate(context.Background(), "a", "b"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestSearchAttractionsFilters(t *testing.T) {
	stub := &stubTextSearch{resp: maps.PlacesSearchResponse{Results: []maps.PlacesSearchResult{
		{Name: "赤崁樓", PlaceID: "p1", Rating: 4.5},
		{Name: "普通景點", PlaceID: "p2", Rating: 3.2},
		{Name: "府城大飯店", PlaceID: "p3", Rating: 4.8},
		{Name: "赤崁樓", PlaceID: "p1", Rating: 4.5},
		{Name: "安平古堡", PlaceID: "p4", Rating: 4.4},
	}}}
	svc := newPlacesService(stub)

	got, err := svc.SearchAttractions(context.Background(), "台南", "culture")
	if err != nil {
		t.Fatalf("SearchAttractions: %v", err)
	}
	names := Names(got)
	if len(names) != 2 || names[0] != "赤崁樓" || names[1] != "安平古堡" {
		t.Fatalf("names = %v", names)
	}
	if !strings.Contains(stub.req.Query, "古蹟 博物館 in 台南") {
		t.Fatalf("query = %q", stub.req.Query)
	}
	if stub.req.Type != "" {
		t.Fatalf("type = %q, want none for a category search", stub.req.Type)
	}

	if _, err := svc.SearchAttractions(context.Background(), "台南", ""); err != nil {
		t.Fatalf("SearchAttractions: %v", err)
	}
	if stub.req.Type != maps.PlaceTypeTouristAttraction {
		t.Fatalf("type = %q, want tourist_attraction", stub.req.Type)
	}

	if _, err := svc.SearchAttractions(context.Background(), " ", ""); err == nil {
		t.Fatal("expected error for empty destination")
	}
}
