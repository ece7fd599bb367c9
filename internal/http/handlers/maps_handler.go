// README: Maps handlers: attraction suggestions and travel-time estimates.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"itinera/internal/maps"
	"itinera/internal/modules/slots"
	"itinera/internal/service"
)

// TravelEstimator answers origin-to-destination travel time.
type TravelEstimator interface {
	GetTravelEstimateBy(ctx context.Context, origin, destination string, pref slots.TransportPreference) (maps.TravelEstimate, error)
}

type MapsHandler struct {
	places service.AttractionSearcher
	routes TravelEstimator
}

// NewMapsHandler accepts nil collaborators; their routes then answer 503.
func NewMapsHandler(places service.AttractionSearcher, routes TravelEstimator) *MapsHandler {
	return &MapsHandler{places: places, routes: routes}
}

// Attractions handles GET /api/attractions?destination=&category=.
func (h *MapsHandler) Attractions(c *gin.Context) {
	if h.places == nil {
		writeError(c, http.StatusServiceUnavailable, "maps not configured")
		return
	}
	destination := strings.TrimSpace(c.Query("destination"))
	if destination == "" {
		writeError(c, http.StatusBadRequest, "missing destination")
		return
	}
	places, err := h.places.SearchAttractions(c.Request.Context(), destination, strings.TrimSpace(c.Query("category")))
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "attraction search failed")
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"places": places})
}

// TravelEstimate handles GET /api/travel-estimate?origin=&destination=&mode=.
func (h *MapsHandler) TravelEstimate(c *gin.Context) {
	if h.routes == nil {
		writeError(c, http.StatusServiceUnavailable, "maps not configured")
		return
	}
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "missing origin or destination")
		return
	}
	pref := slots.TransportPreference(strings.TrimSpace(c.Query("mode")))
	est, err := h.routes.GetTravelEstimateBy(c.Request.Context(), origin, destination, pref)
	if err != nil {
		if errors.Is(err, maps.ErrNoRoute) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, "route lookup failed")
		return
	}
	writeJSON(c, http.StatusOK, est)
}
