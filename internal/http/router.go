// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itinera/internal/http/handlers"
	"itinera/internal/http/middleware"
	"itinera/internal/infra"
	"itinera/internal/service"
)

type RouterDeps struct {
	Planner  *service.TripPlanner
	Plans    handlers.PlanStore
	Sessions handlers.SessionStore
	Places   service.AttractionSearcher
	Routes   handlers.TravelEstimator
	Quota    handlers.QuotaReader
	// Verifier nil leaves the API unauthenticated.
	Verifier        infra.TokenVerifier
	RateLimitPerMin int
	Location        *time.Location
	Logger          *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	if d.Verifier != nil {
		api.Use(middleware.Auth(d.Verifier))
	}
	limited := middleware.RateLimit(d.RateLimitPerMin)

	planHandler := handlers.NewPlanHandler(d.Planner, d.Plans, d.Sessions, loc, logger)
	api.POST("/classify", planHandler.Classify)
	api.POST("/plans", limited, planHandler.Create)
	api.GET("/plans/:id", planHandler.Get)
	api.GET("/plans/:id/template", planHandler.Template)
	api.PUT("/plans/:id/days/:date", planHandler.PutDay)

	followupHandler := handlers.NewFollowupHandler(d.Planner, d.Plans, d.Sessions, logger)
	api.POST("/followups", followupHandler.Create)
	api.POST("/followups/:id/answers", limited, followupHandler.Answer)

	mapsHandler := handlers.NewMapsHandler(d.Places, d.Routes)
	api.GET("/attractions", mapsHandler.Attractions)
	api.GET("/travel-estimate", mapsHandler.TravelEstimate)

	quotaHandler := handlers.NewQuotaHandler(d.Quota)
	api.GET("/quota", quotaHandler.Get)

	return r
}
