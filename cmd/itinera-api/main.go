// README: Entry point; loads config, wires stores and services, serves the HTTP API until signalled.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itinera/internal/ai"
	"itinera/internal/config"
	httptransport "itinera/internal/http"
	"itinera/internal/infra"
	"itinera/internal/maps"
	"itinera/internal/modules/aiusage"
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/followup"
	"itinera/internal/modules/plan"
	"itinera/internal/modules/scheduler"
	"itinera/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("itinera-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	if cfg.DB.MigrationsDir != "" {
		if err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("dir", cfg.DB.MigrationsDir))
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	loc := cfg.Planner.Location
	quota := aiusage.NewService(aiusage.NewStore(dbPool), cfg.AI.MonthlyQuota)
	deps := service.Deps{
		Classifier: classifier.New(classifier.WithThresholds(cfg.Classifier), classifier.WithLocation(loc)),
		Scheduler:  scheduler.New(loc),
		Quota:      quota,
		Location:   loc,
		Logger:     logger,
	}

	if cfg.AI.Enabled {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			return err
		}
		defer provider.Close()
		deps.Itinerary = ai.NewItinerary(provider, ai.ItineraryOptions{
			Enabled:   true,
			Timeout:   cfg.AI.Timeout,
			CacheSize: cfg.AI.CacheSize,
			CacheTTL:  cfg.AI.CacheTTL,
		}, logger)
	} else {
		logger.Info("ai generation disabled; plans come from the scheduler")
	}

	routerDeps := httptransport.RouterDeps{
		Plans:           plan.NewStore(dbPool, loc),
		Sessions:        followup.NewStore(redisClient, cfg.Followup.SessionTTL),
		Quota:           quota,
		RateLimitPerMin: cfg.HTTP.RateLimitPerMin,
		Location:        loc,
		Logger:          logger,
	}

	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		deps.Places = places
		routerDeps.Places = places
		routerDeps.Routes = routes
	}

	if cfg.Firebase.ProjectID != "" {
		verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return err
		}
		routerDeps.Verifier = verifier
	} else {
		logger.Warn("firebase.project_id not set; API is unauthenticated")
	}

	routerDeps.Planner = service.NewTripPlanner(deps)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewRouter(routerDeps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
