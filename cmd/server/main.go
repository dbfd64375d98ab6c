package main

import (
	"bouquet-tour-service/internal/adapters/cache"
	"bouquet-tour-service/internal/adapters/geocode"
	"bouquet-tour-service/internal/adapters/repositories"
	"bouquet-tour-service/internal/api"
	"bouquet-tour-service/internal/config"
	"bouquet-tour-service/internal/platform/db"
	"bouquet-tour-service/internal/platform/logging"
	"bouquet-tour-service/internal/platform/obs"
	"bouquet-tour-service/internal/services"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		// No logger yet: report on stderr and bail.
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.AppEnv, "server")

	conn, dialect, err := db.Open(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	// Schema is created on startup for local runs; the seed is optional and
	// never resets backlog intake dates or placements.
	if err := repositories.InitSchema(conn, dialect); err != nil {
		logger.Fatal().Err(err).Msg("init schema")
	}
	if path := strings.TrimSpace(cfg.SeedPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := repositories.SeedFromJSON(conn, dialect, path); err != nil {
				logger.Fatal().Err(err).Str("path", path).Msg("seed database")
			}
			logger.Info().Str("path", path).Msg("seed applied")
		}
	}

	if err := obs.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatal().Err(err).Msg("register metrics")
	}

	plannerCfg, err := cfg.PlannerConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("planner config")
	}

	planner := services.NewPlanner(
		repositories.NewSQLClientRepository(conn, dialect),
		repositories.NewSQLInventoryRepository(conn, dialect),
		repositories.NewSQLBacklogRepository(conn, dialect),
		services.NewZoneClassifier(cfg.ZoneTable()),
		plannerCfg,
	)

	// Geocoding is only a fallback for addresses without a readable postal code.
	if key := strings.TrimSpace(cfg.ORSAPIKey); key != "" {
		resolver, err := geocode.NewORSPostalCodeResolver(key, cache.NewSQLPostalCodeCache(conn, dialect))
		if err != nil {
			logger.Fatal().Err(err).Msg("postal code resolver")
		}
		planner.Resolver = resolver
	} else {
		logger.Info().Msg("ORS_API_KEY not set; addresses without a postal code will not be planned")
	}

	router := api.NewRouter(planner, prometheus.DefaultGatherer, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("dialect", string(dialect)).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	logger.Info().Msg("server stopped")
}
