package api

import (
	"bouquet-tour-service/internal/api/handlers"
	"bouquet-tour-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// Metrics are served from gatherer, or the default registry when it is nil.
func NewRouter(planner *services.Planner, gatherer prometheus.Gatherer, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	tourHandler := &handlers.TourHandler{Planner: planner}
	assignmentHandler := &handlers.AssignmentHandler{Planner: planner}
	inboxHandler := &handlers.InboxHandler{Planner: planner}
	clientHandler := &handlers.ClientHandler{Repo: planner.Clients}
	itemHandler := &handlers.ItemHandler{Repo: planner.Inventory}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /tours", tourHandler.List)
	mux.HandleFunc("GET /tours/{number}/dispatch", tourHandler.Dispatch)
	mux.HandleFunc("POST /assignments", assignmentHandler.Confirm)
	mux.HandleFunc("GET /inbox", inboxHandler.List)
	mux.HandleFunc("POST /inbox/{clientID}/placement", inboxHandler.Place)
	mux.HandleFunc("GET /deliveries/special", inboxHandler.Special)
	mux.HandleFunc("GET /clients", clientHandler.List)
	mux.HandleFunc("GET /items", itemHandler.List)

	return loggingMiddleware(logger, mux)
}
