package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP routes exposed by the service.
func NewRouter(logger *log.Logger, deps RouterDependencies) http.Handler {
	api := NewAPIHandlers(logger, deps)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(deps.AllowedOrigins))
	}

	r.Get("/healthz", api.handleHealth)
	r.Get("/network", api.handleNetwork)
	r.Get("/network.geojson", api.handleNetworkGeoJSON)
	r.Get("/destinations", api.handleDestinations)
	r.Post("/route", api.handleRoute)
	r.Route("/admin", func(r chi.Router) {
		r.Post("/reload", api.handleReload)
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondRawJSON(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, RequestID: RequestIDFromContext(r.Context())})
}
