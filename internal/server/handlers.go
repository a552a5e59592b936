package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LdDl/campusnav"
	"github.com/LdDl/campusnav/internal/cache"
	"github.com/LdDl/campusnav/internal/catalog"
)

const maxRequestBody = 1 << 16

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Store   *campusnav.NetworkStore
	Catalog *catalog.Catalog
	// Cache may be nil: caching is disabled then
	Cache    cache.Cache
	CacheTTL time.Duration
	// DefaultOrigin is used when request has no "from"
	DefaultOrigin campusnav.GeoPoint
	// Reload builds fresh network from configured source. Nil disables /admin/reload
	Reload         func(ctx context.Context) (*campusnav.Network, error)
	AllowedOrigins []string
}

// APIHandlers serves route planning endpoints.
type APIHandlers struct {
	logger *log.Logger
	deps   RouterDependencies
}

// NewAPIHandlers fills missing optional dependencies with no-op defaults.
func NewAPIHandlers(logger *log.Logger, deps RouterDependencies) *APIHandlers {
	if deps.Store == nil {
		deps.Store = campusnav.NewNetworkStore(nil)
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New(nil)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNullCache()
	}
	return &APIHandlers{logger: logger, deps: deps}
}

func (h *APIHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	network := h.deps.Store.Load()
	if network == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"nodes":  network.Graph().Len(),
	})
}

type boundResponse struct {
	Min campusnav.GeoPoint `json:"min"`
	Max campusnav.GeoPoint `json:"max"`
}

type networkResponse struct {
	Nodes       int                `json:"nodes"`
	Edges       int                `json:"edges"`
	Policy      string             `json:"policy"`
	Locator     string             `json:"locator"`
	Solver      string             `json:"solver"`
	Center      campusnav.GeoPoint `json:"center"`
	Bound       boundResponse      `json:"bound"`
	Fingerprint string             `json:"fingerprint"`
	Source      string             `json:"source"`
	LoadedAt    time.Time          `json:"loaded_at"`
}

func describeNetwork(network *campusnav.Network) networkResponse {
	graph := network.Graph()
	bound := graph.Bound()
	return networkResponse{
		Nodes:   graph.Len(),
		Edges:   graph.EdgesCount(),
		Policy:  graph.Policy().String(),
		Locator: network.LocatorKind().String(),
		Solver:  network.SolverKind().String(),
		Center:  graph.Center(),
		Bound: boundResponse{
			Min: campusnav.GeoPoint{Lat: bound.Min.Lat(), Lon: bound.Min.Lon()},
			Max: campusnav.GeoPoint{Lat: bound.Max.Lat(), Lon: bound.Max.Lon()},
		},
		Fingerprint: fmt.Sprintf("%016x", graph.Fingerprint()),
		Source:      network.Source(),
		LoadedAt:    network.LoadedAt(),
	}
}

func (h *APIHandlers) handleNetwork(w http.ResponseWriter, r *http.Request) {
	network := h.deps.Store.Load()
	if network == nil {
		respondError(w, r, http.StatusServiceUnavailable, "network is not loaded")
		return
	}
	respondJSON(w, http.StatusOK, describeNetwork(network))
}

func (h *APIHandlers) handleNetworkGeoJSON(w http.ResponseWriter, r *http.Request) {
	network := h.deps.Store.Load()
	if network == nil {
		respondError(w, r, http.StatusServiceUnavailable, "network is not loaded")
		return
	}
	data, err := campusnav.NetworkFeatureCollection(network.Graph()).MarshalJSON()
	if err != nil {
		h.logger.Error("can't encode network", "error", err)
		respondError(w, r, http.StatusInternalServerError, "can't encode network")
		return
	}
	respondRawJSON(w, http.StatusOK, "application/geo+json", data)
}

func (h *APIHandlers) handleDestinations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"destinations": h.deps.Catalog.All(),
	})
}

type routeRequest struct {
	From        *campusnav.GeoPoint `json:"from"`
	To          *campusnav.GeoPoint `json:"to"`
	Destination string              `json:"destination"`
}

type routeResponse struct {
	*campusnav.Route
	DistanceKm  float64              `json:"distance_km"`
	NodeCount   int                  `json:"node_count"`
	Destination *catalog.Destination `json:"destination,omitempty"`
	Cached      bool                 `json:"cached"`
}

func validPoint(pt campusnav.GeoPoint) bool {
	return pt.Lat >= -90 && pt.Lat <= 90 && pt.Lon >= -180 && pt.Lon <= 180
}

func (h *APIHandlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	from := h.deps.DefaultOrigin
	if req.From != nil {
		from = *req.From
	}
	var to campusnav.GeoPoint
	var destination *catalog.Destination
	switch {
	case req.To != nil:
		to = *req.To
	case req.Destination != "":
		found, ok := h.deps.Catalog.Find(req.Destination)
		if !ok {
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown destination %q", req.Destination))
			return
		}
		destination = &found
		to = found.GeoPoint()
	default:
		respondError(w, r, http.StatusBadRequest, "either 'to' or 'destination' is required")
		return
	}
	if !validPoint(from) || !validPoint(to) {
		respondError(w, r, http.StatusBadRequest, "coordinates are out of range")
		return
	}

	network := h.deps.Store.Load()
	if network == nil {
		respondError(w, r, http.StatusServiceUnavailable, "network is not loaded")
		return
	}
	route, cached, err := h.planRoute(r.Context(), network, from, to)
	switch {
	case err == nil:
	case campusnav.IsEmptyNetwork(err):
		respondError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	case campusnav.IsNoPath(err):
		respondError(w, r, http.StatusNotFound, err.Error())
		return
	default:
		h.logger.Error("route planning failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
		respondError(w, r, http.StatusInternalServerError, "route planning failed")
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		data, err := campusnav.RouteFeatureCollection(route).MarshalJSON()
		if err != nil {
			h.logger.Error("can't encode route", "error", err)
			respondError(w, r, http.StatusInternalServerError, "can't encode route")
			return
		}
		respondRawJSON(w, http.StatusOK, "application/geo+json", data)
		return
	}
	respondJSON(w, http.StatusOK, routeResponse{
		Route:       route,
		DistanceKm:  route.DistanceKm(),
		NodeCount:   route.NodeCount(),
		Destination: destination,
		Cached:      cached,
	})
}

func (h *APIHandlers) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.deps.Reload == nil {
		respondError(w, r, http.StatusNotImplemented, "reload is not configured")
		return
	}
	start := time.Now()
	network, err := h.deps.Store.Reload(func() (*campusnav.Network, error) {
		return h.deps.Reload(r.Context())
	})
	if err != nil {
		h.logger.Warn("network reload failed, previous network stays in service", "error", err)
		status := http.StatusInternalServerError
		if campusnav.IsConstructionError(err) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, r, status, err.Error())
		return
	}
	h.logger.Info("network reloaded",
		"nodes", network.Graph().Len(),
		"edges", network.Graph().EdgesCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	respondJSON(w, http.StatusOK, describeNetwork(network))
}
