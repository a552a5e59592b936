package server

import (
	"context"

	"github.com/LdDl/campusnav"
	"github.com/LdDl/campusnav/internal/cache"
)

// planRoute snaps both points, then serves route between snapped nodes from cache when possible.
// Cache failures are logged and never reach the client.
func (h *APIHandlers) planRoute(ctx context.Context, network *campusnav.Network, from, to campusnav.GeoPoint) (*campusnav.Route, bool, error) {
	start, err := network.Locator().Locate(from)
	if err != nil {
		return nil, false, err
	}
	end, err := network.Locator().Locate(to)
	if err != nil {
		return nil, false, err
	}
	key := cache.RouteKey(network.Graph().Fingerprint(), start.ID, end.ID)

	route, err := cache.GetRoute(ctx, h.deps.Cache, key)
	switch {
	case err == nil:
		// Cached entry was planned for other request coordinates
		route.From = from
		route.To = to
		route.SnapStartMeters = campusnav.GreatCircleDistance(from, route.Start.GeoPoint())
		route.SnapEndMeters = campusnav.GreatCircleDistance(to, route.End.GeoPoint())
		return route, true, nil
	case err != cache.ErrCacheMiss:
		h.logger.Warn("route cache read failed", "key", key, "error", err)
	}

	route, err = network.PlanRoute(from, to)
	if err != nil {
		return nil, false, err
	}
	if err := cache.SetRoute(ctx, h.deps.Cache, key, route, h.deps.CacheTTL); err != nil {
		h.logger.Warn("route cache write failed", "key", key, "error", err)
	}
	return route, false, nil
}
