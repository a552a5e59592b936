package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/LdDl/campusnav"
	"github.com/LdDl/campusnav/internal/cache"
	"github.com/LdDl/campusnav/internal/catalog"
	"github.com/LdDl/campusnav/internal/logging"
	"github.com/LdDl/campusnav/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var flags networkFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve route planning over HTTP",
		Long: `Load the network once and serve route planning requests.

Routes:
  GET  /healthz            liveness and loaded node count
  GET  /network            network summary
  GET  /network.geojson    nodes and edges as GeoJSON
  GET  /destinations       named destinations
  POST /route              plan a route ({"from":{..},"to":{..}} or {"destination":"..."})
  POST /admin/reload       rebuild network from configured source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(c.cfg)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return c.runServe(cmd.Context())
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.cfg
	logger := logging.FromContext(ctx)
	network, err := loadNetwork(ctx, cfg)
	if err != nil {
		return err
	}
	store := campusnav.NewNetworkStore(network)

	routeCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if err := routeCache.Close(); err != nil {
			logger.Warn("closing route cache failed", "error", err)
		}
	}()
	if cfg.Cache.Enabled() {
		logger.Info("route cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.TTL)
	}

	destinations, err := catalog.Load(cfg.Catalog.Destinations)
	if err != nil {
		return err
	}
	logger.Debug("destinations loaded", "count", destinations.Len())

	router := server.NewRouter(logger, server.RouterDependencies{
		Store:         store,
		Catalog:       destinations,
		Cache:         routeCache,
		CacheTTL:      cfg.Cache.TTL,
		DefaultOrigin: cfg.Catalog.Origin(),
		Reload: func(ctx context.Context) (*campusnav.Network, error) {
			return loadNetwork(logging.WithLogger(ctx, logger), cfg)
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal", "cause", context.Cause(ctx))
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
