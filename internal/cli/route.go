package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LdDl/campusnav"
	"github.com/LdDl/campusnav/internal/catalog"
	"github.com/LdDl/campusnav/internal/config"
)

type routeOptions struct {
	from        string
	to          string
	destination string
	format      string
}

func (c *CLI) routeCommand() *cobra.Command {
	var flags networkFlags
	var opts routeOptions
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan a single route and print it",
		Example: `  campusnav route --nodes campus.csv --from 12.1931,79.0841 --to 12.1944,79.0853
  campusnav route -c campusnav.toml --destination library --format geojson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(c.cfg)
			if err != nil {
				return err
			}
			from, to, destination, err := opts.points(cfg)
			if err != nil {
				return err
			}
			network, err := loadNetwork(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			route, err := network.PlanRoute(from, to)
			if err != nil {
				return err
			}
			return c.printRoute(route, destination, opts.format)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&opts.from, "from", "", "start point as 'lat,lon' (default origin from config when empty)")
	cmd.Flags().StringVar(&opts.to, "to", "", "end point as 'lat,lon'")
	cmd.Flags().StringVar(&opts.destination, "destination", "", "destination name from catalog (instead of --to)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, json or geojson")
	return cmd
}

// points resolves request endpoints. --to wins over --destination.
func (opts routeOptions) points(cfg config.Config) (campusnav.GeoPoint, campusnav.GeoPoint, *catalog.Destination, error) {
	from := cfg.Catalog.Origin()
	if opts.from != "" {
		pt, err := config.ParseLatLon(opts.from)
		if err != nil {
			return campusnav.GeoPoint{}, campusnav.GeoPoint{}, nil, err
		}
		from = pt
	}
	switch {
	case opts.to != "":
		to, err := config.ParseLatLon(opts.to)
		if err != nil {
			return campusnav.GeoPoint{}, campusnav.GeoPoint{}, nil, err
		}
		return from, to, nil, nil
	case opts.destination != "":
		destinations, err := catalog.Load(cfg.Catalog.Destinations)
		if err != nil {
			return campusnav.GeoPoint{}, campusnav.GeoPoint{}, nil, err
		}
		found, ok := destinations.Find(opts.destination)
		if !ok {
			return campusnav.GeoPoint{}, campusnav.GeoPoint{}, nil, fmt.Errorf("unknown destination %q", opts.destination)
		}
		return from, found.GeoPoint(), &found, nil
	default:
		return campusnav.GeoPoint{}, campusnav.GeoPoint{}, nil, fmt.Errorf("either --to or --destination is required")
	}
}

func (c *CLI) printRoute(route *campusnav.Route, destination *catalog.Destination, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(c.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(route)
	case "geojson":
		data, err := campusnav.RouteFeatureCollection(route).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(data))
		return err
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	printTitle(c.out, "Route")
	if destination != nil {
		printKeyValue(c.out, "destination", destination.Name)
	}
	printKeyValue(c.out, "from", formatPoint(route.From))
	printKeyValue(c.out, "to", formatPoint(route.To))
	printKeyValue(c.out, "start node", fmt.Sprintf("%d (snapped %.1f m)", route.Start.ID, route.SnapStartMeters))
	printKeyValue(c.out, "end node", fmt.Sprintf("%d (snapped %.1f m)", route.End.ID, route.SnapEndMeters))
	printKeyValue(c.out, "distance", fmt.Sprintf("%.1f m (%.3f km)", route.Distance, route.DistanceKm()))
	printKeyValue(c.out, "straight line", fmt.Sprintf("%.1f m", route.StraightLineMeters))
	ids := make([]campusnav.NodeID, len(route.Nodes))
	for i, node := range route.Nodes {
		ids[i] = node.ID
	}
	printKeyValue(c.out, "path", fmt.Sprintf("%v", ids))
	if route.NodeCount() == 1 {
		printWarning(c.out, "start and end snapped to the same node")
	}
	return nil
}
