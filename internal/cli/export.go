package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LdDl/campusnav"
)

func (c *CLI) exportCommand() *cobra.Command {
	var flags networkFlags
	var (
		out        string
		geomFormat string
		contract   bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the network to CSV or GeoJSON",
		Long: `Export the loaded network.

If --out ends with '.geojson' a single FeatureCollection is written. Otherwise
'<name>_nodes.csv' and '<name>_edges.csv' are produced (';' separated). With
--contract also '<name>_vertices.csv' and '<name>_shortcuts.csv' describing the
contraction hierarchy.`,
		Example: `  campusnav export --nodes campus.csv --out campus.csv --geomf geojson
  campusnav export --nodes campus.csv --out campus.geojson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(c.cfg)
			if err != nil {
				return err
			}
			format, err := campusnav.ParseGeomFormat(geomFormat)
			if err != nil {
				return err
			}
			if contract {
				cfg.Routing.Solver = campusnav.SOLVER_CONTRACTION.String()
			}
			network, err := loadNetwork(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if strings.HasSuffix(out, ".geojson") {
				return c.exportGeoJSON(network.Graph(), out)
			}

			if err := network.Graph().ExportToCSV(out, format); err != nil {
				return err
			}
			name := strings.Split(out, ".csv")[0]
			printSuccess(c.out, "network exported")
			printFile(c.out, name+"_nodes.csv")
			printFile(c.out, name+"_edges.csv")

			if contract {
				solver, ok := network.Solver().(*campusnav.ContractionSolver)
				if !ok {
					return fmt.Errorf("solver %s is not contraction hierarchies", network.SolverKind())
				}
				if err := solver.ExportToCSV(out, format); err != nil {
					return err
				}
				printFile(c.out, name+"_vertices.csv")
				printFile(c.out, name+"_shortcuts.csv")
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "campus.csv", "output file name ('.csv' or '.geojson')")
	cmd.Flags().StringVar(&geomFormat, "geomf", "wkt", "format of CSV geometry: wkt or geojson")
	cmd.Flags().BoolVar(&contract, "contract", false, "prepare contraction hierarchies and export vertices and shortcuts")
	return cmd
}

func (c *CLI) exportGeoJSON(graph *campusnav.Graph, fname string) error {
	data, err := campusnav.NetworkFeatureCollection(graph).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't encode network")
	}
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	printSuccess(c.out, "network exported")
	printFile(c.out, fname)
	return nil
}
