package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LdDl/campusnav"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var flags networkFlags
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the network and print its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(c.cfg)
			if err != nil {
				return err
			}
			network, err := loadNetwork(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.printNetwork(network)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) printNetwork(network *campusnav.Network) {
	graph := network.Graph()
	bound := graph.Bound()

	isolated := 0
	for _, node := range graph.Nodes() {
		if len(graph.Neighbors(node.ID)) == 0 {
			isolated++
		}
	}

	printTitle(c.out, "Network")
	printKeyValue(c.out, "source", network.Source())
	printKeyValue(c.out, "nodes", fmt.Sprintf("%d", graph.Len()))
	printKeyValue(c.out, "edges", fmt.Sprintf("%d", graph.EdgesCount()))
	printKeyValue(c.out, "policy", graph.Policy().String())
	printKeyValue(c.out, "locator", network.LocatorKind().String())
	printKeyValue(c.out, "solver", network.SolverKind().String())
	printKeyValue(c.out, "center", formatPoint(graph.Center()))
	printKeyValue(c.out, "bound min", formatPoint(campusnav.GeoPoint{Lat: bound.Min.Lat(), Lon: bound.Min.Lon()}))
	printKeyValue(c.out, "bound max", formatPoint(campusnav.GeoPoint{Lat: bound.Max.Lat(), Lon: bound.Max.Lon()}))
	printKeyValue(c.out, "fingerprint", fmt.Sprintf("%016x", graph.Fingerprint()))
	if isolated > 0 {
		printWarning(c.out, "%d node(s) have no edges and are unreachable", isolated)
	}
}
