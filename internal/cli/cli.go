// Package cli implements the campusnav command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/LdDl/campusnav"
	"github.com/LdDl/campusnav/internal/config"
	"github.com/LdDl/campusnav/internal/logging"
)

var (
	version = "dev" // semantic version, injected via ldflags
	commit  = ""    // git commit SHA
	date    = ""    // build timestamp
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool

	cfg config.Config
}

// New creates CLI writing command output to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		out:    out,
		errOut: errOut,
		cfg:    config.Default(),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "campusnav",
		Short:             "campusnav plans walking routes over a surveyed campus road network",
		Long:              `campusnav loads a surveyed road network (CSV, JSON or OpenStreetMap), snaps coordinates to the nearest survey point and finds the shortest path between them.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetVersionTemplate(fmt.Sprintf("campusnav %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exportCommand())
	return root
}

// Execute runs the CLI with given arguments.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logging.New(c.errOut, cfg.Logging)))
	return nil
}

// networkFlags overrides [network] and [routing] config sections for one command.
type networkFlags struct {
	format  string
	nodes   string
	edges   string
	policy  string
	locator string
	solver  string
}

func (flags *networkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.format, "input-format", "", "network format: csv, json, osm or pbf")
	cmd.Flags().StringVar(&flags.nodes, "nodes", "", "survey points file (CSV, JSON document or OSM file)")
	cmd.Flags().StringVar(&flags.edges, "edges", "", "explicit edges CSV (csv format only)")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "connectivity policy: explicit_edges, linkage or survey_order")
	cmd.Flags().StringVar(&flags.locator, "locator", "", "nearest point locator: linear or quadtree")
	cmd.Flags().StringVar(&flags.solver, "solver", "", "shortest path solver: dijkstra or contraction")
}

// apply returns copy of cfg with non-empty flags applied. Result is validated.
func (flags *networkFlags) apply(cfg config.Config) (config.Config, error) {
	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	override(&cfg.Network.Format, flags.format)
	override(&cfg.Network.Nodes, flags.nodes)
	override(&cfg.Network.Edges, flags.edges)
	override(&cfg.Network.Policy, flags.policy)
	override(&cfg.Routing.Locator, flags.locator)
	override(&cfg.Routing.Solver, flags.solver)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Network.Nodes == "" {
		return config.Config{}, errors.New("network file is not set: use --nodes or [network] nodes")
	}
	return cfg, nil
}

// loadNetwork builds network described by cfg and logs how long it took.
func loadNetwork(ctx context.Context, cfg config.Config) (*campusnav.Network, error) {
	logger := logging.FromContext(ctx)
	source := cfg.Network.Source()
	progress := logging.NewProgress(logger)
	logger.Debug("loading network", "source", source.String(), "policy", cfg.Network.Policy)
	network, err := campusnav.BuildNetwork(ctx, source, cfg.Network.ConnectivityPolicy(), cfg.Routing.Options()...)
	if err != nil {
		return nil, err
	}
	progress.Done("network loaded",
		"nodes", network.Graph().Len(),
		"edges", network.Graph().EdgesCount(),
		"locator", network.LocatorKind().String(),
		"solver", network.SolverKind().String(),
	)
	return network, nil
}
