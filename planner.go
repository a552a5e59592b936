package campusnav

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Network bundles immutable graph with locator and solver prepared for it.
// It is built once per load of network data and is safe for concurrent use
type Network struct {
	graph       *Graph
	locator     Locator
	solver      Solver
	locatorKind LocatorKind
	solverKind  SolverKind
	source      string
	loadedAt    time.Time
}

// NewNetwork prepares locator and solver for given graph. Defaults are linear scan and Dijkstra
func NewNetwork(graph *Graph, options ...func(*Network)) (*Network, error) {
	if graph == nil {
		return nil, fmt.Errorf("Graph is nil")
	}
	network := &Network{
		graph:       graph,
		locatorKind: LOCATOR_LINEAR,
		solverKind:  SOLVER_DIJKSTRA,
		loadedAt:    time.Now().UTC(),
	}
	for _, option := range options {
		option(network)
	}
	var err error
	network.locator, err = newLocator(network.locatorKind, graph)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare locator")
	}
	network.solver, err = newSolver(network.solverKind, graph)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare solver")
	}
	return network, nil
}

func WithLocator(kind LocatorKind) func(*Network) {
	return func(network *Network) {
		network.locatorKind = kind
	}
}

func WithSolver(kind SolverKind) func(*Network) {
	return func(network *Network) {
		network.solverKind = kind
	}
}

func WithSource(source string) func(*Network) {
	return func(network *Network) {
		network.source = source
	}
}

func (network *Network) Graph() *Graph            { return network.graph }
func (network *Network) Locator() Locator         { return network.locator }
func (network *Network) Solver() Solver           { return network.solver }
func (network *Network) LocatorKind() LocatorKind { return network.locatorKind }
func (network *Network) SolverKind() SolverKind   { return network.solverKind }
func (network *Network) Source() string           { return network.source }
func (network *Network) LoadedAt() time.Time      { return network.loadedAt }

// PlanRoute snaps both coordinates to the network and finds the shortest route between snapped nodes
func (network *Network) PlanRoute(from, to GeoPoint) (*Route, error) {
	return assembleRoute(network.graph, network.locator, network.solver, from, to)
}

// PlanRoute plans route over given graph with linear locator and Dijkstra solver
func PlanRoute(graph *Graph, from, to GeoPoint) (*Route, error) {
	return assembleRoute(graph, NewLinearLocator(graph), NewDijkstraSolver(graph), from, to)
}

// assembleRoute returns locator and solver errors as is
func assembleRoute(graph *Graph, locator Locator, solver Solver, from, to GeoPoint) (*Route, error) {
	start, err := locator.Locate(from)
	if err != nil {
		return nil, err
	}
	end, err := locator.Locate(to)
	if err != nil {
		return nil, err
	}
	route := &Route{
		Start:              start,
		End:                end,
		From:               from,
		To:                 to,
		SnapStartMeters:    GreatCircleDistance(from, start.GeoPoint()),
		SnapEndMeters:      GreatCircleDistance(to, end.GeoPoint()),
		StraightLineMeters: GreatCircleDistance(start.GeoPoint(), end.GeoPoint()),
	}
	if start.ID == end.ID {
		route.Nodes = []NetworkNode{start}
		return route, nil
	}
	path, err := solver.Solve(start.ID, end.ID)
	if err != nil {
		return nil, err
	}
	distance, err := PathDistance(graph, path)
	if err != nil {
		return nil, err
	}
	route.Nodes = path
	route.Distance = distance
	return route, nil
}

// PathDistance sums weights of edges between consecutive nodes of the path
func PathDistance(graph *Graph, path []NetworkNode) (float64, error) {
	total := 0.0
	for i := 1; i < len(path); i++ {
		weight, ok := graph.EdgeWeight(path[i-1].ID, path[i].ID)
		if !ok {
			return 0, fmt.Errorf("Nodes '%d' and '%d' are not adjacent", path[i-1].ID, path[i].ID)
		}
		total += weight
	}
	return total, nil
}
