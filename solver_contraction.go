package campusnav

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// ContractionSolver answers queries over contraction hierarchies prepared once per graph.
// Returned path always has minimal total weight, but among several equal-cost paths it may pick
// a different one than DijkstraSolver does
type ContractionSolver struct {
	graph *Graph
	// queries are serialized: ch query state is not documented as concurrency-safe
	mu        sync.Mutex
	hierarchy *ch.Graph
}

// NewContractionSolver contracts given graph. Cost is paid once, at network load
func NewContractionSolver(graph *Graph) (*ContractionSolver, error) {
	hierarchy := &ch.Graph{}
	for _, node := range graph.nodes {
		err := hierarchy.CreateVertex(int64(node.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "Can't create vertex '%d'", node.ID)
		}
	}
	for _, edge := range graph.edges {
		if edge.Source == edge.Target {
			continue
		}
		err := hierarchy.AddEdge(int64(edge.Source), int64(edge.Target), edge.Weight)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't add edge '%d'->'%d'", edge.Source, edge.Target)
		}
		err = hierarchy.AddEdge(int64(edge.Target), int64(edge.Source), edge.Weight)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't add edge '%d'->'%d'", edge.Target, edge.Source)
		}
	}
	if len(graph.nodes) > 0 {
		hierarchy.PrepareContractionHierarchies()
	}
	return &ContractionSolver{graph: graph, hierarchy: hierarchy}, nil
}

// Solve implements Solver
func (solver *ContractionSolver) Solve(start, end NodeID) ([]NetworkNode, error) {
	startNode, ok := solver.graph.Node(start)
	if !ok {
		return nil, &UnknownNodeError{ID: start}
	}
	if _, ok := solver.graph.Node(end); !ok {
		return nil, &UnknownNodeError{ID: end}
	}
	if start == end {
		return []NetworkNode{startNode}, nil
	}

	solver.mu.Lock()
	cost, vertices := solver.hierarchy.ShortestPath(int64(start), int64(end))
	solver.mu.Unlock()

	if cost < 0 || len(vertices) == 0 {
		return nil, &NoPathError{Source: start, Target: end}
	}
	path := make([]NetworkNode, 0, len(vertices))
	for _, label := range vertices {
		node, ok := solver.graph.Node(NodeID(label))
		if !ok {
			return nil, &UnknownNodeError{ID: NodeID(label)}
		}
		path = append(path, node)
	}
	return path, nil
}

// ExportToCSV writes contracted hierarchy: '<name>_vertices.csv' (vertex_id;order_pos;importance;geom)
// and '<name>_shortcuts.csv' (from_vertex_id;to_vertex_id;weight;via_vertex_id)
func (solver *ContractionSolver) ExportToCSV(fname string, geomFormat GeomFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameVertices := fnameParts[0] + "_vertices.csv"
	fnameShortcuts := fnameParts[0] + "_shortcuts.csv"

	solver.mu.Lock()
	defer solver.mu.Unlock()

	file, err := os.Create(fnameVertices)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	writer.Comma = ';'

	err = writer.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i := range solver.hierarchy.Vertices {
		vertex := solver.hierarchy.Vertices[i]
		node, ok := solver.graph.Node(NodeID(vertex.Label))
		if !ok {
			return &UnknownNodeError{ID: NodeID(vertex.Label)}
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", vertex.Label),
			fmt.Sprintf("%d", vertex.OrderPos()),
			fmt.Sprintf("%d", vertex.Importance()),
			geomFormat.point(node.GeoPoint()),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write vertex")
		}
	}
	if err := closeCSV(file, writer); err != nil {
		return errors.Wrap(err, "Can't export vertices")
	}

	err = solver.hierarchy.ExportShortcutsToFile(fnameShortcuts)
	if err != nil {
		return errors.Wrap(err, "Can't export shortcuts")
	}
	return nil
}
