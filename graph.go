package campusnav

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
)

// Graph is immutable road network: surveyed nodes plus undirected weighted edges.
// It is safe for concurrent reads
type Graph struct {
	nodes       []NetworkNode
	index       map[NodeID]int
	edges       []NetworkEdge
	adjacency   map[NodeID][]Adjacent
	policy      ConnectivityPolicy
	center      GeoPoint
	bound       orb.Bound
	fingerprint uint64
}

// NewGraph builds network from survey data using given connectivity policy.
// Construction is all-or-nothing: any malformed record gives ConstructionError and no graph
func NewGraph(data SurveyData, policy ConnectivityPolicy) (*Graph, error) {
	graph := &Graph{
		nodes:     make([]NetworkNode, 0, len(data.Points)),
		index:     make(map[NodeID]int, len(data.Points)),
		adjacency: make(map[NodeID][]Adjacent, len(data.Points)),
		policy:    policy,
	}
	for _, point := range data.Points {
		if _, ok := graph.index[point.ID]; ok {
			return nil, &ConstructionError{
				Reason:  REASON_DUPLICATE_NODE,
				NodeID:  point.ID,
				Message: fmt.Sprintf("node '%d' is defined more than once", point.ID),
			}
		}
		gp := GeoPoint{Lat: point.Lat, Lon: point.Lon}
		if !gp.isValid() {
			return nil, &ConstructionError{
				Reason:  REASON_INVALID_COORDINATE,
				NodeID:  point.ID,
				Message: fmt.Sprintf("node '%d' has invalid coordinates (%s)", point.ID, gp),
			}
		}
		graph.index[point.ID] = -1
		graph.nodes = append(graph.nodes, NetworkNode{
			ID:       point.ID,
			Lat:      point.Lat,
			Lon:      point.Lon,
			Category: point.Category,
		})
	}
	// Stable iteration order for locators and exports
	sort.Slice(graph.nodes, func(i, j int) bool {
		return graph.nodes[i].ID < graph.nodes[j].ID
	})
	for i := range graph.nodes {
		graph.index[graph.nodes[i].ID] = i
	}

	records, err := policy.deriveEdges(data)
	if err != nil {
		return nil, err
	}
	graph.edges = make([]NetworkEdge, 0, len(records))
	for _, record := range records {
		edge, err := graph.prepareEdge(record)
		if err != nil {
			return nil, err
		}
		graph.edges = append(graph.edges, edge)
		if edge.Source == edge.Target {
			continue
		}
		graph.adjacency[edge.Source] = append(graph.adjacency[edge.Source], Adjacent{ID: edge.Target, Weight: edge.Weight})
		graph.adjacency[edge.Target] = append(graph.adjacency[edge.Target], Adjacent{ID: edge.Source, Weight: edge.Weight})
	}
	for id := range graph.adjacency {
		neighbors := graph.adjacency[id]
		sort.SliceStable(neighbors, func(i, j int) bool {
			if neighbors[i].ID != neighbors[j].ID {
				return neighbors[i].ID < neighbors[j].ID
			}
			return neighbors[i].Weight < neighbors[j].Weight
		})
	}

	graph.prepareGeometry()
	graph.fingerprint = graph.evalFingerprint()
	return graph, nil
}

func (graph *Graph) prepareEdge(record EdgeRecord) (NetworkEdge, error) {
	sourceIdx, ok := graph.index[record.Source]
	if !ok {
		return NetworkEdge{}, &ConstructionError{
			Reason:  REASON_UNKNOWN_NODE,
			NodeID:  record.Source,
			Other:   record.Target,
			Message: fmt.Sprintf("edge '%d'-'%d' references unknown node '%d'", record.Source, record.Target, record.Source),
		}
	}
	targetIdx, ok := graph.index[record.Target]
	if !ok {
		return NetworkEdge{}, &ConstructionError{
			Reason:  REASON_UNKNOWN_NODE,
			NodeID:  record.Target,
			Other:   record.Source,
			Message: fmt.Sprintf("edge '%d'-'%d' references unknown node '%d'", record.Source, record.Target, record.Target),
		}
	}
	weight := record.Weight
	if record.HasWeight {
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return NetworkEdge{}, &ConstructionError{
				Reason:  REASON_INVALID_WEIGHT,
				NodeID:  record.Source,
				Other:   record.Target,
				Weight:  weight,
				Message: fmt.Sprintf("edge '%d'-'%d' has non-finite weight", record.Source, record.Target),
			}
		}
		if weight < 0 {
			return NetworkEdge{}, &ConstructionError{
				Reason:  REASON_NEGATIVE_WEIGHT,
				NodeID:  record.Source,
				Other:   record.Target,
				Weight:  weight,
				Message: fmt.Sprintf("edge '%d'-'%d' has negative weight %f", record.Source, record.Target, weight),
			}
		}
	} else {
		weight = GreatCircleDistance(graph.nodes[sourceIdx].GeoPoint(), graph.nodes[targetIdx].GeoPoint())
	}
	return NetworkEdge{Source: record.Source, Target: record.Target, Weight: weight}, nil
}

func (graph *Graph) prepareGeometry() {
	if len(graph.nodes) == 0 {
		return
	}
	pts := make([]GeoPoint, len(graph.nodes))
	bound := orb.Bound{Min: graph.nodes[0].GeoPoint().Point(), Max: graph.nodes[0].GeoPoint().Point()}
	for i, node := range graph.nodes {
		pts[i] = node.GeoPoint()
		bound = bound.Extend(pts[i].Point())
	}
	graph.center = findCentroid(pts)
	graph.bound = bound
}

// evalFingerprint hashes canonical content of the network. Edge order is part of the content since it drives tie-breaks
func (graph *Graph) evalFingerprint() uint64 {
	digest := xxhash.New()
	buf := make([]byte, 8)
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf, v)
		digest.Write(buf)
	}
	writeUint(uint64(graph.policy))
	writeUint(uint64(len(graph.nodes)))
	for _, node := range graph.nodes {
		writeUint(uint64(node.ID))
		writeUint(math.Float64bits(node.Lat))
		writeUint(math.Float64bits(node.Lon))
		digest.WriteString(string(node.Category))
		digest.Write([]byte{0})
	}
	writeUint(uint64(len(graph.edges)))
	for _, edge := range graph.edges {
		writeUint(uint64(edge.Source))
		writeUint(uint64(edge.Target))
		writeUint(math.Float64bits(edge.Weight))
	}
	return digest.Sum64()
}

// Len returns number of nodes
func (graph *Graph) Len() int {
	return len(graph.nodes)
}

// EdgesCount returns number of edges
func (graph *Graph) EdgesCount() int {
	return len(graph.edges)
}

// Node returns node by its identifier
func (graph *Graph) Node(id NodeID) (NetworkNode, bool) {
	idx, ok := graph.index[id]
	if !ok {
		return NetworkNode{}, false
	}
	return graph.nodes[idx], true
}

// Nodes returns copy of all nodes sorted by identifier (ascending)
func (graph *Graph) Nodes() []NetworkNode {
	nodes := make([]NetworkNode, len(graph.nodes))
	copy(nodes, graph.nodes)
	return nodes
}

// Edges returns copy of all edges in construction order
func (graph *Graph) Edges() []NetworkEdge {
	edges := make([]NetworkEdge, len(graph.edges))
	copy(edges, graph.edges)
	return edges
}

// Neighbors returns adjacency list of given node. Returned slice must not be modified
func (graph *Graph) Neighbors(id NodeID) []Adjacent {
	return graph.adjacency[id]
}

// EdgeWeight returns the cheapest weight among edges connecting a and b
func (graph *Graph) EdgeWeight(a, b NodeID) (float64, bool) {
	found := false
	best := math.Inf(1)
	for _, adj := range graph.adjacency[a] {
		if adj.ID == b && adj.Weight < best {
			best = adj.Weight
			found = true
		}
	}
	return best, found
}

// Policy returns connectivity policy graph has been built with
func (graph *Graph) Policy() ConnectivityPolicy {
	return graph.policy
}

// Center returns spherical centroid of all nodes
func (graph *Graph) Center() GeoPoint {
	return graph.center
}

// Bound returns bounding box of all nodes
func (graph *Graph) Bound() orb.Bound {
	return graph.bound
}

// Fingerprint returns hash of network content. Identical data gives identical fingerprint
func (graph *Graph) Fingerprint() uint64 {
	return graph.fingerprint
}
