package campusnav

import (
	"fmt"
	"strings"
)

// Locator snaps arbitrary coordinate to the closest network node
type Locator interface {
	Locate(pt GeoPoint) (NetworkNode, error)
}

// LocatorKind selects Locator implementation
type LocatorKind uint16

const (
	LOCATOR_LINEAR = LocatorKind(iota + 1)
	LOCATOR_QUADTREE
)

func (iotaIdx LocatorKind) String() string {
	if iotaIdx < LOCATOR_LINEAR || iotaIdx > LOCATOR_QUADTREE {
		return "undefined"
	}
	return [...]string{"linear", "quadtree"}[iotaIdx-1]
}

// ParseLocatorKind returns locator kind for given textual representation
func ParseLocatorKind(s string) (LocatorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "scan":
		return LOCATOR_LINEAR, nil
	case "quadtree", "index":
		return LOCATOR_QUADTREE, nil
	default:
		return 0, fmt.Errorf("Unknown locator kind '%s'", s)
	}
}

func newLocator(kind LocatorKind, graph *Graph) (Locator, error) {
	switch kind {
	case LOCATOR_LINEAR:
		return NewLinearLocator(graph), nil
	case LOCATOR_QUADTREE:
		return NewQuadtreeLocator(graph)
	default:
		return nil, fmt.Errorf("Locator kind %d is not supported", kind)
	}
}

// LinearLocator scans every node on each call.
//
// Note: O(n) per call. Fine for survey-scale networks (up to a few thousand nodes), use QuadtreeLocator beyond that
type LinearLocator struct {
	graph *Graph
}

// NewLinearLocator returns locator scanning all nodes of given graph
func NewLinearLocator(graph *Graph) *LinearLocator {
	return &LinearLocator{graph: graph}
}

// Locate implements Locator
func (locator *LinearLocator) Locate(pt GeoPoint) (NetworkNode, error) {
	return NearestNode(locator.graph, pt.Lat, pt.Lon)
}

// NearestNode returns node closest (great circle distance) to given coordinate.
// Nodes are scanned in ascending identifier order and only strictly closer node replaces current best,
// so the lowest identifier wins exact ties
func NearestNode(graph *Graph, lat, lon float64) (NetworkNode, error) {
	if graph == nil || len(graph.nodes) == 0 {
		return NetworkNode{}, ErrEmptyNetwork
	}
	target := GeoPoint{Lat: lat, Lon: lon}
	best := 0
	bestDistance := GreatCircleDistance(target, graph.nodes[0].GeoPoint())
	for i := 1; i < len(graph.nodes); i++ {
		d := GreatCircleDistance(target, graph.nodes[i].GeoPoint())
		if d < bestDistance {
			bestDistance = d
			best = i
		}
	}
	return graph.nodes[best], nil
}
