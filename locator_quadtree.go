package campusnav

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

const (
	// searchSlackMeters widens refinement bound to absorb rounding of degree conversions
	searchSlackMeters = 0.01
)

// nodePointer is quadtree entry referencing node by its position in Graph.nodes
type nodePointer struct {
	idx int
	pt  orb.Point
}

func (np nodePointer) Point() orb.Point {
	return np.pt
}

// QuadtreeLocator finds the closest node via spatial index.
// Results are identical to NearestNode: planar lookup gives candidate only, final answer is evaluated
// with great circle distance over every node that could possibly be closer
type QuadtreeLocator struct {
	graph *Graph
	tree  *quadtree.Quadtree
}

// NewQuadtreeLocator builds spatial index for nodes of given graph
func NewQuadtreeLocator(graph *Graph) (*QuadtreeLocator, error) {
	locator := &QuadtreeLocator{graph: graph}
	if graph == nil || len(graph.nodes) == 0 {
		return locator, nil
	}
	locator.tree = quadtree.New(graph.bound.Pad(1e-6))
	for i, node := range graph.nodes {
		err := locator.tree.Add(nodePointer{idx: i, pt: node.GeoPoint().Point()})
		if err != nil {
			return nil, errors.Wrapf(err, "Can't index node '%d'", node.ID)
		}
	}
	return locator, nil
}

// Locate implements Locator
func (locator *QuadtreeLocator) Locate(pt GeoPoint) (NetworkNode, error) {
	if locator.graph == nil || len(locator.graph.nodes) == 0 || locator.tree == nil {
		return NetworkNode{}, ErrEmptyNetwork
	}
	found := locator.tree.Find(pt.Point())
	if found == nil {
		return NearestNode(locator.graph, pt.Lat, pt.Lon)
	}
	candidate := found.(nodePointer)
	radius := GreatCircleDistance(pt, locator.graph.nodes[candidate.idx].GeoPoint()) + searchSlackMeters

	dLat := metersToDegreesLat(radius)
	dLon, ok := metersToDegreesLon(radius, pt.Lat)
	if !ok || pt.Lat-dLat < -90 || pt.Lat+dLat > 90 || pt.Lon-dLon < -180 || pt.Lon+dLon > 180 {
		// Search circle wraps antimeridian or covers a pole
		return NearestNode(locator.graph, pt.Lat, pt.Lon)
	}
	searchBound := orb.Bound{
		Min: orb.Point{pt.Lon - dLon, pt.Lat - dLat},
		Max: orb.Point{pt.Lon + dLon, pt.Lat + dLat},
	}

	best := candidate.idx
	bestDistance := GreatCircleDistance(pt, locator.graph.nodes[best].GeoPoint())
	for _, pointer := range locator.tree.InBound(nil, searchBound) {
		idx := pointer.(nodePointer).idx
		d := GreatCircleDistance(pt, locator.graph.nodes[idx].GeoPoint())
		if d < bestDistance || (d == bestDistance && idx < best) {
			bestDistance = d
			best = idx
		}
	}
	return locator.graph.nodes[best], nil
}
