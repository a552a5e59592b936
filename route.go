package campusnav

// Route is result of path planning request
type Route struct {
	// Nodes from start to end inclusive
	Nodes []NetworkNode `json:"path"`
	// Distance is sum of edge weights along Nodes
	Distance float64     `json:"distance"`
	Start    NetworkNode `json:"start_point"`
	End      NetworkNode `json:"end_point"`
	// From and To are requested (not snapped) coordinates
	From GeoPoint `json:"from"`
	To   GeoPoint `json:"to"`
	// SnapStartMeters and SnapEndMeters are great circle distances between requested coordinates and snapped nodes
	SnapStartMeters float64 `json:"snap_start_meters"`
	SnapEndMeters   float64 `json:"snap_end_meters"`
	// StraightLineMeters is great circle distance between snapped nodes. Informational only
	StraightLineMeters float64 `json:"straight_line_meters"`
}

// NodeCount returns number of nodes in the path
func (route *Route) NodeCount() int {
	return len(route.Nodes)
}

// DistanceKm returns route distance in kilometers (assuming weights are meters)
func (route *Route) DistanceKm() float64 {
	return route.Distance / 1000.0
}

// Polyline returns path geometry
func (route *Route) Polyline() []GeoPoint {
	line := make([]GeoPoint, len(route.Nodes))
	for i, node := range route.Nodes {
		line[i] = node.GeoPoint()
	}
	return line
}
