package campusnav

// NetworkEdge is undirected connection between two nodes. Weight is traversal distance
type NetworkEdge struct {
	Source NodeID  `json:"from"`
	Target NodeID  `json:"to"`
	Weight float64 `json:"distance"`
}

// EdgeRecord is raw connectivity record as it comes from loaders.
// If HasWeight is false then weight is evaluated as great circle distance between endpoints
type EdgeRecord struct {
	Source    NodeID
	Target    NodeID
	Weight    float64
	HasWeight bool
}

// SurveyData groups everything needed to construct Graph
type SurveyData struct {
	Points []SurveyPoint
	Edges  []EdgeRecord
}

// Adjacent is neighbor of some node in adjacency list
type Adjacent struct {
	ID     NodeID
	Weight float64
}
