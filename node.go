package campusnav

// NodeID is stable identifier of surveyed point
type NodeID int64

// Category is visual tag of surveyed point. It is used for rendering only
type Category string

const (
	CATEGORY_NONE = Category("")
	CATEGORY_PINK = Category("pink")
	CATEGORY_BLUE = Category("blue")
)

// NetworkNode is surveyed point of road network
type NetworkNode struct {
	ID       NodeID   `json:"id"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Category Category `json:"category,omitempty"`
}

// GeoPoint returns location of node
func (node NetworkNode) GeoPoint() GeoPoint {
	return GeoPoint{Lat: node.Lat, Lon: node.Lon}
}

// SurveyPoint is raw surveyed point as it comes from loaders
type SurveyPoint struct {
	ID       NodeID
	Lat      float64
	Lon      float64
	Category Category
	// Next holds series linkage: identifiers of points which are physically adjacent to this one
	Next []NodeID
}
