package campusnav

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

func lineCoordinates(pts []GeoPoint) [][]float64 {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	return pts2d
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	b, err := geojson.NewLineStringGeometry(lineCoordinates(pts)).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// RouteFeatureCollection returns route as collection of path LineString plus start and end markers.
// Single-node route has no LineString feature
func RouteFeatureCollection(route *Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(route.Nodes) >= 2 {
		path := geojson.NewLineStringFeature(lineCoordinates(route.Polyline()))
		path.SetProperty("kind", "path")
		path.SetProperty("distance", route.Distance)
		path.SetProperty("node_count", route.NodeCount())
		path.SetProperty("length_meters", SphericalLength(route.Polyline()))
		ids := make([]int64, len(route.Nodes))
		for i, node := range route.Nodes {
			ids[i] = int64(node.ID)
		}
		path.SetProperty("node_ids", ids)
		fc.AddFeature(path)
	}
	start := geojson.NewPointFeature([]float64{route.Start.Lon, route.Start.Lat})
	start.SetProperty("kind", "start")
	start.SetProperty("id", int64(route.Start.ID))
	start.SetProperty("snap_meters", route.SnapStartMeters)
	fc.AddFeature(start)

	end := geojson.NewPointFeature([]float64{route.End.Lon, route.End.Lat})
	end.SetProperty("kind", "end")
	end.SetProperty("id", int64(route.End.ID))
	end.SetProperty("snap_meters", route.SnapEndMeters)
	fc.AddFeature(end)
	return fc
}

// NetworkFeatureCollection returns every node as Point (with category) and every edge as LineString (with weight)
func NetworkFeatureCollection(graph *Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, node := range graph.nodes {
		f := geojson.NewPointFeature([]float64{node.Lon, node.Lat})
		f.SetProperty("kind", "node")
		f.SetProperty("id", int64(node.ID))
		f.SetProperty("category", string(node.Category))
		fc.AddFeature(f)
	}
	for _, edge := range graph.edges {
		source, _ := graph.Node(edge.Source)
		target, _ := graph.Node(edge.Target)
		f := geojson.NewLineStringFeature(lineCoordinates([]GeoPoint{source.GeoPoint(), target.GeoPoint()}))
		f.SetProperty("kind", "edge")
		f.SetProperty("from", int64(edge.Source))
		f.SetProperty("to", int64(edge.Target))
		f.SetProperty("weight", edge.Weight)
		fc.AddFeature(f)
	}
	return fc
}
