package campusnav

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// earthRadius is mean Earth radius (meters)
	earthRadius = 6371000.0
	pi180       = math.Pi / 180.0
	pi180Rev    = 180.0 / math.Pi
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String returns pretty printed value for for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// Point returns orb representation of GeoPoint (X == Lon, Y == Lat)
func (gp GeoPoint) Point() orb.Point {
	return orb.Point{gp.Lon, gp.Lat}
}

// isValid checks that coordinates are finite and lie in WGS84 range
func (gp GeoPoint) isValid() bool {
	if math.IsNaN(gp.Lat) || math.IsNaN(gp.Lon) || math.IsInf(gp.Lat, 0) || math.IsInf(gp.Lon, 0) {
		return false
	}
	return gp.Lat >= -90 && gp.Lat <= 90 && gp.Lon >= -180 && gp.Lon <= 180
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansTodegrees r = deg  * 180 / pi
func radiansTodegrees(d float64) float64 {
	return d * pi180Rev
}

// Distance returns haversine distance between two coordinates (meters)
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	return GreatCircleDistance(GeoPoint{Lat: lat1, Lon: lon1}, GeoPoint{Lat: lat2, Lon: lon2})
}

// GreatCircleDistance returns distance between two geo-points (meters)
func GreatCircleDistance(p, q GeoPoint) float64 {
	if p == q {
		return 0
	}
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	// Rounding may push a slightly above 1 for antipodal points
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadius
}

// SphericalLength returns length for given line (meters)
func SphericalLength(line []GeoPoint) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += GreatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// findCentroid returns center point for given set of points (not middle point)
func findCentroid(line []GeoPoint) GeoPoint {
	totalPoints := len(line)
	if totalPoints == 0 {
		return GeoPoint{}
	}
	if totalPoints == 1 {
		return line[0]
	}
	x, y, z := 0.0, 0.0, 0.0
	for i := 0; i < totalPoints; i++ {
		longitude := degreesToRadians(line[i].Lon)
		latitude := degreesToRadians(line[i].Lat)
		c1 := math.Cos(latitude)
		x += c1 * math.Cos(longitude)
		y += c1 * math.Sin(longitude)
		z += math.Sin(latitude)
	}

	x /= float64(totalPoints)
	y /= float64(totalPoints)
	z /= float64(totalPoints)

	centralLongitude := math.Atan2(y, x)
	centralSquareRoot := math.Sqrt(x*x + y*y)
	centralLatitude := math.Atan2(z, centralSquareRoot)

	return GeoPoint{
		Lon: radiansTodegrees(centralLongitude),
		Lat: radiansTodegrees(centralLatitude),
	}
}

// metersToDegreesLat returns latitude span (degrees) covered by given distance
func metersToDegreesLat(meters float64) float64 {
	return radiansTodegrees(meters / earthRadius)
}

// metersToDegreesLon returns the widest longitude offset (degrees) reachable from given latitude
// within given distance. Second value is false when the circle contains a pole
func metersToDegreesLon(meters, lat float64) (float64, bool) {
	c := math.Cos(degreesToRadians(lat))
	if c < 1e-9 {
		return 0, false
	}
	angular := meters / earthRadius
	if angular >= math.Pi/2 {
		return 0, false
	}
	s := math.Sin(angular) / c
	if s >= 1 {
		return 0, false
	}
	return radiansTodegrees(math.Asin(s)), true
}
