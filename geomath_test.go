package campusnav

import (
	"math"
	"testing"
)

func TestGreatCircleDistance(t *testing.T) {
	p1 := GeoPoint{
		Lon: 37.6417350769043,
		Lat: 55.751849391735284,
	}
	p2 := GeoPoint{
		Lon: 37.668514251708984,
		Lat: 55.73261980350401,
	}
	res := 2716.94 // meters
	gcd := GreatCircleDistance(p1, p2)
	if math.Abs(gcd-res) > 0.5 {
		t.Errorf("Great circle dist must be %f, but got %f", res, gcd)
	}
}

func TestDistanceProperties(t *testing.T) {
	cases := []struct {
		name string
		p    GeoPoint
		q    GeoPoint
		want float64
		eps  float64
	}{
		{name: "identity", p: GeoPoint{Lat: 12.193116, Lon: 79.084481}, q: GeoPoint{Lat: 12.193116, Lon: 79.084481}, want: 0, eps: 0},
		{name: "one degree of meridian", p: GeoPoint{Lat: 0, Lon: 0}, q: GeoPoint{Lat: 1, Lon: 0}, want: 111194.93, eps: 0.01},
		{name: "one degree of equator", p: GeoPoint{Lat: 0, Lon: 0}, q: GeoPoint{Lat: 0, Lon: 1}, want: 111194.93, eps: 0.01},
		{name: "antipodal", p: GeoPoint{Lat: 0, Lon: 0}, q: GeoPoint{Lat: 0, Lon: 180}, want: math.Pi * earthRadius, eps: 1e-6},
	}
	for _, tc := range cases {
		d := GreatCircleDistance(tc.p, tc.q)
		if math.Abs(d-tc.want) > tc.eps {
			t.Errorf("[%s] Distance must be %f, but got %f", tc.name, tc.want, d)
		}
		back := GreatCircleDistance(tc.q, tc.p)
		if d != back {
			t.Errorf("[%s] Distance must be symmetric: %f != %f", tc.name, d, back)
		}
		if d < 0 {
			t.Errorf("[%s] Distance must be non-negative, but got %f", tc.name, d)
		}
	}
	if Distance(0, 0, 1, 0) != GreatCircleDistance(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 1, Lon: 0}) {
		t.Errorf("Distance and GreatCircleDistance must agree")
	}
}

func TestSphericalLength(t *testing.T) {
	line := []GeoPoint{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	want := GreatCircleDistance(line[0], line[1]) + GreatCircleDistance(line[1], line[2])
	if got := SphericalLength(line); got != want {
		t.Errorf("Length must be %f, but got %f", want, got)
	}
	if got := SphericalLength(line[:1]); got != 0 {
		t.Errorf("Length of single point must be 0, but got %f", got)
	}
}

func TestFindCentroid(t *testing.T) {
	line := []GeoPoint{
		GeoPoint{Lon: 37.396747, Lat: 55.8321},
		GeoPoint{Lon: 37.397111, Lat: 55.831987},
		GeoPoint{Lon: 37.397222, Lat: 55.831927},
		GeoPoint{Lon: 37.397322, Lat: 55.831851},
		GeoPoint{Lon: 37.397384, Lat: 55.83177},
		GeoPoint{Lon: 37.397415, Lat: 55.831684},
		GeoPoint{Lon: 37.397407, Lat: 55.831605},
		GeoPoint{Lon: 37.397363, Lat: 55.831525},
		GeoPoint{Lon: 37.397283, Lat: 55.83144},
		GeoPoint{Lon: 37.39717, Lat: 55.831367},
		GeoPoint{Lon: 37.397001, Lat: 55.831313},
		GeoPoint{Lon: 37.39682, Lat: 55.831286},
		GeoPoint{Lon: 37.39662, Lat: 55.83129},
		GeoPoint{Lon: 37.396464, Lat: 55.831311},
		GeoPoint{Lon: 37.396345, Lat: 55.831346},
		GeoPoint{Lon: 37.396202, Lat: 55.83141},
		GeoPoint{Lon: 37.396123, Lat: 55.831459},
		GeoPoint{Lon: 37.396059, Lat: 55.831517},
		GeoPoint{Lon: 37.396013, Lat: 55.831591},
		GeoPoint{Lon: 37.395989, Lat: 55.831674},
	}
	centroid := findCentroid(line)
	correctCentroid := GeoPoint{Lon: 37.39680299905517, Lat: 55.83157265108678}
	if math.Abs(correctCentroid.Lon-centroid.Lon) > 1e-9 {
		t.Errorf("Correct centroid longitude should be %f, but got %f", correctCentroid.Lon, centroid.Lon)
	}
	if math.Abs(correctCentroid.Lat-centroid.Lat) > 1e-9 {
		t.Errorf("Correct centroid latitude should be %f, but got %f", correctCentroid.Lat, centroid.Lat)
	}
	if empty := findCentroid(nil); empty != (GeoPoint{}) {
		t.Errorf("Centroid of nothing should be zero point, but got %v", empty)
	}
}

func TestMetersToDegrees(t *testing.T) {
	dLat := metersToDegreesLat(111194.93)
	if math.Abs(dLat-1) > 1e-6 {
		t.Errorf("Degrees of latitude should be 1, but got %f", dLat)
	}
	dLon, ok := metersToDegreesLon(111194.93, 0)
	if !ok || math.Abs(dLon-1) > 1e-3 {
		t.Errorf("Degrees of longitude on equator should be ~1, but got %f (%t)", dLon, ok)
	}
	wider, ok := metersToDegreesLon(1000, 60)
	narrow, _ := metersToDegreesLon(1000, 0)
	if !ok || wider <= narrow {
		t.Errorf("Longitude span must grow towards poles: %f vs %f", wider, narrow)
	}
	if _, ok := metersToDegreesLon(1000, 90); ok {
		t.Errorf("Circle around pole must not be convertible")
	}
}
