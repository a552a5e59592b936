package campusnav

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const surveyCSV = "\ufeffS.No,Latitudinal,Longitudinal,Colour\n" +
	"1,12.193116,79.084481,Pink\n" +
	"2,12.193500,79.085000,blue\n" +
	",,,\n" +
	"3,12.194000,79.085500,\n"

func TestReadSurveyCSV(t *testing.T) {
	points, err := ReadSurveyCSV(strings.NewReader(surveyCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 3 {
		t.Fatalf("Should be 3 points, but got %d", len(points))
	}
	if points[0].ID != 1 || points[0].Lat != 12.193116 || points[0].Lon != 79.084481 {
		t.Errorf("Unexpected first point: %+v", points[0])
	}
	if points[0].Category != CATEGORY_PINK || points[1].Category != CATEGORY_BLUE || points[2].Category != CATEGORY_NONE {
		t.Errorf("Unexpected categories: %s, %s, %s", points[0].Category, points[1].Category, points[2].Category)
	}
}

func TestReadSurveyCSVInvalidRows(t *testing.T) {
	raw := "id;lat;lon;next\n1;12.19;79.08;2|3\n2;oops;79.09;\n3;12.20;79.10;1\n"
	if _, err := ReadSurveyCSV(strings.NewReader(raw), WithComma(';')); err == nil {
		t.Errorf("Row with bad coordinates must fail by default")
	}
	points, err := ReadSurveyCSV(strings.NewReader(raw), WithComma(';'), WithSkipInvalid(true))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("Bad row should be skipped: expected 2 points, got %d", len(points))
	}
	if len(points[0].Next) != 2 || points[0].Next[0] != 2 || points[0].Next[1] != 3 {
		t.Errorf("Linkage should be [2 3], but got %v", points[0].Next)
	}
}

func TestReadSurveyCSVHeader(t *testing.T) {
	if _, err := ReadSurveyCSV(strings.NewReader("")); err == nil {
		t.Errorf("Empty input must fail")
	}
	if _, err := ReadSurveyCSV(strings.NewReader("name,colour\na,pink\n")); err == nil {
		t.Errorf("Input without coordinate columns must fail")
	}
}

func TestReadEdgesCSV(t *testing.T) {
	raw := "from,to,distance\n1,2,55.5\n2,3,\n"
	edges, err := ReadEdgesCSV(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 2 {
		t.Fatalf("Should be 2 edges, but got %d", len(edges))
	}
	if !edges[0].HasWeight || edges[0].Weight != 55.5 {
		t.Errorf("First edge should have weight 55.5, but got %+v", edges[0])
	}
	if edges[1].HasWeight {
		t.Errorf("Second edge should have no weight, but got %+v", edges[1])
	}
	if _, err := ReadEdgesCSV(strings.NewReader("from,to\n1,x\n")); err == nil {
		t.Errorf("Non-numeric target must fail")
	}
}

const networkJSON = `{
	"nodes": [
		{"id": 1, "lat": 12.193116, "lon": 79.084481, "category": "pink", "next": [2]},
		{"id": 2, "lat": 12.1935, "lon": 79.085},
		{"id": 3, "lat": 12.194, "lon": 79.0855}
	],
	"edges": [
		{"from": 1, "to": 2, "distance": 70},
		{"from": 2, "to": 3}
	]
}`

func TestReadNetworkJSON(t *testing.T) {
	data, err := ReadNetworkJSON(strings.NewReader(networkJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Points) != 3 || len(data.Edges) != 2 {
		t.Fatalf("Should be 3 points and 2 edges, but got %d and %d", len(data.Points), len(data.Edges))
	}
	if data.Points[0].Category != CATEGORY_PINK || len(data.Points[0].Next) != 1 {
		t.Errorf("Unexpected first point: %+v", data.Points[0])
	}
	if !data.Edges[0].HasWeight || data.Edges[0].Weight != 70 || data.Edges[1].HasWeight {
		t.Errorf("Unexpected edges: %+v", data.Edges)
	}
	if _, err := ReadNetworkJSON(strings.NewReader("{")); err == nil {
		t.Errorf("Broken JSON must fail")
	}
}

const osmXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
	<node id="101" lat="12.1931" lon="79.0844" version="1"/>
	<node id="102" lat="12.1935" lon="79.0850" version="1"/>
	<node id="103" lat="12.1940" lon="79.0855" version="1"/>
	<node id="104" lat="12.1950" lon="79.0860" version="1"/>
	<way id="201" version="1">
		<nd ref="101"/>
		<nd ref="102"/>
		<nd ref="103"/>
		<tag k="highway" v="footway"/>
	</way>
	<way id="202" version="1">
		<nd ref="103"/>
		<nd ref="104"/>
		<tag k="highway" v="motorway"/>
	</way>
	<way id="203" version="1">
		<nd ref="103"/>
		<nd ref="999"/>
		<tag k="highway" v="path"/>
	</way>
</osm>`

func TestReadOSM(t *testing.T) {
	data, err := ReadOSM(context.Background(), bytes.NewReader([]byte(osmXML)), OSM_XML, DefaultOSMConfiguration())
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Points) != 3 {
		t.Errorf("Motorway-only node must be skipped: expected 3 points, got %d", len(data.Points))
	}
	if len(data.Edges) != 2 {
		t.Errorf("Edge to missing node must be dropped: expected 2 edges, got %d", len(data.Edges))
	}
	for _, point := range data.Points {
		if point.Category != Category("footway") {
			t.Errorf("Point %d should be categorized by first way, but got '%s'", point.ID, point.Category)
		}
	}
	graph, err := NewGraph(data, POLICY_EXPLICIT_EDGES)
	if err != nil {
		t.Fatal(err)
	}
	w, ok := graph.EdgeWeight(101, 102)
	if !ok || w <= 0 {
		t.Errorf("Edge 101-102 should have positive evaluated weight, but got %f (%t)", w, ok)
	}
}

func TestGuessOSMFormat(t *testing.T) {
	cases := []struct {
		fname   string
		correct OSMFormat
	}{
		{"campus.osm", OSM_XML},
		{"campus.xml", OSM_XML},
		{"campus.osm.pbf", OSM_PBF},
		{"CAMPUS.PBF", OSM_PBF},
	}
	for _, tc := range cases {
		format, err := GuessOSMFormat(tc.fname)
		if err != nil {
			t.Errorf("Can't guess format of '%s': %s", tc.fname, err.Error())
			continue
		}
		if format != tc.correct {
			t.Errorf("Format of '%s' should be %s, but got %s", tc.fname, tc.correct, format)
		}
	}
	if _, err := GuessOSMFormat("campus.shp"); err == nil {
		t.Errorf("Unknown extension must fail")
	}
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestBuildNetwork(t *testing.T) {
	dir := t.TempDir()
	nodes := writeTempFile(t, dir, "points.csv", surveyCSV)
	edges := writeTempFile(t, dir, "edges.csv", "from,to,distance\n1,2,60\n2,3,70\n")
	jsonFile := writeTempFile(t, dir, "network.json", networkJSON)
	linkageFile := writeTempFile(t, dir, "linkage.json", `{"nodes": [
		{"id": 1, "lat": 12.193116, "lon": 79.084481, "next": [2]},
		{"id": 2, "lat": 12.1935, "lon": 79.085},
		{"id": 3, "lat": 12.194, "lon": 79.0855}
	]}`)

	cases := []struct {
		name   string
		source NetworkSource
		policy ConnectivityPolicy
		edges  int
	}{
		{name: "csv explicit", source: NetworkSource{Format: "csv", NodesFile: nodes, EdgesFile: edges}, policy: POLICY_EXPLICIT_EDGES, edges: 2},
		{name: "csv survey order", source: NetworkSource{Format: "csv", NodesFile: nodes}, policy: POLICY_SURVEY_ORDER, edges: 2},
		{name: "json explicit", source: NetworkSource{Format: "json", NodesFile: jsonFile}, policy: POLICY_EXPLICIT_EDGES, edges: 2},
		{name: "json linkage", source: NetworkSource{Format: "json", NodesFile: linkageFile}, policy: POLICY_LINKAGE, edges: 1},
	}
	for _, tc := range cases {
		network, err := BuildNetwork(context.Background(), tc.source, tc.policy)
		if err != nil {
			t.Errorf("[%s] Can't build network: %s", tc.name, err.Error())
			continue
		}
		if network.Graph().EdgesCount() != tc.edges {
			t.Errorf("[%s] Should be %d edges, but got %d", tc.name, tc.edges, network.Graph().EdgesCount())
		}
		if network.Source() != tc.source.String() {
			t.Errorf("[%s] Source should be '%s', but got '%s'", tc.name, tc.source.String(), network.Source())
		}
	}

	_, err := BuildNetwork(context.Background(), NetworkSource{Format: "shp", NodesFile: nodes}, POLICY_SURVEY_ORDER)
	if err == nil {
		t.Errorf("Unknown format must fail")
	}
	_, err = BuildNetwork(context.Background(), NetworkSource{Format: "csv", NodesFile: filepath.Join(dir, "missing.csv")}, POLICY_SURVEY_ORDER)
	if err == nil {
		t.Errorf("Missing file must fail")
	}
	badEdges := writeTempFile(t, dir, "bad_edges.csv", "from,to\n1,42\n")
	_, err = BuildNetwork(context.Background(), NetworkSource{Format: "csv", NodesFile: nodes, EdgesFile: badEdges}, POLICY_EXPLICIT_EDGES)
	if !IsConstructionError(err) {
		t.Errorf("ConstructionError expected, but got %v", err)
	}
}

func TestBuildNetworkRejectsDroppedEdges(t *testing.T) {
	dir := t.TempDir()
	nodes := writeTempFile(t, dir, "points.csv", surveyCSV)
	// 1-3 is a real road, 2-3 is not
	edges := writeTempFile(t, dir, "edges.csv", "from,to\n1,2\n1,3\n")
	jsonFile := writeTempFile(t, dir, "network.json", networkJSON)
	osmFile := writeTempFile(t, dir, "campus.osm", osmXML)

	cases := []struct {
		name   string
		source NetworkSource
	}{
		{name: "csv with edges", source: NetworkSource{Format: "csv", NodesFile: nodes, EdgesFile: edges}},
		{name: "json with edges", source: NetworkSource{Format: "json", NodesFile: jsonFile}},
		{name: "osm ways", source: NetworkSource{Format: "osm", NodesFile: osmFile, OSM: DefaultOSMConfiguration()}},
	}
	for _, tc := range cases {
		for _, policy := range []ConnectivityPolicy{POLICY_SURVEY_ORDER, POLICY_LINKAGE} {
			network, err := BuildNetwork(context.Background(), tc.source, policy)
			if network != nil {
				t.Errorf("[%s, %s] Network must not be built", tc.name, policy)
			}
			var constructionErr *ConstructionError
			if !errors.As(err, &constructionErr) {
				t.Errorf("[%s, %s] ConstructionError expected, but got %v", tc.name, policy, err)
				continue
			}
			if constructionErr.Reason != REASON_POLICY_MISMATCH {
				t.Errorf("[%s, %s] Reason should be %s, but got %s", tc.name, policy, REASON_POLICY_MISMATCH, constructionErr.Reason)
			}
		}
		network, err := BuildNetwork(context.Background(), tc.source, POLICY_EXPLICIT_EDGES)
		if err != nil {
			t.Errorf("[%s] Explicit policy must accept supplied edges: %s", tc.name, err.Error())
			continue
		}
		if network.Graph().EdgesCount() != 2 {
			t.Errorf("[%s] Should be 2 supplied edges, but got %d", tc.name, network.Graph().EdgesCount())
		}
	}

	network, err := BuildNetwork(context.Background(), NetworkSource{Format: "csv", NodesFile: nodes, EdgesFile: edges}, POLICY_EXPLICIT_EDGES)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := network.Graph().EdgeWeight(1, 3); !ok {
		t.Errorf("Supplied edge 1-3 must be present")
	}
	if _, ok := network.Graph().EdgeWeight(2, 3); ok {
		t.Errorf("Edge 2-3 was never supplied")
	}
}
