package campusnav

import (
	"math"
	"math/rand"
	"testing"
)

func pathIDs(path []NetworkNode) []NodeID {
	ids := make([]NodeID, len(path))
	for i := range path {
		ids[i] = path[i].ID
	}
	return ids
}

func sameIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDijkstraSolve(t *testing.T) {
	graph := mustGraph(t, diamondData(), POLICY_EXPLICIT_EDGES)
	solver := NewDijkstraSolver(graph)
	cases := []struct {
		start   NodeID
		end     NodeID
		correct []NodeID
	}{
		{start: 1, end: 3, correct: []NodeID{1, 2, 3}},
		{start: 3, end: 1, correct: []NodeID{3, 2, 1}},
		{start: 1, end: 4, correct: []NodeID{1, 2, 4}},
		{start: 4, end: 3, correct: []NodeID{4, 2, 3}},
		{start: 2, end: 2, correct: []NodeID{2}},
	}
	for _, tc := range cases {
		path, err := solver.Solve(tc.start, tc.end)
		if err != nil {
			t.Errorf("Can't solve %d->%d: %s", tc.start, tc.end, err.Error())
			continue
		}
		if ids := pathIDs(path); !sameIDs(ids, tc.correct) {
			t.Errorf("Path %d->%d should be %v, but got %v", tc.start, tc.end, tc.correct, ids)
		}
	}
}

func TestDijkstraErrors(t *testing.T) {
	data := diamondData()
	data.Points = append(data.Points, SurveyPoint{ID: 10, Lat: 5, Lon: 5})
	graph := mustGraph(t, data, POLICY_EXPLICIT_EDGES)
	solver := NewDijkstraSolver(graph)

	_, err := solver.Solve(1, 10)
	if !IsNoPath(err) {
		t.Errorf("NoPathError expected for isolated node, but got %v", err)
	}
	_, err = solver.Solve(1, 100)
	if !IsUnknownNode(err) {
		t.Errorf("UnknownNodeError expected, but got %v", err)
	}
	_, err = solver.Solve(100, 1)
	if !IsUnknownNode(err) {
		t.Errorf("UnknownNodeError expected, but got %v", err)
	}
}

func TestDijkstraDeterministic(t *testing.T) {
	// Two equal-cost paths between 1 and 4: via 2 and via 3
	data := SurveyData{
		Points: []SurveyPoint{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 0.001, Lon: 0.001},
			{ID: 3, Lat: -0.001, Lon: 0.001},
			{ID: 4, Lat: 0, Lon: 0.002},
		},
		Edges: []EdgeRecord{
			{Source: 1, Target: 3, Weight: 1, HasWeight: true},
			{Source: 1, Target: 2, Weight: 1, HasWeight: true},
			{Source: 2, Target: 4, Weight: 1, HasWeight: true},
			{Source: 3, Target: 4, Weight: 1, HasWeight: true},
		},
	}
	graph := mustGraph(t, data, POLICY_EXPLICIT_EDGES)
	solver := NewDijkstraSolver(graph)
	first, err := solver.Solve(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		path, err := solver.Solve(1, 4)
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(pathIDs(first), pathIDs(path)) {
			t.Errorf("Repeated query must return the same path: %v vs %v", pathIDs(first), pathIDs(path))
		}
	}
	// Neighbors are expanded in ascending id order, so node 2 is enqueued first
	if !sameIDs(pathIDs(first), []NodeID{1, 2, 4}) {
		t.Errorf("Tie should be resolved towards earlier enqueued node: expected [1 2 4], got %v", pathIDs(first))
	}
}

// randomGraph builds connected survey-order chain plus random shortcuts
func randomGraph(t *testing.T, seed int64, n int) *Graph {
	rnd := rand.New(rand.NewSource(seed))
	data := SurveyData{}
	for i := 0; i < n; i++ {
		data.Points = append(data.Points, SurveyPoint{
			ID:  NodeID(i + 1),
			Lat: 12.18 + rnd.Float64()*0.02,
			Lon: 79.07 + rnd.Float64()*0.02,
		})
	}
	for i := 1; i < n; i++ {
		data.Edges = append(data.Edges, EdgeRecord{Source: NodeID(i), Target: NodeID(i + 1)})
	}
	for i := 0; i < n; i++ {
		a := NodeID(rnd.Intn(n) + 1)
		b := NodeID(rnd.Intn(n) + 1)
		data.Edges = append(data.Edges, EdgeRecord{Source: a, Target: b})
	}
	return mustGraph(t, data, POLICY_EXPLICIT_EDGES)
}

func TestSolverProperties(t *testing.T) {
	graph := randomGraph(t, 7, 120)
	solver := NewDijkstraSolver(graph)
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		a := NodeID(rnd.Intn(graph.Len()) + 1)
		b := NodeID(rnd.Intn(graph.Len()) + 1)
		c := NodeID(rnd.Intn(graph.Len()) + 1)

		ab := solveDistance(t, graph, solver, a, b)
		ba := solveDistance(t, graph, solver, b, a)
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("Distance must be symmetric: d(%d,%d)=%f, d(%d,%d)=%f", a, b, ab, b, a, ba)
		}
		ac := solveDistance(t, graph, solver, a, c)
		cb := solveDistance(t, graph, solver, c, b)
		if ab > ac+cb+1e-6 {
			t.Errorf("Triangle inequality violated: d(%d,%d)=%f > d(%d,%d)+d(%d,%d)=%f", a, b, ab, a, c, c, b, ac+cb)
		}
		if a == b && ab != 0 {
			t.Errorf("Distance from node to itself must be 0, but got %f", ab)
		}
	}
}

func solveDistance(t *testing.T, graph *Graph, solver Solver, a, b NodeID) float64 {
	t.Helper()
	path, err := solver.Solve(a, b)
	if err != nil {
		t.Fatalf("Can't solve %d->%d: %s", a, b, err.Error())
	}
	if path[0].ID != a || path[len(path)-1].ID != b {
		t.Fatalf("Path %d->%d has wrong endpoints: %v", a, b, pathIDs(path))
	}
	d, err := PathDistance(graph, path)
	if err != nil {
		t.Fatalf("Path %d->%d is not walkable: %s", a, b, err.Error())
	}
	return d
}

func TestContractionAgreesWithDijkstra(t *testing.T) {
	graph := randomGraph(t, 3, 80)
	dijkstra := NewDijkstraSolver(graph)
	contraction, err := NewContractionSolver(graph)
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		a := NodeID(rnd.Intn(graph.Len()) + 1)
		b := NodeID(rnd.Intn(graph.Len()) + 1)
		expected := solveDistance(t, graph, dijkstra, a, b)
		got := solveDistance(t, graph, contraction, a, b)
		if math.Abs(expected-got) > 1e-6 {
			t.Errorf("Solvers disagree on %d->%d: dijkstra %f, contraction %f", a, b, expected, got)
		}
	}
}

func TestContractionErrors(t *testing.T) {
	data := diamondData()
	data.Points = append(data.Points, SurveyPoint{ID: 10, Lat: 5, Lon: 5})
	graph := mustGraph(t, data, POLICY_EXPLICIT_EDGES)
	solver, err := NewContractionSolver(graph)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := solver.Solve(1, 10); !IsNoPath(err) {
		t.Errorf("NoPathError expected for isolated node, but got %v", err)
	}
	if _, err := solver.Solve(1, 100); !IsUnknownNode(err) {
		t.Errorf("UnknownNodeError expected, but got %v", err)
	}
	path, err := solver.Solve(3, 3)
	if err != nil || len(path) != 1 || path[0].ID != 3 {
		t.Errorf("Path from node to itself must be the node alone, but got %v (%v)", path, err)
	}
}
