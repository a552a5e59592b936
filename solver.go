package campusnav

import (
	"container/heap"
	"fmt"
	"strings"
)

// Solver finds minimum total weight path between two network nodes
type Solver interface {
	Solve(start, end NodeID) ([]NetworkNode, error)
}

// SolverKind selects Solver implementation
type SolverKind uint16

const (
	SOLVER_DIJKSTRA = SolverKind(iota + 1)
	SOLVER_CONTRACTION
)

func (iotaIdx SolverKind) String() string {
	if iotaIdx < SOLVER_DIJKSTRA || iotaIdx > SOLVER_CONTRACTION {
		return "undefined"
	}
	return [...]string{"dijkstra", "contraction"}[iotaIdx-1]
}

// ParseSolverKind returns solver kind for given textual representation
func ParseSolverKind(s string) (SolverKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dijkstra":
		return SOLVER_DIJKSTRA, nil
	case "contraction", "ch":
		return SOLVER_CONTRACTION, nil
	default:
		return 0, fmt.Errorf("Unknown solver kind '%s'", s)
	}
}

func newSolver(kind SolverKind, graph *Graph) (Solver, error) {
	switch kind {
	case SOLVER_DIJKSTRA:
		return NewDijkstraSolver(graph), nil
	case SOLVER_CONTRACTION:
		return NewContractionSolver(graph)
	default:
		return nil, fmt.Errorf("Solver kind %d is not supported", kind)
	}
}

// DijkstraSolver is single-source Dijkstra over binary heap: O((V + E) log V).
// Search stops as soon as target is settled. It keeps no state between calls
type DijkstraSolver struct {
	graph *Graph
}

// NewDijkstraSolver returns Dijkstra solver for given graph
func NewDijkstraSolver(graph *Graph) *DijkstraSolver {
	return &DijkstraSolver{graph: graph}
}

// Solve implements Solver. Path includes both start and end
func (solver *DijkstraSolver) Solve(start, end NodeID) ([]NetworkNode, error) {
	graph := solver.graph
	startNode, ok := graph.Node(start)
	if !ok {
		return nil, &UnknownNodeError{ID: start}
	}
	if _, ok := graph.Node(end); !ok {
		return nil, &UnknownNodeError{ID: end}
	}
	if start == end {
		return []NetworkNode{startNode}, nil
	}

	dist := map[NodeID]float64{start: 0}
	prev := make(map[NodeID]NodeID)
	settled := make(map[NodeID]struct{})
	seq := uint64(0)

	pq := &frontier{}
	heap.Push(pq, &frontierItem{node: start, dist: 0, seq: seq})
	found := false
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*frontierItem)
		if _, ok := settled[item.node]; ok {
			continue
		}
		settled[item.node] = struct{}{}
		if item.node == end {
			found = true
			break
		}
		for _, adj := range graph.adjacency[item.node] {
			if _, ok := settled[adj.ID]; ok {
				continue
			}
			tentative := item.dist + adj.Weight
			if old, ok := dist[adj.ID]; ok && tentative >= old {
				continue
			}
			dist[adj.ID] = tentative
			prev[adj.ID] = item.node
			seq++
			heap.Push(pq, &frontierItem{node: adj.ID, dist: tentative, seq: seq})
		}
	}
	if !found {
		return nil, &NoPathError{Source: start, Target: end}
	}
	return solver.reconstructPath(prev, start, end), nil
}

func (solver *DijkstraSolver) reconstructPath(prev map[NodeID]NodeID, start, end NodeID) []NetworkNode {
	ids := []NodeID{end}
	for current := end; current != start; {
		current = prev[current]
		ids = append(ids, current)
	}
	path := make([]NetworkNode, len(ids))
	for i, id := range ids {
		node, _ := solver.graph.Node(id)
		path[len(ids)-1-i] = node
	}
	return path
}

// frontierItem is entry of Dijkstra priority queue. Stale entries are skipped on pop
type frontierItem struct {
	node NodeID
	dist float64
	// seq is enqueue order. Earlier enqueued entry wins ties on equal distance
	seq uint64
}

type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }
func (pq frontier) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x interface{}) {
	item := x.(*frontierItem)
	*pq = append(*pq, item)
}

func (pq *frontier) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}
