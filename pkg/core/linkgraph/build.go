package linkgraph

import (
	"container/heap"
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
)

// ErrNoTriangles is returned by [Build] for an empty triangulation.
var ErrNoTriangles = errors.New("link graph needs at least one triangle")

// Build derives the link graph from a triangulation.
//
// Every candidate edge popped during the Prim scan is also rolled against
// extraChance after its tree decision; a hit on a non-tree edge adds it as an
// extra link. rng may be nil when extraChance is zero.
func Build(tris []delaunay.Triangle, rng *rand.Rand, extraChance float64) (*Graph, error) {
	if len(tris) == 0 {
		return nil, ErrNoTriangles
	}

	raw, points := flatten(tris)
	g := &Graph{
		Points:    points,
		Nodes:     make([]int, 0, len(points)),
		Adjacency: make(map[int][]int, len(points)),
	}
	for id := range points {
		g.Nodes = append(g.Nodes, id)
		g.Adjacency[id] = nil
	}
	slices.Sort(g.Nodes)

	visited := mapset.New[int]()
	pq := &edgeQueue{}
	push := func(from int) {
		for _, to := range raw[from] {
			if visited.Has(to) {
				continue
			}
			heap.Push(pq, delaunay.Edge{P1: points[from], P2: points[to]})
		}
	}

	seed := tris[0].P1.ID
	visited.Put(seed)
	push(seed)

	linked := make(map[delaunay.EdgeKey]bool)
	for pq.Len() > 0 {
		e := heap.Pop(pq).(delaunay.Edge)
		tree := false
		if !visited.Has(e.P2.ID) {
			visited.Put(e.P2.ID)
			l := newLink(e)
			g.Tree = append(g.Tree, l)
			g.link(l)
			linked[e.Key()] = true
			tree = true
			push(e.P2.ID)
		}
		if extraChance <= 0 || rng == nil {
			continue
		}
		if rng.Float64() < extraChance && !tree && !linked[e.Key()] {
			l := newLink(e)
			g.Extra = append(g.Extra, l)
			g.link(l)
			linked[e.Key()] = true
		}
	}
	return g, nil
}

// flatten collects the deduplicated, sorted neighbour lists of every point.
func flatten(tris []delaunay.Triangle) (map[int][]int, map[int]delaunay.Point) {
	raw := make(map[int][]int)
	points := make(map[int]delaunay.Point)
	for _, t := range tris {
		for _, e := range t.Edges() {
			points[e.P1.ID] = e.P1
			points[e.P2.ID] = e.P2
			raw[e.P1.ID] = insert(raw[e.P1.ID], e.P2.ID)
			raw[e.P2.ID] = insert(raw[e.P2.ID], e.P1.ID)
		}
	}
	return raw, points
}

// edgeQueue is a min-heap of edges by length, then by insertion order.
type edgeQueue struct {
	items []queued
	seq   int
}

type queued struct {
	edge delaunay.Edge
	len  float64
	seq  int
}

func (q *edgeQueue) Len() int { return len(q.items) }

func (q *edgeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.len != b.len {
		return a.len < b.len
	}
	return a.seq < b.seq
}

func (q *edgeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *edgeQueue) Push(x any) {
	e := x.(delaunay.Edge)
	q.items = append(q.items, queued{edge: e, len: e.Length(), seq: q.seq})
	q.seq++
}

func (q *edgeQueue) Pop() any {
	n := len(q.items)
	it := q.items[n-1]
	q.items = q.items[:n-1]
	return it.edge
}
