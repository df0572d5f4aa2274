package linkgraph

import (
	"slices"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
)

// Link is an undirected connection between two nodes with A < B.
type Link struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	Length float64 `json:"length"`
}

func newLink(e delaunay.Edge) Link {
	k := e.Key()
	return Link{A: k.A, B: k.B, Length: e.Length()}
}

// Graph is the link graph over the triangulated anchor points.
//
// Adjacency holds tree and extra links together and is symmetric; neighbour
// slices are sorted ascending.
type Graph struct {
	Points    map[int]delaunay.Point
	Nodes     []int
	Adjacency map[int][]int
	Tree      []Link
	Extra     []Link
}

// Neighbors returns the sorted neighbour IDs of id.
func (g *Graph) Neighbors(id int) []int {
	return g.Adjacency[id]
}

// Linked reports whether a and b share a link.
func (g *Graph) Linked(a, b int) bool {
	_, ok := slices.BinarySearch(g.Adjacency[a], b)
	return ok
}

// Links returns tree links followed by extra links.
func (g *Graph) Links() []Link {
	out := make([]Link, 0, len(g.Tree)+len(g.Extra))
	out = append(out, g.Tree...)
	return append(out, g.Extra...)
}

// Unlink removes the link between a and b in both directions. It is a no-op
// when the nodes are not linked.
func (g *Graph) Unlink(a, b int) {
	g.Adjacency[a] = remove(g.Adjacency[a], b)
	g.Adjacency[b] = remove(g.Adjacency[b], a)
	if a > b {
		a, b = b, a
	}
	drop := func(l Link) bool { return l.A == a && l.B == b }
	g.Tree = slices.DeleteFunc(g.Tree, drop)
	g.Extra = slices.DeleteFunc(g.Extra, drop)
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Points:    make(map[int]delaunay.Point, len(g.Points)),
		Nodes:     slices.Clone(g.Nodes),
		Adjacency: make(map[int][]int, len(g.Adjacency)),
		Tree:      slices.Clone(g.Tree),
		Extra:     slices.Clone(g.Extra),
	}
	for id, p := range g.Points {
		c.Points[id] = p
	}
	for id, nbrs := range g.Adjacency {
		c.Adjacency[id] = slices.Clone(nbrs)
	}
	return c
}

func (g *Graph) link(l Link) {
	g.Adjacency[l.A] = insert(g.Adjacency[l.A], l.B)
	g.Adjacency[l.B] = insert(g.Adjacency[l.B], l.A)
}

func insert(s []int, v int) []int {
	i, ok := slices.BinarySearch(s, v)
	if ok {
		return s
	}
	return slices.Insert(s, i, v)
}

func remove(s []int, v int) []int {
	i, ok := slices.BinarySearch(s, v)
	if !ok {
		return s
	}
	return slices.Delete(s, i, i+1)
}
