package delaunay

import (
	"fmt"
	"math"
)

// CircumTolerance is added to the squared circumradius in the containment
// test. Zero keeps the test exactly closed (<=).
const CircumTolerance = 0.0

// Point is a 2D anchor point. Equality is by ID.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID int     `json:"id"`
}

// DistSq returns the squared distance from p to q.
func (p Point) DistSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the distance from p to q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.DistSq(q))
}

func (p Point) String() string {
	return fmt.Sprintf("#%d(%g,%g)", p.ID, p.X, p.Y)
}

// Edge is an unordered pair of points. P1 is the origin when direction matters
// (see [Edge.Inverted]); equality via [Edge.Same] ignores direction.
type Edge struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the Euclidean length of the edge.
func (e Edge) Length() float64 {
	return e.P1.Dist(e.P2)
}

// Inverted returns the edge with its endpoints swapped.
func (e Edge) Inverted() Edge {
	return Edge{P1: e.P2, P2: e.P1}
}

// Same reports whether e and o join the same two points in either direction.
func (e Edge) Same(o Edge) bool {
	return (e.P1.ID == o.P1.ID && e.P2.ID == o.P2.ID) ||
		(e.P1.ID == o.P2.ID && e.P2.ID == o.P1.ID)
}

// Key returns a direction-independent identifier for the edge.
func (e Edge) Key() EdgeKey {
	a, b := e.P1.ID, e.P2.ID
	if a > b {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// EdgeKey identifies an undirected edge by its endpoint IDs with A < B.
type EdgeKey struct {
	A, B int
}

// Triangle is three points plus the edges P1P2, P2P3 and P3P1.
// Zero-area triangles are outside the contract of every method except
// [Triangle.Circumcircle], which reports them.
type Triangle struct {
	P1, P2, P3 Point
	E1, E2, E3 Edge
}

// NewTriangle builds a triangle and its edges.
func NewTriangle(p1, p2, p3 Point) Triangle {
	return Triangle{
		P1: p1, P2: p2, P3: p3,
		E1: Edge{P1: p1, P2: p2},
		E2: Edge{P1: p2, P2: p3},
		E3: Edge{P1: p3, P2: p1},
	}
}

// Edges returns the three edges in order.
func (t Triangle) Edges() [3]Edge {
	return [3]Edge{t.E1, t.E2, t.E3}
}

// Points returns the three vertices in order.
func (t Triangle) Points() [3]Point {
	return [3]Point{t.P1, t.P2, t.P3}
}

// HasVertex reports whether the point with the given ID is a vertex of t.
func (t Triangle) HasVertex(id int) bool {
	return t.P1.ID == id || t.P2.ID == id || t.P3.ID == id
}

// Area returns the unsigned area of the triangle.
func (t Triangle) Area() float64 {
	return math.Abs(t.cross()) / 2
}

func (t Triangle) cross() float64 {
	return (t.P2.X-t.P1.X)*(t.P3.Y-t.P1.Y) - (t.P2.Y-t.P1.Y)*(t.P3.X-t.P1.X)
}

// Circumcircle returns the circumcenter and squared circumradius.
// ok is false for collinear vertices, whose circumcenter is undefined.
func (t Triangle) Circumcircle() (cx, cy, r2 float64, ok bool) {
	a, b, c := t.P1, t.P2, t.P3
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return 0, 0, 0, false
	}
	aa := a.X*a.X + a.Y*a.Y
	bb := b.X*b.X + b.Y*b.Y
	cc := c.X*c.X + c.Y*c.Y
	cx = (aa*(b.Y-c.Y) + bb*(c.Y-a.Y) + cc*(a.Y-b.Y)) / d
	cy = (aa*(c.X-b.X) + bb*(a.X-c.X) + cc*(b.X-a.X)) / d
	dx, dy := a.X-cx, a.Y-cy
	return cx, cy, dx*dx + dy*dy, true
}

// InCircumcircle reports whether p lies inside or on the circumcircle of t.
// Degenerate triangles contain nothing.
func (t Triangle) InCircumcircle(p Point) bool {
	cx, cy, r2, ok := t.Circumcircle()
	if !ok {
		return false
	}
	dx, dy := p.X-cx, p.Y-cy
	return dx*dx+dy*dy <= r2+CircumTolerance
}
