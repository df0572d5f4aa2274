package delaunay

import (
	"errors"
	"math"
)

// DefaultExpansion scales the super-triangle relative to the input extent.
const DefaultExpansion = 1000.0

// ErrTooFewPoints is returned when fewer than three points are given.
var ErrTooFewPoints = errors.New("triangulation needs at least 3 points")

// Triangulate returns the Delaunay triangulation of points.
//
// Point IDs are reassigned to each point's index in the input; the caller's
// slice is not modified. Exactly three points are returned as one triangle
// without further checks. expansion scales the super-triangle; values below 1
// are treated as 1.
func Triangulate(points []Point, expansion float64) ([]Triangle, error) {
	n := len(points)
	if n < 3 {
		return nil, ErrTooFewPoints
	}

	pts := make([]Point, n)
	for i, p := range points {
		pts[i] = Point{X: p.X, Y: p.Y, ID: i}
	}
	if n == 3 {
		return []Triangle{NewTriangle(pts[0], pts[1], pts[2])}, nil
	}

	super := superTriangle(pts, expansion)
	triangles := []Triangle{super}

	for _, p := range pts {
		var boundary []Edge
		kept := triangles[:0]
		for _, t := range triangles {
			if t.InCircumcircle(p) {
				e := t.Edges()
				boundary = append(boundary, e[0], e[1], e[2])
				continue
			}
			kept = append(kept, t)
		}
		triangles = kept

		for _, e := range uniqueEdges(boundary) {
			triangles = append(triangles, NewTriangle(e.P1, e.P2, p))
		}
	}

	out := make([]Triangle, 0, len(triangles))
	for _, t := range triangles {
		if t.P1.ID >= n || t.P2.ID >= n || t.P3.ID >= n {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// superTriangle builds a triangle enclosing every point. Its vertices take
// the IDs n, n+1 and n+2.
func superTriangle(pts []Point, expansion float64) Triangle {
	if expansion < 1 {
		expansion = 1
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	delta := math.Max(maxX-minX, maxY-minY) * expansion
	if delta == 0 {
		delta = expansion
	}
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2

	n := len(pts)
	return NewTriangle(
		Point{X: midX - 2*delta, Y: midY - delta, ID: n},
		Point{X: midX, Y: midY + 2*delta, ID: n + 1},
		Point{X: midX + 2*delta, Y: midY - delta, ID: n + 2},
	)
}

// uniqueEdges drops every edge that appears more than once. A shared edge
// lies between two removed triangles and is interior to the cavity.
func uniqueEdges(edges []Edge) []Edge {
	counts := make(map[EdgeKey]int, len(edges))
	for _, e := range edges {
		counts[e.Key()]++
	}
	out := edges[:0]
	for _, e := range edges {
		if counts[e.Key()] == 1 {
			out = append(out, e)
		}
	}
	return out
}
