// Package delaunay triangulates level anchor points with the Bowyer-Watson
// algorithm.
//
// The triangulation is the first stage of level generation: its edges are the
// candidate links between rooms that the link graph stage later prunes to a
// spanning tree plus a few extra corridors.
//
// # Algorithm
//
// [Triangulate] builds a super-triangle around the bounding box of the input,
// inserts each point in turn, removes every triangle whose circumcircle holds
// the new point, and re-triangulates the resulting cavity against its boundary
// edges. Triangles that still touch a super-triangle vertex are dropped before
// returning, so callers only ever see real input points.
//
// # Identity
//
// Points are identified by [Point.ID], not by their coordinates. Triangulate
// renumbers its input to the dense range 0..N-1 so downstream stages can use
// IDs as slice indices.
//
// # Numerical robustness
//
// The circumcircle test is closed: a point exactly on the circle counts as
// inside. [CircumTolerance] is added to the squared radius and is currently
// zero, so near-cocircular inputs are decided purely by float64 rounding.
// Collinear triangles have no circumcircle and never contain anything.
//
// # Example
//
//	pts := []delaunay.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}, {X: 5, Y: 3}}
//	tris, err := delaunay.Triangulate(pts, delaunay.DefaultExpansion)
//	if err != nil {
//	    return err
//	}
package delaunay
