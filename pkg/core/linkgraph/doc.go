// Package linkgraph turns a Delaunay triangulation into the room link graph.
//
// [Build] flattens the triangle edges into a raw adjacency, runs Prim's
// algorithm over it to obtain a minimum spanning tree ranked by Euclidean
// edge length, and promotes a random subset of the remaining scanned edges
// to extra links so the final layout contains loops.
//
// # Determinism
//
// Candidate edges are popped in ascending length; equal lengths are broken by
// insertion order, and edges are pushed in ascending neighbour ID. Given the
// same triangles and the same random source the resulting [Graph] is
// identical.
//
// # State
//
// A [Graph] is a plain value returned to the caller. No bookkeeping survives
// between calls, so independent generations never share link state.
package linkgraph
