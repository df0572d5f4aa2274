package packer

import (
	"math/rand/v2"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
	"github.com/matzehuels/ascent/pkg/core/grid"
)

// anchorRedraws bounds re-draws of a coordinate that is already taken.
const anchorRedraws = 10

// Buffer returns the border kept free of anchors: four times the largest
// room dimension, shrunk to a quarter of the shorter side when the level is
// too small for it.
func Buffer(bounds grid.Bounds, maxRoom int) int {
	buf := 4 * maxRoom
	short := min(bounds.Length, bounds.Width)
	if 2*buf >= short {
		buf = short / 4
	}
	return buf
}

// PlaceAnchors draws up to count distinct anchor points with IDs 0..n-1.
// Coordinates are drawn from [buffer, extent-buffer] inclusive, clamped to
// the last cell of the level. A coordinate that stays taken after a bounded number of re-draws is
// skipped, so fewer than count points may be returned on crowded levels.
func PlaceAnchors(rng *rand.Rand, bounds grid.Bounds, count, maxRoom int) []delaunay.Point {
	if count <= 0 || bounds.Length <= 0 || bounds.Width <= 0 {
		return nil
	}
	buf := Buffer(bounds, maxRoom)
	spanX := max(min(bounds.Length-buf, bounds.Length-1)-buf+1, 1)
	spanY := max(min(bounds.Width-buf, bounds.Width-1)-buf+1, 1)

	taken := make(map[grid.Cell]bool, count)
	pts := make([]delaunay.Point, 0, count)
	for range count {
		for range anchorRedraws {
			c := grid.Cell{X: buf + rng.IntN(spanX), Y: buf + rng.IntN(spanY)}
			if taken[c] {
				continue
			}
			taken[c] = true
			pts = append(pts, delaunay.Point{X: float64(c.X), Y: float64(c.Y), ID: len(pts)})
			break
		}
	}
	return pts
}
