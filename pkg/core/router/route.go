package router

import (
	"context"
	"errors"
	"math"
	"slices"

	"github.com/matzehuels/ascent/pkg/core/grid"
)

// ErrNoPath is returned when the search space is exhausted.
var ErrNoPath = errors.New("no path between rooms")

// Options configures routing.
type Options struct {
	// SqrtDiagonalCost charges √k instead of k·√2 for a diagonal jump of k
	// cells.
	SqrtDiagonalCost bool
	// Workers routes links concurrently when above 1.
	Workers int
}

// successors lists the directions expanded for each travel direction.
func successors(d grid.Cell) []grid.Cell {
	switch {
	case d.X != 0 && d.Y != 0:
		return []grid.Cell{
			d,
			{X: d.X, Y: 0},
			{X: 0, Y: d.Y},
			{X: -d.X, Y: d.Y},
			{X: d.X, Y: -d.Y},
		}
	case d.X != 0:
		return []grid.Cell{d, {X: d.X, Y: 1}, {X: d.X, Y: -1}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	default:
		return []grid.Cell{d, {X: 1, Y: d.Y}, {X: -1, Y: d.Y}, {X: 1, Y: 0}, {X: -1, Y: 0}}
	}
}

// cancelCheck is the number of expanded cells between context checks.
const cancelCheck = 1024

// Route returns the cells from one step after from up to and including to.
// The path is empty when from equals to.
func (g *Grid) Route(from, to grid.Cell, opts Options) ([]grid.Cell, error) {
	return g.RouteContext(context.Background(), from, to, opts)
}

// RouteContext is [Grid.Route] with a search that stops with ctx.Err()
// once ctx is done.
func (g *Grid) RouteContext(ctx context.Context, from, to grid.Cell, opts Options) ([]grid.Cell, error) {
	if !g.Walkable(from) || !g.Walkable(to) {
		return nil, ErrNoPath
	}
	if from == to {
		return []grid.Cell{}, nil
	}
	g.reset()

	start, goal := g.index(from), g.index(to)
	g.cells[start].H = heuristic(from, to)

	inOpen := make([]bool, len(g.cells))
	open := []int32{start}
	inOpen[start] = true

	for expanded := 1; len(open) > 0; expanded++ {
		if expanded%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		best := 0
		for i := 1; i < len(open); i++ {
			if g.f(open[i]) < g.f(open[best]) {
				best = i
			}
		}
		cur := open[best]
		open = slices.Delete(open, best, best+1)
		inOpen[cur] = false

		if cur == goal {
			return g.reconstruct(start, goal), nil
		}

		pos := g.cell(cur)
		for _, d := range successors(g.direction(cur, pos, to)) {
			next, cost, ok := g.expand(pos, d, to, opts)
			if !ok {
				continue
			}
			ni := g.index(next)
			if ni == start {
				continue
			}
			tentative := g.cells[cur].G + cost
			nc := &g.cells[ni]
			if nc.Parent != -1 && tentative >= nc.G {
				continue
			}
			nc.G = tentative
			nc.H = heuristic(next, to)
			nc.Parent = cur
			if !inOpen[ni] {
				open = append(open, ni)
				inOpen[ni] = true
			}
		}
	}
	return nil, ErrNoPath
}

func (g *Grid) f(i int32) float64 { return g.cells[i].G + g.cells[i].H }

// direction is the step from the parent of cur, or towards the goal at the
// start cell.
func (g *Grid) direction(cur int32, pos, goal grid.Cell) grid.Cell {
	if p := g.cells[cur].Parent; p != -1 {
		return pos.Sub(g.cell(p)).Sign()
	}
	return goal.Sub(pos).Sign()
}

// expand applies the three successor cases for direction d from pos.
func (g *Grid) expand(pos, d, goal grid.Cell, opts Options) (grid.Cell, float64, bool) {
	diagonal := d.X != 0 && d.Y != 0
	if k, ok := alignedSteps(pos, d, goal); ok && g.clearRun(pos, d, k) {
		if !diagonal {
			return goal, float64(k), true
		}
		if opts.SqrtDiagonalCost {
			return goal, math.Sqrt(float64(k)), true
		}
		return goal, float64(k) * math.Sqrt2, true
	}

	next := pos.Add(d)
	if !g.Walkable(next) {
		return next, 0, false
	}
	if diagonal && !g.Walkable(pos.Add(grid.Cell{X: d.X})) && !g.Walkable(pos.Add(grid.Cell{Y: d.Y})) {
		return next, 0, false
	}
	if diagonal {
		return next, math.Sqrt2, true
	}
	return next, 1, true
}

// alignedSteps reports whether goal lies exactly k>0 steps of d from pos.
func alignedSteps(pos, d, goal grid.Cell) (int, bool) {
	delta := goal.Sub(pos)
	if delta.Sign() != d {
		return 0, false
	}
	switch {
	case d.X != 0 && d.Y != 0:
		if abs(delta.X) != abs(delta.Y) {
			return 0, false
		}
		return abs(delta.X), true
	case d.X != 0:
		return abs(delta.X), delta.Y == 0
	default:
		return abs(delta.Y), delta.X == 0
	}
}

// clearRun reports whether the k cells after pos along d are walkable,
// without cutting a corner between two blocked cells.
func (g *Grid) clearRun(pos, d grid.Cell, k int) bool {
	c := pos
	for range k {
		if d.X != 0 && d.Y != 0 &&
			!g.Walkable(c.Add(grid.Cell{X: d.X})) && !g.Walkable(c.Add(grid.Cell{Y: d.Y})) {
			return false
		}
		c = c.Add(d)
		if !g.Walkable(c) {
			return false
		}
	}
	return true
}

// reconstruct walks parents back from goal, fills in the unit steps of
// every jump, and returns the path in travel order without the start cell.
func (g *Grid) reconstruct(start, goal int32) []grid.Cell {
	var rev []grid.Cell
	for i := goal; i != start; i = g.cells[i].Parent {
		c, p := g.cell(i), g.cell(g.cells[i].Parent)
		step := p.Sub(c).Sign()
		for ; c != p; c = c.Add(step) {
			rev = append(rev, c)
		}
	}
	slices.Reverse(rev)
	return rev
}

func heuristic(a, b grid.Cell) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
