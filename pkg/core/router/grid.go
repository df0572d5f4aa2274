package router

import (
	"slices"

	"github.com/matzehuels/ascent/pkg/core/grid"
)

// PathCell is the search state of one grid cell.
type PathCell struct {
	Walkable bool
	G, H     float64
	Parent   int32 // index into the grid, -1 for none
}

// Grid is the routing grid. The zero value is not usable; call [NewGrid].
type Grid struct {
	bounds grid.Bounds
	cells  []PathCell
}

// NewGrid returns a grid of the given size with every cell walkable.
func NewGrid(bounds grid.Bounds) *Grid {
	g := &Grid{
		bounds: bounds,
		cells:  make([]PathCell, max(bounds.Length*bounds.Width, 0)),
	}
	for i := range g.cells {
		g.cells[i] = PathCell{Walkable: true, Parent: -1}
	}
	return g
}

// Bounds returns the grid size.
func (g *Grid) Bounds() grid.Bounds { return g.bounds }

// SetWalkable marks c as walkable or blocked. Cells off the grid are ignored.
func (g *Grid) SetWalkable(c grid.Cell, walkable bool) {
	if g.bounds.Contains(c) {
		g.cells[g.index(c)].Walkable = walkable
	}
}

// Walkable reports whether c is on the grid and not blocked.
func (g *Grid) Walkable(c grid.Cell) bool {
	return g.bounds.Contains(c) && g.cells[g.index(c)].Walkable
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{bounds: g.bounds, cells: slices.Clone(g.cells)}
}

func (g *Grid) reset() {
	for i := range g.cells {
		g.cells[i].G = 0
		g.cells[i].H = 0
		g.cells[i].Parent = -1
	}
}

func (g *Grid) index(c grid.Cell) int32 {
	return int32(c.Y*g.bounds.Length + c.X)
}

func (g *Grid) cell(i int32) grid.Cell {
	l := int32(g.bounds.Length)
	return grid.Cell{X: int(i % l), Y: int(i / l)}
}
