// Package grid holds the integer cell geometry shared by the room packer and
// the corridor router.
package grid

import "fmt"

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Add returns c offset by d.
func (c Cell) Add(d Cell) Cell { return Cell{X: c.X + d.X, Y: c.Y + d.Y} }

// Sub returns the offset from d to c.
func (c Cell) Sub(d Cell) Cell { return Cell{X: c.X - d.X, Y: c.Y - d.Y} }

// Sign returns c with each component reduced to -1, 0 or 1.
func (c Cell) Sign() Cell { return Cell{X: sign(c.X), Y: sign(c.Y)} }

// Bounds is the size of the level grid. X runs over [0, Length) and Y over
// [0, Width).
type Bounds struct {
	Length int `json:"length" bson:"length"`
	Width  int `json:"width" bson:"width"`
}

// Contains reports whether c lies on the grid.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.Length && c.Y < b.Width
}

// Clamp returns the grid cell nearest to c.
func (b Bounds) Clamp(c Cell) Cell {
	return Cell{X: clamp(c.X, 0, b.Length-1), Y: clamp(c.Y, 0, b.Width-1)}
}

// Box is an inclusive axis-aligned rectangle of cells.
type Box struct {
	MinX int `json:"min_x" bson:"min_x"`
	MinY int `json:"min_y" bson:"min_y"`
	MaxX int `json:"max_x" bson:"max_x"`
	MaxY int `json:"max_y" bson:"max_y"`
}

// BoxAround returns the length x width box centred on c. Odd sizes are
// centred exactly; even sizes extend one cell further towards +X/+Y.
func BoxAround(c Cell, length, width int) Box {
	return Box{
		MinX: c.X - (length-1)/2,
		MinY: c.Y - (width-1)/2,
		MaxX: c.X + length/2,
		MaxY: c.Y + width/2,
	}
}

// Overlaps reports whether b and o share at least one cell.
func (b Box) Overlaps(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Within reports whether every cell of b lies inside bounds.
func (b Box) Within(bounds Bounds) bool {
	return b.MinX >= 0 && b.MinY >= 0 && b.MaxX < bounds.Length && b.MaxY < bounds.Width
}

// Contains reports whether c lies inside b.
func (b Box) Contains(c Cell) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// Size returns the box extent along X and Y.
func (b Box) Size() (length, width int) {
	return b.MaxX - b.MinX + 1, b.MaxY - b.MinY + 1
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
