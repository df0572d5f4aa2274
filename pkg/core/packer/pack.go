package packer

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
	"github.com/matzehuels/ascent/pkg/core/grid"
	"github.com/matzehuels/ascent/pkg/core/rules"
)

// DefaultAttempts bounds the overlap resolution passes.
const DefaultAttempts = 15

// Options configures [Pack].
type Options struct {
	Attempts int // default DefaultAttempts
}

// Node is a categorized anchor ready for packing.
type Node struct {
	ID       int
	Category rules.Category
	Anchor   delaunay.Point
}

// Room is a sized and placed room.
type Room struct {
	ID       int
	Category rules.Category
	Anchor   delaunay.Point
	Center   grid.Cell
	Length   int
	Width    int
	Box      grid.Box
}

// Result is the outcome of [Pack].
type Result struct {
	Rooms    []Room
	Moves    int // displacements applied
	Passes   int // resolution passes run
	Overlaps int // overlapping pairs left after the last pass
}

// RoundToOdd returns v unchanged when odd and v+1 when even.
func RoundToOdd(v int) int {
	if v%2 == 0 {
		return v + 1
	}
	return v
}

// Pack sizes every node and pushes overlapping rooms apart. Rooms are
// returned in input order.
func Pack(nodes []Node, r *rules.Rules, bounds grid.Bounds, rng *rand.Rand, opts Options) Result {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}

	p := &packing{bounds: bounds, rooms: make([]Room, len(nodes))}
	for i, n := range nodes {
		size := r.Sizes[n.Category]
		length := RoundToOdd(drawSize(rng, size.MinLength, size.MaxLength))
		width := RoundToOdd(drawSize(rng, size.MinWidth, size.MaxWidth))
		room := Room{
			ID:       n.ID,
			Category: n.Category,
			Anchor:   n.Anchor,
			Length:   length,
			Width:    width,
		}
		p.place(&room, grid.Cell{X: int(math.Round(n.Anchor.X)), Y: int(math.Round(n.Anchor.Y))})
		p.rooms[i] = room
		p.centroid = r2.Add(p.centroid, r2.Vec{X: n.Anchor.X, Y: n.Anchor.Y})
	}
	if len(nodes) > 0 {
		p.centroid = r2.Scale(1/float64(len(nodes)), p.centroid)
	}

	res := Result{}
	for res.Passes < opts.Attempts {
		res.Passes++
		moves := p.resolve()
		res.Moves += moves
		if moves == 0 {
			break
		}
	}
	res.Rooms = p.rooms
	res.Overlaps = p.overlaps()
	return res
}

func drawSize(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return max(lo, 1)
	}
	return lo + rng.IntN(hi-lo+1)
}

type packing struct {
	bounds   grid.Bounds
	rooms    []Room
	centroid r2.Vec
}

// place centres room on c, clamped so the box stays in bounds where the
// room fits, and clipped to the bounds where it does not.
func (p *packing) place(room *Room, c grid.Cell) {
	hx, hy := (room.Length-1)/2, room.Length/2
	wx, wy := (room.Width-1)/2, room.Width/2
	c.X = clampCenter(c.X, hx, hy, p.bounds.Length)
	c.Y = clampCenter(c.Y, wx, wy, p.bounds.Width)
	room.Center = c
	b := grid.BoxAround(c, room.Length, room.Width)
	b.MinX, b.MinY = max(b.MinX, 0), max(b.MinY, 0)
	b.MaxX, b.MaxY = min(b.MaxX, p.bounds.Length-1), min(b.MaxY, p.bounds.Width-1)
	room.Box = b
}

func clampCenter(c, below, above, extent int) int {
	lo, hi := below, extent-1-above
	if hi < lo {
		return (extent - 1) / 2
	}
	return max(lo, min(c, hi))
}

// order returns room indices by ascending distance from the centroid, ties
// by room ID.
func (p *packing) order() []int {
	idx := make([]int, len(p.rooms))
	dist := make([]float64, len(p.rooms))
	for i := range p.rooms {
		idx[i] = i
		dist[i] = r2.Norm(r2.Sub(p.center(i), p.centroid))
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if dist[i] != dist[j] {
			return dist[i] < dist[j]
		}
		return p.rooms[i].ID < p.rooms[j].ID
	})
	return idx
}

func (p *packing) center(i int) r2.Vec {
	c := p.rooms[i].Center
	return r2.Vec{X: float64(c.X), Y: float64(c.Y)}
}

// resolve runs one pass over all pairs, displacing the later room of every
// overlapping pair. The order is recomputed after each displacement.
func (p *packing) resolve() int {
	moves := 0
	order := p.order()
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			if !p.rooms[a].Box.Overlaps(p.rooms[b].Box) {
				continue
			}
			p.displace(a, b)
			moves++
			order = p.order()
		}
	}
	return moves
}

// displace moves room b away from room a along the line between their
// centres, far enough to clear a along at least one axis.
func (p *packing) displace(a, b int) {
	ra, rb := &p.rooms[a], &p.rooms[b]
	dir := r2.Sub(p.center(b), p.center(a))
	if r2.Norm(dir) == 0 {
		dir = r2.Sub(p.center(b), p.centroid)
	}
	if r2.Norm(dir) == 0 {
		dir = r2.Vec{X: 1}
	}
	u := r2.Unit(dir)

	t := math.Inf(1)
	if math.Abs(u.X) > 1e-9 {
		need := ra.Box.MaxX - rb.Box.MinX + 1
		if u.X < 0 {
			need = rb.Box.MaxX - ra.Box.MinX + 1
		}
		t = math.Min(t, float64(need)/math.Abs(u.X))
	}
	if math.Abs(u.Y) > 1e-9 {
		need := ra.Box.MaxY - rb.Box.MinY + 1
		if u.Y < 0 {
			need = rb.Box.MaxY - ra.Box.MinY + 1
		}
		t = math.Min(t, float64(need)/math.Abs(u.Y))
	}

	move := r2.Scale(t, u)
	step := grid.Cell{X: ceilAway(move.X), Y: ceilAway(move.Y)}
	if step == (grid.Cell{}) {
		if math.Abs(u.X) >= math.Abs(u.Y) {
			step.X = int(math.Copysign(1, u.X))
		} else {
			step.Y = int(math.Copysign(1, u.Y))
		}
	}
	p.place(rb, rb.Center.Add(step))
}

// ceilAway rounds v away from zero, ignoring float noise below 1e-9.
func ceilAway(v float64) int {
	if math.Abs(v) < 1e-9 {
		return 0
	}
	return int(math.Copysign(math.Ceil(math.Abs(v)-1e-9), v))
}

func (p *packing) overlaps() int {
	n := 0
	for i := range p.rooms {
		for j := i + 1; j < len(p.rooms); j++ {
			if p.rooms[i].Box.Overlaps(p.rooms[j].Box) {
				n++
			}
		}
	}
	return n
}
