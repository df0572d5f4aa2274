package layout

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/ascent/pkg/core/grid"
	"github.com/matzehuels/ascent/pkg/core/rules"
)

// =============================================================================
// Layout
// =============================================================================

// Layout is a finished level: rooms, corridor links and generation stats.
type Layout struct {
	ID       string      `json:"id" bson:"_id"`
	Seed     uint64      `json:"seed" bson:"seed"`
	Bounds   grid.Bounds `json:"bounds" bson:"bounds"`
	CellSize float64     `json:"cell_size" bson:"cell_size"`
	Rooms    []Room      `json:"rooms" bson:"rooms"`
	Links    []Link      `json:"links" bson:"links"`
	Stats    Stats       `json:"stats" bson:"stats"`
}

// Room is a placed room.
type Room struct {
	ID        int            `json:"id" bson:"id"`
	Category  rules.Category `json:"category" bson:"category"`
	Anchor    Point          `json:"anchor" bson:"anchor"`
	Center    grid.Cell      `json:"center" bson:"center"`
	World     Point          `json:"world" bson:"world"`
	Length    int            `json:"length" bson:"length"`
	Width     int            `json:"width" bson:"width"`
	Box       grid.Box       `json:"box" bson:"box"`
	Neighbors []int          `json:"neighbors" bson:"neighbors"`
}

// Point is a continuous 2D position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Link is a corridor between two rooms. Path starts one cell after the From
// room's centre and ends on the To room's centre. Routed is false when no
// path was found.
type Link struct {
	From   int         `json:"from" bson:"from"`
	To     int         `json:"to" bson:"to"`
	Tree   bool        `json:"tree" bson:"tree"`
	Routed bool        `json:"routed" bson:"routed"`
	Path   []grid.Cell `json:"path" bson:"path"`
}

// Stats records what each stage did.
type Stats struct {
	Anchors        int `json:"anchors" bson:"anchors"`
	Triangles      int `json:"triangles" bson:"triangles"`
	TreeLinks      int `json:"tree_links" bson:"tree_links"`
	ExtraLinks     int `json:"extra_links" bson:"extra_links"`
	SolverAttempts int `json:"solver_attempts" bson:"solver_attempts"`
	PackPasses     int `json:"pack_passes" bson:"pack_passes"`
	PackMoves      int `json:"pack_moves" bson:"pack_moves"`
	Overlaps       int `json:"overlaps" bson:"overlaps"`
	Unrouted       int `json:"unrouted" bson:"unrouted"`
}

// WorldPosition converts a grid cell to world units.
func WorldPosition(c grid.Cell, cellSize float64) Point {
	return Point{X: float64(c.X) * cellSize, Y: float64(c.Y) * cellSize}
}

// NewID returns the layout ID for a generation parameter hash.
func NewID(paramsHash string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ascent:layout:"+paramsHash)).String()
}

// Room returns the room with the given ID.
func (l *Layout) Room(id int) (Room, bool) {
	for _, r := range l.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// CountByCategory returns the number of rooms per category.
func (l *Layout) CountByCategory() map[rules.Category]int {
	counts := make(map[rules.Category]int)
	for _, r := range l.Rooms {
		counts[r.Category]++
	}
	return counts
}

// Categories returns the categories present, in declaration order.
func (l *Layout) Categories() []rules.Category {
	return slices.Sorted(maps.Keys(l.CountByCategory()))
}

// Summary is a compact description for listings.
type Summary struct {
	ID     string      `json:"id" bson:"_id"`
	Seed   uint64      `json:"seed" bson:"seed"`
	Bounds grid.Bounds `json:"bounds" bson:"bounds"`
	Rooms  int         `json:"rooms" bson:"rooms"`
	Links  int         `json:"links" bson:"links"`
}

// Summarize returns the summary of l.
func (l *Layout) Summarize() Summary {
	return Summary{ID: l.ID, Seed: l.Seed, Bounds: l.Bounds, Rooms: len(l.Rooms), Links: len(l.Links)}
}
