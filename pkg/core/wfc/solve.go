package wfc

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/ascent/pkg/core/linkgraph"
	"github.com/matzehuels/ascent/pkg/core/rules"
)

const (
	// DefaultMandatoryAttempts bounds restarts of the mandatory phase.
	DefaultMandatoryAttempts = 50
	// DefaultPlaceAttempts bounds random draws when force-placing one room.
	DefaultPlaceAttempts = 20
)

var (
	// ErrContradiction is returned when propagation empties a domain.
	ErrContradiction = errors.New("category domain became empty")

	// ErrMandatoryPlacement is returned when the mandatory phase fails on
	// every attempt.
	ErrMandatoryPlacement = errors.New("mandatory rooms could not be placed")

	errNoCandidate  = errors.New("no node accepts the category")
	errDisconnected = errors.New("layout graph is disconnected")
	errExtraPlaced  = errors.New("propagation placed an extra mandatory room")
)

// Options configures [Solve].
type Options struct {
	Players           int // spawn rooms to place; values below 1 mean 1
	MandatoryAttempts int // default DefaultMandatoryAttempts
	PlaceAttempts     int // default DefaultPlaceAttempts
}

func (o Options) withDefaults() Options {
	if o.Players < 1 {
		o.Players = 1
	}
	if o.MandatoryAttempts <= 0 {
		o.MandatoryAttempts = DefaultMandatoryAttempts
	}
	if o.PlaceAttempts <= 0 {
		o.PlaceAttempts = DefaultPlaceAttempts
	}
	return o
}

// Node is a graph vertex with its remaining category domain.
type Node struct {
	ID        int
	Domain    []rules.Category
	Collapsed bool
	Entropy   float64
}

// Category returns the collapsed category, or Undetermined while open.
func (n *Node) Category() rules.Category {
	if !n.Collapsed || len(n.Domain) == 0 {
		return rules.Undetermined
	}
	return n.Domain[0]
}

func (n *Node) permits(c rules.Category) bool {
	return !n.Collapsed && slices.Contains(n.Domain, c)
}

// Solution is the outcome of a successful [Solve].
type Solution struct {
	// Categories maps node ID to its assigned category.
	Categories map[int]rules.Category
	// Graph is a copy of the input graph with the ascent room's non-boss
	// links removed.
	Graph *linkgraph.Graph

	Spawns []int
	Boss   int
	Ascent int

	// Attempts is the number of mandatory phase runs, including the
	// successful one.
	Attempts int
}

// Solve assigns a category to every node of g. The input graph is not
// modified.
func Solve(g *linkgraph.Graph, r *rules.Rules, opts Options, rng *rand.Rand) (*Solution, error) {
	opts = opts.withDefaults()

	var (
		s       *state
		lastErr error
		attempt int
	)
	for attempt = 1; attempt <= opts.MandatoryAttempts; attempt++ {
		s = newState(g.Clone(), r)
		lastErr = s.placeMandatory(opts, rng)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrMandatoryPlacement, opts.MandatoryAttempts, lastErr)
	}

	if err := s.collapseAll(rng); err != nil {
		return nil, err
	}

	sol := &Solution{
		Categories: make(map[int]rules.Category, len(s.nodes)),
		Graph:      s.graph,
		Spawns:     s.spawns,
		Boss:       s.boss,
		Ascent:     s.ascent,
		Attempts:   attempt,
	}
	for _, n := range s.nodes {
		sol.Categories[n.ID] = n.Category()
	}
	return sol, nil
}

// state is one solver run over a private graph copy.
type state struct {
	graph *linkgraph.Graph
	rules *rules.Rules
	nodes []*Node
	index map[int]*Node

	spawns []int
	boss   int
	ascent int
}

func newState(g *linkgraph.Graph, r *rules.Rules) *state {
	domain := r.Domain()
	s := &state{
		graph: g,
		rules: r,
		nodes: make([]*Node, 0, len(g.Nodes)),
		index: make(map[int]*Node, len(g.Nodes)),
		boss:  -1,
	}
	for _, id := range g.Nodes {
		n := &Node{ID: id, Domain: slices.Clone(domain)}
		n.Entropy = Entropy(n.Domain, r.Weights)
		s.nodes = append(s.nodes, n)
		s.index[id] = n
	}
	return s
}

// ==========================================================================
// Mandatory phase
// ==========================================================================

func (s *state) placeMandatory(opts Options, rng *rand.Rand) error {
	for range opts.Players {
		id, err := s.forcePlace(rules.Spawn, opts.PlaceAttempts, rng)
		if err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		s.spawns = append(s.spawns, id)
	}

	for _, c := range minimumOrder(s.rules) {
		for range s.rules.Minimums[c] {
			if _, err := s.forcePlace(c, opts.PlaceAttempts, rng); err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
		}
	}

	boss, err := s.forcePlace(rules.Boss, opts.PlaceAttempts, rng)
	if err != nil {
		return fmt.Errorf("boss: %w", err)
	}
	s.boss = boss

	if err := s.placeAscent(opts.PlaceAttempts, rng); err != nil {
		return fmt.Errorf("ascent: %w", err)
	}

	if !s.placedCountsMatch(opts.Players) {
		return errExtraPlaced
	}
	if !s.connected() {
		return errDisconnected
	}

	for _, n := range s.nodes {
		if n.Collapsed {
			continue
		}
		n.Domain = slices.DeleteFunc(n.Domain, rules.Category.Placed)
		if len(n.Domain) == 0 {
			return fmt.Errorf("node %d: %w", n.ID, ErrContradiction)
		}
		n.Entropy = Entropy(n.Domain, s.rules.Weights)
	}
	return nil
}

// forcePlace collapses a uniformly drawn open node that still permits c.
func (s *state) forcePlace(c rules.Category, attempts int, rng *rand.Rand) (int, error) {
	if len(s.nodes) == 0 {
		return 0, errNoCandidate
	}
	for range attempts {
		n := s.nodes[rng.IntN(len(s.nodes))]
		if !n.permits(c) {
			continue
		}
		if err := s.collapse(n, c); err != nil {
			return 0, err
		}
		return n.ID, nil
	}
	return 0, errNoCandidate
}

// placeAscent collapses a boss neighbour to the ascent category and cuts
// every other link of that room before propagating.
func (s *state) placeAscent(attempts int, rng *rand.Rand) error {
	nbrs := s.graph.Neighbors(s.boss)
	if len(nbrs) == 0 {
		return errNoCandidate
	}
	for range attempts {
		n := s.index[nbrs[rng.IntN(len(nbrs))]]
		if !n.permits(rules.AscentPoint) {
			continue
		}
		for _, other := range slices.Clone(s.graph.Neighbors(n.ID)) {
			if other != s.boss {
				s.graph.Unlink(n.ID, other)
			}
		}
		s.ascent = n.ID
		return s.collapse(n, rules.AscentPoint)
	}
	return errNoCandidate
}

// placedCountsMatch reports whether propagation left exactly the requested
// number of spawn, boss and ascent rooms.
func (s *state) placedCountsMatch(players int) bool {
	counts := make(map[rules.Category]int, 3)
	for _, n := range s.nodes {
		if c := n.Category(); c.Placed() {
			counts[c]++
		}
	}
	return counts[rules.Spawn] == players && counts[rules.Boss] == 1 && counts[rules.AscentPoint] == 1
}

func (s *state) connected() bool {
	ug := simple.NewUndirectedGraph()
	for _, id := range s.graph.Nodes {
		ug.AddNode(simple.Node(id))
	}
	for a, nbrs := range s.graph.Adjacency {
		for _, b := range nbrs {
			if a < b {
				ug.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
			}
		}
	}
	return len(topo.ConnectedComponents(ug)) <= 1
}

// minimumOrder returns the categories with a positive minimum in
// declaration order.
func minimumOrder(r *rules.Rules) []rules.Category {
	var out []rules.Category
	for _, c := range rules.Categories() {
		if r.Minimums[c] > 0 && !c.Placed() && !c.Reserved() {
			out = append(out, c)
		}
	}
	return out
}

// ==========================================================================
// Free phase
// ==========================================================================

func (s *state) collapseAll(rng *rand.Rand) error {
	for {
		n := s.lowestEntropy()
		if n == nil {
			return nil
		}
		if err := s.collapse(n, pick(n.Domain, s.rules.Weights, rng.Float64())); err != nil {
			return err
		}
	}
}

// lowestEntropy returns the first open node with minimal entropy, or nil
// when every node is collapsed.
func (s *state) lowestEntropy() *Node {
	var best *Node
	bestEntropy := math.Inf(1)
	for _, n := range s.nodes {
		if n.Collapsed {
			continue
		}
		if best == nil || n.Entropy < bestEntropy {
			best, bestEntropy = n, n.Entropy
		}
	}
	return best
}

// pick chooses from a weight-descending domain by subtracting weights from
// roll. If the roll never reaches zero the last category is used.
func pick(domain []rules.Category, weights map[rules.Category]float64, roll float64) rules.Category {
	for _, c := range domain {
		roll -= weights[c]
		if roll <= 0 {
			return c
		}
	}
	return domain[len(domain)-1]
}

// ==========================================================================
// Propagation
// ==========================================================================

// collapse fixes n to c and propagates through a FIFO work queue.
func (s *state) collapse(n *Node, c rules.Category) error {
	n.Domain = []rules.Category{c}
	n.Collapsed = true
	n.Entropy = 0

	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cat := cur.Category()

		for _, id := range s.graph.Neighbors(cur.ID) {
			nb := s.index[id]
			if nb.Collapsed {
				continue
			}
			kept := nb.Domain[:0:0]
			for _, o := range nb.Domain {
				if s.rules.Allows(cat, o) {
					kept = append(kept, o)
				}
			}
			if len(kept) == len(nb.Domain) {
				continue
			}
			nb.Domain = kept
			switch len(kept) {
			case 0:
				return fmt.Errorf("node %d next to %s: %w", nb.ID, cat, ErrContradiction)
			case 1:
				nb.Collapsed = true
				nb.Entropy = 0
				queue = append(queue, nb)
			default:
				nb.Entropy = Entropy(kept, s.rules.Weights)
			}
		}
	}
	return nil
}
