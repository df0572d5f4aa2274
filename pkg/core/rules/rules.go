package rules

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/ascent/pkg/errors"
)

// SizeRange bounds the footprint of a room category in grid cells.
type SizeRange struct {
	MinLength int `toml:"min_length" json:"min_length"`
	MaxLength int `toml:"max_length" json:"max_length"`
	MinWidth  int `toml:"min_width" json:"min_width"`
	MaxWidth  int `toml:"max_width" json:"max_width"`
}

// Max returns the largest dimension the range allows.
func (r SizeRange) Max() int {
	return max(r.MaxLength, r.MaxWidth)
}

// Rules is the read-only configuration consumed by the solver and packer.
//
// Weights drive both the domain (every non-reserved category with a positive
// weight) and the weighted draw. Compatible[c] lists the categories allowed
// next to a room of category c. Minimums requests at least n rooms of a
// category in addition to the spawn, boss and ascent rooms the solver always
// places.
type Rules struct {
	Weights    map[Category]float64    `json:"weights"`
	Compatible map[Category][]Category `json:"compatible"`
	Sizes      map[Category]SizeRange  `json:"sizes"`
	Minimums   map[Category]int        `json:"minimums,omitempty"`
}

// Default returns the built-in rule set.
func Default() *Rules {
	r := &Rules{
		Weights: map[Category]float64{
			Normal:      0.55,
			Treasure:    0.15,
			Spawn:       0.1,
			Boss:        0.1,
			AscentPoint: 0.1,
		},
		Compatible: map[Category][]Category{
			Spawn:       {Normal, Treasure},
			Boss:        {Normal, AscentPoint},
			Treasure:    {Normal, Spawn},
			Normal:      {Normal, Treasure, Spawn, Boss},
			AscentPoint: {Boss},
		},
		Sizes: map[Category]SizeRange{
			Spawn:       {MinLength: 3, MaxLength: 5, MinWidth: 3, MaxWidth: 5},
			Boss:        {MinLength: 7, MaxLength: 9, MinWidth: 7, MaxWidth: 9},
			Treasure:    {MinLength: 3, MaxLength: 4, MinWidth: 3, MaxWidth: 4},
			Normal:      {MinLength: 3, MaxLength: 7, MinWidth: 3, MaxWidth: 7},
			AscentPoint: {MinLength: 3, MaxLength: 3, MinWidth: 3, MaxWidth: 3},
		},
		Minimums: map[Category]int{
			Treasure: 1,
		},
	}
	r.Normalize()
	return r
}

// Normalize scales the weights to sum to 1. It is a no-op when the sum is
// not positive.
func (r *Rules) Normalize() {
	var sum float64
	for _, w := range r.Weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for c, w := range r.Weights {
		r.Weights[c] = w / sum
	}
}

// Domain returns the initial domain shared by every node: the weighted
// non-reserved categories ordered by descending weight, ties in declaration
// order.
func (r *Rules) Domain() []Category {
	out := make([]Category, 0, len(r.Weights))
	for c, w := range r.Weights {
		if w > 0 && !c.Reserved() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := r.Weights[out[i]], r.Weights[out[j]]
		if wi != wj {
			return wi > wj
		}
		return out[i] < out[j]
	})
	return out
}

// Allows reports whether a room of category b may sit next to one of
// category a.
func (r *Rules) Allows(a, b Category) bool {
	return slices.Contains(r.Compatible[a], b)
}

// MaxRoomSize returns the largest dimension across all size ranges.
func (r *Rules) MaxRoomSize() int {
	m := 0
	for _, s := range r.Sizes {
		m = max(m, s.Max())
	}
	return m
}

// Validate checks that the rules can drive a generation.
func (r *Rules) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	var sum float64
	for _, c := range sortedKeys(r.Weights) {
		w := r.Weights[c]
		switch {
		case c.Reserved():
			add("category %s is reserved and cannot be weighted", c)
		case w < 0 || math.IsNaN(w) || math.IsInf(w, 0):
			add("weight for %s must be a non-negative number, got %g", c, w)
		default:
			sum += w
		}
	}
	if sum <= 0 {
		add("weights must sum to a positive value")
	}

	for _, c := range []Category{Spawn, Boss, AscentPoint} {
		if r.Weights[c] <= 0 {
			add("category %s must have a positive weight", c)
		}
	}

	for _, c := range r.Domain() {
		s, ok := r.Sizes[c]
		if !ok {
			add("missing size range for %s", c)
			continue
		}
		if s.MinLength < 1 || s.MinWidth < 1 {
			add("size range for %s must be at least 1x1", c)
		}
		if s.MaxLength < s.MinLength || s.MaxWidth < s.MinWidth {
			add("size range for %s has max below min", c)
		}
	}

	for _, c := range sortedKeys(r.Compatible) {
		for _, o := range r.Compatible[c] {
			if o.Reserved() || c.Reserved() {
				add("compatibility %s -> %s uses a reserved category", c, o)
			}
		}
	}
	if !r.Allows(Boss, AscentPoint) {
		add("boss must allow an adjacent ascent room")
	}
	if !r.Allows(AscentPoint, Boss) {
		add("ascent must allow an adjacent boss room")
	}

	for _, c := range sortedKeys(r.Minimums) {
		n := r.Minimums[c]
		switch {
		case n < 0:
			add("minimum for %s must not be negative", c)
		case c.Reserved() || c.Placed():
			add("minimum for %s is not configurable", c)
		case n > 0 && r.Weights[c] <= 0:
			add("minimum for %s requires a positive weight", c)
		}
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidRules, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Rules) Clone() *Rules {
	c := &Rules{
		Weights:    maps.Clone(r.Weights),
		Compatible: make(map[Category][]Category, len(r.Compatible)),
		Sizes:      maps.Clone(r.Sizes),
		Minimums:   maps.Clone(r.Minimums),
	}
	for k, v := range r.Compatible {
		c.Compatible[k] = slices.Clone(v)
	}
	return c
}

func sortedKeys[V any](m map[Category]V) []Category {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}
