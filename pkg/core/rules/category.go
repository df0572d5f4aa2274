package rules

import (
	"fmt"
	"strings"
)

// Category is the kind of room a node collapses to.
type Category uint8

const (
	Undetermined Category = iota
	Uninitialised
	Spawn
	Boss
	Treasure
	Normal
	AscentPoint
	Corridor
)

var categoryNames = [...]string{
	Undetermined:  "undetermined",
	Uninitialised: "uninitialised",
	Spawn:         "spawn",
	Boss:          "boss",
	Treasure:      "treasure",
	Normal:        "normal",
	AscentPoint:   "ascent",
	Corridor:      "corridor",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Reserved reports whether c is internal bookkeeping and never part of a
// node's domain.
func (c Category) Reserved() bool {
	return c == Undetermined || c == Uninitialised || c == Corridor
}

// Placed reports whether the solver places c itself during the mandatory
// phase. Placed categories are removed from every other domain afterwards.
func (c Category) Placed() bool {
	return c == Spawn || c == Boss || c == AscentPoint
}

// ParseCategory parses a category name. Matching is case-insensitive and
// accepts "ascent_point" as an alias for "ascent".
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "ascent_point" || name == "ascentpoint" {
		return AscentPoint, nil
	}
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Undetermined, fmt.Errorf("unknown room category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
