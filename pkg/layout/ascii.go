package layout

import (
	"strings"

	"github.com/matzehuels/ascent/pkg/core/grid"
	"github.com/matzehuels/ascent/pkg/core/rules"
)

// Map glyphs for cells that are not part of a room.
const (
	GlyphEmpty    = '.'
	GlyphCorridor = '#'
	GlyphOverlap  = '%'
)

// Glyph returns the map character for a room category.
func Glyph(c rules.Category) rune {
	switch c {
	case rules.Spawn:
		return 'S'
	case rules.Boss:
		return 'B'
	case rules.Treasure:
		return 'T'
	case rules.Normal:
		return 'o'
	case rules.AscentPoint:
		return 'A'
	}
	return '?'
}

// Cells returns the level as rows of glyphs, row 0 being Y = 0. Corridors
// are drawn first and rooms on top; cells covered by two rooms use
// [GlyphOverlap].
func Cells(l *Layout) [][]rune {
	rows := make([][]rune, max(l.Bounds.Width, 0))
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(GlyphEmpty), max(l.Bounds.Length, 0)))
	}
	set := func(c grid.Cell, r rune) {
		if l.Bounds.Contains(c) {
			rows[c.Y][c.X] = r
		}
	}

	for _, k := range l.Links {
		for _, c := range k.Path {
			set(c, GlyphCorridor)
		}
	}

	covered := make(map[grid.Cell]bool)
	for _, r := range l.Rooms {
		g := Glyph(r.Category)
		for y := r.Box.MinY; y <= r.Box.MaxY; y++ {
			for x := r.Box.MinX; x <= r.Box.MaxX; x++ {
				c := grid.Cell{X: x, Y: y}
				if covered[c] {
					set(c, GlyphOverlap)
					continue
				}
				covered[c] = true
				set(c, g)
			}
		}
	}
	return rows
}

// ASCII renders the level as text, one line per row.
func ASCII(l *Layout) string {
	var sb strings.Builder
	for _, row := range Cells(l) {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
