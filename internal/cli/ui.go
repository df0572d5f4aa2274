package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/layout"
)

// stdout receives status lines. Tests may replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

// Room colors double as message colors so a warning reads like treasure and
// an error like a boss room.
var (
	colorAccent   = lipgloss.Color("36")  // teal
	colorSpawn    = lipgloss.Color("35")  // green
	colorTreasure = lipgloss.Color("220") // amber
	colorBoss     = lipgloss.Color("167") // soft red
	colorAscent   = lipgloss.Color("75")  // light blue
	colorRoom     = lipgloss.Color("255")
	colorMuted    = lipgloss.Color("245")
	colorFloor    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFloor)

	styleValue   = lipgloss.NewStyle().Foreground(colorRoom)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleWarning = lipgloss.NewStyle().Foreground(colorTreasure)
	styleCommand = lipgloss.NewStyle().Foreground(colorAscent)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCorridor = lipgloss.NewStyle().Foreground(colorMuted)
	styleOverlap  = lipgloss.NewStyle().Foreground(colorBoss).Bold(true)
)

var categoryStyles = map[rules.Category]lipgloss.Style{
	rules.Spawn:       lipgloss.NewStyle().Foreground(colorSpawn).Bold(true),
	rules.Boss:        lipgloss.NewStyle().Foreground(colorBoss).Bold(true),
	rules.Treasure:    lipgloss.NewStyle().Foreground(colorTreasure),
	rules.Normal:      lipgloss.NewStyle().Foreground(colorRoom),
	rules.AscentPoint: lipgloss.NewStyle().Foreground(colorAscent).Bold(true),
}

// =============================================================================
// Status Lines
// =============================================================================

type status struct {
	glyph string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorSpawn)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorBoss)}
	statusWarn = status{"!", styleWarning}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (st status) print(body string) {
	fmt.Fprintln(stdout, st.style.Render(st.glyph)+" "+body)
}

func printSuccess(format string, args ...any) { statusOK.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusFail.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.print(styleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints a muted, indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// =============================================================================
// Layouts
// =============================================================================

// printStats prints layout statistics on a single line.
func printStats(l *layout.Layout, cached bool) {
	fmt.Fprintln(stdout, "  "+statsLine(l, cached))
}

func statsLine(l *layout.Layout, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d rooms", len(l.Rooms)),
		fmt.Sprintf("%d links", len(l.Links)),
	}
	if l.Stats.Unrouted > 0 {
		parts = append(parts, fmt.Sprintf("%d unrouted", l.Stats.Unrouted))
	}
	if l.Stats.Overlaps > 0 {
		parts = append(parts, fmt.Sprintf("%d overlaps", l.Stats.Overlaps))
	}

	origin := styleCorridor.Render("fresh")
	if cached {
		origin = categoryStyles[rules.Spawn].Render("cached")
	}
	return StyleDim.Render(strings.Join(parts, " · ")+" · ") + origin
}

// printRoomCounts prints one key/value line per room category present.
func printRoomCounts(l *layout.Layout) {
	counts := l.CountByCategory()
	for _, c := range l.Categories() {
		printKeyValue(c.String(), fmt.Sprintf("%d", counts[c]))
	}
}

// renderMap draws the layout as a colored glyph map.
func renderMap(l *layout.Layout) string {
	var b strings.Builder
	for _, row := range layout.Cells(l) {
		for _, r := range row {
			b.WriteString(styleGlyph(r))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func styleGlyph(r rune) string {
	s := string(r)
	switch r {
	case layout.GlyphEmpty:
		return StyleDim.Render(s)
	case layout.GlyphCorridor:
		return styleCorridor.Render(s)
	case layout.GlyphOverlap:
		return styleOverlap.Render(s)
	}
	for c, st := range categoryStyles {
		if layout.Glyph(c) == r {
			return st.Render(s)
		}
	}
	return s
}

// mapLegend lists the glyph of every category.
func mapLegend() string {
	var parts []string
	for _, c := range rules.Categories() {
		st, ok := categoryStyles[c]
		if !ok {
			continue
		}
		parts = append(parts, st.Render(string(layout.Glyph(c)))+" "+StyleDim.Render(c.String()))
	}
	parts = append(parts, styleCorridor.Render(string(layout.GlyphCorridor))+" "+StyleDim.Render("corridor"))
	return strings.Join(parts, "  ")
}
