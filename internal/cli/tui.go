package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/pipeline"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(colorFloor)
	errorStyle = lipgloss.NewStyle().Foreground(colorBoss)
)

// exploreCommand creates the explore command, an interactive seed browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags   optionFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse layouts seed by seed in the terminal",
		Long: `Browse layouts interactively. Step through seeds, change the density and
player count, and pick a layout to reproduce with 'generate'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runExplore(cmd.Context(), opts, noCache)
		},
	}

	bindOptionFlags(cmd, &flags)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Runner logs would tear the alt screen.
	runner.Logger = newLogger(io.Discard, LogInfo)

	m := NewExploreModel(ctx, runner, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if em, ok := final.(ExploreModel); ok && em.Picked {
		printSuccess("Picked seed %d", em.Opts.Seed)
		printNextStep("Reproduce", em.command())
	}
	return nil
}

// =============================================================================
// ExploreModel - Interactive seed browser
// =============================================================================

// generator is the part of the runner the explorer needs.
type generator interface {
	GenerateWithCacheInfo(ctx context.Context, opts pipeline.Options) (*layout.Layout, bool, error)
}

// layoutMsg carries the result of one generation.
type layoutMsg struct {
	seed   uint64
	layout *layout.Layout
	cached bool
	err    error
}

// ExploreModel is the bubbletea model for the seed browser.
type ExploreModel struct {
	Opts   pipeline.Options
	Layout *layout.Layout
	Cached bool
	Err    error
	Busy   bool
	Picked bool
	Width  int
	Height int

	ctx context.Context
	gen generator
}

// NewExploreModel creates an explorer starting at opts.Seed.
func NewExploreModel(ctx context.Context, gen generator, opts pipeline.Options) ExploreModel {
	if opts.Seed == 0 {
		opts.Seed = pipeline.DefaultSeed
	}
	if opts.Density == 0 {
		opts.Density = pipeline.DefaultDensity
	}
	if opts.Players == 0 {
		opts.Players = pipeline.DefaultPlayers
	}
	return ExploreModel{Opts: opts, ctx: ctx, gen: gen, Busy: true, Width: 80, Height: 24}
}

func (m ExploreModel) Init() tea.Cmd {
	return m.generate()
}

// generate returns a command producing the layout for the current options.
func (m ExploreModel) generate() tea.Cmd {
	ctx, gen, opts := m.ctx, m.gen, m.Opts
	return func() tea.Msg {
		l, cached, err := gen.GenerateWithCacheInfo(ctx, opts)
		return layoutMsg{seed: opts.Seed, layout: l, cached: cached, err: err}
	}
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.Layout != nil && m.Err == nil {
				m.Picked = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.Busy {
			return m, nil
		}
		changed := true
		switch msg.String() {
		case "right", "l", "n":
			m.Opts.Seed++
		case "left", "h", "b":
			if m.Opts.Seed > 1 {
				m.Opts.Seed--
			} else {
				changed = false
			}
		case "+", "=":
			if m.Opts.Density < pipeline.MaxDensity {
				m.Opts.Density++
			}
		case "-":
			if m.Opts.Density > 3 {
				m.Opts.Density--
			} else {
				changed = false
			}
		case "p":
			m.Opts.Players = m.Opts.Players%4 + 1
		default:
			changed = false
		}
		if changed {
			m.Busy = true
			return m, m.generate()
		}
	case layoutMsg:
		if msg.seed != m.Opts.Seed {
			return m, nil
		}
		m.Busy = false
		m.Layout, m.Cached, m.Err = msg.layout, msg.cached, msg.err
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Seed %d", m.Opts.Seed)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  density %d · players %d", m.Opts.Density, m.Opts.Players)))
	b.WriteString("\n")

	switch {
	case m.Busy:
		b.WriteString(StyleDim.Render("generating..."))
		b.WriteString("\n")
	case m.Err != nil:
		b.WriteString(errorStyle.Render(m.Err.Error()))
		b.WriteString("\n")
	case m.Layout != nil:
		b.WriteString(statsLine(m.Layout, m.Cached))
		b.WriteString("\n\n")
		b.WriteString(cropLines(renderMap(m.Layout), m.Height-6))
		b.WriteString(mapLegend())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ seed  +/- density  p players  ⏎ pick  q quit"))
	return b.String()
}

// command returns the generate invocation reproducing the current layout.
func (m ExploreModel) command() string {
	return fmt.Sprintf("%s generate --seed %d --density %d --players %d",
		appName, m.Opts.Seed, m.Opts.Density, m.Opts.Players)
}

// cropLines keeps at most n lines of s.
func cropLines(s string, n int) string {
	if n < 1 {
		return ""
	}
	lines := strings.SplitAfter(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "")
}
