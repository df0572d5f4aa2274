// Package cli implements the ascent command-line interface.
//
// Every subcommand is a method on [CLI] so they share one logger and one
// output writer. Layout data goes to Out; logs and the spinner go to stderr.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/buildinfo"
)

const appName = "ascent"

// Levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is the state shared by all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // maps and stdout artifacts
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ascent generates procedural dungeon layouts",
		Long: `Ascent generates dungeon floor layouts from a seed: anchor points are
triangulated, linked into a spanning graph, assigned room categories by a
constraint solver, packed into non-overlapping rooms and joined by corridors.

The same seed and options always produce the same layout.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints them once
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddGroup(
		&cobra.Group{ID: "layout", Title: "Layout Commands:"},
		&cobra.Group{ID: "admin", Title: "Other Commands:"},
	)
	for _, sub := range []*cobra.Command{c.generateCommand(), c.renderCommand(), c.exploreCommand()} {
		sub.GroupID = "layout"
		root.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{c.serveCommand(), c.rulesCommand(), c.cacheCommand(), c.completionCommand()} {
		sub.GroupID = "admin"
		root.AddCommand(sub)
	}
	root.SetHelpCommandGroupID("admin")

	return root
}

// parseFormats splits a comma-separated --format value. An empty value
// yields nil so the command's default applies.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
