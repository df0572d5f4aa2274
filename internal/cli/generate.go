package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/pipeline"
	"github.com/matzehuels/ascent/pkg/store"
)

// generateOpts holds the output flags of the generate command.
type generateOpts struct {
	output   string
	formats  string
	detailed bool
	scale    float64
	noCache  bool
	refresh  bool
	save     bool
	storeDir string
	quiet    bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags optionFlags
		out   generateOpts
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dungeon layout",
		Long: `Generate a dungeon layout from a seed.

Without --output or --format the layout is drawn as a map on the terminal.
With --format the requested artifacts (json, svg, dot, ascii) are written
next to --output, or to layout-<seed>.<ext> when no output is given.

Layouts are cached locally, so repeating a run with the same options is
instant. Use --refresh to regenerate anyway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, out)
		},
	}

	bindOptionFlags(cmd, &flags)
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&out.formats, "format", "f", "", "output format(s): json, svg, dot, ascii (comma-separated)")
	cmd.Flags().BoolVar(&out.detailed, "detailed", false, "label rooms with size and category (dot, svg)")
	cmd.Flags().Float64Var(&out.scale, "scale", 0, "points per grid cell (dot, svg)")
	cmd.Flags().BoolVar(&out.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&out.refresh, "refresh", false, "regenerate even when cached")
	cmd.Flags().BoolVar(&out.save, "save", false, "save the layout to the local store")
	cmd.Flags().StringVar(&out.storeDir, "store-dir", "", "layout store directory (default: ~/.config/ascent/layouts)")
	cmd.Flags().BoolVarP(&out.quiet, "quiet", "q", false, "do not draw the map")
	registerFormatCompletion(cmd)

	return cmd
}

// runGenerate generates the layout and writes the requested outputs.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, out generateOpts) error {
	formats := parseFormats(out.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	runner, err := c.newRunner(out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Refresh = out.refresh

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating layout (seed %d)...", opts.Seed))
	spinner.Start()

	l, cacheHit, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if out.output == "-" {
		return c.writeStdout(ctx, runner, l, formats, renderFlags{detailed: out.detailed, scale: out.scale})
	}

	printSuccess("Generated layout %s", StyleHighlight.Render(l.ID))
	printStats(l, cacheHit)
	if l.Stats.Unrouted > 0 {
		printWarning("%d corridors could not be routed", l.Stats.Unrouted)
	}

	if len(formats) > 0 || out.output != "" {
		rf := renderFlags{detailed: out.detailed, scale: out.scale}
		paths, err := c.writeArtifacts(ctx, runner, l, formats, out.output, fmt.Sprintf("layout-%d", l.Seed), rf)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	} else if !out.quiet {
		printNewline()
		fmt.Fprint(c.Out, renderMap(l))
		fmt.Fprintln(c.Out, mapLegend())
	}

	if out.save {
		if err := saveLayout(ctx, out.storeDir, l); err != nil {
			return err
		}
		printDetail("Saved to store")
	}

	if !out.quiet {
		printNewline()
		printRoomCounts(l)
	}
	return nil
}

// saveLayout stores l in the file store at dir.
func saveLayout(ctx context.Context, dir string, l *layout.Layout) error {
	st, err := store.NewFileStore(dir)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	return st.Save(ctx, l)
}
