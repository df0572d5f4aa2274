package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/pipeline"
)

// renderFlags holds the artifact options shared by generate and render.
type renderFlags struct {
	detailed bool
	scale    float64
}

func (f renderFlags) options(formats []string) pipeline.RenderOptions {
	return pipeline.RenderOptions{Formats: formats, Detailed: f.detailed, Scale: f.scale}
}

// renderCommand creates the render command for saved layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a saved layout to SVG, DOT, ASCII or JSON",
		Long: `Render a layout file (written by 'generate -f json') to one or more formats.

The SVG is drawn by Graphviz from the room graph; the ASCII map shows rooms
by category glyph and corridors as '#'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := parseFormats(formats)
			if len(fs) == 0 {
				fs = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(fs); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], fs, output, noCache, rf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), dot, ascii, json (comma-separated)")
	cmd.Flags().BoolVar(&rf.detailed, "detailed", false, "label rooms with size and category (dot, svg)")
	cmd.Flags().Float64Var(&rf.scale, "scale", 0, "points per grid cell (dot, svg)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerFormatCompletion(cmd)

	return cmd
}

// runRender loads the layout from input and renders it to the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, output string, noCache bool, rf renderFlags) error {
	prog := newProgress(c.Logger)
	l, err := layout.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "load layout %s", input)
	}
	prog.step("loaded layout", "id", l.ID, "rooms", len(l.Rooms), "links", len(l.Links))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if output == "-" {
		return c.writeStdout(ctx, runner, l, formats, rf)
	}

	base := strings.TrimSuffix(input, filepath.Ext(input))
	paths, err := c.writeArtifacts(ctx, runner, l, formats, output, base, rf)
	if err != nil {
		return err
	}
	prog.done("rendered artifacts", "count", len(paths))

	printSuccess("Rendered layout %s", StyleHighlight.Render(l.ID))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactRenderer is the part of the runner used for output.
type artifactRenderer interface {
	Render(ctx context.Context, l *layout.Layout, opts pipeline.RenderOptions) (map[string][]byte, error)
}

// writeArtifacts renders l and writes one file per format. defaultBase names
// the files when output is empty.
func (c *CLI) writeArtifacts(ctx context.Context, r artifactRenderer, l *layout.Layout, formats []string, output, defaultBase string, rf renderFlags) ([]string, error) {
	if len(formats) == 0 {
		formats = formatsFromOutput(output)
	}
	artifacts, err := r.Render(ctx, l, rf.options(formats))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	paths := outputPaths(output, defaultBase, formats)
	var written []string
	for _, f := range formats {
		path := paths[f]
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return written, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeStdout renders a single format to the CLI output.
func (c *CLI) writeStdout(ctx context.Context, r artifactRenderer, l *layout.Layout, formats []string, rf renderFlags) error {
	if len(formats) == 0 {
		formats = []string{pipeline.FormatJSON}
	}
	if len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "only one format can be written to stdout, got %d", len(formats))
	}
	artifacts, err := r.Render(ctx, l, rf.options(formats))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = c.Out.Write(artifacts[formats[0]])
	return err
}

// formatExt returns the file extension for a render format.
func formatExt(format string) string {
	if format == pipeline.FormatASCII {
		return "txt"
	}
	return format
}

// formatsFromOutput picks the format implied by an output file extension,
// falling back to JSON.
func formatsFromOutput(output string) []string {
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == "txt" {
		return []string{pipeline.FormatASCII}
	}
	if slices.Contains(pipeline.ValidFormats, ext) {
		return []string{ext}
	}
	return []string{pipeline.FormatJSON}
}

// basePath derives the base output path. A known format extension on
// output is stripped; an empty output falls back to defaultBase.
func basePath(output, defaultBase string) string {
	if output == "" {
		return defaultBase
	}
	ext := filepath.Ext(output)
	e := strings.TrimPrefix(ext, ".")
	if e == "txt" || slices.Contains(pipeline.ValidFormats, e) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its output file. A single format with an
// explicit output is written to exactly that path.
func outputPaths(output, defaultBase string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, defaultBase)
	for _, f := range formats {
		paths[f] = base + "." + formatExt(f)
	}
	return paths
}
