package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty means default", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "json,dot,ascii", []string{"json", "dot", "ascii"}},
		{"spaces and empty items", " json, ,svg ", []string{"json", "svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, def, want string
	}{
		{"", "layout-42", "layout-42"},
		{"out/level.svg", "x", "out/level"},
		{"level.txt", "x", "level"},
		{"level.png", "x", "level.png"},
		{"level", "x", "level"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.def); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.def, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format explicit output",
			output:  "map.out",
			formats: []string{"ascii"},
			want:    map[string]string{"ascii": "map.out"},
		},
		{
			name:    "multiple formats share a base",
			output:  "level.json",
			formats: []string{"json", "ascii", "dot"},
			want:    map[string]string{"json": "level.json", "ascii": "level.txt", "dot": "level.dot"},
		},
		{
			name:    "default base",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "layout-7.svg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "layout-7", tt.formats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatsFromOutput(t *testing.T) {
	tests := map[string]string{
		"level.svg":  "svg",
		"level.dot":  "dot",
		"level.txt":  "ascii",
		"level.json": "json",
		"level":      "json",
	}
	for output, want := range tests {
		got := formatsFromOutput(output)
		if len(got) != 1 || got[0] != want {
			t.Errorf("formatsFromOutput(%q) = %v, want [%s]", output, got, want)
		}
	}
}

// runCLI executes the root command with args and returns what the command
// wrote to its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return execCLI(t, args...)
}

// execCLI runs the root command in the current environment.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateAndRenderCommands(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "level.json")

	if _, err := runCLI(t, "generate", "--seed", "9", "-f", "json", "-o", jsonPath, "--quiet"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	l, err := layout.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read generated layout: %v", err)
	}
	if l.Seed != 9 || len(l.Rooms) == 0 {
		t.Fatalf("unexpected layout: seed %d, %d rooms", l.Seed, len(l.Rooms))
	}

	if _, err := runCLI(t, "render", jsonPath, "-f", "ascii,dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	ascii, err := os.ReadFile(filepath.Join(dir, "level.txt"))
	if err != nil {
		t.Fatalf("read ascii: %v", err)
	}
	if string(ascii) != layout.ASCII(l) {
		t.Error("rendered ascii does not match layout.ASCII")
	}
	dot, err := os.ReadFile(filepath.Join(dir, "level.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output does not start a graph: %.40q", dot)
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := runCLI(t, "generate", "--seed", "3", "-o", "-", "-f", "ascii")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	res, err := pipeline.Generate(context.Background(), pipeline.Options{Seed: 3})
	if err != nil {
		t.Fatalf("pipeline.Generate: %v", err)
	}
	if out != layout.ASCII(res.Layout) {
		t.Error("stdout ascii differs from a direct pipeline run with the same seed")
	}
}

func TestGenerateConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "level.toml")
	if err := os.WriteFile(cfg, []byte("seed = 11\ndensity = 12\nplayers = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "out.json")

	if _, err := runCLI(t, "generate", "-c", cfg, "--players", "2", "-o", jsonPath, "-q"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	l, err := layout.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if l.Seed != 11 {
		t.Errorf("seed = %d, want 11 from config", l.Seed)
	}
	if l.Stats.Anchors != 12 {
		t.Errorf("anchors = %d, want 12 from config", l.Stats.Anchors)
	}
	if got := l.CountByCategory()[rules.Spawn]; got != 2 {
		t.Errorf("spawns = %d, want 2 from the --players flag", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"generate", "-f", "png", "-q"}, errors.ErrCodeInvalidFormat},
		{"too few anchors", []string{"generate", "--density", "2", "-q"}, errors.ErrCodeInsufficientPoints},
		{"bad players", []string{"generate", "--players=-1", "-q"}, errors.ErrCodeInvalidConfig},
		{"missing config", []string{"generate", "-c", "/nonexistent/level.toml"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderMissingFile(t *testing.T) {
	_, err := runCLI(t, "render", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
