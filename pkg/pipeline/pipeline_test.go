package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"json"}, false},
		{[]string{"svg", "dot", "ascii"}, false},
		{nil, false},
		{[]string{"png"}, true},
		{[]string{"json", "SVG"}, true}, // case-sensitive
		{[]string{""}, true},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%q) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%q) code = %s, want INVALID_FORMAT", tt.formats, errors.CodeOf(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid after defaults: %v", err)
	}

	checks := []struct {
		name      string
		got, want any
	}{
		{"Width", opts.Width, DefaultWidth},
		{"Length", opts.Length, DefaultLength},
		{"CellSize", opts.CellSize, DefaultCellSize},
		{"Density", opts.Density, DefaultDensity},
		{"Players", opts.Players, DefaultPlayers},
		{"ExtraChance", opts.ExtraChance, DefaultExtraChance},
		{"Seed", opts.Seed, DefaultSeed},
		{"Workers", opts.Workers, DefaultWorkers},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if opts.Rules == nil || opts.Logger == nil {
		t.Error("Rules and Logger should be set")
	}
}

func TestOptionsDefaultsKeepExplicitValues(t *testing.T) {
	opts := Options{Width: 40, Seed: 7, ExtraChance: -1}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Width != 40 || opts.Seed != 7 || opts.ExtraChance != -1 {
		t.Errorf("explicit values overwritten: %+v", opts)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"negative width", func(o *Options) { o.Width = -1 }},
		{"huge length", func(o *Options) { o.Length = MaxExtent + 1 }},
		{"too many cells", func(o *Options) { o.Width, o.Length = MaxExtent, MaxExtent }},
		{"negative cell size", func(o *Options) { o.CellSize = -5 }},
		{"density too high", func(o *Options) { o.Density = MaxDensity + 1 }},
		{"no players", func(o *Options) { o.Players = -2 }},
		{"chance above one", func(o *Options) { o.ExtraChance = 1.5 }},
		{"small expansion", func(o *Options) { o.Expansion = 0.5 }},
		{"negative workers", func(o *Options) { o.Workers = -1 }},
		{"negative attempts", func(o *Options) { o.PackAttempts = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOptionsWorkersCapped(t *testing.T) {
	opts := Options{Width: 1024, Length: 1024, Workers: 1 << 20}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Workers != MaxWorkers() {
		t.Errorf("Workers = %d, want %d", opts.Workers, MaxWorkers())
	}
}

func TestOptionsValidateAnchors(t *testing.T) {
	tests := []struct {
		name    string
		anchors []layout.Point
	}{
		{"duplicate", []layout.Point{{X: 40, Y: 40}, {X: 40, Y: 40}, {X: 50, Y: 50}, {X: 60, Y: 40}}},
		{"not a number", []layout.Point{{X: 1, Y: 1}, {X: math.NaN(), Y: 2}, {X: 3, Y: 9}}},
		{"infinite", []layout.Point{{X: 1, Y: 1}, {X: 4, Y: math.Inf(1)}, {X: 3, Y: 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Anchors: tt.anchors}
			if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}

	tooMany := Options{Anchors: make([]layout.Point, MaxDensity+1)}
	if err := tooMany.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("too many anchors: error = %v, want INVALID_CONFIG", err)
	}
}

func TestOptionsValidateRules(t *testing.T) {
	r := rules.Default()
	r.Weights = nil
	opts := Options{Rules: r}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidRules) {
		t.Errorf("error = %v, want INVALID_RULES", err)
	}
}

func TestOptionsRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := rules.Default().Encode(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	opts := Options{RulesFile: path}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("rules file should load: %v", err)
	}
	if opts.Rules == nil {
		t.Fatal("Rules not loaded")
	}

	missing := Options{RulesFile: filepath.Join(t.TempDir(), "nope.toml")}
	if err := missing.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidRules) {
		t.Errorf("missing rules file: error = %v, want INVALID_RULES", err)
	}
}

func TestOptionsHash(t *testing.T) {
	base := func() Options {
		o := Options{Seed: 9}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		return o
	}

	a, b := base(), base()
	b.Workers = 8
	b.Refresh = true
	b.Logger = log.Default()
	if a.Hash() != b.Hash() {
		t.Error("runtime fields should not change the hash")
	}

	c := base()
	c.Seed = 10
	if a.Hash() == c.Hash() {
		t.Error("seed should change the hash")
	}

	d := base()
	d.Anchors = []layout.Point{{X: 1, Y: 2}}
	if a.Hash() == d.Hash() {
		t.Error("anchors should change the hash")
	}

	e := base()
	e.Rules.Weights[rules.Normal] += 0.1
	if a.Hash() == e.Hash() {
		t.Error("rules should change the hash")
	}
}

func TestLoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascent.toml")
	content := `
width = 64
length = 80
density = 16
players = 3
extra_chance = 0.3
seed = 1234
workers = 4
sqrt_diagonal_cost = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptionsFile(path)
	if err != nil {
		t.Fatalf("LoadOptionsFile: %v", err)
	}
	if opts.Width != 64 || opts.Length != 80 || opts.Density != 16 || opts.Players != 3 {
		t.Errorf("level fields not decoded: %+v", opts)
	}
	if opts.ExtraChance != 0.3 || opts.Seed != 1234 || opts.Workers != 4 || !opts.SqrtDiagonalCost {
		t.Errorf("run fields not decoded: %+v", opts)
	}

	if err := os.WriteFile(path, []byte("width = \"wide\""), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptionsFile(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad file: error = %v, want INVALID_CONFIG", err)
	}
}

func TestTimingsTotal(t *testing.T) {
	tm := Timings{Place: 1, Triangulate: 2, Link: 3, Solve: 4, Pack: 5, Route: 6}
	if tm.Total() != 21 {
		t.Errorf("Total() = %v, want 21", tm.Total())
	}
}
