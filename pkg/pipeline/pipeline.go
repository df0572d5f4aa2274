// Package pipeline runs the layout generation stages end to end.
//
// The same code path serves the CLI, the HTTP API and the seed explorer, so
// defaults and validation live here and nowhere else.
//
// # Stages
//
//  1. Place: draw anchor points inside the level (or use explicit anchors)
//  2. Triangulate: Delaunay triangulation of the anchors
//  3. Link: minimum spanning tree plus random extra links
//  4. Solve: assign a room category to every anchor
//  5. Pack: size rooms and push overlapping rooms apart
//  6. Route: find a corridor path for every link
//
// Every stage draws from one random source seeded with [Options.Seed], in
// that order, so identical options always produce identical layouts.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	l, err := runner.Generate(ctx, pipeline.Options{Seed: 7, Players: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(layout.ASCII(l))
//
// Without caching:
//
//	res, err := pipeline.Generate(ctx, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/core/delaunay"
	"github.com/matzehuels/ascent/pkg/core/linkgraph"
	"github.com/matzehuels/ascent/pkg/core/packer"
	"github.com/matzehuels/ascent/pkg/core/router"
	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/core/wfc"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Explorer
// =============================================================================

const (
	// DefaultWidth is the level extent along Y in cells.
	DefaultWidth = 96

	// DefaultLength is the level extent along X in cells.
	DefaultLength = 96

	// DefaultCellSize is the world size of one grid cell.
	DefaultCellSize = 100.0

	// DefaultDensity is the number of anchor points drawn.
	DefaultDensity = 24

	// DefaultPlayers is the number of spawn rooms.
	DefaultPlayers = 2

	// DefaultExtraChance is the probability of keeping a non-tree link.
	DefaultExtraChance = 0.15

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultWorkers routes links sequentially.
	DefaultWorkers = 1

	// MaxDensity caps the anchor count accepted from callers.
	MaxDensity = 4096

	// MaxExtent caps the level size along either axis.
	MaxExtent = 4096

	// MaxCells caps Width*Length. Every routing worker holds its own copy
	// of the grid.
	MaxCells = 1 << 20
)

// Output formats produced by [Runner.Render].
const (
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatASCII = "ascii"
)

// ValidFormats lists the supported render formats.
var ValidFormats = []string{FormatJSON, FormatSVG, FormatDOT, FormatASCII}

// Stage names reported to hooks, spans and logs.
const (
	StagePlace       = "place"
	StageTriangulate = "triangulate"
	StageLink        = "link"
	StageSolve       = "solve"
	StagePack        = "pack"
	StageRoute       = "route"
)

// =============================================================================
// Options - Generation Configuration
// =============================================================================

// Options configures one generation run. It decodes from JSON (API requests)
// and TOML (config files).
type Options struct {
	Width     int     `json:"width,omitempty" toml:"width"`
	Length    int     `json:"length,omitempty" toml:"length"`
	CellSize  float64 `json:"cell_size,omitempty" toml:"cell_size"`
	Density   int     `json:"density,omitempty" toml:"density"`
	Players   int     `json:"players,omitempty" toml:"players"`
	Expansion float64 `json:"expansion,omitempty" toml:"expansion"`

	// ExtraChance is the probability of keeping a non-tree link. Zero
	// selects DefaultExtraChance; any negative value disables extra links.
	ExtraChance float64 `json:"extra_chance,omitempty" toml:"extra_chance"`

	// Seed drives every random draw. Zero selects DefaultSeed, so seeds 0
	// and 42 produce the same layout.
	Seed uint64 `json:"seed,omitempty" toml:"seed"`

	// Anchors replaces random anchor placement when set.
	Anchors []layout.Point `json:"anchors,omitempty" toml:"anchors"`

	// Solver and packer bounds; zero means the package default.
	MandatoryAttempts int `json:"mandatory_attempts,omitempty" toml:"mandatory_attempts"`
	PlaceAttempts     int `json:"place_attempts,omitempty" toml:"place_attempts"`
	PackAttempts      int `json:"pack_attempts,omitempty" toml:"pack_attempts"`

	// Routing. Workers above the CPU count are lowered to it.
	Workers          int  `json:"workers,omitempty" toml:"workers"`
	SqrtDiagonalCost bool `json:"sqrt_diagonal_cost,omitempty" toml:"sqrt_diagonal_cost"`

	// RulesFile is a TOML rules file loaded when Rules is nil.
	RulesFile string `json:"-" toml:"rules_file"`

	// Runtime options (not serialized)
	Rules   *rules.Rules `json:"-" toml:"-"`
	Refresh bool         `json:"-" toml:"-"`
	Logger  *log.Logger  `json:"-" toml:"-"`
}

// SetDefaults fills zero fields with the package defaults and loads the
// rules. It is safe to call more than once.
func (o *Options) SetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Length == 0 {
		o.Length = DefaultLength
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if o.Players == 0 {
		o.Players = DefaultPlayers
	}
	if o.ExtraChance == 0 {
		o.ExtraChance = DefaultExtraChance
	}
	if o.Expansion == 0 {
		o.Expansion = delaunay.DefaultExpansion
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	o.Workers = min(o.Workers, MaxWorkers())
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Rules == nil {
		if o.RulesFile == "" {
			o.Rules = rules.Default()
		} else {
			r, err := rules.LoadFile(o.RulesFile)
			if err != nil {
				return err
			}
			o.Rules = r
		}
	}
	return nil
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	switch {
	case o.Width < 1 || o.Length < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "level width and length must be positive")
	case o.Width > MaxExtent || o.Length > MaxExtent:
		return errors.New(errors.ErrCodeInvalidConfig, "level extent exceeds %d cells", MaxExtent)
	case o.Width*o.Length > MaxCells:
		return errors.New(errors.ErrCodeInvalidConfig, "level of %dx%d cells exceeds %d cells", o.Length, o.Width, MaxCells)
	case o.CellSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cell size must be positive")
	case o.Density < 0 || o.Density > MaxDensity:
		return errors.New(errors.ErrCodeInvalidConfig, "density must be between 0 and %d", MaxDensity)
	case o.Players < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "players must be at least 1")
	case o.ExtraChance > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "extra chance must not exceed 1")
	case o.Expansion < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "expansion must be at least 1")
	case o.Workers < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1")
	case o.MandatoryAttempts < 0 || o.PlaceAttempts < 0 || o.PackAttempts < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "attempt limits must not be negative")
	}
	if err := validateAnchors(o.Anchors); err != nil {
		return err
	}
	if o.Rules != nil {
		return o.Rules.Validate()
	}
	return nil
}

// validateAnchors rejects explicit anchors the triangulation cannot use.
func validateAnchors(anchors []layout.Point) error {
	if len(anchors) > MaxDensity {
		return errors.New(errors.ErrCodeInvalidConfig, "at most %d anchors are accepted", MaxDensity)
	}
	seen := make(map[layout.Point]int, len(anchors))
	for i, a := range anchors {
		if math.IsNaN(a.X) || math.IsNaN(a.Y) || math.IsInf(a.X, 0) || math.IsInf(a.Y, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "anchor %d is not a finite point", i)
		}
		if j, dup := seen[a]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "anchor %d duplicates anchor %d at (%g, %g)", i, j, a.X, a.Y)
		}
		seen[a] = i
	}
	return nil
}

// MaxWorkers is the largest routing worker count a run uses.
func MaxWorkers() int {
	return max(runtime.NumCPU(), 1)
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.SetDefaults(); err != nil {
		return err
	}
	return o.Validate()
}

// Hash identifies the generated output: two option sets with the same hash
// produce byte-identical layouts. Runtime fields and Workers are excluded.
func (o *Options) Hash() string {
	type hashed struct {
		Width             int
		Length            int
		CellSize          float64
		Density           int
		Players           int
		ExtraChance       float64
		Expansion         float64
		Seed              uint64
		Anchors           []layout.Point
		MandatoryAttempts int
		PlaceAttempts     int
		PackAttempts      int
		SqrtDiagonalCost  bool
		Rules             *rules.Rules
	}
	data, _ := json.Marshal(hashed{
		Width:             o.Width,
		Length:            o.Length,
		CellSize:          o.CellSize,
		Density:           o.Density,
		Players:           o.Players,
		ExtraChance:       o.ExtraChance,
		Expansion:         o.Expansion,
		Seed:              o.Seed,
		Anchors:           o.Anchors,
		MandatoryAttempts: o.MandatoryAttempts,
		PlaceAttempts:     o.PlaceAttempts,
		PackAttempts:      o.PackAttempts,
		SqrtDiagonalCost:  o.SqrtDiagonalCost,
		Rules:             o.Rules,
	})
	return cache.Hash(data)
}

// LoadOptionsFile reads options from a TOML file.
func LoadOptionsFile(path string) (Options, error) {
	var o Options
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return o, nil
}

func (o *Options) solverOptions() wfc.Options {
	return wfc.Options{
		Players:           o.Players,
		MandatoryAttempts: o.MandatoryAttempts,
		PlaceAttempts:     o.PlaceAttempts,
	}
}

func (o *Options) packerOptions() packer.Options {
	return packer.Options{Attempts: o.PackAttempts}
}

func (o *Options) routerOptions() router.Options {
	return router.Options{SqrtDiagonalCost: o.SqrtDiagonalCost, Workers: o.Workers}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the layout and every intermediate stage output of a run.
type Result struct {
	Layout *layout.Layout

	Anchors   []delaunay.Point
	Triangles []delaunay.Triangle
	Graph     *linkgraph.Graph
	Solution  *wfc.Solution
	Packing   packer.Result
	Links     []router.Link

	Timings Timings
}

// Timings records wall time per stage.
type Timings struct {
	Place       time.Duration
	Triangulate time.Duration
	Link        time.Duration
	Solve       time.Duration
	Pack        time.Duration
	Route       time.Duration
}

// Total returns the summed stage time.
func (t Timings) Total() time.Duration {
	return t.Place + t.Triangulate + t.Link + t.Solve + t.Pack + t.Route
}
