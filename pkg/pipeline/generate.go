package pipeline

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
	"github.com/matzehuels/ascent/pkg/core/grid"
	"github.com/matzehuels/ascent/pkg/core/linkgraph"
	"github.com/matzehuels/ascent/pkg/core/packer"
	"github.com/matzehuels/ascent/pkg/core/router"
	"github.com/matzehuels/ascent/pkg/core/wfc"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/observability"
	"github.com/matzehuels/ascent/pkg/telemetry"
)

// seedMix derives the second PCG word from the seed.
const seedMix = 0x9e3779b97f4a7c15

// NewRand returns the random source used for a run with the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

// Generate runs every stage without caching.
//
// On a stage failure the returned Result still holds the outputs of the
// stages that completed, and Result.Layout is an empty layout carrying the
// run's ID. Too few or collinear anchors fail with INSUFFICIENT_POINTS
// before any graph is built; an exhausted solver fails with SOLVER_FAILED. Residual overlap
// and unroutable links are logged and reported in the layout stats.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	g := &generation{
		opts:   opts,
		rng:    NewRand(opts.Seed),
		bounds: grid.Bounds{Length: opts.Length, Width: opts.Width},
		hooks:  observability.Pipeline(),
		tracer: telemetry.Tracer("pipeline"),
		res: &Result{Layout: &layout.Layout{
			ID:       layout.NewID(opts.Hash()),
			Seed:     opts.Seed,
			Bounds:   grid.Bounds{Length: opts.Length, Width: opts.Width},
			CellSize: opts.CellSize,
			Rooms:    []layout.Room{},
			Links:    []layout.Link{},
		}},
	}

	ctx, span := g.tracer.Start(ctx, "layout.generate", trace.WithAttributes(
		attribute.Int64("seed", int64(opts.Seed)),
		attribute.Int("density", opts.Density),
		attribute.Int("players", opts.Players),
	))
	defer span.End()

	g.hooks.OnGenerateStart(ctx, opts.Seed, opts.Density)
	start := time.Now()
	err := g.run(ctx)
	g.hooks.OnGenerateComplete(ctx, len(g.res.Layout.Rooms), time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.Message(err))
		return g.res, err
	}
	span.SetAttributes(
		attribute.Int("rooms", len(g.res.Layout.Rooms)),
		attribute.Int("links", len(g.res.Layout.Links)),
	)
	return g.res, nil
}

// generation is the state of one run.
type generation struct {
	opts   Options
	rng    *rand.Rand
	bounds grid.Bounds
	hooks  observability.PipelineHooks
	tracer trace.Tracer
	res    *Result
}

func (g *generation) run(ctx context.Context) error {
	steps := []struct {
		name string
		took *time.Duration
		fn   func(context.Context) error
	}{
		{StagePlace, &g.res.Timings.Place, g.place},
		{StageTriangulate, &g.res.Timings.Triangulate, g.triangulate},
		{StageLink, &g.res.Timings.Link, g.link},
		{StageSolve, &g.res.Timings.Solve, g.solve},
		{StagePack, &g.res.Timings.Pack, g.pack},
		{StageRoute, &g.res.Timings.Route, g.route},
	}
	for _, s := range steps {
		if err := g.stage(ctx, s.name, s.took, s.fn); err != nil {
			return err
		}
	}
	g.assemble()
	return nil
}

func (g *generation) stage(ctx context.Context, name string, took *time.Duration, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "layout."+name)
	defer span.End()

	g.hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn(ctx)
	*took = time.Since(start)
	g.hooks.OnStageComplete(ctx, name, *took, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.Message(err))
		return err
	}
	g.opts.Logger.Debug("stage complete", "stage", name, "duration", *took)
	return nil
}

// =============================================================================
// Stages
// =============================================================================

func (g *generation) place(context.Context) error {
	if len(g.opts.Anchors) > 0 {
		pts := make([]delaunay.Point, len(g.opts.Anchors))
		for i, a := range g.opts.Anchors {
			pts[i] = delaunay.Point{X: a.X, Y: a.Y, ID: i}
		}
		g.res.Anchors = pts
	} else {
		g.res.Anchors = packer.PlaceAnchors(g.rng, g.bounds, g.opts.Density, g.opts.Rules.MaxRoomSize())
	}
	g.opts.Logger.Debug("placed anchors", "anchors", len(g.res.Anchors))
	return nil
}

func (g *generation) triangulate(context.Context) error {
	tris, err := delaunay.Triangulate(g.res.Anchors, g.opts.Expansion)
	if stderrors.Is(err, delaunay.ErrTooFewPoints) {
		return errors.Wrap(errors.ErrCodeInsufficientPoints, err,
			"need at least 3 anchors, got %d", len(g.res.Anchors))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "triangulate")
	}
	if len(tris) == 0 {
		return errors.New(errors.ErrCodeInsufficientPoints,
			"the %d anchors are collinear and form no triangle", len(g.res.Anchors))
	}
	covered := make([]bool, len(g.res.Anchors))
	for _, t := range tris {
		covered[t.P1.ID], covered[t.P2.ID], covered[t.P3.ID] = true, true, true
	}
	if i := slices.Index(covered, false); i >= 0 {
		a := g.res.Anchors[i]
		return errors.New(errors.ErrCodeInvalidInput,
			"anchor %d at (%g, %g) is not part of any triangle", i, a.X, a.Y)
	}
	g.res.Triangles = tris
	return nil
}

func (g *generation) link(context.Context) error {
	lg, err := linkgraph.Build(g.res.Triangles, g.rng, g.opts.ExtraChance)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build link graph")
	}
	g.res.Graph = lg
	return nil
}

func (g *generation) solve(context.Context) error {
	sol, err := wfc.Solve(g.res.Graph, g.opts.Rules, g.opts.solverOptions(), g.rng)
	switch {
	case stderrors.Is(err, wfc.ErrMandatoryPlacement):
		return errors.Wrap(errors.ErrCodeSolverFailed, err, "assign room categories")
	case stderrors.Is(err, wfc.ErrContradiction):
		return errors.Wrap(errors.ErrCodeContradiction, err, "assign room categories")
	case err != nil:
		return errors.Wrap(errors.ErrCodeInternal, err, "assign room categories")
	}
	if sol.Attempts > 1 {
		g.opts.Logger.Debug("mandatory placement retried", "attempts", sol.Attempts)
	}
	g.res.Solution = sol
	return nil
}

func (g *generation) pack(context.Context) error {
	nodes := make([]packer.Node, len(g.res.Anchors))
	for i, a := range g.res.Anchors {
		nodes[i] = packer.Node{ID: a.ID, Category: g.res.Solution.Categories[a.ID], Anchor: a}
	}
	p := packer.Pack(nodes, g.opts.Rules, g.bounds, g.rng, g.opts.packerOptions())
	if p.Overlaps > 0 {
		g.opts.Logger.Warn("rooms still overlap after packing", "pairs", p.Overlaps, "passes", p.Passes)
	}
	g.res.Packing = p
	return nil
}

func (g *generation) route(ctx context.Context) error {
	centers := make(map[int]grid.Cell, len(g.res.Packing.Rooms))
	for _, r := range g.res.Packing.Rooms {
		centers[r.ID] = r.Center
	}
	tasks := router.Plan(g.res.Solution.Graph.Adjacency)
	links, err := router.RouteAll(ctx, router.NewGrid(g.bounds), tasks, centers, g.opts.routerOptions())
	if err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "route corridors")
	}
	for _, l := range links {
		if l.Err != nil {
			g.opts.Logger.Warn("corridor could not be routed", "from", l.From, "to", l.To)
		}
	}
	g.res.Links = links
	return nil
}

// assemble builds the output layout from the stage results.
func (g *generation) assemble() {
	l := g.res.Layout
	sg := g.res.Solution.Graph

	l.Rooms = make([]layout.Room, len(g.res.Packing.Rooms))
	for i, r := range g.res.Packing.Rooms {
		nbrs := slices.Clone(sg.Neighbors(r.ID))
		if nbrs == nil {
			nbrs = []int{}
		}
		l.Rooms[i] = layout.Room{
			ID:        r.ID,
			Category:  r.Category,
			Anchor:    layout.Point{X: r.Anchor.X, Y: r.Anchor.Y},
			Center:    r.Center,
			World:     layout.WorldPosition(r.Center, g.opts.CellSize),
			Length:    r.Length,
			Width:     r.Width,
			Box:       r.Box,
			Neighbors: nbrs,
		}
	}

	l.Links = make([]layout.Link, len(g.res.Links))
	unrouted := 0
	for i, rl := range g.res.Links {
		path := rl.Path
		if path == nil {
			path = []grid.Cell{}
		}
		if rl.Err != nil {
			unrouted++
		}
		l.Links[i] = layout.Link{
			From:   rl.From,
			To:     rl.To,
			Tree:   rl.Tree,
			Routed: rl.Err == nil,
			Path:   path,
		}
	}

	l.Stats = layout.Stats{
		Anchors:        len(g.res.Anchors),
		Triangles:      len(g.res.Triangles),
		TreeLinks:      len(sg.Tree),
		ExtraLinks:     len(sg.Extra),
		SolverAttempts: g.res.Solution.Attempts,
		PackPasses:     g.res.Packing.Passes,
		PackMoves:      g.res.Packing.Moves,
		Overlaps:       g.res.Packing.Overlaps,
		Unrouted:       unrouted,
	}
}
