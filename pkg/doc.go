// Package pkg provides the libraries behind Ascent, a procedural dungeon
// layout generator.
//
// # Overview
//
// A layout is built in stages, each one a package under core:
//
//	anchor points
//	     ↓
//	[core/delaunay]   Bowyer-Watson triangulation
//	     ↓
//	[core/linkgraph]  minimum spanning tree plus random extra links
//	     ↓
//	[core/wfc]        room categories by constraint propagation
//	     ↓
//	[core/packer]     room sizes, overlap resolution
//	     ↓
//	[core/router]     corridor paths (jump-point A*)
//	     ↓
//	[layout]          JSON, DOT, SVG, ASCII
//
// [core/rules] holds the category weights, adjacency table and room sizes
// that drive the solver and packer. [core/grid] has the integer cell types
// shared by the packer, router and output.
//
// # Quick Start
//
//	res, err := pipeline.Generate(ctx, pipeline.Options{Seed: 7, Players: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(layout.ASCII(res.Layout))
//
// # Infrastructure
//
// [pipeline] runs the stages on one seeded random source and caches
// finished layouts through a [cache] backend (file, Redis, or none).
// [store] persists layouts on disk or in MongoDB, and [api] serves
// generation and rendering over HTTP.
//
// [observability] exposes hook interfaces for stage and cache events;
// [telemetry] sets up OpenTelemetry tracing. [errors] defines the code-tagged
// errors every package returns.
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/core/wfc/...        # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// Redis and MongoDB tests run when ASCENT_TEST_REDIS_URL and
// ASCENT_TEST_MONGO_URI are set.
//
// [core/delaunay]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/delaunay
// [core/linkgraph]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/linkgraph
// [core/wfc]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/wfc
// [core/packer]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/packer
// [core/router]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/router
// [core/rules]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/rules
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/core/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/observability
// [telemetry]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/telemetry
// [errors]: https://pkg.go.dev/github.com/matzehuels/ascent/pkg/errors
package pkg
