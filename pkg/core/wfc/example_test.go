package wfc_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/ascent/pkg/core/delaunay"
	"github.com/matzehuels/ascent/pkg/core/linkgraph"
	"github.com/matzehuels/ascent/pkg/core/rules"
	"github.com/matzehuels/ascent/pkg/core/wfc"
)

func ExampleEntropy() {
	weights := map[rules.Category]float64{rules.Normal: 0.5, rules.Treasure: 0.5}
	fmt.Println(wfc.Entropy([]rules.Category{rules.Normal, rules.Treasure}, weights))
	fmt.Println(wfc.Entropy([]rules.Category{rules.Normal}, weights))
	// Output:
	// 1
	// 0
}

func ExampleSolve() {
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	pts := make([]delaunay.Point, 20)
	for i := range pts {
		pts[i] = delaunay.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	tris, _ := delaunay.Triangulate(pts, delaunay.DefaultExpansion)
	g, _ := linkgraph.Build(tris, rng, 0.15)

	sol, err := wfc.Solve(g, rules.Default(), wfc.Options{Players: 2}, rng)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("spawns:", len(sol.Spawns))
	fmt.Println("ascent next to boss:", sol.Graph.Linked(sol.Ascent, sol.Boss))
	// Output:
	// spawns: 2
	// ascent next to boss: true
}
