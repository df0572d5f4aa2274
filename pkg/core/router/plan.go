package router

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/ascent/pkg/core/grid"
)

// Task is one corridor to route between two rooms.
type Task struct {
	From int
	To   int
	Tree bool // part of the depth-first spanning walk
}

// Link is a routed task. Err is [ErrNoPath] when no corridor exists.
type Link struct {
	Task
	Path []grid.Cell
	Err  error
}

// Plan derives routing tasks from a room adjacency. A depth-first walk from
// the lowest room ID, visiting neighbours in ascending order, yields one
// tree task per newly reached room; every remaining adjacency becomes an
// extra task. Disconnected rooms start new walks in ID order.
func Plan(adjacency map[int][]int) []Task {
	ids := make([]int, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	type frame struct {
		id   int
		next int
	}
	visited := make(map[int]bool, len(ids))
	used := make(map[[2]int]bool)
	var tasks []Task

	for _, root := range ids {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			nbrs := sortedNeighbors(adjacency, top.id)
			if top.next >= len(nbrs) {
				stack = stack[:len(stack)-1]
				continue
			}
			nb := nbrs[top.next]
			top.next++
			if visited[nb] {
				continue
			}
			visited[nb] = true
			tasks = append(tasks, Task{From: top.id, To: nb, Tree: true})
			used[pairKey(top.id, nb)] = true
			stack = append(stack, frame{id: nb})
		}
	}

	for _, a := range ids {
		for _, b := range sortedNeighbors(adjacency, a) {
			if a >= b || used[pairKey(a, b)] {
				continue
			}
			used[pairKey(a, b)] = true
			tasks = append(tasks, Task{From: a, To: b})
		}
	}
	return tasks
}

func sortedNeighbors(adjacency map[int][]int, id int) []int {
	nbrs := adjacency[id]
	if slices.IsSorted(nbrs) {
		return nbrs
	}
	return slices.Sorted(slices.Values(nbrs))
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// RouteAll routes every task between the given room centres. Links are
// returned in task order whatever the worker count; with more than one
// worker each worker searches a private copy of g. A link without a path
// carries [ErrNoPath] and does not stop the others. The returned error is
// non-nil only when ctx is done, including mid-search.
func RouteAll(ctx context.Context, g *Grid, tasks []Task, centers map[int]grid.Cell, opts Options) ([]Link, error) {
	links := make([]Link, len(tasks))
	route := func(rg *Grid, i int) error {
		t := tasks[i]
		path, err := rg.RouteContext(ctx, centers[t.From], centers[t.To], opts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		links[i] = Link{Task: t, Path: path, Err: err}
		return nil
	}

	workers := min(opts.Workers, len(tasks))
	if workers <= 1 {
		for i := range tasks {
			if err := route(g, i); err != nil {
				return nil, err
			}
		}
		return links, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	next := make(chan int)
	for range workers {
		eg.Go(func() error {
			rg := g.Clone()
			for i := range next {
				if err := route(rg, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	eg.Go(func() error {
		defer close(next)
		for i := range tasks {
			select {
			case next <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return links, nil
}
