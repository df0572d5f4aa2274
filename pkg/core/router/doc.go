// Package router computes corridor paths between linked rooms on the level
// grid.
//
// The search is A* with direction-aware successor pruning in the style of
// Jump Point Search. The direction at a cell is the step from its parent, or
// the straight-line direction to the goal at the start cell. Only five
// directions are expanded per cell: the direction itself plus its natural
// and forced neighbours. A cell moving exactly towards the goal along a
// clear cardinal or diagonal line jumps straight to it.
//
// # Grid state
//
// [Grid] stores per-cell search state in one slice indexed by cell; parents
// are indices into that slice. State is reset for every route, and
// concurrent routes each use a private copy (see [RouteAll]).
// [Grid.RouteContext] gives up with the context's error once it is done.
//
// # Costs
//
// Single steps and cardinal jumps cost their Euclidean length. A diagonal
// jump of k cells costs k·√2, or √k when [Options].SqrtDiagonalCost is set
// to reproduce layouts generated with the older cost model.
package router
