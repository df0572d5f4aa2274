// Package rules defines room categories and the layout rules that constrain
// them.
//
// A [Rules] value carries per-category selection weights, an adjacency
// compatibility table, footprint size ranges, and optional minimum counts.
// Rules are loaded from TOML with [LoadFile] or taken from [Default]:
//
//	[weights]
//	normal = 0.55
//	treasure = 0.15
//	spawn = 0.1
//	boss = 0.1
//	ascent = 0.1
//
//	[compatible]
//	spawn = ["normal", "treasure"]
//	boss = ["normal", "ascent"]
//	ascent = ["boss"]
//
//	[sizes.boss]
//	min_length = 7
//	max_length = 9
//	min_width = 7
//	max_width = 9
//
//	[minimums]
//	treasure = 1
//
// Weights are normalized to sum to 1 after loading. The categories
// undetermined, uninitialised and corridor are reserved and never appear in
// a domain.
package rules
