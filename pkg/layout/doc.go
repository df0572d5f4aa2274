// Package layout is the output data model of a generated level and its
// export formats.
//
// A [Layout] lists the packed rooms and the routed corridor links. It is
// plain data: the generator fills it, and this package serializes it as JSON
// ([Write], [Read]), as a Graphviz DOT room graph ([ToDOT], [RenderSVG]),
// or as a character map ([ASCII]).
//
// Layout IDs are name-based UUIDs derived from the generation parameters
// ([NewID]), so regenerating with the same parameters yields the same ID.
package layout
