// Package wfc assigns a room category to every node of the link graph using
// wave-function-collapse style constraint propagation.
//
// # Phases
//
// [Solve] runs in two phases on one random source.
//
// The mandatory phase force-places one spawn room per player, any minimum
// rooms the rules ask for, one boss room, and one ascent room that must
// neighbour the boss. The ascent room keeps only its link to the boss. The
// graph must remain connected, and removing the spawn, boss and ascent
// categories from every open domain must leave each domain non-empty. Any
// failure restarts the whole phase from a fresh state, up to
// [DefaultMandatoryAttempts] times.
//
// The free phase repeatedly collapses the open node of lowest [Entropy] by a
// weighted draw over its domain and propagates. A contradiction here is
// terminal and reported as [ErrContradiction].
//
// # Propagation
//
// Collapsing a node to category C narrows each open neighbour's domain to
// the categories C allows. A neighbour left with one option collapses and is
// queued; one left with none is a contradiction. The queue is processed
// first-in first-out.
package wfc
