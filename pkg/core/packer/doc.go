// Package packer places anchor points, sizes rooms, and pushes overlapping
// rooms apart.
//
// [PlaceAnchors] draws integer anchor coordinates inside the level minus a
// border buffer. [Pack] gives each categorized node a footprint drawn from
// its category's size range, rounded up to odd dimensions so every room has
// a single centre cell, and then resolves overlaps by displacing the room
// farther from the centroid away from its neighbour along the line between
// their centres.
//
// Overlap resolution is bounded by [Options].Attempts. Rooms that still
// overlap afterwards are reported through [Result].Overlaps; callers decide
// whether that is fatal.
package packer
