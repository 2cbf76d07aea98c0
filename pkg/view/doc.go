// Package view maps between world and screen coordinates and answers
// pointer queries against graph geometry.
//
// # Coordinate Spaces
//
// Node positions live in world space. Pointer events arrive in screen
// space. [Transform] carries the affine mapping between the two: a
// uniform scale followed by a translation. [Transform.Pan],
// [Transform.Zoom] and [Transform.CenterOn] mutate the mapping the way
// canvas gestures do, with zoom anchored under the pointer.
//
// # Hit Testing
//
// [NodeAt] resolves a world point to the first node within [NodeRadius],
// in insertion order rather than by proximity. [EdgeLabelHit] and
// [EdgeLabelAt] test only the weight label boxes of edges, never the
// line segments, and report nothing on unweighted graphs.
package view
