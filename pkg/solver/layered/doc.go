// Package layered is a small deterministic layered (Sugiyama-style) solver
// that runs entirely in-process.
//
// Every container is laid out independently, innermost first, so a nested
// container's size is known before its parent arranges it. Within a
// container the steps are:
//
//  1. Break cycles by reversing back edges ([transform.BreakCycles])
//  2. Assign layers by longest path ([transform.AssignLayers])
//  3. Split long edges with dummy nodes ([transform.Subdivide])
//  4. Order each layer by barycenter sweeps, keeping the ordering with the
//     fewest crossings ([dag.CountCrossings])
//  5. Move happy-path nodes to the first slot of their layer
//  6. Place layers and slots on a grid and route edges orthogonally
//
// Placement happens in a working frame where layers always advance to the
// right; the result is then mirrored or transposed into the requested
// [solver.Direction].
//
// Back edges are routed below the content as U-shaped loops. Self-loops and
// edges whose endpoints are nested inside child containers constrain the
// layering but receive no sections.
package layered
