// Package transform normalizes a [dag.DAG] for layered layout.
//
// The phases run in this order:
//
//  1. [BreakCycles] reverses back edges found by depth-first search so the
//     graph becomes acyclic. Reversed edges are returned so callers can
//     route them against the flow.
//  2. [AssignLayers] gives each node the longest-path depth from a source.
//  3. [Subdivide] replaces every edge spanning more than one row with a
//     chain of dummy nodes, one per skipped row.
//
// After the three phases every edge joins consecutive rows and
// [dag.DAG.Validate] succeeds.
//
//	reversed := transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	chains := transform.Subdivide(g)
//
// [dag.DAG]: github.com/matzehuels/flowlayout/pkg/dag.DAG
// [dag.DAG.Validate]: github.com/matzehuels/flowlayout/pkg/dag.DAG.Validate
package transform
