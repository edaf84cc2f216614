// Package graphviz lays out solver graphs with the Graphviz dot engine.
//
// # Overview
//
// [ToDOT] converts a [solver.Node] tree into DOT source: every container
// becomes a cluster subgraph, every leaf a fixed-size box whose size in
// inches matches its pixel size at 72 dpi, so Graphviz points and diagram
// pixels coincide. [Solver] renders that source with the in-process
// Graphviz runtime to the JSON output format and maps the result back onto
// a copy of the input tree.
//
// # Option mapping
//
//   - direction: rankdir (RIGHT=LR, DOWN=TB, LEFT=RL, UP=BT)
//   - nodeSpacing / layerSpacing: nodesep / ranksep
//   - edgeRouting=ORTHOGONAL: splines=ortho
//   - padding: cluster margin (largest side)
//   - priority.*: edge weight, plus a shared group for the endpoints
//
// # Limitations
//
// dot cannot attach an edge to a cluster. Edges whose endpoint is a
// container are ranked through an invisible anchor node inside the cluster
// and come back without sections; the pipeline routes them itself.
package graphviz
