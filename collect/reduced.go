package collect

import "github.com/artifactgraph/resolvercore/depgraph"

// ReducedGraph is the default, conflict-resolved view of a collected
// graph: every node reachable from the root by following only
// non-pruned children. Pruned nodes (conflict-group losers) remain in
// the underlying arena for verbose inspection (§4.H's "retained for
// verbose mode but not traversed by default visitors") but are skipped
// here. Cycle-terminator nodes that are not pruned are included; they
// have no children.
func ReducedGraph(g *depgraph.Graph) []*depgraph.DependencyNode {
	var out []*depgraph.DependencyNode
	var walk func(id depgraph.NodeID)
	walk = func(id depgraph.NodeID) {
		n := g.Node(id)
		out = append(out, n)
		for _, c := range n.Children {
			if g.Node(c).Pruned {
				continue
			}
			walk(c)
		}
	}
	walk(g.Root)
	return out
}
