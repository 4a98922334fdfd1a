// Package transform implements the post-collection graph transformer
// chain (§4.G/§4.H/§4.I): the conflict marker, the conflict resolver
// (nearest-wins version selection, scope derivation, optionality), and
// the pipeline that chains transformers together. Every transformer
// mutates its depgraph.Graph in place and returns the same root, the
// way the teacher's own resolve.Graph is passed through and mutated
// across resolution phases rather than rebuilt.
package transform

import "github.com/artifactgraph/resolvercore/depgraph"

// DependencyGraphTransformer mutates a collected graph in place, e.g.
// to mark conflict groups or to resolve them to a single winner per
// group.
type DependencyGraphTransformer interface {
	Transform(g *depgraph.Graph) error
}

// NoopDependencyGraphTransformer leaves the graph untouched.
type NoopDependencyGraphTransformer struct{}

func (NoopDependencyGraphTransformer) Transform(*depgraph.Graph) error { return nil }

// ChainedDependencyGraphTransformer runs its members in order, each
// operating on the result of the previous one's mutation.
type ChainedDependencyGraphTransformer struct {
	Members []DependencyGraphTransformer
}

// NewChainedDependencyGraphTransformer builds a chain from members, run
// in the given order.
func NewChainedDependencyGraphTransformer(members ...DependencyGraphTransformer) ChainedDependencyGraphTransformer {
	return ChainedDependencyGraphTransformer{Members: members}
}

func (c ChainedDependencyGraphTransformer) Transform(g *depgraph.Graph) error {
	for _, m := range c.Members {
		if err := m.Transform(g); err != nil {
			return err
		}
	}
	return nil
}

// ConflictMarker walks the graph once, assigning each node a
// ConflictID equal to the versionless identity of its artifact, and a
// Depth equal to its shortest path length from the root (§4.G). Nodes
// sharing a ConflictID form one conflict group for the resolver.
type ConflictMarker struct{}

func (ConflictMarker) Transform(g *depgraph.Graph) error {
	depth := make(map[depgraph.NodeID]int)
	for _, n := range g.PreorderFrom(g.Root) {
		if n.ID != g.Root {
			depth[n.ID] = depth[n.Parent] + 1
		}
		n.Depth = depth[n.ID]
		n.ConflictID = n.Artifact().VersionlessKey()
	}
	return nil
}

// ConflictGroups returns every node reachable from g.Root, grouped by
// ConflictID, in the order each group's first member was encountered
// during the preorder walk (i.e. deterministic and matching the
// traversal order the resolver must use).
func ConflictGroups(g *depgraph.Graph) (order []string, groups map[string][]*depgraph.DependencyNode) {
	groups = make(map[string][]*depgraph.DependencyNode)
	for _, n := range g.PreorderFrom(g.Root) {
		if n.IsCycle || n.ID == g.Root {
			continue
		}
		if _, ok := groups[n.ConflictID]; !ok {
			order = append(order, n.ConflictID)
		}
		groups[n.ConflictID] = append(groups[n.ConflictID], n)
	}
	return order, groups
}
