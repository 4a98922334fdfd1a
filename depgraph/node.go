// Package depgraph implements the DependencyNode arena representation:
// rather than nodes holding pointers to their children (which would
// make cycles literal shared/cyclic references), every node owns its
// children by index into a single per-collection Graph arena, and
// cycles are recorded as index back-references in a side table. See
// the design rationale in the project's design notes on cyclic node
// graphs.
package depgraph

import (
	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/internal/attrset"
	"github.com/artifactgraph/resolvercore/version"
)

// NodeID indexes into a Graph's arena, starting at 0 for the first
// node allocated. -1 (noNode) is not a valid node; Graph.Root holds it
// until the root node has been allocated.
type NodeID int

const noNode NodeID = -1

// DependencyNode is mutable during collection and frozen after the
// transformer pipeline runs. Identity is by NodeID (i.e. by arena
// slot), not by value: two nodes can carry the same coordinate and
// coexist until conflict resolution picks one.
type DependencyNode struct {
	ID NodeID

	// Dependency is nil for the synthetic root of a root-artifact
	// collection; otherwise it is the edge that produced this node.
	Dependency *artifact.Dependency

	// Version is the concrete version chosen for this node once
	// resolved; Constraint is the requirement it was resolved against.
	Version    string
	Constraint version.VersionConstraint

	Parent   NodeID
	Children []NodeID

	Repositories []string

	// ConflictID is the versionless identity used to group nodes for
	// conflict resolution; assigned by the conflict marker.
	ConflictID string
	// Depth is the shortest path length from the root, assigned by the
	// conflict marker.
	Depth int

	// Relocations records the chain of artifacts this node's
	// descriptor relocated away from, oldest first.
	Relocations []artifact.Artifact

	// PreManagedVersion and PreManagedScope record the dependency's
	// values before a DependencyManager override was applied, for
	// diagnostics and for the "first management wins" rule.
	PreManagedVersion string
	PreManagedScope   string

	// IsCycle marks a node as a cycle terminator: its coordinate
	// recurs in the ancestor chain, so it was not expanded. Children
	// is always empty on such a node.
	IsCycle bool

	// Winner and Pruned are set by the conflict resolver: in a solvable
	// conflict group exactly one node is marked Winner and all others
	// are marked Pruned; in an unsolvable group neither flag is set on
	// any member. Pruned nodes are retained in the arena
	// (for verbose inspection) but skipped by default graph visitors.
	Winner bool
	Pruned bool

	// DerivedScope and Optional are the conflict resolver's final
	// outputs for the winning node of a conflict group.
	DerivedScope string
	Optional     bool

	Annotations attrset.Set
}

// Artifact returns the node's effective artifact coordinate at its
// resolved version, or the zero Artifact for the synthetic root.
func (n *DependencyNode) Artifact() artifact.Artifact {
	if n.Dependency == nil {
		return artifact.Artifact{}
	}
	return n.Dependency.Artifact.WithVersion(n.Version)
}

// Graph is the arena owning every DependencyNode produced by a single
// collection. Nodes reference each other only by NodeID.
type Graph struct {
	nodes  []*DependencyNode
	Root   NodeID
	Cycles []Cycle
}

// Cycle records a back-reference: From recurred as To's coordinate
// somewhere in From's own ancestor chain, so To was not expanded.
type Cycle struct {
	From       NodeID
	To         NodeID
	Coordinate string
}

// NewGraph returns an empty arena with no root allocated yet.
func NewGraph() *Graph {
	return &Graph{Root: noNode}
}

// NewNode allocates a new node in the arena and returns its ID. The
// returned node's ID and Parent are already populated; all other
// fields are zero value and must be filled in by the caller.
func (g *Graph) NewNode(parent NodeID) *DependencyNode {
	id := NodeID(len(g.nodes))
	n := &DependencyNode{ID: id, Parent: parent}
	g.nodes = append(g.nodes, n)
	return n
}

// AddChild appends child to parent's Children list.
func (g *Graph) AddChild(parent, child NodeID) {
	p := g.Node(parent)
	p.Children = append(p.Children, child)
}

// Node returns the node at id. It panics if id is out of range, which
// indicates a bug in the caller (ids are only ever handed out by
// NewNode).
func (g *Graph) Node(id NodeID) *DependencyNode {
	return g.nodes[id]
}

// Len returns the number of nodes allocated in the arena, including
// pruned and cycle-terminator nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// AllNodeIDs returns every allocated node ID in allocation order (which
// is also preorder-DFS-stable for a depth-first collector, but callers
// that need true preorder traversal should use Walk).
func (g *Graph) AllNodeIDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Walk visits every node reachable from root in preorder depth-first
// order, calling visit(node, depth). IsCycle-terminated nodes have no
// children, so nothing is visited below them. It keeps no visited set:
// each node is visited exactly once because in this arena model every
// node has exactly one parent.
func (g *Graph) Walk(root NodeID, visit func(n *DependencyNode, depth int)) {
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		n := g.Node(id)
		visit(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if root == noNode {
		return
	}
	walk(root, 0)
}

// PreorderFrom returns every node reachable from root in preorder
// depth-first order. This is the traversal order the conflict resolver
// must use when processing a conflict group, per the concurrency
// model's determinism requirement: conflict-group processing order is
// always preorder-DFS of the completed raw graph, regardless of
// whether the graph was built breadth-first or depth-first.
func (g *Graph) PreorderFrom(root NodeID) []*DependencyNode {
	var out []*DependencyNode
	g.Walk(root, func(n *DependencyNode, depth int) {
		out = append(out, n)
	})
	return out
}
