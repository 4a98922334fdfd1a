package collect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/version"
)

// nodeKey canonicalizes the inputs that make two pending dependency
// expansions equivalent: (artifact-versionless-id, version-constraint,
// scope, optional, premanaged-scope, exclusions). Two edges with an
// equal nodeKey are guaranteed to expand to the same subtree, so the
// second one can reuse the first's completed children instead of
// re-fetching and re-expanding.
func nodeKey(versionlessKey, constraint, scope string, optional bool, premanagedScope string, exclusions []artifact.Exclusion) string {
	ex := make([]string, len(exclusions))
	for i, e := range exclusions {
		ex[i] = e.String()
	}
	sort.Strings(ex)
	return fmt.Sprintf("%s|%s|%s|%v|%s|%s", versionlessKey, constraint, scope, optional, premanagedScope, strings.Join(ex, ","))
}

// nodeSnapshot is a self-contained copy of a completed subtree's content,
// independent of any particular arena slot. A cache hit clones a fresh
// copy of every node in the snapshot under the new parent instead of
// splicing the original NodeIDs onto it, so a subtree reused under two
// different parents never ends up aliasing the same NodeID in both
// places (each node has exactly one parent, per depgraph's own
// single-parent invariant).
type nodeSnapshot struct {
	dependency        *artifact.Dependency
	version           string
	constraint        version.VersionConstraint
	repositories      []string
	relocations       []artifact.Artifact
	preManagedVersion string
	preManagedScope   string
	isCycle           bool
	children          []*nodeSnapshot
}

// snapshotNode captures the subtree rooted at id as it currently stands
// in g. The caller must only call this once that subtree is fully
// expanded (all descendants' Children populated); calling it earlier
// would freeze an incomplete tree into the pool.
func snapshotNode(g *depgraph.Graph, id depgraph.NodeID) *nodeSnapshot {
	n := g.Node(id)
	snap := &nodeSnapshot{
		version:           n.Version,
		constraint:        n.Constraint,
		repositories:      append([]string(nil), n.Repositories...),
		relocations:       append([]artifact.Artifact(nil), n.Relocations...),
		preManagedVersion: n.PreManagedVersion,
		preManagedScope:   n.PreManagedScope,
		isCycle:           n.IsCycle,
	}
	if n.Dependency != nil {
		d := *n.Dependency
		snap.dependency = &d
	}
	snap.children = make([]*nodeSnapshot, len(n.Children))
	for i, c := range n.Children {
		snap.children[i] = snapshotNode(g, c)
	}
	return snap
}

// cloneInto materializes a fresh copy of snap (and its whole subtree) as
// new arena nodes parented under parent, returning the new node's ID.
func (snap *nodeSnapshot) cloneInto(g *depgraph.Graph, parent depgraph.NodeID) depgraph.NodeID {
	n := g.NewNode(parent)
	g.AddChild(parent, n.ID)
	if snap.dependency != nil {
		d := *snap.dependency
		n.Dependency = &d
	}
	n.Version = snap.version
	n.Constraint = snap.constraint
	n.Repositories = append([]string(nil), snap.repositories...)
	n.Relocations = append([]artifact.Artifact(nil), snap.relocations...)
	n.PreManagedVersion = snap.preManagedVersion
	n.PreManagedScope = snap.preManagedScope
	n.IsCycle = snap.isCycle
	for _, c := range snap.children {
		c.cloneInto(g, n.ID)
	}
	return n.ID
}

// completedEntry records a finished expansion for reuse.
type completedEntry struct {
	depth    int
	snapshot *nodeSnapshot
	version  string
}

// DataPool is the session-scoped table of canonical keys described in
// §4.F step 2: one namespace for descriptor requests, one for
// version-range requests (both delegated to the gateways themselves,
// which already key by request identity), and one for graph nodes,
// which DataPool owns directly so the collector can implement
// dependency-subtree reuse.
type DataPool struct {
	completed map[string]completedEntry
}

// NewDataPool returns an empty pool.
func NewDataPool() *DataPool {
	return &DataPool{completed: make(map[string]completedEntry)}
}

// Lookup returns a previously completed expansion for key, if one
// exists at depth <= the given depth (i.e. is at least as shallow as
// the current position, so reusing it cannot get a different result
// than expanding fresh).
func (p *DataPool) Lookup(key string, depth int) (completedEntry, bool) {
	e, ok := p.completed[key]
	if !ok || e.depth > depth {
		return completedEntry{}, false
	}
	return e, true
}

// Store records a completed expansion for key, but only if none is
// recorded yet or the new one is shallower (strictly improving future
// reuse opportunities without ever overwriting a shallower, equally
// valid entry with a deeper one). snapshot must describe a fully
// expanded subtree (see snapshotNode).
func (p *DataPool) Store(key string, depth int, version string, snapshot *nodeSnapshot) {
	if e, ok := p.completed[key]; ok && e.depth <= depth {
		return
	}
	p.completed[key] = completedEntry{depth: depth, snapshot: snapshot, version: version}
}
