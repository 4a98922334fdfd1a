package collect

import (
	"context"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/policy"
	"github.com/artifactgraph/resolvercore/version"
)

// pendingEdge is one dependency edge waiting to be expanded by the
// breadth-first collector.
type pendingEdge struct {
	parent    depgraph.NodeID
	dep       artifact.Dependency
	depth     int
	sel       policy.DependencySelector
	mgr       policy.DependencyManager
	trav      policy.DependencyTraverser
	filt      policy.VersionFilter
	repos     []string
	ancestors []ancestor
}

// edgeOutcome is what expandOne learned about one dequeued edge: whether
// it produced a node at all, whether that node still has pending
// children to expand, and (if so) the pool key it should eventually be
// stored under once its whole subtree is complete.
type edgeOutcome struct {
	artifact artifact.Artifact
	hasNode  bool
	nodeID   depgraph.NodeID

	// expanding is true only for a node that went through a full,
	// fresh expansion of its own dependency list (as opposed to being
	// skipped, erroring, terminating a cycle, declining traversal, or
	// reusing a cached subtree) — the only case with deferred pool
	// storage and follow-on childEdges.
	expanding  bool
	key        string
	childEdges []pendingEdge
}

// completion tracks one expanding node waiting for its children (and,
// transitively, their own children) to finish, so its subtree can be
// snapshotted into the DataPool only once it is fully formed — storing
// it any earlier (e.g. at discovery time, before Children is populated)
// would let a later cache hit attach a truncated subtree instead of the
// real one.
type completion struct {
	remaining    int
	key          string
	depth        int
	parent       depgraph.NodeID
	parentIsRoot bool
}

// CollectBreadthFirst is the simpler, non-reconciling breadth-first
// variant: it processes pending edges level by level instead of via
// recursion, but applies exactly the same per-edge logic as the
// depth-first Collect (same DataPool, same dedup-by-depth rule, no
// skip-and-reconcile backtracking). The design notes offer this mainly
// as a building block for an eventual reconciling variant; on its own
// it produces the same graph as Collect, just in a different node
// allocation order, because nothing here deduplicates sibling work
// within a single level before it touches the network; requests are
// not batched across a level.
func (c *Collector) CollectBreadthFirst(ctx context.Context, req CollectRequest) (*CollectResult, error) {
	if req.RootDependency == nil && req.RootArtifact == nil {
		return nil, errNoRoot
	}
	sel := req.Selector
	if sel == nil {
		sel = policy.StaticDependencySelector{Include: true}
	}
	mgr := req.Manager
	if mgr == nil {
		mgr = policy.NewClassicDependencyManager(req.ManagedDependencies)
	}
	trav := req.Traverser
	if trav == nil {
		trav = policy.StaticDependencyTraverser{Traverse: true}
	}
	filt := req.Filter
	if filt == nil {
		filt = policy.NoopVersionFilter{}
	}

	result := &CollectResult{Graph: depgraph.NewGraph()}

	var rootArtifactForNode artifact.Artifact
	if req.RootDependency != nil {
		rootArtifactForNode = req.RootDependency.Artifact
	} else {
		rootArtifactForNode = *req.RootArtifact
	}

	root := result.Graph.NewNode(-1)
	result.Graph.Root = root.ID
	root.Version = rootArtifactForNode.Version
	if req.RootDependency != nil {
		d := *req.RootDependency
		root.Dependency = &d
	}
	c.Listener.NodeAdded(rootArtifactForNode)
	c.Listener.NodeResolved(rootArtifactForNode)

	rootAncestors := []ancestor{{coordinate: rootArtifactForNode.VersionlessKey(), node: root.ID}}

	pending := make(map[depgraph.NodeID]*completion)

	var queue []pendingEdge
	for _, d := range req.Dependencies {
		queue = append(queue, pendingEdge{parent: root.ID, dep: d, depth: 1, sel: sel, mgr: mgr, trav: trav, filt: filt, repos: req.Repositories, ancestors: rootAncestors})
	}

	for len(queue) > 0 {
		edge := queue[0]
		queue = queue[1:]
		parentIsRoot := edge.parent == root.ID

		outcome := c.expandOne(ctx, result, edge)
		if !outcome.hasNode {
			c.notifyParentDone(result, pending, edge.parent, parentIsRoot)
			continue
		}
		if !outcome.expanding {
			c.notifyParentDone(result, pending, edge.parent, parentIsRoot)
			continue
		}

		cs := &completion{remaining: len(outcome.childEdges), key: outcome.key, depth: edge.depth, parent: edge.parent, parentIsRoot: parentIsRoot}
		if cs.remaining == 0 {
			c.finishNode(result, pending, outcome.nodeID, cs)
			continue
		}
		pending[outcome.nodeID] = cs
		queue = append(queue, outcome.childEdges...)
	}
	return result, nil
}

// notifyParentDone records that one of parent's pending child edges has
// resolved (whether or not it produced a node), cascading a finish up
// the tree if that was parent's last outstanding child.
func (c *Collector) notifyParentDone(result *CollectResult, pending map[depgraph.NodeID]*completion, parent depgraph.NodeID, parentIsRoot bool) {
	if parentIsRoot {
		return
	}
	cs, ok := pending[parent]
	if !ok {
		return
	}
	cs.remaining--
	if cs.remaining == 0 {
		c.finishNode(result, pending, parent, cs)
	}
}

// finishNode snapshots id's now-fully-expanded subtree into the
// DataPool and propagates completion to its own parent.
func (c *Collector) finishNode(result *CollectResult, pending map[depgraph.NodeID]*completion, id depgraph.NodeID, cs *completion) {
	c.pool.Store(cs.key, cs.depth, result.Graph.Node(id).Version, snapshotNode(result.Graph, id))
	delete(pending, id)
	c.notifyParentDone(result, pending, cs.parent, cs.parentIsRoot)
}

// expandOne runs the same per-edge logic as expand, but returns the
// follow-on edges instead of recursing into them directly, so the
// breadth-first caller can interleave levels.
func (c *Collector) expandOne(ctx context.Context, result *CollectResult, edge pendingEdge) edgeOutcome {
	dep := edge.dep
	descentCtx := policy.DescentContext{Dependency: dep, Depth: edge.depth}

	premanagedVersion := dep.Artifact.Version
	premanagedScope := dep.Scope
	if m, ok := edge.mgr.ManageDependency(descentCtx); ok {
		if m.Version != "" {
			dep.Artifact = dep.Artifact.WithVersion(m.Version)
		}
		if m.Scope != "" {
			dep.Scope = m.Scope
		}
		if len(m.Exclusions) > 0 {
			dep = dep.MergeExclusions(m.Exclusions)
		}
		switch m.Optional {
		case 1:
			dep.Optional = true
		case -1:
			dep.Optional = false
		}
		descentCtx.Dependency = dep
	}

	if !edge.sel.SelectDependency(descentCtx) {
		return edgeOutcome{}
	}

	candidate, candidateRepos, err := c.resolveCandidate(ctx, dep, edge.filt, edge.repos)
	if err != nil {
		result.Exceptions = append(result.Exceptions, &VersionRangeError{Coordinate: dep.Artifact.VersionlessKey(), Cause: err})
		return edgeOutcome{}
	}
	constraint, _ := version.ParseVersionConstraint(dep.Artifact.Version)

	node := result.Graph.NewNode(edge.parent)
	result.Graph.AddChild(edge.parent, node.ID)
	d := dep
	node.Dependency = &d
	node.Version = candidate
	node.Constraint = constraint
	node.Repositories = candidateRepos
	node.PreManagedVersion = premanagedVersion
	node.PreManagedScope = premanagedScope

	c.Listener.NodeAdded(dep.Artifact.WithVersion(candidate))

	resolvedArtifact, relocations, children, managedDeps, descriptorRepos, fetchErr := c.fetchDescriptorWithRelocation(ctx, dep.Artifact.WithVersion(candidate), candidateRepos)
	node.Relocations = relocations
	if len(relocations) > 0 {
		result.Relocations = append(result.Relocations, relocations...)
		node.Version = resolvedArtifact.Version
		d.Artifact = resolvedArtifact
		node.Dependency = &d
	}
	if fetchErr != nil {
		result.Exceptions = append(result.Exceptions, fetchErr)
		return edgeOutcome{artifact: resolvedArtifact, hasNode: true, nodeID: node.ID}
	}
	c.Listener.NodeResolved(resolvedArtifact)

	coordinate := resolvedArtifact.VersionlessKey()
	for _, a := range edge.ancestors {
		if a.coordinate == coordinate {
			node.IsCycle = true
			result.Cycles = append(result.Cycles, depgraph.Cycle{From: a.node, To: node.ID, Coordinate: coordinate})
			return edgeOutcome{artifact: resolvedArtifact, hasNode: true, nodeID: node.ID}
		}
	}

	if !edge.trav.TraverseDependency(descentCtx) {
		return edgeOutcome{artifact: resolvedArtifact, hasNode: true, nodeID: node.ID}
	}

	childSel, _ := edge.sel.DeriveChildSelector(descentCtx)
	childMgr, _ := edge.mgr.DeriveChildManager(descentCtx)
	childTrav, _ := edge.trav.DeriveChildTraverser(descentCtx)
	childFilt, _ := edge.filt.DeriveChildFilter(descentCtx)
	if classic, ok := childMgr.(policy.ClassicDependencyManager); ok {
		if merged, changed := classic.MergeManaged(managedDeps); changed {
			childMgr = merged
		}
	}
	childRepos := unionRepositories(descriptorRepos, candidateRepos)

	key := nodeKey(coordinate, constraint.String(), dep.Scope, dep.Optional, premanagedScope, dep.Exclusions)

	if cached, ok := c.pool.Lookup(key, edge.depth); ok {
		for _, childSnap := range cached.snapshot.children {
			childSnap.cloneInto(result.Graph, node.ID)
		}
		return edgeOutcome{artifact: resolvedArtifact, hasNode: true, nodeID: node.ID}
	}

	childAncestors := append(append([]ancestor(nil), edge.ancestors...), ancestor{coordinate: coordinate, node: node.ID})
	childEdges := make([]pendingEdge, 0, len(children))
	for _, cd := range children {
		childEdges = append(childEdges, pendingEdge{
			parent: node.ID, dep: cd, depth: edge.depth + 1,
			sel: childSel, mgr: childMgr, trav: childTrav, filt: childFilt,
			repos: childRepos, ancestors: childAncestors,
		})
	}
	return edgeOutcome{artifact: resolvedArtifact, hasNode: true, nodeID: node.ID, expanding: true, key: key, childEdges: childEdges}
}
