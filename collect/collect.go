// Package collect implements the dependency collector (§4.F): it
// expands a CollectRequest into a raw DependencyNode graph by fetching
// descriptors and resolving version ranges, applying the four
// collection policies from the policy package along the way.
//
// Parallelism is confined to descriptor and range fetches (through the
// gateways); all graph construction here runs single-threaded on the
// calling goroutine for determinism, per the concurrency model.
package collect

import (
	"context"
	"errors"
	"fmt"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/client"
	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/policy"
	"github.com/artifactgraph/resolvercore/version"
)

// Logger receives free-form trace lines from the collector. The zero
// value (nil) disables logging entirely.
type Logger func(format string, args ...any)

func (l Logger) logf(format string, args ...any) {
	if l != nil {
		l(format, args...)
	}
}

// maxRelocations bounds the relocation-restart loop (§4.F step 4) so a
// misbehaving or cyclic relocation chain cannot hang a collection.
const maxRelocations = 16

// errNoRoot is returned when a CollectRequest names neither a root
// dependency nor a root artifact.
var errNoRoot = errors.New("collect: CollectRequest needs a RootDependency or RootArtifact")

// CollectRequest is the input to a collection: either a root
// dependency or a root artifact with its own direct dependencies, plus
// any dependency management declared at the request level and the
// initial repository list to search.
type CollectRequest struct {
	RootDependency      *artifact.Dependency
	RootArtifact        *artifact.Artifact
	Dependencies        []artifact.Dependency
	ManagedDependencies []artifact.Dependency
	Repositories        []string
	Trace               *client.Trace

	Selector  policy.DependencySelector
	Manager   policy.DependencyManager
	Traverser policy.DependencyTraverser
	Filter    policy.VersionFilter
}

// CollectResult is the collector's output: the raw graph, any detected
// cycles, and every non-fatal exception accumulated along the way.
type CollectResult struct {
	Graph       *depgraph.Graph
	Cycles      []depgraph.Cycle
	Exceptions  []error
	Relocations []artifact.Artifact
}

// Collector ties the external gateways and listener together into one
// session; a Collector is intended for a single CollectRequest's
// lifetime, matching the "session-scoped caches... created per
// CollectRequest-chain and discarded at the end" ownership rule.
type Collector struct {
	Descriptors *DescriptorGateway
	Ranges      *RangeGateway
	Listener    client.Listener
	Log         Logger

	pool *DataPool
}

// NewCollector builds a Collector from the two external gateways. A nil
// listener is replaced with client.NoopListener.
func NewCollector(descriptors *DescriptorGateway, ranges *RangeGateway, listener client.Listener) *Collector {
	if listener == nil {
		listener = client.NoopListener{}
	}
	return &Collector{Descriptors: descriptors, Ranges: ranges, Listener: listener, pool: NewDataPool()}
}

// ancestor tracks one entry of the chain from the root down to the
// current position, for cycle detection (§4.F step 6).
type ancestor struct {
	coordinate string
	node       depgraph.NodeID
}

// Collect runs the depth-first collector variant: a direct recursive
// descent using the call stack, as the design notes recommend trying
// first before the more elaborate breadth-first-with-reconciliation
// variant (see DESIGN.md for why this module stops there).
func (c *Collector) Collect(ctx context.Context, req CollectRequest) (*CollectResult, error) {
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

	var rootDeps []artifact.Dependency
	var rootArtifactForNode artifact.Artifact
	if req.RootDependency != nil {
		rootArtifactForNode = req.RootDependency.Artifact
		rootDeps = req.Dependencies
	} else {
		rootArtifactForNode = *req.RootArtifact
		rootDeps = req.Dependencies
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

	ancestors := []ancestor{{coordinate: rootArtifactForNode.VersionlessKey(), node: root.ID}}

	for _, d := range rootDeps {
		c.expand(ctx, result, root.ID, d, 1, sel, mgr, trav, filt, req.Repositories, ancestors)
	}
	return result, nil
}

// expand handles one pending dependency edge: management, selection,
// range resolution, descriptor fetch (with relocation restart), cycle
// detection, dedup/reuse, and recursive expansion of its own children.
// It implements §4.F steps 3 through 7 for a single edge.
func (c *Collector) expand(
	ctx context.Context,
	result *CollectResult,
	parent depgraph.NodeID,
	dep artifact.Dependency,
	depth int,
	sel policy.DependencySelector,
	mgr policy.DependencyManager,
	trav policy.DependencyTraverser,
	filt policy.VersionFilter,
	repos []string,
	ancestors []ancestor,
) {
	descentCtx := policy.DescentContext{Dependency: dep, Depth: depth}

	premanagedVersion := dep.Artifact.Version
	premanagedScope := dep.Scope
	if m, ok := mgr.ManageDependency(descentCtx); ok {
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

	if !sel.SelectDependency(descentCtx) {
		c.Log.logf("skip %s: excluded by selector", dep.Artifact)
		return
	}

	candidate, candidateRepos, err := c.resolveCandidate(ctx, dep, filt, repos)
	if err != nil {
		result.Exceptions = append(result.Exceptions, &VersionRangeError{Coordinate: dep.Artifact.VersionlessKey(), Cause: err})
		c.Log.logf("range resolution failed for %s: %v", dep.Artifact.VersionlessKey(), err)
		return
	}
	constraint, _ := version.ParseVersionConstraint(dep.Artifact.Version)

	node := result.Graph.NewNode(parent)
	result.Graph.AddChild(parent, node.ID)
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
		c.Log.logf("descriptor fetch failed for %s: %v", resolvedArtifact, fetchErr)
		return
	}
	c.Listener.NodeResolved(resolvedArtifact)

	coordinate := resolvedArtifact.VersionlessKey()
	for _, a := range ancestors {
		if a.coordinate == coordinate {
			node.IsCycle = true
			result.Cycles = append(result.Cycles, depgraph.Cycle{From: a.node, To: node.ID, Coordinate: coordinate})
			return
		}
	}

	if !trav.TraverseDependency(descentCtx) {
		return
	}

	childSel, _ := sel.DeriveChildSelector(descentCtx)
	childMgr, _ := mgr.DeriveChildManager(descentCtx)
	childTrav, _ := trav.DeriveChildTraverser(descentCtx)
	childFilt, _ := filt.DeriveChildFilter(descentCtx)
	if classic, ok := childMgr.(policy.ClassicDependencyManager); ok {
		if merged, changed := classic.MergeManaged(managedDeps); changed {
			childMgr = merged
		}
	}

	childRepos := unionRepositories(descriptorRepos, candidateRepos)

	key := nodeKey(coordinate, constraint.String(), dep.Scope, dep.Optional, premanagedScope, dep.Exclusions)

	if cached, ok := c.pool.Lookup(key, depth); ok {
		for _, childSnap := range cached.snapshot.children {
			childSnap.cloneInto(result.Graph, node.ID)
		}
		c.Log.logf("reuse cached expansion for %s at depth %d", coordinate, depth)
		return
	}

	childAncestors := append(append([]ancestor(nil), ancestors...), ancestor{coordinate: coordinate, node: node.ID})
	for _, cd := range children {
		c.expand(ctx, result, node.ID, cd, depth+1, childSel, childMgr, childTrav, childFilt, childRepos, childAncestors)
	}

	c.pool.Store(key, depth, node.Version, snapshotNode(result.Graph, node.ID))
}

// resolveCandidate implements §4.F step 3: resolve a dependency's
// version constraint into a single concrete candidate version. A soft
// constraint resolves to its own preferred version directly (no range
// lookup needed). A hard constraint consults the RangeGateway, applies
// the VersionFilter, and picks the highest surviving version, ties
// broken by source repository order.
func (c *Collector) resolveCandidate(ctx context.Context, dep artifact.Dependency, filt policy.VersionFilter, repos []string) (string, []string, error) {
	constraint, err := version.ParseVersionConstraint(dep.Artifact.Version)
	if err != nil {
		return "", nil, fmt.Errorf("parse version constraint %q: %w", dep.Artifact.Version, err)
	}
	if !constraint.IsHard() {
		v, _ := constraint.PreferredVersion()
		return v.String(), repos, nil
	}

	result, err := c.Ranges.Resolve(ctx, client.RangeRequest{Artifact: dep.Artifact, Repositories: repos})
	if err != nil {
		return "", nil, err
	}
	var survivors []version.Version
	var survivorRepos []string
	for i, v := range result.Versions {
		if !constraint.ContainsVersion(v) {
			continue
		}
		survivors = append(survivors, v)
		if i < len(result.RepositoryOfEachVersion) {
			survivorRepos = append(survivorRepos, result.RepositoryOfEachVersion[i])
		} else {
			survivorRepos = append(survivorRepos, "")
		}
	}
	survivors = filt.FilterVersions(policy.FilterContext{Versions: survivors})
	if len(survivors) == 0 {
		return "", nil, errNoVersionsSurvived
	}
	best := 0
	for i := 1; i < len(survivors); i++ {
		if survivors[i].Compare(survivors[best]) > 0 {
			best = i
		}
	}
	return survivors[best].String(), repos, nil
}

// fetchDescriptorWithRelocation implements §4.F step 4: fetch the
// descriptor for a candidate artifact, following relocation directives
// until the descriptor settles on a non-relocated effective artifact
// (or the relocation budget is exhausted).
func (c *Collector) fetchDescriptorWithRelocation(ctx context.Context, candidate artifact.Artifact, repos []string) (
	resolved artifact.Artifact,
	relocations []artifact.Artifact,
	children []artifact.Dependency,
	managedDeps []artifact.Dependency,
	descriptorRepos []string,
	err error,
) {
	current := candidate
	for i := 0; i < maxRelocations; i++ {
		result, fetchErr := c.Descriptors.Read(ctx, client.DescriptorRequest{Artifact: current, Repositories: repos})
		if fetchErr != nil {
			return current, relocations, nil, nil, nil, &client.ArtifactDescriptorError{Artifact: current, Cause: fetchErr}
		}
		if len(result.Relocations) > 0 {
			relocations = append(relocations, result.Relocations...)
		}
		if result.EffectiveArtifact.GroupID != "" && result.EffectiveArtifact.VersionlessKey() != current.VersionlessKey() {
			if len(result.Relocations) == 0 {
				relocations = append(relocations, current)
			}
			current = result.EffectiveArtifact
			continue
		}
		return result.EffectiveArtifact, relocations, result.Dependencies, result.ManagedDependencies, result.Repositories, nil
	}
	return current, relocations, nil, nil, nil, fmt.Errorf("too many relocations starting from %s", candidate)
}

// unionRepositories merges b into a, deduplicating while preserving a's
// order and appending b's new entries after it.
func unionRepositories(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, r := range a {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, r := range b {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
