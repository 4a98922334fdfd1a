package transform

import (
	"fmt"
	"strings"

	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/version"
)

// UnsolvableVersionConflict is accumulated on ConflictResolver.Unsolvable
// (and returned by Pipeline.Run), never unwound as a panic or returned error from
// Transform, per §9's "exceptions for control flow: there are none in
// the core" design note: resolution failures are data, not control
// flow.
type UnsolvableVersionConflict struct {
	ConflictID string
	Paths      []string
}

func (e *UnsolvableVersionConflict) Error() string {
	return fmt.Sprintf("no version of %s satisfies all accumulated hard constraints (paths: %s)", e.ConflictID, strings.Join(e.Paths, "; "))
}

// ConflictResolver implements §4.H: for each conflict group (as
// grouped by ConflictMarker), it elects one winning node via
// nearest-wins version selection with hard-constraint backtracking,
// derives the winner's scope from the parent/child scope table, and
// computes optionality as the AND of every candidate edge. Conflicts
// it cannot solve are appended to Unsolvable rather than failing the
// transform outright, mirroring the collector's own "accumulate, don't
// abort" failure semantics.
type ConflictResolver struct {
	Unsolvable []*UnsolvableVersionConflict
}

func (r *ConflictResolver) Transform(g *depgraph.Graph) error {
	// Conflict groups are iterated in the order their first member was
	// encountered, matching the deterministic preorder-DFS processing
	// order required by the concurrency model. That order does not
	// guarantee a node's ancestor's group resolves before the node's
	// own group does, though: deriveScope needs the parent's resolved
	// DerivedScope, so resolveGroup recursively resolves an unresolved
	// ancestor's group on demand via ensureGroupResolved instead of
	// relying on encounter order alone.
	order, groups := ConflictGroups(g)
	resolved := make(map[string]bool, len(order))
	for _, id := range order {
		r.ensureGroupResolved(g, groups, resolved, id)
	}
	return nil
}

// ensureGroupResolved resolves conflictID's group if it has not been
// resolved yet.
func (r *ConflictResolver) ensureGroupResolved(g *depgraph.Graph, groups map[string][]*depgraph.DependencyNode, resolved map[string]bool, conflictID string) {
	if resolved[conflictID] {
		return
	}
	resolved[conflictID] = true
	r.resolveGroup(g, conflictID, groups[conflictID], groups, resolved)
}

// resolveGroup elects a winner for one conflict group and marks every
// other member of the group as pruned.
func (r *ConflictResolver) resolveGroup(g *depgraph.Graph, conflictID string, candidates []*depgraph.DependencyNode, groups map[string][]*depgraph.DependencyNode, resolved map[string]bool) {
	if len(candidates) == 1 {
		r.finishGroup(g, candidates, candidates[0], groups, resolved)
		return
	}

	var hardConstraints []version.VersionConstraint
	var winner *depgraph.DependencyNode

	accepted := func(v version.Version) bool {
		for _, hc := range hardConstraints {
			if !hc.ContainsVersion(v) {
				return false
			}
		}
		return true
	}

	electFrom := func(pool []*depgraph.DependencyNode) *depgraph.DependencyNode {
		var best *depgraph.DependencyNode
		for _, cand := range pool {
			v, err := version.ParseVersion(cand.Version)
			if err != nil || !accepted(v) {
				continue
			}
			if best == nil || nearer(cand, best) {
				best = cand
			}
		}
		return best
	}

	var seen []*depgraph.DependencyNode
	for _, cand := range candidates {
		seen = append(seen, cand)

		if cand.Constraint.IsHard() {
			hardConstraints = append(hardConstraints, cand.Constraint)
			if winner != nil {
				wv, err := version.ParseVersion(winner.Version)
				if err != nil || !accepted(wv) {
					// Backtrack: forget the winner and re-elect from
					// everything seen so far under the new constraint set.
					winner = electFrom(seen)
					continue
				}
			}
		}

		if winner == nil {
			winner = electFrom(seen)
			continue
		}
		if cv, err := version.ParseVersion(cand.Version); err == nil && accepted(cv) && nearer(cand, winner) {
			winner = cand
		}
	}

	if winner == nil {
		var paths []string
		for _, cand := range candidates {
			paths = append(paths, pathTo(g, cand))
		}
		r.Unsolvable = append(r.Unsolvable, &UnsolvableVersionConflict{ConflictID: conflictID, Paths: paths})
	}
	r.finishGroup(g, candidates, winner, groups, resolved)
}

// finishGroup marks winner (which may be nil if the group is
// unsolvable, in which case every candidate is left unmarked) and
// every other candidate as pruned, then derives winner's scope and
// optionality.
func (r *ConflictResolver) finishGroup(g *depgraph.Graph, candidates []*depgraph.DependencyNode, winner *depgraph.DependencyNode, groups map[string][]*depgraph.DependencyNode, resolved map[string]bool) {
	if winner == nil {
		return
	}
	winner.Winner = true
	allOptional := true
	for _, cand := range candidates {
		if cand != winner {
			cand.Pruned = true
		}
		if cand.Dependency == nil || !cand.Dependency.Optional {
			allOptional = false
		}
	}
	winner.Optional = allOptional
	winner.DerivedScope = r.deriveScope(g, winner, groups, resolved)
}

// nearer implements §4.H's "nearer" ordering: true siblings (same
// parent) break ties by higher version; otherwise shallower depth
// wins; equal depth with different parents keeps the incumbent (tie
// broken by order of first encounter, i.e. a does not replace b).
func nearer(a, b *depgraph.DependencyNode) bool {
	if a.Parent == b.Parent {
		av, aerr := version.ParseVersion(a.Version)
		bv, berr := version.ParseVersion(b.Version)
		if aerr == nil && berr == nil {
			return av.Compare(bv) > 0
		}
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return false
}

// deriveScope computes the winner's derived scope from its parent's
// derived scope (or "compile" for a direct child of the root) and the
// edge's own declared scope, per §4.H's parent x child scope table. The
// parent's own conflict group is resolved first if it is not already,
// since ConflictGroups' first-encountered-preorder order does not
// guarantee a node's ancestor resolves before the node itself.
func (r *ConflictResolver) deriveScope(g *depgraph.Graph, n *depgraph.DependencyNode, groups map[string][]*depgraph.DependencyNode, resolved map[string]bool) string {
	childScope := "compile"
	if n.Dependency != nil && n.Dependency.Scope != "" {
		childScope = n.Dependency.Scope
	}
	if n.Parent == g.Root {
		return childScope
	}
	parentNode := g.Node(n.Parent)
	r.ensureGroupResolved(g, groups, resolved, parentNode.ConflictID)
	parentScope := parentNode.DerivedScope

	switch parentScope {
	case "", "compile":
		return childScope
	case "test":
		return "test"
	case "runtime":
		switch childScope {
		case "test":
			return "test"
		default:
			return "runtime"
		}
	case "system":
		switch childScope {
		case "system":
			return "system"
		case "test":
			return "test"
		default:
			return "provided"
		}
	case "provided":
		switch childScope {
		case "system":
			return "test"
		case "test":
			return "test"
		default:
			return "provided"
		}
	default:
		return childScope
	}
}

// pathTo renders the coordinate chain from the root down to n, for
// UnsolvableVersionConflict diagnostics.
func pathTo(g *depgraph.Graph, n *depgraph.DependencyNode) string {
	var chain []string
	for cur := n; ; {
		chain = append([]string{cur.Artifact().Key()}, chain...)
		if cur.ID == g.Root {
			break
		}
		cur = g.Node(cur.Parent)
	}
	return strings.Join(chain, " -> ")
}
