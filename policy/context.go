// Package policy implements the four composable collection policies
// (§4.E): DependencySelector, DependencyManager, DependencyTraverser,
// and VersionFilter, plus the And/Or/Chained combinators and the
// built-in Classic/Scope/Exclusion/Optional implementations.
//
// Every policy is purely functional given a DescentContext: it decides
// based on the current dependency and path, and derives the policy to
// hand down to that dependency's own children via a DeriveChild*
// method. Combinators must return the same instance when derivation
// produces no change, so that the collector can cheaply detect "no
// policy change along this edge" and share node subtrees structurally.
package policy

import "github.com/artifactgraph/resolvercore/artifact"

// DescentContext carries everything a policy needs to decide on one
// dependency edge: the dependency itself, the depth of the edge being
// considered (the root's direct dependencies are depth 1), and the
// derived scope/optional flags of the parent node the edge hangs off.
type DescentContext struct {
	Dependency  artifact.Dependency
	Depth       int
	ParentScope string
	ParentOpt   bool
}

// Management is the override a DependencyManager may apply to a
// dependency: any field left at its zero value (empty string, nil
// slice, or an Optional of 0) is not overridden.
type Management struct {
	Version    string
	Scope      string
	Exclusions []artifact.Exclusion
	// Optional is a tri-state override: 0 = no override, 1 = force
	// true, -1 = force false.
	Optional int8
}

// NoOverride reports whether m applies no override at all.
func (m Management) NoOverride() bool {
	return m.Version == "" && m.Scope == "" && len(m.Exclusions) == 0 && m.Optional == 0
}
