package policy

import "github.com/artifactgraph/resolvercore/artifact"

// DependencySelector decides whether a dependency edge is included in
// the collected graph at all.
type DependencySelector interface {
	SelectDependency(ctx DescentContext) bool
	// DeriveChildSelector returns the selector to use for this
	// dependency's own children, and whether that selector differs
	// from the receiver. Returning changed=false lets combinators (and
	// the collector) detect "no policy change along this edge" without
	// relying on interface equality, which would panic for variants
	// holding uncomparable fields like slices.
	DeriveChildSelector(ctx DescentContext) (next DependencySelector, changed bool)
}

// StaticDependencySelector always returns the same decision and
// derives itself unchanged; useful as a base case and in tests.
type StaticDependencySelector struct {
	Include bool
}

func (s StaticDependencySelector) SelectDependency(DescentContext) bool { return s.Include }

func (s StaticDependencySelector) DeriveChildSelector(DescentContext) (DependencySelector, bool) {
	return s, false
}

// AndDependencySelector includes an edge only if every member selector
// includes it.
type AndDependencySelector struct {
	Members []DependencySelector
}

func NewAndDependencySelector(members ...DependencySelector) DependencySelector {
	if len(members) == 1 {
		return members[0]
	}
	return AndDependencySelector{Members: members}
}

func (a AndDependencySelector) SelectDependency(ctx DescentContext) bool {
	for _, m := range a.Members {
		if !m.SelectDependency(ctx) {
			return false
		}
	}
	return true
}

func (a AndDependencySelector) DeriveChildSelector(ctx DescentContext) (DependencySelector, bool) {
	derived := make([]DependencySelector, len(a.Members))
	changed := false
	for i, m := range a.Members {
		next, ch := m.DeriveChildSelector(ctx)
		derived[i] = next
		changed = changed || ch
	}
	if !changed {
		return a, false
	}
	return AndDependencySelector{Members: derived}, true
}

// OrDependencySelector includes an edge if any member selector does.
type OrDependencySelector struct {
	Members []DependencySelector
}

func NewOrDependencySelector(members ...DependencySelector) DependencySelector {
	if len(members) == 1 {
		return members[0]
	}
	return OrDependencySelector{Members: members}
}

func (o OrDependencySelector) SelectDependency(ctx DescentContext) bool {
	for _, m := range o.Members {
		if m.SelectDependency(ctx) {
			return true
		}
	}
	return false
}

func (o OrDependencySelector) DeriveChildSelector(ctx DescentContext) (DependencySelector, bool) {
	derived := make([]DependencySelector, len(o.Members))
	changed := false
	for i, m := range o.Members {
		next, ch := m.DeriveChildSelector(ctx)
		derived[i] = next
		changed = changed || ch
	}
	if !changed {
		return o, false
	}
	return OrDependencySelector{Members: derived}, true
}

// ScopeDependencySelector elides dependencies whose effective scope is
// excluded (or not included, when an include set is configured), but
// only below depth 1: direct dependencies of the root are always kept
// regardless of scope.
type ScopeDependencySelector struct {
	Include map[string]bool // nil means "all scopes included"
	Exclude map[string]bool
}

// NewScopeDependencySelector builds a selector from include/exclude
// scope name lists. A nil or empty include list means every scope is
// included unless excluded.
func NewScopeDependencySelector(include, exclude []string) ScopeDependencySelector {
	s := ScopeDependencySelector{}
	if len(include) > 0 {
		s.Include = toSet(include)
	}
	if len(exclude) > 0 {
		s.Exclude = toSet(exclude)
	}
	return s
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}

func (s ScopeDependencySelector) SelectDependency(ctx DescentContext) bool {
	if ctx.Depth <= 1 {
		return true
	}
	scope := ctx.Dependency.Scope
	if s.Exclude != nil && s.Exclude[scope] {
		return false
	}
	if s.Include != nil && !s.Include[scope] {
		return false
	}
	return true
}

func (s ScopeDependencySelector) DeriveChildSelector(DescentContext) (DependencySelector, bool) {
	return s, false
}

// OptionalDependencySelector includes optional dependencies only at
// depth <= 1 (i.e. the root's own direct optional dependencies are
// kept; an optional dependency reached transitively is not).
type OptionalDependencySelector struct{}

func (OptionalDependencySelector) SelectDependency(ctx DescentContext) bool {
	if !ctx.Dependency.Optional {
		return true
	}
	return ctx.Depth <= 1
}

func (s OptionalDependencySelector) DeriveChildSelector(DescentContext) (DependencySelector, bool) {
	return s, false
}

// ExclusionDependencySelector accumulates exclusions along the descent
// path: a dependency is excluded if any accumulated exclusion pattern
// matches its coordinate. Derivation merges the current dependency's
// own exclusions into the child selector.
type ExclusionDependencySelector struct {
	exclusions []artifact.Exclusion
}

// NewExclusionDependencySelector builds a selector with no accumulated
// exclusions yet; exclusions accumulate as derivation descends.
func NewExclusionDependencySelector() ExclusionDependencySelector {
	return ExclusionDependencySelector{}
}

func (e ExclusionDependencySelector) SelectDependency(ctx DescentContext) bool {
	a := ctx.Dependency.Artifact
	for _, ex := range e.exclusions {
		if ex.Matches(a) {
			return false
		}
	}
	return true
}

func (e ExclusionDependencySelector) DeriveChildSelector(ctx DescentContext) (DependencySelector, bool) {
	if len(ctx.Dependency.Exclusions) == 0 {
		return e, false
	}
	merged := make([]artifact.Exclusion, 0, len(e.exclusions)+len(ctx.Dependency.Exclusions))
	merged = append(merged, e.exclusions...)
	merged = append(merged, ctx.Dependency.Exclusions...)
	return ExclusionDependencySelector{exclusions: merged}, true
}
