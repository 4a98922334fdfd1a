package policy

import "github.com/artifactgraph/resolvercore/artifact"

// DependencyManager overrides a dependency's version, scope,
// exclusions, or properties based on ancestors' declared dependency
// management.
type DependencyManager interface {
	ManageDependency(ctx DescentContext) (Management, bool)
	DeriveChildManager(ctx DescentContext) (next DependencyManager, changed bool)
}

// NoopDependencyManager applies no management and derives itself
// unchanged.
type NoopDependencyManager struct{}

func (NoopDependencyManager) ManageDependency(DescentContext) (Management, bool) { return Management{}, false }

func (m NoopDependencyManager) DeriveChildManager(DescentContext) (DependencyManager, bool) {
	return m, false
}

// ClassicDependencyManager is the default manager: it applies
// management only at depth >= 2 (the root's own direct dependencies
// are never managed — a declared version there is authoritative), and
// once a coordinate's management is recorded it is never replaced:
// "nearest-wins for management" means the first management entry seen
// along the descent from the root wins, not the nearest to the
// dependency being managed.
type ClassicDependencyManager struct {
	managed map[string]Management // keyed by versionless coordinate
}

// NewClassicDependencyManager builds a manager seeded with the root
// request's own managed-dependency declarations.
func NewClassicDependencyManager(managedDeps []artifact.Dependency) ClassicDependencyManager {
	m := make(map[string]Management, len(managedDeps))
	for _, d := range managedDeps {
		key := d.Artifact.VersionlessKey()
		if _, ok := m[key]; ok {
			continue // first one wins
		}
		m[key] = Management{
			Version:    d.Artifact.Version,
			Scope:      d.Scope,
			Exclusions: d.Exclusions,
		}
	}
	return ClassicDependencyManager{managed: m}
}

func (c ClassicDependencyManager) ManageDependency(ctx DescentContext) (Management, bool) {
	if ctx.Depth < 2 {
		return Management{}, false
	}
	mgmt, ok := c.managed[ctx.Dependency.Artifact.VersionlessKey()]
	if !ok {
		return Management{}, false
	}
	return mgmt, true
}

// DeriveChildManager returns the receiver unchanged: new management
// entries are folded in via MergeManaged, called directly by the
// collector once a dependency's descriptor-declared management is
// known, rather than through this derivation hook.
func (c ClassicDependencyManager) DeriveChildManager(DescentContext) (DependencyManager, bool) {
	return c, false
}

// MergeManaged returns a new ClassicDependencyManager with more's
// entries added beneath the receiver's, without overwriting any
// coordinate the receiver already manages.
func (c ClassicDependencyManager) MergeManaged(more []artifact.Dependency) (ClassicDependencyManager, bool) {
	if len(more) == 0 {
		return c, false
	}
	changed := false
	merged := make(map[string]Management, len(c.managed)+len(more))
	for k, v := range c.managed {
		merged[k] = v
	}
	for _, d := range more {
		key := d.Artifact.VersionlessKey()
		if _, ok := merged[key]; ok {
			continue
		}
		merged[key] = Management{Version: d.Artifact.Version, Scope: d.Scope, Exclusions: d.Exclusions}
		changed = true
	}
	if !changed {
		return c, false
	}
	return ClassicDependencyManager{managed: merged}, true
}
