package policy

// DependencyTraverser decides, after a dependency edge has already been
// included by a DependencySelector, whether to expand its children.
type DependencyTraverser interface {
	TraverseDependency(ctx DescentContext) bool
	DeriveChildTraverser(ctx DescentContext) (next DependencyTraverser, changed bool)
}

// StaticDependencyTraverser always returns the same decision.
type StaticDependencyTraverser struct {
	Traverse bool
}

func (s StaticDependencyTraverser) TraverseDependency(DescentContext) bool { return s.Traverse }

func (s StaticDependencyTraverser) DeriveChildTraverser(DescentContext) (DependencyTraverser, bool) {
	return s, false
}

// FatArtifactTraverser stops expansion below any dependency whose
// coordinate is in a fixed "fat" set (artifacts known to shade or
// bundle their own dependencies, so traversing into them would
// double-count). It is otherwise equivalent to StaticDependencyTraverser{true}.
type FatArtifactTraverser struct {
	Fat map[string]bool // versionless coordinates
}

func (f FatArtifactTraverser) TraverseDependency(ctx DescentContext) bool {
	return !f.Fat[ctx.Dependency.Artifact.VersionlessKey()]
}

func (f FatArtifactTraverser) DeriveChildTraverser(DescentContext) (DependencyTraverser, bool) {
	return f, false
}
