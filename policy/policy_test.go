package policy

import (
	"testing"

	"github.com/artifactgraph/resolvercore/artifact"
)

func dep(group, id, scope string, optional bool) artifact.Dependency {
	return artifact.NewDependency(artifact.New(group, id, "1.0"), scope).WithOptional(optional)
}

func TestScopeDependencySelectorKeepsDirectDeps(t *testing.T) {
	s := NewScopeDependencySelector(nil, []string{"test"})
	ctx := DescentContext{Dependency: dep("g", "a", "test", false), Depth: 1}
	if !s.SelectDependency(ctx) {
		t.Errorf("expected direct dependency to be kept regardless of scope")
	}
	ctx.Depth = 2
	if s.SelectDependency(ctx) {
		t.Errorf("expected transitive test-scope dependency to be excluded")
	}
}

func TestOptionalDependencySelector(t *testing.T) {
	s := OptionalDependencySelector{}
	direct := DescentContext{Dependency: dep("g", "a", "compile", true), Depth: 1}
	if !s.SelectDependency(direct) {
		t.Errorf("expected direct optional dependency to be kept")
	}
	transitive := DescentContext{Dependency: dep("g", "a", "compile", true), Depth: 2}
	if s.SelectDependency(transitive) {
		t.Errorf("expected transitive optional dependency to be excluded")
	}
}

func TestExclusionDependencySelectorAccumulates(t *testing.T) {
	root := NewExclusionDependencySelector()
	parentDep := dep("g", "parent", "compile", false).WithExclusions([]artifact.Exclusion{{GroupID: "g", ArtifactID: "excluded"}})
	child, changed := root.DeriveChildSelector(DescentContext{Dependency: parentDep, Depth: 1})
	if !changed {
		t.Fatalf("expected derivation to report a change when exclusions are present")
	}
	excludedDep := dep("g", "excluded", "compile", false)
	if child.SelectDependency(DescentContext{Dependency: excludedDep, Depth: 2}) {
		t.Errorf("expected excluded dependency to be rejected by derived selector")
	}

	again, changed := child.DeriveChildSelector(DescentContext{Dependency: dep("g", "other", "compile", false), Depth: 2})
	if changed {
		t.Errorf("expected no-op derivation (no new exclusions) to report unchanged")
	}
	if again.SelectDependency(DescentContext{Dependency: excludedDep, Depth: 3}) {
		t.Errorf("expected accumulated exclusion to still apply")
	}
}

func TestAndDependencySelectorNoopDerivation(t *testing.T) {
	and := NewAndDependencySelector(StaticDependencySelector{Include: true}, NewExclusionDependencySelector())
	ctx := DescentContext{Dependency: dep("g", "a", "compile", false), Depth: 1}
	if _, changed := and.DeriveChildSelector(ctx); changed {
		t.Errorf("expected no-op AND derivation to report unchanged")
	}
}

func TestClassicDependencyManagerAppliesAtDepthTwo(t *testing.T) {
	managed := []artifact.Dependency{
		artifact.NewDependency(artifact.New("g", "b", "9.9"), "runtime"),
	}
	mgr := NewClassicDependencyManager(managed)

	direct := DescentContext{Dependency: dep("g", "b", "1.0", false), Depth: 1}
	if _, ok := mgr.ManageDependency(direct); ok {
		t.Errorf("expected no management applied at depth 1")
	}

	transitive := DescentContext{Dependency: dep("g", "b", "1.0", false), Depth: 2}
	got, ok := mgr.ManageDependency(transitive)
	if !ok {
		t.Fatalf("expected management applied at depth 2")
	}
	if got.Version != "9.9" || got.Scope != "runtime" {
		t.Errorf("ManageDependency() = %+v, want version 9.9 scope runtime", got)
	}
}

func TestClassicDependencyManagerFirstManagementWins(t *testing.T) {
	mgr := NewClassicDependencyManager([]artifact.Dependency{
		artifact.NewDependency(artifact.New("g", "b", "1.0"), "compile"),
	})
	merged, changed := mgr.MergeManaged([]artifact.Dependency{
		artifact.NewDependency(artifact.New("g", "b", "2.0"), "runtime"),
	})
	if changed {
		t.Fatalf("expected MergeManaged to report no change for an already-managed coordinate")
	}
	got, ok := merged.ManageDependency(DescentContext{Dependency: dep("g", "b", "0.1", false), Depth: 2})
	if !ok || got.Version != "1.0" {
		t.Errorf("expected first-seen management (1.0) to win, got %+v", got)
	}
}
