package transform

import (
	"context"
	"testing"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/client"
	"github.com/artifactgraph/resolvercore/collect"
	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/version"
)

func collectGraph(t *testing.T, tc *client.TestClient, req collect.CollectRequest) *depgraph.Graph {
	t.Helper()
	c := collect.NewCollector(collect.NewDescriptorGateway(tc), collect.NewRangeGateway(tc), nil)
	result, err := c.Collect(context.Background(), req)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return result.Graph
}

func addDesc(tc *client.TestClient, coord artifact.Artifact, deps ...artifact.Dependency) {
	tc.AddDescriptor(coord, client.DescriptorResult{EffectiveArtifact: coord, Dependencies: deps})
}

// Scenario 2 revisited: two g:d candidates at equal depth under
// different parents (siblings of the root, not of each other); the
// first encountered in preorder (g:d:1, reached via g:b) must win.
func TestConflictResolverNearestWinsByFirstEncounter(t *testing.T) {
	tc := client.NewTestClient()
	root := artifact.New("g", "a", "1")
	b := artifact.New("g", "b", "1")
	cArt := artifact.New("g", "c", "1")
	d1 := artifact.New("g", "d", "1")
	d2 := artifact.New("g", "d", "2")
	addDesc(tc, b, artifact.NewDependency(d1, "compile"))
	addDesc(tc, cArt, artifact.NewDependency(d2, "compile"))
	addDesc(tc, d1)
	addDesc(tc, d2)

	g := collectGraph(t, tc, collect.CollectRequest{
		RootArtifact: &root,
		Dependencies: []artifact.Dependency{
			artifact.NewDependency(b, "compile"),
			artifact.NewDependency(cArt, "compile"),
		},
	})

	p := NewPipeline()
	if unsolved := p.Run(g); len(unsolved) != 0 {
		t.Fatalf("unexpected unsolvable conflicts: %v", unsolved)
	}

	var winner *depgraph.DependencyNode
	var prunedCount int
	for _, id := range g.AllNodeIDs() {
		n := g.Node(id)
		if n.ConflictID != "g:d:jar" {
			continue
		}
		if n.Winner {
			winner = n
		}
		if n.Pruned {
			prunedCount++
		}
	}
	if winner == nil {
		t.Fatalf("no winner marked for g:d conflict group")
	}
	if winner.Version != "1" {
		t.Errorf("winner.Version = %q, want 1 (nearest by first encounter)", winner.Version)
	}
	if prunedCount != 1 {
		t.Errorf("prunedCount = %d, want 1", prunedCount)
	}
}

// Scenario 6: root depends on g:x:[1.0,1.2] and g:x:[2.0,2.2], two
// disjoint hard ranges on the same coordinate declared as siblings of
// the root. No version can satisfy both, so the resolver must record
// an UnsolvableVersionConflict while leaving the graph (both
// candidates) intact.
func TestConflictResolverUnsolvableHardRangeConflict(t *testing.T) {
	tc := client.NewTestClient()
	root := artifact.New("g", "a", "1")
	xVersionless := artifact.New("g", "x", "")
	for _, v := range []string{"1.0", "1.1", "1.2", "2.0", "2.1", "2.2"} {
		tc.AddVersion(xVersionless, version.MustParseVersion(v))
		addDesc(tc, artifact.New("g", "x", v))
	}

	g := collectGraph(t, tc, collect.CollectRequest{
		RootArtifact: &root,
		Dependencies: []artifact.Dependency{
			artifact.NewDependency(artifact.New("g", "x", "[1.0,1.2]"), "compile"),
			artifact.NewDependency(artifact.New("g", "x", "[2.0,2.2]"), "compile"),
		},
	})

	p := NewPipeline()
	unsolved := p.Run(g)
	if len(unsolved) != 1 {
		t.Fatalf("Unsolvable = %v, want exactly one entry", unsolved)
	}
	if unsolved[0].ConflictID != "g:x:jar" {
		t.Errorf("ConflictID = %q, want g:x:jar", unsolved[0].ConflictID)
	}
	if len(unsolved[0].Paths) != 2 {
		t.Errorf("Paths = %v, want 2 entries (both candidates)", unsolved[0].Paths)
	}

	var winners int
	for _, id := range g.AllNodeIDs() {
		if g.Node(id).ConflictID == "g:x:jar" && g.Node(id).Winner {
			winners++
		}
	}
	if winners != 0 {
		t.Errorf("winners = %d, want 0 for an unsolvable conflict", winners)
	}
}

// A conflict group can be elected (and so need its scope derived)
// before one of its winner's own ancestors has had its group resolved,
// since ConflictGroups' order is keyed off first encounter, not depth.
// Here g:d is first encountered via the deeper g:b -> g:x -> g:y -> D1
// chain, registering "g:d" in the processing order before "g:z" is ever
// seen; but the shallower g:c -> g:z -> D2 candidate is the one nearer()
// actually elects, so resolving "g:d" requires resolving D2's parent
// g:z's own (still-pending) group first to derive D2's scope correctly.
func TestConflictResolverDerivesScopeThroughPendingAncestorGroup(t *testing.T) {
	tc := client.NewTestClient()
	root := artifact.New("g", "a", "1")
	b := artifact.New("g", "b", "1")
	x := artifact.New("g", "x", "1")
	y := artifact.New("g", "y", "1")
	d1 := artifact.New("g", "d", "1")
	cArt := artifact.New("g", "c", "1")
	z := artifact.New("g", "z", "1")
	d2 := artifact.New("g", "d", "2")

	addDesc(tc, b, artifact.NewDependency(x, "compile"))
	addDesc(tc, x, artifact.NewDependency(y, "compile"))
	addDesc(tc, y, artifact.NewDependency(d1, "runtime"))
	addDesc(tc, d1)
	addDesc(tc, cArt, artifact.NewDependency(z, "test"))
	addDesc(tc, z, artifact.NewDependency(d2, "compile"))
	addDesc(tc, d2)

	g := collectGraph(t, tc, collect.CollectRequest{
		RootArtifact: &root,
		Dependencies: []artifact.Dependency{
			artifact.NewDependency(b, "compile"),
			artifact.NewDependency(cArt, "compile"),
		},
	})

	p := NewPipeline()
	if unsolved := p.Run(g); len(unsolved) != 0 {
		t.Fatalf("unexpected unsolvable conflicts: %v", unsolved)
	}

	var winner *depgraph.DependencyNode
	for _, id := range g.AllNodeIDs() {
		n := g.Node(id)
		if n.ConflictID == "g:d:jar" && n.Winner {
			winner = n
		}
	}
	if winner == nil {
		t.Fatalf("no winner marked for g:d conflict group")
	}
	if winner.Version != "2" {
		t.Fatalf("winner.Version = %q, want 2 (nearer via the shallower g:c -> g:z path)", winner.Version)
	}
	if winner.DerivedScope != "test" {
		t.Errorf("winner.DerivedScope = %q, want test (inherited through g:z, not compile from an unresolved-ancestor fallback)", winner.DerivedScope)
	}
}
