package collect

import (
	"context"
	"testing"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/client"
	"github.com/artifactgraph/resolvercore/transform"
)

func TestReducedGraphSkipsPrunedNodes(t *testing.T) {
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

	c := newTestCollector(tc)
	result, err := c.Collect(context.Background(), CollectRequest{
		RootArtifact: &root,
		Dependencies: []artifact.Dependency{
			artifact.NewDependency(b, "compile"),
			artifact.NewDependency(cArt, "compile"),
		},
	})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	transform.NewPipeline().Run(result.Graph)

	reduced := ReducedGraph(result.Graph)
	if got, want := len(reduced), result.Graph.Len()-1; got != want {
		t.Fatalf("ReducedGraph has %d nodes, want %d (one pruned g:d loser excluded)", got, want)
	}
	for _, n := range reduced {
		if n.Pruned {
			t.Errorf("ReducedGraph included a pruned node: %s", n.Artifact())
		}
	}
}
