// Command resolvegraph is a minimal example wiring the collector, the
// transform pipeline, and the mavenpom adapter together against a real
// Maven repository — the same "parse coordinates from flags, resolve,
// print" shape as the teacher's examples/go/maven_parse_resolve and
// examples/go/dependencies_dot commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/artifactgraph/resolvercore/adapter/mavenpom"
	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/collect"
	"github.com/artifactgraph/resolvercore/depgraph"
	"github.com/artifactgraph/resolvercore/transform"
)

type depFlags []string

func (d *depFlags) String() string { return strings.Join(*d, ",") }
func (d *depFlags) Set(v string) error {
	*d = append(*d, v)
	return nil
}

var (
	root  = flag.String("root", "", "root artifact coordinate, groupId:artifactId:version")
	deps  depFlags
	repos = flag.String("repos", "https://repo1.maven.org/maven2", "comma-separated repository base URLs")
	bfs   = flag.Bool("bfs", false, "use the breadth-first collector instead of depth-first")
)

func main() {
	flag.Var(&deps, "dep", "a direct dependency coordinate groupId:artifactId:version[:scope], repeatable")
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resolvegraph -root g:a:1.0 -dep g:b:2.0 [-dep g:c:1.0:test] [-repos url1,url2]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *root == "" || len(deps) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	rootArtifact, err := parseCoordinate(*root)
	if err != nil {
		log.Fatalf("parsing -root: %v", err)
	}
	var dependencies []artifact.Dependency
	for _, d := range deps {
		dep, err := parseDependency(d)
		if err != nil {
			log.Fatalf("parsing -dep %q: %v", d, err)
		}
		dependencies = append(dependencies, dep)
	}
	repositories := strings.Split(*repos, ",")

	reader := mavenpom.NewReader(nil)
	rangeResolver := mavenpom.NewRangeResolver(nil)
	collector := collect.NewCollector(
		collect.NewDescriptorGateway(reader),
		collect.NewRangeGateway(rangeResolver),
		nil,
	)

	ctx := context.Background()
	req := collect.CollectRequest{
		RootArtifact: &rootArtifact,
		Dependencies: dependencies,
		Repositories: repositories,
	}
	var result *collect.CollectResult
	if *bfs {
		result, err = collector.CollectBreadthFirst(ctx, req)
	} else {
		result, err = collector.Collect(ctx, req)
	}
	if err != nil {
		log.Fatalf("collecting: %v", err)
	}

	unsolvable := transform.NewPipeline().Run(result.Graph)
	for _, u := range unsolvable {
		fmt.Fprintf(os.Stderr, "unsolvable version conflict for %s:\n", u.ConflictID)
		for _, p := range u.Paths {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
	}

	printTree(result.Graph, result.Graph.Root, 0)

	if len(result.Relocations) > 0 {
		fmt.Println("\nrelocations:")
		for _, r := range result.Relocations {
			fmt.Printf("  %s\n", r)
		}
	}
	if len(result.Cycles) > 0 {
		fmt.Println("\ncycles:")
		for _, c := range result.Cycles {
			fmt.Printf("  %s -> %s (%s)\n", result.Graph.Node(c.From).Artifact(), result.Graph.Node(c.To).Artifact(), c.Coordinate)
		}
	}
}

func printTree(g *depgraph.Graph, id depgraph.NodeID, depth int) {
	n := g.Node(id)
	if id != g.Root {
		marker := ""
		if n.Pruned {
			marker = " (pruned)"
		}
		fmt.Printf("%s%s [%s]%s\n", strings.Repeat("  ", depth), n.Artifact(), n.DerivedScope, marker)
	}
	for _, c := range n.Children {
		if g.Node(c).Pruned {
			continue
		}
		printTree(g, c, depth+1)
	}
}

func parseCoordinate(s string) (artifact.Artifact, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return artifact.Artifact{}, fmt.Errorf("want groupId:artifactId:version, got %q", s)
	}
	return artifact.New(parts[0], parts[1], parts[2]), nil
}

func parseDependency(s string) (artifact.Dependency, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return artifact.Dependency{}, fmt.Errorf("want groupId:artifactId:version[:scope], got %q", s)
	}
	scope := "compile"
	if len(parts) == 4 {
		scope = parts[3]
	}
	return artifact.NewDependency(artifact.New(parts[0], parts[1], parts[2]), scope), nil
}
