package transform

import "github.com/artifactgraph/resolvercore/depgraph"

// Pipeline runs the standard two-stage transform chain (§4.I): the
// conflict marker, then the conflict resolver. Callers needing
// additional stages should build their own
// ChainedDependencyGraphTransformer with NewPipeline's two members
// plus whatever else they need appended.
type Pipeline struct {
	Resolver *ConflictResolver
}

// NewPipeline returns a Pipeline ready to run over a freshly collected
// graph.
func NewPipeline() *Pipeline {
	return &Pipeline{Resolver: &ConflictResolver{}}
}

// Run executes the marker then the resolver against g, returning the
// resolver's accumulated unsolvable conflicts (if any). It never
// returns a non-nil error itself; per §9's design note, unsolvable
// conflicts are surfaced as data rather than unwinding the transform.
func (p *Pipeline) Run(g *depgraph.Graph) []*UnsolvableVersionConflict {
	chain := NewChainedDependencyGraphTransformer(ConflictMarker{}, p.Resolver)
	_ = chain.Transform(g)
	return p.Resolver.Unsolvable
}
