package mavenpom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/client"
)

const maxParents = 32

// Reader is a client.DescriptorReader backed by real pom.xml files served
// from a standard Maven2 repository layout. It resolves a POM's parent
// chain (merging properties/dependencyManagement/dependencies down, child
// wins) and follows a distributionManagement/relocation to the artifact
// it actually describes, grounded on
// deps.dev/util/maven's Project.MergeParent/DistributionManagement.
type Reader struct {
	fetch fetcher
}

// NewReader builds a Reader issuing requests with client (http.DefaultClient
// if nil).
func NewReader(client *http.Client) *Reader {
	return &Reader{fetch: newHTTPFetcher(client)}
}

func (r *Reader) ReadArtifactDescriptor(ctx context.Context, req client.DescriptorRequest) (client.DescriptorResult, error) {
	a := req.Artifact
	proj, err := r.fetchAndMergeParents(ctx, a.GroupID, a.ArtifactID, a.Version, req.Repositories)
	if err != nil {
		return client.DescriptorResult{}, err
	}

	result := client.DescriptorResult{
		EffectiveArtifact: a,
		Repositories:      req.Repositories,
	}

	if reloc := proj.DistributionManagement.Relocation; reloc.GroupID != "" || reloc.ArtifactID != "" || reloc.Version != "" {
		relocated := a
		if reloc.GroupID != "" {
			relocated.GroupID = string(reloc.GroupID)
		}
		if reloc.ArtifactID != "" {
			relocated.ArtifactID = string(reloc.ArtifactID)
		}
		if reloc.Version != "" {
			relocated.Version = string(reloc.Version)
		}
		result.EffectiveArtifact = relocated
		result.Relocations = []artifact.Artifact{a}
		return result, nil
	}

	result.Repositories = unionRepos(req.Repositories, repoURLs(proj.Repositories))

	for _, d := range proj.Dependencies {
		dep := toDependency(d)
		if d.Scope == "" || d.Scope == "compile" || d.Scope == "runtime" || d.Scope == "provided" || d.Scope == "system" || d.Scope == "test" {
			result.Dependencies = append(result.Dependencies, dep)
		}
	}
	for _, d := range proj.DependencyManagement.Dependencies {
		result.ManagedDependencies = append(result.ManagedDependencies, toDependency(d))
	}
	return result, nil
}

// fetchAndMergeParents reads the pom.xml for (groupID, artifactID,
// version), then walks its <parent> chain (bounded by maxParents),
// merging each ancestor into the child and interpolating once the full
// chain is assembled — matching deps.dev/util/maven's
// Project.MergeParent followed by Project.Interpolate.
func (r *Reader) fetchAndMergeParents(ctx context.Context, groupID, artifactID, version string, repos []string) (pomProject, error) {
	proj, _, err := r.fetchOne(ctx, groupID, artifactID, version, repos)
	if err != nil {
		return pomProject{}, err
	}
	cur := proj
	for i := 0; i < maxParents; i++ {
		p := cur.Parent
		if p.GroupID == "" || p.ArtifactID == "" || p.Version == "" {
			break
		}
		parent, _, err := r.fetchOne(ctx, string(p.GroupID), string(p.ArtifactID), string(p.Version), repos)
		if err != nil {
			break // missing parent POM: best-effort merge with what we have
		}
		proj.mergeParent(parent)
		cur = parent
	}
	proj.interpolateAll()
	return proj, nil
}

func (r *Reader) fetchOne(ctx context.Context, groupID, artifactID, version string, repos []string) (pomProject, string, error) {
	path := layoutPath(groupID, artifactID, version, "", "pom")
	var lastErr error
	for _, repo := range repos {
		data, err := r.fetch.Fetch(ctx, repo, path)
		if err != nil {
			lastErr = err
			continue
		}
		proj, err := parsePOM(data)
		if err != nil {
			return pomProject{}, "", fmt.Errorf("parse pom for %s:%s:%s: %w", groupID, artifactID, version, err)
		}
		return proj, repo, nil
	}
	if lastErr != nil && isNotFound(lastErr) {
		return pomProject{}, "", client.ErrNotFound
	}
	if lastErr == nil {
		lastErr = client.ErrNotFound
	}
	return pomProject{}, "", lastErr
}

func toDependency(d pomDependency) artifact.Dependency {
	a := artifact.Artifact{
		GroupID:    string(d.GroupID),
		ArtifactID: string(d.ArtifactID),
		Extension:  d.extension(),
		Classifier: string(d.Classifier),
		Version:    string(d.Version),
	}
	scope := string(d.Scope)
	if scope == "" {
		scope = "compile"
	}
	dep := artifact.NewDependency(a, scope)
	dep.Optional = string(d.Optional) == "true"
	for _, ex := range d.Exclusions {
		dep.Exclusions = append(dep.Exclusions, artifact.Exclusion{
			GroupID:    string(ex.GroupID),
			ArtifactID: string(ex.ArtifactID),
		})
	}
	return dep
}

func repoURLs(repos []pomRepository) []string {
	var out []string
	for _, r := range repos {
		if r.URL != "" {
			out = append(out, string(r.URL))
		}
	}
	return out
}

func unionRepos(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
