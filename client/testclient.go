package client

import (
	"context"
	"sort"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/version"
)

// TestClient is an in-memory DescriptorReader and RangeResolver,
// adapted from the teacher's LocalClient test double: callers register
// versions and descriptors directly instead of fetching them over a
// transport, which is exactly what the collector's own tests need and
// nothing more.
type TestClient struct {
	descriptors map[string]DescriptorResult
	versions    map[string][]version.Version
}

// NewTestClient returns an empty TestClient.
func NewTestClient() *TestClient {
	return &TestClient{
		descriptors: make(map[string]DescriptorResult),
		versions:    make(map[string][]version.Version),
	}
}

// AddDescriptor registers the descriptor for the given artifact's full
// coordinate (including version).
func (c *TestClient) AddDescriptor(a artifact.Artifact, result DescriptorResult) {
	if result.EffectiveArtifact.GroupID == "" && result.EffectiveArtifact.ArtifactID == "" {
		result.EffectiveArtifact = a
	}
	c.descriptors[a.Key()] = result
}

// AddVersion registers v as an available version for the given
// versionless coordinate.
func (c *TestClient) AddVersion(versionless artifact.Artifact, v version.Version) {
	key := versionless.VersionlessKey()
	c.versions[key] = append(c.versions[key], v)
	sort.Slice(c.versions[key], func(i, j int) bool {
		return c.versions[key][i].Less(c.versions[key][j])
	})
}

// ReadArtifactDescriptor implements DescriptorReader.
func (c *TestClient) ReadArtifactDescriptor(ctx context.Context, req DescriptorRequest) (DescriptorResult, error) {
	result, ok := c.descriptors[req.Artifact.Key()]
	if !ok {
		return DescriptorResult{}, &ArtifactDescriptorError{Artifact: req.Artifact, Cause: ErrNotFound}
	}
	return result, nil
}

// ResolveVersionRange implements RangeResolver.
func (c *TestClient) ResolveVersionRange(ctx context.Context, req RangeRequest) (RangeResult, error) {
	versions, ok := c.versions[req.Artifact.VersionlessKey()]
	if !ok {
		return RangeResult{}, ErrNotFound
	}
	repos := make([]string, len(versions))
	for i := range repos {
		repos[i] = "test"
	}
	return RangeResult{Versions: append([]version.Version(nil), versions...), RepositoryOfEachVersion: repos}, nil
}
