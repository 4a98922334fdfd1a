package mavenpom

import (
	"context"
	"net/http"
	"sort"

	"github.com/artifactgraph/resolvercore/client"
	"github.com/artifactgraph/resolvercore/version"
)

// RangeResolver is a client.RangeResolver backed by a repository's
// maven-metadata.xml, grounded on deps.dev/util/maven's
// Metadata/Versioning types: it returns every published version, letting
// the collector's VersionFilter and range containment logic do the
// actual narrowing (§4.C).
type RangeResolver struct {
	fetch fetcher
}

// NewRangeResolver builds a RangeResolver issuing requests with client
// (http.DefaultClient if nil).
func NewRangeResolver(client *http.Client) *RangeResolver {
	return &RangeResolver{fetch: newHTTPFetcher(client)}
}

func (r *RangeResolver) ResolveVersionRange(ctx context.Context, req client.RangeRequest) (client.RangeResult, error) {
	a := req.Artifact
	path := metadataPath(a.GroupID, a.ArtifactID)

	var lastErr error
	for _, repo := range req.Repositories {
		data, err := r.fetch.Fetch(ctx, repo, path)
		if err != nil {
			lastErr = err
			continue
		}
		meta, err := parseMetadata(data)
		if err != nil {
			return client.RangeResult{}, err
		}
		return toRangeResult(meta, repo), nil
	}
	if lastErr != nil && isNotFound(lastErr) {
		return client.RangeResult{}, client.ErrNotFound
	}
	if lastErr == nil {
		lastErr = client.ErrNotFound
	}
	return client.RangeResult{}, lastErr
}

type versionAtRepo struct {
	v    version.Version
	repo string
}

func toRangeResult(meta mavenMetadata, repo string) client.RangeResult {
	var pairs []versionAtRepo
	for _, v := range meta.Versioning.Versions {
		parsed, err := version.ParseVersion(string(v))
		if err != nil {
			continue
		}
		pairs = append(pairs, versionAtRepo{v: parsed, repo: repo})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v.Less(pairs[j].v) })

	var result client.RangeResult
	for _, p := range pairs {
		result.Versions = append(result.Versions, p.v)
		result.RepositoryOfEachVersion = append(result.RepositoryOfEachVersion, p.repo)
	}
	return result
}
