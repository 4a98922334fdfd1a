package collect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/artifactgraph/resolvercore/client"
)

// DescriptorGateway wraps a client.DescriptorReader with the cache
// contract required of the descriptor and version-range gateways
// (§4.C/§4.D): at most one concurrent lookup per key across the
// session, negative caching of failures, and value-equal results
// across cache hits. singleflight.Group gives "at most one concurrent
// lookup per key" directly; a plain map protected by a mutex holds the
// completed (possibly negative) results once a lookup finishes.
type DescriptorGateway struct {
	reader client.DescriptorReader
	group  singleflight.Group

	mu      sync.Mutex
	results map[string]descriptorEntry
}

type descriptorEntry struct {
	result client.DescriptorResult
	err    error
}

// NewDescriptorGateway wraps reader with the session-scoped cache.
func NewDescriptorGateway(reader client.DescriptorReader) *DescriptorGateway {
	return &DescriptorGateway{reader: reader, results: make(map[string]descriptorEntry)}
}

// DescriptorKey is the request-identity used as the cache key: the
// coordinate plus the repository list plus whatever relocation policy
// the caller folds in (callers that need to vary caching by relocation
// policy should fold that into key themselves before calling).
func DescriptorKey(req client.DescriptorRequest) string {
	return fmt.Sprintf("%s|%v", req.Artifact.Key(), req.Repositories)
}

// Read returns the descriptor for req, fetching at most once per key
// even under concurrent callers, and memoizing failures so repeated
// expansions of the same coordinate do not re-fetch.
func (g *DescriptorGateway) Read(ctx context.Context, req client.DescriptorRequest) (client.DescriptorResult, error) {
	key := DescriptorKey(req)

	g.mu.Lock()
	if e, ok := g.results[key]; ok {
		g.mu.Unlock()
		return e.result, e.err
	}
	g.mu.Unlock()

	v, err, _ := g.group.Do(key, func() (any, error) {
		result, err := g.reader.ReadArtifactDescriptor(ctx, req)
		g.mu.Lock()
		g.results[key] = descriptorEntry{result: result, err: err}
		g.mu.Unlock()
		return result, err
	})
	if err != nil {
		var zero client.DescriptorResult
		if v != nil {
			zero = v.(client.DescriptorResult)
		}
		return zero, err
	}
	return v.(client.DescriptorResult), nil
}

// RangeGateway wraps a client.RangeResolver with the same cache
// contract as DescriptorGateway.
type RangeGateway struct {
	resolver client.RangeResolver
	group    singleflight.Group

	mu      sync.Mutex
	results map[string]rangeEntry
}

type rangeEntry struct {
	result client.RangeResult
	err    error
}

// NewRangeGateway wraps resolver with the session-scoped cache.
func NewRangeGateway(resolver client.RangeResolver) *RangeGateway {
	return &RangeGateway{resolver: resolver, results: make(map[string]rangeEntry)}
}

// RangeKey is the request-identity used as the cache key.
func RangeKey(req client.RangeRequest) string {
	return fmt.Sprintf("%s|%v", req.Artifact.VersionlessKey(), req.Repositories)
}

// Resolve returns the version-range result for req, with the same
// single-flight and negative-caching guarantees as DescriptorGateway.Read.
func (g *RangeGateway) Resolve(ctx context.Context, req client.RangeRequest) (client.RangeResult, error) {
	key := RangeKey(req)

	g.mu.Lock()
	if e, ok := g.results[key]; ok {
		g.mu.Unlock()
		return e.result, e.err
	}
	g.mu.Unlock()

	v, err, _ := g.group.Do(key, func() (any, error) {
		result, err := g.resolver.ResolveVersionRange(ctx, req)
		g.mu.Lock()
		g.results[key] = rangeEntry{result: result, err: err}
		g.mu.Unlock()
		return result, err
	})
	if err != nil {
		var zero client.RangeResult
		if v != nil {
			zero = v.(client.RangeResult)
		}
		return zero, err
	}
	return v.(client.RangeResult), nil
}

// VersionRangeError records a failed or empty version-range resolution
// against the offending node, per §7's "range resolution failure"
// error kind.
type VersionRangeError struct {
	Coordinate string
	Cause      error
}

func (e *VersionRangeError) Error() string {
	return fmt.Sprintf("resolve version range for %s: %v", e.Coordinate, e.Cause)
}

func (e *VersionRangeError) Unwrap() error { return e.Cause }

var errNoVersionsSurvived = errors.New("no versions satisfied the filtered range")
