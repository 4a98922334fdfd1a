// Package client defines the narrow external interfaces the collector
// consumes (§6 of the boundary specification): a descriptor reader, a
// version-range resolver, a local repository manager, a trace
// propagation type, and an optional listener. The core never
// implements these itself — it only calls them — mirroring how the
// teacher's own resolve.Client interface sits between a generic
// resolver and a concrete per-ecosystem implementation.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/version"
)

// ErrNotFound is returned by a DescriptorReader or RangeResolver when
// the requested coordinate has no known descriptor or versions at all
// (as opposed to a transient fetch failure).
var ErrNotFound = errors.New("client: not found")

// DescriptorRequest is the input to a descriptor lookup.
type DescriptorRequest struct {
	Artifact     artifact.Artifact
	Repositories []string
	Trace        *Trace
}

// DescriptorResult is everything an artifact's descriptor declares.
type DescriptorResult struct {
	// EffectiveArtifact is the (possibly relocated) artifact this
	// descriptor actually describes.
	EffectiveArtifact artifact.Artifact
	// Relocations records the chain of artifacts relocated away from
	// to reach EffectiveArtifact, oldest first.
	Relocations         []artifact.Artifact
	Dependencies        []artifact.Dependency
	ManagedDependencies []artifact.Dependency
	Repositories        []string
	Aliases             []artifact.Artifact
}

// ArtifactDescriptorError wraps a descriptor-fetch failure with the
// artifact that failed, for the collector to attach to the offending
// node.
type ArtifactDescriptorError struct {
	Artifact artifact.Artifact
	Cause    error
}

func (e *ArtifactDescriptorError) Error() string {
	return fmt.Sprintf("read descriptor for %s: %v", e.Artifact, e.Cause)
}

func (e *ArtifactDescriptorError) Unwrap() error { return e.Cause }

// DescriptorReader reads an artifact's descriptor (e.g. a pom.xml or
// package manifest). Implementations must be safe for concurrent use:
// the collector may call ReadArtifactDescriptor for independent
// coordinates in parallel.
type DescriptorReader interface {
	ReadArtifactDescriptor(ctx context.Context, req DescriptorRequest) (DescriptorResult, error)
}

// RangeRequest is the input to a version-range resolution.
type RangeRequest struct {
	Artifact     artifact.Artifact
	Repositories []string
}

// RangeResult is the ordered set of versions satisfying a range lookup.
type RangeResult struct {
	// Versions is ascending order.
	Versions          []version.Version
	VersionConstraint version.VersionConstraint
	// RepositoryOfEachVersion maps 1:1 with Versions, naming the
	// repository each version was found in.
	RepositoryOfEachVersion []string
}

// RangeResolver resolves a version range or constraint against the
// repositories that may contain matching versions (e.g. by reading a
// maven-metadata.xml). Implementations must be safe for concurrent use.
type RangeResolver interface {
	ResolveVersionRange(ctx context.Context, req RangeRequest) (RangeResult, error)
}

// LocalRepositoryManager is consulted only to decide whether to
// short-circuit a range resolution offline: if Find reports an
// artifact is already present locally, a resolver may skip a remote
// range lookup entirely.
type LocalRepositoryManager interface {
	PathFor(a artifact.Artifact) string
	Find(a artifact.Artifact, repositories []string) (artifact.Artifact, bool)
	Add(a artifact.Artifact, repositories []string)
}

// Trace is a linked list of parent traces, each carrying opaque
// contextual data. The core propagates Trace through every request it
// issues but never interprets its contents.
type Trace struct {
	Parent *Trace
	Data   any
}

// Child returns a new Trace whose parent is t, carrying data.
func (t *Trace) Child(data any) *Trace {
	return &Trace{Parent: t, Data: data}
}

// Listener receives fire-and-forget collection events. A nil Listener
// is valid and equivalent to one whose methods all do nothing. Listener
// callbacks must never affect collection control flow: a collector
// must not inspect a Listener's return value (there is none) or treat
// a panic from one as part of normal error handling.
type Listener interface {
	NodeAdded(a artifact.Artifact)
	NodeResolved(a artifact.Artifact)
	ConflictDetected(conflictID string, candidates []artifact.Artifact)
}

// NoopListener implements Listener with no-op methods. It is the
// default listener used when a caller supplies none.
type NoopListener struct{}

func (NoopListener) NodeAdded(artifact.Artifact)                  {}
func (NoopListener) NodeResolved(artifact.Artifact)               {}
func (NoopListener) ConflictDetected(string, []artifact.Artifact) {}
