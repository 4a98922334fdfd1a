package policy

import (
	"strings"

	"github.com/artifactgraph/resolvercore/artifact"
	"github.com/artifactgraph/resolvercore/version"
)

// FilterContext carries the candidate versions a VersionFilter winnows
// down.
type FilterContext struct {
	Versions []version.Version
	Depth    int
}

// VersionFilter winnows the versions found for a range, e.g. to block
// snapshots from satisfying a release-only range.
type VersionFilter interface {
	FilterVersions(ctx FilterContext) []version.Version
	DeriveChildFilter(ctx DescentContext) (next VersionFilter, changed bool)
}

// NoopVersionFilter passes every candidate version through unchanged.
type NoopVersionFilter struct{}

func (NoopVersionFilter) FilterVersions(ctx FilterContext) []version.Version { return ctx.Versions }

func (f NoopVersionFilter) DeriveChildFilter(DescentContext) (VersionFilter, bool) { return f, false }

// SnapshotVersionFilter drops versions whose base version carries the
// "-SNAPSHOT" qualifier.
type SnapshotVersionFilter struct {
	isSnapshot func(version.Version) bool
}

// NewSnapshotVersionFilter builds a filter using isSnapshot to test
// each candidate; pass nil to use the generic scheme's own "-SNAPSHOT"
// qualifier segment as the test.
func NewSnapshotVersionFilter(isSnapshot func(version.Version) bool) SnapshotVersionFilter {
	return SnapshotVersionFilter{isSnapshot: isSnapshot}
}

func (s SnapshotVersionFilter) FilterVersions(ctx FilterContext) []version.Version {
	isSnapshot := s.isSnapshot
	if isSnapshot == nil {
		isSnapshot = func(v version.Version) bool {
			return strings.HasSuffix(strings.ToUpper(artifact.BaseVersion(v.String())), "-SNAPSHOT")
		}
	}
	var out []version.Version
	for _, v := range ctx.Versions {
		if !isSnapshot(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s SnapshotVersionFilter) DeriveChildFilter(DescentContext) (VersionFilter, bool) { return s, false }
