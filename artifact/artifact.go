// Package artifact defines the immutable Artifact and Dependency value
// types that flow through the rest of this module: every coordinate
// the collector, policies, and transformers operate on is one of these.
package artifact

import (
	"fmt"
	"regexp"
)

// Artifact is an immutable Maven-style coordinate: groupId, artifactId,
// extension (packaging type, e.g. "jar"), an optional classifier, a
// version, an optional resolved file path, and an arbitrary property
// bag carried along for adapters to stash extra metadata on (e.g. a
// repository URL). All mutator methods return a new Artifact; none
// modify the receiver.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
	Version    string
	File       string
	Properties map[string]string
}

// New builds an Artifact with a default "jar" extension and no
// classifier.
func New(groupID, artifactID, version string) Artifact {
	return Artifact{GroupID: groupID, ArtifactID: artifactID, Extension: "jar", Version: version}
}

// WithVersion returns a copy of a with its version replaced.
func (a Artifact) WithVersion(version string) Artifact {
	a.Version = version
	return a
}

// WithFile returns a copy of a with its resolved file path set.
func (a Artifact) WithFile(file string) Artifact {
	a.File = file
	return a
}

// WithProperty returns a copy of a with the given property set. The
// underlying map is copied, never shared with the receiver.
func (a Artifact) WithProperty(key, value string) Artifact {
	props := make(map[string]string, len(a.Properties)+1)
	for k, v := range a.Properties {
		props[k] = v
	}
	props[key] = value
	a.Properties = props
	return a
}

func (a Artifact) extension() string {
	if a.Extension == "" {
		return "jar"
	}
	return a.Extension
}

// VersionlessKey returns the identity of this artifact ignoring
// version: groupId:artifactId:extension[:classifier]. Two artifacts
// with the same VersionlessKey are considered the "same dependency" for
// conflict resolution purposes, regardless of which version wins.
func (a Artifact) VersionlessKey() string {
	if a.Classifier == "" {
		return fmt.Sprintf("%s:%s:%s", a.GroupID, a.ArtifactID, a.extension())
	}
	return fmt.Sprintf("%s:%s:%s:%s", a.GroupID, a.ArtifactID, a.extension(), a.Classifier)
}

// Key returns the full identity of this artifact, including version.
func (a Artifact) Key() string {
	return fmt.Sprintf("%s:%s", a.VersionlessKey(), a.Version)
}

func (a Artifact) String() string { return a.Key() }

// snapshotTimestamp matches a Maven timestamped snapshot version suffix,
// e.g. "1.0-20110329.221805-4".
var snapshotTimestamp = regexp.MustCompile(`^(.*)-\d{8}\.\d{6}-\d+$`)

// BaseVersion normalizes a timestamped snapshot version
// ("1.0-20110329.221805-4") down to its symbolic form ("1.0-SNAPSHOT").
// Non-snapshot versions are returned unchanged.
func BaseVersion(version string) string {
	if m := snapshotTimestamp.FindStringSubmatch(version); m != nil {
		return m[1] + "-SNAPSHOT"
	}
	return version
}

// BaseVersion returns the snapshot-normalized version of this artifact.
func (a Artifact) BaseVersion() string { return BaseVersion(a.Version) }

// IsSnapshot reports whether the artifact's base version ends in the
// symbolic "-SNAPSHOT" qualifier.
func (a Artifact) IsSnapshot() bool {
	bv := a.BaseVersion()
	return len(bv) >= 9 && bv[len(bv)-9:] == "-SNAPSHOT"
}
