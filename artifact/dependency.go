package artifact

import "strings"

// Exclusion identifies one or more artifacts to exclude from a
// dependency's transitive closure: a (groupId, artifactId, extension,
// classifier) 4-tuple, each dimension independently wildcardable with
// "*", mirroring Maven's own exclusion wildcards. Extension defaults to
// "jar" and Classifier to "" when left empty, matching Artifact's own
// defaulting.
type Exclusion struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string
}

func (e Exclusion) extension() string {
	if e.Extension == "" {
		return "jar"
	}
	return e.Extension
}

// Matches reports whether this exclusion covers an artifact's full
// coordinate, honoring the "*" wildcard independently on each of the
// four dimensions. Extension and Classifier are compared against a's
// own defaulted values (extension "jar" when a's is empty), so an
// exclusion left at its zero value only matches the default jar/no
// classifier case, not every extension/classifier a group:artifact pair
// might publish.
func (e Exclusion) Matches(a Artifact) bool {
	return (e.GroupID == "*" || e.GroupID == a.GroupID) &&
		(e.ArtifactID == "*" || e.ArtifactID == a.ArtifactID) &&
		(e.Extension == "*" || e.extension() == a.extension()) &&
		(e.Classifier == "*" || e.Classifier == a.Classifier)
}

func (e Exclusion) String() string {
	s := e.GroupID + ":" + e.ArtifactID + ":" + e.extension()
	if e.Classifier != "" {
		s += ":" + e.Classifier
	}
	return s
}

// Dependency pairs an Artifact with the edge metadata that governs how
// it participates in a collection: its scope, whether it is optional,
// and the set of exclusions that apply to its own transitive
// dependencies.
type Dependency struct {
	Artifact   Artifact
	Scope      string
	Optional   bool
	Exclusions []Exclusion
}

// NewDependency builds a Dependency with the given scope.
func NewDependency(a Artifact, scope string) Dependency {
	return Dependency{Artifact: a, Scope: scope}
}

// WithScope returns a copy of d with its scope replaced.
func (d Dependency) WithScope(scope string) Dependency {
	d.Scope = scope
	return d
}

// WithOptional returns a copy of d with its optional flag replaced.
func (d Dependency) WithOptional(optional bool) Dependency {
	d.Optional = optional
	return d
}

// WithExclusions returns a copy of d with its exclusion set replaced.
// The given slice is copied, never shared with the receiver.
func (d Dependency) WithExclusions(exclusions []Exclusion) Dependency {
	d.Exclusions = append([]Exclusion(nil), exclusions...)
	return d
}

// MergeExclusions returns a copy of d whose exclusion set is the union
// of d's own exclusions and more, deduplicated.
func (d Dependency) MergeExclusions(more []Exclusion) Dependency {
	seen := make(map[Exclusion]bool, len(d.Exclusions)+len(more))
	var merged []Exclusion
	for _, e := range d.Exclusions {
		if !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	for _, e := range more {
		if !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	d.Exclusions = merged
	return d
}

// IsExcluded reports whether the given artifact coordinate is covered by
// any exclusion in d's exclusion set.
func (d Dependency) IsExcluded(a Artifact) bool {
	for _, e := range d.Exclusions {
		if e.Matches(a) {
			return true
		}
	}
	return false
}

func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.Artifact.String())
	if d.Scope != "" {
		b.WriteString(" (")
		b.WriteString(d.Scope)
		if d.Optional {
			b.WriteString("?")
		}
		b.WriteString(")")
	} else if d.Optional {
		b.WriteString(" (?)")
	}
	return b.String()
}
