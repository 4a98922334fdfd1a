package version

import "strings"

// VersionConstraint is either a soft constraint — a single preferred
// version that a resolver may substitute with another version if
// necessary — or a hard constraint, a union of ranges the resolved
// version must actually fall within. This mirrors Maven's own
// distinction: a bare "1.0" dependency version is a suggestion, while a
// bracketed "[1.0,2.0)" is a requirement.
type VersionConstraint struct {
	preferred *Version          // set when this is a soft constraint
	hard      UnionVersionRange // set (non-empty) when this is a hard constraint
	isHard    bool
}

// ParseVersionConstraint parses either a bare version (soft) or one or
// more comma-separated bracketed ranges (hard).
func ParseVersionConstraint(s string) (VersionConstraint, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(") {
		u, err := ParseUnionVersionRange(s)
		if err != nil {
			return VersionConstraint{}, err
		}
		return VersionConstraint{hard: u, isHard: true}, nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return VersionConstraint{}, err
	}
	return VersionConstraint{preferred: &v}, nil
}

// NewSoftConstraint builds a soft constraint from a preferred version.
func NewSoftConstraint(v Version) VersionConstraint {
	return VersionConstraint{preferred: &v}
}

// NewHardConstraint builds a hard constraint from a union of ranges.
func NewHardConstraint(u UnionVersionRange) VersionConstraint {
	return VersionConstraint{hard: u, isHard: true}
}

// IsHard reports whether c is a hard (range) constraint as opposed to a
// soft (preferred-version) one.
func (c VersionConstraint) IsHard() bool { return c.isHard }

// PreferredVersion returns the soft constraint's preferred version, if
// this is a soft constraint.
func (c VersionConstraint) PreferredVersion() (Version, bool) {
	if c.isHard || c.preferred == nil {
		return Version{}, false
	}
	return *c.preferred, true
}

// Ranges returns the hard constraint's member ranges, if this is a hard
// constraint.
func (c VersionConstraint) Ranges() (UnionVersionRange, bool) {
	if !c.isHard {
		return UnionVersionRange{}, false
	}
	return c.hard, true
}

// ContainsVersion reports whether v satisfies the constraint: for a
// hard constraint, whether v falls in the range union; for a soft
// constraint, whether v equals the preferred version.
func (c VersionConstraint) ContainsVersion(v Version) bool {
	if c.isHard {
		return c.hard.ContainsVersion(v)
	}
	if c.preferred == nil {
		return false
	}
	return c.preferred.Equal(v)
}

func (c VersionConstraint) String() string {
	if c.isHard {
		return c.hard.String()
	}
	if c.preferred == nil {
		return ""
	}
	return c.preferred.String()
}
