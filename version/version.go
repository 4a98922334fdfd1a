// Package version implements the generic version scheme used to order
// artifact versions, parse version ranges, and evaluate constraints.
//
// A version is a sequence of segments separated by '.', '-', '_', or by
// the transition between a digit and a letter. Each segment is either
// numeric (sorted mathematically) or a qualifier (sorted by the known
// qualifier order below, falling back to case-insensitive lexicographic
// order for anything unrecognized). See the doc comment on the Version
// type for the full ordering algebra.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed, immutable version string.
//
// Internally a version is split into two runs: release, the maximal
// leading run of numeric segments (the "release numbers"), and rest,
// everything after it (which may itself mix numeric and qualifier
// segments, e.g. "-beta-2"). Comparing two versions first zero-extends
// the shorter release run to the other's length, then walks rest
// position by position, padding the shorter side with a neutral
// segment (numeric 0, or the empty/"ga" qualifier) that matches the
// other side's kind at that position. A "min" or "max" token that
// directly follows the shorter release run is not zero-extended: it
// sorts below or above every release number at that position, so
// "1.2.max" is greater than "1.2.99". This is what makes
// "1-alpha" == "1.0.0-alpha" and "1.0.1-ga" == "1.0.1" hold even though
// the two sides tokenize to different lengths.
type Version struct {
	raw     string
	release []segment
	rest    []segment
}

type segment struct {
	numeric bool
	num     int64
	qual    string // lowercased; only meaningful when !numeric
}

// String returns a canonical representation of the version. It is not
// guaranteed to equal the original input string, only to parse back to
// a Compare-equivalent Version.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	var b strings.Builder
	for i, s := range v.release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatInt(s.num, 10))
	}
	for _, s := range v.rest {
		b.WriteByte('-')
		if s.numeric {
			b.WriteString(strconv.FormatInt(s.num, 10))
		} else {
			b.WriteString(s.qual)
		}
	}
	return b.String()
}

// ParseVersion parses a version string using the generic scheme.
func ParseVersion(s string) (Version, error) {
	toks, err := tokenize(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if len(toks) == 0 {
		return Version{}, fmt.Errorf("invalid version %q: empty", s)
	}
	segs := make([]segment, len(toks))
	for i, t := range toks {
		segs[i] = t.toSegment()
	}
	i := 0
	for i < len(segs) && segs[i].numeric {
		i++
	}
	v := Version{raw: s}
	v.release = append(v.release, segs[:i]...)
	v.rest = append(v.rest, segs[i:]...)
	return v, nil
}

// MustParseVersion parses s and panics on error. Intended for tests and
// static tables, not for untrusted input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// qualifierAlias collapses shorthand qualifier spellings to their
// canonical long form before ordering is consulted.
var qualifierAlias = map[string]string{
	"a": "alpha",
	"b": "beta",
	"m": "milestone",
}

// qualifierOrder assigns a sort rank to every recognized qualifier
// token, smallest to largest. Tokens absent from this map are unknown
// and sort after "sp", compared lexicographically (case-insensitively,
// the qualifier string is already lowercased) against one another.
var qualifierOrder = map[string]int{
	"alpha":     -6,
	"beta":      -5,
	"milestone": -4,
	"cr":        -3,
	"rc":        -3,
	"snapshot":  -2,
	"":          -1,
	"final":     -1,
	"ga":        -1,
	"sp":        1,
	// min/max are the special final tokens used to denote the smallest
	// and greatest version sharing a prefix, e.g. for the "[M.N.*]"
	// range shorthand.
	"min": -1 << 30,
	"max": 1 << 30,
}

const unknownQualifierOrder = 2

func qualifierRank(q string) int {
	if o, ok := qualifierOrder[q]; ok {
		return o
	}
	return unknownQualifierOrder
}

func compareQualifiers(a, b string) int {
	oa, ob := qualifierRank(a), qualifierRank(b)
	if oa != ob {
		return sign(oa - ob)
	}
	if oa == unknownQualifierOrder {
		return strings.Compare(a, b)
	}
	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func sign64(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Compare reports whether v sorts before (-1), equal to (0), or after
// (1) other. It defines a total order: antisymmetric, transitive, and
// consistent with Equal.
func (v Version) Compare(other Version) int {
	// Release run: zero-extend the shorter side, except that a min/max
	// token right after the shorter side's release run is compared
	// against the other side's release number at that position.
	maxRelease := len(v.release)
	if len(other.release) > maxRelease {
		maxRelease = len(other.release)
	}
	opensWithBound := func(rest []segment) bool {
		return len(rest) > 0 && (rest[0].qual == "min" || rest[0].qual == "max")
	}
	for i := 0; i < maxRelease; i++ {
		if i >= len(v.release) && opensWithBound(v.rest) {
			return compareSegments(v.rest[0], other.release[i])
		}
		if i >= len(other.release) && opensWithBound(other.rest) {
			return compareSegments(v.release[i], other.rest[0])
		}
		a := releaseAt(v.release, i)
		b := releaseAt(other.release, i)
		if a != b {
			return sign64(a - b)
		}
	}

	// Rest run: pad the shorter side with a neutral segment matching
	// the other side's kind at that position.
	maxRest := len(v.rest)
	if len(other.rest) > maxRest {
		maxRest = len(other.rest)
	}
	for i := 0; i < maxRest; i++ {
		a, aOK := restAt(v.rest, i)
		b, bOK := restAt(other.rest, i)
		switch {
		case !aOK && !bOK:
			continue
		case !aOK:
			a = neutralFor(b)
		case !bOK:
			b = neutralFor(a)
		}
		if c := compareSegments(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether v and other compare equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Less reports whether v sorts strictly before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

func releaseAt(segs []segment, i int) int64 {
	if i >= len(segs) {
		return 0
	}
	return segs[i].num
}

func restAt(segs []segment, i int) (segment, bool) {
	if i >= len(segs) {
		return segment{}, false
	}
	return segs[i], true
}

func neutralFor(other segment) segment {
	if other.numeric {
		return segment{numeric: true, num: 0}
	}
	return segment{numeric: false, qual: ""}
}

// compareSegments compares two segments that are both present (neither
// is a synthesized pad), which may still have different kinds (e.g.
// "1.0.x" vs "1.0.5"): a negative qualifier (anything ranked below
// "ga") always sorts below any numeric value; "sp"/unknown/"max"
// qualifiers always sort above; "ga" itself is equal to numeric zero
// and otherwise sorts below any positive numeric value.
func compareSegments(a, b segment) int {
	switch {
	case a.numeric && b.numeric:
		return sign64(a.num - b.num)
	case !a.numeric && !b.numeric:
		return compareQualifiers(a.qual, b.qual)
	case a.numeric:
		return -compareNumericToQualifier(b.qual, a.num)
	default:
		return compareNumericToQualifier(a.qual, b.num)
	}
}

// compareNumericToQualifier compares a qualifier against a numeric
// value, returning -1/0/1 for qualifier</==/> numeric.
func compareNumericToQualifier(qual string, num int64) int {
	order := qualifierRank(qual)
	switch {
	case order < -1:
		return -1
	case order == -1: // "ga": equivalent to numeric zero.
		if num == 0 {
			return 0
		}
		return -1
	default: // sp, unknown, max
		return 1
	}
}
