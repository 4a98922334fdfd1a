package version

import (
	"testing"
)

func mustV(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	if err != nil {
		t.Fatalf("ParseVersion(%q): %v", s, err)
	}
	return v
}

func TestCompareOrdering(t *testing.T) {
	// Total order, smallest to largest. Adjacent pairs must compare <,
	// and every pair further apart must compare consistently with that
	// same order (transitivity).
	ordered := []string{
		"1.0-SNAPSHOT",
		"1.0",
		"1.0-sp1",
		"1.0.0.1",
	}
	for i := 0; i < len(ordered); i++ {
		for j := 0; j < len(ordered); j++ {
			a, b := mustV(t, ordered[i]), mustV(t, ordered[j])
			got := a.Compare(b)
			want := sign(i - j)
			if sign(got) != want {
				t.Errorf("Compare(%q, %q) = %d, want sign %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestEqualVersions(t *testing.T) {
	tests := [][2]string{
		{"1-alpha", "1.0.0-alpha"},
		{"1.0", "1.0-ga"},
		{"1.0", "1.0-final"},
		{"1.0.1-ga", "1.0.1"},
		{"1.0.0", "1.0"},
	}
	for _, tc := range tests {
		a, b := mustV(t, tc[0]), mustV(t, tc[1])
		if !a.Equal(b) {
			t.Errorf("expected %q == %q, got Compare=%d", tc[0], tc[1], a.Compare(b))
		}
	}
}

func TestCompareQualifierRuns(t *testing.T) {
	tests := []struct {
		lo, hi string
	}{
		{"1.0-alpha", "1.0-beta"},
		{"1.0-beta", "1.0-milestone"},
		{"1.0-milestone", "1.0-rc"},
		{"1.0-rc", "1.0-snapshot"},
		{"1.0-snapshot", "1.0"},
		{"1.0", "1.0-sp"},
		{"1.0-beta-2", "1.0-beta-10"},
		{"1.0-sp", "1.0-zzz"}, // unknown qualifier sorts after sp
	}
	for _, tc := range tests {
		lo, hi := mustV(t, tc.lo), mustV(t, tc.hi)
		if !lo.Less(hi) {
			t.Errorf("expected %q < %q, got Compare=%d", tc.lo, tc.hi, lo.Compare(hi))
		}
		if hi.Compare(lo) <= 0 {
			t.Errorf("expected %q > %q", tc.hi, tc.lo)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"1.0", "2.3.4-SNAPSHOT", "1-alpha", "1.0.0-beta-2", "RELEASE"}
	for _, s := range inputs {
		v := mustV(t, s)
		v2 := mustV(t, v.String())
		if !v.Equal(v2) {
			t.Errorf("format(parse(%q)) = %q not Compare-equivalent: %d", s, v.String(), v.Compare(v2))
		}
	}
}

func TestVersionRangeContains(t *testing.T) {
	r, err := ParseVersionRange("[1.0,2.0)")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		v    string
		want bool
	}{
		{"1.0", true},
		{"1.5", true},
		{"1.9", true},
		{"2.0", false},
		{"0.9", false},
	}
	for _, c := range cases {
		if got := r.ContainsVersion(mustV(t, c.v)); got != c.want {
			t.Errorf("ContainsVersion(%q) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestVersionRangeWildcard(t *testing.T) {
	r, err := ParseVersionRange("[1.2.*]")
	if err != nil {
		t.Fatal(err)
	}
	if !r.ContainsVersion(mustV(t, "1.2.0")) || !r.ContainsVersion(mustV(t, "1.2.99")) {
		t.Errorf("wildcard range should contain any 1.2.x version")
	}
	if r.ContainsVersion(mustV(t, "1.3.0")) {
		t.Errorf("wildcard range should not contain 1.3.0")
	}
}

func TestUnionVersionRange(t *testing.T) {
	u, err := ParseUnionVersionRange("[1.0,2.0],[3.0,4.0]")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"1.0", "2.0", "3.0", "4.0"} {
		if !u.ContainsVersion(mustV(t, v)) {
			t.Errorf("union should contain %q", v)
		}
	}
	if u.ContainsVersion(mustV(t, "2.5")) {
		t.Errorf("union should not contain 2.5 (gap between members)")
	}
	lo, ok := u.LowerBound()
	if !ok || !lo.Equal(mustV(t, "1.0")) {
		t.Errorf("LowerBound() = %v, %v, want 1.0, true", lo, ok)
	}
	hi, ok := u.UpperBound()
	if !ok || !hi.Equal(mustV(t, "4.0")) {
		t.Errorf("UpperBound() = %v, %v, want 4.0, true", hi, ok)
	}
}

func TestVersionRangeIntersect(t *testing.T) {
	a, _ := ParseVersionRange("[1.0,2.0]")
	b, _ := ParseVersionRange("[1.5,3.0]")
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatalf("expected non-empty intersection")
	}
	if !got.ContainsVersion(mustV(t, "1.5")) || !got.ContainsVersion(mustV(t, "2.0")) {
		t.Errorf("intersection bounds wrong: %v", got)
	}
	if got.ContainsVersion(mustV(t, "1.0")) || got.ContainsVersion(mustV(t, "2.5")) {
		t.Errorf("intersection bounds wrong: %v", got)
	}

	c, _ := ParseVersionRange("[1.0,1.2]")
	d, _ := ParseVersionRange("[2.0,2.2]")
	if _, ok := c.Intersect(d); ok {
		t.Errorf("expected empty intersection between [1.0,1.2] and [2.0,2.2]")
	}
}

func TestVersionConstraintSoftAndHard(t *testing.T) {
	soft, err := ParseVersionConstraint("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if soft.IsHard() {
		t.Errorf("expected soft constraint")
	}
	pref, ok := soft.PreferredVersion()
	if !ok || !pref.Equal(mustV(t, "1.0")) {
		t.Errorf("PreferredVersion() = %v, %v", pref, ok)
	}

	hard, err := ParseVersionConstraint("[1.0,2.0)")
	if err != nil {
		t.Fatal(err)
	}
	if !hard.IsHard() {
		t.Errorf("expected hard constraint")
	}
	if !hard.ContainsVersion(mustV(t, "1.5")) {
		t.Errorf("expected [1.0,2.0) to contain 1.5")
	}
	if hard.ContainsVersion(mustV(t, "2.0")) {
		t.Errorf("expected [1.0,2.0) to exclude 2.0")
	}
}

func TestInvalidVersionRanges(t *testing.T) {
	invalid := []string{"", "[1.0", "[2.0,1.0]", "[,]"}
	for _, s := range invalid {
		if _, err := ParseVersionRange(s); err == nil {
			t.Errorf("ParseVersionRange(%q): expected error", s)
		}
	}
}
