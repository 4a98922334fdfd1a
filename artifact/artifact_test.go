package artifact

import "testing"

func TestVersionlessKey(t *testing.T) {
	a := New("g", "a", "1.0")
	if got, want := a.VersionlessKey(), "g:a:jar"; got != want {
		t.Errorf("VersionlessKey() = %q, want %q", got, want)
	}
	b := a.WithVersion("2.0")
	if a.VersionlessKey() != b.VersionlessKey() {
		t.Errorf("VersionlessKey should ignore version")
	}
	if a.Key() == b.Key() {
		t.Errorf("Key should include version")
	}
}

func TestWithVersionImmutable(t *testing.T) {
	a := New("g", "a", "1.0")
	b := a.WithVersion("2.0")
	if a.Version != "1.0" {
		t.Errorf("WithVersion mutated receiver: %q", a.Version)
	}
	if b.Version != "2.0" {
		t.Errorf("WithVersion() = %q, want 2.0", b.Version)
	}
}

func TestWithPropertyDoesNotShareMap(t *testing.T) {
	a := New("g", "a", "1.0").WithProperty("k1", "v1")
	b := a.WithProperty("k2", "v2")
	if _, ok := a.Properties["k2"]; ok {
		t.Errorf("WithProperty leaked into receiver's map")
	}
	if b.Properties["k1"] != "v1" || b.Properties["k2"] != "v2" {
		t.Errorf("WithProperty did not accumulate: %v", b.Properties)
	}
}

func TestBaseVersionSnapshotNormalization(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.0-20110329.221805-4", "1.0-SNAPSHOT"},
		{"1.0-SNAPSHOT", "1.0-SNAPSHOT"},
		{"1.0", "1.0"},
		{"2.5.1", "2.5.1"},
	}
	for _, tc := range tests {
		if got := BaseVersion(tc.in); got != tc.want {
			t.Errorf("BaseVersion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsSnapshot(t *testing.T) {
	a := New("g", "a", "1.0-20110329.221805-4")
	if !a.IsSnapshot() {
		t.Errorf("expected timestamped snapshot to report IsSnapshot")
	}
	b := New("g", "a", "1.0")
	if b.IsSnapshot() {
		t.Errorf("expected release version to not report IsSnapshot")
	}
}

func TestExclusionWildcards(t *testing.T) {
	tests := []struct {
		excl      Exclusion
		candidate Artifact
		wantMatch bool
	}{
		{Exclusion{GroupID: "*", ArtifactID: "*"}, New("g", "a", "1"), true},
		{Exclusion{GroupID: "g", ArtifactID: "*"}, New("g", "anything", "1"), true},
		{Exclusion{GroupID: "g", ArtifactID: "*"}, New("other", "anything", "1"), false},
		{Exclusion{GroupID: "*", ArtifactID: "a"}, New("anygroup", "a", "1"), true},
		{Exclusion{GroupID: "g", ArtifactID: "a"}, New("g", "a", "1"), true},
		{Exclusion{GroupID: "g", ArtifactID: "a"}, New("g", "b", "1"), false},
		// A bare (group, artifact) exclusion defaults to extension "jar"
		// and no classifier; it must not also drop other extensions or
		// classifiers published under the same coordinate.
		{Exclusion{GroupID: "g", ArtifactID: "a"}, Artifact{GroupID: "g", ArtifactID: "a", Extension: "test-jar", Version: "1"}, false},
		{Exclusion{GroupID: "g", ArtifactID: "a"}, Artifact{GroupID: "g", ArtifactID: "a", Classifier: "sources", Version: "1"}, false},
		{Exclusion{GroupID: "g", ArtifactID: "a", Extension: "*"}, Artifact{GroupID: "g", ArtifactID: "a", Extension: "test-jar", Version: "1"}, true},
		{Exclusion{GroupID: "g", ArtifactID: "a", Classifier: "*"}, Artifact{GroupID: "g", ArtifactID: "a", Classifier: "sources", Version: "1"}, true},
		{Exclusion{GroupID: "g", ArtifactID: "a", Extension: "test-jar"}, Artifact{GroupID: "g", ArtifactID: "a", Extension: "test-jar", Version: "1"}, true},
	}
	for _, tc := range tests {
		if got := tc.excl.Matches(tc.candidate); got != tc.wantMatch {
			t.Errorf("%v.Matches(%v) = %v, want %v", tc.excl, tc.candidate, got, tc.wantMatch)
		}
	}
}

func TestDependencyIsExcluded(t *testing.T) {
	d := NewDependency(New("g", "a", "1.0"), "compile").
		WithExclusions([]Exclusion{{GroupID: "g2", ArtifactID: "*"}})
	if !d.IsExcluded(New("g2", "anything", "1.0")) {
		t.Errorf("expected g2:anything to be excluded")
	}
	if d.IsExcluded(New("g3", "anything", "1.0")) {
		t.Errorf("expected g3:anything to not be excluded")
	}
}

func TestMergeExclusionsDedup(t *testing.T) {
	d := NewDependency(New("g", "a", "1.0"), "compile").
		WithExclusions([]Exclusion{{GroupID: "g2", ArtifactID: "a2"}})
	merged := d.MergeExclusions([]Exclusion{{GroupID: "g2", ArtifactID: "a2"}, {GroupID: "g3", ArtifactID: "a3"}})
	if len(merged.Exclusions) != 2 {
		t.Errorf("MergeExclusions() = %v, want 2 deduplicated entries", merged.Exclusions)
	}
	if len(d.Exclusions) != 1 {
		t.Errorf("MergeExclusions mutated receiver: %v", d.Exclusions)
	}
}
