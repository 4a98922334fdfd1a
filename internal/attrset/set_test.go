package attrset

import "testing"

const (
	flagPruned Flag = iota
	flagWinner
)

func TestSetFlagImmutable(t *testing.T) {
	a := Set{}.SetFlag(flagPruned)
	b := a.SetFlag(flagWinner)
	if a.HasFlag(flagWinner) {
		t.Errorf("SetFlag mutated receiver")
	}
	if !b.HasFlag(flagPruned) || !b.HasFlag(flagWinner) {
		t.Errorf("expected both flags set on b")
	}
}

func TestSetAttrImmutable(t *testing.T) {
	a := Set{}.SetAttr(1, "v1")
	b := a.SetAttr(2, "v2")
	if _, ok := a.GetAttr(2); ok {
		t.Errorf("SetAttr leaked into receiver")
	}
	if v, ok := b.GetAttr(1); !ok || v != "v1" {
		t.Errorf("GetAttr(1) = %q, %v", v, ok)
	}
}

func TestCompareTotalOrder(t *testing.T) {
	empty := Set{}
	pruned := Set{}.SetFlag(flagPruned)
	if empty.Compare(pruned) >= 0 {
		t.Errorf("expected empty < pruned")
	}
	if pruned.Compare(empty) <= 0 {
		t.Errorf("expected pruned > empty")
	}
	if pruned.Compare(pruned) != 0 {
		t.Errorf("expected pruned == pruned")
	}
}

func TestForEachAttrOrder(t *testing.T) {
	s := Set{}.SetAttr(5, "five").SetAttr(1, "one").SetAttr(3, "three")
	var keys []uint8
	s.ForEachAttr(func(key uint8, value string) { keys = append(keys, key) })
	want := []uint8{1, 3, 5}
	if len(keys) != len(want) {
		t.Fatalf("ForEachAttr visited %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("ForEachAttr order = %v, want %v", keys, want)
		}
	}
}
