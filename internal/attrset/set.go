// Package attrset provides a small, comparable set of keyed boolean
// flags, used to annotate dependency graph nodes with transformer
// output (e.g. "pruned", "winner-of-conflict") without growing the
// node type itself for every new annotation.
//
// This is a simplified adaptation of the attribute-set technique used
// throughout the dependency resolution family this module is modeled
// on: a bitmask of reserved flags plus a small map of keyed values,
// structured so that Set is cheap to copy and to compare.
package attrset

import (
	"math/bits"
	"strings"
)

// Flag is a single reserved boolean bit. Up to 64 flags are supported.
type Flag uint8

// Set is a collection of boolean flags and keyed string values. The
// zero value is an empty set.
type Set struct {
	flags uint64

	attrs    map[uint8]string
	attrBits uint64
}

// SetFlag returns a copy of s with the given flag set.
func (s Set) SetFlag(f Flag) Set {
	s.flags |= 1 << uint(f)
	return s
}

// HasFlag reports whether f is set.
func (s Set) HasFlag(f Flag) bool {
	return s.flags&(1<<uint(f)) != 0
}

// SetAttr returns a copy of s with the given keyed attribute set,
// replacing any existing value for that key. Keys >= 64 panic.
func (s Set) SetAttr(key uint8, value string) Set {
	if key >= 64 {
		panic("attrset: key too large")
	}
	attrs := make(map[uint8]string, len(s.attrs)+1)
	for k, v := range s.attrs {
		attrs[k] = v
	}
	attrs[key] = value
	s.attrs = attrs
	s.attrBits |= 1 << uint(key)
	return s
}

// GetAttr returns the value for key and whether it is present.
func (s Set) GetAttr(key uint8) (string, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

// IsEmpty reports whether s carries no flags and no attributes.
func (s Set) IsEmpty() bool {
	return s.flags == 0 && len(s.attrs) == 0
}

// Compare returns -1, 0, or 1 depending on whether s sorts before,
// equal to, or after other, in a fixed total order over flags then
// attribute keys/values in ascending key order.
func (s Set) Compare(other Set) int {
	if s.flags != other.flags {
		if s.flags < other.flags {
			return -1
		}
		return 1
	}
	if s.attrBits != other.attrBits {
		if s.attrBits < other.attrBits {
			return -1
		}
		return 1
	}
	for rem := s.attrBits; rem != 0; {
		key := uint8(bits.TrailingZeros64(rem))
		rem &^= 1 << uint(key)
		if c := strings.Compare(s.attrs[key], other.attrs[key]); c != 0 {
			return c
		}
	}
	return 0
}

// ForEachAttr calls f for each keyed attribute in ascending key order.
func (s Set) ForEachAttr(f func(key uint8, value string)) {
	for rem := s.attrBits; rem != 0; {
		key := uint8(bits.TrailingZeros64(rem))
		rem &^= 1 << uint(key)
		f(key, s.attrs[key])
	}
}
