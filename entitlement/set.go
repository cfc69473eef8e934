package entitlement

import "sort"

// Set is the ephemeral entitlement value: the categories active for one
// account at one resolution instant. It is always re-derivable from the
// account's history and must not outlive the request that computed it.
type Set map[Key]struct{}

// NewSet builds a Set from explicit keys. Intended for tests and fixtures.
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports strict membership, with no wildcard semantics.
func (s Set) Contains(k Key) bool {
	_, ok := s[k]
	return ok
}

// Allows is the access decision rule: the requested category is allowed
// iff it is a member of the set or the set holds the FullAccess wildcard.
// The requested key may be an arbitrary caller-supplied string; under
// FullAccess even unknown categories are allowed.
func (s Set) Allows(requested Key) bool {
	if s.Contains(FullAccess) {
		return true
	}
	return s.Contains(requested)
}

// Keys returns the members in sorted order for stable serialization.
func (s Set) Keys() []Key {
	out := make([]Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted members as plain strings for JSON payloads
// and session snapshots.
func (s Set) Strings() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
