package entitlement

import "time"

// Resolve computes the entitlement set for one permission history at the
// given instant.
//
// A registered category is included iff at least one of its grant records
// expires strictly after now. Unregistered ledger keys are skipped.
// Within a category, evaluation stops at the first active record; the
// result is a set, so record order never affects it.
//
// Resolve is total: a nil or empty history yields the empty set, never an
// error. Callers must invoke it once per access decision — memoizing the
// result across requests reintroduces the stale-snapshot hazard this
// function exists to remove.
func Resolve(h History, now time.Time) Set {
	out := make(Set)
	for raw, grants := range h {
		key := Key(raw)
		if !Known(key) {
			continue
		}
		for _, g := range grants {
			if g.Active(now) {
				out[key] = struct{}{}
				break
			}
		}
	}
	return out
}
