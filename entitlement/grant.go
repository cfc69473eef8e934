package entitlement

import "time"

// Grant is one expiry-bearing entitlement instance for a category.
// Grants are written by an external provisioning process and never
// mutated in place; the resolver only reads them.
//
// All fields except ExpiresAt are opaque provisioning metadata and are
// never interpreted by the resolver.
type Grant struct {
	ExpiresAt time.Time `json:"expires_at"`
	GrantedAt time.Time `json:"granted_at,omitzero"`
	OrderID   string    `json:"order_id,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Active reports whether the grant is still valid at the given instant.
// A grant is active iff its expiry is strictly after now; a grant
// expiring exactly at now is already inactive.
func (g Grant) Active(now time.Time) bool {
	return g.ExpiresAt.After(now)
}

// History is the per-account permission ledger: category key to the
// ordered set of grant records for that category. Multiple records per
// category are independent renewals or overlapping purchases. Keys are
// raw strings rather than [Key] because the ledger may carry entries
// for categories this build does not register.
type History map[string][]Grant
