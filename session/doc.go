// Package session implements the Redis-backed session store binding an
// opaque unguessable token to an authenticated identity snapshot.
//
// Expiry is enforced by Redis TTL semantics: after the time-to-live
// passes, absence is indistinguishable from "never existed" to callers.
// The snapshot caches the entitlement set computed at login for display
// convenience only — access decisions always re-resolve from the live
// account ledger and must never trust the cached set.
package session
