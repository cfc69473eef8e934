// Package membergate is the authorization decision engine for the members
// site: it turns an account's raw permission ledger into a live access
// decision and binds that decision to a short-lived opaque session token.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// membergate is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (LoginResult, AuthResult, MetricsSnapshot).
// The entitlement resolver, the Redis-backed account/session/dataset
// stores, and credential verification live in sub-packages; the login
// rate limiter lives under internal/ and is never exported.
//
// # Decision contract
//
// A session identifies WHO is calling, never WHAT they may access. Every
// operation that makes an access decision re-reads the account ledger and
// re-resolves entitlements at that instant; the entitlement snapshot
// cached in a session exists only so callers can render available
// categories without a second round trip. Grants expire independently of
// sessions, so trusting the snapshot would honor revoked or lapsed
// permissions for up to the session lifetime.
//
// # What this package must NOT do
//
//   - Expose Redis clients or store internals in its public API.
//   - Fetch a dataset payload before the access decision allows it.
//   - Distinguish "unknown account" from "wrong password" to callers.
package membergate
