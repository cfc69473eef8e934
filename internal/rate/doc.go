// Package rate provides the Redis-backed fixed-window login rate limiter
// used by the authorization gateway.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - al:  — login per-identifier
//   - ali: — login per-IP
//
// # What this package must NOT do
//
//   - Implement HTTP-level throttling (that belongs to the transport layer).
//   - Be imported outside the membergate module.
package rate
