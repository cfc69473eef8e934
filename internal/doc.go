// Package internal contains helper utilities that are intentionally private
// to membergate, including secure session-token generation.
//
// # Sub-packages
//
//   - rate — Redis-backed fixed-window login rate limit primitives
//
// # What this package must NOT do
//
//   - Export types that appear in the public membergate API.
//   - Be imported by any package outside the membergate module.
package internal
