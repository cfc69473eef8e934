// Package entitlement turns an account's raw permission history into a
// live, point-in-time entitlement set.
//
// The package is pure: Resolve performs no I/O, never fails, and depends
// only on its inputs. Every access decision in the engine re-invokes
// Resolve against fresh ledger data — cached results from a previous
// request must never be reused, because individual grants expire
// independently of any session.
package entitlement
