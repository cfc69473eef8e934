// Package account implements the durable account store: a Redis mapping
// from lowercased email to the account record, including the credential
// hash and the per-category permission ledger.
//
// The store is read-mostly from the gateway's perspective. Ledger writes
// happen out-of-band through the provisioning pipeline (or the seed CLI);
// the gateway only ever reads records and re-resolves entitlements from
// them on every access decision.
package account
