package account

import (
	"strings"

	"github.com/batdigest/membergate/entitlement"
)

// Record is the stored account document. The JSON layout matches the
// records written by the provisioning pipeline:
//
//	{
//	  "id": "…",
//	  "email": "member@example.com",
//	  "username": "member",
//	  "password_hash": "$argon2id$…" or "$P$…",
//	  "permissions": {"bbcor_data": [{"expires_at": "…"}, …], …}
//	}
//
// PasswordHash is opaque to this package; verification is the password
// package's concern. Permissions is the append-style grant ledger the
// resolver reads.
type Record struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	PasswordHash string              `json:"password_hash"`
	Permissions  entitlement.History `json:"permissions,omitempty"`
}

// NormalizeEmail canonicalizes an account identifier. Emails are
// case-insensitive; the store keys on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
