package membergate

import (
	"github.com/batdigest/membergate/entitlement"
)

// Identity is the WHO of an authenticated request: stable account fields
// carried by the session snapshot.
type Identity struct {
	AccountID string
	Email     string
	Username  string
}

// LoginResult is returned by [Engine.Login]. Token is the opaque session
// identifier the client must present on every subsequent request;
// Entitlements is the set resolved at login time, returned so the caller
// can render available categories immediately.
type LoginResult struct {
	Token        string
	Identity     Identity
	Entitlements entitlement.Set
}

// AuthResult is the outcome of validating a session: the identity from
// the snapshot plus the entitlement set freshly resolved from the live
// account ledger. Entitlements here is authoritative for this request
// and only this request.
type AuthResult struct {
	Identity     Identity
	Entitlements entitlement.Set
}

// PermissionDecision is returned by [Engine.CheckPermission]. The full
// current entitlement set rides along so callers can render available
// categories without a second round trip.
type PermissionDecision struct {
	Allowed      bool
	Entitlements entitlement.Set
}

// SessionInfo is returned by [Engine.Introspect]: the stored snapshot
// alongside the current entitlements, for display surfaces that want to
// show both what the member had at login and what they have now.
type SessionInfo struct {
	Identity Identity

	// PermissionsAtLogin is the display-only snapshot frozen when the
	// session was created. Never used for decisions.
	PermissionsAtLogin []string
	// CurrentEntitlements is freshly resolved from the live ledger.
	CurrentEntitlements entitlement.Set

	CreatedAt int64
	ExpiresAt int64
}
