package membergate

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown account and a failed
	// credential verification. The two cases are intentionally
	// indistinguishable to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired covers a missing, expired, or orphaned session
	// (the account was deleted after the session was created).
	ErrSessionExpired = errors.New("session expired")
	// ErrPermissionDenied means the caller is authenticated but the
	// freshly resolved entitlement set does not allow the category.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnknownResource means the requested data type has no entry in
	// the fixed route table. A client error, distinct from denial.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrLoginRateLimited means the login attempt budget for the
	// identifier or IP is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrStoreUnavailable wraps faults talking to the backing stores.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned by methods on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
