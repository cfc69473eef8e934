package membergate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/entitlement"
	"github.com/batdigest/membergate/session"
)

// ValidateSession authenticates a session token and re-resolves the
// member's entitlements from the live account ledger. The returned
// entitlement set is authoritative for exactly this request.
func (e *Engine) ValidateSession(ctx context.Context, token string) (*AuthResult, error) {
	snap, _, ents, err := e.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Identity: Identity{
			AccountID: snap.AccountID,
			Email:     snap.Email,
			Username:  snap.Username,
		},
		Entitlements: ents,
	}, nil
}

// Logout destroys a session. Deleting an already-absent session is a
// success; only a missing token or a store fault is an error.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return ErrSessionExpired
	}

	if err := e.sessions.Delete(ctx, token); err != nil {
		e.metricInc(MetricStoreFault)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, true, "", "", token, "", nil, nil)
	return nil
}

// Introspect returns the session's stored snapshot alongside the
// member's current entitlements, for surfaces that display both.
func (e *Engine) Introspect(ctx context.Context, token string) (*SessionInfo, error) {
	snap, _, ents, err := e.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		Identity: Identity{
			AccountID: snap.AccountID,
			Email:     snap.Email,
			Username:  snap.Username,
		},
		PermissionsAtLogin:  append([]string(nil), snap.Permissions...),
		CurrentEntitlements: ents,
		CreatedAt:           snap.CreatedAt,
		ExpiresAt:           snap.ExpiresAt,
	}, nil
}

// resolveSession is the shared authentication path: load the snapshot,
// load the live account it points at, and resolve entitlements now.
// The snapshot's frozen permission list is never consulted for the set.
func (e *Engine) resolveSession(ctx context.Context, token string) (*session.Snapshot, *account.Record, entitlement.Set, error) {
	if e == nil || e.sessions == nil || e.accounts == nil {
		return nil, nil, nil, ErrEngineNotReady
	}
	if token == "" {
		e.metricInc(MetricSessionExpired)
		return nil, nil, nil, ErrSessionExpired
	}

	snap, err := e.sessions.Get(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			e.metricInc(MetricSessionExpired)
			e.emitAudit(ctx, AuditSessionExpired, false, "", "", token, "", ErrSessionExpired, nil)
			return nil, nil, nil, ErrSessionExpired
		case errors.Is(err, session.ErrSnapshotCorrupt):
			// Unreadable snapshots are retired like expired ones.
			_ = e.sessions.Delete(ctx, token)
			e.metricInc(MetricSessionExpired)
			e.emitAudit(ctx, AuditSessionExpired, false, "", "", token, "", ErrSessionExpired, func() map[string]string {
				return map[string]string{"reason": "snapshot_corrupt"}
			})
			return nil, nil, nil, ErrSessionExpired
		default:
			e.metricInc(MetricStoreFault)
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	rec, err := e.accounts.Get(ctx, snap.Email)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The account vanished under a live session. Retire the
			// session and answer as if it expired.
			_ = e.sessions.Delete(ctx, token)
			e.metricInc(MetricSessionOrphaned)
			e.metricInc(MetricSessionExpired)
			e.emitAudit(ctx, AuditSessionOrphaned, false, snap.AccountID, snap.Email, token, "", ErrSessionExpired, nil)
			return nil, nil, nil, ErrSessionExpired
		}
		e.metricInc(MetricStoreFault)
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ents := entitlement.Resolve(rec.Permissions, e.clock())
	return snap, rec, ents, nil
}
