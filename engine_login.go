package membergate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/entitlement"
	"github.com/batdigest/membergate/internal"
	"github.com/batdigest/membergate/internal/rate"
	"github.com/batdigest/membergate/session"
)

// Login verifies a member's credentials and mints a session. On success
// the returned token is the opaque identifier the client presents on
// subsequent requests; Entitlements is the set resolved at this instant,
// for immediate rendering.
//
// An unknown email and a wrong password both return
// [ErrInvalidCredentials]; callers must not be able to tell them apart.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	if e == nil || e.verifier == nil {
		return nil, ErrEngineNotReady
	}

	email = account.NormalizeEmail(email)
	ip := clientIPFromContext(ctx)

	if e.limiter != nil {
		if err := e.limiter.Check(ctx, email, ip); err != nil {
			return nil, e.loginThrottled(ctx, email, err)
		}
	}

	if email == "" || plaintext == "" {
		return nil, e.loginFailed(ctx, email, "", "empty_credential")
	}

	rec, err := e.accounts.Get(ctx, email)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, e.loginFailed(ctx, email, "", "account_not_found")
		}
		e.metricInc(MetricStoreFault)
		e.emitAudit(ctx, AuditLoginFailure, false, "", email, "", "", ErrStoreUnavailable, nil)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := e.verifier.Verify(plaintext, rec.PasswordHash)
	if err != nil || !ok {
		return nil, e.loginFailed(ctx, email, rec.ID, "credential_mismatch")
	}
	plaintext = ""

	now := e.clock()
	ents := entitlement.Resolve(rec.Permissions, now)

	token, err := internal.NewSessionToken()
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, rec.ID, email, "", "", err, func() map[string]string {
			return map[string]string{"reason": "token_generation"}
		})
		return nil, err
	}

	snap := &session.Snapshot{
		Token:       token.String(),
		AccountID:   rec.ID,
		Email:       rec.Email,
		Username:    rec.Username,
		Permissions: ents.Strings(),
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(e.config.Session.TTL).Unix(),
	}

	if err := e.sessions.Save(ctx, snap, e.config.Session.TTL); err != nil {
		e.metricInc(MetricStoreFault)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, rec.ID, email, "", "", ErrStoreUnavailable, func() map[string]string {
			return map[string]string{"reason": "session_save_failed"}
		})
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if e.limiter != nil {
		// Best effort: a limiter fault must not fail a login whose
		// session is already stored.
		if err := e.limiter.Reset(ctx, email, ip); err != nil {
			e.metricInc(MetricStoreFault)
		}
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLoginSuccess, true, rec.ID, email, snap.Token, "", nil, nil)

	return &LoginResult{
		Token: snap.Token,
		Identity: Identity{
			AccountID: rec.ID,
			Email:     rec.Email,
			Username:  rec.Username,
		},
		Entitlements: ents,
	}, nil
}

func (e *Engine) loginThrottled(ctx context.Context, email string, err error) error {
	if errors.Is(err, rate.ErrRateLimited) {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, AuditLoginRateLimited, false, "", email, "", "", ErrLoginRateLimited, nil)
		return ErrLoginRateLimited
	}
	e.metricInc(MetricStoreFault)
	e.emitAudit(ctx, AuditLoginFailure, false, "", email, "", "", ErrStoreUnavailable, func() map[string]string {
		return map[string]string{"reason": "limiter_unavailable"}
	})
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// loginFailed charges the attempt against the limiter and returns the
// uniform credential error.
func (e *Engine) loginFailed(ctx context.Context, email, accountID, reason string) error {
	if e.limiter != nil {
		if err := e.limiter.Increment(ctx, email, clientIPFromContext(ctx)); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, AuditLoginRateLimited, false, accountID, email, "", "", ErrLoginRateLimited, nil)
				return ErrLoginRateLimited
			}
			e.metricInc(MetricStoreFault)
		}
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, AuditLoginFailure, false, accountID, email, "", "", ErrInvalidCredentials, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	return ErrInvalidCredentials
}
