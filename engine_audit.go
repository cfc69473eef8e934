package membergate

import (
	"context"
	"errors"
)

// Audit error codes. Stable strings so downstream pipelines can key on
// them without parsing Go error text.
const (
	auditErrInvalidCredentials = "invalid_credentials"
	auditErrRateLimited        = "rate_limited"
	auditErrSessionExpired     = "session_expired"
	auditErrPermissionDenied   = "permission_denied"
	auditErrUnknownResource    = "unknown_resource"
	auditErrUnavailable        = "backend_unavailable"
	auditErrInternal           = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	email string,
	sessionID string,
	category string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.clock().UTC(),
		EventType: eventType,
		AccountID: accountID,
		Email:     email,
		SessionID: sessionID,
		Category:  category,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = code
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrPermissionDenied):
		return auditErrPermissionDenied
	case errors.Is(err, ErrUnknownResource):
		return auditErrUnknownResource
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
