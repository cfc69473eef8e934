package membergate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/batdigest/membergate/dataset"
	"github.com/batdigest/membergate/entitlement"
)

// CheckPermission answers whether the session's member currently holds
// the requested category. A denial is a negative answer, not an error;
// errors are reserved for authentication and store failures.
//
// The requested string is matched against the freshly resolved set, so
// holding the wildcard allows arbitrary category strings, including ones
// the registry has never seen.
func (e *Engine) CheckPermission(ctx context.Context, token, requested string) (*PermissionDecision, error) {
	_, _, ents, err := e.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	allowed := ents.Allows(entitlement.Key(requested))
	if allowed {
		e.metricInc(MetricPermissionAllowed)
	} else {
		e.metricInc(MetricPermissionDenied)
		e.emitAudit(ctx, AuditPermissionDenied, false, "", "", token, requested, ErrPermissionDenied, nil)
	}

	return &PermissionDecision{
		Allowed:      allowed,
		Entitlements: ents,
	}, nil
}

// AuthorizeData gates a dataset fetch: the dataType path segment is
// mapped through the fixed route table, the session's current
// entitlements are checked against the mapped category, and only then is
// the payload read. An unmapped dataType is [ErrUnknownResource]
// regardless of what the member holds.
func (e *Engine) AuthorizeData(ctx context.Context, token, dataType string) (json.RawMessage, error) {
	snap, _, ents, err := e.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	category, ok := dataset.RouteCategory(dataType)
	if !ok {
		e.metricInc(MetricUnknownResource)
		return nil, ErrUnknownResource
	}

	if !ents.Allows(category) {
		e.metricInc(MetricDataDenied)
		e.emitAudit(ctx, AuditDataAccess, false, snap.AccountID, snap.Email, token, string(category), ErrPermissionDenied, nil)
		return nil, ErrPermissionDenied
	}

	payload, err := e.datasets.Get(ctx, category)
	if err != nil {
		e.metricInc(MetricStoreFault)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricDataServed)
	e.emitAudit(ctx, AuditDataAccess, true, snap.AccountID, snap.Email, token, string(category), nil, nil)

	return payload, nil
}
