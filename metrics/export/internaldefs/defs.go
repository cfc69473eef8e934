package internaldefs

import (
	membergate "github.com/batdigest/membergate"
)

// CounterDef binds an engine counter to its exported name and help text.
type CounterDef struct {
	ID   membergate.MetricID
	Name string
	Help string
}

// CounterDefs is the full exported counter catalog, in render order.
var CounterDefs = []CounterDef{
	{ID: membergate.MetricLoginSuccess, Name: "membergate_login_success_total", Help: "Successful login attempts."},
	{ID: membergate.MetricLoginFailure, Name: "membergate_login_failure_total", Help: "Failed login attempts."},
	{ID: membergate.MetricLoginRateLimited, Name: "membergate_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: membergate.MetricSessionCreated, Name: "membergate_session_created_total", Help: "Created sessions."},
	{ID: membergate.MetricSessionExpired, Name: "membergate_session_expired_total", Help: "Requests presenting a missing or expired session."},
	{ID: membergate.MetricSessionOrphaned, Name: "membergate_session_orphaned_total", Help: "Sessions retired because the account no longer exists."},
	{ID: membergate.MetricLogout, Name: "membergate_logout_total", Help: "Explicit logout operations."},
	{ID: membergate.MetricPermissionAllowed, Name: "membergate_permission_allowed_total", Help: "Permission checks that allowed access."},
	{ID: membergate.MetricPermissionDenied, Name: "membergate_permission_denied_total", Help: "Permission checks that denied access."},
	{ID: membergate.MetricDataServed, Name: "membergate_data_served_total", Help: "Authorized dataset payload fetches."},
	{ID: membergate.MetricDataDenied, Name: "membergate_data_denied_total", Help: "Dataset requests denied by entitlements."},
	{ID: membergate.MetricUnknownResource, Name: "membergate_unknown_resource_total", Help: "Dataset requests for unmapped resources."},
	{ID: membergate.MetricStoreFault, Name: "membergate_store_fault_total", Help: "Operations aborted by store unavailability."},
}
