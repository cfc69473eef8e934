package membergate

import "sync/atomic"

// MetricID enumerates the engine's counters.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts failed logins (unknown account or bad
	// credential; the metric, like the error, does not distinguish).
	MetricLoginFailure
	// MetricLoginRateLimited counts logins rejected by the throttle.
	MetricLoginRateLimited
	// MetricSessionCreated counts minted sessions.
	MetricSessionCreated
	// MetricSessionExpired counts requests presenting a missing or
	// expired session token.
	MetricSessionExpired
	// MetricSessionOrphaned counts sessions rejected because the
	// underlying account no longer exists.
	MetricSessionOrphaned
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricPermissionAllowed counts allowed permission checks.
	MetricPermissionAllowed
	// MetricPermissionDenied counts denied permission checks.
	MetricPermissionDenied
	// MetricDataServed counts authorized dataset fetches.
	MetricDataServed
	// MetricDataDenied counts dataset requests denied by entitlements.
	MetricDataDenied
	// MetricUnknownResource counts dataset requests for unmapped paths.
	MetricUnknownResource
	// MetricStoreFault counts operations aborted by store unavailability.
	MetricStoreFault

	metricIDCount
)

// paddedCounter keeps each counter on its own cache line so concurrent
// request handlers do not false-share.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics is the engine's lock-free counter block.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a counter block honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to a counter. No-op when disabled or out of range.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. Counters are read individually, so the
// snapshot is consistent per counter, not across counters — fine for
// monitoring, not a transaction.
func (m *Metrics) Snapshot() MetricsSnapshot {
	out := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return out
}
