package membergate

import (
	"context"
	"time"

	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/dataset"
	"github.com/batdigest/membergate/internal/rate"
	"github.com/batdigest/membergate/password"
	"github.com/batdigest/membergate/session"
)

// Engine is the authorization core. Construct it through [Builder];
// a zero Engine is not usable. All methods are safe for concurrent use.
type Engine struct {
	config   Config
	accounts *account.Store
	sessions *session.Store
	datasets *dataset.Store
	verifier *password.Verifier
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
	now      func() time.Time
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Ping verifies the backing store is reachable.
func (e *Engine) Ping(ctx context.Context) (time.Duration, error) {
	if e == nil || e.sessions == nil {
		return 0, ErrEngineNotReady
	}
	return e.sessions.Ping(ctx)
}

// MetricsSnapshot copies the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events backpressure has dropped.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) clock() time.Time {
	if e == nil || e.now == nil {
		return time.Now()
	}
	return e.now()
}
