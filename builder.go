package membergate

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/batdigest/membergate/account"
	"github.com/batdigest/membergate/dataset"
	"github.com/batdigest/membergate/internal/rate"
	"github.com/batdigest/membergate/password"
	"github.com/batdigest/membergate/session"
)

// Builder assembles an Engine. Configure with the With* methods, then
// call Build exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client shared by every store and the login
// limiter. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the destination for audit events. Ignored when
// auditing is disabled; defaults to a no-op sink when auditing is
// enabled but no sink is given.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the engine's time source. Entitlement resolution
// and session timestamps read from it; tests pin it to a fixed instant.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build validates the configuration and wires the engine. The builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verifier, err := password.NewVerifier(cfg.Password)
	if err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	engine := &Engine{
		config:   cfg,
		accounts: account.NewStore(b.redis, cfg.Store.AccountPrefix),
		sessions: session.NewStore(b.redis, cfg.Session.RedisPrefix),
		datasets: dataset.NewStore(b.redis, cfg.Store.DataPrefix),
		verifier: verifier,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
		now:      clock,
	}

	if cfg.RateLimit.Enabled {
		engine.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.RateLimit.EnableIPThrottle,
			MaxAttempts:      cfg.RateLimit.MaxAttempts,
			Cooldown:         cfg.RateLimit.Cooldown,
		})
	}

	b.built = true

	return engine, nil
}
