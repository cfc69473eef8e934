package membergate

import (
	"errors"
	"time"

	"github.com/batdigest/membergate/password"
)

// Config carries all engine tuning. Obtain a baseline from
// [DefaultConfig], adjust, and pass to [Builder.WithConfig]; the engine
// treats it as immutable after Build.
type Config struct {
	Session   SessionConfig
	Password  password.Params
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
	Store     StoreConfig
}

// SessionConfig controls session issuance.
type SessionConfig struct {
	// TTL is the absolute session lifetime, enforced by the session
	// store. Fixed at issuance; sessions do not slide.
	TTL time.Duration
	// RedisPrefix namespaces session keys ("session" by convention,
	// yielding session:<token>).
	RedisPrefix string
}

// RateLimitConfig controls the fixed-window login throttle.
type RateLimitConfig struct {
	Enabled          bool
	EnableIPThrottle bool
	MaxAttempts      int
	Cooldown         time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events under backpressure instead of blocking
	// request handling. Dropped counts are observable via
	// [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the lock-free counters.
type MetricsConfig struct {
	Enabled bool
}

// StoreConfig sets the Redis key namespaces for the collaborator stores.
type StoreConfig struct {
	AccountPrefix string
	DataPrefix    string
}

// DefaultConfig returns the production baseline: 7-day sessions, login
// throttling on, audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:         7 * 24 * time.Hour,
			RedisPrefix: "session",
		},
		Password: password.Params{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			EnableIPThrottle: true,
			MaxAttempts:      10,
			Cooldown:         15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Store: StoreConfig{
			AccountPrefix: "user",
			DataPrefix:    "data",
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Session.TTL < time.Minute {
		return errors.New("session TTL below one minute is almost certainly a unit mistake")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.MaxAttempts <= 0 {
			return errors.New("rate limit max attempts must be positive")
		}
		if c.RateLimit.Cooldown <= 0 {
			return errors.New("rate limit cooldown must be positive")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}
