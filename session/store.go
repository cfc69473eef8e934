package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps Redis transport failures. Missing or expired
// sessions surface as redis.Nil, never as this error.
var ErrRedisUnavailable = errors.New("redis unavailable")

// DefaultPrefix is the Redis key namespace for session records.
const DefaultPrefix = "session"

// Store is the Redis-backed session store, keyed by "<prefix>:<token>".
// TTL enforcement belongs to Redis; the gateway never re-checks a stored
// timestamp to decide liveness, it only observes presence or absence.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// An empty prefix falls back to [DefaultPrefix].
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) key(token string) string {
	return s.prefix + ":" + token
}

// Save persists a snapshot under its token with the given TTL.
//
//	Performance: 1 Redis SET.
func (s *Store) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}

	data, err := Encode(snap)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(snap.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a session snapshot by token. Returns redis.Nil when the
// token is absent — expired and never-issued are indistinguishable here
// by design. The stored absolute expiry is double-checked so that a
// clock-skewed Redis TTL can never resurrect a session past its lifetime.
//
//	Performance: 1 Redis GET (plus a DEL on the skew path).
func (s *Store) Get(ctx context.Context, token string) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, err
	}
	snap.Token = token

	if time.Now().Unix() >= snap.ExpiresAt {
		if err := s.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, redis.Nil
	}

	return snap, nil
}

// Delete removes a session. Idempotent: deleting an absent token is not
// an error, which is what makes logout safe to retry.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
