package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps Redis transport failures. A missing account
// is reported as redis.Nil, never as this error.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrRecordCorrupt is returned when a stored account document does not
// decode. Treated as a fault, not an absent account: masking a corrupt
// record as "no such user" would silently lock the member out.
var ErrRecordCorrupt = errors.New("account record corrupt")

// DefaultPrefix is the Redis key namespace for account records.
const DefaultPrefix = "user"

// Store is the Redis-backed account store, keyed by
// "<prefix>:<lowercased-email>".
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates an account [Store] backed by the given Redis client.
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

func (s *Store) key(email string) string {
	return s.prefix + ":" + NormalizeEmail(email)
}

// Get fetches the account record for an email. Returns redis.Nil when no
// account exists; callers map that to their own error vocabulary so that
// "unknown account" stays indistinguishable from "bad credential".
func (s *Store) Get(ctx context.Context, email string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}
	rec.Email = NormalizeEmail(rec.Email)

	return &rec, nil
}

// Put writes an account record. Used by the seed CLI and tests; the
// gateway itself never writes accounts.
func (s *Store) Put(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(rec.Email), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Delete removes an account record. Idempotent.
func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.redis.Del(ctx, s.key(email)).Err(); err != nil {
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
