package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/batdigest/membergate/entitlement"
)

// ErrRedisUnavailable wraps Redis transport failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// DefaultPrefix is the Redis key namespace for dataset payloads.
const DefaultPrefix = "data"

// Store is the Redis-backed dataset store, keyed by "<prefix>:<category>".
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a dataset [Store] backed by the given Redis client.
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

func (s *Store) key(category entitlement.Key) string {
	return s.prefix + ":" + string(category)
}

// Get fetches the raw payload for a category. An absent payload yields
// JSON null rather than an error: an authorized category with no data
// loaded yet is an empty dataset, not a failure.
func (s *Store) Get(ctx context.Context, category entitlement.Key) (json.RawMessage, error) {
	data, err := s.redis.Get(ctx, s.key(category)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return json.RawMessage("null"), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return json.RawMessage(data), nil
}

// Put writes a payload. Used by the seed CLI and tests.
func (s *Store) Put(ctx context.Context, category entitlement.Key, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return errors.New("dataset payload is not valid JSON")
	}
	if err := s.redis.Set(ctx, s.key(category), []byte(payload), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
