// Package cooldown provides per-subject cooldown tracking, either
// in-memory or backed by redis so that multiple instances share state.
package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks a per-key cooldown window.
type Store interface {
	// Remaining returns how long the key's cooldown still runs; zero or
	// negative means the key is not on cooldown.
	Remaining(ctx context.Context, key string) (time.Duration, error)
	// Touch starts (or restarts) the cooldown for the key.
	Touch(ctx context.Context, key string, d time.Duration) error
	// Clear removes the key's cooldown.
	Clear(ctx context.Context, key string) error
}

type memoryStore struct {
	mu    sync.Mutex
	until map[string]time.Time
}

// NewMemoryStore returns an in-process Store.
func NewMemoryStore() Store {
	return &memoryStore{until: make(map[string]time.Time)}
}

func (s *memoryStore) Remaining(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.until[key]
	if !ok {
		return 0, nil
	}
	r := time.Until(until)
	if r <= 0 {
		delete(s.until, key)
		return 0, nil
	}
	return r, nil
}

func (s *memoryStore) Touch(_ context.Context, key string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.until[key] = time.Now().Add(d)
	return nil
}

func (s *memoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.until, key)
	return nil
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Store backed by redis, suitable when several
// instances must share cooldown state. Keys live under the passed prefix
// and expire on their own through redis TTLs.
func NewRedisStore(opts *redis.Options, prefix string) Store {
	if prefix == "" {
		prefix = "cooldown:"
	}
	return &redisStore{client: redis.NewClient(opts), prefix: prefix}
}

func (s *redisStore) Remaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *redisStore) Touch(ctx context.Context, key string, d time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, 1, d).Err()
}

func (s *redisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
