package fetch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sequencer hands out monotonically increasing tokens per scope so that a
// completed fetch can tell whether it has been superseded.
type Sequencer interface {
	Begin(ctx context.Context, scope string) (int64, error)
	IsLatest(ctx context.Context, scope string, token int64) (bool, error)
}

// RedisSequencer keeps generation counters in Redis so they survive across
// server instances.
type RedisSequencer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSequencer constructs a RedisSequencer. Counters expire after ttl of inactivity.
func NewRedisSequencer(client *redis.Client, ttl time.Duration) *RedisSequencer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisSequencer{client: client, ttl: ttl}
}

// Begin implements Sequencer.
func (s *RedisSequencer) Begin(ctx context.Context, scope string) (int64, error) {
	key := generationKey(scope)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// IsLatest implements Sequencer.
func (s *RedisSequencer) IsLatest(ctx context.Context, scope string, token int64) (bool, error) {
	raw, err := s.client.Get(ctx, generationKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	current, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true, err
	}
	return current == token, nil
}

func generationKey(scope string) string {
	return "fetchgen:" + scope
}

// MemorySequencer is a process-local Sequencer.
type MemorySequencer struct {
	mu      sync.Mutex
	current map[string]int64
}

// NewMemorySequencer constructs an empty MemorySequencer.
func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{current: make(map[string]int64)}
}

// Begin implements Sequencer.
func (s *MemorySequencer) Begin(ctx context.Context, scope string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[scope]++
	return s.current[scope], nil
}

// IsLatest implements Sequencer.
func (s *MemorySequencer) IsLatest(ctx context.Context, scope string, token int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current[scope] == token, nil
}

var (
	_ Sequencer = (*RedisSequencer)(nil)
	_ Sequencer = (*MemorySequencer)(nil)
)
