package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter keyed by caller identity.
type Limiter interface {
	// Allow counts one request for id and reports whether it is within the
	// limit for the current window.
	Allow(ctx context.Context, id string) (bool, error)
}

// --------------------------------------------------------------------------
// In-process limiter
// --------------------------------------------------------------------------

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters for the life of the process. Create it once at
// start-up and call Run to evict expired windows.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*window
	now     func() time.Time
}

// NewMemoryLimiter allows max requests per id per window.
func NewMemoryLimiter(max int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  win,
		entries: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements Limiter. The first request of a window opens it; a request
// exactly at the reset instant still counts toward the old window.
func (l *MemoryLimiter) Allow(_ context.Context, id string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[id]
	if !ok || now.After(w.resetAt) {
		l.entries[id] = &window{count: 1, resetAt: now.Add(l.window)}
		return l.max >= 1, nil
	}
	w.count++
	return w.count <= l.max, nil
}

// Len returns the number of tracked identities.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run evicts expired windows once per window length. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func (l *MemoryLimiter) Run(ctx context.Context) {
	interval := l.window
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evict()
		case <-ctx.Done():
			return
		}
	}
}

func (l *MemoryLimiter) evict() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, w := range l.entries {
		if now.After(w.resetAt) {
			delete(l.entries, id)
		}
	}
}

// --------------------------------------------------------------------------
// Redis limiter
// --------------------------------------------------------------------------

// RedisLimiter shares counters across API replicas: INCR on the window key,
// with the expiry set only when the key is created.
type RedisLimiter struct {
	client    redis.UniversalClient
	namespace string
	max       int
	window    time.Duration
}

// NewRedisLimiter connects using a redis:// URL and verifies the connection.
func NewRedisLimiter(ctx context.Context, url string, max int, win time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisLimiter{client: client, namespace: "ratelimit", max: max, window: win}, nil
}

func (l *RedisLimiter) key(id string) string {
	return l.namespace + ":" + id
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, id string) (bool, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, l.key(id))
		pipe.ExpireNX(ctx, l.key(id), l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	return incr.Val() <= int64(l.max), nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
