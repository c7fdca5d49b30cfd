// Package ratelimit provides the request limiter used by the HTTP layer.
//
// Limiter is injected into middleware; the in-process store suits a single
// instance, the Redis store shares counters across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/joban727/medstintapp-sub005/pkg/redis"
)

// Limiter consumes one unit for key and reports whether it was allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ── in-process fixed window ──

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a fixed-window counter held in process memory.
// The counter for a key resets once its window expires.
type Memory struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewMemory creates an in-process limiter allowing limit hits per period.
func NewMemory(limit int, period time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.period)}
		m.windows[key] = w
	}
	w.count++
	return w.count <= m.limit, nil
}

// Sweep drops expired windows. Returns the number removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// ── redis fixed window ──

// Redis shares fixed-window counters through Redis.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

// NewRedis creates a Redis-backed limiter. prefix namespaces the keys of one
// limit policy.
func NewRedis(client *redis.Client, prefix string, limit int, period time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, limit: limit, period: period}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	return r.client.CheckRateLimit(ctx, r.prefix+":"+key, r.limit, r.period)
}
