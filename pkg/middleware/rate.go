// Package middleware provides the HTTP middleware stack of the API.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// Limiter decides whether one more request from key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error)
	Name() string
}

// ─── In-memory fixed window ───────────────────────────────────────────────────

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(now time.Time, max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// MemoryLimiter keeps per-client buckets in process. It is the fallback when
// Redis is not configured; limits are then per instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryLimiter starts a limiter whose janitor evicts expired buckets
// every sweep interval. Call Stop to release the janitor.
func NewMemoryLimiter(sweep time.Duration) *MemoryLimiter {
	m := &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go m.janitor(sweep)
	return m
}

func (m *MemoryLimiter) Name() string { return "memory" }

func (m *MemoryLimiter) Allow(_ context.Context, key string, max int, window time.Duration) (bool, error) {
	now := m.now()

	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{resetAt: now.Add(window)}
		m.buckets[key] = b
	}
	m.mu.Unlock()

	return b.allow(now, max, window), nil
}

// Stop ends the janitor goroutine. Safe to call more than once.
func (m *MemoryLimiter) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *MemoryLimiter) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *MemoryLimiter) sweep() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, b := range m.buckets {
		b.mu.Lock()
		expired := now.After(b.resetAt)
		b.mu.Unlock()
		if expired {
			delete(m.buckets, key)
		}
	}
}

// ─── Redis sliding window ─────────────────────────────────────────────────────

// slidingWindow trims entries older than the window, then admits the request
// if the sorted set still has room. Members are made unique with a counter.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_ms = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local current = redis.call('ZCARD', key)
if current >= limit then
	return 0
end

local seq = redis.call('INCR', key .. ':seq')
redis.call('ZADD', key, now, now .. ':' .. seq)
redis.call('PEXPIRE', key, window_ms)
redis.call('PEXPIRE', key .. ':seq', window_ms)
return 1
`)

// RedisLimiter shares limits across every instance pointing at one Redis.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
}

func NewRedisLimiter(client redis.Scripter, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Name() string { return "redis" }

func (l *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (bool, error) {
	now := time.Now()
	res, err := slidingWindow.Run(ctx, l.client,
		[]string{l.prefix + key},
		now.UnixMilli(), now.Add(-window).UnixMilli(), max, window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	return res == 1, nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// RateLimit limits each client, as named by key, to max requests per window.
// A nil key uses ClientIP(nil). If the limiter itself fails the request is
// let through and a warning logged.
//
//	r.Use(middleware.RateLimit(middleware.NewMemoryLimiter(time.Minute), 200, time.Minute, nil))
func RateLimit(l Limiter, max int, window time.Duration, key KeyFunc) func(http.Handler) http.Handler {
	limit := strconv.Itoa(max)
	if key == nil {
		key = ClientIP(nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), key(r), max, window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter unavailable", "backend", l.Name(), "error", err)
				ok = true
			}

			w.Header().Set("X-RateLimit-Limit", limit)
			if !ok {
				metrics.RateLimited.WithLabelValues(l.Name()).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.TooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// KeyFunc names the client a request is counted against.
type KeyFunc func(r *http.Request) string

// ClientIP keys requests on the peer address. X-Forwarded-For is only read
// when the peer is one of trusted; the key is then the rightmost hop that is
// not itself a trusted proxy.
func ClientIP(trusted []netip.Prefix) KeyFunc {
	isTrusted := func(s string) bool {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return false
		}
		addr = addr.Unmap()
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer := r.RemoteAddr
		if host, _, err := net.SplitHostPort(peer); err == nil {
			peer = host
		}
		if len(trusted) == 0 || !isTrusted(peer) {
			return peer
		}

		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !isTrusted(hop) {
				return hop
			}
			peer = hop
		}
		return peer
	}
}

// peerIP is the direct peer, whatever forwarding headers say.
var peerIP = ClientIP(nil)

// ParseProxies reads proxy addresses and CIDR ranges such as "10.0.0.0/8".
func ParseProxies(list []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(list))
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("ratelimit: trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("ratelimit: trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
