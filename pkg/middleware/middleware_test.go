package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func get(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	m := NewMemoryLimiter(time.Hour)
	defer m.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := m.Allow(ctx, "1.1.1.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := m.Allow(ctx, "1.1.1.1", 3, time.Minute)
	assert.False(t, ok)

	ok, _ = m.Allow(ctx, "2.2.2.2", 3, time.Minute)
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(61 * time.Second)
	ok, _ = m.Allow(ctx, "1.1.1.1", 3, time.Minute)
	assert.True(t, ok, "window should have reset")
}

func TestMemoryLimiter_SweepEvictsExpired(t *testing.T) {
	m := NewMemoryLimiter(time.Hour)
	defer m.Stop()

	now := time.Now()
	m.now = func() time.Time { return now }
	_, _ = m.Allow(context.Background(), "a", 1, time.Second)

	now = now.Add(2 * time.Second)
	m.sweep()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.buckets)
}

func TestRateLimit_Rejects(t *testing.T) {
	m := NewMemoryLimiter(time.Hour)
	defer m.Stop()
	h := RateLimit(m, 1, time.Minute, nil)(okHandler)

	assert.Equal(t, http.StatusOK, get(h, "10.0.0.1:5000").Code)

	rec := get(h, "10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too Many Requests"}`, rec.Body.String())
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenLimiter) Name() string { return "broken" }

func TestRateLimit_FailsOpen(t *testing.T) {
	h := RateLimit(brokenLimiter{}, 1, time.Minute, nil)(okHandler)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.2:1").Code)
}

func TestRedisLimiter_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLimiter(client, "storefront:ratelimit:")
	assert.Equal(t, "redis", l.Name())

	ok, err := l.Allow(context.Background(), "10.0.0.3", 5, time.Minute)
	require.Error(t, err)
	assert.False(t, ok)

	h := RateLimit(l, 5, time.Minute, nil)(okHandler)
	assert.Equal(t, http.StatusOK, get(h, "10.0.0.3:1").Code)
}

func TestClientIP_IgnoresForwardedFromUntrustedPeer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:4321"
	assert.Equal(t, "192.168.1.9", ClientIP(nil)(req))

	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "192.168.1.9", ClientIP(nil)(req))

	proxies, err := ParseProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.9", ClientIP(proxies)(req), "peer is not a trusted proxy")
}

func TestClientIP_TrustedProxyChain(t *testing.T) {
	proxies, err := ParseProxies([]string{"10.0.0.0/8", " 172.16.0.5 ", ""})
	require.NoError(t, err)
	key := ClientIP(proxies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"

	req.Header.Set("X-Forwarded-For", "6.6.6.6, 1.2.3.4, 172.16.0.5")
	assert.Equal(t, "1.2.3.4", key(req), "a spoofed leftmost hop is skipped")

	req.Header.Set("X-Forwarded-For", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", key(req), "all hops trusted")

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.1", key(req))
}

func TestRateLimit_SpoofedForwardedForShareABucket(t *testing.T) {
	m := NewMemoryLimiter(time.Hour)
	defer m.Stop()
	h := RateLimit(m, 1, time.Minute, nil)(okHandler)

	for i, fwd := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		want := http.StatusOK
		if i > 0 {
			want = http.StatusTooManyRequests
		}
		assert.Equal(t, want, rec.Code, fwd)
	}
}

func TestParseProxies_Invalid(t *testing.T) {
	_, err := ParseProxies([]string{"10.0.0.0/40"})
	assert.Error(t, err)
	_, err = ParseProxies([]string{"proxy.internal"})
	assert.Error(t, err)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := get(h, "1.1.1.1:1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(CORSOptions{
		AllowedOrigins: []string{"https://shop.example.com"},
		AllowedMethods: []string{"GET", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         60,
	})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/products/1", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "60", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
