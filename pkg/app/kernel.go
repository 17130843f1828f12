package app

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rdb"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// buildHandler assembles the middleware stack and the application's routes.
// The returned cleanup releases the rate limiter.
func (a *Application) buildHandler(db *gorm.DB) (http.Handler, func()) {
	limiter, cleanup := newLimiter()

	r := router.New()

	// Outermost first:
	//  1. metrics     total latency, including panics
	//  2. request id  before anything logs
	//  3. logger      request-scoped logger + access line
	//  4. recovery    needs the request logger
	//  5. CORS
	//  6. rate limit
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(limiter, config.RateLimitMax(), config.RateLimitWindow(), rateKey()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range a.routes {
		fn(r, db)
	}

	return r.Handler(), cleanup
}

// rateKey trusts X-Forwarded-For only from the configured proxies. A bad
// entry is logged and nothing is trusted.
func rateKey() middleware.KeyFunc {
	proxies, err := middleware.ParseProxies(config.TrustedProxies())
	if err != nil {
		logger.Warn("ignoring TRUSTED_PROXIES", "error", err)
		proxies = nil
	}
	return middleware.ClientIP(proxies)
}

// newLimiter shares limits through Redis when it is connected and keeps them
// per process otherwise.
func newLimiter() (middleware.Limiter, func()) {
	if rdb.Enabled() {
		logger.Info("rate limiter backend", "backend", "redis")
		return middleware.NewRedisLimiter(rdb.Client(), config.AppName()+":ratelimit:"), func() {}
	}
	m := middleware.NewMemoryLimiter(time.Minute)
	return m, m.Stop
}
