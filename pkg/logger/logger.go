// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: it returns the logger the
// request middleware stored in the context, already tagged with the request
// ID, so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Error("list products failed", "error", err)
//	// → time=... level=ERROR msg="list products failed" request_id=a1b2c3d4 error=...
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/storefront/config"
)

var L *slog.Logger

// closers are flushed by Close; extra sinks register here.
var closers []func()

func init() {
	L = slog.New(newHandler(os.Stdout))
	slog.SetDefault(L)
}

// newHandler picks JSON output for production and text output elsewhere.
func newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: level()}
	if config.IsProduction() {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func level() slog.Level {
	switch config.LogLevel() {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if config.IsProduction() {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Setup rebuilds the base logger after config has been loaded. When
// LOG_MONGO_URI is set, records are also shipped to MongoDB.
// A failing Mongo connection is reported and the stdout logger is kept.
func Setup() {
	base := newHandler(os.Stdout)

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			slog.New(base).Warn("logger: mongo sink disabled", "error", err)
		} else {
			closers = append(closers, mh.Close)
			base = NewMultiHandler(base, mh.WithLevel(level()))
		}
	}

	L = slog.New(base).With("app", config.AppName())
	slog.SetDefault(L)
}

// Close flushes and disconnects any extra sinks installed by Setup.
func Close() {
	for _, fn := range closers {
		fn()
	}
	closers = nil
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by InjectLogger.
// If none is present the base logger is returned.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
