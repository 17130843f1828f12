// Package rdb owns the optional Redis connection used by the rate limiter and
// the health check. When REDIS_ADDR is empty Redis is simply not used.
package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrDisabled is returned by Ping when no Redis address is configured.
var ErrDisabled = errors.New("rdb: redis is not configured")

var client *redis.Client

// Connect creates the client and verifies it with a ping. On failure the
// client is dropped so callers fall back to in-memory behaviour.
func Connect(ctx context.Context) error {
	addr := config.RedisAddr()
	if addr == "" {
		return ErrDisabled
	}

	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     config.RedisPassword(),
		DB:           0,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("rdb: ping %s: %w", addr, err)
	}

	client = c
	return nil
}

// Client returns the live client, or nil when Redis is not in use.
func Client() *redis.Client { return client }

// Enabled reports whether a Redis client is installed.
func Enabled() bool { return client != nil }

// Ping checks the installed client.
func Ping(ctx context.Context) error {
	if client == nil {
		return ErrDisabled
	}
	return client.Ping(ctx).Err()
}

// Close closes the client, if any.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
