// Package ratelimit is a Redis fixed-window limiter for net/http handlers.
// It fails open: without Redis, or on any Redis error, requests pass.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"gamearena/internal/metrics"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts requests per client IP in fixed windows.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// Connect dials Redis and pings it. An empty addr or a failed ping yields a
// nil client, which New treats as "always allow".
func Connect(addr, password string, db int, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.String("addr", addr), zap.Error(err))
		c.Close()
		return nil
	}
	return c
}

func New(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, max: max, window: window, logger: logger}
}

// Allow increments ident's counter for the current window.
func (l *Limiter) Allow(ctx context.Context, ident string) (bool, error) {
	if l.client == nil || l.max <= 0 {
		return true, nil
	}
	key := l.key(ident)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return true, err
	}
	// a key without a TTL would limit the client forever
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return incr.Val() <= int64(l.max), nil
}

func (l *Limiter) key(ident string) string {
	return "rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + ident
}

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			l.logger.Warn("rate limiter error", zap.String("endpoint", endpoint), zap.Error(err))
			w.Header().Set("X-RateLimit-Error", "redis-error")
		}
		if !ok {
			metrics.RateLimited.WithLabelValues(endpoint).Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
