package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
)

// Rate is a budget of Limit requests per Period with a Burst allowance.
type Rate struct {
	Limit  int
	Burst  int
	Period time.Duration
}

// PerMinute builds a Rate; a non-positive burst falls back to the limit.
func PerMinute(limit, burst int) Rate {
	if burst <= 0 {
		burst = limit
	}
	return Rate{Limit: limit, Burst: burst, Period: time.Minute}
}

// Config holds the per-route budgets.
type Config struct {
	Chat Rate
	Bulk Rate
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter checks budgets in Redis when it is reachable and falls back to
// per-process token buckets otherwise.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	mu      sync.Mutex
	buckets map[string]*bucket
	idleTTL time.Duration
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	if redisClient == nil {
		redisClient = Disabled()
	}
	rl := &RateLimiter{
		redisClient: redisClient,
		config:      config,
		metrics:     metrics,
		buckets:     make(map[string]*bucket),
		idleTTL:     time.Hour,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.Client())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.janitor(10 * time.Minute)
	return rl
}

func (rl *RateLimiter) Config() Config {
	return rl.config
}

// Allow consumes one request from key's budget.
func (rl *RateLimiter) Allow(ctx context.Context, key string, r Rate) (*Result, error) {
	if r.Limit <= 0 || r.Period <= 0 {
		return nil, fmt.Errorf("invalid rate for %s: %d per %s", key, r.Limit, r.Period)
	}

	if rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key, r)
		if err == nil {
			return result, nil
		}
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowLocal(key, r), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, r Rate) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   r.Limit,
		Burst:  burstOf(r),
		Period: r.Period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    rl.now().Add(res.ResetAfter),
		RetryAfter: max(res.RetryAfter, 0),
	}, nil
}

func (rl *RateLimiter) allowLocal(key string, r Rate) *Result {
	now := rl.now()

	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		every := rate.Every(r.Period / time.Duration(r.Limit))
		b = &bucket{limiter: rate.NewLimiter(every, burstOf(r))}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	result := &Result{Limit: r.Limit}
	if b.limiter.AllowN(now, 1) {
		result.Allowed = true
	} else {
		res := b.limiter.ReserveN(now, 1)
		result.RetryAfter = res.DelayFrom(now)
		res.CancelAt(now)
	}

	tokens := b.limiter.TokensAt(now)
	result.Remaining = max(int(tokens), 0)
	missing := float64(burstOf(r)) - tokens
	result.ResetAt = now.Add(time.Duration(missing * float64(r.Period) / float64(r.Limit)))
	return result
}

func burstOf(r Rate) int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

func (rl *RateLimiter) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := rl.evictIdle(); n > 0 {
				slog.Debug("Evicted idle rate limit buckets", "count", n)
			}
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	n := 0
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
			n++
		}
	}
	return n
}

// Reset forgets key in both Redis and the local buckets.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	rl.mu.Lock()
	delete(rl.buckets, key)
	rl.mu.Unlock()

	if rl.redisLimiter != nil {
		return rl.redisLimiter.Reset(ctx, key)
	}
	return nil
}

// Close stops the janitor. The Redis client is owned by the caller.
func (rl *RateLimiter) Close() error {
	rl.once.Do(func() { close(rl.stop) })
	return nil
}

func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	local := len(rl.buckets)
	rl.mu.Unlock()

	return map[string]interface{}{
		"redis_enabled": rl.redisClient.IsEnabled(),
		"local_buckets": local,
		"redis_pool":    rl.redisClient.PoolStats(),
	}
}
