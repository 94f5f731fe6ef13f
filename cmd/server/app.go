package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/adapters"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/config"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/dataset"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/frontend"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/middleware"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/narrator"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/resilience"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/security"
)

const redisService = "redis"

// app holds every long-lived dependency of the HTTP server.
type app struct {
	cfg     *config.Config
	logger  *monitoring.Logger
	metrics *monitoring.Metrics

	health   *resilience.DegradationManager
	breakers *resilience.CircuitBreakerRegistry

	leads    *adapters.LeadsClient
	narrator *narrator.Narrator

	sessions  *cache.SessionStore
	responses *cache.Cache

	redis   *ratelimit.RedisClient
	limiter *ratelimit.RateLimiter

	guard      *security.Guard
	compressor *middleware.Compressor
	page       *frontend.Page
}

func newApp(ctx context.Context, cfg *config.Config, logger *monitoring.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  monitoring.NewMetrics(),
		health:   resilience.NewDegradationManager(resilience.DefaultDegradationConfig()),
		breakers: resilience.NewCircuitBreakerRegistry(),
	}

	a.health.RegisterService(adapters.LeadsService, nil)
	a.leads = adapters.NewLeadsClient(adapters.LeadsConfig{
		URL:     cfg.Leads.URL,
		APIKey:  cfg.Leads.APIKey,
		Timeout: cfg.Leads.Timeout,
		Pool:    resilience.DefaultPoolConfig(),
		Breaker: a.breaker(adapters.LeadsService),
	}, logger, a.metrics, a.health)

	enhancer, err := narrator.NewEnhancer(cfg.Enhancer.ProviderConfig())
	if err != nil {
		// the chat endpoint still answers with local insights
		logger.Warn("Failed to initialize language model, continuing without it", "provider", cfg.Enhancer.Provider, "error", err)
		enhancer = nil
	}
	if enhancer != nil {
		a.health.RegisterService(narrator.EnhancerService, nil)
	}
	a.setEnhancer(enhancer)

	a.redis, err = ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	if a.redis.IsEnabled() {
		a.health.RegisterService(redisService, a.redis.HealthCheck)
	}
	a.limiter = ratelimit.NewRateLimiter(a.redis, ratelimit.Config{
		Chat: ratelimit.PerMinute(cfg.RateLimit.ChatPerMinute, cfg.RateLimit.ChatBurst),
		Bulk: ratelimit.PerMinute(cfg.RateLimit.BulkPerMinute, 0),
	}, a.metrics)

	a.sessions = cache.NewSessionStore(dataset.NewGenerator(cfg.Session.SampleSize), cfg.Session.TTL, cfg.Session.SampleSeed, a.metrics)
	a.responses = cache.NewCache(cfg.Cache.ResponseTTL)

	a.guard = security.NewGuard(cfg.Server.Security())
	a.compressor = middleware.NewCompressor(middleware.DefaultCompressionConfig())

	a.page, err = frontend.NewPage(a.aiAvailable, cfg.Session.SampleSize)
	if err != nil {
		a.Close()
		return nil, errors.NewInternalError("failed to load page template", err)
	}

	return a, nil
}

// setEnhancer swaps the language model behind the chat endpoint.
func (a *app) setEnhancer(e narrator.Enhancer) {
	a.narrator = narrator.New(e, narrator.Options{
		Timeout: a.cfg.Enhancer.Timeout,
		Breaker: a.breaker(narrator.EnhancerService),
		Logger:  a.logger,
		Metrics: a.metrics,
		Health:  a.health,
	})
}

func (a *app) aiAvailable() bool {
	return a.narrator != nil && a.narrator.Available()
}

func (a *app) breaker(name string) *resilience.CircuitBreaker {
	return a.breakers.GetOrCreate(name, resilience.CircuitBreakerConfig{
		OnStateChange: func(from, to resilience.CircuitBreakerState) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			switch to {
			case resilience.StateOpen:
				a.metrics.IncrementCircuitBreakerOpen()
			case resilience.StateClosed:
				a.metrics.IncrementCircuitBreakerClose()
			}
		},
	})
}

// Close releases background goroutines and connections.
func (a *app) Close() {
	start := time.Now()
	if a.limiter != nil {
		errors.SafeClose(a.limiter, "rate limiter")
	}
	if a.redis != nil {
		errors.SafeClose(a.redis, "redis client")
	}
	if a.sessions != nil {
		errors.SafeClose(a.sessions, "session store")
	}
	if a.responses != nil {
		errors.SafeClose(a.responses, "response cache")
	}
	if a.leads != nil {
		errors.SafeClose(a.leads.Pool(), "leads connection pool")
	}
	a.health.GracefulShutdown()
	a.logger.SystemLogger("shutdown", "dependencies closed in "+time.Since(start).String())
}
