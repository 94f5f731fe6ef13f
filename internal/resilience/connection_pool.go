package resilience

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// PoolConfig sizes the shared upstream transport.
type PoolConfig struct {
	MaxIdle        int
	MaxActive      int
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DefaultPoolConfig returns the transport limits used for the leads API.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxIdle:        10,
		MaxActive:      20,
		IdleTimeout:    90 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// ConnectionPool shares one keep-alive transport between upstream calls and
// routes every request through a circuit breaker.
type ConnectionPool struct {
	config         PoolConfig
	transport      *http.Transport
	client         *http.Client
	circuitBreaker *CircuitBreaker

	inFlight int64
	total    int64
	failed   int64
}

var errServerStatus = errors.New("upstream returned a server error")

// NewConnectionPool creates a pool; a nil breaker gets a default one.
func NewConnectionPool(config PoolConfig, cb *CircuitBreaker) *ConnectionPool {
	def := DefaultPoolConfig()
	if config.MaxIdle <= 0 {
		config.MaxIdle = def.MaxIdle
	}
	if config.MaxActive <= 0 {
		config.MaxActive = def.MaxActive
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = def.IdleTimeout
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = def.RequestTimeout
	}
	if cb == nil {
		cb = NewCircuitBreaker(CircuitBreakerConfig{})
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          config.MaxIdle,
		MaxConnsPerHost:       config.MaxActive,
		MaxIdleConnsPerHost:   max(config.MaxIdle/2, 1),
		IdleConnTimeout:       config.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: config.RequestTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &ConnectionPool{
		config:         config,
		transport:      transport,
		client:         &http.Client{Transport: transport, Timeout: config.RequestTimeout},
		circuitBreaker: cb,
	}
}

// Client returns the pooled HTTP client.
func (cp *ConnectionPool) Client() *http.Client {
	return cp.client
}

// CircuitBreaker returns the breaker guarding this pool.
func (cp *ConnectionPool) CircuitBreaker() *CircuitBreaker {
	return cp.circuitBreaker
}

// DoRequest executes a GET-style request with circuit breaker protection.
// 5xx responses count as breaker failures but are still returned to the caller.
func (cp *ConnectionPool) DoRequest(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	var resp *http.Response

	err := cp.circuitBreaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		atomic.AddInt64(&cp.inFlight, 1)
		atomic.AddInt64(&cp.total, 1)
		start := time.Now()
		resp, err = cp.client.Do(req)
		atomic.AddInt64(&cp.inFlight, -1)

		if err != nil {
			atomic.AddInt64(&cp.failed, 1)
			slog.Warn("Request failed", "url", url, "error", err, "duration_ms", time.Since(start).Milliseconds())
			return err
		}

		slog.Debug("Request completed", "url", url, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
		if resp.StatusCode >= http.StatusInternalServerError {
			return errServerStatus
		}
		return nil
	})

	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"in_flight":             atomic.LoadInt64(&cp.inFlight),
		"total_requests":        atomic.LoadInt64(&cp.total),
		"failed_requests":       atomic.LoadInt64(&cp.failed),
		"max_idle":              cp.config.MaxIdle,
		"max_active":            cp.config.MaxActive,
		"idle_timeout_ms":       cp.config.IdleTimeout.Milliseconds(),
		"circuit_breaker_state": cp.circuitBreaker.State().String(),
	}
}

// Close drops idle keep-alive connections.
func (cp *ConnectionPool) Close() error {
	cp.transport.CloseIdleConnections()
	slog.Info("Connection pool closed")
	return nil
}
