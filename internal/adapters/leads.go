package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/resilience"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/types"
)

// LeadsService is the name the leads API is tracked under in metrics and health.
const LeadsService = "leads_api"

// DefaultLimit is sent when the caller does not ask for a page size.
const DefaultLimit = "50"

// LeadsConfig configures the remote student records API.
type LeadsConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Retry   resilience.RetryConfig
	Pool    resilience.PoolConfig
	Breaker *resilience.CircuitBreaker
}

// LeadsClient fetches student records from the leads API.
type LeadsClient struct {
	config  LeadsConfig
	pool    *resilience.ConnectionPool
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
	health  *resilience.DegradationManager
}

// NewLeadsClient builds a client; logger, metrics and health may be nil.
func NewLeadsClient(config LeadsConfig, logger *monitoring.Logger, metrics *monitoring.Metrics, health *resilience.DegradationManager) *LeadsClient {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = resilience.DefaultRetryConfig()
	}
	config.Pool.RequestTimeout = config.Timeout

	return &LeadsClient{
		config:  config,
		pool:    resilience.NewConnectionPool(config.Pool, config.Breaker),
		logger:  logger,
		metrics: metrics,
		health:  health,
	}
}

// URL returns the configured endpoint.
func (c *LeadsClient) URL() string {
	return c.config.URL
}

// Pool exposes the client's transport for health reporting.
func (c *LeadsClient) Pool() *resilience.ConnectionPool {
	return c.pool
}

// Fetch queries the leads API. It never returns a Go error: failures are
// reported in the Error and Message fields of the result.
func (c *LeadsClient) Fetch(ctx context.Context, filters map[string]string) types.FetchResult {
	endpoint, err := c.buildURL(filters)
	if err != nil {
		return types.FetchResult{Error: fmt.Sprintf("Failed to fetch data: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	headers := map[string]string{"Accept": "application/json"}
	if c.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.APIKey
	}

	start := time.Now()
	status := 0
	var body []byte

	retry := c.config.Retry
	retry.RetryableErrors = retryableFetch
	err = resilience.RetryWithConfig(ctx, retry, func() error {
		resp, err := c.pool.DoRequest(ctx, http.MethodGet, endpoint, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return resilience.NewHTTPError(resp.StatusCode, string(body))
		}
		return nil
	})

	result := c.result(err, body)
	c.record(endpoint, status, time.Since(start), result)
	return result
}

func (c *LeadsClient) buildURL(filters map[string]string) (string, error) {
	u, err := url.Parse(c.config.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range filters {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	if q.Get("limit") == "" {
		q.Set("limit", DefaultLimit)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *LeadsClient) result(err error, body []byte) types.FetchResult {
	var httpErr *resilience.HTTPError
	switch {
	case err == nil:
		res, perr := decodeLeads(body)
		if perr != nil {
			return types.FetchResult{Error: fmt.Sprintf("Failed to fetch data: %v", perr)}
		}
		return res
	case stderrors.As(err, &httpErr):
		return types.FetchResult{
			Error:   fmt.Sprintf("API request failed with status %d", httpErr.StatusCode),
			Message: httpErr.Body,
		}
	case isTimeout(err):
		return types.FetchResult{Error: "API request timed out"}
	default:
		return types.FetchResult{Error: fmt.Sprintf("Failed to fetch data: %v", err)}
	}
}

func (c *LeadsClient) record(endpoint string, status int, d time.Duration, res types.FetchResult) {
	ok := !res.Failed()
	if c.logger != nil {
		c.logger.ExternalAPILogger(LeadsService, http.MethodGet, endpoint, status, d, ok)
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPIRequest(LeadsService, ok)
	}
	if c.health != nil {
		var err error
		if !ok {
			err = stderrors.New(res.Error)
		}
		c.health.RecordRequest(LeadsService, err)
	}
}

func retryableFetch(err error) bool {
	var httpErr *resilience.HTTPError
	if stderrors.As(err, &httpErr) {
		return resilience.RetryableHTTPStatus(httpErr.StatusCode)
	}
	var cbErr *resilience.CircuitBreakerError
	if stderrors.As(err, &cbErr) {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	return true
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// decodeLeads reads {"data": [...], "total": n}. A missing or non-list data
// field yields no records; non-object entries are skipped. A non-empty
// "error" string marks the fetch as failed.
func decodeLeads(body []byte) (types.FetchResult, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return types.FetchResult{}, err
	}

	res := types.FetchResult{Raw: json.RawMessage(bytes.TrimSpace(body))}
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return res, nil
	}

	if msg, ok := obj["error"].(string); ok && msg != "" {
		detail, _ := obj["message"].(string)
		return types.FetchResult{Error: msg, Message: detail}, nil
	}

	if list, ok := obj["data"].([]interface{}); ok {
		res.Data = make([]types.RawRecord, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				res.Data = append(res.Data, types.RawRecord(m))
			}
		}
	}

	if n, ok := obj["total"].(json.Number); ok {
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
			total := int(f)
			res.Total = &total
		}
	}
	return res, nil
}
