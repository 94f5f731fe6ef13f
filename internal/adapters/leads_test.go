package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/resilience"
)

func testClient(url string, timeout time.Duration) (*LeadsClient, *monitoring.Metrics, *resilience.DegradationManager) {
	retry := resilience.DefaultRetryConfig()
	retry.InitialDelay = time.Millisecond
	retry.MaxDelay = 2 * time.Millisecond

	metrics := monitoring.NewMetrics()
	health := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())
	health.RegisterService(LeadsService, nil)

	logger := monitoring.NewLoggerWithWriter(&bytes.Buffer{}, slog.LevelDebug)
	client := NewLeadsClient(LeadsConfig{
		URL:     url,
		APIKey:  "secret",
		Timeout: timeout,
		Retry:   retry,
	}, logger, metrics, health)
	return client, metrics, health
}

func TestFetchSendsFiltersAndKey(t *testing.T) {
	var query, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[{"gender":"Female","appliedYear":2024},"junk"],"total":42}`))
	}))
	defer srv.Close()

	client, metrics, _ := testClient(srv.URL+"/api/form/leads", time.Second)
	res := client.Fetch(context.Background(), map[string]string{"gender": "Female", "class": ""})

	assert.Equal(t, "gender=Female&limit=50", query)
	assert.Equal(t, "Bearer secret", auth)
	require.False(t, res.Failed())
	require.Len(t, res.Data, 1)
	gender, _ := res.Data[0].Text("gender")
	assert.Equal(t, "Female", gender)
	year, _ := res.Data[0].Text("appliedYear")
	assert.Equal(t, "2024", year)
	require.NotNil(t, res.Total)
	assert.Equal(t, 42, res.Count())

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"gender":"Female","appliedYear":2024},"junk"],"total":42}`, string(raw))

	stats := metrics.GetExternalAPIStats()
	assert.NotEmpty(t, stats)
}

func TestFetchKeepsExplicitLimit(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, _, _ := testClient(srv.URL, time.Second)
	res := client.Fetch(context.Background(), map[string]string{"limit": "5"})
	assert.Equal(t, "limit=5", query)
	assert.Nil(t, res.Total)
	assert.Equal(t, 0, res.Count())
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		timeout     time.Duration
		wantError   string
		wantMessage string
		wantCalls   int32
	}{
		{
			name: "non-200 status carries the body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("invalid token"))
			},
			timeout:     time.Second,
			wantError:   "API request failed with status 401",
			wantMessage: "invalid token",
			wantCalls:   1,
		},
		{
			name: "unavailable upstream is retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			timeout:   time.Second,
			wantError: "API request failed with status 503",
			wantCalls: 3,
		},
		{
			name: "slow upstream times out",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout:   50 * time.Millisecond,
			wantError: "API request timed out",
			wantCalls: 1,
		},
		{
			name: "error field in a 200 payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error": "Invalid form id", "message": "form 9 not found"}`))
			},
			timeout:     time.Second,
			wantError:   "Invalid form id",
			wantMessage: "form 9 not found",
			wantCalls:   1,
		},
		{
			name: "malformed JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			timeout:   time.Second,
			wantError: "Failed to fetch data: invalid character '<' looking for beginning of value",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			client, _, health := testClient(srv.URL, tt.timeout)
			res := client.Fetch(context.Background(), nil)

			assert.True(t, res.Failed())
			assert.Equal(t, tt.wantError, res.Error)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))

			h, _ := health.GetServiceHealth(LeadsService)
			assert.Equal(t, tt.wantError, h.LastError)
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, _, _ := testClient(url, time.Second)
	res := client.Fetch(context.Background(), nil)
	assert.Contains(t, res.Error, "Failed to fetch data: ")
}
