package types

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one untyped student record as returned by the leads API.
type RawRecord map[string]interface{}

// Text returns the field rendered as text, and false when it is absent, null or empty.
func (r RawRecord) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "", false
	}
	return s, true
}

// FetchResult is the outcome of one leads API call. Error is set instead of
// returning a Go error so the chat flow can narrate the failure.
type FetchResult struct {
	Data    []RawRecord     `json:"data,omitempty"`
	Total   *int            `json:"total,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Failed reports whether the fetch produced an error instead of data.
func (r FetchResult) Failed() bool {
	return r.Error != ""
}

// Count is the reported total, falling back to the number of records.
func (r FetchResult) Count() int {
	if r.Total != nil {
		return *r.Total
	}
	return len(r.Data)
}

// MarshalJSON passes a successful upstream payload through untouched.
func (r FetchResult) MarshalJSON() ([]byte, error) {
	if r.Error == "" && len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain FetchResult
	return json.Marshal(plain(r))
}

// ChatRequest is the form body of POST /chat.
type ChatRequest struct {
	UserInput string `form:"user_input" json:"user_input"`
	Filters   string `form:"filters" json:"filters"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status         string                 `json:"status"`
	ExternalAPI    string                 `json:"external_api"`
	AIModel        string                 `json:"ai_model"`
	Redis          string                 `json:"redis"`
	CircuitBreaker string                 `json:"circuit_breaker"`
	Services       map[string]interface{} `json:"services,omitempty"`
}

// TestAPIResponse is the body returned by GET /test-api.
type TestAPIResponse struct {
	Status     string      `json:"status"`
	SampleData FetchResult `json:"sample_data"`
}
