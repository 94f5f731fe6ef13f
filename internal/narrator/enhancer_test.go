package narrator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIEnhancer(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Two applicants so far."}}]
		}`))
	}))
	defer srv.Close()

	e, err := NewOpenAIEnhancer("sk-test", "", srv.URL+"/v1", time.Second)
	require.NoError(t, err)

	out, err := e.Enhance(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "Two applicants so far.", out)
	assert.Equal(t, DefaultOpenAIModel, body["model"])
}

func TestOpenAIEnhancerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota", "type": "rate_limit"}}`))
	}))
	defer srv.Close()

	e, err := NewGeminiEnhancer("key", "", srv.URL+"/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, e.model)

	_, err = e.Enhance(context.Background(), "p")
	assert.Error(t, err)
}

func TestAnthropicEnhancer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Mostly "}, {"type": "text", "text": "Delhi."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 3}
		}`))
	}))
	defer srv.Close()

	e, err := NewAnthropicEnhancer("sk-ant", "", srv.URL, time.Second)
	require.NoError(t, err)

	out, err := e.Enhance(context.Background(), "where?")
	require.NoError(t, err)
	assert.Equal(t, "Mostly Delhi.", out)
}

func TestNewEnhancer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantNil bool
		wantErr bool
	}{
		{name: "none", cfg: ProviderConfig{Provider: "none"}, wantNil: true},
		{name: "empty", cfg: ProviderConfig{}, wantNil: true},
		{name: "openai", cfg: ProviderConfig{Provider: "openai", APIKey: "k"}},
		{name: "gemini", cfg: ProviderConfig{Provider: "Gemini", APIKey: "k"}},
		{name: "anthropic", cfg: ProviderConfig{Provider: "anthropic", APIKey: "k"}},
		{name: "missing key", cfg: ProviderConfig{Provider: "openai"}, wantNil: true, wantErr: true},
		{name: "unknown", cfg: ProviderConfig{Provider: "llama"}, wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEnhancer(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, e)
			} else {
				assert.NotNil(t, e)
			}
		})
	}
}
