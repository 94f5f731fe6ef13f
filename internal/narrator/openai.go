package narrator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// GeminiBaseURL is Google's OpenAI-compatible endpoint.
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIEnhancer calls any OpenAI-compatible chat completions API.
type OpenAIEnhancer struct {
	client *openai.Client
	model  string
}

// NewOpenAIEnhancer creates an enhancer for the OpenAI API or a compatible one
// when baseURL is set.
func NewOpenAIEnhancer(apiKey, model, baseURL string, timeout time.Duration) (*OpenAIEnhancer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEnhancer{client: &client, model: model}, nil
}

// NewGeminiEnhancer targets Gemini through its OpenAI-compatible endpoint.
// An empty baseURL selects GeminiBaseURL.
func NewGeminiEnhancer(apiKey, model, baseURL string, timeout time.Duration) (*OpenAIEnhancer, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	return NewOpenAIEnhancer(apiKey, model, baseURL, timeout)
}

// Enhance sends the prompt as a single user message.
func (e *OpenAIEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		N:        openai.Int(1),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
