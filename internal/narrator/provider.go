package narrator

import (
	"fmt"
	"strings"
	"time"
)

// Supported enhancer providers.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig selects and configures a language-model backend.
type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewEnhancer builds the configured enhancer. It returns nil, nil for
// ProviderNone so callers fall back to plain summaries.
func NewEnhancer(cfg ProviderConfig) (Enhancer, error) {
	var (
		e   Enhancer
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		e, err = NewOpenAIEnhancer(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	case ProviderGemini:
		e, err = NewGeminiEnhancer(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	case ProviderAnthropic:
		e, err = NewAnthropicEnhancer(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown enhancer provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
