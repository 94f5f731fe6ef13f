package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/narrator"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/security"
)

// DefaultLeadsURL is the leads API queried by the chat endpoint.
const DefaultLeadsURL = "https://test-api.entab.info/api/form/leads"

type Config struct {
	Server    ServerConfig
	Leads     LeadsConfig
	Enhancer  EnhancerConfig
	Redis     RedisConfig
	Session   SessionConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

type ServerConfig struct {
	Port           string
	GinMode        string
	CORSOrigins    []string
	MaxQueryLength int
	MaxUploadMB    int
	RequestTimeout time.Duration
	EnableHSTS     bool
	CSPReportURI   string
}

type LeadsConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type EnhancerConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	SampleSize int
	SampleSeed *uint64
	TTL        time.Duration
}

type CacheConfig struct {
	ResponseTTL time.Duration
}

type RateLimitConfig struct {
	ChatPerMinute int
	ChatBurst     int
	BulkPerMinute int
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var problems []string
	intVar := func(key string, def int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be an integer", key))
			return def
		}
		return v
	}
	durVar := func(key string, def time.Duration) time.Duration {
		raw := getEnv(key, def.String())
		if n, err := strconv.Atoi(raw); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a duration", key))
			return def
		}
		return d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			GinMode:        getEnv("GIN_MODE", "release"),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:8000")),
			MaxQueryLength: intVar("MAX_QUERY_LENGTH", 500),
			MaxUploadMB:    intVar("MAX_UPLOAD_MB", 10),
			RequestTimeout: durVar("REQUEST_TIMEOUT", 90*time.Second),
			EnableHSTS:     getEnv("ENABLE_HSTS", "false") == "true",
			CSPReportURI:   os.Getenv("CSP_REPORT_URI"),
		},
		Leads: LeadsConfig{
			URL:     getEnv("EXTERNAL_API_URL", DefaultLeadsURL),
			APIKey:  os.Getenv("ENTAB_API_KEY"),
			Timeout: durVar("LEADS_TIMEOUT", 30*time.Second),
		},
		Enhancer: loadEnhancer(durVar("ENHANCER_TIMEOUT", 30*time.Second)),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intVar("REDIS_DB", 0),
		},
		Session: SessionConfig{
			SampleSize: intVar("SAMPLE_SIZE", 150),
			TTL:        durVar("SESSION_TTL", 30*time.Minute),
		},
		Cache: CacheConfig{
			ResponseTTL: durVar("CACHE_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			ChatPerMinute: intVar("CHAT_RATE_LIMIT", 20),
			ChatBurst:     intVar("CHAT_RATE_BURST", 5),
			BulkPerMinute: intVar("BULK_RATE_LIMIT", 30),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("SAMPLE_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			problems = append(problems, "SAMPLE_SEED must be a non-negative integer")
		} else {
			cfg.Session.SampleSeed = &seed
		}
	}

	if cfg.RateLimit.ChatPerMinute <= 0 || cfg.RateLimit.BulkPerMinute <= 0 {
		problems = append(problems, "rate limits must be positive")
	}
	if cfg.Session.SampleSize <= 0 {
		problems = append(problems, "SAMPLE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return nil, errors.NewConfigurationError(strings.Join(problems, "; "), nil)
	}
	return cfg, nil
}

func loadEnhancer(timeout time.Duration) EnhancerConfig {
	e := EnhancerConfig{
		Provider: strings.ToLower(os.Getenv("ENHANCER_PROVIDER")),
		Model:    os.Getenv("ENHANCER_MODEL"),
		BaseURL:  os.Getenv("ENHANCER_BASE_URL"),
		Timeout:  timeout,
	}
	if e.Provider == "" {
		switch {
		case os.Getenv("GEMINI_API_KEY") != "":
			e.Provider = narrator.ProviderGemini
		case os.Getenv("OPENAI_API_KEY") != "":
			e.Provider = narrator.ProviderOpenAI
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			e.Provider = narrator.ProviderAnthropic
		default:
			e.Provider = narrator.ProviderNone
		}
	}

	switch e.Provider {
	case narrator.ProviderGemini:
		e.APIKey = os.Getenv("GEMINI_API_KEY")
	case narrator.ProviderOpenAI:
		e.APIKey = os.Getenv("OPENAI_API_KEY")
	case narrator.ProviderAnthropic:
		e.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return e
}

// Security maps the server settings onto the request guard.
func (s ServerConfig) Security() security.Config {
	cfg := security.DefaultConfig()
	if s.MaxQueryLength > 0 {
		cfg.MaxQueryLength = s.MaxQueryLength
	}
	if s.MaxUploadMB > 0 {
		cfg.MaxUploadBytes = int64(s.MaxUploadMB) << 20
	}
	if s.RequestTimeout > 0 {
		cfg.RequestTimeout = s.RequestTimeout
	}
	cfg.EnableHSTS = s.EnableHSTS
	cfg.CSPReportURI = s.CSPReportURI
	return cfg
}

// ProviderConfig adapts the enhancer settings for narrator.NewEnhancer.
func (e EnhancerConfig) ProviderConfig() narrator.ProviderConfig {
	return narrator.ProviderConfig{
		Provider: e.Provider,
		APIKey:   e.APIKey,
		Model:    e.Model,
		BaseURL:  e.BaseURL,
		Timeout:  e.Timeout,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
