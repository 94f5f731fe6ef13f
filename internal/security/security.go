package security

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
)

// Config holds request hardening settings.
type Config struct {
	MaxQueryLength int
	MaxUploadBytes int64
	RequestTimeout time.Duration
	EnableHSTS     bool
	CSPReportURI   string
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxQueryLength: 500,
		MaxUploadBytes: 10 << 20,
		RequestTimeout: 60 * time.Second,
	}
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Guard applies Config to requests.
type Guard struct {
	config Config
}

// NewGuard wraps config in a Guard.
func NewGuard(config Config) *Guard {
	return &Guard{config: config}
}

// Config returns the settings the guard enforces.
func (g *Guard) Config() Config {
	return g.config
}

// ValidateQuery rejects free-text input that cannot be passed to the leads
// API or a language model as-is.
func (g *Guard) ValidateQuery(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("query must not be empty")
	}
	if g.config.MaxQueryLength > 0 && utf8.RuneCountInString(input) > g.config.MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters", g.config.MaxQueryLength)
	}
	if strings.ContainsRune(input, 0) {
		return fmt.Errorf("query contains invalid characters")
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("query contains invalid UTF-8 encoding")
	}
	return nil
}

// SanitizeInput strips markup and collapses whitespace.
func SanitizeInput(input string) string {
	input = scriptPattern.ReplaceAllString(input, "")
	input = tagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(input, " "))
}

// ValidateContentType rejects bodies that are not JSON, forms or multipart.
func (g *Guard) ValidateContentType() gin.HandlerFunc {
	allowed := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		ct := strings.ToLower(c.ContentType())
		for _, a := range allowed {
			if ct == a {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": gin.H{
			"category": errors.CategoryValidation,
			"message":  "unsupported content type",
		}})
	}
}

// LimitBody caps the request body at MaxUploadBytes.
func (g *Guard) LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.config.MaxUploadBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, g.config.MaxUploadBytes)
		}
		c.Next()
	}
}

// RequestTimeout bounds the request context.
func (g *Guard) RequestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.config.RequestTimeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), g.config.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Timeout", strconv.Itoa(int(g.config.RequestTimeout.Seconds())))
		c.Next()
	}
}
