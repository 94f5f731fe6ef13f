package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500, cfg.MaxQueryLength)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.EnableHSTS)
}

func TestValidateQuery(t *testing.T) {
	g := NewGuard(Config{MaxQueryLength: 20})

	tests := []struct {
		name     string
		input    string
		errorMsg string
	}{
		{name: "plain question", input: "how many in Delhi?"},
		{name: "multibyte counted as runes", input: strings.Repeat("é", 20)},
		{name: "blank", input: "   ", errorMsg: "must not be empty"},
		{name: "too long", input: strings.Repeat("a", 21), errorMsg: "exceeds maximum length"},
		{name: "null byte", input: "a\x00b", errorMsg: "invalid characters"},
		{name: "invalid utf8", input: "a\xff\xfeb", errorMsg: "invalid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateQuery(tt.input)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  female   students\n in Delhi ", "female students in Delhi"},
		{"<b>hot</b> leads", "hot leads"},
		{"show<script>alert(1)</script> me", "show me"},
		{"<SCRIPT type=x>\nbad()\n</SCRIPT>ok", "ok"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeInput(tt.input))
	}
}

func serve(h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(h...)
	r.Any("/", func(c *gin.Context) { c.String(http.StatusOK, GetNonce(c)) })
	r.POST("/upload", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestHeadersMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	serve(NewGuard(Config{EnableHSTS: true}).HeadersMiddleware()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")

	w = httptest.NewRecorder()
	serve(NewGuard(Config{}).HeadersMiddleware()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCSPMiddleware(t *testing.T) {
	r := serve(NewGuard(Config{CSPReportURI: "/csp"}).CSPMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	nonce := w.Body.String()
	require.NotEmpty(t, nonce)

	policy := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, policy, "'nonce-"+nonce+"'")
	assert.True(t, strings.HasSuffix(policy, "report-uri /csp"))

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, nonce, w2.Body.String())
}

func TestValidateContentType(t *testing.T) {
	r := serve(NewGuard(DefaultConfig()).ValidateContentType())

	tests := []struct {
		contentType string
		body        string
		expected    int
	}{
		{"application/json", `{}`, http.StatusOK},
		{"application/json; charset=utf-8", `{}`, http.StatusOK},
		{"multipart/form-data; boundary=x", "--x--", http.StatusOK},
		{"application/x-www-form-urlencoded", "a=b", http.StatusOK},
		{"text/xml", "<a/>", http.StatusUnsupportedMediaType},
		{"", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestLimitBody(t *testing.T) {
	r := serve(NewGuard(Config{MaxUploadBytes: 8}).LimitBody())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("far too long a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(NewGuard(Config{RequestTimeout: 2 * time.Second}).RequestTimeout())
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "2", w.Header().Get("X-Timeout"))
}
