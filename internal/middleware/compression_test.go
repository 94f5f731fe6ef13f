package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(c *Compressor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(c.Handler())
	r.GET("/csv", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "text/csv", []byte(strings.Repeat("a,b,c\n", 200)))
	})
	r.GET("/png", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "image/png", []byte("not really a png"))
	})
	r.GET("/empty", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path string, gz bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if gz {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCompressesAllowedTypes(t *testing.T) {
	c := NewCompressor(DefaultCompressionConfig())
	w := get(newRouter(c), "/csv", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a,b,c\n", 200), string(plain))

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
	assert.Less(t, stats["compression_ratio"].(float64), 1.0)
}

func TestSkipsUnlistedTypesAndClients(t *testing.T) {
	c := NewCompressor(DefaultCompressionConfig())
	r := newRouter(c)

	w := get(r, "/png", true)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "not really a png", w.Body.String())

	w = get(r, "/csv", false)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, strings.Repeat("a,b,c\n", 200), w.Body.String())

	w = get(r, "/empty", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Zero(t, w.Body.Len())
}
