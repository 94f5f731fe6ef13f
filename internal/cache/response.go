package cache

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
)

type cachedResponse struct {
	contentType string
	body        []byte
}

// ResponseMiddleware replays successful POST responses for identical bodies
// on the given paths. Only use it on handlers that are pure functions of the
// request body.
func (c *Cache) ResponseMiddleware(metrics *monitoring.Metrics, paths ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(paths))
	for _, p := range paths {
		allowed[p] = true
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost || !allowed[ctx.Request.URL.Path] {
			ctx.Next()
			return
		}

		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

		key := ctx.Request.URL.Path + ":" + ctx.ContentType() + ":" + Key(body)

		if v, found := c.Get(key); found {
			if hit, ok := v.(cachedResponse); ok {
				slog.Debug("Cache hit", "path", ctx.Request.URL.Path)
				metrics.IncrementCacheHit()
				ctx.Header("X-Cache", "HIT")
				ctx.Data(http.StatusOK, hit.contentType, hit.body)
				ctx.Abort()
				return
			}
		}

		metrics.IncrementCacheMiss()

		wrapper := &responseWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = wrapper
		ctx.Header("X-Cache", "MISS")
		ctx.Next()

		if wrapper.Status() == http.StatusOK && len(ctx.Errors) == 0 {
			c.Set(key, cachedResponse{
				contentType: wrapper.Header().Get("Content-Type"),
				body:        wrapper.body.Bytes(),
			})
		}
	}
}

// responseWriter wraps gin.ResponseWriter to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
