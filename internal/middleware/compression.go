package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	Level        int
	ContentTypes []string
}

// DefaultCompressionConfig covers the JSON, CSV and page responses.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Level: gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"text/csv",
			"text/plain",
			"text/html",
			"text/css",
			"text/javascript",
			"application/javascript",
		},
	}
}

// Compressor gzips responses for clients that accept it.
type Compressor struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

func NewCompressor(config CompressionConfig) *Compressor {
	c := &Compressor{config: config, stats: &CompressionStats{}}
	c.pool.New = func() interface{} {
		gz, err := gzip.NewWriterLevel(io.Discard, config.Level)
		if err != nil {
			gz = gzip.NewWriter(io.Discard)
		}
		return gz
	}
	return c
}

// Handler wraps the response writer. The compress decision is made on the
// first write, once the handler has set Content-Type.
func (c *Compressor) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead || !strings.Contains(ctx.GetHeader("Accept-Encoding"), "gzip") {
			ctx.Next()
			return
		}

		gw := &gzipWriter{ResponseWriter: ctx.Writer, c: c}
		ctx.Writer = gw
		defer gw.close()

		ctx.Next()
	}
}

func (c *Compressor) shouldCompress(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, allowed := range c.config.ContentTypes {
		if strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

func (c *Compressor) GetStats() map[string]interface{} {
	return c.stats.GetStats()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type gzipWriter struct {
	gin.ResponseWriter
	c       *Compressor
	gz      *gzip.Writer
	out     *countingWriter
	decided bool
	raw     int64
}

func (w *gzipWriter) decide() {
	if w.decided {
		return
	}
	w.decided = true

	h := w.Header()
	if h.Get("Content-Encoding") != "" || !w.c.shouldCompress(h.Get("Content-Type")) {
		return
	}

	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")

	w.out = &countingWriter{w: w.ResponseWriter}
	w.gz = w.c.pool.Get().(*gzip.Writer)
	w.gz.Reset(w.out)
}

func (w *gzipWriter) WriteHeader(code int) {
	if code == http.StatusNoContent || code == http.StatusNotModified {
		w.decided = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	w.decide()
	w.raw += int64(len(data))
	if w.gz == nil {
		return w.ResponseWriter.Write(data)
	}
	return w.gz.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) close() {
	if w.gz == nil {
		if w.raw > 0 {
			w.c.stats.RecordRequest(w.raw, w.raw, false)
		}
		return
	}
	_ = w.gz.Close()
	w.gz.Reset(io.Discard)
	w.c.pool.Put(w.gz)
	w.c.stats.RecordRequest(w.raw, w.out.n, true)
	w.gz = nil
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	mu                 sync.Mutex
	TotalRequests      int64
	CompressedRequests int64
	TotalBytes         int64
	CompressedBytes    int64
	BytesBeforeGzip    int64
}

// RecordRequest records a response's size before and after compression
func (cs *CompressionStats) RecordRequest(originalSize, writtenSize int64, compressed bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.TotalRequests++
	cs.TotalBytes += originalSize
	if compressed {
		cs.CompressedRequests++
		cs.CompressedBytes += writtenSize
		cs.BytesBeforeGzip += originalSize
	}
}

// GetStats returns current compression statistics
func (cs *CompressionStats) GetStats() map[string]interface{} {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	ratio := 0.0
	if cs.BytesBeforeGzip > 0 {
		ratio = float64(cs.CompressedBytes) / float64(cs.BytesBeforeGzip)
	}

	return map[string]interface{}{
		"total_requests":      cs.TotalRequests,
		"compressed_requests": cs.CompressedRequests,
		"total_bytes":         cs.TotalBytes,
		"compressed_bytes":    cs.CompressedBytes,
		"compression_ratio":   ratio,
	}
}
