package frontend

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/security"
)

// Page serves the index and its static assets.
type Page struct {
	dist        fs.FS
	index       *template.Template
	files       http.Handler
	aiAvailable func() bool
	sampleSize  int
}

// NewPage loads the embedded index template.
func NewPage(aiAvailable func() bool, sampleSize int) (*Page, error) {
	dist, err := DistFS()
	if err != nil {
		return nil, err
	}
	index, err := LoadIndexTemplate(dist)
	if err != nil {
		return nil, err
	}
	return &Page{
		dist:        dist,
		index:       index,
		files:       http.FileServer(http.FS(dist)),
		aiAvailable: aiAvailable,
		sampleSize:  sampleSize,
	}, nil
}

// Index renders the page with the request's CSP nonce.
func (p *Page) Index(c *gin.Context) {
	nonce := security.GetNonce(c)
	if nonce == "" {
		var err error
		if nonce, err = security.GenerateNonce(); err != nil {
			errors.Respond(c, errors.NewInternalError("failed to render page", err))
			return
		}
	}

	data := PageData{
		Nonce:      nonce,
		SampleSize: p.sampleSize,
		Options:    scoring.OptionSets(),
		Columns:    scoring.Columns(),
	}
	if p.aiAvailable != nil {
		data.AIAvailable = p.aiAvailable()
	}

	if err := RenderIndex(c, p.index, data); err != nil {
		slog.Error("Failed to render index.html", "error", err)
		errors.Respond(c, errors.NewInternalError("failed to render page", err))
	}
}

// Assets serves files under /assets/ with long-lived caching.
func (p *Page) Assets(c *gin.Context) {
	if !strings.HasPrefix(c.Request.URL.Path, "/assets/") {
		c.Status(http.StatusNotFound)
		return
	}
	if _, err := fs.Stat(p.dist, strings.TrimPrefix(c.Request.URL.Path, "/")); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	p.files.ServeHTTP(c.Writer, c.Request)
}
