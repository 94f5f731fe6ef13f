package cache

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/dataset"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
)

const (
	SessionCookie = "lead_session"
	sessionKey    = "session_id"
)

type sample struct {
	seed    uint64
	records []analysis.Record
}

// SessionStore keeps one generated applicant sample per browser session.
type SessionStore struct {
	cache   *Cache
	source  dataset.Provider
	seed    *uint64
	ttl     time.Duration
	metrics *monitoring.Metrics
}

// NewSessionStore builds a store backed by its own TTL cache. A nil seed
// draws a fresh one per session.
func NewSessionStore(source dataset.Provider, ttl time.Duration, seed *uint64, metrics *monitoring.Metrics) *SessionStore {
	return &SessionStore{
		cache:   NewCache(ttl),
		source:  source,
		seed:    seed,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Middleware makes sure every request carries a session id.
func (s *SessionStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, int(s.ttl.Seconds()), "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the id assigned by Middleware, or "" outside a session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// Sample returns the session's records, generating them on first use.
func (s *SessionStore) Sample(id string) ([]analysis.Record, uint64) {
	if v, ok := s.cache.Get(id); ok {
		if smp, ok := v.(sample); ok {
			s.metrics.IncrementCacheHit()
			s.cache.Set(id, smp)
			return smp.records, smp.seed
		}
	}
	s.metrics.IncrementCacheMiss()

	seed := rand.Uint64()
	if s.seed != nil {
		seed = *s.seed
	}
	return s.generate(id, seed)
}

func (s *SessionStore) generate(id string, seed uint64) ([]analysis.Record, uint64) {
	smp := sample{seed: seed, records: s.source.Generate(seed)}
	s.cache.Set(id, smp)
	return smp.records, smp.seed
}

// Header is the export column order for session samples.
func (s *SessionStore) Header() []string {
	return s.source.Header()
}

// Reset replaces the session's sample with one drawn from a fresh seed,
// ignoring any configured seed.
func (s *SessionStore) Reset(id string) ([]analysis.Record, uint64) {
	return s.generate(id, rand.Uint64())
}

// Drop forgets the session entirely.
func (s *SessionStore) Drop(id string) {
	s.cache.Delete(id)
}

func (s *SessionStore) Stats() map[string]interface{} {
	return s.cache.Stats()
}

func (s *SessionStore) Close() error {
	return s.cache.Close()
}
