// Package testserver implements an in-memory webcash server for tests and
// local development. It honours replace atomicity and the terms flag but is
// not a ledger implementation.
package testserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// DefaultTerms is served at /terms/text unless overridden.
const DefaultTerms = "These are the terms of service of the webcash development server. Webcash issued here has no value."

// Entry is the ledger state of one token.
type Entry struct {
	Amount types.Amount
	Spent  bool
}

type failure struct {
	status int
	body   string
}

// Server is an in-memory webcash server.
type Server struct {
	mu      sync.Mutex
	ledger  map[string]*Entry // public hash -> entry
	terms   string
	failure *failure
	logger  zerolog.Logger
	engine  *gin.Engine

	replaces     int
	healthChecks int
}

// New creates a server with an empty ledger.
func New(logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		ledger: make(map[string]*Entry),
		terms:  DefaultTerms,
		logger: logger,
	}

	r := gin.New()
	r.Use(recovery(logger))
	r.Use(requestLogger(logger))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/replace", s.handleReplace)
		v1.POST("/health_check", s.handleHealthCheck)
	}
	r.GET("/terms/text", s.handleTerms)

	s.engine = r
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetTerms replaces the terms text.
func (s *Server) SetTerms(terms string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = terms
}

// Mint adds an unspent token to the ledger.
func (s *Server) Mint(wc webcash.SecretWebcash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger[wc.PublicHash()] = &Entry{Amount: wc.Amount}
}

// MarkSpent flags the token with the given public hash as spent. It reports
// whether the token was known.
func (s *Server) MarkSpent(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ledger[hash]
	if ok {
		e.Spent = true
	}
	return ok
}

// Lookup returns the ledger entry of a public hash.
func (s *Server) Lookup(hash string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ledger[hash]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// FailNextReplace makes the next replace call fail with the given status
// and error message without touching the ledger.
func (s *Server) FailNextReplace(status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = &failure{status: status, body: msg}
}

// Stats returns how many replace and health check calls were served.
func (s *Server) Stats() (replaces, healthChecks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaces, s.healthChecks
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", requestID).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, webcash.ErrorResponse{Error: "internal error"})
			}
		}()
		c.Next()
	}
}
