package testserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// MaxHealthCheckTokens caps a single health check request.
const MaxHealthCheckTokens = 100

func fail(c *gin.Context, status int, format string, args ...interface{}) {
	c.JSON(status, webcash.ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

// handleReplace handles POST /api/v1/replace.
func (s *Server) handleReplace(c *gin.Context) {
	var req webcash.ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaces++

	if f := s.failure; f != nil {
		s.failure = nil
		fail(c, f.status, "%s", f.body)
		return
	}

	if !req.Legalese.Accepted() {
		fail(c, http.StatusBadRequest, "legal terms must be accepted")
		return
	}
	if len(req.Webcashes) == 0 || len(req.NewWebcashes) == 0 {
		fail(c, http.StatusBadRequest, "inputs and outputs are required")
		return
	}

	inputs, inTotal, err := parseSecrets(req.Webcashes)
	if err != nil {
		fail(c, http.StatusBadRequest, "inputs: %v", err)
		return
	}
	outputs, outTotal, err := parseSecrets(req.NewWebcashes)
	if err != nil {
		fail(c, http.StatusBadRequest, "outputs: %v", err)
		return
	}
	if !inTotal.Equal(outTotal) {
		fail(c, http.StatusBadRequest, "amounts do not balance: %s in, %s out", inTotal, outTotal)
		return
	}

	for _, in := range inputs {
		e, ok := s.ledger[in.PublicHash()]
		if !ok {
			fail(c, http.StatusBadRequest, "unknown input webcash")
			return
		}
		if e.Spent {
			fail(c, http.StatusBadRequest, "input webcash already spent")
			return
		}
		if !e.Amount.Equal(in.Amount) {
			fail(c, http.StatusBadRequest, "input amount mismatch")
			return
		}
	}
	for _, out := range outputs {
		if _, ok := s.ledger[out.PublicHash()]; ok {
			fail(c, http.StatusBadRequest, "output webcash already exists")
			return
		}
	}

	for _, in := range inputs {
		s.ledger[in.PublicHash()].Spent = true
	}
	for _, out := range outputs {
		s.ledger[out.PublicHash()] = &Entry{Amount: out.Amount}
	}

	s.logger.Info().
		Int("inputs", len(inputs)).
		Int("outputs", len(outputs)).
		Str("amount", inTotal.String()).
		Msg("Replaced webcash")

	c.JSON(http.StatusOK, webcash.ReplaceResponse{Status: "success"})
}

// parseSecrets parses secret tokens, rejecting non-positive amounts and
// tokens repeated within the list.
func parseSecrets(tokens []string) ([]webcash.SecretWebcash, types.Amount, error) {
	var total types.Amount
	seen := make(map[string]struct{}, len(tokens))
	out := make([]webcash.SecretWebcash, 0, len(tokens))
	for _, s := range tokens {
		wc, err := webcash.DeserializeSecret(s)
		if err != nil {
			return nil, total, err
		}
		if !wc.Amount.IsPositive() {
			return nil, total, fmt.Errorf("amount must be positive")
		}
		hash := wc.PublicHash()
		if _, dup := seen[hash]; dup {
			return nil, total, fmt.Errorf("duplicate webcash")
		}
		seen[hash] = struct{}{}
		total = total.Add(wc.Amount)
		out = append(out, wc)
	}
	return out, total, nil
}

// healthResult is the wire form of one health check result. Unknown tokens
// report null for both fields.
type healthResult struct {
	Spent  *bool         `json:"spent"`
	Amount *types.Amount `json:"amount"`
}

// handleHealthCheck handles POST /api/v1/health_check.
func (s *Server) handleHealthCheck(c *gin.Context) {
	var tokens []string
	if err := c.ShouldBindJSON(&tokens); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: %v", err)
		return
	}
	if len(tokens) > MaxHealthCheckTokens {
		fail(c, http.StatusBadRequest, "too many tokens")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthChecks++

	results := make(map[string]healthResult, len(tokens))
	for _, t := range tokens {
		pub, err := webcash.DeserializePublic(t)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid public webcash: %v", err)
			return
		}
		e, ok := s.ledger[pub.Hash]
		if !ok {
			results[t] = healthResult{}
			continue
		}
		spent := e.Spent
		res := healthResult{Spent: &spent}
		if !spent {
			amount := e.Amount
			res.Amount = &amount
		}
		results[t] = res
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results})
}

// handleTerms handles GET /terms/text.
func (s *Server) handleTerms(c *gin.Context) {
	s.mu.Lock()
	terms := s.terms
	s.mu.Unlock()
	c.String(http.StatusOK, terms)
}
