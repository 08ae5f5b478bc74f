package webcash

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// ErrInvalidStatus is returned when a health check result carries a spent
// value other than true, false or null.
var ErrInvalidStatus = errors.New("invalid webcash status")

// Legalese records acceptance of the server terms of service. Terms is nil
// until the user has answered.
type Legalese struct {
	Terms *bool `json:"terms"`
}

// Accepted reports whether the terms were explicitly accepted.
func (l Legalese) Accepted() bool {
	return l.Terms != nil && *l.Terms
}

// AcceptedLegalese returns a Legalese with the terms accepted.
func AcceptedLegalese() Legalese {
	accepted := true
	return Legalese{Terms: &accepted}
}

// ReplaceRequest is the body of POST /api/v1/replace.
type ReplaceRequest struct {
	Webcashes    []string `json:"webcashes"`
	NewWebcashes []string `json:"new_webcashes"`
	Legalese     Legalese `json:"legalese"`
}

// ReplaceResponse is the body returned by a successful replace.
type ReplaceResponse struct {
	Status string `json:"status"`
}

// HealthCheckResponse is the body returned by POST /api/v1/health_check.
type HealthCheckResponse struct {
	Status  string                  `json:"status"`
	Results map[string]HealthStatus `json:"results"`
}

// HealthStatus is the server's view of one public token. Spent is nil when
// the server has never seen the token.
type HealthStatus struct {
	Spent  *bool         `json:"spent"`
	Amount *types.Amount `json:"amount"`
}

// Known reports whether the server recognizes the token.
func (h HealthStatus) Known() bool {
	return h.Spent != nil
}

// Unspent reports whether the token is known and still spendable.
func (h HealthStatus) Unspent() bool {
	return h.Spent != nil && !*h.Spent
}

// UnmarshalJSON enforces the true/false/null status taxonomy. The amount
// must be valid only for unspent tokens; for spent or unknown ones a bad
// amount is dropped so one odd entry does not fail the whole batch.
func (h *HealthStatus) UnmarshalJSON(data []byte) error {
	var raw struct {
		Spent  json.RawMessage `json:"spent"`
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch s := string(bytes.TrimSpace(raw.Spent)); s {
	case "", "null":
		h.Spent = nil
	case "true", "false":
		spent := s == "true"
		h.Spent = &spent
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}

	h.Amount = nil
	if a := bytes.TrimSpace(raw.Amount); len(a) > 0 && string(a) != "null" {
		var amount types.Amount
		if err := json.Unmarshal(a, &amount); err != nil {
			if h.Unspent() {
				return fmt.Errorf("amount: %w", err)
			}
			return nil
		}
		h.Amount = &amount
	}
	return nil
}

// ErrorResponse is the body returned by the server on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
