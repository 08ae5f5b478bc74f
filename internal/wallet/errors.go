package wallet

import (
	"errors"
	"fmt"
)

// ErrPolicy is matched by every error raised before a wallet operation
// touches state or the network.
var ErrPolicy = errors.New("wallet policy")

// Policy errors.
var (
	ErrTermsNotAccepted  = fmt.Errorf("%w: user hasn't agreed to the legal terms", ErrPolicy)
	ErrInsufficientFunds = fmt.Errorf("%w: wallet does not have enough funds to make the transfer", ErrPolicy)
	ErrNoWebcash         = fmt.Errorf("%w: no webcash available", ErrInsufficientFunds)
	ErrInvalidChainCode  = fmt.Errorf("%w: invalid chain code", ErrPolicy)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", ErrPolicy)
	ErrNoServer          = fmt.Errorf("%w: no server configured", ErrPolicy)
)

// ErrTransport is matched by every TransportError.
var ErrTransport = errors.New("server request failed")

// TransportError wraps a failed Replace or HealthCheck call. Any webcash
// staged for the call remains in the unconfirmed set.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not successfully call the %s API: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
