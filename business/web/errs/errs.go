// Package errs provides types and support related to web errors.
package errs

import (
	"errors"
	"net/http"

	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context. The message of a trusted error
// is safe to return to the client.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// FromLedger classifies an error returned by the ledger into a trusted error
// carrying the matching HTTP status. Errors the ledger doesn't own are
// returned unchanged so they surface as internal errors.
func FromLedger(err error) error {
	if err == nil {
		return nil
	}

	var ve *ledger.ValidationError
	var ie *ledger.IntegrityError
	var imp *ledger.ImportError

	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return NewTrusted(err, http.StatusPaymentRequired)

	case errors.Is(err, ledger.ErrBlockNotFound):
		return NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, ledger.ErrStaleBlock):
		return NewTrusted(err, http.StatusConflict)

	case errors.As(err, &ve):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.As(err, &imp), errors.As(err, &ie):
		return NewTrusted(err, http.StatusConflict)
	}

	return err
}
