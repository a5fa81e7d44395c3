package ledger

import (
	"errors"
	"fmt"
)

// Set of error variables for transaction validation.
var (
	ErrCoinbaseSubmission = errors.New("coinbase transactions can't be submitted")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrUnknownTx          = errors.New("unknown transaction type")
)

// Set of error variables for chain integrity.
var (
	ErrGenesisMismatch = errors.New("genesis block does not match")
	ErrBlockIndex      = errors.New("block index is not the next index")
	ErrHashMismatch    = errors.New("stored hash does not match block contents")
	ErrBrokenLink      = errors.New("previous hash does not match parent block")
	ErrDifficulty      = errors.New("block difficulty does not match retarget rules")
	ErrHashUnsolved    = errors.New("block hash does not satisfy difficulty")
	ErrBlockSize       = errors.New("block holds too many transactions")
	ErrCoinbase        = errors.New("block coinbase is invalid")
	ErrOverdraft       = errors.New("transfer spends more than the sender holds")
)

// Set of error variables for importing and mining.
var (
	ErrEmptyChain         = errors.New("chain has no blocks")
	ErrRewardMismatch     = errors.New("mining reward does not match")
	ErrDifficultyMismatch = errors.New("difficulty does not match chain")
	ErrChainNotLonger     = errors.New("chain is not longer than the local chain")
	ErrStaleBlock         = errors.New("chain changed while mining")
	ErrBlockNotFound      = errors.New("block not found")
)

// =============================================================================

// ValidationError is returned when a transaction is malformed or the sender
// can't afford it. The pending pool is never changed when this is returned.
type ValidationError struct {
	Err error
	Msg string
}

func newValidationError(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Err: err, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve.Msg == "" {
		return ve.Err.Error()
	}
	return ve.Err.Error() + ": " + ve.Msg
}

// Unwrap provides access to the error kind.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// IntegrityError identifies the block that failed chain validation and why.
type IntegrityError struct {
	Index uint64
	Err   error
	Msg   string
}

func newIntegrityError(index uint64, err error, format string, args ...any) *IntegrityError {
	return &IntegrityError{Index: index, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (ie *IntegrityError) Error() string {
	s := fmt.Sprintf("block %d: %s", ie.Index, ie.Err)
	if ie.Msg != "" {
		s += ": " + ie.Msg
	}
	return s
}

// Unwrap provides access to the error kind.
func (ie *IntegrityError) Unwrap() error {
	return ie.Err
}

// ImportError is returned when supplied chain data can't replace the
// ledger. The ledger is left untouched when this is returned.
type ImportError struct {
	Err error
}

// Error implements the error interface.
func (ie *ImportError) Error() string {
	return "import: " + ie.Err.Error()
}

// Unwrap provides access to the underlying failure.
func (ie *ImportError) Unwrap() error {
	return ie.Err
}
