// =============================
// File: internal/pumpfun/errors.go
// =============================
package pumpfun

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBatchSizeMismatch is returned when the amounts and wallet lists of a
	// trade intent have different lengths.
	ErrBatchSizeMismatch = errors.New("number of amounts must match number of wallets")

	// ErrBatchTooLarge is returned when a batch exceeds the bundle limit.
	ErrBatchTooLarge = fmt.Errorf("maximum %d wallets allowed per bundle", MaxWalletsPerBundle)

	// ErrEmptyBatch is returned when a trade intent carries no legs.
	ErrEmptyBatch = errors.New("batch contains no trades")

	// ErrAmountTooSmall is returned when a buy leg is below the protocol
	// minimum.
	ErrAmountTooSmall = errors.New("buy amount below minimum")
)

// InsufficientBalanceError reports a creation attempt the payer cannot fund.
// Amounts are in SOL.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.9f SOL, available %.9f SOL",
		e.Required, e.Available)
}

// InvalidMetadataError carries the accumulated validation errors for a
// rejected token creation.
type InvalidMetadataError struct {
	Errors []string
}

func (e *InvalidMetadataError) Error() string {
	return "invalid token metadata: " + strings.Join(e.Errors, ", ")
}

// LedgerUnavailableError wraps a failure of the external ledger client. The
// assembler never retries these; only the submission step has retry policy.
type LedgerUnavailableError struct {
	Op    string
	Cause error
}

func (e *LedgerUnavailableError) Error() string {
	return fmt.Sprintf("ledger unavailable during %s: %v", e.Op, e.Cause)
}

func (e *LedgerUnavailableError) Unwrap() error {
	return e.Cause
}
