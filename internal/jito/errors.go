// =============================
// File: internal/jito/errors.go
// =============================
package jito

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBundle is returned when a submission carries no transactions.
	ErrEmptyBundle = errors.New("bundle contains no transactions")

	// ErrBundleTooLarge is returned when a submission exceeds the relay limit.
	ErrBundleTooLarge = fmt.Errorf("maximum %d transactions allowed per bundle", MaxBundleSize)
)

// SubmissionFailedError reports a relay response that did not accept the
// bundle.
type SubmissionFailedError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionFailedError) Error() string {
	return fmt.Sprintf("bundle rejected by relay (HTTP %d): %s", e.StatusCode, e.Body)
}

// RetryExhaustedError reports that every submission attempt failed. LastErr
// is the error from the final attempt.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("bundle submission failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}
