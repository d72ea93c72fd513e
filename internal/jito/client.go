// =============================
// File: internal/jito/client.go
// =============================
package jito

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultBundleURL is the public Jito block-engine bundle endpoint.
	DefaultBundleURL = "https://mainnet.block-engine.jito.wtf/api/v1/bundles"

	// DefaultTipAccount receives the relay tip.
	DefaultTipAccount = "96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"

	// DefaultTipAmountSOL is the relay tip attached to every bundle.
	DefaultTipAmountSOL = 0.00001

	// MaxBundleSize is the relay's hard limit on transactions per bundle.
	MaxBundleSize = 16

	requestTimeout = 30 * time.Second
)

// Config holds relay connection parameters.
type Config struct {
	BundleURL    string
	TipAccount   string
	TipAmountSOL float64

	// MaxRetries bounds submission attempts; RetryInterval is the first
	// backoff delay, doubled after each failure.
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultConfig returns production relay settings.
func DefaultConfig() *Config {
	return &Config{
		BundleURL:     DefaultBundleURL,
		TipAccount:    DefaultTipAccount,
		TipAmountSOL:  DefaultTipAmountSOL,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	}
}

// Client submits transaction bundles to a Jito relay.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a relay client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("cfg and logger are required")
	}
	if cfg.BundleURL == "" {
		return nil, fmt.Errorf("bundle URL is required")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max retries must be at least 1")
	}
	if cfg.RetryInterval <= 0 {
		return nil, fmt.Errorf("retry interval must be positive")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.Named("jito"),
	}, nil
}

// bundleRequest is the relay submission payload.
type bundleRequest struct {
	Transactions []string `json:"transactions"`
	TipAccount   string   `json:"tip_account"`
	TipAmount    uint64   `json:"tip_amount"`
}

// SubmitResult is the relay's response to an accepted bundle.
type SubmitResult struct {
	Status   string `json:"status"`
	BundleID string `json:"bundle_id"`
	Message  string `json:"message"`
}

// BundleStatus reports the relay-side state of a previously submitted bundle.
type BundleStatus struct {
	BundleID string `json:"bundle_id"`
	Status   string `json:"status"`
	Landed   bool   `json:"landed"`
	Slot     uint64 `json:"slot"`
}

// ValidateTransactions checks a bundle's shape before submission: non-empty,
// within the relay limit and every entry decodable base64.
func (c *Client) ValidateTransactions(transactions []string) error {
	if len(transactions) == 0 {
		return ErrEmptyBundle
	}
	if len(transactions) > MaxBundleSize {
		return ErrBundleTooLarge
	}
	for i, tx := range transactions {
		if _, err := base64.StdEncoding.DecodeString(tx); err != nil {
			return fmt.Errorf("transaction %d is not valid base64: %w", i, err)
		}
	}
	return nil
}

// Submit sends the bundle once. The relay accepts the bundle only when the
// response status is "success"; any other outcome is an error the caller may
// retry.
func (c *Client) Submit(ctx context.Context, transactions []string) (*SubmitResult, error) {
	if err := c.ValidateTransactions(transactions); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(bundleRequest{
		Transactions: transactions,
		TipAccount:   c.cfg.TipAccount,
		TipAmount:    tipLamports(c.cfg.TipAmountSOL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BundleURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build bundle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bundle submission failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %w", err)
	}
	if result.Status != "success" {
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &result, nil
}

// SubmitWithRetry submits the bundle with exponential backoff: the first
// retry waits RetryInterval, each subsequent retry doubles the wait, and no
// wait follows the final failure. Shape errors are permanent and never
// retried.
func (c *Client) SubmitWithRetry(ctx context.Context, transactions []string) (*SubmitResult, error) {
	if err := c.ValidateTransactions(transactions); err != nil {
		return nil, err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.cfg.RetryInterval
	expBackoff.Multiplier = 2
	expBackoff.RandomizationFactor = 0

	attempts := 0
	operation := func() (*SubmitResult, error) {
		attempts++
		result, err := c.Submit(ctx, transactions)
		if err != nil {
			c.logger.Warn("Bundle submission attempt failed",
				zap.Int("attempt", attempts),
				zap.Error(err))
			return nil, err
		}
		return result, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries)))
	if err != nil {
		return nil, &RetryExhaustedError{Attempts: attempts, LastErr: err}
	}

	c.logger.Info("Bundle accepted",
		zap.String("bundle_id", result.BundleID),
		zap.Int("attempts", attempts))
	return result, nil
}

// GetBundleStatus fetches the relay-side status of a bundle. Status lookups
// are never retried.
func (c *Client) GetBundleStatus(ctx context.Context, bundleID string) (*BundleStatus, error) {
	if bundleID == "" {
		return nil, fmt.Errorf("bundle ID is required")
	}

	url := fmt.Sprintf("%s/%s", c.cfg.BundleURL, bundleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SubmissionFailedError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var status BundleStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// CalculateBundleFee returns the relay cost in SOL for a bundle of n
// transactions: a flat base plus a per-transaction component.
func CalculateBundleFee(transactionCount int) float64 {
	base := decimal.NewFromFloat(0.00001)
	perTx := decimal.NewFromFloat(0.000001)
	fee, _ := base.Add(perTx.Mul(decimal.NewFromInt(int64(transactionCount)))).Float64()
	return fee
}

func tipLamports(sol float64) uint64 {
	return uint64(decimal.NewFromFloat(sol).Mul(decimal.New(1, 9)).IntPart())
}
