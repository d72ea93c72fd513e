// =============================
// File: internal/pumpfun/config.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Config holds the protocol parameters for the assembler.
type Config struct {
	ProgramID  solana.PublicKey
	FeeAddress solana.PublicKey

	// CreationFee is the flat fee in SOL for creating a token.
	CreationFee float64
	// TradingFee is the protocol fee rate applied on the curve output side.
	TradingFee float64
	// FeePercentage is the platform fee rate transferred to FeeAddress per leg.
	FeePercentage float64
	// MinSolAmount is the smallest accepted buy amount per wallet.
	MinSolAmount float64
	// MaxWalletsPerBundle caps the number of legs in one batch.
	MaxWalletsPerBundle int
}

// DefaultConfig returns the production protocol parameters.
func DefaultConfig() *Config {
	return &Config{
		ProgramID:           PumpFunProgramID,
		FeeAddress:          DefaultFeeAddress,
		CreationFee:         0.05,
		TradingFee:          0.005,
		FeePercentage:       0.008,
		MinSolAmount:        0.02,
		MaxWalletsPerBundle: MaxWalletsPerBundle,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ProgramID.IsZero() {
		return fmt.Errorf("program ID is required")
	}
	if c.FeeAddress.IsZero() {
		return fmt.Errorf("fee address is required")
	}
	if c.CreationFee < 0 || c.TradingFee < 0 || c.FeePercentage < 0 {
		return fmt.Errorf("fees cannot be negative")
	}
	if c.MaxWalletsPerBundle <= 0 || c.MaxWalletsPerBundle > MaxWalletsPerBundle {
		return fmt.Errorf("max wallets per bundle must be between 1 and %d", MaxWalletsPerBundle)
	}
	return nil
}
