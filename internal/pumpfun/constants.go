// =============================
// File: internal/pumpfun/constants.go
// =============================
package pumpfun

import "github.com/gagliardetto/solana-go"

// Known Pump.fun protocol addresses.
var (
	// PumpFunProgramID is the on-chain program for the bonding-curve protocol.
	PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// DefaultFeeAddress collects creation and trading fees.
	DefaultFeeAddress = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysvarRentPubkey         = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

const (
	// TokenDecimals is the mint precision used for every token this engine
	// creates.
	TokenDecimals = 9

	// LamportsPerSOL converts between SOL and the ledger's smallest unit.
	LamportsPerSOL = 1_000_000_000

	// MaxWalletsPerBundle is the hard relay limit on transactions per bundle.
	MaxWalletsPerBundle = 16

	// createBalanceBuffer is added on top of the creation fee when checking
	// the creator's balance, covering rent and network fees.
	createBalanceBuffer = 1_000_000
)

// Instruction discriminators for the bonding-curve program.
var (
	initCurveDiscriminator = []byte{0}
	buyDiscriminator       = []byte{1}
	sellDiscriminator      = []byte{2}
)
