// =============================
// File: internal/pumpfun/money.go
// =============================
package pumpfun

import (
	"math"

	"github.com/shopspring/decimal"
)

// SolToLamports converts a SOL amount to lamports without accumulating float
// error on the way down.
func SolToLamports(sol float64) uint64 {
	return uint64(decimal.NewFromFloat(sol).Mul(decimal.New(1, 9)).IntPart())
}

// LamportsToSOL converts lamports to a SOL amount.
func LamportsToSOL(lamports uint64) float64 {
	f, _ := decimal.New(int64(lamports), -9).Float64()
	return f
}

// tokensToRaw converts a whole-token amount to raw mint units.
func tokensToRaw(tokens float64) uint64 {
	return uint64(decimal.NewFromFloat(tokens).Mul(decimal.New(1, TokenDecimals)).IntPart())
}

// rawToTokens converts raw mint units to a whole-token amount.
func rawToTokens(raw uint64) float64 {
	return float64(raw) / math.Pow10(TokenDecimals)
}
