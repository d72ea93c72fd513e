// =============================
// File: internal/curve/curve.go
// =============================
package curve

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidCurveState is returned when reserves or trade amounts make the
// constant-product formula undefined (empty pool, negative input, drain).
var ErrInvalidCurveState = errors.New("invalid bonding curve state")

// State is a snapshot of a bonding curve pool, fetched fresh from the chain
// for every pricing request. Reserves are in whole units (SOL and tokens),
// not lamports.
type State struct {
	TokenAddress string
	CurrentPrice float64
	TotalSupply  uint64
	BaseReserve  float64
	TokenReserve float64
}

// SpotPrice returns the instantaneous price in base currency per token.
func (s *State) SpotPrice() (float64, error) {
	if s.TokenReserve <= 0 {
		return 0, fmt.Errorf("%w: token reserve is %f", ErrInvalidCurveState, s.TokenReserve)
	}
	return s.BaseReserve / s.TokenReserve, nil
}

// Engine prices trades against a constant-product bonding curve
// k = baseReserve * tokenReserve. It is stateless and safe for concurrent use.
type Engine struct {
	feeRate float64
}

// NewEngine creates a pricing engine with the given protocol trading fee rate
// (e.g. 0.005 for 0.5%). The fee is taken from the output side of every trade.
func NewEngine(feeRate float64) *Engine {
	return &Engine{feeRate: feeRate}
}

// FeeRate returns the configured protocol trading fee rate.
func (e *Engine) FeeRate() float64 {
	return e.feeRate
}

// TokensForBase computes how many tokens a buy of baseIn base currency yields.
//
// newBaseReserve = baseReserve + baseIn
// tokensOut      = tokenReserve - k/newBaseReserve
//
// The protocol fee is subtracted from tokensOut before returning. The fee is
// applied per call: a multi-wallet batch prices each leg separately against
// the same snapshot, so the batch total fee is the sum of per-leg fees.
func (e *Engine) TokensForBase(baseIn float64, s *State) (float64, error) {
	if err := checkReserves(s); err != nil {
		return 0, err
	}
	if baseIn < 0 {
		return 0, fmt.Errorf("%w: negative base input %f", ErrInvalidCurveState, baseIn)
	}

	base := new(big.Float).SetFloat64(s.BaseReserve)
	tokens := new(big.Float).SetFloat64(s.TokenReserve)
	in := new(big.Float).SetFloat64(baseIn)

	k := new(big.Float).Mul(base, tokens)
	newBase := new(big.Float).Add(base, in)
	newTokens := new(big.Float).Quo(k, newBase)
	out := new(big.Float).Sub(tokens, newTokens)

	return applyFee(out, e.feeRate), nil
}

// BaseForTokens computes the base-currency proceeds of selling tokensIn tokens.
//
// newTokenReserve = tokenReserve - tokensIn
// baseOut         = k/newTokenReserve - baseReserve
//
// tokensIn >= tokenReserve would drain the pool (division by zero or a
// negative reserve) and is rejected. The protocol fee is subtracted from the
// proceeds before returning.
func (e *Engine) BaseForTokens(tokensIn float64, s *State) (float64, error) {
	if err := checkReserves(s); err != nil {
		return 0, err
	}
	if tokensIn < 0 {
		return 0, fmt.Errorf("%w: negative token input %f", ErrInvalidCurveState, tokensIn)
	}
	if tokensIn >= s.TokenReserve {
		return 0, fmt.Errorf("%w: sell of %f tokens would drain reserve of %f",
			ErrInvalidCurveState, tokensIn, s.TokenReserve)
	}

	base := new(big.Float).SetFloat64(s.BaseReserve)
	tokens := new(big.Float).SetFloat64(s.TokenReserve)
	in := new(big.Float).SetFloat64(tokensIn)

	k := new(big.Float).Mul(base, tokens)
	newTokens := new(big.Float).Sub(tokens, in)
	newBase := new(big.Float).Quo(k, newTokens)
	out := new(big.Float).Sub(newBase, base)

	return applyFee(out, e.feeRate), nil
}

func checkReserves(s *State) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidCurveState)
	}
	if s.BaseReserve <= 0 || s.TokenReserve <= 0 {
		return fmt.Errorf("%w: base reserve %f, token reserve %f",
			ErrInvalidCurveState, s.BaseReserve, s.TokenReserve)
	}
	return nil
}

// applyFee subtracts the protocol fee from the output side of a trade.
func applyFee(out *big.Float, feeRate float64) float64 {
	fee := new(big.Float).Mul(out, big.NewFloat(feeRate))
	net := new(big.Float).Sub(out, fee)
	result, _ := net.Float64()
	return result
}
