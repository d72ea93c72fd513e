// =============================
// File: internal/pumpfun/curve_account.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/mirzakhanov/pumpbundler/internal/curve"
)

// bondingCurveDiscriminator identifies BondingCurve accounts on chain.
var bondingCurveDiscriminator = []byte{23, 183, 248, 55, 96, 216, 172, 96}

// DeriveBondingCurveAddress computes the PDA holding a token's curve state.
func DeriveBondingCurveAddress(mint, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}
	return addr, nil
}

// ParseBondingCurveAccount decodes raw bonding curve account data into a
// pricing snapshot. Layout after the 8-byte discriminator: five LE u64 fields
// (virtual token reserves, virtual SOL reserves, real token reserves, real SOL
// reserves, token total supply).
func ParseBondingCurveAccount(data []byte, mint solana.PublicKey) (*curve.State, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data too short for bonding curve account")
	}
	for i := 0; i < 8; i++ {
		if data[i] != bondingCurveDiscriminator[i] {
			return nil, fmt.Errorf("invalid discriminator for bonding curve account")
		}
	}

	pos := 8
	if len(data) < pos+5*8 {
		return nil, fmt.Errorf("data too short for bonding curve content")
	}

	virtualTokenReserves := binary.LittleEndian.Uint64(data[pos : pos+8])
	virtualSolReserves := binary.LittleEndian.Uint64(data[pos+8 : pos+16])
	totalSupply := binary.LittleEndian.Uint64(data[pos+32 : pos+40])

	if virtualTokenReserves == 0 || virtualSolReserves == 0 {
		return nil, fmt.Errorf("%w: empty virtual reserves", curve.ErrInvalidCurveState)
	}

	baseReserve := float64(virtualSolReserves) / LamportsPerSOL
	tokenReserve := float64(virtualTokenReserves) / math.Pow10(TokenDecimals)

	return &curve.State{
		TokenAddress: mint.String(),
		CurrentPrice: baseReserve / tokenReserve,
		TotalSupply:  totalSupply,
		BaseReserve:  baseReserve,
		TokenReserve: tokenReserve,
	}, nil
}

// FetchCurveState reads the current bonding curve state for mint from the
// ledger. The snapshot is always fetched fresh, never cached across requests.
func (a *Assembler) FetchCurveState(ctx context.Context, mint solana.PublicKey) (*curve.State, error) {
	curveAddr, err := DeriveBondingCurveAddress(mint, a.cfg.ProgramID)
	if err != nil {
		return nil, err
	}

	data, err := a.ledger.GetAccountData(ctx, curveAddr)
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "curve state fetch", Cause: err}
	}

	return ParseBondingCurveAccount(data, mint)
}
