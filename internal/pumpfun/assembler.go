// =============================
// File: internal/pumpfun/assembler.go
// =============================
package pumpfun

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/curve"
	"github.com/mirzakhanov/pumpbundler/internal/token"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
)

// Assembler turns validated trading intents into ordered, signed ledger
// transactions. It holds no cross-request state; signing material is borrowed
// per call and never retained.
type Assembler struct {
	cfg     *Config
	ledger  Ledger
	pricing *curve.Engine
	logger  *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(cfg *Config, ledger Ledger, pricing *curve.Engine, logger *zap.Logger) (*Assembler, error) {
	if cfg == nil || ledger == nil || pricing == nil || logger == nil {
		return nil, fmt.Errorf("cfg, ledger, pricing and logger are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assembler config: %w", err)
	}
	return &Assembler{
		cfg:     cfg,
		ledger:  ledger,
		pricing: pricing,
		logger:  logger.Named("assembler"),
	}, nil
}

// Config exposes the protocol parameters the assembler was built with.
func (a *Assembler) Config() *Config {
	return a.cfg
}

// CreateResult is a fully signed token-creation transaction plus its
// bookkeeping.
type CreateResult struct {
	Transaction *solana.Transaction
	Mint        solana.PublicKey
	FeePaid     float64
}

// Bundle is an ordered set of base64-encoded signed transactions ready for
// relay submission, one per wallet leg, in input order.
type Bundle struct {
	Transactions []string
	// TotalFee is the sum of per-leg platform fees in SOL. Each leg is an
	// economically separate trade, so fees are never computed on the
	// aggregate.
	TotalFee float64
}

// AssembleCreate builds and signs the token-creation transaction. The
// instruction sequence is fixed and order-dependent: initialize mint, create
// creator ATA, create program ATA, initialize bonding curve with metadata,
// transfer creation fee.
//
// Preconditions are checked before any instruction is built so impossible
// requests fail without touching instruction assembly: metadata must be valid
// and the creator must hold the creation fee plus a buffer.
func (a *Assembler) AssembleCreate(ctx context.Context, md *token.Metadata, creator *wallet.Wallet) (*CreateResult, error) {
	if validation := token.Validate(md); !validation.Valid {
		return nil, &InvalidMetadataError{Errors: validation.Errors}
	}

	balance, err := a.ledger.GetBalance(ctx, creator.PublicKey)
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "balance fetch", Cause: err}
	}
	required := SolToLamports(a.cfg.CreationFee) + createBalanceBuffer
	if balance < required {
		return nil, &InsufficientBalanceError{
			Required:  LamportsToSOL(required),
			Available: LamportsToSOL(balance),
		}
	}

	mintWallet, err := wallet.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint keypair: %w", err)
	}
	mint := mintWallet.PublicKey

	creatorATA, err := creator.GetATA(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive creator ATA: %w", err)
	}
	programATA, _, err := solana.FindAssociatedTokenAddress(a.cfg.ProgramID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive program ATA: %w", err)
	}

	instructions := []solana.Instruction{
		buildInitializeMintInstruction(mint, creator.PublicKey),
		buildCreateATAInstruction(creator.PublicKey, creator.PublicKey, mint),
		buildCreateATAInstruction(creator.PublicKey, a.cfg.ProgramID, mint),
		buildInitCurveInstruction(a.cfg.ProgramID, mint, creator.PublicKey, creatorATA, programATA, a.cfg.FeeAddress, md),
		buildFeeTransferInstruction(creator.PublicKey, a.cfg.FeeAddress, SolToLamports(a.cfg.CreationFee)),
	}

	// Blockhash is fetched immediately before signing to minimize staleness.
	blockhash, err := a.ledger.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "blockhash fetch", Cause: err}
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(creator.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	signers := map[solana.PublicKey]*solana.PrivateKey{
		creator.PublicKey: &creator.PrivateKey,
		mint:              &mintWallet.PrivateKey,
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return signers[key]
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	a.logger.Info("Assembled token creation",
		zap.String("mint", mint.String()),
		zap.String("creator", creator.PublicKey.String()),
		zap.Float64("creation_fee_sol", a.cfg.CreationFee))

	return &CreateResult{
		Transaction: tx,
		Mint:        mint,
		FeePaid:     a.cfg.CreationFee,
	}, nil
}

// assembledLeg is one wallet's instruction pair awaiting the shared blockhash.
type assembledLeg struct {
	wallet       *wallet.Wallet
	instructions []solana.Instruction
}

// AssembleBuy builds the signed transaction batch for a multi-wallet buy.
// Every leg is priced against the same curve snapshot; the snapshot is not
// refreshed between legs.
func (a *Assembler) AssembleBuy(
	ctx context.Context,
	mint solana.PublicKey,
	solAmounts []float64,
	wallets []*wallet.Wallet,
	snapshot *curve.State,
) (*Bundle, error) {
	if err := a.checkBatch(len(solAmounts), len(wallets)); err != nil {
		return nil, err
	}

	programATA, _, err := solana.FindAssociatedTokenAddress(a.cfg.ProgramID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive program ATA: %w", err)
	}

	legs := make([]assembledLeg, 0, len(solAmounts))
	totalFee := 0.0
	for i, amount := range solAmounts {
		w := wallets[i]
		if amount < a.cfg.MinSolAmount {
			return nil, fmt.Errorf("%w: leg %d amount %.9f SOL is below minimum %.9f SOL",
				ErrAmountTooSmall, i, amount, a.cfg.MinSolAmount)
		}

		tokensOut, err := a.pricing.TokensForBase(amount, snapshot)
		if err != nil {
			return nil, fmt.Errorf("pricing leg %d: %w", i, err)
		}

		buyerATA, err := w.GetATA(mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive ATA for leg %d: %w", i, err)
		}

		legFee := amount * a.cfg.FeePercentage
		legs = append(legs, assembledLeg{
			wallet: w,
			instructions: []solana.Instruction{
				buildBuyInstruction(a.cfg.ProgramID, mint, w.PublicKey, buyerATA, programATA,
					a.cfg.FeeAddress, tokensToRaw(tokensOut), SolToLamports(amount)),
				buildFeeTransferInstruction(w.PublicKey, a.cfg.FeeAddress, SolToLamports(legFee)),
			},
		})
		totalFee += legFee
	}

	return a.signLegs(ctx, legs, totalFee)
}

// AssembleSell builds the signed transaction batch for a multi-wallet sell.
// Token amounts are in raw mint units.
func (a *Assembler) AssembleSell(
	ctx context.Context,
	mint solana.PublicKey,
	tokenAmounts []uint64,
	wallets []*wallet.Wallet,
	snapshot *curve.State,
) (*Bundle, error) {
	if err := a.checkBatch(len(tokenAmounts), len(wallets)); err != nil {
		return nil, err
	}

	programATA, _, err := solana.FindAssociatedTokenAddress(a.cfg.ProgramID, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive program ATA: %w", err)
	}

	legs := make([]assembledLeg, 0, len(tokenAmounts))
	totalFee := 0.0
	for i, amount := range tokenAmounts {
		w := wallets[i]

		baseOut, err := a.pricing.BaseForTokens(rawToTokens(amount), snapshot)
		if err != nil {
			return nil, fmt.Errorf("pricing leg %d: %w", i, err)
		}

		sellerATA, err := w.GetATA(mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive ATA for leg %d: %w", i, err)
		}

		legFee := baseOut * a.cfg.FeePercentage
		legs = append(legs, assembledLeg{
			wallet: w,
			instructions: []solana.Instruction{
				buildSellInstruction(a.cfg.ProgramID, mint, w.PublicKey, sellerATA, programATA,
					a.cfg.FeeAddress, amount, SolToLamports(baseOut)),
				buildFeeTransferInstruction(w.PublicKey, a.cfg.FeeAddress, SolToLamports(legFee)),
			},
		})
		totalFee += legFee
	}

	return a.signLegs(ctx, legs, totalFee)
}

// signLegs finishes a fully assembled batch: one blockhash fetch shared by
// all legs, then one signed transaction per leg in input order. Assembly is
// all-or-nothing; a failure here discards the whole batch.
func (a *Assembler) signLegs(ctx context.Context, legs []assembledLeg, totalFee float64) (*Bundle, error) {
	blockhash, err := a.ledger.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "blockhash fetch", Cause: err}
	}

	encoded := make([]string, 0, len(legs))
	for i, leg := range legs {
		tx, err := solana.NewTransaction(leg.instructions, blockhash,
			solana.TransactionPayer(leg.wallet.PublicKey))
		if err != nil {
			return nil, fmt.Errorf("failed to build transaction for leg %d: %w", i, err)
		}
		if err := leg.wallet.SignTransaction(tx); err != nil {
			return nil, fmt.Errorf("failed to sign transaction for leg %d: %w", i, err)
		}
		b64, err := tx.ToBase64()
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction for leg %d: %w", i, err)
		}
		encoded = append(encoded, b64)
	}

	a.logger.Debug("Assembled trade bundle",
		zap.Int("legs", len(encoded)),
		zap.Float64("total_fee_sol", totalFee))

	return &Bundle{Transactions: encoded, TotalFee: totalFee}, nil
}

func (a *Assembler) checkBatch(amounts, wallets int) error {
	if amounts != wallets {
		return ErrBatchSizeMismatch
	}
	if amounts == 0 {
		return ErrEmptyBatch
	}
	if amounts > a.cfg.MaxWalletsPerBundle {
		return ErrBatchTooLarge
	}
	return nil
}
