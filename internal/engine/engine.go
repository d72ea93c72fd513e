// =============================
// File: internal/engine/engine.go
// =============================
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mirzakhanov/pumpbundler/internal/curve"
	"github.com/mirzakhanov/pumpbundler/internal/jito"
	"github.com/mirzakhanov/pumpbundler/internal/pumpfun"
	"github.com/mirzakhanov/pumpbundler/internal/token"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
)

// preflightBufferLamports covers network fees on top of each leg's spend when
// checking wallet balances before assembly.
const preflightBufferLamports = 1_000_000

// Assembler builds signed transactions from validated intents.
type Assembler interface {
	AssembleCreate(ctx context.Context, md *token.Metadata, creator *wallet.Wallet) (*pumpfun.CreateResult, error)
	AssembleBuy(ctx context.Context, mint solana.PublicKey, solAmounts []float64, wallets []*wallet.Wallet, snapshot *curve.State) (*pumpfun.Bundle, error)
	AssembleSell(ctx context.Context, mint solana.PublicKey, tokenAmounts []uint64, wallets []*wallet.Wallet, snapshot *curve.State) (*pumpfun.Bundle, error)
	FetchCurveState(ctx context.Context, mint solana.PublicKey) (*curve.State, error)
	Config() *pumpfun.Config
}

// Submitter delivers signed bundles to the relay.
type Submitter interface {
	SubmitWithRetry(ctx context.Context, transactions []string) (*jito.SubmitResult, error)
	GetBundleStatus(ctx context.Context, bundleID string) (*jito.BundleStatus, error)
}

// TransactionResult is the uniform outcome of every orchestrated request. A
// request the engine understood but rejected carries Success=false and a
// human-readable Error; infrastructure faults surface as Go errors instead.
type TransactionResult struct {
	Success      bool    `json:"success"`
	Signature    string  `json:"signature,omitempty"`
	BundleID     string  `json:"bundle_id,omitempty"`
	TokenAddress string  `json:"token_address,omitempty"`
	Error        string  `json:"error,omitempty"`
	FeePaid      float64 `json:"fee_paid"`
}

// Engine orchestrates creation and trading requests end to end: wallet
// resolution, preflight checks, assembly and submission.
type Engine struct {
	assembler Assembler
	submitter Submitter
	wallets   *wallet.Manager
	ledger    pumpfun.Ledger
	logger    *zap.Logger
}

// New creates an engine.
func New(assembler Assembler, submitter Submitter, wallets *wallet.Manager, ledger pumpfun.Ledger, logger *zap.Logger) (*Engine, error) {
	if assembler == nil || submitter == nil || wallets == nil || ledger == nil || logger == nil {
		return nil, fmt.Errorf("all engine dependencies are required")
	}
	return &Engine{
		assembler: assembler,
		submitter: submitter,
		wallets:   wallets,
		ledger:    ledger,
		logger:    logger.Named("engine"),
	}, nil
}

// CreateToken validates, assembles, submits and confirms a token creation on
// behalf of the wallet identified by walletID.
func (e *Engine) CreateToken(ctx context.Context, md *token.Metadata, walletID string) (*TransactionResult, error) {
	creator, err := e.wallets.Resolve(walletID)
	if err != nil {
		return rejected(err), nil
	}

	result, err := e.assembler.AssembleCreate(ctx, md, creator)
	if err != nil {
		if isRejection(err) {
			return rejected(err), nil
		}
		return nil, err
	}

	sig, err := e.ledger.SendAndConfirm(ctx, result.Transaction)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction: %w", err)
	}

	e.logger.Info("Token created",
		zap.String("mint", result.Mint.String()),
		zap.String("signature", sig.String()))

	return &TransactionResult{
		Success:      true,
		Signature:    sig.String(),
		TokenAddress: result.Mint.String(),
		FeePaid:      result.FeePaid,
	}, nil
}

// Buy executes a multi-wallet buy bundle against the token's current curve
// state. The snapshot is fetched fresh for every request.
func (e *Engine) Buy(ctx context.Context, tokenAddress string, solAmounts []float64, walletIDs []string) (*TransactionResult, error) {
	if err := e.checkBatchShape(len(solAmounts), len(walletIDs)); err != nil {
		return rejected(err), nil
	}

	mint, err := solana.PublicKeyFromBase58(tokenAddress)
	if err != nil {
		return rejected(fmt.Errorf("invalid token address: %w", err)), nil
	}

	wallets, err := e.wallets.ResolveAll(walletIDs)
	if err != nil {
		return rejected(err), nil
	}

	if err := e.preflightBalances(ctx, wallets, solAmounts); err != nil {
		if isRejection(err) {
			return rejected(err), nil
		}
		return nil, err
	}

	snapshot, err := e.assembler.FetchCurveState(ctx, mint)
	if err != nil {
		return nil, err
	}

	bundle, err := e.assembler.AssembleBuy(ctx, mint, solAmounts, wallets, snapshot)
	if err != nil {
		if isRejection(err) {
			return rejected(err), nil
		}
		return nil, err
	}

	return e.submit(ctx, tokenAddress, bundle)
}

// Sell executes a multi-wallet sell bundle. Token amounts are in raw mint
// units.
func (e *Engine) Sell(ctx context.Context, tokenAddress string, tokenAmounts []uint64, walletIDs []string) (*TransactionResult, error) {
	if err := e.checkBatchShape(len(tokenAmounts), len(walletIDs)); err != nil {
		return rejected(err), nil
	}

	mint, err := solana.PublicKeyFromBase58(tokenAddress)
	if err != nil {
		return rejected(fmt.Errorf("invalid token address: %w", err)), nil
	}

	wallets, err := e.wallets.ResolveAll(walletIDs)
	if err != nil {
		return rejected(err), nil
	}

	snapshot, err := e.assembler.FetchCurveState(ctx, mint)
	if err != nil {
		return nil, err
	}

	bundle, err := e.assembler.AssembleSell(ctx, mint, tokenAmounts, wallets, snapshot)
	if err != nil {
		if isRejection(err) {
			return rejected(err), nil
		}
		return nil, err
	}

	return e.submit(ctx, tokenAddress, bundle)
}

// BundleStatus proxies a relay status lookup.
func (e *Engine) BundleStatus(ctx context.Context, bundleID string) (*jito.BundleStatus, error) {
	return e.submitter.GetBundleStatus(ctx, bundleID)
}

// checkBatchShape rejects malformed batches before any wallet or ledger work.
func (e *Engine) checkBatchShape(amounts, wallets int) error {
	if amounts != wallets {
		return pumpfun.ErrBatchSizeMismatch
	}
	if amounts == 0 {
		return pumpfun.ErrEmptyBatch
	}
	if amounts > e.assembler.Config().MaxWalletsPerBundle {
		return pumpfun.ErrBatchTooLarge
	}
	return nil
}

// preflightBalances verifies concurrently that every buying wallet can cover
// its spend, platform fee and a network-fee buffer.
func (e *Engine) preflightBalances(ctx context.Context, wallets []*wallet.Wallet, solAmounts []float64) error {
	feeRate := e.assembler.Config().FeePercentage

	g, gctx := errgroup.WithContext(ctx)
	for i := range wallets {
		w, amount := wallets[i], solAmounts[i]
		g.Go(func() error {
			balance, err := e.ledger.GetBalance(gctx, w.PublicKey)
			if err != nil {
				return &pumpfun.LedgerUnavailableError{Op: "balance fetch", Cause: err}
			}
			required := pumpfun.SolToLamports(amount) + pumpfun.SolToLamports(amount*feeRate) + preflightBufferLamports
			if balance < required {
				return &pumpfun.InsufficientBalanceError{
					Required:  pumpfun.LamportsToSOL(required),
					Available: pumpfun.LamportsToSOL(balance),
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) submit(ctx context.Context, tokenAddress string, bundle *pumpfun.Bundle) (*TransactionResult, error) {
	result, err := e.submitter.SubmitWithRetry(ctx, bundle.Transactions)
	if err != nil {
		return nil, fmt.Errorf("bundle submission failed: %w", err)
	}

	e.logger.Info("Bundle submitted",
		zap.String("token", tokenAddress),
		zap.String("bundle_id", result.BundleID),
		zap.Int("legs", len(bundle.Transactions)))

	return &TransactionResult{
		Success:      true,
		BundleID:     result.BundleID,
		TokenAddress: tokenAddress,
		FeePaid:      bundle.TotalFee + jito.CalculateBundleFee(len(bundle.Transactions)),
	}, nil
}

// rejected wraps a request-level rejection into a failed result.
func rejected(err error) *TransactionResult {
	return &TransactionResult{Success: false, Error: err.Error()}
}

// isRejection reports whether err is a fault in the request itself rather
// than in the infrastructure serving it.
func isRejection(err error) bool {
	var metaErr *pumpfun.InvalidMetadataError
	var balErr *pumpfun.InsufficientBalanceError
	switch {
	case errors.As(err, &metaErr),
		errors.As(err, &balErr),
		errors.Is(err, pumpfun.ErrBatchSizeMismatch),
		errors.Is(err, pumpfun.ErrEmptyBatch),
		errors.Is(err, pumpfun.ErrBatchTooLarge),
		errors.Is(err, pumpfun.ErrAmountTooSmall),
		errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, curve.ErrInvalidCurveState):
		return true
	}
	return false
}
