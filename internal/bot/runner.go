// =============================
// File: internal/bot/runner.go
// =============================
package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/api"
	"github.com/mirzakhanov/pumpbundler/internal/config"
	"github.com/mirzakhanov/pumpbundler/internal/curve"
	"github.com/mirzakhanov/pumpbundler/internal/engine"
	"github.com/mirzakhanov/pumpbundler/internal/jito"
	"github.com/mirzakhanov/pumpbundler/internal/logger"
	"github.com/mirzakhanov/pumpbundler/internal/pumpfun"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
	"github.com/mirzakhanov/pumpbundler/pkg/blockchain/solana"
)

// Runner wires the full engine together and serves it over HTTP until a
// shutdown signal arrives.
type Runner struct {
	logger     *zap.Logger
	cfg        *config.Config
	server     *api.Server
	shutdownCh chan os.Signal
}

// NewRunner builds every component from the configuration.
func NewRunner(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	solClient, err := solana.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create solana client: %w", err)
	}

	wallets := wallet.NewManager()
	if cfg.WalletsFile != "" {
		if err := wallets.LoadFromCSV(cfg.WalletsFile); err != nil {
			return nil, fmt.Errorf("failed to load wallets: %w", err)
		}
		log.Info("Loaded wallets", zap.Int("count", wallets.Len()))
	}

	programID, err := sdk.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program_id: %w", err)
	}
	feeAddress, err := sdk.PublicKeyFromBase58(cfg.FeeAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid fee_address: %w", err)
	}

	protocolCfg := pumpfun.DefaultConfig()
	protocolCfg.ProgramID = programID
	protocolCfg.FeeAddress = feeAddress
	protocolCfg.CreationFee = cfg.CreationFee
	protocolCfg.TradingFee = cfg.TradingFee
	protocolCfg.FeePercentage = cfg.FeePercentage
	protocolCfg.MinSolAmount = cfg.MinSolAmount
	protocolCfg.MaxWalletsPerBundle = cfg.MaxWalletsPerBundle

	assembler, err := pumpfun.NewAssembler(protocolCfg, solClient, curve.NewEngine(protocolCfg.TradingFee), log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assembler: %w", err)
	}

	jitoCfg := jito.DefaultConfig()
	jitoCfg.BundleURL = cfg.JitoBundleURL
	if cfg.JitoTipAccount != "" {
		jitoCfg.TipAccount = cfg.JitoTipAccount
	}
	jitoCfg.TipAmountSOL = cfg.JitoTipAmountSOL
	jitoCfg.MaxRetries = cfg.MaxRetries
	jitoCfg.RetryInterval = time.Duration(cfg.RetryIntervalSec) * time.Second

	submitter, err := jito.NewClient(jitoCfg, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create jito client: %w", err)
	}

	eng, err := engine.New(assembler, submitter, wallets, solClient, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &Runner{
		logger:     log.Logger,
		cfg:        cfg,
		server:     api.NewServer(eng, wallets, log),
		shutdownCh: make(chan os.Signal, 1),
	}, nil
}

// Run serves the API until the context is cancelled or an interrupt arrives.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sig := <-r.shutdownCh
		r.logger.Info("Signal received: " + sig.String())
		cancel()
	}()

	return r.server.Run(runCtx, r.cfg.ListenAddr)
}
