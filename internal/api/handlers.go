// =============================
// File: internal/api/handlers.go
// =============================
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/engine"
	"github.com/mirzakhanov/pumpbundler/internal/jito"
	"github.com/mirzakhanov/pumpbundler/internal/token"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
)

// engineAPI is the orchestrator surface the handlers call. The concrete
// implementation is *engine.Engine; tests supply fakes.
type engineAPI interface {
	CreateToken(ctx context.Context, md *token.Metadata, walletID string) (*engine.TransactionResult, error)
	Buy(ctx context.Context, tokenAddress string, solAmounts []float64, walletIDs []string) (*engine.TransactionResult, error)
	Sell(ctx context.Context, tokenAddress string, tokenAmounts []uint64, walletIDs []string) (*engine.TransactionResult, error)
	BundleStatus(ctx context.Context, bundleID string) (*jito.BundleStatus, error)
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: false, Error: msg})
}

// createTokenRequest identifies the creator either by a stored wallet id or
// by an inline base58 private key.
type createTokenRequest struct {
	Metadata   token.Metadata `json:"metadata"`
	WalletID   string         `json:"walletId"`
	PrivateKey string         `json:"private_key"`
}

type buyRequest struct {
	TokenAddress string    `json:"tokenAddress" binding:"required"`
	SolAmounts   []float64 `json:"solAmounts"`
	WalletIDs    []string  `json:"walletIds"`
}

type sellRequest struct {
	TokenAddress string   `json:"tokenAddress" binding:"required"`
	TokenAmounts []uint64 `json:"tokenAmounts"`
	WalletIDs    []string `json:"walletIds"`
}

type importWalletRequest struct {
	WalletID   string `json:"wallet_id" binding:"required"`
	PrivateKey string `json:"private_key" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}

func (s *Server) handleCreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	walletID := req.WalletID
	if req.PrivateKey != "" {
		w, err := wallet.New(req.PrivateKey)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		walletID = w.String()
		s.wallets.Add(walletID, w)
	}
	if walletID == "" {
		fail(c, http.StatusBadRequest, "walletId or private_key is required")
		return
	}

	log := s.log.WithOperation("token_create")
	result, err := s.engine.CreateToken(c.Request.Context(), &req.Metadata, walletID)
	if err != nil {
		log.Error("Token creation failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Success {
		log.Info("Token created", zap.String("token_address", result.TokenAddress))
	}
	s.writeResult(c, result)
}

func (s *Server) handleBuy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	log := s.log.WithOperation("bundle_buy")
	result, err := s.engine.Buy(c.Request.Context(), req.TokenAddress, req.SolAmounts, req.WalletIDs)
	if err != nil {
		log.Error("Buy bundle failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Success {
		log.Info("Buy bundle accepted", zap.String("bundle_id", result.BundleID))
	}
	s.writeResult(c, result)
}

func (s *Server) handleSell(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	log := s.log.WithOperation("bundle_sell")
	result, err := s.engine.Sell(c.Request.Context(), req.TokenAddress, req.TokenAmounts, req.WalletIDs)
	if err != nil {
		log.Error("Sell bundle failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if result.Success {
		log.Info("Sell bundle accepted", zap.String("bundle_id", result.BundleID))
	}
	s.writeResult(c, result)
}

func (s *Server) handleBundleStatus(c *gin.Context) {
	bundleID := c.Param("bundle_id")
	status, err := s.engine.BundleStatus(c.Request.Context(), bundleID)
	if err != nil {
		s.log.WithBundle(bundleID).Error("Bundle status lookup failed", zap.Error(err))
		fail(c, http.StatusBadGateway, err.Error())
		return
	}
	ok(c, status)
}

func (s *Server) handleImportWallet(c *gin.Context) {
	var req importWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	w, err := wallet.New(req.PrivateKey)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.wallets.Add(req.WalletID, w)
	s.log.WithWallet(req.WalletID).Info("Wallet imported", zap.String("public_key", w.String()))
	ok(c, gin.H{"wallet_id": req.WalletID, "public_key": w.String()})
}

// writeResult maps an orchestrator outcome onto HTTP: rejected requests are
// 400 with the rejection message, accepted ones 200 with the result payload.
func (s *Server) writeResult(c *gin.Context, result *engine.TransactionResult) {
	if !result.Success {
		fail(c, http.StatusBadRequest, result.Error)
		return
	}
	ok(c, result)
}
