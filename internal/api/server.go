// =============================
// File: internal/api/server.go
// =============================
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/logger"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
)

// Server exposes the trading engine over HTTP.
type Server struct {
	engine  engineAPI
	wallets *wallet.Manager
	log     *logger.Logger
	router  *gin.Engine
	httpSrv *http.Server
}

// NewServer wires the routes and returns a server ready to run.
func NewServer(e engineAPI, wallets *wallet.Manager, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		engine:  e,
		wallets: wallets,
		log:     log,
		router:  router,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/token/create", s.handleCreateToken)
		api.POST("/bundle/buy", s.handleBuy)
		api.POST("/bundle/sell", s.handleSell)
		api.GET("/bundle/status/:bundle_id", s.handleBundleStatus)
		api.POST("/wallet/import", s.handleImportWallet)
	}
}

// Run serves HTTP on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", zap.String("addr", addr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
