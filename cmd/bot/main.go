// =============================
// File: cmd/bot/main.go
// =============================
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/bot"
	"github.com/mirzakhanov/pumpbundler/internal/config"
	"github.com/mirzakhanov/pumpbundler/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Configuration failures happen before the logger exists.
		println("failed to load config:", err.Error())
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxBackups:  5,
		MaxAge:      30,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		println("failed to initialize logger:", err.Error())
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting pump bundler engine")

	runner, err := bot.NewRunner(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize runner", zap.Error(err))
	}

	if err := runner.Run(ctx); err != nil {
		log.LogError("Runner exited with error", err)
		os.Exit(1)
	}
}
