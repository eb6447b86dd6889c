package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/app"
	"github.com/noah-isme/sma-gradebook/internal/cli"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gradebook, cleanup, err := app.Bootstrap(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to assemble gradebook", zap.Error(err))
	}
	defer cleanup()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	console := cli.NewConsole(gradebook, os.Stdin, os.Stdout, interrupts, logr.Named("console"))
	if err := console.Run(ctx); err != nil {
		logr.Error("console stopped", zap.Error(err))
	}
}
