package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/exchange"
	"github.com/candlefeed/candlefeed/internal/fetcher"
	"github.com/candlefeed/candlefeed/internal/logger"
)

const _cfgFilePath = "./configs/config.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; nothing to report since both streams belong to
	// the output contract
	_ = godotenv.Load()

	// silent by default: stdout carries only the candle array, stderr
	// only the error envelope
	var zapLogger logger.Logger = logger.NewNopLogger()
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		l, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(lvl))
		if err == nil {
			defer loggerSync()
			zapLogger = l
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfgPath := _cfgFilePath
	if p := os.Getenv("CANDLEFEED_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fetcher.Result{Err: err}.Write(os.Stdout, os.Stderr)
	}

	client, err := exchange.NewClient(cfg, zapLogger)
	if err != nil {
		return fetcher.Result{Err: err}.Write(os.Stdout, os.Stderr)
	}

	return fetcher.New(client, cfg, zapLogger).Run(ctx, os.Stdout, os.Stderr)
}
