package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/exchange"
	"github.com/candlefeed/candlefeed/internal/fetcher"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/server"
)

const _cfgFilePath = "./configs/config.yaml"

func main() {
	cfgPath := _cfgFilePath
	if p := os.Getenv("CANDLEFEED_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("%s: can't load config", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := exchange.NewClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't create exchange client", err)
	}

	f := fetcher.New(client, cfg, zapLogger)
	stream := server.NewCandleStream(f, cfg.Server.PushInterval, zapLogger)

	zapLogger.Infof("serving %s %s candles from %s, push every %s",
		cfg.Symbol, cfg.Timeframe, client.Name(), cfg.Server.PushInterval)

	s := server.NewHTTPServer(ctx, cfg.Server.Port, stream.Handler(), zapLogger)
	if err := s.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatalf("%s: server stopped", err)
	}
}
