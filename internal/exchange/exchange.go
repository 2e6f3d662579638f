package exchange

import (
	"context"
	"fmt"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/exchange/binance"
	"github.com/candlefeed/candlefeed/internal/exchange/okx"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

// Client fetches the most recent candle window for a symbol. Candles come
// back oldest first, exactly as the venue returned them.
type Client interface {
	Name() string
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error)
}

func NewClient(cfg config.Config, logger logger.Logger) (Client, error) {
	switch cfg.Exchange {
	case config.Binance:
		return binance.NewClient(cfg, logger), nil
	case config.OKX:
		return okx.NewClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown exchange %q", cfg.Exchange)
	}
}
