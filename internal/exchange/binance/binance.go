package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"go.uber.org/ratelimit"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

// Binance caps spot kline requests at 1000 rows.
const _maxLimit = 1000

type Client struct {
	c           *gobinance.Client
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

// NewClient builds a public spot market-data client. Kline endpoints need
// no credentials.
func NewClient(cfg config.Config, logger logger.Logger) *Client {
	c := gobinance.NewClient("", "")
	c.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	rateLimiter := ratelimit.NewUnlimited()
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.New(cfg.RateLimit.PerMinute, ratelimit.Per(1*time.Minute))
	}

	return &Client{
		c:           c,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (c *Client) Name() string {
	return string(config.Binance)
}

func (c *Client) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("non-positive limit %d", limit)
	}
	if limit > _maxLimit {
		limit = _maxLimit
	}

	c.rateLimiter.Take()
	klines, err := c.c.NewKlinesService().
		Symbol(toExchangeSymbol(symbol)).
		Interval(timeframe).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: can't get klines", err)
	}

	candles := make([]model.Candle, 0, len(klines))
	for i, k := range klines {
		if k == nil {
			continue
		}
		candle, err := model.CandleFromRaw([]interface{}{
			k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: kline %d", err, i)
		}
		candles = append(candles, candle)
	}

	c.logger.Debugf("fetched %d klines for %s %s", len(candles), symbol, timeframe)

	return candles, nil
}

// toExchangeSymbol maps "BTC/USDT" to Binance's "BTCUSDT" form.
func toExchangeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
