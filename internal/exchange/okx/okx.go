package okx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

const (
	_baseURL    = "https://www.okx.com"
	_candlesURL = "/api/v5/market/candles"

	// OKX caps the candles endpoint at 300 rows per request.
	_maxLimit = 300
)

type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

type Client struct {
	c           *resty.Client
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

func NewClient(cfg config.Config, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(_baseURL).
		SetTimeout(cfg.HTTPTimeout)

	rateLimiter := ratelimit.NewUnlimited()
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.New(cfg.RateLimit.PerMinute, ratelimit.Per(1*time.Minute))
	}

	return &Client{
		c:           client,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (c *Client) Name() string {
	return string(config.OKX)
}

func (c *Client) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]model.Candle, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("non-positive limit %d", limit)
	}
	if limit > _maxLimit {
		limit = _maxLimit
	}

	c.rateLimiter.Take()

	req := c.c.R().
		SetQueryParams(map[string]string{
			"instId": toInstID(symbol),
			"bar":    timeframe,
			"limit":  strconv.Itoa(limit),
		}).
		SetResult(&candlesResponse{}).
		SetContext(ctx)

	resp, err := req.Get(_candlesURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send candles request", err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("candles request failed with status %s", resp.Status())
	}

	response := resp.Result().(*candlesResponse)
	if response.Code != "0" {
		return nil, fmt.Errorf("okx api error %s: %s", response.Code, response.Msg)
	}

	return parseCandles(response.Data)
}

// parseCandles converts OKX rows [ts, o, h, l, c, vol, ...] into Candle
// values. OKX returns newest first, so the result is reversed to
// chronological order.
func parseCandles(rows [][]string) ([]model.Candle, error) {
	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("candle %d has %d fields, want at least 6", i, len(row))
		}
		raw := make([]interface{}, 6)
		for j := 0; j < 6; j++ {
			raw[j] = row[j]
		}
		candle, err := model.CandleFromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: candle %d", err, i)
		}
		candles = append(candles, candle)
	}

	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}

	return candles, nil
}

// toInstID maps "BTC/USDT" to OKX's "BTC-USDT" form.
func toInstID(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", "-"))
}
