package fetcher

import (
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/exchange"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

const (
	ExitOK   = 0
	ExitFail = 1
)

// Envelope is the single-object error payload written to stderr.
type Envelope struct {
	Error string `json:"error"`
}

// Result is the outcome of one fetch: either a candle window or a
// terminal error, never both.
type Result struct {
	Candles []model.Candle
	Err     error
}

type Fetcher struct {
	client exchange.Client
	cfg    config.Config

	logger logger.Logger
}

func New(client exchange.Client, cfg config.Config, logger logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch performs the one blocking candle request. Every failure collapses
// into Result.Err; there are no retries and no partial results.
func (f *Fetcher) Fetch(ctx context.Context) Result {
	candles, err := f.client.FetchOHLCV(ctx, f.cfg.Symbol, f.cfg.Timeframe, f.cfg.Limit)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: can't fetch ohlcv from %s", err, f.client.Name())}
	}
	if candles == nil {
		candles = []model.Candle{}
	}

	f.logger.Infof("fetched %d candles for %s %s from %s",
		len(candles), f.cfg.Symbol, f.cfg.Timeframe, f.client.Name())

	return Result{Candles: candles}
}

// Write serializes the result: the candle array to stdout on success, the
// error envelope to stderr on failure. Exactly one stream is written.
// Returns the process exit code.
func (r Result) Write(stdout, stderr io.Writer) int {
	if r.Err != nil {
		out, err := sonic.Marshal(Envelope{Error: r.Err.Error()})
		if err != nil {
			// fall back to a minimal hand-built envelope
			out = []byte(`{"error":"can't marshal error envelope"}`)
		}
		fmt.Fprintln(stderr, string(out))
		return ExitFail
	}

	candles := r.Candles
	if candles == nil {
		candles = []model.Candle{}
	}

	out, err := sonic.Marshal(candles)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: can't marshal candles", err)}.Write(stdout, stderr)
	}
	fmt.Fprintln(stdout, string(out))

	return ExitOK
}

// Run is the whole one-shot contract: fetch once, write once, exit code.
func (f *Fetcher) Run(ctx context.Context, stdout, stderr io.Writer) int {
	return f.Fetch(ctx).Write(stdout, stderr)
}
