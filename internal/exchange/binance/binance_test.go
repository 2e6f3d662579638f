package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/logger"
)

func TestFetchOHLCV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/klines", r.URL.Path)
		require.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		require.Equal(t, "1m", r.URL.Query().Get("interval"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1700000000000,"50000.5","50100","49900","50050","10.25",1700000059999,"512000",100,"5","256000","0"],
			[1700000060000,"50050","50200","50000","50150","7.5",1700000119999,"376000",80,"4","188000","0"]
		]`))
	}))
	defer srv.Close()

	c := NewClient(config.Default(), logger.NewNopLogger())
	c.c.BaseURL = srv.URL

	candles, err := c.FetchOHLCV(context.Background(), "BTC/USDT", "1m", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	require.Equal(t, int64(1700000000000), candles[0].Timestamp)
	require.Equal(t, 50000.5, candles[0].Open)
	require.Equal(t, 10.25, candles[0].Volume)
	require.Equal(t, int64(1700000060000), candles[1].Timestamp)
}

func TestFetchOHLCVUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	c := NewClient(config.Default(), logger.NewNopLogger())
	c.c.BaseURL = srv.URL

	_, err := c.FetchOHLCV(context.Background(), "NOPE/NOPE", "1m", 2)
	require.Error(t, err)
}

func TestToExchangeSymbol(t *testing.T) {
	require.Equal(t, "BTCUSDT", toExchangeSymbol("BTC/USDT"))
	require.Equal(t, "ETHUSDT", toExchangeSymbol("ethusdt"))
}
