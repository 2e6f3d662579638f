package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/candlefeed/candlefeed/internal/config"
	"github.com/candlefeed/candlefeed/internal/fetcher"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

type stubClient struct {
	candles []model.Candle
}

func (s *stubClient) Name() string {
	return "stub"
}

func (s *stubClient) FetchOHLCV(_ context.Context, _, _ string, _ int) ([]model.Candle, error) {
	return s.candles, nil
}

func newTestStream(candles []model.Candle, interval time.Duration) *CandleStream {
	f := fetcher.New(&stubClient{candles: candles}, config.Default(), logger.NewNopLogger())
	return NewCandleStream(f, interval, logger.NewNopLogger())
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return conn
}

func TestCandleStreamSendsInitialUpdate(t *testing.T) {
	candles := []model.Candle{
		{Timestamp: 1700000000000, Open: 50000.5, High: 50100, Low: 49900, Close: 50050, Volume: 10.25},
	}
	srv := httptest.NewServer(newTestStream(candles, time.Minute).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update PriceUpdate
	require.NoError(t, sonic.Unmarshal(msg, &update))
	require.Len(t, update.Candles, 1)
	require.Equal(t, int64(1700000000000), update.Candles[0].Timestamp)
}

func TestCandleStreamPushesOnInterval(t *testing.T) {
	srv := httptest.NewServer(newTestStream([]model.Candle{{Timestamp: 1}}, 20*time.Millisecond).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 3; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var update PriceUpdate
		require.NoError(t, sonic.Unmarshal(msg, &update))
		require.Len(t, update.Candles, 1)
	}
}

func TestCandleStreamRejectsPlainGET(t *testing.T) {
	srv := httptest.NewServer(newTestStream(nil, time.Minute).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEqual(t, 101, resp.StatusCode)
}
