package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/candlefeed/candlefeed/internal/fetcher"
	"github.com/candlefeed/candlefeed/internal/logger"
	"github.com/candlefeed/candlefeed/internal/model"
)

const _writeTimeout = 10 * time.Second

// PriceUpdate is the payload pushed to every connected client.
type PriceUpdate struct {
	Candles []model.Candle `json:"candles"`
}

// CandleStream serves GET /ws, pushing a fresh candle window on connect
// and again on every tick. A failed fetch is logged and skipped; the
// connection stays open.
type CandleStream struct {
	fetcher  *fetcher.Fetcher
	interval time.Duration
	upgrader websocket.Upgrader

	logger logger.Logger
}

func NewCandleStream(f *fetcher.Fetcher, interval time.Duration, logger logger.Logger) *CandleStream {
	return &CandleStream{
		fetcher:  f,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (s *CandleStream) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *CandleStream) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("%s: can't upgrade connection", err)
		return
	}
	defer conn.Close()

	s.logger.Infof("client connected: %s", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// read pump: only there to notice the peer going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.push(ctx, conn); err != nil {
		s.logger.Warnf("%s: can't push initial update to %s", err, conn.RemoteAddr())
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("client disconnected: %s", conn.RemoteAddr())
			return
		case <-ticker.C:
			if err := s.push(ctx, conn); err != nil {
				s.logger.Warnf("%s: can't push update to %s", err, conn.RemoteAddr())
				return
			}
		}
	}
}

func (s *CandleStream) push(ctx context.Context, conn *websocket.Conn) error {
	result := s.fetcher.Fetch(ctx)
	if result.Err != nil {
		// keep the connection: the next tick may succeed
		s.logger.Errorf("%s: fetch failed, skipping update", result.Err)
		return nil
	}

	payload, err := sonic.Marshal(PriceUpdate{Candles: result.Candles})
	if err != nil {
		s.logger.Errorf("%s: can't marshal update", err)
		return nil
	}

	if err := conn.SetWriteDeadline(time.Now().Add(_writeTimeout)); err != nil {
		return err
	}

	return conn.WriteMessage(websocket.TextMessage, payload)
}
