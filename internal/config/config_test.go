package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, Binance, cfg.Exchange)
	require.Equal(t, "BTC/USDT", cfg.Symbol)
	require.Equal(t, "1m", cfg.Timeframe)
	require.Equal(t, 100, cfg.Limit)
	require.Equal(t, Spot, cfg.MarketType)
	require.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("exchange: okx\nsymbol: ETH/USDT\nlimit: 50\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, OKX, cfg.Exchange)
	require.Equal(t, "ETH/USDT", cfg.Symbol)
	require.Equal(t, 50, cfg.Limit)
	// untouched fields still get defaults
	require.Equal(t, "1m", cfg.Timeframe)
}

func TestValidateRejectsUnknownExchange(t *testing.T) {
	cfg := Config{Exchange: "kraken"}
	require.Error(t, cfg.ValidateAndSetup())
}

func TestValidateRejectsFutures(t *testing.T) {
	cfg := Config{MarketType: "futures"}
	require.Error(t, cfg.ValidateAndSetup())
}
