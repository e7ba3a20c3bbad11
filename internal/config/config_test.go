package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "http_server:\n  port: \"9000\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.HTTPServer.Port)
	require.Equal(t, "50061", cfg.GRPCServer.Port)
	require.Equal(t, "commission-events", cfg.KafkaService.Topic)
	require.Equal(t, DefaultSettlement(), cfg.Settlement)
}

func TestLoadSettlementOverrides(t *testing.T) {
	path := writeConfig(t, `
settlement:
  exchange_rate: 7.2
  alternate_currency_methods: [alipay, wechat]
  default_primary_rate: 0.5
  timezone_offset_hours: 3
  expiry_sweep_interval: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	s := cfg.Settlement
	require.Equal(t, 7.2, s.ExchangeRate)
	require.Equal(t, []string{"alipay", "wechat"}, s.AlternateCurrencyMethods)
	require.True(t, s.PrimaryRate().Equal(decimal.RequireFromString("0.5")))
	require.True(t, s.SecondaryRate().Equal(decimal.RequireFromString("0.25")))
	require.Equal(t, 30*time.Second, s.ExpirySweepInterval)
	require.Equal(t, time.Hour, s.ReminderScanInterval)

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(s.Location()).Zone()
	require.Equal(t, 3*3600, offset)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "local.yaml"))
	require.NoError(t, err)
	require.Equal(t, "console", cfg.LogConfig.LogFormat)
	require.Equal(t, "localhost", cfg.KafkaService.Host)
}
