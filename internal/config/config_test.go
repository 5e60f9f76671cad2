package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
forwarder:
  backend_url: http://faucet.internal:3001
prices:
  warm_on_boot: true
tokens:
  - symbol: OSMO
    denom: uosmo
    coingecko_id: osmosis
    decimals: 6
  - symbol: ATOM
    denom: uatom
    coingecko_id: cosmos
    decimals: 6
storage:
  path: gateway.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"BACKEND_URL", "COINGECKO_API_KEY", "VITE_COINGECKO_API_KEY", "LOG_LEVEL", "GATEWAY_PORT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://faucet.internal:3001", cfg.Forwarder.BackendURL)
	assert.Equal(t, DefaultBackendURL, cfg.Forwarder.ClaimBackendURL)
	assert.Equal(t, 10000, cfg.Prices.TimeoutMs)
	assert.True(t, cfg.Prices.WarmOnBoot)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gateway.db", cfg.Storage.Path)

	require.Len(t, cfg.Tokens, 2)
	assert.Equal(t, "osmosis", cfg.Tokens[0].CoingeckoID)
	assert.Equal(t, 6, cfg.Tokens[1].Decimals)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "http://claims.internal:4000")
	t.Setenv("COINGECKO_API_KEY", "cg-key")
	t.Setenv("GATEWAY_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://claims.internal:4000", cfg.Forwarder.ClaimBackendURL)
	assert.Equal(t, "http://faucet.internal:3001", cfg.Forwarder.BackendURL)
	assert.Equal(t, "cg-key", cfg.Prices.APIKey)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_FrontendAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_COINGECKO_API_KEY", "vite-key")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "vite-key", cfg.Prices.APIKey)

	t.Setenv("COINGECKO_API_KEY", "cg-key")
	cfg, err = Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "cg-key", cfg.Prices.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "tokens: [unclosed"))
	assert.Error(t, err)

	t.Setenv("GATEWAY_PORT", "eighty")
	_, err = Load(writeConfig(t, sampleConfig))
	assert.ErrorContains(t, err, "GATEWAY_PORT")
}
