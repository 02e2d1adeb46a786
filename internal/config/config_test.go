package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RPC_URL", "https://fullnode.example.com")
	t.Setenv("PRIVATE_KEY", "0x"+strings.Repeat("11", 32))
	t.Setenv("PACKAGE_ID", "0xpackage")
	t.Setenv("ADMIN_CAP_ID", "0xadmincap")
	t.Setenv("PAUSE_FLAG_ID", "0xpauseflag")
}

func TestLoadUsesDefaultsWhenOptionalVarsUnset(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), cfg.MinProfitMist)
	assert.Equal(t, uint64(500), cfg.PollIntervalMs)
	assert.Equal(t, uint64(50_000_000), cfg.MaxGasBudget)
	assert.True(t, cfg.DryRunBeforeSubmit)
	assert.Equal(t, 5, cfg.CBMaxConsecutiveFailures)
	assert.Equal(t, int64(1_000_000_000), cfg.CBMaxCumulativeLossMist)
	assert.Equal(t, uint64(60_000), cfg.CBCooldownMs)
	assert.Equal(t, "127.0.0.1:9191", cfg.StatusAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.UseWebsocket)
	assert.Equal(t, "event", cfg.WSMode)
}

func TestLoadMissingRequiredVarFails(t *testing.T) {
	t.Setenv("RPC_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsPlaceholderPackageID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PACKAGE_ID", "0x0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesMonitoredPools(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONITORED_POOLS", "CLMM_A:0x1:0x2::sui::SUI:0xusdc::usdc::USDC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.MonitoredPools, 1)
	assert.Equal(t, "CLMM_A", cfg.MonitoredPools[0].Dex)
}

func TestPollIntervalConvertsMillisToDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL_MS", "750")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(750_000_000), cfg.PollInterval().Nanoseconds())
}
