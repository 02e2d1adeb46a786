// Package config loads bot configuration from environment variables, via
// godotenv for local .env files. Persisted state is explicitly out of
// scope, so there is no file-backed config beyond the optional .env
// loaded at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the bot's full runtime configuration, sourced entirely from
// the environment.
type Config struct {
	RPCURL     string
	PrivateKey string

	PackageID   string
	AdminCapID  string
	PauseFlagID string

	CLMMAGlobalConfig string
	CLMMBVersioned    string
	CLMMCVersioned    string

	AMMARegistry    string
	AMMAFeeVault    string
	AMMATreasury    string
	AMMAInsurance   string
	AMMAReferral    string
	AMMBContainer   string
	CLOBFeeCoinID   string

	MonitoredPools []PoolConfig

	MinProfitMist      uint64
	PollIntervalMs     uint64
	MaxGasBudget       uint64
	DryRunBeforeSubmit bool

	CBMaxConsecutiveFailures int
	CBMaxCumulativeLossMist  int64
	CBCooldownMs             uint64

	UseWebsocket    bool
	WSMode          string
	MinGasBalance   uint64
	VenuePackageIDs map[string]string

	StatusAddr string
	LogLevel   string
}

// Load reads and validates configuration from the process environment,
// loading a ".env" file first if one is present (ignored if absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	monitoredPools := parseMonitoredPools(os.Getenv("MONITORED_POOLS"))

	rpcURL, err := requiredEnv("RPC_URL")
	if err != nil {
		return nil, err
	}
	privateKey, err := requiredEnv("PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	packageID, err := requiredHexID("PACKAGE_ID")
	if err != nil {
		return nil, err
	}
	adminCapID, err := requiredHexID("ADMIN_CAP_ID")
	if err != nil {
		return nil, err
	}
	pauseFlagID, err := requiredHexID("PAUSE_FLAG_ID")
	if err != nil {
		return nil, err
	}

	minProfitMist, err := envUint64Or("MIN_PROFIT_MIST", 1_000_000)
	if err != nil {
		return nil, err
	}
	pollIntervalMs, err := envUint64Or("POLL_INTERVAL_MS", 500)
	if err != nil {
		return nil, err
	}
	maxGasBudget, err := envUint64Or("MAX_GAS_BUDGET", 50_000_000)
	if err != nil {
		return nil, err
	}
	cbMaxFailures, err := envIntOr("CB_MAX_CONSECUTIVE_FAILURES", 5)
	if err != nil {
		return nil, err
	}
	cbMaxLoss, err := envInt64Or("CB_MAX_CUMULATIVE_LOSS_MIST", 1_000_000_000)
	if err != nil {
		return nil, err
	}
	cbCooldownMs, err := envUint64Or("CB_COOLDOWN_MS", 60_000)
	if err != nil {
		return nil, err
	}
	minGasBalance, err := envUint64Or("MIN_GAS_BALANCE_MIST", 100_000_000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCURL:     rpcURL,
		PrivateKey: privateKey,

		PackageID:   packageID,
		AdminCapID:  adminCapID,
		PauseFlagID: pauseFlagID,

		CLMMAGlobalConfig: os.Getenv("CLMM_A_GLOBAL_CONFIG"),
		CLMMBVersioned:    os.Getenv("CLMM_B_VERSIONED"),
		CLMMCVersioned:    os.Getenv("CLMM_C_VERSIONED"),

		AMMARegistry:  os.Getenv("AMM_A_REGISTRY"),
		AMMAFeeVault:  os.Getenv("AMM_A_FEE_VAULT"),
		AMMATreasury:  os.Getenv("AMM_A_TREASURY"),
		AMMAInsurance: os.Getenv("AMM_A_INSURANCE"),
		AMMAReferral:  os.Getenv("AMM_A_REFERRAL"),
		AMMBContainer: os.Getenv("AMM_B_CONTAINER"),
		CLOBFeeCoinID: os.Getenv("CLOB_FEE_COIN_ID"),

		MonitoredPools: monitoredPools,

		MinProfitMist:      minProfitMist,
		PollIntervalMs:     pollIntervalMs,
		MaxGasBudget:       maxGasBudget,
		DryRunBeforeSubmit: envBoolOr("DRY_RUN_BEFORE_SUBMIT", true),

		CBMaxConsecutiveFailures: cbMaxFailures,
		CBMaxCumulativeLossMist:  cbMaxLoss,
		CBCooldownMs:             cbCooldownMs,

		UseWebsocket:    envBoolOr("USE_WEBSOCKET", false),
		WSMode:          envStringOr("WS_MODE", "event"),
		MinGasBalance:   minGasBalance,
		VenuePackageIDs: venuePackageIDs(),

		StatusAddr: envStringOr("STATUS_ADDR", "127.0.0.1:9191"),
		LogLevel:   envStringOr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// PollInterval is PollIntervalMs as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// CBCooldown is CBCooldownMs as a time.Duration.
func (c *Config) CBCooldown() time.Duration {
	return time.Duration(c.CBCooldownMs) * time.Millisecond
}

func requiredEnv(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("config: missing required environment variable %s", name)
	}
	return v, nil
}

// requiredHexID rejects placeholder values ("0x0", "0x...") in addition to
// emptiness.
func requiredHexID(name string) (string, error) {
	v, err := requiredEnv(name)
	if err != nil {
		return "", err
	}
	switch v {
	case "0x0", "0x...", "0x":
		return "", fmt.Errorf("config: %s is set to a placeholder value %q", name, v)
	}
	return v, nil
}

func envStringOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envUint64Or(name string, fallback uint64) (uint64, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", name, err)
	}
	return n, nil
}

func envInt64Or(name string, fallback int64) (int64, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", name, err)
	}
	return n, nil
}

func envIntOr(name string, fallback int) (int, error) {
	n, err := envInt64Or(name, int64(fallback))
	return int(n), err
}

// venuePackageIDs collects optional per-venue "<VENUE>_PACKAGE_ID" variables
// used for websocket event subscriptions.
func venuePackageIDs() map[string]string {
	out := make(map[string]string)
	for _, venue := range []string{"CLMM_A", "CLMM_B", "CLMM_C", "AMM_A", "AMM_B", "CLOB"} {
		if v := os.Getenv(venue + "_PACKAGE_ID"); v != "" {
			out[venue] = v
		}
	}
	return out
}

func logWarn(msg, detail string) {
	fmt.Fprintf(os.Stderr, "WARN: %s: %s\n", msg, detail)
}
