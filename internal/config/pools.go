package config

import "strings"

// PoolConfig identifies one pool to monitor, sourced from a MONITORED_POOLS
// record.
type PoolConfig struct {
	Dex       string
	PoolID    string
	CoinTypeA string
	CoinTypeB string
}

// parseMonitoredPools parses the MONITORED_POOLS env var: comma-separated
// "dex:pool_id:coin_type_a:coin_type_b" records. Malformed records are
// skipped with a warning rather than failing startup, matching the
// teacher/original's tolerant-config posture.
//
// The naive approach of splitting the whole record on ":" breaks because
// Move coin types are themselves "::"-delimited ("0x2::sui::SUI"), so a
// fixed 4-way split either over- or under-counts fields. Instead: peel off
// dex and pool_id (which never contain "::") with a 3-way SplitN, leaving
// "coin_a:coin_b" as a single tail, then locate the single boundary inside
// that tail by searching for the literal substring ":0x" — the only place
// a second hex address can start, since Move module/struct segments are
// alphanumeric and never hex-prefixed.
func parseMonitoredPools(raw string) []PoolConfig {
	var out []PoolConfig
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pc, ok := parsePoolRecord(entry)
		if !ok {
			logWarn("skipping malformed MONITORED_POOLS entry", entry)
			continue
		}
		out = append(out, pc)
	}
	return out
}

func parsePoolRecord(entry string) (PoolConfig, bool) {
	parts := strings.SplitN(entry, ":", 3)
	if len(parts) != 3 {
		return PoolConfig{}, false
	}
	dex, poolID, tail := parts[0], parts[1], parts[2]

	boundary := strings.Index(tail, ":0x")
	if boundary < 0 {
		return PoolConfig{}, false
	}
	coinA := tail[:boundary]
	coinB := tail[boundary+1:]
	if dex == "" || poolID == "" || coinA == "" || coinB == "" {
		return PoolConfig{}, false
	}

	return PoolConfig{Dex: dex, PoolID: poolID, CoinTypeA: coinA, CoinTypeB: coinB}, true
}
