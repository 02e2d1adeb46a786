package parsers

import (
	"math"
	"strconv"

	"github.com/arbmove/bot/internal/poolstate"
)

// virtualReserveDepth is the synthetic reserve_a used to preserve AMM_A's
// price ratio without overflowing u64 on its 18-decimal fixed-point
// balances.
const virtualReserveDepth = 1_000_000_000

// parseAMMA handles the AMM_A (weighted/stable) venue shape:
//
//	fields.normalized_balances[0..2] are 18-decimal fixed-point strings
//	  that overflow u64; parsed as floats, only their ratio is kept.
//	fields.fees_swap_in[0] is an 18-decimal fixed-point string;
//	  bps = value / 1e18 * 10000.
func parseAMMA(content map[string]any, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	root, ok := fieldsOf(content)
	if !ok {
		return nil, &ParseError{Venue: "AMM_A", Reason: "missing root fields"}
	}

	state := baseState(meta, nowMs)

	if balances, ok := root.array("normalized_balances"); ok && len(balances) >= 2 {
		a, aOK := parseFixed18(balances[0])
		b, bOK := parseFixed18(balances[1])
		if aOK && bOK && a > 0 {
			reserveA := uint64(virtualReserveDepth)
			reserveB := uint64(math.Round(virtualReserveDepth * (b / a)))
			if reserveB < 1 {
				reserveB = 1
			}
			state.ReserveA = &reserveA
			state.ReserveB = &reserveB
		}
	}

	if fees, ok := root.array("fees_swap_in"); ok && len(fees) >= 1 {
		if raw, ok := parseFixed18(fees[0]); ok {
			bps := uint64(raw / 1e18 * 10000)
			state.FeeBps = &bps
		}
	}

	return state, nil
}

// parseFixed18 parses a JSON array element (expected to be a numeric
// string) as a float64, tolerating values too large for u64/u128.
func parseFixed18(v any) (float64, bool) {
	switch t := v.(type) {
	case string:
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return t, true
	default:
		return 0, false
	}
}
