package parsers

import "github.com/arbmove/bot/internal/poolstate"

// parseCLMMC handles the CLMM_C venue shape:
//
//	fields.sqrt_price (u128 string)
//	fields.liquidity (u128 string)
//	fields.tick_index.fields.bits (u32, two's-complement)
//	fields.swap_fee_rate (u64, 1e6 units; bps = value/100)
func parseCLMMC(content map[string]any, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	root, ok := fieldsOf(content)
	if !ok {
		return nil, &ParseError{Venue: "CLMM_C", Reason: "missing root fields"}
	}

	state := baseState(meta, nowMs)

	if sqrtPrice, ok := root.u128("sqrt_price"); ok {
		state.SqrtPrice = sqrtPrice
	}
	if liquidity, ok := root.u128("liquidity"); ok {
		state.Liquidity = liquidity
	}
	if tickObj, ok := root.nested("tick_index"); ok {
		if tickFields, ok := fieldsOf(tickObj); ok {
			if bits, ok := tickFields.u64("bits"); ok {
				tick := tickBitsToInt32(bits)
				state.TickIndex = &tick
			}
		}
	}
	if feeRate, ok := root.u64("swap_fee_rate"); ok {
		bps := feeRate / 100
		state.FeeBps = &bps
	}

	return state, nil
}
