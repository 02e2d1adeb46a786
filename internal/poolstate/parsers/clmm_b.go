package parsers

import (
	"strings"

	"github.com/arbmove/bot/internal/poolstate"
)

// parseCLMMB handles the CLMM_B venue shape:
//
//	fields.sqrt_price (u128 string)
//	fields.liquidity (u128 string)
//	fields.tick_current_index.fields.bits (u32, two's-complement)
//	fields.fee (u64, 1e6 units; bps = value/100)
//
// The object's Move type string carries a third type parameter (the
// fee-tier phantom type); FeeType is extracted from typeString, not from
// the content tree.
func parseCLMMB(content map[string]any, typeString string, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	root, ok := fieldsOf(content)
	if !ok {
		return nil, &ParseError{Venue: "CLMM_B", Reason: "missing root fields"}
	}

	state := baseState(meta, nowMs)

	if sqrtPrice, ok := root.u128("sqrt_price"); ok {
		state.SqrtPrice = sqrtPrice
	}
	if liquidity, ok := root.u128("liquidity"); ok {
		state.Liquidity = liquidity
	}
	if tickObj, ok := root.nested("tick_current_index"); ok {
		if tickFields, ok := fieldsOf(tickObj); ok {
			if bits, ok := tickFields.u64("bits"); ok {
				tick := tickBitsToInt32(bits)
				state.TickIndex = &tick
			}
		}
	}
	if fee, ok := root.u64("fee"); ok {
		bps := fee / 100
		state.FeeBps = &bps
	}
	state.FeeType = extractFeeTypeParam(typeString)

	return state, nil
}

// extractFeeTypeParam pulls the third type argument out of a Move type
// string's outermost angle-bracket type-parameter list, e.g.
// "0x2::pool::Pool<0x2::sui::SUI, 0x5::coin::USDC, 0x2::pool::FeeTier3000>"
// -> "0x2::pool::FeeTier3000". Returns "" if the type string doesn't carry
// at least three comma-separated parameters.
func extractFeeTypeParam(typeString string) string {
	open := strings.Index(typeString, "<")
	close := strings.LastIndex(typeString, ">")
	if open == -1 || close == -1 || close <= open {
		return ""
	}
	inner := typeString[open+1 : close]
	parts := strings.Split(inner, ", ")
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}
