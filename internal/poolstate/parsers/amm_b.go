package parsers

import "github.com/arbmove/bot/internal/poolstate"

// parseAMMB handles the AMM_B (constant-product) venue shape:
//
//	fields.reserve_x, fields.reserve_y (u64)
//	fields.fee_rate (raw bps, no division)
//
// May arrive wrapped in a dynamic-field envelope
// {fields:{name, value:{fields:{...}}}}; unwrap to the inner fields first.
func parseAMMB(content map[string]any, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	root, ok := fieldsOf(content)
	if !ok {
		return nil, &ParseError{Venue: "AMM_B", Reason: "missing root fields"}
	}

	root = unwrapDynamicFieldEnvelope(root)

	state := baseState(meta, nowMs)

	if reserveX, ok := root.u64("reserve_x"); ok {
		state.ReserveA = &reserveX
	}
	if reserveY, ok := root.u64("reserve_y"); ok {
		state.ReserveB = &reserveY
	}
	if feeRate, ok := root.u64("fee_rate"); ok {
		state.FeeBps = &feeRate
	}

	return state, nil
}

// unwrapDynamicFieldEnvelope detects and strips the
// {name, value:{fields:{...}}} dynamic-field wrapper some AMM_B pool
// revisions are stored behind. If root has no "value" sub-field, it is
// returned unchanged.
func unwrapDynamicFieldEnvelope(root tree) tree {
	value, ok := root.nested("value")
	if !ok {
		return root
	}
	inner, ok := fieldsOf(value)
	if !ok {
		return root
	}
	return inner
}
