package parsers

import "github.com/arbmove/bot/internal/poolstate"

// parseCLOB handles the CLOB venue shape:
//
//	fields.base_vault.fields.{balance|value} (u64, try both names)
//	fields.quote_vault.fields.{balance|value} (u64, try both names)
//	fields.taker_fee (raw bps)
//
// Vault reserves are informational only and are never used by PriceAInB to
// price the pool; this parser still records them for observability.
func parseCLOB(content map[string]any, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	root, ok := fieldsOf(content)
	if !ok {
		return nil, &ParseError{Venue: "CLOB", Reason: "missing root fields"}
	}

	state := baseState(meta, nowMs)

	if base, ok := vaultBalance(root, "base_vault"); ok {
		state.ReserveA = &base
	}
	if quote, ok := vaultBalance(root, "quote_vault"); ok {
		state.ReserveB = &quote
	}
	if takerFee, ok := root.u64("taker_fee"); ok {
		state.FeeBps = &takerFee
	}

	return state, nil
}

// vaultBalance reads a {balance|value} field out of root[vaultName].fields,
// trying both possible field names since different CLOB pool revisions use
// either one.
func vaultBalance(root tree, vaultName string) (uint64, bool) {
	vault, ok := root.nested(vaultName)
	if !ok {
		return 0, false
	}
	vaultFields, ok := fieldsOf(vault)
	if !ok {
		return 0, false
	}
	if v, ok := vaultFields.u64("balance"); ok {
		return v, true
	}
	if v, ok := vaultFields.u64("value"); ok {
		return v, true
	}
	return 0, false
}
