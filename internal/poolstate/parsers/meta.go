package parsers

import "github.com/arbmove/bot/internal/poolstate"

// Meta is the pool metadata supplied by configuration, combined with the
// on-chain content tree to produce a poolstate.PoolState.
type Meta struct {
	ObjectID string
	Venue    poolstate.Venue
	CoinA    string
	CoinB    string
}

func baseState(meta Meta, nowMs uint64) *poolstate.PoolState {
	return &poolstate.PoolState{
		ObjectID:      meta.ObjectID,
		Venue:         meta.Venue,
		CoinA:         meta.CoinA,
		CoinB:         meta.CoinB,
		LastUpdatedMs: nowMs,
	}
}
