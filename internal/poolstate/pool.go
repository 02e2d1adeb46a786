// Package poolstate holds the normalized on-chain pool representation
// shared by the collector, scanner and optimizer.
package poolstate

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// Venue is the closed tag set of supported DEX venue kinds.
type Venue string

const (
	VenueCLMMA Venue = "CLMM_A"
	VenueCLMMB Venue = "CLMM_B"
	VenueCLMMC Venue = "CLMM_C"
	VenueAMMA  Venue = "AMM_A"
	VenueAMMB  Venue = "AMM_B"
	VenueCLOB  Venue = "CLOB"
)

// String renders a venue with its display name.
func (v Venue) String() string {
	switch v {
	case VenueAMMB:
		return "AMM B"
	default:
		return string(v)
	}
}

// IsCLMM reports whether v is one of the three concentrated-liquidity venues.
func (v Venue) IsCLMM() bool {
	return v == VenueCLMMA || v == VenueCLMMB || v == VenueCLMMC
}

// IsAMM reports whether v is a reserve-pair venue (constant-product or weighted).
func (v Venue) IsAMM() bool {
	return v == VenueAMMA || v == VenueAMMB
}

// SupportsFlashSwap reports whether v's swap primitive permits an atomic
// borrow-swap-settle pattern. Per the resolved venue->strategy Open
// Question, the weighted AMM (AMM_A) never acts as a flash source, and
// AMM_B (constant-product AMM) has no on-chain flash primitive either.
func (v Venue) SupportsFlashSwap() bool {
	switch v {
	case VenueCLMMA, VenueCLMMB, VenueCLMMC, VenueCLOB:
		return true
	default:
		return false
	}
}

// MinCLMMLiquidity is the dust-pool filter threshold below which a CLMM
// pool is excluded from scanning rather than risk dividing by near-zero
// liquidity.
const MinCLMMLiquidity uint64 = 10_000_000

// PoolState is the normalized record produced by a parser (internal/poolstate/parsers)
// and consumed by the scanner/optimizer. Created at first successful parse,
// replaced wholesale on every update, never mutated in place.
type PoolState struct {
	ObjectID string
	Venue    Venue
	CoinA    string
	CoinB    string

	SqrtPrice *uint256.Int // Q64.64, CLMM only
	TickIndex *int32       // CLMM only
	Liquidity *uint256.Int // CLMM only

	FeeBps *uint64 // optional

	ReserveA *uint64 // AMM; informational for CLOB
	ReserveB *uint64

	BestBid *float64 // CLOB only
	BestAsk *float64 // CLOB only

	LastUpdatedMs uint64

	// FeeType is a venue-specific extra Move type parameter (CLMM_B fee-tier
	// phantom type), empty when not applicable.
	FeeType string
}

// StalenessMs is now_ms - LastUpdatedMs, saturating at zero.
func (p *PoolState) StalenessMs(nowMs uint64) uint64 {
	if nowMs <= p.LastUpdatedMs {
		return 0
	}
	return nowMs - p.LastUpdatedMs
}

// SamePair reports whether p and other share the same unordered coin pair.
func (p *PoolState) SamePair(other *PoolState) bool {
	return (p.CoinA == other.CoinA && p.CoinB == other.CoinB) ||
		(p.CoinA == other.CoinB && p.CoinB == other.CoinA)
}

// PriceAInB returns the price of one unit of CoinA denominated in CoinB, or
// false when the pool does not carry enough data to price.
func (p *PoolState) PriceAInB() (float64, bool) {
	switch {
	case p.Venue.IsCLMM():
		if p.SqrtPrice == nil || p.Liquidity == nil {
			return 0, false
		}
		if p.Liquidity.Cmp(uint256.NewInt(MinCLMMLiquidity)) < 0 {
			return 0, false
		}
		sp := new(big.Float).SetInt(p.SqrtPrice.ToBig())
		denom := new(big.Float).SetFloat64(math.Pow(2, 64))
		ratio := new(big.Float).Quo(sp, denom)
		price, _ := new(big.Float).Mul(ratio, ratio).Float64()
		return price, true

	case p.Venue.IsAMM():
		if p.ReserveA == nil || p.ReserveB == nil || *p.ReserveA == 0 {
			return 0, false
		}
		return float64(*p.ReserveB) / float64(*p.ReserveA), true

	case p.Venue == VenueCLOB:
		// Vault reserves must NEVER be used to price a CLOB pool, regardless
		// of whether ReserveA/ReserveB happen to be populated: only the
		// order book's best bid/ask reflects a tradeable price.
		switch {
		case p.BestBid != nil && p.BestAsk != nil:
			return (*p.BestBid + *p.BestAsk) / 2, true
		case p.BestBid != nil:
			return *p.BestBid, true
		case p.BestAsk != nil:
			return *p.BestAsk, true
		default:
			return 0, false
		}

	default:
		return 0, false
	}
}
