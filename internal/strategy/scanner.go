package strategy

import (
	"sort"

	"github.com/google/uuid"

	"github.com/arbmove/bot/internal/poolstate"
)

// Scanner answers: given a snapshot of pool states, which two-hop and
// tri-hop arbitrage cycles are worth pursuing right now.
type Scanner struct {
	// MinProfitMist is the rough-estimate profit floor below which an
	// opportunity is never even emitted for optimization.
	MinProfitMist uint64
	// MaxStalenessMs excludes pools last updated further than this in the past.
	MaxStalenessMs uint64
}

// NewScanner builds a Scanner with a default 5s staleness window.
func NewScanner(minProfitMist uint64) *Scanner {
	return &Scanner{MinProfitMist: minProfitMist, MaxStalenessMs: 5_000}
}

// Scan runs both detectors and merges their output, sorted descending by
// expected profit (step 6 of the execution loop).
func (s *Scanner) Scan(pools []*poolstate.PoolState, nowMs uint64) []poolstate.ArbOpportunity {
	out := append(s.ScanTwoHop(pools, nowMs), s.ScanTriHop(pools, nowMs)...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedProfit > out[j].ExpectedProfit
	})
	return out
}

const (
	twoHopEstAmountMist = 1_000_000_000
	twoHopCaptureFactor = 0.5
	twoHopEstGasMist    = 5_000_000
	twoHopSpreadFloor   = 0.001
	twoHopSpreadCeil    = 0.5

	triHopEstAmountMist = 5_000_000_000
	triHopCaptureFactor = 0.15
	triHopEstGasMist    = 6_000_000
	triHopEpsilon       = 0.01
	triHopCrossRateCeil = 1.5
)

// ScanTwoHop enumerates unordered pairs of fresh, same-pair pools and emits
// an opportunity for every pair whose normalized price spread exceeds
// twoHopSpreadFloor and resolves to a known venue dispatch.
func (s *Scanner) ScanTwoHop(pools []*poolstate.PoolState, nowMs uint64) []poolstate.ArbOpportunity {
	var out []poolstate.ArbOpportunity

	for i := 0; i < len(pools); i++ {
		for j := i + 1; j < len(pools); j++ {
			pa, pb := pools[i], pools[j]

			if pa.StalenessMs(nowMs) > s.MaxStalenessMs || pb.StalenessMs(nowMs) > s.MaxStalenessMs {
				continue
			}
			if !pa.SamePair(pb) {
				continue
			}

			opp, ok := s.evaluateTwoHopPair(pa, pb, nowMs)
			if ok {
				out = append(out, opp)
			}
		}
	}

	return out
}

func (s *Scanner) evaluateTwoHopPair(pa, pb *poolstate.PoolState, nowMs uint64) (poolstate.ArbOpportunity, bool) {
	rawA, okA := pa.PriceAInB()
	rawB, okB := pb.PriceAInB()
	if !okA || !okB {
		return poolstate.ArbOpportunity{}, false
	}

	normA := poolstate.NormalizePrice(rawA, pa.CoinA, pa.CoinB)
	normB := poolstate.NormalizePrice(rawB, pb.CoinA, pb.CoinB)
	if pa.CoinA != pb.CoinA {
		// pb's A/B ordering is reversed relative to pa's.
		if normB == 0 {
			return poolstate.ArbOpportunity{}, false
		}
		normB = 1 / normB
	}

	lo, hi := normA, normB
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo <= 0 {
		return poolstate.ArbOpportunity{}, false
	}
	spread := (hi - lo) / lo
	if spread > twoHopSpreadCeil {
		return poolstate.ArbOpportunity{}, false // normalization bug guard
	}
	if spread <= twoHopSpreadFloor {
		return poolstate.ArbOpportunity{}, false
	}

	flashPool, sellPool := pb, pa
	if normA < normB {
		flashPool, sellPool = pa, pb
	}

	if !flashPool.Venue.SupportsFlashSwap() {
		return poolstate.ArbOpportunity{}, false
	}
	strategyID, ok := resolveTwoHopStrategy(flashPool.Venue, sellPool.Venue)
	if !ok {
		return poolstate.ArbOpportunity{}, false
	}

	estProfit := uint64(float64(twoHopEstAmountMist) * spread * twoHopCaptureFactor)
	if estProfit <= s.MinProfitMist {
		return poolstate.ArbOpportunity{}, false
	}

	typeArgs := []string{flashPool.CoinA, flashPool.CoinB}
	if flashPool.Venue == poolstate.VenueCLMMB {
		typeArgs = append(typeArgs, flashPool.FeeType)
	}
	if sellPool.Venue == poolstate.VenueCLMMB {
		typeArgs = append(typeArgs, sellPool.FeeType)
	}

	return poolstate.ArbOpportunity{
		StrategyID:     strategyID,
		AmountIn:       twoHopEstAmountMist,
		ExpectedProfit: estProfit,
		EstimatedGas:   twoHopEstGasMist,
		NetProfit:      int64(estProfit) - twoHopEstGasMist,
		PoolIDs:        []string{flashPool.ObjectID, sellPool.ObjectID},
		TypeArgs:       typeArgs,
		DetectedAtMs:   nowMs,
		TraceID:        uuid.New(),
	}, true
}

// resolveTwoHopStrategy maps a (flash_venue, sell_venue) pair to the closed
// strategy table. Pairs absent from this table (including any pairing
// whose flash leg lacks a flash-borrow primitive) are skipped.
func resolveTwoHopStrategy(flash, sell poolstate.Venue) (poolstate.StrategyID, bool) {
	key := [2]poolstate.Venue{flash, sell}
	id, ok := twoHopTable[key]
	return id, ok
}

var twoHopTable = map[[2]poolstate.Venue]poolstate.StrategyID{
	{poolstate.VenueCLMMA, poolstate.VenueCLMMB}: poolstate.StratCLMMAToCLMMB,
	{poolstate.VenueCLMMB, poolstate.VenueCLMMA}: poolstate.StratCLMMBToCLMMA,
	{poolstate.VenueCLMMA, poolstate.VenueCLOB}:  poolstate.StratCLMMAToCLOB,
	{poolstate.VenueCLOB, poolstate.VenueCLMMA}:  poolstate.StratCLOBToCLMMA,
	{poolstate.VenueCLMMB, poolstate.VenueCLOB}:  poolstate.StratCLMMBToCLOB,
	{poolstate.VenueCLOB, poolstate.VenueCLMMB}:  poolstate.StratCLOBToCLMMB,
	{poolstate.VenueCLMMA, poolstate.VenueAMMA}:  poolstate.StratCLMMAToAMMA,
	{poolstate.VenueCLMMB, poolstate.VenueAMMA}:  poolstate.StratCLMMBToAMMA,
	{poolstate.VenueCLOB, poolstate.VenueAMMA}:   poolstate.StratCLOBToAMMA,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMC}: poolstate.StratCLMMAToCLMMC,
	{poolstate.VenueCLMMC, poolstate.VenueCLMMA}: poolstate.StratCLMMCToCLMMA,
	{poolstate.VenueCLMMB, poolstate.VenueCLMMC}: poolstate.StratCLMMBToCLMMC,
	{poolstate.VenueCLMMC, poolstate.VenueCLMMB}: poolstate.StratCLMMCToCLMMB,
	{poolstate.VenueCLOB, poolstate.VenueCLMMC}:  poolstate.StratCLOBToCLMMC,
	{poolstate.VenueCLMMC, poolstate.VenueCLOB}:  poolstate.StratCLMMCToCLOB,
	{poolstate.VenueCLMMA, poolstate.VenueAMMB}:  poolstate.StratCLMMAToAMMB,
	{poolstate.VenueCLMMB, poolstate.VenueAMMB}:  poolstate.StratCLMMBToAMMB,
	{poolstate.VenueCLOB, poolstate.VenueAMMB}:   poolstate.StratCLOBToAMMB,
}

// triHopTable maps an ordered (venue1, venue2, venue3) triple to the tri-hop
// strategy it invokes. There is no surviving on-disk tri-hop implementation
// to port; this table and ScanTriHop are built directly from the triangular
// detection algorithm, applying the stricter 1.0%/0.15 edge/capture policy.
var triHopTable = map[[3]poolstate.Venue]poolstate.StrategyID{
	{poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMA}: poolstate.StratTriAAA,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMB}: poolstate.StratTriAAB,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMB, poolstate.VenueCLOB}:  poolstate.StratTriABC,
	{poolstate.VenueCLMMA, poolstate.VenueCLOB, poolstate.VenueCLMMB}:  poolstate.StratTriACB,
	{poolstate.VenueCLOB, poolstate.VenueCLMMA, poolstate.VenueCLMMB}:  poolstate.StratTriCAB,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueAMMA}:  poolstate.StratTriAAW,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMB, poolstate.VenueAMMA}:  poolstate.StratTriABW,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMC}: poolstate.StratTriAAC,
	{poolstate.VenueCLMMA, poolstate.VenueCLMMC, poolstate.VenueCLMMB}: poolstate.StratTriABc,
	{poolstate.VenueCLMMC, poolstate.VenueCLMMA, poolstate.VenueCLMMB}: poolstate.StratTriCAc,
}

// ScanTriHop enumerates ordered triples of fresh pools forming an
// A->B->C->A cycle across three distinct pools.
func (s *Scanner) ScanTriHop(pools []*poolstate.PoolState, nowMs uint64) []poolstate.ArbOpportunity {
	fresh := make([]*poolstate.PoolState, 0, len(pools))
	for _, p := range pools {
		if p.StalenessMs(nowMs) <= s.MaxStalenessMs {
			fresh = append(fresh, p)
		}
	}

	var out []poolstate.ArbOpportunity
	seen := make(map[string]bool)

	for i, p1 := range fresh {
		for j, p2 := range fresh {
			if j == i {
				continue
			}
			// p1 must be callable as A->B feeding directly into p2's A side.
			if p1.CoinB != p2.CoinA {
				continue
			}
			for k, p3 := range fresh {
				if k == i || k == j {
					continue
				}

				a, c := p1.CoinA, p2.CoinB
				forward := p2.CoinB == p3.CoinA && p3.CoinB == p1.CoinA
				reversed := p3.CoinA == p1.CoinA && p3.CoinB == p2.CoinB
				if !forward && !reversed {
					continue
				}

				dedupeKey := sortedTriple(p1.ObjectID, p2.ObjectID, p3.ObjectID)
				if seen[dedupeKey] {
					continue
				}

				opp, ok := s.evaluateTriHopCandidate(p1, p2, p3, a, c, forward, nowMs)
				if !ok {
					continue
				}
				seen[dedupeKey] = true
				out = append(out, opp)
			}
		}
	}

	return out
}

func (s *Scanner) evaluateTriHopCandidate(p1, p2, p3 *poolstate.PoolState, a, c string, forward bool, nowMs uint64) (poolstate.ArbOpportunity, bool) {
	strategyID, ok := resolveTriHopStrategy(p1.Venue, p2.Venue, p3.Venue)
	if !ok {
		return poolstate.ArbOpportunity{}, false
	}
	if !p1.Venue.SupportsFlashSwap() {
		return poolstate.ArbOpportunity{}, false
	}

	pab, ok := directedPrice(p1, p1.CoinA, p1.CoinB)
	if !ok {
		return poolstate.ArbOpportunity{}, false
	}
	pbc, ok := directedPrice(p2, p2.CoinA, p2.CoinB)
	if !ok {
		return poolstate.ArbOpportunity{}, false
	}

	var pca float64
	if forward {
		pca, ok = directedPrice(p3, c, a)
	} else {
		pca, ok = directedPrice(p3, a, c)
		if ok && pca != 0 {
			pca = 1 / pca
		}
	}
	if !ok {
		return poolstate.ArbOpportunity{}, false
	}

	crossRate := pab * pbc * pca
	if crossRate > triHopCrossRateCeil {
		return poolstate.ArbOpportunity{}, false // normalization bug guard
	}
	if crossRate <= 1+triHopEpsilon {
		return poolstate.ArbOpportunity{}, false
	}

	estProfit := uint64(float64(triHopEstAmountMist) * (crossRate - 1) * triHopCaptureFactor)
	if estProfit <= s.MinProfitMist {
		return poolstate.ArbOpportunity{}, false
	}

	typeArgs := []string{p1.CoinA, p2.CoinA, p3.CoinA}
	for _, p := range []*poolstate.PoolState{p1, p2, p3} {
		if p.Venue == poolstate.VenueCLMMB {
			typeArgs = append(typeArgs, p.FeeType)
		}
	}

	return poolstate.ArbOpportunity{
		StrategyID:     strategyID,
		AmountIn:       triHopEstAmountMist,
		ExpectedProfit: estProfit,
		EstimatedGas:   triHopEstGasMist,
		NetProfit:      int64(estProfit) - triHopEstGasMist,
		PoolIDs:        []string{p1.ObjectID, p2.ObjectID, p3.ObjectID},
		TypeArgs:       typeArgs,
		DetectedAtMs:   nowMs,
		TraceID:        uuid.New(),
	}, true
}

func resolveTriHopStrategy(v1, v2, v3 poolstate.Venue) (poolstate.StrategyID, bool) {
	id, ok := triHopTable[[3]poolstate.Venue{v1, v2, v3}]
	return id, ok
}

// directedPrice returns the price of `from` denominated in `to` for pool p,
// inverting p.PriceAInB() when p's natural A/B ordering is reversed
// relative to the requested direction.
func directedPrice(p *poolstate.PoolState, from, to string) (float64, bool) {
	raw, ok := p.PriceAInB()
	if !ok {
		return 0, false
	}
	norm := poolstate.NormalizePrice(raw, p.CoinA, p.CoinB)

	switch {
	case p.CoinA == from && p.CoinB == to:
		return norm, true
	case p.CoinA == to && p.CoinB == from:
		if norm == 0 {
			return 0, false
		}
		return 1 / norm, true
	default:
		return 0, false
	}
}

func sortedTriple(a, b, c string) string {
	s := []string{a, b, c}
	sort.Strings(s)
	return s[0] + "|" + s[1] + "|" + s[2]
}
