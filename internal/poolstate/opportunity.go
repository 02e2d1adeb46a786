package poolstate

import "github.com/google/uuid"

// StrategyID is the closed enum of on-chain entry points this engine can
// target. The set matches exactly what the on-chain collaborator supports;
// per the resolved venue->strategy Open Question there is no AMM_B
// (constant-product, no flash primitive) or AMM_A (weighted, explicitly
// disabled upstream) flash-source strategy in this table.
type StrategyID string

const (
	// Two-hop strategies.
	StratCLMMAToCLMMB    StrategyID = "clmm_a_to_clmm_b"
	StratCLMMBToCLMMA    StrategyID = "clmm_b_to_clmm_a"
	StratCLMMAToCLOB     StrategyID = "clmm_a_to_clob"
	StratCLOBToCLMMA     StrategyID = "clob_to_clmm_a"
	StratCLMMBToCLOB     StrategyID = "clmm_b_to_clob"
	StratCLOBToCLMMB     StrategyID = "clob_to_clmm_b"
	StratCLMMAToAMMA     StrategyID = "clmm_a_to_amm_a"
	StratCLMMBToAMMA     StrategyID = "clmm_b_to_amm_a"
	StratCLOBToAMMA      StrategyID = "clob_to_amm_a"
	StratCLMMAToCLMMC    StrategyID = "clmm_a_to_clmm_c"
	StratCLMMCToCLMMA    StrategyID = "clmm_c_to_clmm_a"
	StratCLMMBToCLMMC    StrategyID = "clmm_b_to_clmm_c"
	StratCLMMCToCLMMB    StrategyID = "clmm_c_to_clmm_b"
	StratCLOBToCLMMC     StrategyID = "clob_to_clmm_c"
	StratCLMMCToCLOB     StrategyID = "clmm_c_to_clob"
	StratCLMMAToAMMB     StrategyID = "clmm_a_to_amm_b"
	StratCLMMBToAMMB     StrategyID = "clmm_b_to_amm_b"
	StratCLOBToAMMB      StrategyID = "clob_to_amm_b"

	// Tri-hop strategies.
	StratTriAAA StrategyID = "tri_clmm_a_clmm_a_clmm_a"
	StratTriAAB StrategyID = "tri_clmm_a_clmm_a_clmm_b"
	StratTriABC StrategyID = "tri_clmm_a_clmm_b_clob"
	StratTriACB StrategyID = "tri_clmm_a_clob_clmm_b"
	StratTriCAB StrategyID = "tri_clob_clmm_a_clmm_b"
	StratTriAAW StrategyID = "tri_clmm_a_clmm_a_amm_a"
	StratTriABW StrategyID = "tri_clmm_a_clmm_b_amm_a"
	StratTriAAC StrategyID = "tri_clmm_a_clmm_a_clmm_c"
	StratTriABc StrategyID = "tri_clmm_a_clmm_c_clmm_b"
	StratTriCAc StrategyID = "tri_clmm_c_clmm_a_clmm_b"
)

// twoHopModule/triHopModule name the on-chain Move modules that expose the
// two-pool and three-pool flash/sell entry points, respectively.
const (
	twoHopModule = "two_hop"
	triHopModule = "tri_hop"
)

var isTriStrategy = map[StrategyID]bool{
	StratTriAAA: true, StratTriAAB: true, StratTriABC: true, StratTriACB: true,
	StratTriCAB: true, StratTriAAW: true, StratTriABW: true, StratTriAAC: true,
	StratTriABc: true, StratTriCAc: true,
}

var strategyFunctionName = map[StrategyID]string{
	StratCLMMAToCLMMB: "arb_clmm_a_to_clmm_b",
	StratCLMMBToCLMMA: "arb_clmm_b_to_clmm_a",
	StratCLMMAToCLOB:  "arb_clmm_a_to_clob",
	StratCLOBToCLMMA:  "arb_clob_to_clmm_a",
	StratCLMMBToCLOB:  "arb_clmm_b_to_clob",
	StratCLOBToCLMMB:  "arb_clob_to_clmm_b",
	StratCLMMAToAMMA:  "arb_clmm_a_to_amm_a",
	StratCLMMBToAMMA:  "arb_clmm_b_to_amm_a",
	StratCLOBToAMMA:   "arb_clob_to_amm_a",
	StratCLMMAToCLMMC: "arb_clmm_a_to_clmm_c",
	StratCLMMCToCLMMA: "arb_clmm_c_to_clmm_a",
	StratCLMMBToCLMMC: "arb_clmm_b_to_clmm_c",
	StratCLMMCToCLMMB: "arb_clmm_c_to_clmm_b",
	StratCLOBToCLMMC:  "arb_clob_to_clmm_c",
	StratCLMMCToCLOB:  "arb_clmm_c_to_clob",
	StratCLMMAToAMMB:  "arb_clmm_a_to_amm_b",
	StratCLMMBToAMMB:  "arb_clmm_b_to_amm_b",
	StratCLOBToAMMB:   "arb_clob_to_amm_b",

	StratTriAAA: "tri_clmm_a_clmm_a_clmm_a",
	StratTriAAB: "tri_clmm_a_clmm_a_clmm_b",
	StratTriABC: "tri_clmm_a_clmm_b_clob",
	StratTriACB: "tri_clmm_a_clob_clmm_b",
	StratTriCAB: "tri_clob_clmm_a_clmm_b",
	StratTriAAW: "tri_clmm_a_clmm_a_amm_a",
	StratTriABW: "tri_clmm_a_clmm_b_amm_a",
	StratTriAAC: "tri_clmm_a_clmm_a_clmm_c",
	StratTriABc: "tri_clmm_a_clmm_c_clmm_b",
	StratTriCAc: "tri_clmm_c_clmm_a_clmm_b",
}

// MoveModule returns the Move module a strategy's entry function lives in.
func (s StrategyID) MoveModule() string {
	if isTriStrategy[s] {
		return triHopModule
	}
	return twoHopModule
}

// MoveFunctionName returns the Move entry function name for s.
func (s StrategyID) MoveFunctionName() string {
	return strategyFunctionName[s]
}

// IsTriHop reports whether s is a triangular (3-pool) strategy.
func (s StrategyID) IsTriHop() bool {
	return isTriStrategy[s]
}

// ArbOpportunity is the scanner's output record, a by-value message passed
// from scanner to optimizer to executor. Exists for one scheduler tick;
// never persisted.
type ArbOpportunity struct {
	StrategyID     StrategyID
	AmountIn       uint64
	ExpectedProfit uint64
	EstimatedGas   uint64
	NetProfit      int64
	PoolIDs        []string
	TypeArgs       []string
	DetectedAtMs   uint64

	// TraceID is a process-local correlation id for log lines describing
	// this opportunity's journey through scan -> optimize -> build ->
	// dry-run -> submit. Never sent on-chain, never persisted.
	TraceID uuid.UUID
}

// IsProfitable reports whether the opportunity's net profit is positive.
func (o *ArbOpportunity) IsProfitable() bool {
	return o.NetProfit > 0
}

// MinProfitGuard computes the on-chain min_profit argument: 90% of the
// expected profit, floored at 1 so the on-chain assertion is never a no-op.
func (o *ArbOpportunity) MinProfitGuard() uint64 {
	guard := o.ExpectedProfit * 9 / 10
	if guard < 1 {
		return 1
	}
	return guard
}
