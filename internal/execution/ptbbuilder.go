package execution

import (
	"context"
	"fmt"

	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/suirpc"
)

// PtbBuilder constructs Programmable Transaction Blocks for arb strategies
// via the node's unsafe_moveCall RPC helper, one call per opportunity.
type PtbBuilder struct {
	client     *suirpc.Client
	packageID  string
	adminCapID string
	pauseFlagID string
	sender     string
	gasBudget  uint64
	cfg        *config.Config
}

// NewPtbBuilder builds a PtbBuilder bound to the wallet address sender.
func NewPtbBuilder(client *suirpc.Client, cfg *config.Config, sender string) *PtbBuilder {
	return &PtbBuilder{
		client:      client,
		packageID:   cfg.PackageID,
		adminCapID:  cfg.AdminCapID,
		pauseFlagID: cfg.PauseFlagID,
		sender:      sender,
		gasBudget:   cfg.MaxGasBudget,
		cfg:         cfg,
	}
}

type moveCallResult struct {
	TxBytes string `json:"txBytes"`
}

// Build serializes an unsafe_moveCall transaction for opp and returns the
// base64 transaction bytes.
func (b *PtbBuilder) Build(ctx context.Context, opp *poolstate.ArbOpportunity) (string, error) {
	module := opp.StrategyID.MoveModule()
	function := opp.StrategyID.MoveFunctionName()

	args, err := b.buildArgs(opp)
	if err != nil {
		return "", err
	}

	var result moveCallResult
	err = b.client.Call(ctx, &result, "unsafe_moveCall",
		b.sender,
		b.packageID,
		module,
		function,
		opp.TypeArgs,
		args,
		nil, // gas object: auto-select
		fmt.Sprintf("%d", b.gasBudget),
	)
	if err != nil {
		return "", fmt.Errorf("execution: build PTB for %s: %w", opp.StrategyID, err)
	}
	if result.TxBytes == "" {
		return "", fmt.Errorf("execution: build PTB for %s: missing txBytes in response", opp.StrategyID)
	}
	return result.TxBytes, nil
}

// baseArgs is the common (admin_cap, pause_flag) prefix every strategy call
// takes.
func (b *PtbBuilder) baseArgs() []any {
	return []any{b.adminCapID, b.pauseFlagID}
}

// tailArgs is the common (amount, min_profit, clock) suffix.
func (b *PtbBuilder) tailArgs(amount, minProfit uint64) []any {
	return []any{fmt.Sprintf("%d", amount), fmt.Sprintf("%d", minProfit), "0x6"}
}

// legArgs emits the venue-specific argument slots for one leg of a strategy:
// the pool object (when the venue addresses one) and the venue's shared
// configuration objects, in the order the venue takes them. CLMM_A puts its
// global config before the pool; AMM_B passes only its container, no pool.
func (b *PtbBuilder) legArgs(venue poolstate.Venue, poolID string) []any {
	switch venue {
	case poolstate.VenueCLMMA:
		return []any{b.cfg.CLMMAGlobalConfig, poolID}
	case poolstate.VenueCLMMB:
		return []any{poolID, b.cfg.CLMMBVersioned}
	case poolstate.VenueCLMMC:
		return []any{poolID, b.cfg.CLMMCVersioned}
	case poolstate.VenueAMMA:
		return []any{poolID, b.cfg.AMMARegistry, b.cfg.AMMAFeeVault, b.cfg.AMMATreasury, b.cfg.AMMAInsurance, b.cfg.AMMAReferral}
	case poolstate.VenueAMMB:
		return []any{b.cfg.AMMBContainer}
	case poolstate.VenueCLOB:
		return []any{poolID, b.cfg.CLOBFeeCoinID}
	default:
		return []any{poolID}
	}
}

func (b *PtbBuilder) buildArgs(opp *poolstate.ArbOpportunity) ([]any, error) {
	legVenues, ok := strategyLegVenues[opp.StrategyID]
	if !ok {
		return nil, fmt.Errorf("execution: unknown strategy %s", opp.StrategyID)
	}
	if len(opp.PoolIDs) < len(legVenues) {
		return nil, fmt.Errorf("execution: strategy %s requires %d pool ids, got %d", opp.StrategyID, len(legVenues), len(opp.PoolIDs))
	}

	minProfit := opp.ExpectedProfit * 9 / 10
	if minProfit < 1 {
		minProfit = 1
	}

	args := b.baseArgs()
	for i, venue := range legVenues {
		args = append(args, b.legArgs(venue, opp.PoolIDs[i])...)
	}
	args = append(args, b.tailArgs(opp.AmountIn, minProfit)...)

	return args, nil
}

// strategyLegVenues records, for every strategy id, the venue kind of each
// pool_ids slot in order — the mirror image of the scanner's venue-triple
// dispatch tables, needed here because building a moveCall's argument list
// depends on venue kind alone, not on any live pool state.
var strategyLegVenues = map[poolstate.StrategyID][]poolstate.Venue{
	poolstate.StratCLMMAToCLMMB: {poolstate.VenueCLMMA, poolstate.VenueCLMMB},
	poolstate.StratCLMMBToCLMMA: {poolstate.VenueCLMMB, poolstate.VenueCLMMA},
	poolstate.StratCLMMAToCLOB:  {poolstate.VenueCLMMA, poolstate.VenueCLOB},
	poolstate.StratCLOBToCLMMA:  {poolstate.VenueCLOB, poolstate.VenueCLMMA},
	poolstate.StratCLMMBToCLOB:  {poolstate.VenueCLMMB, poolstate.VenueCLOB},
	poolstate.StratCLOBToCLMMB:  {poolstate.VenueCLOB, poolstate.VenueCLMMB},
	poolstate.StratCLMMAToAMMA:  {poolstate.VenueCLMMA, poolstate.VenueAMMA},
	poolstate.StratCLMMBToAMMA:  {poolstate.VenueCLMMB, poolstate.VenueAMMA},
	poolstate.StratCLOBToAMMA:   {poolstate.VenueCLOB, poolstate.VenueAMMA},
	poolstate.StratCLMMAToCLMMC: {poolstate.VenueCLMMA, poolstate.VenueCLMMC},
	poolstate.StratCLMMCToCLMMA: {poolstate.VenueCLMMC, poolstate.VenueCLMMA},
	poolstate.StratCLMMBToCLMMC: {poolstate.VenueCLMMB, poolstate.VenueCLMMC},
	poolstate.StratCLMMCToCLMMB: {poolstate.VenueCLMMC, poolstate.VenueCLMMB},
	poolstate.StratCLOBToCLMMC:  {poolstate.VenueCLOB, poolstate.VenueCLMMC},
	poolstate.StratCLMMCToCLOB:  {poolstate.VenueCLMMC, poolstate.VenueCLOB},
	poolstate.StratCLMMAToAMMB:  {poolstate.VenueCLMMA, poolstate.VenueAMMB},
	poolstate.StratCLMMBToAMMB:  {poolstate.VenueCLMMB, poolstate.VenueAMMB},
	poolstate.StratCLOBToAMMB:   {poolstate.VenueCLOB, poolstate.VenueAMMB},

	poolstate.StratTriAAA: {poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMA},
	poolstate.StratTriAAB: {poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMB},
	poolstate.StratTriABC: {poolstate.VenueCLMMA, poolstate.VenueCLMMB, poolstate.VenueCLOB},
	poolstate.StratTriACB: {poolstate.VenueCLMMA, poolstate.VenueCLOB, poolstate.VenueCLMMB},
	poolstate.StratTriCAB: {poolstate.VenueCLOB, poolstate.VenueCLMMA, poolstate.VenueCLMMB},
	poolstate.StratTriAAW: {poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueAMMA},
	poolstate.StratTriABW: {poolstate.VenueCLMMA, poolstate.VenueCLMMB, poolstate.VenueAMMA},
	poolstate.StratTriAAC: {poolstate.VenueCLMMA, poolstate.VenueCLMMA, poolstate.VenueCLMMC},
	poolstate.StratTriABc: {poolstate.VenueCLMMA, poolstate.VenueCLMMC, poolstate.VenueCLMMB},
	poolstate.StratTriCAc: {poolstate.VenueCLMMC, poolstate.VenueCLMMA, poolstate.VenueCLMMB},
}
