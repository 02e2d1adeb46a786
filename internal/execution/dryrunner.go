package execution

import (
	"context"
	"strconv"
	"strings"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/suirpc"
)

// DryRunner validates a built transaction against the node's dry-run RPC
// before it is ever signed, catching price-impact and liquidity changes a
// local simulation cannot see.
type DryRunner struct {
	client *suirpc.Client
}

// NewDryRunner builds a DryRunner over an already-dialed client.
func NewDryRunner(client *suirpc.Client) *DryRunner {
	return &DryRunner{client: client}
}

// DryRunResult is the outcome of one sui_dryRunTransactionBlock call.
type DryRunResult struct {
	Success      bool
	GasCostMist  uint64
	ErrorMessage string
	Events       []dryRunEvent
}

type dryRunEvent struct {
	Type       string         `json:"type"`
	ParsedJSON map[string]any `json:"parsedJson"`
}

type gasUsed struct {
	ComputationCost string `json:"computationCost"`
	StorageCost     string `json:"storageCost"`
	StorageRebate   string `json:"storageRebate"`
}

type txStatus struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type txEffects struct {
	Status  txStatus `json:"status"`
	GasUsed gasUsed  `json:"gasUsed"`
}

type dryRunRPCResult struct {
	Effects txEffects     `json:"effects"`
	Events  []dryRunEvent `json:"events"`
}

// DryRun submits txBytes for dry-run execution and reports success, gas
// cost, and any emitted events.
func (d *DryRunner) DryRun(ctx context.Context, txBytes string) (*DryRunResult, error) {
	var result dryRunRPCResult
	if err := d.client.Call(ctx, &result, "sui_dryRunTransactionBlock", txBytes); err != nil {
		return &DryRunResult{Success: false, ErrorMessage: err.Error()}, nil
	}

	gasCost := extractGasCost(result.Effects.GasUsed)

	if result.Effects.Status.Status != "success" {
		return &DryRunResult{
			Success:      false,
			GasCostMist:  gasCost,
			ErrorMessage: result.Effects.Status.Error,
			Events:       result.Events,
		}, nil
	}

	return &DryRunResult{
		Success:     true,
		GasCostMist: gasCost,
		Events:      result.Events,
	}, nil
}

// Validate dry-runs txBytes for opp, overwriting its estimated gas and net
// profit in place (and the expected profit/net profit if an ArbExecuted
// event refines it), and reports whether opp remains worth submitting.
func (d *DryRunner) Validate(ctx context.Context, opp *poolstate.ArbOpportunity, txBytes string) (bool, error) {
	result, err := d.DryRun(ctx, txBytes)
	if err != nil {
		return false, err
	}

	opp.EstimatedGas = result.GasCostMist
	opp.NetProfit = int64(opp.ExpectedProfit) - int64(result.GasCostMist)

	if !result.Success {
		return false, nil
	}

	if actual, ok := actualProfitFromEvents(result.Events); ok {
		opp.ExpectedProfit = actual
		opp.NetProfit = int64(actual) - int64(result.GasCostMist)
	}

	return opp.IsProfitable(), nil
}

func actualProfitFromEvents(events []dryRunEvent) (uint64, bool) {
	for _, ev := range events {
		if !strings.Contains(ev.Type, "ArbExecuted") {
			continue
		}
		raw, ok := ev.ParsedJSON["profit"]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func extractGasCost(g gasUsed) uint64 {
	computation := parseUint(g.ComputationCost)
	storage := parseUint(g.StorageCost)
	rebate := parseUint(g.StorageRebate)

	total := computation + storage
	if rebate > total {
		return 0
	}
	return total - rebate
}

func parseUint(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
