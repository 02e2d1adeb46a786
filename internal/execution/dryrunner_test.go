package execution

import (
	"context"
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/suirpc"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunSuccessExtractsGasAndEvents(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{
		"effects": map[string]any{
			"status":  map[string]any{"status": "success"},
			"gasUsed": map[string]any{"computationCost": "1000000", "storageCost": "500000", "storageRebate": "200000"},
		},
		"events": []map[string]any{
			{"type": "0xpkg::arb::ArbExecuted", "parsedJson": map[string]any{"profit": "42000000"}},
		},
	})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	d := NewDryRunner(client)
	result, err := d.DryRun(context.Background(), "dGVzdA==")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, uint64(1_300_000), result.GasCostMist)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "0xpkg::arb::ArbExecuted", result.Events[0].Type)
}

func TestDryRunFailureReportsError(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{
		"effects": map[string]any{
			"status":  map[string]any{"status": "failure", "error": "MoveAbort"},
			"gasUsed": map[string]any{"computationCost": "1000000", "storageCost": "0", "storageRebate": "0"},
		},
	})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	d := NewDryRunner(client)
	result, err := d.DryRun(context.Background(), "dGVzdA==")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "MoveAbort", result.ErrorMessage)
}

func TestValidateRefinesProfitFromArbExecutedEvent(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{
		"effects": map[string]any{
			"status":  map[string]any{"status": "success"},
			"gasUsed": map[string]any{"computationCost": "1000000", "storageCost": "0", "storageRebate": "0"},
		},
		"events": []map[string]any{
			{"type": "0xpkg::arb::ArbExecuted", "parsedJson": map[string]any{"profit": "5000000"}},
		},
	})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	d := NewDryRunner(client)
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 1_000, TraceID: uuid.New()}

	profitable, err := d.Validate(context.Background(), opp, "dGVzdA==")
	require.NoError(t, err)
	assert.True(t, profitable)
	assert.Equal(t, uint64(5_000_000), opp.ExpectedProfit)
	assert.Equal(t, uint64(1_000_000), opp.EstimatedGas)
	assert.Equal(t, int64(4_000_000), opp.NetProfit)
}

func TestValidateDropsUnprofitableAfterDryRun(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{
		"effects": map[string]any{
			"status":  map[string]any{"status": "failure", "error": "slippage"},
			"gasUsed": map[string]any{"computationCost": "1000000", "storageCost": "0", "storageRebate": "0"},
		},
	})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	d := NewDryRunner(client)
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 1_000, TraceID: uuid.New()}

	profitable, err := d.Validate(context.Background(), opp, "dGVzdA==")
	require.NoError(t, err)
	assert.False(t, profitable)
}

func TestExtractGasCostSaturatesWhenRebateExceedsCost(t *testing.T) {
	g := gasUsed{ComputationCost: "100", StorageCost: "50", StorageRebate: "1000"}
	assert.Equal(t, uint64(0), extractGasCost(g))
}
