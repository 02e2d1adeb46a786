package execution

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arbmove/bot/internal/collector"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/strategy"
	"github.com/arbmove/bot/internal/suirpc"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testCLMMPool builds a minimal CLMM pool state at the given real-world
// A-in-B price, with enough liquidity to clear the dust-pool filter.
func testCLMMPool(id string, venue poolstate.Venue, coinA, coinB string, price float64, nowMs uint64) *poolstate.PoolState {
	sqrtRatio := new(big.Float).Sqrt(new(big.Float).SetFloat64(price))
	scale := new(big.Float).SetFloat64(math.Pow(2, 64))
	scaled := new(big.Float).Mul(sqrtRatio, scale)
	sqrtPrice, _ := scaled.Int(nil)

	liquidity := uint256.NewInt(1_000_000_000_000)
	return &poolstate.PoolState{
		ObjectID:      id,
		Venue:         venue,
		CoinA:         coinA,
		CoinB:         coinB,
		SqrtPrice:     uint256.MustFromBig(sqrtPrice),
		Liquidity:     liquidity,
		LastUpdatedMs: nowMs,
	}
}

func newTestExecutor(t *testing.T, client *suirpc.Client) *Executor {
	t.Helper()
	cfg := testConfig()
	cfg.DryRunBeforeSubmit = false
	cfg.PollIntervalMs = 1_000

	signer, err := NewSigner(fixedSeedHex())
	require.NoError(t, err)

	return NewExecutor(
		poolstate.NewCache(),
		strategy.NewScanner(1),
		strategy.DefaultCircuitBreaker(),
		collector.NewHeartbeat(nowMs()),
		NewGasMonitor(client, signer.Address(), 0),
		NewCoinMerger(client, signer.Address()),
		NewPtbBuilder(client, cfg, signer.Address()),
		NewDryRunner(client),
		signer,
		NewSubmitter(client),
		cfg,
		zap.NewNop(),
	)
}

func TestExecutorTickSkipsWhenCircuitBreakerTripped(t *testing.T) {
	e := newTestExecutor(t, &suirpc.Client{})
	now := nowMs()
	for i := 0; i < 5; i++ {
		e.breaker.RecordFailure(0, now)
	}
	assert.False(t, e.breaker.IsTradingAllowed(now))
	// tick should return immediately without touching the nil-backed RPC
	// client, which would panic if any gate past the breaker were reached.
	e.tick(context.Background())
}

func TestExecutorTickSkipsOnEmptyCache(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{"totalBalance": "999999999999"})
	defer srv.Close()
	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	e := newTestExecutor(t, client)
	e.tick(context.Background())
	assert.Equal(t, uint64(0), e.breaker.Stats().TotalTrades)
}

func TestExecutorTickSkipsOnStaleHeartbeat(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{"totalBalance": "999999999999"})
	defer srv.Close()
	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	e := newTestExecutor(t, client)
	e.heartbeat = collector.NewHeartbeat(0)

	e.tick(context.Background())
	assert.Equal(t, uint64(0), e.breaker.Stats().TotalTrades)
}

func TestExecutorPassesPostOptimizationGuardsRejectsZeroProfit(t *testing.T) {
	e := newTestExecutor(t, &suirpc.Client{})
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 0, DetectedAtMs: nowMs(), TraceID: uuid.New()}
	assert.False(t, e.passesPostOptimizationGuards(opp, nowMs()))
}

func TestExecutorPassesPostOptimizationGuardsRejectsStaleOpportunity(t *testing.T) {
	e := newTestExecutor(t, &suirpc.Client{})
	now := nowMs()
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 1_000, EstimatedGas: 1, DetectedAtMs: now - 5_000, TraceID: uuid.New()}
	assert.False(t, e.passesPostOptimizationGuards(opp, now))
}

func TestExecutorPassesPostOptimizationGuardsRejectsNegativeNet(t *testing.T) {
	e := newTestExecutor(t, &suirpc.Client{})
	now := nowMs()
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 100, EstimatedGas: 1_000, DetectedAtMs: now, TraceID: uuid.New()}
	assert.False(t, e.passesPostOptimizationGuards(opp, now))
}

func TestExecutorPassesPostOptimizationGuardsAcceptsProfitable(t *testing.T) {
	e := newTestExecutor(t, &suirpc.Client{})
	now := nowMs()
	opp := &poolstate.ArbOpportunity{ExpectedProfit: 100_000, EstimatedGas: 1_000, DetectedAtMs: now, TraceID: uuid.New()}
	assert.True(t, e.passesPostOptimizationGuards(opp, now))
}

func TestExecutorFullTickSignsAndSubmitsProfitableOpportunity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)

		var result any
		switch req.Method {
		case "suix_getBalance":
			result = map[string]any{"totalBalance": "999999999999"}
		case "suix_getCoins":
			result = map[string]any{"data": []map[string]any{}, "hasNextPage": false, "nextCursor": nil}
		case "unsafe_moveCall":
			result = map[string]any{"txBytes": "dGVzdA=="}
		case "sui_executeTransactionBlock":
			result = map[string]any{
				"digest": "submitted",
				"effects": map[string]any{
					"status":  map[string]any{"status": "success"},
					"gasUsed": map[string]any{"computationCost": "1000", "storageCost": "0", "storageRebate": "0"},
				},
				"events": []map[string]any{
					{"type": "0xpkg::arb::ArbExecuted", "parsedJson": map[string]any{"profit": "500000"}},
				},
			}
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": result}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	e := newTestExecutor(t, client)

	flashPool := testCLMMPool("0xcheap", poolstate.VenueCLMMA, "0x2::sui::SUI", "0xusdz::usdz::USDZ", 0.9, nowMs())
	sellPool := testCLMMPool("0xexpensive", poolstate.VenueCLMMB, "0x2::sui::SUI", "0xusdz::usdz::USDZ", 1.1, nowMs())
	e.cache.Upsert(flashPool.ObjectID, flashPool)
	e.cache.Upsert(sellPool.ObjectID, sellPool)

	e.tick(context.Background())

	stats := e.breaker.Stats()
	assert.Equal(t, uint64(1), stats.TotalTrades)
}

