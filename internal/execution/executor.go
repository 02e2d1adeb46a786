package execution

import (
	"context"
	"time"

	"github.com/arbmove/bot/internal/collector"
	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/statusapi"
	"github.com/arbmove/bot/internal/strategy"
	"go.uber.org/zap"
)

// maxOpportunityAgeMs drops an opportunity if re-pricing took long enough
// that the scanner's original snapshot is stale relative to the on-chain
// state the transaction would actually execute against.
const maxOpportunityAgeMs = 3_000

// optimizerPrecisionMist is the ternary search's stopping window.
const optimizerPrecisionMist = 100_000

// Executor runs the single ticking task that turns scanned opportunities
// into signed, submitted transactions, gating every tick on the circuit
// breaker, gas balance, coin-merge maintenance, and collector liveness
// before ever touching the chain.
type Executor struct {
	cache     *poolstate.Cache
	scanner   *strategy.Scanner
	breaker   *strategy.CircuitBreaker
	heartbeat *collector.Heartbeat

	gasMonitor *GasMonitor
	coinMerger *CoinMerger
	ptbBuilder *PtbBuilder
	dryRunner  *DryRunner
	signer     *Signer
	submitter  *Submitter

	dryRunEnabled bool
	interval      time.Duration
	cycle         uint64

	statusServer *statusapi.Server
	log          *zap.Logger
}

// SetStatusServer attaches a status server whose snapshot is refreshed
// after every tick. Optional: an Executor with no status server attached
// simply skips publishing.
func (e *Executor) SetStatusServer(s *statusapi.Server) {
	e.statusServer = s
}

// NewExecutor wires an Executor from already-constructed collaborators.
func NewExecutor(
	cache *poolstate.Cache,
	scanner *strategy.Scanner,
	breaker *strategy.CircuitBreaker,
	heartbeat *collector.Heartbeat,
	gasMonitor *GasMonitor,
	coinMerger *CoinMerger,
	ptbBuilder *PtbBuilder,
	dryRunner *DryRunner,
	signer *Signer,
	submitter *Submitter,
	cfg *config.Config,
	log *zap.Logger,
) *Executor {
	return &Executor{
		cache:         cache,
		scanner:       scanner,
		breaker:       breaker,
		heartbeat:     heartbeat,
		gasMonitor:    gasMonitor,
		coinMerger:    coinMerger,
		ptbBuilder:    ptbBuilder,
		dryRunner:     dryRunner,
		signer:        signer,
		submitter:     submitter,
		dryRunEnabled: cfg.DryRunBeforeSubmit,
		interval:      cfg.PollInterval(),
		log:           log,
	}
}

// Run ticks forever at the configured poll interval until ctx is cancelled.
func (e *Executor) Run(ctx context.Context) {
	e.log.Info("starting execution loop", zap.Duration("interval", e.interval))

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick runs one pass of the 11-step sequence, fail-fast: any step that
// can't proceed just returns, leaving the next tick to try again.
func (e *Executor) tick(ctx context.Context) {
	e.cycle++
	now := nowMs()
	defer e.publishStatus(now)

	// 1. Circuit-breaker gate.
	if !e.breaker.IsTradingAllowed(now) {
		e.log.Debug("circuit breaker open, skipping tick")
		return
	}

	// 2. Gas-balance gate.
	if _, err := e.gasMonitor.CheckBalance(ctx, now); err != nil {
		e.log.Warn("gas balance below minimum, skipping tick", zap.Error(err))
		return
	}

	// 3. Coin-merge maintenance.
	if txBytes, err := e.coinMerger.MaybeMerge(ctx); err != nil {
		e.log.Warn("coin merge check failed", zap.Error(err))
	} else if txBytes != "" {
		e.submitMergeTx(ctx, txBytes)
	}

	// 4. Collector liveness.
	maxStaleness := e.scanner.MaxStalenessMs
	if age := e.heartbeat.AgeMs(now); age > 3*maxStaleness {
		e.log.Warn("collector heartbeat stale, skipping tick",
			zap.Uint64("age_ms", age), zap.Uint64("threshold_ms", 3*maxStaleness))
		return
	}

	// 5. Snapshot.
	pools := e.cache.Snapshot()
	if len(pools) == 0 {
		e.log.Debug("empty pool cache, skipping tick")
		return
	}
	freshCount := 0
	for _, p := range pools {
		if p.StalenessMs(now) <= maxStaleness {
			freshCount++
		}
	}
	if freshCount == 0 {
		e.log.Debug("no fresh pools, skipping tick")
		return
	}

	// 6. Scan.
	opportunities := e.scanner.Scan(pools, now)
	if len(opportunities) == 0 {
		return
	}
	opp := opportunities[0]

	// 7. Optimize.
	e.optimize(&opp, now)
	if !e.passesPostOptimizationGuards(&opp, now) {
		return
	}

	e.log.Info("candidate opportunity",
		zap.String("trace_id", opp.TraceID.String()),
		zap.String("strategy", string(opp.StrategyID)),
		zap.Uint64("amount_in", opp.AmountIn),
		zap.Uint64("expected_profit", opp.ExpectedProfit),
	)

	// 8. Build.
	txBytes, err := e.ptbBuilder.Build(ctx, &opp)
	if err != nil {
		e.log.Warn("failed to build transaction", zap.Error(err), zap.String("trace_id", opp.TraceID.String()))
		return
	}

	// 9. Dry-run.
	if e.dryRunEnabled {
		profitable, err := e.dryRunner.Validate(ctx, &opp, txBytes)
		if err != nil {
			e.log.Warn("dry run failed", zap.Error(err), zap.String("trace_id", opp.TraceID.String()))
			return
		}
		if !profitable {
			e.log.Debug("opportunity unprofitable after dry run", zap.String("trace_id", opp.TraceID.String()))
			return
		}
		txBytes, err = e.ptbBuilder.Build(ctx, &opp)
		if err != nil {
			e.log.Warn("failed to rebuild transaction after dry run", zap.Error(err), zap.String("trace_id", opp.TraceID.String()))
			return
		}
	}

	// 10. Sign and submit.
	signature, err := e.signer.SignTransaction(txBytes)
	if err != nil {
		e.log.Error("failed to sign transaction", zap.Error(err), zap.String("trace_id", opp.TraceID.String()))
		return
	}

	result, err := e.submitter.Submit(ctx, txBytes, signature)
	if err != nil {
		e.log.Error("submission error", zap.Error(err), zap.String("trace_id", opp.TraceID.String()))
		e.breaker.RecordFailure(0, now)
		return
	}

	// 11. Record outcome.
	e.recordOutcome(result, &opp, now)
}

func (e *Executor) optimize(opp *poolstate.ArbOpportunity, now uint64) {
	if opp.StrategyID.IsTriHop() || len(opp.PoolIDs) < 2 {
		// The local simulator models a single flash/sell pool pair; a
		// triangular cycle has no two-pool reduction, so tri-hop
		// opportunities keep the scanner's conservative estimate.
		return
	}

	flashPool, ok := e.cache.Get(opp.PoolIDs[0])
	if !ok {
		return
	}
	sellPool, ok := e.cache.Get(opp.PoolIDs[1])
	if !ok {
		return
	}

	simulate, hi := strategy.BuildLocalSimulator(flashPool, sellPool)
	amount, profit := strategy.TernarySearch(1_000, hi, optimizerPrecisionMist, simulate)

	opp.AmountIn = amount
	opp.ExpectedProfit = profit
	opp.NetProfit = int64(profit) - int64(opp.EstimatedGas)
	opp.DetectedAtMs = now
}

func (e *Executor) passesPostOptimizationGuards(opp *poolstate.ArbOpportunity, now uint64) bool {
	if opp.ExpectedProfit == 0 {
		return false
	}
	if now > opp.DetectedAtMs && now-opp.DetectedAtMs > maxOpportunityAgeMs {
		return false
	}
	if int64(opp.ExpectedProfit)-int64(opp.EstimatedGas) <= 0 {
		return false
	}
	return true
}

func (e *Executor) recordOutcome(result *SubmitResult, opp *poolstate.ArbOpportunity, now uint64) {
	e.gasMonitor.DeductGas(result.GasCostMist)
	statusapi.RecordTrade(result.Success)

	if !result.Success {
		e.breaker.RecordFailure(-int64(result.GasCostMist), now)
		e.log.Warn("transaction executed on-chain but failed",
			zap.String("digest", result.Digest),
			zap.String("error", result.ErrorMessage),
			zap.String("trace_id", opp.TraceID.String()),
		)
		return
	}

	profit := opp.ExpectedProfit
	if result.HasProfit {
		profit = result.ProfitMist
	}
	net := int64(profit) - int64(result.GasCostMist)
	e.breaker.RecordSuccess(net)

	e.log.Info("arbitrage executed",
		zap.String("digest", result.Digest),
		zap.Uint64("profit_mist", profit),
		zap.Uint64("gas_cost_mist", result.GasCostMist),
		zap.Int64("net_mist", net),
		zap.String("trace_id", opp.TraceID.String()),
	)
}

// submitMergeTx signs and submits a coin-merge transaction, logging
// failures without affecting the circuit breaker; merge maintenance is
// incidental upkeep, not a trading outcome.
func (e *Executor) submitMergeTx(ctx context.Context, txBytes string) {
	signature, err := e.signer.SignTransaction(txBytes)
	if err != nil {
		e.log.Warn("failed to sign coin merge transaction", zap.Error(err))
		return
	}
	result, err := e.submitter.Submit(ctx, txBytes, signature)
	if err != nil {
		e.log.Warn("failed to submit coin merge transaction", zap.Error(err))
		return
	}
	e.gasMonitor.DeductGas(result.GasCostMist)
	e.log.Info("merged wallet coins", zap.String("digest", result.Digest), zap.Bool("success", result.Success))
}

func (e *Executor) publishStatus(now uint64) {
	if e.statusServer == nil {
		return
	}

	pools := e.cache.Snapshot()
	fresh := 0
	for _, p := range pools {
		if p.StalenessMs(now) <= e.scanner.MaxStalenessMs {
			fresh++
		}
	}

	stats := e.breaker.Stats()
	e.statusServer.Publish(statusapi.Snapshot{
		HeartbeatAgeMs:      e.heartbeat.AgeMs(now),
		CachedPools:         len(pools),
		FreshPools:          fresh,
		CircuitBreakerOpen:  stats.IsTripped,
		TripReason:          stats.TripReason,
		ConsecutiveFailures: stats.ConsecutiveFailures,
		CumulativePnLMist:   stats.CumulativePnLMist,
		TotalTrades:         stats.TotalTrades,
		GasBalanceMist:      e.gasMonitor.CachedBalance(),
		LastTickAtMs:        now,
	})
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
