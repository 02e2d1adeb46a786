// Command arbmove runs the cross-venue arbitrage bot: it seeds and keeps a
// pool-state cache fresh (poller and/or websocket stream), scans it for
// two-hop and tri-hop opportunities, sizes and submits profitable ones, and
// serves its own liveness/status/metrics endpoints.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arbmove/bot/internal/collector"
	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/execution"
	"github.com/arbmove/bot/internal/logging"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/statusapi"
	"github.com/arbmove/bot/internal/strategy"
	"github.com/arbmove/bot/internal/suirpc"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("arbmove exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	client, err := suirpc.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	signer, err := execution.NewSigner(cfg.PrivateKey)
	if err != nil {
		return err
	}
	log.Info("wallet loaded", zap.String("address", signer.Address()))

	cache := poolstate.NewCache()
	if err := collector.Seed(ctx, client, cfg, cache, log); err != nil {
		return err
	}

	heartbeat := collector.NewHeartbeat(nowMs())
	pools := collector.PoolsFromConfig(cfg)

	poller := collector.NewPoller(client, cfg, heartbeat, log)
	if cfg.UseWebsocket {
		ws := collector.NewWsStream(client, cfg, pools, heartbeat, log)
		collector.Supervise(ctx, "ws-stream", log, func(taskCtx context.Context) {
			ws.Run(taskCtx, cache, cfg.VenuePackageIDs)
		})
		log.Info("rpc poller also running as fallback alongside websocket stream")
	}
	collector.Supervise(ctx, "poller", log, func(taskCtx context.Context) {
		poller.Run(taskCtx, cache)
	})

	scanner := strategy.NewScanner(cfg.MinProfitMist)
	breaker := strategy.NewCircuitBreaker(cfg.CBMaxConsecutiveFailures, cfg.CBMaxCumulativeLossMist, cfg.CBCooldownMs)

	gasMonitor := execution.NewGasMonitor(client, signer.Address(), cfg.MinGasBalance)
	coinMerger := execution.NewCoinMerger(client, signer.Address())
	ptbBuilder := execution.NewPtbBuilder(client, cfg, signer.Address())
	dryRunner := execution.NewDryRunner(client)
	submitter := execution.NewSubmitter(client)

	executor := execution.NewExecutor(
		cache, scanner, breaker, heartbeat,
		gasMonitor, coinMerger, ptbBuilder, dryRunner, signer, submitter,
		cfg, log,
	)

	statusServer := statusapi.NewServer(cfg.StatusAddr, log)
	executor.SetStatusServer(statusServer)

	collector.Supervise(ctx, "status-server", log, func(taskCtx context.Context) {
		if err := statusServer.Run(taskCtx); err != nil {
			log.Error("status server stopped", zap.Error(err))
		}
	})

	executor.Run(ctx)
	return nil
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
