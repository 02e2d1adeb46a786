// Package collector populates the shared poolstate.Cache from on-chain
// pool objects, by polling (poller.go), websocket event/tx subscriptions
// (wsstream.go), or an initial batch seed (seed.go). Each task runs as a
// detached goroutine; none of them own a context they can use to signal
// failure back to the strategy loop beyond logging.
package collector

import (
	"context"
	"time"

	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/poolstate/parsers"
	"github.com/arbmove/bot/internal/suirpc"
	"go.uber.org/zap"
)

// PoolMeta is the static identity of a monitored pool, carried alongside
// the live poolstate.PoolState in the cache.
type PoolMeta struct {
	ObjectID string
	Venue    poolstate.Venue
	CoinA    string
	CoinB    string
}

func metaFromPoolConfig(pc config.PoolConfig) PoolMeta {
	return PoolMeta{
		ObjectID: pc.PoolID,
		Venue:    poolstate.Venue(pc.Dex),
		CoinA:    pc.CoinTypeA,
		CoinB:    pc.CoinTypeB,
	}
}

// PoolsFromConfig builds the static monitored-pool list shared by the
// poller and the websocket stream.
func PoolsFromConfig(cfg *config.Config) []PoolMeta {
	pools := make([]PoolMeta, 0, len(cfg.MonitoredPools))
	for _, pc := range cfg.MonitoredPools {
		pools = append(pools, metaFromPoolConfig(pc))
	}
	return pools
}

// Poller periodically re-fetches every monitored pool object over plain
// JSON-RPC and writes fresh state into the cache.
type Poller struct {
	client    *suirpc.Client
	interval  time.Duration
	pools     []PoolMeta
	heartbeat *Heartbeat
	log       *zap.Logger
}

// NewPoller builds a Poller from configuration.
func NewPoller(client *suirpc.Client, cfg *config.Config, heartbeat *Heartbeat, log *zap.Logger) *Poller {
	pools := PoolsFromConfig(cfg)
	return &Poller{
		client:    client,
		interval:  cfg.PollInterval(),
		pools:     pools,
		heartbeat: heartbeat,
		log:       log,
	}
}

// Run ticks forever at the configured interval, fetching and parsing every
// monitored pool on each tick. It returns only when ctx is cancelled.
func (p *Poller) Run(ctx context.Context, cache *poolstate.Cache) {
	p.log.Info("starting rpc poller",
		zap.Int("pools", len(p.pools)),
		zap.Duration("interval", p.interval),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updated := 0
			for _, meta := range p.pools {
				if p.fetchAndUpsert(ctx, cache, meta) {
					updated++
				}
			}
			if updated > 0 && p.heartbeat != nil {
				p.heartbeat.Bump(nowMs())
			}
		}
	}
}

func (p *Poller) fetchAndUpsert(ctx context.Context, cache *poolstate.Cache, meta PoolMeta) bool {
	reqCtx, cancel := context.WithTimeout(ctx, suirpc.PoolTimeout)
	defer cancel()

	data, err := p.client.GetObject(reqCtx, meta.ObjectID)
	if err != nil {
		p.log.Warn("failed to fetch pool state", zap.String("pool", meta.ObjectID), zap.Error(err))
		return false
	}

	state, err := parsers.ParsePoolObject(data.Content, data.Type, meta.Venue, parsers.Meta{
		ObjectID: meta.ObjectID,
		Venue:    meta.Venue,
		CoinA:    meta.CoinA,
		CoinB:    meta.CoinB,
	}, nowMs())
	if err != nil {
		p.log.Warn("failed to parse pool object", zap.String("pool", meta.ObjectID), zap.Error(err))
		return false
	}

	cache.Upsert(meta.ObjectID, state)
	p.log.Debug("updated pool state", zap.String("pool", meta.ObjectID), zap.String("venue", string(meta.Venue)))
	return true
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
