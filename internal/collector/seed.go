package collector

import (
	"context"
	"fmt"

	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/poolstate/parsers"
	"github.com/arbmove/bot/internal/suirpc"
	"go.uber.org/zap"
)

// Seed populates cache with every monitored pool's current state via a
// single sui_multiGetObjects round trip, so the strategy loop has data to
// work with before the first poll/websocket tick lands.
func Seed(ctx context.Context, client *suirpc.Client, cfg *config.Config, cache *poolstate.Cache, log *zap.Logger) error {
	if len(cfg.MonitoredPools) == 0 {
		log.Warn("no pools configured for monitoring")
		return nil
	}

	objectIDs := make([]string, len(cfg.MonitoredPools))
	for i, pc := range cfg.MonitoredPools {
		objectIDs[i] = pc.PoolID
	}

	log.Info("seeding pool cache", zap.Int("pools", len(objectIDs)))

	reqCtx, cancel := context.WithTimeout(ctx, suirpc.PoolTimeout)
	defer cancel()

	objects, err := client.MultiGetObjects(reqCtx, objectIDs)
	if err != nil {
		return fmt.Errorf("collector: seed cache: %w", err)
	}

	now := nowMs()
	for i, obj := range objects {
		pc := cfg.MonitoredPools[i]
		meta := metaFromPoolConfig(pc)

		if obj == nil || obj.Content == nil {
			log.Error("pool object missing at seed time", zap.String("pool", meta.ObjectID))
			continue
		}

		state, err := parsers.ParsePoolObject(obj.Content, obj.Type, meta.Venue, parsers.Meta{
			ObjectID: meta.ObjectID,
			Venue:    meta.Venue,
			CoinA:    meta.CoinA,
			CoinB:    meta.CoinB,
		}, now)
		if err != nil {
			log.Error("failed to parse seeded pool", zap.String("pool", meta.ObjectID), zap.Error(err))
			continue
		}

		cache.Upsert(meta.ObjectID, state)
		log.Info("seeded pool state", zap.String("pool", meta.ObjectID), zap.String("venue", string(meta.Venue)))
	}

	log.Info("pool cache seeded", zap.Int("count", cache.Len()))
	return nil
}
