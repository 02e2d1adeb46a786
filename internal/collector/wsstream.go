package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arbmove/bot/internal/config"
	"github.com/arbmove/bot/internal/poolstate"
	"github.com/arbmove/bot/internal/suirpc"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsReconnectDelay = 3 * time.Second

// WsStream streams pool updates over a websocket subscription rather than
// polling, trading a small amount of complexity for lower latency.
// WSMode selects between subscribing to per-package swap events
// ("event") or per-pool object-change transactions ("tx").
type WsStream struct {
	wsURL     string
	client    *pollerRefetcher
	pools     []PoolMeta
	mode      string
	heartbeat *Heartbeat
	log       *zap.Logger
}

// pollerRefetcher is the minimal surface WsStream needs to re-fetch a
// single pool after an event fires; it is just *Poller under a narrower
// name so the websocket code doesn't depend on Poller's ticking loop.
type pollerRefetcher = Poller

// NewWsStream builds a WsStream from configuration. client is reused for
// the per-event re-fetch RPC calls.
func NewWsStream(client *suirpc.Client, cfg *config.Config, pools []PoolMeta, heartbeat *Heartbeat, log *zap.Logger) *WsStream {
	return &WsStream{
		wsURL:     WSURLFromRPC(cfg.RPCURL),
		client:    &Poller{client: client, pools: pools, log: log},
		pools:     pools,
		mode:      cfg.WSMode,
		heartbeat: heartbeat,
		log:       log,
	}
}

// WSURLFromRPC derives a ws(s):// URL from an http(s):// RPC URL.
func WSURLFromRPC(rpcURL string) string {
	replacer := strings.NewReplacer("https://", "wss://", "http://", "ws://")
	return replacer.Replace(rpcURL)
}

// Run reconnects forever until ctx is cancelled, waiting wsReconnectDelay
// between attempts.
func (s *WsStream) Run(ctx context.Context, cache *poolstate.Cache, venuePackageIDs map[string]string) {
	s.log.Info("starting websocket stream", zap.String("url", s.wsURL), zap.String("mode", s.mode))

	for {
		if ctx.Err() != nil {
			return
		}
		// A fresh connection attempt rebumps the heartbeat so a reconnect
		// in progress doesn't look like prolonged collector death to the
		// execution loop's liveness gate.
		if s.heartbeat != nil {
			s.heartbeat.Bump(nowMs())
		}
		if err := s.connectAndStream(ctx, cache, venuePackageIDs); err != nil {
			s.log.Error("websocket stream error, reconnecting", zap.Error(err), zap.Duration("delay", wsReconnectDelay))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wsReconnectDelay):
		}
	}
}

func (s *WsStream) connectAndStream(ctx context.Context, cache *poolstate.Cache, venuePackageIDs map[string]string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}
	defer conn.Close()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteMessage(websocket.PongMessage, []byte(appData))
	})

	if err := s.subscribe(conn, venuePackageIDs); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read websocket message: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.handleMessage(ctx, cache, data)
	}
}

func (s *WsStream) subscribe(conn *websocket.Conn, venuePackageIDs map[string]string) error {
	switch s.mode {
	case "tx":
		for i, meta := range s.pools {
			msg := map[string]any{
				"jsonrpc": "2.0",
				"id":      i + 1,
				"method":  "suix_subscribeTransaction",
				"params":  []any{map[string]any{"ChangedObject": meta.ObjectID}},
			}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("subscribe transaction: %w", err)
			}
		}
	default: // "event"
		i := 0
		for _, pkg := range venuePackageIDs {
			i++
			msg := map[string]any{
				"jsonrpc": "2.0",
				"id":      i,
				"method":  "suix_subscribeEvent",
				"params":  []any{map[string]any{"Package": pkg}},
			}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("subscribe event: %w", err)
			}
		}
	}
	return nil
}

// handleMessage distinguishes subscription confirmations (carrying both
// "result" and "id") from event notifications (carrying "params.result")
// and re-fetches any monitored pool touched by the latter.
func (s *WsStream) handleMessage(ctx context.Context, cache *poolstate.Cache, data []byte) {
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn("failed to parse websocket message", zap.Error(err))
		return
	}

	if _, hasResult := msg["result"]; hasResult {
		if _, hasID := msg["id"]; hasID {
			s.log.Debug("subscription confirmed")
			return
		}
	}

	params, ok := msg["params"].(map[string]any)
	if !ok {
		return
	}
	result, ok := params["result"]
	if !ok {
		return
	}

	for _, poolID := range s.matchAffectedPools(result) {
		s.refetchPool(ctx, cache, poolID)
	}
}

// matchAffectedPools extracts monitored pool IDs touched by an event or
// transaction-effect notification, trying the common parsedJson field
// names DEX events use for the pool reference.
func (s *WsStream) matchAffectedPools(result any) []string {
	m, ok := result.(map[string]any)
	if !ok {
		return nil
	}

	var matched []string
	if parsedJSON, ok := m["parsedJson"].(map[string]any); ok {
		for _, field := range []string{"pool", "pool_id", "poolId", "pool_address"} {
			if id, ok := parsedJSON[field].(string); ok {
				if s.isMonitored(id) {
					matched = append(matched, id)
				}
			}
		}
	}

	if effects, ok := m["effects"].(map[string]any); ok {
		for _, key := range []string{"mutated", "created", "unwrapped"} {
			objs, ok := effects[key].([]any)
			if !ok {
				continue
			}
			for _, obj := range objs {
				if id := extractObjectID(obj); id != "" && s.isMonitored(id) {
					matched = append(matched, id)
				}
			}
		}
	}

	return matched
}

func extractObjectID(obj any) string {
	m, ok := obj.(map[string]any)
	if !ok {
		return ""
	}
	if ref, ok := m["reference"].(map[string]any); ok {
		if id, ok := ref["objectId"].(string); ok {
			return id
		}
	}
	if id, ok := m["objectId"].(string); ok {
		return id
	}
	return ""
}

func (s *WsStream) isMonitored(poolID string) bool {
	for _, p := range s.pools {
		if p.ObjectID == poolID {
			return true
		}
	}
	return false
}

func (s *WsStream) refetchPool(ctx context.Context, cache *poolstate.Cache, poolID string) {
	for _, meta := range s.pools {
		if meta.ObjectID != poolID {
			continue
		}
		reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if s.client.fetchAndUpsert(reqCtx, cache, meta) && s.heartbeat != nil {
			s.heartbeat.Bump(nowMs())
		}
		return
	}
}
