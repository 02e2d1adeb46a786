package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/arbmove/bot/internal/suirpc"
)

const (
	suiCoinType          = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"
	gasFetchIntervalMs   = 10_000
	uninitializedBalance = ^uint64(0)
)

// GasMonitor tracks the wallet's SUI balance, refetching on a bounded
// window so every execution-loop tick doesn't cost an RPC round trip.
type GasMonitor struct {
	client        *suirpc.Client
	owner         string
	minBalance    uint64
	fetchInterval uint64

	mu             sync.Mutex
	cachedBalance  uint64
	lastFetchMs    uint64
}

// NewGasMonitor builds a GasMonitor that treats the balance as sufficient
// until its first fetch.
func NewGasMonitor(client *suirpc.Client, owner string, minBalanceMist uint64) *GasMonitor {
	return &GasMonitor{
		client:        client,
		owner:         owner,
		minBalance:    minBalanceMist,
		fetchInterval: gasFetchIntervalMs,
		cachedBalance: uninitializedBalance,
	}
}

type balanceResult struct {
	TotalBalance string `json:"totalBalance"`
}

// CheckBalance returns the current (possibly cached) SUI balance, or an
// error if it is known to be below the configured minimum. An RPC failure
// is transient-tolerant: it returns the last known balance without error.
func (g *GasMonitor) CheckBalance(ctx context.Context, nowMs uint64) (uint64, error) {
	g.mu.Lock()
	fresh := nowMs-g.lastFetchMs < g.fetchInterval && g.cachedBalance != uninitializedBalance
	cached := g.cachedBalance
	g.mu.Unlock()

	if fresh {
		if cached >= g.minBalance {
			return cached, nil
		}
		return cached, fmt.Errorf("execution: insufficient gas: %d MIST < %d MIST minimum", cached, g.minBalance)
	}

	balance, err := g.fetchBalance(ctx)
	if err != nil {
		// Transient RPC failure: don't block trading, reuse last known value.
		return cached, nil
	}

	g.mu.Lock()
	g.cachedBalance = balance
	g.lastFetchMs = nowMs
	g.mu.Unlock()

	if balance < g.minBalance {
		return balance, fmt.Errorf("execution: insufficient gas: %d MIST < %d MIST minimum", balance, g.minBalance)
	}
	return balance, nil
}

func (g *GasMonitor) fetchBalance(ctx context.Context) (uint64, error) {
	var result balanceResult
	if err := g.client.Call(ctx, &result, "suix_getBalance", g.owner, suiCoinType); err != nil {
		return 0, err
	}
	return parseUint(result.TotalBalance), nil
}

// CachedBalance returns the last fetched balance without touching the
// network, for status reporting; returns 0 before the first fetch.
func (g *GasMonitor) CachedBalance() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cachedBalance == uninitializedBalance {
		return 0
	}
	return g.cachedBalance
}

// DeductGas optimistically reduces the cached balance by a known
// expenditure, saturating at zero, avoiding an extra RPC round trip.
func (g *GasMonitor) DeductGas(gasMist uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cachedBalance <= gasMist {
		g.cachedBalance = 0
		return
	}
	g.cachedBalance -= gasMist
}
