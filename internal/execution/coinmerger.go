package execution

import (
	"context"
	"fmt"

	"github.com/arbmove/bot/internal/suirpc"
)

// CoinMerger periodically consolidates the wallet's fragmented Coin<SUI>
// objects so a later transaction never hits the per-transaction input
// object count limit.
type CoinMerger struct {
	client               *suirpc.Client
	owner                string
	mergeThreshold        int
	checkIntervalCycles   uint64
	mergeGasBudget        uint64
	cycleCount            uint64
}

// NewCoinMerger builds a CoinMerger with sensible defaults: check every 100
// cycles, merge above 20 coins, 0.01 SUI merge gas budget.
func NewCoinMerger(client *suirpc.Client, owner string) *CoinMerger {
	return &CoinMerger{
		client:              client,
		owner:               owner,
		mergeThreshold:      20,
		checkIntervalCycles: 100,
		mergeGasBudget:      10_000_000,
	}
}

type coinObject struct {
	CoinObjectID string `json:"coinObjectId"`
}

type getCoinsResult struct {
	Data        []coinObject `json:"data"`
	HasNextPage bool         `json:"hasNextPage"`
	NextCursor  string       `json:"nextCursor"`
}

// MaybeMerge advances the internal cycle counter and, every
// checkIntervalCycles calls, queries the wallet's SUI coin objects; if the
// count exceeds mergeThreshold it builds (but does not submit) a
// "pay all SUI to self" merge transaction. Returns ("", nil) when no merge
// is needed this cycle.
func (m *CoinMerger) MaybeMerge(ctx context.Context) (string, error) {
	m.cycleCount++
	if m.cycleCount%m.checkIntervalCycles != 0 {
		return "", nil
	}

	coinIDs, err := m.fetchSuiCoinIDs(ctx)
	if err != nil {
		return "", err
	}

	if len(coinIDs) <= m.mergeThreshold {
		return "", nil
	}
	if len(coinIDs) == 0 {
		return "", nil
	}

	return m.buildMergeTx(ctx, coinIDs)
}

func (m *CoinMerger) fetchSuiCoinIDs(ctx context.Context) ([]string, error) {
	var ids []string
	var cursor any

	for {
		var result getCoinsResult
		callCtx, cancel := context.WithTimeout(ctx, suirpc.DefaultTimeout)
		err := m.client.Call(callCtx, &result, "suix_getCoins", m.owner, suiCoinType, cursor, 50)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("execution: suix_getCoins: %w", err)
		}
		for _, c := range result.Data {
			ids = append(ids, c.CoinObjectID)
		}
		if !result.HasNextPage {
			break
		}
		cursor = result.NextCursor
	}

	return ids, nil
}

type payAllSuiResult struct {
	TxBytes string `json:"txBytes"`
}

func (m *CoinMerger) buildMergeTx(ctx context.Context, coinIDs []string) (string, error) {
	var result payAllSuiResult
	err := m.client.Call(ctx, &result, "unsafe_payAllSui", m.owner, coinIDs, m.owner, fmt.Sprintf("%d", m.mergeGasBudget))
	if err != nil {
		return "", fmt.Errorf("execution: unsafe_payAllSui: %w", err)
	}
	if result.TxBytes == "" {
		return "", fmt.Errorf("execution: unsafe_payAllSui: missing txBytes in response")
	}
	return result.TxBytes, nil
}
