package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arbmove/bot/internal/suirpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRPCServer(t *testing.T, result any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": result}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewGasMonitorDefaults(t *testing.T) {
	client := &suirpc.Client{}
	m := NewGasMonitor(client, "0xowner", 100_000_000)
	assert.Equal(t, uint64(gasFetchIntervalMs), m.fetchInterval)
	assert.Equal(t, uninitializedBalance, m.cachedBalance)
}

func TestCheckBalanceFetchesAndCachesAboveMinimum(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{"totalBalance": "500000000"})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	m := NewGasMonitor(client, "0xowner", 100_000_000)
	balance, err := m.CheckBalance(context.Background(), 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), balance)

	// Second call within the refresh window should reuse the cache
	// rather than re-dial the (now-closed) server.
	srv.Close()
	balance2, err := m.CheckBalance(context.Background(), 1_500)
	require.NoError(t, err)
	assert.Equal(t, balance, balance2)
}

func TestCheckBalanceReturnsErrorBelowMinimum(t *testing.T) {
	srv := jsonRPCServer(t, map[string]any{"totalBalance": "1"})
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	m := NewGasMonitor(client, "0xowner", 100_000_000)
	_, err = m.CheckBalance(context.Background(), 1_000)
	assert.Error(t, err)
}

func TestCheckBalanceTolerantOfTransientRPCFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32000, "message": "node unavailable"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := suirpc.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	m := NewGasMonitor(client, "0xowner", 100_000_000)
	m.cachedBalance = 200_000_000
	m.lastFetchMs = 0

	balance, err := m.CheckBalance(context.Background(), 999_999)
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000_000), balance)
}

func TestDeductGas(t *testing.T) {
	m := &GasMonitor{cachedBalance: 1_000}
	m.DeductGas(300)
	assert.Equal(t, uint64(700), m.cachedBalance)
}

func TestDeductGasSaturating(t *testing.T) {
	m := &GasMonitor{cachedBalance: 100}
	m.DeductGas(500)
	assert.Equal(t, uint64(0), m.cachedBalance)
}
