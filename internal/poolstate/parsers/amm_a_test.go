package parsers

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAMMAParseDerivesVirtualReservesFromOversizedBalances verifies that
// normalized_balances strings too large for u64 derive a virtual reserve_a
// of 1e9 and a reserve_b between 3e9 and 4e9 from their ratio, with
// fees_swap_in converting to 25 bps.
func TestAMMAParseDerivesVirtualReservesFromOversizedBalances(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"normalized_balances": []any{
				"250000000000000000000000000000000000", // a
				"850000000000000000000000000000000000", // b, ratio b/a ~= 3.4
			},
			"fees_swap_in": []any{"2500000000000000"}, // 0.0025e18 -> 25 bps
		},
	}

	state, err := parseAMMA(content, testMeta(poolstate.VenueAMMA), 1000)
	require.NoError(t, err)
	require.NotNil(t, state.ReserveA)
	require.NotNil(t, state.ReserveB)
	assert.Equal(t, uint64(virtualReserveDepth), *state.ReserveA)
	assert.Greater(t, *state.ReserveB, uint64(3_000_000_000))
	assert.Less(t, *state.ReserveB, uint64(4_000_000_000))

	require.NotNil(t, state.FeeBps)
	assert.Equal(t, uint64(25), *state.FeeBps)
}

func TestAMMAZeroFirstBalanceLeavesReservesNil(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"normalized_balances": []any{"0", "500"},
		},
	}
	state, err := parseAMMA(content, testMeta(poolstate.VenueAMMA), 1000)
	require.NoError(t, err)
	assert.Nil(t, state.ReserveA)
	assert.Nil(t, state.ReserveB)
}

func TestAMMAMissingRootFieldsIsParseError(t *testing.T) {
	_, err := parseAMMA(map[string]any{}, testMeta(poolstate.VenueAMMA), 1000)
	require.Error(t, err)
}
