package parsers

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLMMCParsesCoreFields(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"sqrt_price": "18446744073709551616",
			"liquidity":  "1000000000",
			"tick_index": map[string]any{
				"fields": map[string]any{"bits": float64(4294967295)},
			},
			"swap_fee_rate": float64(500),
		},
	}
	state, err := parseCLMMC(content, testMeta(poolstate.VenueCLMMC), 1000)
	require.NoError(t, err)
	require.NotNil(t, state.TickIndex)
	assert.Equal(t, int32(-1), *state.TickIndex)
	require.NotNil(t, state.FeeBps)
	assert.Equal(t, uint64(5), *state.FeeBps)
}

func TestCLMMCMissingRootFieldsIsParseError(t *testing.T) {
	_, err := parseCLMMC(map[string]any{}, testMeta(poolstate.VenueCLMMC), 1000)
	require.Error(t, err)
}
