package parsers

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAMMBParsesUnwrappedFields(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"reserve_x": float64(1_000_000),
			"reserve_y": float64(2_000_000),
			"fee_rate":  float64(30),
		},
	}
	state, err := parseAMMB(content, testMeta(poolstate.VenueAMMB), 1000)
	require.NoError(t, err)
	require.NotNil(t, state.ReserveA)
	require.NotNil(t, state.ReserveB)
	require.NotNil(t, state.FeeBps)
	assert.Equal(t, uint64(1_000_000), *state.ReserveA)
	assert.Equal(t, uint64(2_000_000), *state.ReserveB)
	assert.Equal(t, uint64(30), *state.FeeBps)
}

func TestAMMBUnwrapsDynamicFieldEnvelope(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"name": "pool_registry_entry",
			"value": map[string]any{
				"fields": map[string]any{
					"reserve_x": float64(10),
					"reserve_y": float64(20),
					"fee_rate":  float64(5),
				},
			},
		},
	}
	state, err := parseAMMB(content, testMeta(poolstate.VenueAMMB), 1000)
	require.NoError(t, err)
	require.NotNil(t, state.ReserveA)
	assert.Equal(t, uint64(10), *state.ReserveA)
	assert.Equal(t, uint64(20), *state.ReserveB)
}

func TestAMMBMissingRootFieldsIsParseError(t *testing.T) {
	_, err := parseAMMB(map[string]any{}, testMeta(poolstate.VenueAMMB), 1000)
	require.Error(t, err)
}
