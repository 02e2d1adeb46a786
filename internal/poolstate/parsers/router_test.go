package parsers

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoolObjectDispatchesByVenue(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"reserve_x": float64(1),
			"reserve_y": float64(2),
			"fee_rate":  float64(3),
		},
	}
	state, err := ParsePoolObject(content, "", poolstate.VenueAMMB, testMeta(poolstate.VenueAMMB), 1000)
	require.NoError(t, err)
	assert.Equal(t, poolstate.VenueAMMB, state.Venue)
}

func TestParsePoolObjectIsCaseInsensitive(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"reserve_x": float64(1),
			"reserve_y": float64(2),
		},
	}
	_, err := ParsePoolObject(content, "", poolstate.Venue("amm_b"), testMeta(poolstate.VenueAMMB), 1000)
	require.NoError(t, err)
}

func TestParsePoolObjectUnknownVenueIsParseError(t *testing.T) {
	_, err := ParsePoolObject(map[string]any{}, "", poolstate.Venue("NOT_A_VENUE"), Meta{}, 1000)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
