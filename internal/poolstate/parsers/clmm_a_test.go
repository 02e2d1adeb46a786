package parsers

import (
	"testing"

	"github.com/arbmove/bot/internal/poolstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta(venue poolstate.Venue) Meta {
	return Meta{ObjectID: "0xpool", Venue: venue, CoinA: "SUI", CoinB: "USDC"}
}

// TestCLMMAParseDecodesSignedTickAndFee verifies that bits=4294967196
// unwraps to the signed tick -100, sqrt_price=2^64 with liquidity=1e9
// prices at 1.0, and fee_rate=2500 converts to 25 bps.
func TestCLMMAParseDecodesSignedTickAndFee(t *testing.T) {
	content := map[string]any{
		"fields": map[string]any{
			"current_sqrt_price": "18446744073709551616", // 2^64
			"liquidity":           "1000000000",
			"current_tick_index": map[string]any{
				"fields": map[string]any{
					"bits": float64(4294967196),
				},
			},
			"fee_rate": float64(2500),
		},
	}

	state, err := parseCLMMA(content, testMeta(poolstate.VenueCLMMA), 1000)
	require.NoError(t, err)
	require.NotNil(t, state.TickIndex)
	assert.Equal(t, int32(-100), *state.TickIndex)
	require.NotNil(t, state.FeeBps)
	assert.Equal(t, uint64(25), *state.FeeBps)

	price, ok := state.PriceAInB()
	require.True(t, ok)
	assert.InDelta(t, 1.0, price, 1e-9)
}

func TestCLMMAMissingRootFieldsIsParseError(t *testing.T) {
	_, err := parseCLMMA(map[string]any{}, testMeta(poolstate.VenueCLMMA), 1000)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "CLMM_A", pe.Venue)
}

// TestTickBitsTwosComplementBoundaries checks the two's-complement unwrap
// at zero, a positive tick, and the two negative-tick boundary bit patterns.
func TestTickBitsTwosComplementBoundaries(t *testing.T) {
	cases := []struct {
		bits uint64
		want int32
	}{
		{0, 0},
		{100, 100},
		{4294967295, -1},  // 2^32 - 1
		{4294967196, -100}, // 2^32 - 100
	}
	for _, c := range cases {
		assert.Equal(t, c.want, tickBitsToInt32(c.bits))
	}
}

// TestU64AcceptsNumericOrStringEncoding checks that a field parses to the
// same value whether Sui RPC emits it as a JSON number or a JSON string.
func TestU64AcceptsNumericOrStringEncoding(t *testing.T) {
	m := tree{"a": float64(42), "b": "42"}
	v1, ok1 := m.u64("a")
	v2, ok2 := m.u64("b")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, v1, v2)
}
