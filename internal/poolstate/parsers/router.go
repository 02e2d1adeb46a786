package parsers

import (
	"strings"

	"github.com/arbmove/bot/internal/poolstate"
)

// ParsePoolObject dispatches content (the decoded Move object's "content"
// tree) to the parser registered for venue, case-insensitively. typeString
// is the object's Move type string, needed only by CLMM_B's fee-tier
// extraction; other parsers ignore it. Unknown venues return a ParseError
// rather than a panic, since venue comes from configuration and a typo
// there must fail loudly rather than silently skip a pool.
func ParsePoolObject(content map[string]any, typeString string, venue poolstate.Venue, meta Meta, nowMs uint64) (*poolstate.PoolState, error) {
	switch strings.ToUpper(string(venue)) {
	case string(poolstate.VenueCLMMA):
		return parseCLMMA(content, meta, nowMs)
	case string(poolstate.VenueCLMMB):
		return parseCLMMB(content, typeString, meta, nowMs)
	case string(poolstate.VenueCLMMC):
		return parseCLMMC(content, meta, nowMs)
	case string(poolstate.VenueAMMA):
		return parseAMMA(content, meta, nowMs)
	case string(poolstate.VenueAMMB):
		return parseAMMB(content, meta, nowMs)
	case string(poolstate.VenueCLOB):
		return parseCLOB(content, meta, nowMs)
	default:
		return nil, &ParseError{Venue: string(venue), Reason: "unrecognized venue"}
	}
}
