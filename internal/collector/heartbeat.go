package collector

import "sync/atomic"

// Heartbeat is a single atomic millisecond timestamp shared between the
// collector tasks that update the pool cache and the execution loop that
// reads its liveness. Bump is called on every cycle that successfully
// updates at least one pool, and on restart of a supervised stream, so a
// transient reconnect never looks like prolonged collector death.
type Heartbeat struct {
	lastBumpMs atomic.Uint64
}

// NewHeartbeat returns a Heartbeat already bumped to now, so a freshly
// started bot doesn't trip the liveness gate before its first cycle.
func NewHeartbeat(nowMs uint64) *Heartbeat {
	h := &Heartbeat{}
	h.lastBumpMs.Store(nowMs)
	return h
}

// Bump records nowMs as the time of the most recent successful cycle.
func (h *Heartbeat) Bump(nowMs uint64) {
	h.lastBumpMs.Store(nowMs)
}

// AgeMs reports how long it has been since the last bump, saturating at
// zero if nowMs predates it.
func (h *Heartbeat) AgeMs(nowMs uint64) uint64 {
	last := h.lastBumpMs.Load()
	if nowMs <= last {
		return 0
	}
	return nowMs - last
}
