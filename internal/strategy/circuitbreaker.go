// Package strategy contains the scanner (opportunity detection), optimizer
// (trade-size search), simulators and circuit breaker that together decide
// whether and how large a trade to submit.
package strategy

import "sync"

// CircuitBreaker halts trading on two independent trip conditions:
// too many consecutive losing/failed trades, or cumulative loss exceeding
// a threshold. Once tripped (open) it blocks trading until cooldown elapses.
type CircuitBreaker struct {
	mu sync.Mutex

	maxConsecutiveFailures int
	maxCumulativeLossMist  int64
	cooldownMs             uint64

	consecutiveFailures int
	cumulativePnLMist   int64
	totalTrades         uint64
	trippedAtMs         *uint64
	tripReason          string
}

// NewCircuitBreaker builds a breaker with the given thresholds.
func NewCircuitBreaker(maxConsecutiveFailures int, maxCumulativeLossMist int64, cooldownMs uint64) *CircuitBreaker {
	return &CircuitBreaker{
		maxConsecutiveFailures: maxConsecutiveFailures,
		maxCumulativeLossMist:  maxCumulativeLossMist,
		cooldownMs:             cooldownMs,
	}
}

// DefaultCircuitBreaker matches the configuration layer's default
// thresholds: 5 consecutive failures, 1 SUI cumulative loss, 60s cooldown.
func DefaultCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreaker(5, 1_000_000_000, 60_000)
}

// IsTradingAllowed reports whether trading may proceed at nowMs, auto-
// resetting the breaker if it was tripped and cooldown has elapsed since.
func (cb *CircuitBreaker) IsTradingAllowed(nowMs uint64) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.trippedAtMs == nil {
		return true
	}

	elapsed := saturatingSub(nowMs, *cb.trippedAtMs)
	if elapsed >= cb.cooldownMs {
		cb.resetLocked()
		return true
	}
	return false
}

// RecordSuccess records a profitable trade, resetting the consecutive
// failure counter but not the cumulative P&L.
func (cb *CircuitBreaker) RecordSuccess(profitMist int64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalTrades++
	cb.consecutiveFailures = 0
	cb.cumulativePnLMist += profitMist
}

// RecordFailure records a failed or losing trade (lossMist should be <= 0)
// and returns true if this trade tripped the breaker.
func (cb *CircuitBreaker) RecordFailure(lossMist int64, nowMs uint64) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalTrades++
	cb.consecutiveFailures++
	cb.cumulativePnLMist += lossMist

	if cb.consecutiveFailures >= cb.maxConsecutiveFailures {
		cb.tripLocked(nowMs, "consecutive failures limit reached")
		return true
	}
	if cb.cumulativePnLMist <= -cb.maxCumulativeLossMist {
		cb.tripLocked(nowMs, "cumulative loss limit exceeded")
		return true
	}
	return false
}

// Reset clears the trip state, keeping cumulative P&L for accounting.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.resetLocked()
}

func (cb *CircuitBreaker) resetLocked() {
	cb.consecutiveFailures = 0
	cb.trippedAtMs = nil
	cb.tripReason = ""
}

func (cb *CircuitBreaker) tripLocked(nowMs uint64, reason string) {
	at := nowMs
	cb.trippedAtMs = &at
	cb.tripReason = reason
}

// Stats is a point-in-time snapshot for status reporting/logging.
type Stats struct {
	ConsecutiveFailures int
	CumulativePnLMist   int64
	TotalTrades         uint64
	IsTripped           bool
	TripReason          string
}

// Stats returns the current breaker state.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{
		ConsecutiveFailures: cb.consecutiveFailures,
		CumulativePnLMist:   cb.cumulativePnLMist,
		TotalTrades:         cb.totalTrades,
		IsTripped:           cb.trippedAtMs != nil,
		TripReason:          cb.tripReason,
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a <= b {
		return 0
	}
	return a - b
}
