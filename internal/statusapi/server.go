// Package statusapi exposes the bot's liveness and trading status over a
// small Gin HTTP server, independent of the execution loop it reports on:
// a scrape or curl against this server never blocks, and never touches the
// chain RPC.
package statusapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Snapshot is a point-in-time view of the bot's trading state, published by
// the execution loop after every tick and read by the HTTP handlers. It is
// swapped atomically rather than locked, so a slow reader never stalls the
// trading loop.
type Snapshot struct {
	HeartbeatAgeMs      uint64 `json:"heartbeatAgeMs"`
	CachedPools         int    `json:"cachedPools"`
	FreshPools          int    `json:"freshPools"`
	CircuitBreakerOpen  bool   `json:"circuitBreakerOpen"`
	TripReason          string `json:"tripReason,omitempty"`
	ConsecutiveFailures int    `json:"consecutiveFailures"`
	CumulativePnLMist   int64  `json:"cumulativePnlMist"`
	TotalTrades         uint64 `json:"totalTrades"`
	GasBalanceMist      uint64 `json:"gasBalanceMist"`
	LastTickAtMs        uint64 `json:"lastTickAtMs"`
}

var (
	tradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbmove_trades_total",
		Help: "Total number of submitted arbitrage transactions.",
	})
	tradesSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbmove_trades_success_total",
		Help: "Total number of successfully executed arbitrage transactions.",
	})
	cumulativePnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbmove_cumulative_pnl_mist",
		Help: "Cumulative realized profit and loss in MIST.",
	})
	heartbeatAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbmove_heartbeat_age_ms",
		Help: "Milliseconds since the collector last updated any pool.",
	})
	gasBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbmove_gas_balance_mist",
		Help: "Last observed wallet SUI balance in MIST.",
	})
)

// RecordTrade updates the trade-outcome counters; called by the execution
// loop once per submitted transaction.
func RecordTrade(success bool) {
	tradesTotal.Inc()
	if success {
		tradesSuccessTotal.Inc()
	}
}

// Server serves /healthz, /status and /metrics over the configured address.
type Server struct {
	engine   *gin.Engine
	addr     string
	snapshot atomic.Pointer[Snapshot]
	log      *zap.Logger
}

// NewServer builds a Server bound to addr (host:port), not yet listening.
func NewServer(addr string, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	s := &Server{engine: engine, addr: addr, log: log}

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/status", s.handleStatus)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.snapshot.Store(&Snapshot{})
	return s
}

// Publish swaps in the latest snapshot and mirrors its fields into the
// Prometheus gauges that aren't already maintained by dedicated counters.
func (s *Server) Publish(snap Snapshot) {
	s.snapshot.Store(&snap)
	cumulativePnL.Set(float64(snap.CumulativePnLMist))
	heartbeatAge.Set(float64(snap.HeartbeatAgeMs))
	gasBalance.Set(float64(snap.GasBalanceMist))
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	snap := s.snapshot.Load()
	c.JSON(http.StatusOK, snap)
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully with a bounded timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting status server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
