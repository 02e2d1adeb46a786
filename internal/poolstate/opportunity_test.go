package poolstate

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsProfitable(t *testing.T) {
	o := ArbOpportunity{NetProfit: 1}
	if !o.IsProfitable() {
		t.Error("expected profitable")
	}
	o.NetProfit = 0
	if o.IsProfitable() {
		t.Error("zero net profit should not be profitable")
	}
	o.NetProfit = -1
	if o.IsProfitable() {
		t.Error("negative net profit should not be profitable")
	}
}

func TestMinProfitGuard(t *testing.T) {
	o := ArbOpportunity{ExpectedProfit: 1000}
	if got := o.MinProfitGuard(); got != 900 {
		t.Errorf("MinProfitGuard() = %d, want 900", got)
	}
	o.ExpectedProfit = 0
	if got := o.MinProfitGuard(); got != 1 {
		t.Errorf("MinProfitGuard() floor = %d, want 1", got)
	}
}

func TestMoveModuleTwoHopVsTriHop(t *testing.T) {
	if StratCLMMAToCLMMB.MoveModule() != twoHopModule {
		t.Error("two-hop strategy should map to two_hop module")
	}
	if StratTriAAA.MoveModule() != triHopModule {
		t.Error("tri-hop strategy should map to tri_hop module")
	}
}

func TestTraceIDIsAssignable(t *testing.T) {
	o := ArbOpportunity{TraceID: uuid.New()}
	if o.TraceID == uuid.Nil {
		t.Error("expected a non-nil trace id")
	}
}
