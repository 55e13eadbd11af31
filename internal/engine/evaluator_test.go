package engine

import (
	"testing"
	"time"

	"tradesift/internal/core"
)

var testBase = time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC) // a Monday

// mkTrade builds a buy trade opened minute minutes after the base time.
func mkTrade(minute int, rr core.RewardRisk) core.Trade {
	return core.Trade{
		Timestamp:  testBase.Add(time.Duration(minute) * time.Minute),
		Direction:  core.DirectionBuy,
		Distance:   8,
		RewardRisk: rr,
	}
}

func mkList(rrs ...core.RewardRisk) core.TradeList {
	out := make(core.TradeList, len(rrs))
	for i, rr := range rrs {
		out[i] = mkTrade(i, rr)
	}
	return out
}

func TestEvaluateProfitability_PassFirstAttempt(t *testing.T) {
	list := mkList(core.Numeric(2), core.Numeric(2), core.Numeric(2))

	v := EvaluateProfitability(list)

	if !v.Pass {
		t.Fatal("expected pass")
	}
	if len(v.Steps) != 1 {
		t.Fatalf("Steps = %d, want 1", len(v.Steps))
	}
	step := v.Steps[0]
	if step.Result != 6 {
		t.Errorf("Result = %f, want 6 (2*3 - 0)", step.Result)
	}
}

func TestEvaluateProfitability_EscalatingStopLosses(t *testing.T) {
	list := mkList(
		core.Numeric(0.8), core.StopLoss(), core.Numeric(0.5),
		core.StopLoss(), core.Numeric(1.2),
	)

	v := EvaluateProfitability(list)

	if v.Pass {
		t.Fatal("expected fail")
	}
	if len(v.Steps) != 3 {
		t.Fatalf("Steps = %d, want 3", len(v.Steps))
	}

	// Attempts go through values ascending with the stop-loss count growing
	// by one per failed attempt.
	want := []FormulaStep{
		{Value: 0.5, Remaining: 3, StopLosses: 2, Result: -0.5},
		{Value: 0.8, Remaining: 2, StopLosses: 3, Result: -1.4},
		{Value: 1.2, Remaining: 1, StopLosses: 4, Result: -2.8},
	}
	for i, w := range want {
		got := v.Steps[i]
		if got.Value != w.Value || got.Remaining != w.Remaining || got.StopLosses != w.StopLosses {
			t.Errorf("step %d = %+v, want %+v", i, got, w)
		}
		if diff := got.Result - w.Result; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("step %d Result = %f, want %f", i, got.Result, w.Result)
		}
	}
}

func TestEvaluateProfitability_PassOnLaterAttempt(t *testing.T) {
	list := mkList(
		core.Numeric(0.1), core.Numeric(0.2), core.Numeric(5), core.StopLoss(),
	)

	v := EvaluateProfitability(list)

	if !v.Pass {
		t.Fatal("expected pass")
	}
	// 0.1*3-1 and 0.2*2-2 fail, 5*1-3 = 2 passes.
	if len(v.Steps) != 3 {
		t.Fatalf("Steps = %d, want 3", len(v.Steps))
	}
	last := v.Steps[2]
	if last.Result != 2 {
		t.Errorf("final Result = %f, want 2", last.Result)
	}
}

func TestEvaluateProfitability_NoNumericTrades(t *testing.T) {
	if v := EvaluateProfitability(mkList(core.StopLoss(), core.StopLoss())); v.Pass {
		t.Error("all stop-loss list must fail")
	}
	if v := EvaluateProfitability(nil); v.Pass {
		t.Error("empty list must fail")
	}
}

func TestEvaluateProfitability_OrderIndependent(t *testing.T) {
	a := mkList(core.Numeric(0.5), core.StopLoss(), core.Numeric(1.2), core.Numeric(0.8))
	b := mkList(core.Numeric(1.2), core.Numeric(0.8), core.Numeric(0.5), core.StopLoss())

	va := EvaluateProfitability(a)
	vb := EvaluateProfitability(b)

	if va.Pass != vb.Pass || len(va.Steps) != len(vb.Steps) {
		t.Fatalf("verdicts differ: %+v vs %+v", va, vb)
	}
	for i := range va.Steps {
		if va.Steps[i] != vb.Steps[i] {
			t.Errorf("step %d differs: %+v vs %+v", i, va.Steps[i], vb.Steps[i])
		}
	}
}

func TestEvaluateProfitability_RaisingValuesKeepsPass(t *testing.T) {
	base := mkList(core.Numeric(1), core.Numeric(1), core.StopLoss())
	if !EvaluateProfitability(base).Pass {
		t.Fatal("base list should pass (1*2 - 1 = 1)")
	}

	raised := mkList(core.Numeric(1), core.Numeric(6), core.StopLoss())
	if !EvaluateProfitability(raised).Pass {
		t.Error("raising a value must never turn a pass into a fail")
	}
}

func TestFormulaStep_String(t *testing.T) {
	step := FormulaStep{Value: 0.5, Remaining: 3, StopLosses: 2, Result: -0.5}
	want := "(0.5 x 3) - 2 = -0.50"
	if got := step.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
