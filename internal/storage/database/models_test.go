package database

import (
	"testing"

	"tradesift/internal/engine"
	"tradesift/internal/report"
)

func TestThresholdMetrics(t *testing.T) {
	q := -3.0
	rows := []report.MetricsRow{
		{
			Run: engine.ThresholdRun{
				Threshold: 2, NetScore: -0.3, MaxLosingStreak: 1,
				QualityMetric: &q, TradeCount: 3,
			},
			FilePath: "rr_threshold_2/final_result_rr_2.csv",
		},
		{
			Run:      engine.ThresholdRun{Threshold: 5, NetScore: 5.7, TradeCount: 3},
			FilePath: "rr_threshold_5/final_result_rr_5.csv",
		},
	}

	got := thresholdMetrics("run-1", rows)

	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	first := got[0]
	if first.RunID != "run-1" || first.RRThreshold != 2 || first.NetScore != -0.3 {
		t.Errorf("first = %+v", first)
	}
	if first.QualityMetric == nil || *first.QualityMetric != -3.0 {
		t.Errorf("QualityMetric = %v, want -3.0", first.QualityMetric)
	}
	// An undefined quality metric stays NULL, never zero.
	if got[1].QualityMetric != nil {
		t.Errorf("QualityMetric = %v, want nil", *got[1].QualityMetric)
	}
	if got[1].FilePath != "rr_threshold_5/final_result_rr_5.csv" {
		t.Errorf("FilePath = %q", got[1].FilePath)
	}
}

func TestDrawdownResults(t *testing.T) {
	records := []engine.DrawdownRecord{
		{RewardLevel: 1, AbsoluteLowest: -4, StartingPosition: 1, ComputeSeconds: 0.02},
	}

	got := drawdownResults("run-2", records)

	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	r := got[0]
	if r.RunID != "run-2" || r.RewardLevel != 1 || r.AbsoluteLowest != -4 ||
		r.StartingPosition != 1 || r.CalculationTime != 0.02 {
		t.Errorf("row = %+v", r)
	}
}
