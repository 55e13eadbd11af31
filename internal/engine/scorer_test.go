package engine

import (
	"math"
	"testing"

	"tradesift/internal/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_MixedList(t *testing.T) {
	// Chronological: 1.5 (loses at 2), 3 (wins +2), SL (loses).
	list := mkList(core.Numeric(1.5), core.Numeric(3), core.StopLoss())

	run := NewScorer(DefaultNetScoreDivisor).Score(list, 2)

	if !almostEqual(run.RawScore, 0) {
		t.Errorf("RawScore = %f, want 0", run.RawScore)
	}
	if !almostEqual(run.NetScore, -0.3) {
		t.Errorf("NetScore = %f, want -0.3", run.NetScore)
	}
	if run.MaxLosingStreak != 1 {
		t.Errorf("MaxLosingStreak = %d, want 1", run.MaxLosingStreak)
	}
	if run.QualityMetric == nil {
		t.Fatal("QualityMetric should be present")
	}
	if !almostEqual(*run.QualityMetric, -3.0) {
		t.Errorf("QualityMetric = %f, want -3.0", *run.QualityMetric)
	}
	if run.TradeCount != 3 {
		t.Errorf("TradeCount = %d, want 3", run.TradeCount)
	}
}

func TestScore_NoLosers_QualityAbsent(t *testing.T) {
	list := mkList(core.Numeric(3), core.Numeric(4), core.Numeric(5))

	run := NewScorer(DefaultNetScoreDivisor).Score(list, 2)

	if !almostEqual(run.RawScore, 6) {
		t.Errorf("RawScore = %f, want 6", run.RawScore)
	}
	if !almostEqual(run.NetScore, 5.7) {
		t.Errorf("NetScore = %f, want 5.7", run.NetScore)
	}
	if run.MaxLosingStreak != 0 {
		t.Errorf("MaxLosingStreak = %d, want 0", run.MaxLosingStreak)
	}
	if run.QualityMetric != nil {
		t.Errorf("QualityMetric = %f, want absent", *run.QualityMetric)
	}
}

func TestScore_StreakUsesChronologicalOrder(t *testing.T) {
	// Chronological order: win, lose, lose, win. Handing the scorer the
	// reward/risk-sorted view must not change the streak.
	list := core.TradeList{
		mkTrade(0, core.Numeric(3)),
		mkTrade(1, core.StopLoss()),
		mkTrade(2, core.Numeric(1)),
		mkTrade(3, core.Numeric(4)),
	}
	sorted := list.Clone()
	core.SortByRewardRisk(sorted)

	run := NewScorer(DefaultNetScoreDivisor).Score(sorted, 2)

	if run.MaxLosingStreak != 2 {
		t.Errorf("MaxLosingStreak = %d, want 2", run.MaxLosingStreak)
	}
}

func TestScore_ThresholdBoundaryIsStrict(t *testing.T) {
	// A value equal to the threshold loses; only strictly greater wins.
	list := mkList(core.Numeric(2))

	run := NewScorer(DefaultNetScoreDivisor).Score(list, 2)

	if !almostEqual(run.RawScore, -1) {
		t.Errorf("RawScore = %f, want -1", run.RawScore)
	}
}

func TestScore_StopLossesAlwaysLose(t *testing.T) {
	list := mkList(core.StopLoss(), core.StopLoss(), core.Numeric(5))

	run := NewScorer(DefaultNetScoreDivisor).Score(list, 1)

	if !almostEqual(run.RawScore, -1) {
		t.Errorf("RawScore = %f, want -1 (-1 -1 +1)", run.RawScore)
	}
	if run.MaxLosingStreak != 2 {
		t.Errorf("MaxLosingStreak = %d, want 2", run.MaxLosingStreak)
	}
}

func TestNewScorer_DefaultDivisor(t *testing.T) {
	list := mkList(core.Numeric(5), core.Numeric(5))

	run := NewScorer(0).Score(list, 1)

	// raw 2, minus 2/10
	if !almostEqual(run.NetScore, 1.8) {
		t.Errorf("NetScore = %f, want 1.8", run.NetScore)
	}
}

func TestSummarizeQuality_ExcludesAbsent(t *testing.T) {
	q1, q2 := 5.0, -3.0
	runs := []ThresholdRun{
		{Threshold: 1},
		{Threshold: 2, QualityMetric: &q1},
		{Threshold: 3},
		{Threshold: 4, QualityMetric: &q2},
	}

	s := SummarizeQuality(runs)

	if s.Present != 2 {
		t.Fatalf("Present = %d, want 2", s.Present)
	}
	if s.Best != 5.0 || s.BestRR != 2 {
		t.Errorf("Best = %f at %d, want 5.0 at 2", s.Best, s.BestRR)
	}
	if s.Worst != -3.0 || s.WorstRR != 4 {
		t.Errorf("Worst = %f at %d, want -3.0 at 4", s.Worst, s.WorstRR)
	}
	// Absent metrics are excluded from the mean, not counted as zero.
	if !almostEqual(s.Average, 1.0) {
		t.Errorf("Average = %f, want 1.0", s.Average)
	}
}

func TestSummarizeQuality_AllAbsent(t *testing.T) {
	s := SummarizeQuality([]ThresholdRun{{Threshold: 1}, {Threshold: 2}})
	if s.Present != 0 {
		t.Errorf("Present = %d, want 0", s.Present)
	}
}
