package engine

import (
	"tradesift/internal/core"
)

// Default divisors for the score adjustments.
const (
	DefaultNetScoreDivisor      = 10
	DefaultBucketPenaltyDivisor = 20
)

// contribution is a trade's score contribution at an integer threshold:
// +threshold when the numeric reward/risk strictly exceeds the threshold,
// otherwise -1. Stop-loss trades always contribute -1.
func contribution(t core.Trade, threshold int) float64 {
	if v, ok := t.RewardRisk.Value(); ok && v > float64(threshold) {
		return float64(threshold)
	}
	return -1
}

// Scorer computes per-threshold quality metrics.
type Scorer struct {
	netDivisor float64
}

// NewScorer creates a scorer. A non-positive divisor falls back to the
// default of one score point per ten trades.
func NewScorer(netScoreDivisor int) *Scorer {
	if netScoreDivisor <= 0 {
		netScoreDivisor = DefaultNetScoreDivisor
	}
	return &Scorer{netDivisor: float64(netScoreDivisor)}
}

// Score evaluates a trade list against one integer threshold. The losing
// streak is measured over the list's chronological order regardless of how
// the caller has sorted it. The quality metric is absent, not zero, when
// the list has no losing trade at this threshold.
func (s *Scorer) Score(trades core.TradeList, threshold int) ThresholdRun {
	raw := 0.0
	for _, t := range trades {
		raw += contribution(t, threshold)
	}
	net := raw - float64(len(trades))/s.netDivisor

	chrono := trades.Clone()
	core.SortChronological(chrono)
	streak := maxLosingStreak(chrono, threshold)

	run := ThresholdRun{
		Threshold:       threshold,
		RawScore:        raw,
		NetScore:        net,
		MaxLosingStreak: streak,
		TradeCount:      len(trades),
	}
	if streak > 0 {
		q := (10 / float64(streak)) * net
		run.QualityMetric = &q
	}
	return run
}

// maxLosingStreak is the longest run of consecutive losing contributions.
func maxLosingStreak(chrono core.TradeList, threshold int) int {
	longest, current := 0, 0
	for _, t := range chrono {
		if contribution(t, threshold) < 0 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// QualityStats aggregates the quality metrics that are present across runs.
type QualityStats struct {
	Present int // runs carrying a quality metric
	BestRR  int
	Best    float64
	WorstRR int
	Worst   float64
	Average float64
}

// SummarizeQuality computes best, worst, and average quality metric over the
// runs that have one. Absent metrics are excluded, never counted as zero.
func SummarizeQuality(runs []ThresholdRun) QualityStats {
	var s QualityStats
	sum := 0.0
	for _, r := range runs {
		if r.QualityMetric == nil {
			continue
		}
		q := *r.QualityMetric
		if s.Present == 0 || q > s.Best {
			s.Best = q
			s.BestRR = r.Threshold
		}
		if s.Present == 0 || q < s.Worst {
			s.Worst = q
			s.WorstRR = r.Threshold
		}
		sum += q
		s.Present++
	}
	if s.Present > 0 {
		s.Average = sum / float64(s.Present)
	}
	return s
}
