package database

import (
	"gorm.io/gorm"

	"tradesift/internal/engine"
	"tradesift/internal/report"
)

// ThresholdMetric is one metrics summary row keyed by the run that produced
// it. QualityMetric is NULL when the run had no losing streak.
type ThresholdMetric struct {
	gorm.Model
	RunID           string `gorm:"index;size:64"`
	RRThreshold     int
	NetScore        float64
	MaxLosingStreak int
	TotalTrades     int
	QualityMetric   *float64
	FilePath        string `gorm:"size:512"`
}

// DrawdownResult is one reward level's worst-case search result.
type DrawdownResult struct {
	gorm.Model
	RunID            string `gorm:"index;size:64"`
	RewardLevel      int
	AbsoluteLowest   int
	StartingPosition int
	CalculationTime  float64
}

func thresholdMetrics(runID string, rows []report.MetricsRow) []ThresholdMetric {
	out := make([]ThresholdMetric, len(rows))
	for i, r := range rows {
		out[i] = ThresholdMetric{
			RunID:           runID,
			RRThreshold:     r.Run.Threshold,
			NetScore:        r.Run.NetScore,
			MaxLosingStreak: r.Run.MaxLosingStreak,
			TotalTrades:     r.Run.TradeCount,
			QualityMetric:   r.Run.QualityMetric,
			FilePath:        r.FilePath,
		}
	}
	return out
}

func drawdownResults(runID string, records []engine.DrawdownRecord) []DrawdownResult {
	out := make([]DrawdownResult, len(records))
	for i, r := range records {
		out[i] = DrawdownResult{
			RunID:            runID,
			RewardLevel:      r.RewardLevel,
			AbsoluteLowest:   r.AbsoluteLowest,
			StartingPosition: r.StartingPosition,
			CalculationTime:  r.ComputeSeconds,
		}
	}
	return out
}
