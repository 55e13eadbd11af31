package engine

import (
	"tradesift/internal/core"
)

// ThresholdRun holds the scorer output for one reward/risk threshold.
type ThresholdRun struct {
	Threshold       int
	RawScore        float64
	NetScore        float64  // RawScore minus the trade-count adjustment
	MaxLosingStreak int      // longest chronological run of losing contributions
	QualityMetric   *float64 // nil when MaxLosingStreak is zero
	TradeCount      int
}

// CascadeLevel records one filtering stage of a threshold run.
type CascadeLevel struct {
	Name            string
	InputGroups     int
	SurvivingGroups int
	Survivors       int
}

// CascadeResult is the outcome of the filter cascade for one threshold.
// Final is nil when some stage eliminated every group; Levels still report
// how far the threshold got.
type CascadeResult struct {
	Threshold int
	Levels    []CascadeLevel
	Final     core.TradeList // chronologically ordered
}

// Survived reports whether any trades made it through all stages.
func (r CascadeResult) Survived() bool {
	return len(r.Final) > 0
}

// DrawdownRecord is the worst cumulative drawdown found for one reward level.
type DrawdownRecord struct {
	RewardLevel      int
	AbsoluteLowest   int // never positive
	StartingPosition int
	ComputeSeconds   float64
}
