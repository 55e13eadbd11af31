package engine

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"tradesift/internal/core"
)

// ZeroStopLossPolicy decides what happens to the search when the dataset has
// no stop-loss trade to restart from.
type ZeroStopLossPolicy string

const (
	// ZeroStopLossSkip emits no record for such datasets.
	ZeroStopLossSkip ZeroStopLossPolicy = "skip"
	// ZeroStopLossZero falls back to a single restart at index 0.
	ZeroStopLossZero ZeroStopLossPolicy = "zero"
)

// Valid reports whether the policy is one of the defined values.
func (p ZeroStopLossPolicy) Valid() bool {
	return p == ZeroStopLossSkip || p == ZeroStopLossZero
}

// DrawdownConfig tunes the drawdown search.
type DrawdownConfig struct {
	Policy  ZeroStopLossPolicy
	Workers int // 0 means one worker per CPU
}

// DrawdownSearch finds the worst cumulative drawdown per integer reward
// level, restarting the running sum at index 0 and at every stop-loss trade.
type DrawdownSearch struct {
	policy  ZeroStopLossPolicy
	workers int
}

// NewDrawdownSearch creates a search with defaults applied.
func NewDrawdownSearch(cfg DrawdownConfig) *DrawdownSearch {
	if !cfg.Policy.Valid() {
		cfg.Policy = ZeroStopLossSkip
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &DrawdownSearch{policy: cfg.Policy, workers: cfg.Workers}
}

// Run searches every reward level from 1 to the floored maximum numeric
// reward/risk over the dataset, one task per level. Trades are evaluated in
// chronological order. Levels are independent: each task writes only its own
// result slot. Results come back in ascending level order. A cancelled
// context stops scheduling and returns the completed records alongside the
// context error.
func (d *DrawdownSearch) Run(ctx context.Context, trades core.TradeList) ([]DrawdownRecord, error) {
	chrono := trades.Clone()
	core.SortChronological(chrono)

	maxLevel := 0
	for _, t := range chrono {
		if v, ok := t.RewardRisk.Value(); ok {
			if level := int(math.Floor(v)); level > maxLevel {
				maxLevel = level
			}
		}
	}
	if maxLevel == 0 {
		return nil, ctx.Err()
	}

	restarts := restartPoints(chrono, d.policy)
	if restarts == nil {
		return nil, ctx.Err()
	}

	slots := make([]*DrawdownRecord, maxLevel)
	var wg sync.WaitGroup
	sem := make(chan struct{}, d.workers)
	for level := 1; level <= maxLevel; level++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(level int) {
			defer wg.Done()
			defer func() { <-sem }()
			rec := searchLevel(chrono, restarts, level)
			slots[level-1] = &rec
		}(level)
	}
	wg.Wait()

	records := make([]DrawdownRecord, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, ctx.Err()
}

// restartPoints returns index 0 plus the chronological index of every
// stop-loss trade. With no stop-loss trades the policy decides: skip the
// search (nil) or keep the single restart at index 0.
func restartPoints(chrono core.TradeList, policy ZeroStopLossPolicy) []int {
	points := []int{0}
	for i, t := range chrono {
		if t.RewardRisk.IsStopLoss() && i != 0 {
			points = append(points, i)
		}
	}
	if len(points) == 1 && !hasStopLoss(chrono) && policy == ZeroStopLossSkip {
		return nil
	}
	return points
}

func hasStopLoss(trades core.TradeList) bool {
	for _, t := range trades {
		if t.RewardRisk.IsStopLoss() {
			return true
		}
	}
	return false
}

// searchLevel finds the deepest running minimum for one reward level. Each
// trade becomes +level when its numeric reward/risk is at least the level,
// otherwise -1. A prefix sum over the units makes every restart a constant
// time lookup: the running minimum from restart r is the minimum prefix at
// or after r+1 shifted by the prefix at r, clamped at zero. Restarts are
// scanned in ascending order and ties keep the earliest index.
func searchLevel(chrono core.TradeList, restarts []int, level int) DrawdownRecord {
	start := time.Now()
	n := len(chrono)

	prefix := make([]int, n+1)
	for i, t := range chrono {
		unit := -1
		if v, ok := t.RewardRisk.Value(); ok && v >= float64(level) {
			unit = level
		}
		prefix[i+1] = prefix[i] + unit
	}

	suffixMin := make([]int, n+1)
	suffixMin[n] = prefix[n]
	for i := n - 1; i >= 0; i-- {
		suffixMin[i] = min(prefix[i], suffixMin[i+1])
	}

	lowest := 0
	position := restarts[0]
	for _, r := range restarts {
		low := min(0, suffixMin[r+1]-prefix[r])
		if low < lowest {
			lowest = low
			position = r
		}
	}

	return DrawdownRecord{
		RewardLevel:      level,
		AbsoluteLowest:   lowest,
		StartingPosition: position,
		ComputeSeconds:   time.Since(start).Seconds(),
	}
}
