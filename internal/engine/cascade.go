package engine

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"tradesift/internal/categorize"
	"tradesift/internal/core"
)

// Thresholds returns the distinct floored numeric reward/risk values in
// ascending order. Stop-loss trades contribute no threshold.
func Thresholds(trades core.TradeList) []int {
	seen := make(map[int]struct{})
	for _, t := range trades {
		if v, ok := t.RewardRisk.Value(); ok {
			seen[int(math.Floor(v))] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// CascadeConfig tunes the filter cascade.
type CascadeConfig struct {
	BucketPenaltyDivisor int // one penalty point per this many trades in a bucket
	Workers              int // 0 means one worker per CPU
}

// Cascade runs the three-stage group filter for every threshold.
type Cascade struct {
	penaltyDivisor int
	workers        int
}

// NewCascade creates a cascade runner with defaults applied.
func NewCascade(cfg CascadeConfig) *Cascade {
	if cfg.BucketPenaltyDivisor <= 0 {
		cfg.BucketPenaltyDivisor = DefaultBucketPenaltyDivisor
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Cascade{penaltyDivisor: cfg.BucketPenaltyDivisor, workers: cfg.Workers}
}

// Run executes the cascade for every threshold drawn from the dataset,
// fanning out one task per threshold. Each task reads the shared input and
// writes only its own result slot, so no coordination is needed beyond the
// final collect. Results come back in ascending threshold order, including
// thresholds where every group was eliminated (Final nil). A cancelled
// context stops scheduling and returns the completed slots alongside the
// context error.
func (c *Cascade) Run(ctx context.Context, trades core.TradeList) ([]CascadeResult, error) {
	thresholds := Thresholds(trades)
	slots := make([]*CascadeResult, len(thresholds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)
	for i, threshold := range thresholds {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(slot, threshold int) {
			defer wg.Done()
			defer func() { <-sem }()
			res := c.RunThreshold(trades, threshold)
			slots[slot] = &res
		}(i, threshold)
	}
	wg.Wait()

	results := make([]CascadeResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, ctx.Err()
}

// RunThreshold executes the three stages for a single threshold: group the
// full dataset by distance bucket, keep the buckets whose penalized score is
// positive, pool the survivors, then repeat the test re-grouping the pool by
// hour and finally by weekday. The pool is re-sorted by reward/risk between
// stages since grouping discards order. An empty pool at any stage abandons
// the threshold. The final pool comes back in chronological order.
func (c *Cascade) RunThreshold(trades core.TradeList, threshold int) CascadeResult {
	res := CascadeResult{Threshold: threshold}

	stages := []struct {
		name  string
		split func(core.TradeList) []categorize.Group
	}{
		{"distance", categorize.ByDistance},
		{"hour", categorize.ByHour},
		{"weekday", categorize.ByWeekday},
	}

	pool := trades
	for _, stage := range stages {
		groups := stage.split(pool)

		var survivors core.TradeList
		surviving := 0
		for _, g := range groups {
			if c.bucketScore(g.Trades, threshold) > 0 {
				survivors = append(survivors, g.Trades...)
				surviving++
			}
		}

		res.Levels = append(res.Levels, CascadeLevel{
			Name:            stage.name,
			InputGroups:     len(groups),
			SurvivingGroups: surviving,
			Survivors:       len(survivors),
		})

		if len(survivors) == 0 {
			return res
		}
		core.SortByRewardRisk(survivors)
		pool = survivors
	}

	core.SortChronological(pool)
	res.Final = pool
	return res
}

// bucketScore applies the contribution rule to a bucket and subtracts one
// point per penaltyDivisor trades.
func (c *Cascade) bucketScore(trades core.TradeList, threshold int) float64 {
	score := 0.0
	for _, t := range trades {
		score += contribution(t, threshold)
	}
	return score - float64(len(trades)/c.penaltyDivisor)
}
