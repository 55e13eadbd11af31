package core

import "sort"

// SortByRewardRisk orders a list for evaluation: numeric reward/risk values
// ascending, every stop-loss record after every numeric record. The sort is
// stable, so ties and the stop-loss block keep their original relative order,
// and applying it twice yields the same order. Grouping operations discard
// ordering, so callers re-apply this after any re-grouping.
func SortByRewardRisk(trades TradeList) {
	sort.SliceStable(trades, func(i, j int) bool {
		a, b := trades[i].RewardRisk, trades[j].RewardRisk
		if a.IsStopLoss() || b.IsStopLoss() {
			return !a.IsStopLoss() && b.IsStopLoss()
		}
		av, _ := a.Value()
		bv, _ := b.Value()
		return av < bv
	})
}

// SortChronological orders a list by open timestamp, stable. Losing streaks
// and drawdowns are defined over this order, as are persisted result files.
func SortChronological(trades TradeList) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})
}
