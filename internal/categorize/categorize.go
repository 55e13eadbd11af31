// Package categorize splits trade lists into named groups along a single
// dimension. Buy and sell populations never share a group, and group order
// is deterministic (sorted by name). Groups inherit no ordering guarantee;
// callers re-sort as needed.
package categorize

import (
	"fmt"
	"sort"
	"strings"

	"tradesift/internal/core"
)

// Group is a named slice of trades sharing one dimension value.
type Group struct {
	Name   string
	Trades core.TradeList
}

// ByDistance groups by direction and floored distance ("buy_distance_8").
func ByDistance(trades core.TradeList) []Group {
	return splitBy(trades, func(t core.Trade) string {
		return fmt.Sprintf("%s_distance_%d", t.Direction.Tag(), int(t.Distance))
	})
}

// ByHour groups by direction and hour of day ("sell_hour_06").
func ByHour(trades core.TradeList) []Group {
	return splitBy(trades, func(t core.Trade) string {
		return fmt.Sprintf("%s_hour_%02d", t.Direction.Tag(), t.Hour())
	})
}

// ByWeekday groups by direction and weekday ("buy_monday").
func ByWeekday(trades core.TradeList) []Group {
	return splitBy(trades, func(t core.Trade) string {
		return fmt.Sprintf("%s_%s", t.Direction.Tag(), strings.ToLower(t.Weekday().String()))
	})
}

func splitBy(trades core.TradeList, key func(core.Trade) string) []Group {
	buckets := make(map[string]core.TradeList)
	for _, t := range trades {
		k := key(t)
		buckets[k] = append(buckets[k], t)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, len(names))
	for i, name := range names {
		groups[i] = Group{Name: name, Trades: buckets[name]}
	}
	return groups
}

// GroupSummary holds descriptive statistics for one group.
type GroupSummary struct {
	Name          string
	TotalTrades   int
	StopLosses    int
	AvgRewardRisk float64 // mean of numeric values, 0 when all stop-loss
	AvgProfit     float64
	AvgDistance   float64
}

// Summarize computes per-group statistics in group order.
func Summarize(groups []Group) []GroupSummary {
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		s := GroupSummary{Name: g.Name, TotalTrades: len(g.Trades)}

		var rrSum, profitSum, distSum float64
		numeric := 0
		for _, t := range g.Trades {
			if v, ok := t.RewardRisk.Value(); ok {
				rrSum += v
				numeric++
			} else {
				s.StopLosses++
			}
			profitSum += t.MaxProfit
			distSum += t.Distance
		}

		if numeric > 0 {
			s.AvgRewardRisk = rrSum / float64(numeric)
		}
		if len(g.Trades) > 0 {
			s.AvgProfit = profitSum / float64(len(g.Trades))
			s.AvgDistance = distSum / float64(len(g.Trades))
		}
		out = append(out, s)
	}
	return out
}
