package report

import (
	"fmt"
	"strconv"
	"strings"

	"tradesift/internal/categorize"
	"tradesift/internal/engine"
)

// MetricsRow pairs a threshold run with the survivor file it was computed
// from.
type MetricsRow struct {
	Run      engine.ThresholdRun
	FilePath string
}

// RenderMetricsSummary renders the metrics summary table. An absent quality
// metric becomes an empty cell, never 0.
func RenderMetricsSummary(rows []MetricsRow) string {
	var sb strings.Builder

	sb.WriteString("rr_threshold,net_score,max_losing_streak,total_trades,quality_metric,file_path\n")
	for _, r := range rows {
		quality := ""
		if r.Run.QualityMetric != nil {
			quality = strconv.FormatFloat(*r.Run.QualityMetric, 'f', -1, 64)
		}
		sb.WriteString(fmt.Sprintf("%d,%s,%d,%d,%s,%s\n",
			r.Run.Threshold,
			strconv.FormatFloat(r.Run.NetScore, 'f', -1, 64),
			r.Run.MaxLosingStreak,
			r.Run.TradeCount,
			quality,
			r.FilePath,
		))
	}
	return sb.String()
}

// RenderDrawdownResults renders the per-level drawdown table.
func RenderDrawdownResults(records []engine.DrawdownRecord) string {
	var sb strings.Builder

	sb.WriteString("reward_level,absolute_lowest,starting_position,calculation_time_seconds\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%.2f\n",
			r.RewardLevel,
			r.AbsoluteLowest,
			r.StartingPosition,
			r.ComputeSeconds,
		))
	}
	return sb.String()
}

// RenderGroupSummary renders per-group statistics.
func RenderGroupSummary(summaries []categorize.GroupSummary) string {
	var sb strings.Builder

	sb.WriteString("group,total_trades,stop_losses,avg_reward_risk,avg_profit,avg_distance\n")
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%.2f,%.2f,%.2f\n",
			s.Name,
			s.TotalTrades,
			s.StopLosses,
			s.AvgRewardRisk,
			s.AvgProfit,
			s.AvgDistance,
		))
	}
	return sb.String()
}
