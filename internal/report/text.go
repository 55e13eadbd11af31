package report

import (
	"fmt"
	"strings"

	"tradesift/internal/engine"
)

// ThresholdSection is one threshold's cascade outcome plus, when the
// threshold survived, its scorer run.
type ThresholdSection struct {
	Cascade engine.CascadeResult
	Run     *engine.ThresholdRun
}

// RenderThresholdReport renders the human-readable cascade report: stage
// detail per threshold, scorer numbers for the survivors, and an aggregate
// block over the quality metrics that exist.
func RenderThresholdReport(sections []ThresholdSection) string {
	var sb strings.Builder

	sb.WriteString("THRESHOLD ANALYSIS\n")
	sb.WriteString("==================\n\n")

	runs := make([]engine.ThresholdRun, 0, len(sections))
	for _, sec := range sections {
		sb.WriteString(fmt.Sprintf("R/R threshold %d\n", sec.Cascade.Threshold))
		for _, lvl := range sec.Cascade.Levels {
			sb.WriteString(fmt.Sprintf("  %-8s %d groups in, %d survived, %d trades\n",
				lvl.Name, lvl.InputGroups, lvl.SurvivingGroups, lvl.Survivors))
		}
		if !sec.Cascade.Survived() {
			sb.WriteString("  abandoned: no surviving group\n\n")
			continue
		}
		if sec.Run != nil {
			run := *sec.Run
			sb.WriteString(fmt.Sprintf("  trades %d | raw %.1f | net %.1f | losing streak %d | quality %s\n",
				run.TradeCount, run.RawScore, run.NetScore, run.MaxLosingStreak,
				qualityString(run.QualityMetric)))
			runs = append(runs, run)
		}
		sb.WriteString("\n")
	}

	stats := engine.SummarizeQuality(runs)
	sb.WriteString(fmt.Sprintf("thresholds analyzed: %d\n", len(sections)))
	if stats.Present == 0 {
		sb.WriteString("quality metric: no defined values\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("best quality:    %.4f (R/R = %d)\n", stats.Best, stats.BestRR))
	sb.WriteString(fmt.Sprintf("worst quality:   %.4f (R/R = %d)\n", stats.Worst, stats.WorstRR))
	sb.WriteString(fmt.Sprintf("average quality: %.4f over %d defined\n", stats.Average, stats.Present))
	return sb.String()
}

func qualityString(q *float64) string {
	if q == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *q)
}

// RenderDrawdownReport renders the per-level drawdown lines plus the global
// worst case.
func RenderDrawdownReport(records []engine.DrawdownRecord) string {
	var sb strings.Builder

	sb.WriteString("DRAWDOWN SEARCH\n")
	sb.WriteString("===============\n\n")

	if len(records) == 0 {
		sb.WriteString("no reward levels searched\n")
		return sb.String()
	}

	worst := records[0]
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("reward level %d: lowest %d from index %d (%.2fs)\n",
			r.RewardLevel, r.AbsoluteLowest, r.StartingPosition, r.ComputeSeconds))
		if r.AbsoluteLowest < worst.AbsoluteLowest {
			worst = r
		}
	}
	sb.WriteString(fmt.Sprintf("\nworst case: %d at reward level %d (restart index %d)\n",
		worst.AbsoluteLowest, worst.RewardLevel, worst.StartingPosition))
	return sb.String()
}

// ScreenRow is one group's profitability verdict.
type ScreenRow struct {
	Name    string
	Verdict engine.Verdict
}

// RenderScreenReport renders the pass/fail screen with each group's formula
// attempts.
func RenderScreenReport(rows []ScreenRow) string {
	var sb strings.Builder

	sb.WriteString("PROFITABILITY SCREEN\n")
	sb.WriteString("====================\n\n")

	passed := 0
	for _, row := range rows {
		verdict := "FAIL"
		if row.Verdict.Pass {
			verdict = "PASS"
			passed++
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", row.Name, verdict))
		for _, step := range row.Verdict.Steps {
			sb.WriteString("    " + step.String() + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d groups pass\n", passed, len(rows)))
	return sb.String()
}
