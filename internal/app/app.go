package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradesift/internal/categorize"
	"tradesift/internal/config"
	"tradesift/internal/core"
	"tradesift/internal/dataset"
	"tradesift/internal/engine"
	"tradesift/internal/generator"
	"tradesift/internal/metrics"
	"tradesift/internal/report"
	"tradesift/internal/storage/archive"
	"tradesift/internal/storage/database"
)

// Result file names, relative to the output directory.
const (
	MetricsSummaryFile  = "metrics_summary.csv"
	ThresholdReportFile = "threshold_report.txt"
	DrawdownFile        = "lowest_drawdown_results.csv"
	DrawdownReportFile  = "drawdown_report.txt"
	ScreenReportFile    = "screen_report.txt"
	GroupSummaryFile    = "group_summary.csv"
	RemovedTradesFile   = "removed_trades.csv"
)

// App is the main pipeline orchestrator
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Registry
	runID   string

	cascade  *engine.Cascade
	scorer   *engine.Scorer
	drawdown *engine.DrawdownSearch

	store archive.Store     // nil when archival is disabled
	db    *database.Service // nil when database export is disabled
}

// New creates a new App instance
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	a := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewRegistry(),
		runID:   runID,

		cascade: engine.NewCascade(engine.CascadeConfig{
			BucketPenaltyDivisor: cfg.Engine.BucketPenaltyDivisor,
			Workers:              cfg.Engine.Workers,
		}),
		scorer: engine.NewScorer(cfg.Engine.NetScoreDivisor),
		drawdown: engine.NewDrawdownSearch(engine.DrawdownConfig{
			Policy:  engine.ZeroStopLossPolicy(cfg.Drawdown.ZeroStopLossPolicy),
			Workers: cfg.Engine.Workers,
		}),
	}

	if cfg.Archive.Enabled {
		store, err := newStore(cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating archive store: %w", err)
		}
		a.store = store
	}

	if cfg.Database.Enabled {
		db, err := database.NewService(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		a.db = db
	}

	return a, nil
}

func newStore(cfg config.ArchiveConfig) (archive.Store, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

// RunID returns this App's run identifier.
func (a *App) RunID() string {
	return a.runID
}

// Metrics returns the App's metrics registry for exposition.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Generate simulates trades from the configured candle file and writes
// them to the configured trade file.
func (a *App) Generate(ctx context.Context) (generator.Stats, error) {
	candles, err := dataset.LoadCandles(a.cfg.Input.Candles)
	if err != nil {
		return generator.Stats{}, err
	}

	a.logger.Info("candles loaded",
		zap.String("path", a.cfg.Input.Candles),
		zap.Int("count", len(candles)),
	)

	sim := generator.New(a.cfg.Generator.SimulatorConfig())
	trades, stats := sim.Run(candles)

	if err := dataset.SaveTrades(a.cfg.Input.Trades, trades); err != nil {
		return stats, err
	}

	a.logger.Info("trades generated",
		zap.String("path", a.cfg.Input.Trades),
		zap.Int("opened", stats.Opened),
		zap.Int("filtered", stats.Filtered),
		zap.Int("open_at_end", stats.OpenAtEnd),
	)

	return stats, nil
}

// AnalyzeResult collects the analyze stage outputs that later stages
// (reports, database export) consume.
type AnalyzeResult struct {
	Sections []report.ThresholdSection
	Rows     []report.MetricsRow // surviving thresholds only
}

// Survived counts thresholds whose trades made it through the cascade.
func (r *AnalyzeResult) Survived() int {
	return len(r.Rows)
}

// Analyze runs the filter cascade over the configured trade file, scores
// every surviving threshold, and writes survivor files, the metrics
// summary, and the threshold report.
func (a *App) Analyze(ctx context.Context) (*AnalyzeResult, error) {
	trades, err := a.loadTrades()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := a.cascade.Run(ctx, trades)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordCascade(time.Since(start).Seconds())

	res := &AnalyzeResult{}
	for _, cr := range results {
		for _, lvl := range cr.Levels {
			a.metrics.RecordCascadeGroups(lvl.Name, lvl.InputGroups, lvl.SurvivingGroups)
		}
		if !cr.Survived() {
			a.metrics.RecordThreshold("abandoned")
			a.logger.Info("threshold abandoned",
				zap.Int("threshold", cr.Threshold),
				zap.Int("levels", len(cr.Levels)),
			)
			res.Sections = append(res.Sections, report.ThresholdSection{Cascade: cr})
			continue
		}

		run := a.scorer.Score(cr.Final, cr.Threshold)
		relPath := fmt.Sprintf("rr_threshold_%d/final_result_rr_%d.csv", cr.Threshold, cr.Threshold)

		if err := dataset.SaveTrades(filepath.Join(a.cfg.Output.Dir, filepath.FromSlash(relPath)), cr.Final); err != nil {
			return nil, err
		}

		a.metrics.RecordThreshold("survived")
		a.logger.Info("threshold survived",
			zap.Int("threshold", cr.Threshold),
			zap.Int("trades", run.TradeCount),
			zap.Float64("net_score", run.NetScore),
			zap.Int("max_losing_streak", run.MaxLosingStreak),
		)

		res.Rows = append(res.Rows, report.MetricsRow{Run: run, FilePath: relPath})
		res.Sections = append(res.Sections, report.ThresholdSection{Cascade: cr, Run: &run})
	}

	if err := a.writeOutput(MetricsSummaryFile, report.RenderMetricsSummary(res.Rows)); err != nil {
		return nil, err
	}
	if err := a.writeOutput(ThresholdReportFile, report.RenderThresholdReport(res.Sections)); err != nil {
		return nil, err
	}

	a.logger.Info("analysis complete",
		zap.Int("thresholds", len(results)),
		zap.Int("survived", res.Survived()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

// Drawdown searches every reward level of the configured trade file for
// its worst cumulative drawdown and writes the results and report.
func (a *App) Drawdown(ctx context.Context) ([]engine.DrawdownRecord, error) {
	trades, err := a.loadTrades()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := a.drawdown.Run(ctx, trades)
	if err != nil {
		a.metrics.RecordDrawdown("cancelled", time.Since(start).Seconds())
		return records, err
	}
	a.metrics.RecordDrawdown("ok", time.Since(start).Seconds())

	if err := a.writeOutput(DrawdownFile, report.RenderDrawdownResults(records)); err != nil {
		return records, err
	}
	if err := a.writeOutput(DrawdownReportFile, report.RenderDrawdownReport(records)); err != nil {
		return records, err
	}

	a.logger.Info("drawdown search complete",
		zap.Int("levels", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return records, nil
}

// ScreenResult collects the screen stage outputs.
type ScreenResult struct {
	Rows      []report.ScreenRow
	Summaries []categorize.GroupSummary
	Passed    int
}

// Screen groups the configured trade file along one dimension, evaluates
// each group's profitability, and writes passing group files, the group
// summary, and the screening report.
func (a *App) Screen(ctx context.Context, dimension string) (*ScreenResult, error) {
	trades, err := a.loadTrades()
	if err != nil {
		return nil, err
	}

	var groups []categorize.Group
	switch dimension {
	case "distance":
		groups = categorize.ByDistance(trades)
	case "hour":
		groups = categorize.ByHour(trades)
	case "weekday":
		groups = categorize.ByWeekday(trades)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown dimension %q (want distance, hour, or weekday)", dimension))
	}

	res := &ScreenResult{Summaries: categorize.Summarize(groups)}
	for _, g := range groups {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		verdict := engine.EvaluateProfitability(g.Trades)
		res.Rows = append(res.Rows, report.ScreenRow{Name: g.Name, Verdict: verdict})
		if !verdict.Pass {
			continue
		}
		res.Passed++

		kept := g.Trades.Clone()
		core.SortChronological(kept)
		path := filepath.Join(a.cfg.Output.Dir, "screen_"+dimension, g.Name+".csv")
		if err := dataset.SaveTrades(path, kept); err != nil {
			return nil, err
		}
	}

	if err := a.writeOutput(GroupSummaryFile, report.RenderGroupSummary(res.Summaries)); err != nil {
		return nil, err
	}
	if err := a.writeOutput(ScreenReportFile, report.RenderScreenReport(res.Rows)); err != nil {
		return nil, err
	}

	a.logger.Info("screen complete",
		zap.String("dimension", dimension),
		zap.Int("groups", len(groups)),
		zap.Int("passed", res.Passed),
	)

	return res, nil
}

// Diff writes the trades present in originalPath but missing from
// filteredPath to the removed-trades file and returns how many there were.
func (a *App) Diff(originalPath, filteredPath string) (int, error) {
	original, err := dataset.LoadTrades(originalPath)
	if err != nil {
		return 0, err
	}
	filtered, err := dataset.LoadTrades(filteredPath)
	if err != nil {
		return 0, err
	}

	kept := make(map[string]struct{}, len(filtered))
	for _, t := range filtered {
		kept[t.Key()] = struct{}{}
	}

	var removed core.TradeList
	for _, t := range original {
		if _, ok := kept[t.Key()]; !ok {
			removed = append(removed, t)
		}
	}

	if err := dataset.SaveTrades(filepath.Join(a.cfg.Output.Dir, RemovedTradesFile), removed); err != nil {
		return 0, err
	}

	a.logger.Info("diff complete",
		zap.Int("original", len(original)),
		zap.Int("filtered", len(filtered)),
		zap.Int("removed", len(removed)),
	)

	return len(removed), nil
}

// Run executes the full pipeline: analyze, drawdown, then the optional
// archive upload and database export.
func (a *App) Run(ctx context.Context) error {
	analysis, err := a.Analyze(ctx)
	if err != nil {
		return err
	}

	records, err := a.Drawdown(ctx)
	if err != nil {
		return err
	}

	if a.store != nil {
		uploader := archive.NewUploader(a.store, a.cfg.Archive.Retries)
		n, err := uploader.UploadDir(ctx, a.cfg.Output.Dir, "runs/"+a.runID)
		if err != nil {
			a.metrics.RecordArchiveUploads("error", 1)
			return err
		}
		a.metrics.RecordArchiveUploads("ok", n)
		a.logger.Info("results archived", zap.Int("files", n))
	}

	if a.db != nil {
		if err := a.db.SaveThresholdMetrics(ctx, a.runID, analysis.Rows); err != nil {
			return err
		}
		a.metrics.RecordRowsExported("threshold_metrics", len(analysis.Rows))

		if err := a.db.SaveDrawdownResults(ctx, a.runID, records); err != nil {
			return err
		}
		a.metrics.RecordRowsExported("drawdown_results", len(records))

		a.logger.Info("results exported",
			zap.Int("threshold_rows", len(analysis.Rows)),
			zap.Int("drawdown_rows", len(records)),
		)
	}

	a.logger.Info("run complete")
	return nil
}

func (a *App) loadTrades() (core.TradeList, error) {
	trades, err := dataset.LoadTrades(a.cfg.Input.Trades)
	if err != nil {
		return nil, err
	}

	a.metrics.SetTradesLoaded(len(trades))
	a.logger.Info("trades loaded",
		zap.String("path", a.cfg.Input.Trades),
		zap.Int("count", len(trades)),
	)

	if len(trades) == 0 {
		a.logger.Warn("trade file is empty")
	}

	return trades, nil
}

func (a *App) writeOutput(name, content string) error {
	path := filepath.Join(a.cfg.Output.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	return nil
}
