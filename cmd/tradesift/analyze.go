package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradesift/internal/app"
)

var (
	analyzeTrades string
	analyzeOut    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the filter cascade over a trade file",
	Long: `Analyze derives every reward/risk threshold from the trade file, runs the
distance, hour, and weekday filter stages for each, scores the survivors,
and writes survivor files, the metrics summary, and the threshold report.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTrades, "trades", "", "trade file (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output directory (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeTrades != "" {
		cfg.Input.Trades = analyzeTrades
	}
	if analyzeOut != "" {
		cfg.Output.Dir = analyzeOut
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("analyze"))
	if err != nil {
		return err
	}

	res, err := a.Analyze(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%d thresholds analyzed, %d survived\n", len(res.Sections), res.Survived())
	fmt.Printf("Results written to %s\n", cfg.Output.Dir)

	return nil
}
