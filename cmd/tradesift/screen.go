package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradesift/internal/app"
)

var (
	screenBy     string
	screenTrades string
	screenOut    string
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Evaluate profitability per trade group",
	Long: `Screen splits the trade file into groups along one dimension (distance,
hour, or weekday), runs the escalating take-profit evaluation on each
group, and writes the passing groups, the group summary, and the
screening report.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().StringVar(&screenBy, "by", "", "grouping dimension: distance, hour, or weekday (required)")
	screenCmd.Flags().StringVar(&screenTrades, "trades", "", "trade file (overrides config)")
	screenCmd.Flags().StringVar(&screenOut, "out", "", "output directory (overrides config)")

	screenCmd.MarkFlagRequired("by")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if screenTrades != "" {
		cfg.Input.Trades = screenTrades
	}
	if screenOut != "" {
		cfg.Output.Dir = screenOut
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("screen"))
	if err != nil {
		return err
	}

	res, err := a.Screen(cmd.Context(), screenBy)
	if err != nil {
		return err
	}

	fmt.Printf("%d of %d groups pass\n", res.Passed, len(res.Rows))
	fmt.Printf("Results written to %s\n", cfg.Output.Dir)

	return nil
}
