package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradesift/internal/app"
)

var (
	drawdownTrades string
	drawdownOut    string
	drawdownZeroSL string
)

var drawdownCmd = &cobra.Command{
	Use:   "drawdown",
	Short: "Search every reward level for its worst drawdown",
	Long: `Drawdown walks the trade file chronologically once per whole reward level,
restarting the cumulative sum at the list start and after every stop loss,
and reports the lowest point each level can reach.`,
	RunE: runDrawdown,
}

func init() {
	drawdownCmd.Flags().StringVar(&drawdownTrades, "trades", "", "trade file (overrides config)")
	drawdownCmd.Flags().StringVar(&drawdownOut, "out", "", "output directory (overrides config)")
	drawdownCmd.Flags().StringVar(&drawdownZeroSL, "zero-sl-policy", "", "lists without stop losses: skip or zero (overrides config)")

	rootCmd.AddCommand(drawdownCmd)
}

func runDrawdown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if drawdownTrades != "" {
		cfg.Input.Trades = drawdownTrades
	}
	if drawdownOut != "" {
		cfg.Output.Dir = drawdownOut
	}
	if drawdownZeroSL != "" {
		cfg.Drawdown.ZeroStopLossPolicy = drawdownZeroSL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("drawdown"))
	if err != nil {
		return err
	}

	records, err := a.Drawdown(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%d reward levels searched\n", len(records))
	fmt.Printf("Results written to %s\n", cfg.Output.Dir)

	return nil
}
