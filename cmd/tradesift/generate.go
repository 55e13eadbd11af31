package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradesift/internal/app"
)

var (
	generateCandles string
	generateOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Simulate trades from a candle file",
	Long: `Generate replays a candle history, opening one simulated trade per candle
(entry offset from the close, stop beyond the candle extreme) and tracking
each forward until it stops out, then writes the resulting trade file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateCandles, "candles", "", "candle file (overrides config)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "trade file to write (overrides config)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateCandles != "" {
		cfg.Input.Candles = generateCandles
	}
	if generateOut != "" {
		cfg.Input.Trades = generateOut
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("generate"))
	if err != nil {
		return err
	}

	stats, err := a.Generate(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%d trades opened (%d filtered, %d still open at end)\n",
		stats.Opened, stats.Filtered, stats.OpenAtEnd)
	fmt.Printf("Trades written to %s\n", cfg.Input.Trades)

	return nil
}
