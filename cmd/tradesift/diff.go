package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradesift/internal/app"
)

var diffOut string

var diffCmd = &cobra.Command{
	Use:   "diff [original] [filtered]",
	Short: "Extract the trades a filtering step removed",
	Long: `Diff compares two trade files by open time and direction and writes the
trades present in the original but missing from the filtered file.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffOut, "out", "", "output directory (overrides config)")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if diffOut != "" {
		cfg.Output.Dir = diffOut
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("diff"))
	if err != nil {
		return err
	}

	removed, err := a.Diff(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("%d trades removed\n", removed)
	fmt.Printf("Results written to %s\n", cfg.Output.Dir)

	return nil
}
