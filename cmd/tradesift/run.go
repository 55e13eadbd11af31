package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradesift/internal/app"
	"tradesift/internal/metrics"
)

var (
	runTrades string
	runOut    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Run executes analyze and drawdown over the trade file, then uploads the
output directory to the archive and exports the results to the database
when those sinks are enabled. SIGINT aborts the run cleanly.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTrades, "trades", "", "trade file (overrides config)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output directory (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runTrades != "" {
		cfg.Input.Trades = runTrades
	}
	if runOut != "" {
		cfg.Output.Dir = runOut
	}

	log := newLogger(cfg)
	defer log.Sync()

	a, err := app.New(cfg, log.Named("run"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expose metrics for scraping while the run is active
	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(a.Metrics(), cfg.Metrics.Addr, cfg.Metrics.Path)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("metrics exposed", zap.String("addr", cfg.Metrics.Addr))
	}

	if err := a.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("Run %s complete\n", a.RunID())
	fmt.Printf("Results written to %s\n", cfg.Output.Dir)

	return nil
}
