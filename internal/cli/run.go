package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goShredstore/internal/storage/blockstore"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [ledger-dir]",
	Short: "Run the storage daemon",
	Long: `Run opens the store and keeps it available until interrupted, logging a
periodic throughput sample when [perf] sampling is enabled.

The backend holds an exclusive lock on the ledger directory, so the
maintenance subcommands cannot operate on it while the daemon is up.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	store, err := openStore(cfg, logger, ledgerDirArg(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig.String()).Info("received shutdown signal")
		cancel()
	}()

	if cfg.Perf.Enabled {
		go perfLogLoop(ctx, store, logger, time.Duration(cfg.Perf.SamplePeriodSecs)*time.Second)
	}

	if !quiet {
		path := cfg.Ledger.Path
		if dir := ledgerDirArg(args); dir != "" {
			path = dir
		}
		fmt.Printf("shredstored serving %s (backend: %s)\n", path, cfg.Ledger.Backend)
		fmt.Println("Press Ctrl+C to stop.")
	}

	<-ctx.Done()
	logger.Info("shutting down")
}

// perfLogLoop logs insert throughput and cache counters once per period.
func perfLogLoop(ctx context.Context, store *blockstore.Store, logger *logrus.Logger, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := store.InsertStats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := store.InsertStats()
			cache := store.CacheStats()
			logger.WithFields(logrus.Fields{
				"shreds_inserted": now.ShredsInserted - last.ShredsInserted,
				"slots_completed": now.SlotsCompleted - last.SlotsCompleted,
				"batches_written": now.BatchesWritten - last.BatchesWritten,
				"cache_entries":   cache.Entries,
				"max_root":        store.MaxRoot(),
			}).Info("throughput sample")
			last = now
		}
	}
}
