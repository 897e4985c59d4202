package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goShredstore/internal/config"
	"github.com/LeJamon/goShredstore/internal/storage/blockstore"
)

var (
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shredstored",
	Short: "shredstored - persistent shred ledger storage",
	Long: `shredstored maintains the persistent shred ledger: raw data and parity
shreds, per-slot ingestion progress, erasure set bookkeeping, duplicate
evidence and frozen hash records.

The subcommands operate on a ledger directory for inspection, auditing
and maintenance; run keeps the store open as a daemon.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}

// loadConfig loads the configuration, honoring the --conf flag.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.LoadDefault()
}

// newLogger builds a logger from the config. The global level flags win over
// the configured level.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := cfg.Log.ParseLevel()
	if err != nil {
		return nil, err
	}
	switch {
	case debug:
		level = logrus.DebugLevel
	case verbose:
		level = logrus.TraceLevel
	case quiet:
		level = logrus.ErrorLevel
	}
	logger.SetLevel(level)

	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
	}

	return logger, nil
}

// openStore opens the blockstore described by the config. A non-empty
// ledgerDir overrides the configured path, so the maintenance commands can
// point at any ledger directory without a config file.
func openStore(cfg *config.Config, logger *logrus.Logger, ledgerDir string) (*blockstore.Store, error) {
	opts := blockstore.Options{
		Path:         cfg.Ledger.Path,
		Backend:      cfg.Ledger.Backend,
		Compression:  cfg.Ledger.Compression,
		CacheSize:    cfg.Ledger.CacheSize,
		ShredVersion: uint16(cfg.Ledger.ShredVersion),
		Logger:       logger,
	}
	if ledgerDir != "" {
		opts.Path = ledgerDir
	}
	return blockstore.Open(opts)
}

// ledgerDirArg returns the optional positional ledger directory argument.
func ledgerDirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// setupCommand performs the shared preamble of the store-backed commands.
func setupCommand(args []string) (*config.Config, *blockstore.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg, logger, ledgerDirArg(args))
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
