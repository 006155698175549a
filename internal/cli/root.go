package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pelestrom/mondjai-budget-manager/internal/config"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/budget"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/ledger"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/storage"
	"github.com/Pelestrom/mondjai-budget-manager/pkg/tracker"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	cfgFile string
	owner   string
)

var rootCmd = &cobra.Command{
	Use:   "mondjai",
	Short: "Mondjai - Personal finance tracking with budget alerts",
	Long: `Mondjai tracks personal income and expenses against category and global
budgets. When spending crosses a budget threshold it emits deduplicated
notifications, with a cooldown so repeated alerts never become spam.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.mondjai/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "owner account id (default from config)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// ownerID resolves the owner flag against the configured default.
func ownerID(cfg *config.Config) string {
	if owner != "" {
		return owner
	}
	return cfg.Defaults.Owner
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initTracker creates a fully wired tracker.
func initTracker(cfg *config.Config) (*tracker.Tracker, storage.Storage, error) {
	logger := newLogger(cfg)

	store, err := storage.NewSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	ledgerStore, err := ledger.NewFileStore(cfg.Ledger.Dir)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	cooldown, err := time.ParseDuration(cfg.Ledger.Cooldown)
	if err != nil {
		cooldown = ledger.DefaultCooldown
	}

	evaluator := budget.NewEvaluator(store, ledgerStore, cooldown, logger)
	return tracker.New(store, evaluator, logger), store, nil
}
