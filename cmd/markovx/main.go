// Command markovx computes dice combat odds, chutes and ladders statistics,
// Markov chain simulations and Viterbi OCR corrections.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/comalice/markovx"
	"github.com/comalice/markovx/internal/config"
	"github.com/comalice/markovx/internal/production"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	dbPath  string
	outDir  string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "markovx",
	Short: "Probability tables, Markov chains and Viterbi decoding",
	Long: `markovx runs a set of small probability computations:

  dice      win and tie odds for dice combat
  board     chutes and ladders transition matrix and expected game length
  simulate  random walks over a Markov chain with a restart rule
  correct   OCR correction with an n-gram model and the Viterbi algorithm
  dot       Graphviz rendering of a chain`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("out") {
			cfg.OutDir = outDir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		zcfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "markovx.yaml", "Config file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Record results in this SQLite database (or set MARKOVX_DB)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "Write report files to this directory")

	rootCmd.AddCommand(diceCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(dotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// record persists report to the configured report directory and database.
func record(ctx context.Context, report markovx.Report) error {
	if cfg.OutDir != "" {
		var p markovx.ReportPersister
		var err error
		if cfg.Format == "yaml" {
			p, err = production.NewYAMLPersister(cfg.OutDir)
		} else {
			p, err = production.NewJSONPersister(cfg.OutDir)
		}
		if err != nil {
			return err
		}
		if err := p.Save(ctx, report); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		logger.Debug("report written", zap.String("dir", cfg.OutDir), zap.String("name", report.Name))
	}

	if cfg.DBPath != "" {
		store, err := production.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(ctx, report)
		if err != nil {
			return err
		}
		logger.Info("result recorded", zap.String("id", id), zap.String("kind", report.Kind), zap.String("name", report.Name))
	}
	return nil
}
