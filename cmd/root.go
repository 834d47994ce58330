package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
	"github.com/itqanlabs/itqan/internal/llm"
	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "itqan",
	Short: "Adaptive Arabic reading practice backend",
	Long:  "Itqan is an adaptive learning backend that turns a child's pronunciation errors into personalized Arabic stories and drills.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN (overrides ITQAN_DB_DSN)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite or postgres (overrides ITQAN_DB_DRIVER)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(exercisesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(statsCmd)
}

// openStore resolves the database settings (flags beat env) and opens
// the store, migrating on the way.
func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	driver := cfg.DBDriver
	if f, _ := cmd.Flags().GetString("db-driver"); f != "" {
		driver = f
	}
	dsn := cfg.DBDSN
	if f, _ := cmd.Flags().GetString("db"); f != "" {
		dsn = f
	}

	if driver == store.DriverSQLite {
		if dsn == "" {
			p, err := config.DefaultSQLitePath()
			if err != nil {
				return nil, fmt.Errorf("resolve db path: %w", err)
			}
			dsn = p
		} else if err := config.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("prepare db path: %w", err)
		}
	}
	return store.Open(driver, dsn)
}

// newLogger builds the process logger from config.
func newLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(cfg.LogMode)
}

// newProvider wires the model provider with audit and retry middleware.
func newProvider(ctx context.Context, st *store.Store) (llm.Provider, error) {
	llmCfg := llm.ConfigFromEnv()
	if llmCfg.Validate() != nil {
		// Unconfigured prefix vars: fall back to standard key discovery.
		if discovered, ok := llm.DiscoverConfig(); ok {
			llmCfg = discovered
		}
	}
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, llmCfg, st.Audit())
}
