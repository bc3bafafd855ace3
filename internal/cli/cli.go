//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-olist-etl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/config"
	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
	"github.com/pgEdge/pgedge-olist-etl/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	dataDir    string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-olist-etl",
		Short: "Batch ETL of the Olist e-commerce extracts into PostgreSQL",
		Long: `pgedge-olist-etl loads the Olist e-commerce CSV extracts into raw
PostgreSQL tables, rebuilds cleaned stg_* staging tables from them, and
aggregates those into the fact_orders, fact_daily_orders and dim_date marts.

Every staging and mart table is dropped and recreated inside a single
transaction, so rebuilds can be repeated safely. The raw load appends.

Typical cold build:
  pgedge-olist-etl init
  pgedge-olist-etl run
  pgedge-olist-etl verify --checks`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-olist-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding the CSV extracts, relative to the working directory (overrides OLIST_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(stagingCmd)
	rootCmd.AddCommand(martsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pingCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.DatabaseURL = connection
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM. Cancelling
// it rolls back the transaction in progress.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// connect validates the configuration and opens a pool.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// stageOptions builds pipeline options from the loaded configuration.
func stageOptions(tables []string) pipeline.Options {
	return pipeline.Options{
		DataDir:              cfg.DataDir,
		GeolocationBatchSize: cfg.Load.GeolocationBatchSize,
		ProgressInterval:     cfg.Load.ProgressInterval,
		Tables:               tables,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stages and the tables they produce",
	Long: `List the pipeline stages in run order. Each stage can be run on its
own; a cold build runs them in the order shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Println("Pipeline stages:")
		for _, name := range pipeline.Sequence {
			stage, err := pipeline.Get(name)
			if err != nil {
				return err
			}
			cmd.Println()
			cmd.Printf("  %-8s - %s\n", stage.Name(), stage.Description())
			cmd.Printf("             %s\n", strings.Join(stage.Tables(), ", "))
		}
		return nil
	},
}
