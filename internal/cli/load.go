package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
	"github.com/pgEdge/pgedge-olist-etl/internal/raw"
)

var loadTruncate bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Append the CSV extracts to the raw tables",
	Long: `Read the nine Olist CSV extracts from the data directory and append
their rows to the raw tables, loading tables without foreign keys first.
Products whose category is missing from the category translation file
are loaded with a NULL category.

The load appends: running it twice duplicates rows unless --truncate is
given, which empties every raw table first.

The data directory defaults to data/raw and, like the .env file, is
resolved against the working directory. Run from the project root or pass
an absolute --data-dir.

Example:
  pgedge-olist-etl load --data-dir ./data/raw --truncate`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadTruncate, "truncate", false,
		"truncate the raw tables before loading (destroys loaded data)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if loadTruncate {
		if err := raw.Truncate(ctx, pool); err != nil {
			return fmt.Errorf("failed to truncate raw tables: %w", err)
		}
	}

	results, err := pipeline.Run(ctx, pool, []string{pipeline.StageRaw}, stageOptions(nil))
	printStageResults(cmd, results)
	return err
}
